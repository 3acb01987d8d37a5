package models

import "errors"

// Error kinds shared across services; handlers map these to HTTP statuses.
var (
	// ErrInvalidInput covers malformed uploads and out-of-range fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned for unknown child or activity ids.
	ErrNotFound = errors.New("not found")

	// ErrStaleMedia is returned when a photo's EXIF timestamp is older
	// than the configured freshness window.
	ErrStaleMedia = errors.New("photo too old")

	// ErrUpstream is returned when the AI provider or object storage
	// fails or answers with something unparseable.
	ErrUpstream = errors.New("upstream error")
)
