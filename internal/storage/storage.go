package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/huntable/treasurehunt-api/config"
)

// ErrPresignUnsupported is returned by stores that cannot hand out URLs
var ErrPresignUnsupported = errors.New("presigned URLs not supported")

// Store holds photo bytes under a key. Photo ownership lives here;
// the database only ever records keys.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// PresignURL returns a time-limited GET URL for the key, for
	// by-reference photo validation.
	PresignURL(ctx context.Context, key string) (string, error)
	Name() string
}

// New creates a store based on the configuration
func New(cfg *config.Config) (Store, error) {
	switch cfg.Storage.Provider {
	case "s3":
		return NewS3Store(&cfg.S3)
	case "local":
		return NewLocalStore(cfg.Storage.LocalDir)
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Storage.Provider)
	}
}
