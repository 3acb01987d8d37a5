package tts

import (
	"context"

	"github.com/huntable/treasurehunt-api/config"
)

// Speaker turns an activity description into audio a pre-reader can
// listen to.
type Speaker interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
	Name() string
}

// New creates a speaker based on the configuration
func New(cfg *config.TtsConfig) (Speaker, error) {
	if !cfg.Enabled {
		return NewDummySpeaker(), nil
	}
	return NewGoogleSpeaker(cfg.Voice)
}
