package tts

import (
	"context"
	"fmt"
)

// DummySpeaker is used when TTS is not configured
type DummySpeaker struct{}

func NewDummySpeaker() *DummySpeaker {
	return &DummySpeaker{}
}

func (d *DummySpeaker) Synthesize(_ context.Context, _ string) ([]byte, error) {
	return nil, fmt.Errorf("text-to-speech is not configured")
}

func (d *DummySpeaker) Name() string {
	return "dummy"
}
