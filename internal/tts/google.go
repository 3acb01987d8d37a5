package tts

import (
	"context"
	"fmt"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"

	"github.com/huntable/treasurehunt-api/internal/logger"
)

// GoogleSpeaker synthesizes MP3 audio with Google Cloud Text-to-Speech.
// Credentials come from GOOGLE_APPLICATION_CREDENTIALS.
type GoogleSpeaker struct {
	client *texttospeech.Client
	voice  string
	logger *logger.Log
}

func NewGoogleSpeaker(voice string) (*GoogleSpeaker, error) {
	client, err := texttospeech.NewClient(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to create Google TTS client: %w", err)
	}

	return &GoogleSpeaker{
		client: client,
		voice:  voice,
		logger: logger.New(),
	}, nil
}

// languageCode derives the language from the voice name
// (e.g. "en-AU-Standard-A" -> "en-AU")
func (g *GoogleSpeaker) languageCode() string {
	parts := strings.Split(g.voice, "-")
	if len(parts) >= 2 {
		return fmt.Sprintf("%s-%s", parts[0], parts[1])
	}
	return "en-AU"
}

func (g *GoogleSpeaker) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	req := &ttspb.SynthesizeSpeechRequest{
		Input: &ttspb.SynthesisInput{
			InputSource: &ttspb.SynthesisInput_Text{Text: text},
		},
		Voice: &ttspb.VoiceSelectionParams{
			LanguageCode: g.languageCode(),
			Name:         g.voice,
		},
		AudioConfig: &ttspb.AudioConfig{
			AudioEncoding:   ttspb.AudioEncoding_MP3,
			SpeakingRate:    0.9, // slightly slower for young listeners
			SampleRateHertz: 22050,
		},
	}

	g.logger.Debug(fmt.Sprintf("Synthesizing %d chars with voice %s", len(text), g.voice))

	resp, err := g.client.SynthesizeSpeech(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}
	if len(resp.AudioContent) == 0 {
		return nil, fmt.Errorf("empty audio content from Google TTS")
	}

	return resp.AudioContent, nil
}

func (g *GoogleSpeaker) Name() string {
	return "google"
}

func (g *GoogleSpeaker) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
