package ai

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/huntable/treasurehunt-api/config"
	"github.com/huntable/treasurehunt-api/internal/logger"
	"github.com/huntable/treasurehunt-api/internal/models"
)

// OllamaClient runs generation and photo validation against a local
// ollama instance. Intended for development without a Groq account.
type OllamaClient struct {
	client *api.Client
	config *config.OllamaConfig
	logger *logger.Log
}

func NewOllamaClient(cfg *config.OllamaConfig) (*OllamaClient, error) {
	host, err := url.Parse(cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", cfg.Host, err)
	}

	return &OllamaClient{
		client: api.NewClient(host, http.DefaultClient),
		config: cfg,
		logger: logger.New(),
	}, nil
}

func (c *OllamaClient) GenerateActivities(ctx context.Context, req GenerateRequest) ([]GeneratedActivity, error) {
	response, err := c.generate(ctx, c.config.TextModel, generationPrompt(req), nil, 0.8)
	if err != nil {
		return nil, err
	}
	return parseGeneratedActivities(response, req.Location)
}

func (c *OllamaClient) ValidatePhoto(ctx context.Context, photo Photo, activityDescription, criteria string) (*Verdict, error) {
	if photo.URL != "" {
		return nil, fmt.Errorf("%w: ollama provider cannot fetch photos by reference", models.ErrUpstream)
	}

	prompt := validationPrompt(activityDescription, criteria)
	response, err := c.generate(ctx, c.config.VisionModel, prompt, []api.ImageData{photo.Data}, 0.2)
	if err != nil {
		return nil, err
	}
	return parseVerdict(response)
}

func (c *OllamaClient) generate(ctx context.Context, model, prompt string, images []api.ImageData, temperature float64) (string, error) {
	shouldStream := false

	req := &api.GenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: &shouldStream,
		Images: images,
		Options: map[string]interface{}{
			"temperature": temperature,
		},
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(c.config.Timeout)*time.Second)
	defer cancel()

	c.logger.Debug(fmt.Sprintf("Generating response with model %s", model))

	var response string
	f := func(g api.GenerateResponse) error {
		response = g.Response
		return nil
	}

	if err := c.client.Generate(timeoutCtx, req, f); err != nil {
		c.logger.WithError(err).Error("Failed to generate response")
		return "", fmt.Errorf("%w: ollama generation failed: %v", models.ErrUpstream, err)
	}

	return response, nil
}
