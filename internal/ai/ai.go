package ai

import (
	"context"
	"fmt"

	"github.com/huntable/treasurehunt-api/config"
	"github.com/huntable/treasurehunt-api/internal/models"
)

// GenerateRequest asks a provider for a batch of scavenger-hunt activities
type GenerateRequest struct {
	Category models.Category
	AgeMin   int
	AgeMax   int
	Location string
	Count    int
}

// GeneratedActivity is one activity parsed out of a provider response
type GeneratedActivity struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	ValidationPrompt string `json:"ai_validation_prompt"`
	Location         string `json:"location"`
	TokensReward     int    `json:"tokens_reward"`
}

// Photo is a submission image, carried either inline or by reference.
// Exactly one of Data and URL is set.
type Photo struct {
	Data        []byte
	ContentType string
	URL         string
}

// Verdict is the provider's judgement of a completion photo
type Verdict struct {
	Valid     bool   `json:"valid"`
	Reasoning string `json:"reasoning"`
}

// Gateway is the external AI capability: activity text generation and
// photo validation. Single attempt per call, no retries.
type Gateway interface {
	GenerateActivities(ctx context.Context, req GenerateRequest) ([]GeneratedActivity, error)
	ValidatePhoto(ctx context.Context, photo Photo, activityDescription, criteria string) (*Verdict, error)
}

type Provider string

const (
	ProviderGroq   Provider = "groq"
	ProviderOllama Provider = "ollama"
)

// New creates a gateway based on the configuration
func New(cfg *config.Config) (Gateway, error) {
	switch Provider(cfg.AI.Provider) {
	case ProviderGroq:
		return NewGroqClient(&cfg.Groq, &cfg.Media)
	case ProviderOllama:
		return NewOllamaClient(&cfg.Ollama)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.AI.Provider)
	}
}
