package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/huntable/treasurehunt-api/config"
	"github.com/huntable/treasurehunt-api/internal/logger"
	"github.com/huntable/treasurehunt-api/internal/models"
)

// GroqClient talks to Groq's OpenAI-compatible chat completions API,
// using a text model for generation and a vision model for photo checks.
type GroqClient struct {
	apiKey     string
	baseURL    string
	config     *config.GroqConfig
	media      *config.MediaConfig
	logger     *logger.Log
	httpClient *http.Client
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"` // string, or []contentPart for vision
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

func NewGroqClient(cfg *config.GroqConfig, media *config.MediaConfig) (*GroqClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai/v1"
	}

	return &GroqClient{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		config:  cfg,
		media:   media,
		logger:  logger.New(),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.VisionTimeout) * time.Second,
		},
	}, nil
}

func (c *GroqClient) GenerateActivities(ctx context.Context, req GenerateRequest) ([]GeneratedActivity, error) {
	chatReq := chatRequest{
		Model: c.config.TextModel,
		Messages: []chatMessage{
			{Role: "user", Content: generationPrompt(req)},
		},
		Temperature: 0.8,
		MaxTokens:   c.config.MaxTokens,
		Stream:      false,
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(c.config.Timeout)*time.Second)
	defer cancel()

	c.logger.Debug(fmt.Sprintf("Generating %d activities with model %s", req.Count, c.config.TextModel))

	content, err := c.complete(timeoutCtx, chatReq)
	if err != nil {
		return nil, err
	}

	return parseGeneratedActivities(content, req.Location)
}

func (c *GroqClient) ValidatePhoto(ctx context.Context, photo Photo, activityDescription, criteria string) (*Verdict, error) {
	image, err := c.imagePart(photo)
	if err != nil {
		return nil, err
	}

	chatReq := chatRequest{
		Model: c.config.VisionModel,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: validationPrompt(activityDescription, criteria)},
					image,
				},
			},
		},
		Temperature: 0.2,
		MaxTokens:   256,
		Stream:      false,
	}

	c.logger.Debug(fmt.Sprintf("Validating photo with model %s", c.config.VisionModel))

	content, err := c.complete(ctx, chatReq)
	if err != nil {
		return nil, err
	}

	return parseVerdict(content)
}

// imagePart enforces the upstream size limits: inline base64 up to the
// inline cap, by-reference URL up to the upload cap.
func (c *GroqClient) imagePart(photo Photo) (contentPart, error) {
	if photo.URL != "" {
		return contentPart{Type: "image_url", ImageURL: &imageURL{URL: photo.URL}}, nil
	}

	if int64(len(photo.Data)) > c.media.MaxInlineBytes {
		return contentPart{}, fmt.Errorf("%w: photo exceeds %d byte inline limit", models.ErrInvalidInput, c.media.MaxInlineBytes)
	}

	contentType := photo.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	encoded := base64.StdEncoding.EncodeToString(photo.Data)
	return contentPart{
		Type:     "image_url",
		ImageURL: &imageURL{URL: fmt.Sprintf("data:%s;base64,%s", contentType, encoded)},
	}, nil
}

func (c *GroqClient) complete(ctx context.Context, chatReq chatRequest) (string, error) {
	requestBody, err := json.Marshal(chatReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.WithError(err).Error("Groq request failed")
		return "", fmt.Errorf("%w: groq request failed: %v", models.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response body: %v", models.ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error(fmt.Sprintf("Groq API returned status %d: %s", resp.StatusCode, string(body)))
		return "", fmt.Errorf("%w: groq API status %d", models.ErrUpstream, resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("%w: failed to unmarshal response: %v", models.ErrUpstream, err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("%w: groq API error: %s", models.ErrUpstream, chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in groq response", models.ErrUpstream)
	}

	c.logger.Debug(fmt.Sprintf("Groq response: %d tokens used", chatResp.Usage.TotalTokens))

	return chatResp.Choices[0].Message.Content, nil
}
