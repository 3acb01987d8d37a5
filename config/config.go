package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	AI       AIConfig       `mapstructure:"ai"`
	Groq     GroqConfig     `mapstructure:"groq"`
	Ollama   OllamaConfig   `mapstructure:"ollama"`
	Storage  StorageConfig  `mapstructure:"storage"`
	S3       S3Config       `mapstructure:"s3"`
	Media    MediaConfig    `mapstructure:"media"`
	Tts      TtsConfig      `mapstructure:"tts"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"` // postgres:// URL or sqlite file path
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	TokenTTL  int    `mapstructure:"token_ttl"`  // hours
	RateLimit int    `mapstructure:"rate_limit"` // requests per minute per client
}

// AI provider selection
type AIConfig struct {
	Provider string `mapstructure:"provider"` // "groq" or "ollama"
}

type GroqConfig struct {
	APIKey        string `mapstructure:"api_key"`
	BaseURL       string `mapstructure:"base_url"` // Groq's OpenAI-compatible endpoint
	TextModel     string `mapstructure:"text_model"`
	VisionModel   string `mapstructure:"vision_model"`
	MaxTokens     int    `mapstructure:"max_tokens"`
	Timeout       int    `mapstructure:"timeout"`        // seconds, text calls
	VisionTimeout int    `mapstructure:"vision_timeout"` // seconds, photo validation
}

type OllamaConfig struct {
	Host        string `mapstructure:"host"`
	TextModel   string `mapstructure:"text_model"`
	VisionModel string `mapstructure:"vision_model"`
	Timeout     int    `mapstructure:"timeout"` // seconds
}

type StorageConfig struct {
	Provider string `mapstructure:"provider"` // "s3" or "local"
	LocalDir string `mapstructure:"local_dir"`
}

type S3Config struct {
	Bucket     string `mapstructure:"bucket"`
	Region     string `mapstructure:"region"`
	PresignTTL int    `mapstructure:"presign_ttl"` // minutes
}

type MediaConfig struct {
	MaxUploadBytes     int64 `mapstructure:"max_upload_bytes"` // hard upload limit
	MaxInlineBytes     int64 `mapstructure:"max_inline_bytes"` // above this, photos go to the model by reference
	PhotoMaxAgeMinutes int   `mapstructure:"photo_max_age_minutes"`
}

type TtsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Voice   string `mapstructure:"voice"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Conventional env names used by deploy environments
	viper.BindEnv("database.url", "DATABASE_URL")
	viper.BindEnv("groq.api_key", "GROQ_API_KEY")
	viper.BindEnv("s3.bucket", "S3_BUCKET")
	viper.BindEnv("s3.region", "S3_REGION")
	viper.BindEnv("auth.jwt_secret", "JWT_SECRET")
	viper.BindEnv("auth.rate_limit", "API_RATE_LIMIT")
	viper.BindEnv("media.photo_max_age_minutes", "PHOTO_MAX_AGE_MINUTES")

	viper.SetDefault("database.url", "./treasurehunt.db")

	viper.SetDefault("auth.token_ttl", 24)
	viper.SetDefault("auth.rate_limit", 60)

	viper.SetDefault("ai.provider", "groq")

	viper.SetDefault("groq.base_url", "https://api.groq.com/openai/v1")
	viper.SetDefault("groq.text_model", "llama-3.1-70b-versatile")
	viper.SetDefault("groq.vision_model", "meta-llama/llama-4-scout-17b-16e-instruct")
	viper.SetDefault("groq.max_tokens", 1024)
	viper.SetDefault("groq.timeout", 30)
	viper.SetDefault("groq.vision_timeout", 60)

	viper.SetDefault("ollama.host", "http://localhost:11434")
	viper.SetDefault("ollama.text_model", "llama3.2")
	viper.SetDefault("ollama.vision_model", "llava")
	viper.SetDefault("ollama.timeout", 50)

	viper.SetDefault("storage.provider", "local")
	viper.SetDefault("storage.local_dir", "uploads")

	viper.SetDefault("s3.presign_ttl", 15)

	viper.SetDefault("media.max_upload_bytes", 20*1024*1024)
	viper.SetDefault("media.max_inline_bytes", 4*1024*1024)
	viper.SetDefault("media.photo_max_age_minutes", 60)

	viper.SetDefault("tts.enabled", false)
	viper.SetDefault("tts.voice", "en-AU-Standard-A")

	// Allow environment variables
	viper.SetEnvPrefix("HUNT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// Config file not found, use defaults
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
