package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig     `envconfig:"SERVER"`
	Database   DatabaseConfig   `envconfig:"DB"`
	Redis      RedisConfig      `envconfig:"REDIS"`
	Storage    StorageConfig    `envconfig:"STORAGE"`
	JWT        JWTConfig        `envconfig:"JWT"`
	Zoom       ZoomConfig       `envconfig:"ZOOM"`
	AssemblyAI AssemblyAIConfig `envconfig:"ASSEMBLYAI"`
	Generation GenerationConfig `envconfig:"GENERATION"`
	Pipeline   PipelineConfig   `envconfig:"PIPELINE"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string        `split_words:"true" default:"8080"`
	Host            string        `split_words:"true" default:"0.0.0.0"`
	Environment     string        `split_words:"true" default:"development"`
	AllowedOrigins  []string      `split_words:"true" default:"http://localhost:3000"`
	FrontendURL     string        `split_words:"true" default:"http://localhost:3000"`
	ShutdownTimeout time.Duration `split_words:"true" default:"15s"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `split_words:"true" default:"localhost"`
	Port     string `split_words:"true" default:"5432"`
	User     string `split_words:"true" default:"postgres"`
	Password string `split_words:"true" default:"postgres"`
	Name     string `split_words:"true" default:"meeting_insights"`
	SSLMode  string `split_words:"true" default:"disable"`
	MaxConns int    `split_words:"true" default:"25"`
	MinConns int    `split_words:"true" default:"5"`
}

// RedisConfig holds Redis configuration. When disabled, OAuth state and
// refresh locks fall back to process memory.
type RedisConfig struct {
	Enabled  bool   `split_words:"true" default:"false"`
	Host     string `split_words:"true" default:"localhost"`
	Port     string `split_words:"true" default:"6379"`
	Password string `split_words:"true"`
	DB       int    `split_words:"true" default:"0"`
}

// StorageConfig holds the transcript archive settings
type StorageConfig struct {
	Enabled         bool   `split_words:"true" default:"false"`
	Endpoint        string `split_words:"true" default:"localhost:9000"`
	AccessKeyID     string `split_words:"true" default:"minioadmin"`
	SecretAccessKey string `split_words:"true" default:"minioadmin"`
	BucketName      string `split_words:"true" default:"meeting-transcripts"`
	UseSSL          bool   `split_words:"true" default:"false"`
}

// JWTConfig holds bearer token verification settings
type JWTConfig struct {
	AccessSecret string        `split_words:"true" default:"your-access-secret-change-in-production"`
	Issuer       string        `split_words:"true" default:"meeting-insights"`
	AccessExpiry time.Duration `split_words:"true" default:"15m"`
}

// ZoomConfig holds the Zoom OAuth app and API settings
type ZoomConfig struct {
	ClientID      string `split_words:"true"`
	ClientSecret  string `split_words:"true"`
	RedirectURL   string `split_words:"true" default:"http://localhost:8080/api/v1/integrations/zoom/callback"`
	WebhookSecret string `split_words:"true"`
	AuthBaseURL   string `split_words:"true" default:"https://zoom.us"`
	APIBaseURL    string `split_words:"true" default:"https://api.zoom.us"`
	AudioFileType string `split_words:"true" default:"M4A"`
	ScratchDir    string `split_words:"true"`
}

// AssemblyAIConfig holds transcription provider settings
type AssemblyAIConfig struct {
	APIKey       string `split_words:"true"`
	BaseURL      string `split_words:"true" default:"https://api.assemblyai.com"`
	LanguageCode string `split_words:"true" default:"en"`
}

// GenerationConfig selects and configures the generative-text provider
type GenerationConfig struct {
	Provider          string `split_words:"true" default:"cohere"`
	CohereAPIKey      string `split_words:"true"`
	CohereModel       string `split_words:"true" default:"command-r-plus"`
	CohereBaseURL     string `split_words:"true" default:"https://api.cohere.com"`
	GroqAPIKey        string `split_words:"true"`
	GroqModel         string `split_words:"true" default:"llama-3.3-70b-versatile"`
	GroqBaseURL       string `split_words:"true" default:"https://api.groq.com"`
	RequestsPerMinute int    `split_words:"true" default:"60"`
	SpeakerWorkers    int    `split_words:"true" default:"4"`
}

// PipelineConfig holds polling and worker settings
type PipelineConfig struct {
	PollInterval       time.Duration `split_words:"true" default:"5s"`
	DiarizationTimeout time.Duration `split_words:"true" default:"600s"`
	SummaryTimeout     time.Duration `split_words:"true" default:"600s"`
	Workers            int           `split_words:"true" default:"2"`
	JobTimeout         time.Duration `split_words:"true" default:"30m"`
	JobPollInterval    time.Duration `split_words:"true" default:"3s"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Zoom.ClientID == "" {
		return fmt.Errorf("ZOOM_CLIENT_ID is required")
	}
	if c.Zoom.ClientSecret == "" {
		return fmt.Errorf("ZOOM_CLIENT_SECRET is required")
	}
	if c.AssemblyAI.APIKey == "" {
		return fmt.Errorf("ASSEMBLYAI_API_KEY is required")
	}
	switch strings.ToLower(c.Generation.Provider) {
	case "cohere":
		if c.Generation.CohereAPIKey == "" {
			return fmt.Errorf("GENERATION_COHERE_API_KEY is required")
		}
	case "groq":
		if c.Generation.GroqAPIKey == "" {
			return fmt.Errorf("GENERATION_GROQ_API_KEY is required")
		}
	default:
		return fmt.Errorf("unsupported GENERATION_PROVIDER %q", c.Generation.Provider)
	}
	if c.Pipeline.PollInterval <= 0 {
		return fmt.Errorf("PIPELINE_POLL_INTERVAL must be positive")
	}
	return nil
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Server.Environment, "development")
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
