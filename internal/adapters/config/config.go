package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config represents application configuration
type Config struct {
	Database DatabaseConfig `envconfig:"DATABASE"`
	AI       AIConfig       `envconfig:"AI"`
	Scrapers ScrapersConfig `envconfig:"SCRAPERS"`
	Server   ServerConfig   `envconfig:"SERVER"`
	Telegram TelegramConfig `envconfig:"TELEGRAM"`
	Logging  LoggingConfig  `envconfig:"LOGGING"`
}

// DatabaseConfig represents database connection parameters
type DatabaseConfig struct {
	Host           string `envconfig:"DB_HOST" default:"localhost"`
	Port           int    `envconfig:"DB_PORT" default:"5432"`
	Name           string `envconfig:"DB_NAME" default:"newsradar"`
	User           string `envconfig:"DB_USER" required:"true"`
	Password       string `envconfig:"DB_PASSWORD" required:"true"`
	SSLMode        string `envconfig:"DB_SSLMODE" default:"disable"`
	MigrationsPath string `envconfig:"DB_MIGRATIONS_PATH" default:"migrations"`
}

// GetDSN builds the Postgres connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.Host, c.Port, c.Name, c.User, c.Password, c.SSLMode)
}

// AIConfig represents LLM provider configuration. The default provider and
// model apply to scheduled runs; API-triggered runs may override them per
// request.
type AIConfig struct {
	Provider       string        `envconfig:"AI_PROVIDER" default:"openai"` // openai or groq
	OpenAIAPIKey   string        `envconfig:"OPENAI_API_KEY" required:"false"`
	OpenAIModel    string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	GroqAPIKey     string        `envconfig:"GROQ_API_KEY" required:"false"`
	GroqModel      string        `envconfig:"GROQ_MODEL" default:"llama-3.3-70b-versatile"`
	SummaryModel   string        `envconfig:"AI_SUMMARY_MODEL" default:"gpt-4o-mini"`
	RequestTimeout time.Duration `envconfig:"AI_REQUEST_TIMEOUT" default:"60s"`
}

// ScrapersConfig enables/disables individual scraper sources
type ScrapersConfig struct {
	ZawyaEnabled     bool   `envconfig:"SCRAPER_ZAWYA_ENABLED" default:"true"`
	ZawyaBaseURL     string `envconfig:"SCRAPER_ZAWYA_BASE_URL" default:"https://www.zawya.com/en/business"`
	MenabytesEnabled bool   `envconfig:"SCRAPER_MENABYTES_ENABLED" default:"true"`
	MenabytesFeedURL string `envconfig:"SCRAPER_MENABYTES_FEED_URL" default:"https://www.menabytes.com/feed/"`
}

// ServerConfig represents HTTP API server parameters
type ServerConfig struct {
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

// TelegramConfig represents optional run-notification settings.
// Notifications are disabled when the token is empty.
type TelegramConfig struct {
	BotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"false"`
	ChatID   int64  `envconfig:"TELEGRAM_CHAT_ID" required:"false"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	File  string `envconfig:"LOG_FILE" required:"false"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case "openai":
		if c.AI.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when AI_PROVIDER=openai")
		}
	case "groq":
		if c.AI.GroqAPIKey == "" {
			return fmt.Errorf("GROQ_API_KEY is required when AI_PROVIDER=groq")
		}
	default:
		return fmt.Errorf("unsupported AI provider: %s", c.AI.Provider)
	}

	if c.Telegram.BotToken != "" && c.Telegram.ChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}

	return nil
}
