// Package config loads supportbot configuration from a JSON file or from
// SUPPORTBOT_-prefixed environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config is the top-level supportbot configuration.
type Config struct {
	Bot       BotConfig       `json:"bot"`
	Provider  ProviderConfig  `json:"provider"`
	Telegram  TelegramConfig  `json:"telegram"`
	Sink      SinkConfig      `json:"sink"`
	Knowledge KnowledgeConfig `json:"knowledge"`
	Digest    DigestConfig    `json:"digest"`
	API       APIConfig       `json:"api"`
}

// BotConfig holds conversation-level settings.
type BotConfig struct {
	// SupportContact is the human fallback shown when tickets cannot be
	// taken, e.g. "@ntw_support".
	SupportContact string `json:"support_contact"`
	// ContextMaxTurns is how many recent exchanges go into a ticket's
	// context snapshot. 0 means the default.
	ContextMaxTurns int `json:"context_max_turns,omitempty"`
	// DataDir is where the ticket archive lives.
	DataDir string `json:"data_dir"`
}

// ProviderConfig holds response engine settings.
type ProviderConfig struct {
	Type           string  `json:"type,omitempty"` // "openai" (default) or "anthropic"
	APIKey         string  `json:"api_key"`
	BaseURL        string  `json:"base_url,omitempty"`
	Model          string  `json:"model"`
	MaxTokens      int     `json:"max_tokens,omitempty"`
	Temperature    float64 `json:"temperature,omitempty"`
	TimeoutSeconds int     `json:"timeout_seconds,omitempty"`
}

// TelegramConfig holds Telegram bot settings.
type TelegramConfig struct {
	Token     string  `json:"token"`
	AllowFrom []int64 `json:"allow_from,omitempty"`
}

// SinkConfig selects where completed tickets are delivered.
type SinkConfig struct {
	// Type is "telegram", "slack" or "" (disabled).
	Type string `json:"type,omitempty"`
	// TelegramChatID is the operations group for the telegram sink.
	TelegramChatID string `json:"telegram_chat_id,omitempty"`
	// SlackBotToken and SlackChannel configure the slack sink.
	SlackBotToken string `json:"slack_bot_token,omitempty"`
	SlackChannel  string `json:"slack_channel,omitempty"`
}

// KnowledgeConfig selects optional knowledge sources.
type KnowledgeConfig struct {
	File string `json:"file,omitempty"`
	URL  string `json:"url,omitempty"`
}

// DigestConfig holds the daily ops digest settings.
type DigestConfig struct {
	// Schedule is a 5-field cron expression; empty uses the default.
	Schedule string `json:"schedule,omitempty"`
}

// APIConfig holds ops API server settings.
type APIConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
	Key  string `json:"api_key"`
}

// Load reads configuration from a JSON file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv builds a config from environment variables with SUPPORTBOT_ prefix.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Bot: BotConfig{
			SupportContact:  os.Getenv("SUPPORTBOT_SUPPORT_CONTACT"),
			ContextMaxTurns: getenvInt("SUPPORTBOT_CONTEXT_MAX_TURNS", 0),
			DataDir:         getenv("SUPPORTBOT_DATA_DIR", "/data"),
		},
		Telegram: TelegramConfig{
			Token: os.Getenv("SUPPORTBOT_TELEGRAM_TOKEN"),
		},
		Sink: SinkConfig{
			Type:           os.Getenv("SUPPORTBOT_SINK_TYPE"),
			TelegramChatID: os.Getenv("SUPPORTBOT_SINK_TELEGRAM_CHAT_ID"),
			SlackBotToken:  os.Getenv("SUPPORTBOT_SINK_SLACK_TOKEN"),
			SlackChannel:   os.Getenv("SUPPORTBOT_SINK_SLACK_CHANNEL"),
		},
		Knowledge: KnowledgeConfig{
			File: os.Getenv("SUPPORTBOT_KNOWLEDGE_FILE"),
			URL:  os.Getenv("SUPPORTBOT_KNOWLEDGE_URL"),
		},
		Digest: DigestConfig{
			Schedule: os.Getenv("SUPPORTBOT_DIGEST_SCHEDULE"),
		},
		API: APIConfig{
			Host: getenv("SUPPORTBOT_API_HOST", "0.0.0.0"),
			Port: getenvInt("SUPPORTBOT_API_PORT", 8080),
			Key:  os.Getenv("SUPPORTBOT_API_KEY"),
		},
	}

	if apiKey := os.Getenv("SUPPORTBOT_ANTHROPIC_API_KEY"); apiKey != "" {
		cfg.Provider = ProviderConfig{
			Type:   "anthropic",
			APIKey: apiKey,
			Model:  getenv("SUPPORTBOT_MODEL", "claude-sonnet-4-20250514"),
		}
	} else if apiKey := os.Getenv("SUPPORTBOT_OPENAI_API_KEY"); apiKey != "" {
		cfg.Provider = ProviderConfig{
			Type:    "openai",
			APIKey:  apiKey,
			BaseURL: os.Getenv("SUPPORTBOT_OPENAI_BASE_URL"),
			Model:   getenv("SUPPORTBOT_MODEL", "gpt-4o-mini"),
		}
	}
	cfg.Provider.MaxTokens = getenvInt("SUPPORTBOT_MAX_TOKENS", 0)
	cfg.Provider.TimeoutSeconds = getenvInt("SUPPORTBOT_TIMEOUT_SECONDS", 0)

	if ids := os.Getenv("SUPPORTBOT_TELEGRAM_ALLOW_FROM"); ids != "" {
		parsed, err := parseInt64List(ids)
		if err != nil {
			return nil, fmt.Errorf("config: SUPPORTBOT_TELEGRAM_ALLOW_FROM: %w", err)
		}
		cfg.Telegram.AllowFrom = parsed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks for required fields and consistent sink settings.
func (c *Config) Validate() error {
	var errs []string

	if c.Telegram.Token == "" {
		errs = append(errs, "telegram.token is required")
	}
	if c.Provider.APIKey == "" {
		errs = append(errs, "provider.api_key is required")
	}
	if c.Provider.Model == "" {
		errs = append(errs, "provider.model is required")
	}
	switch c.Provider.Type {
	case "", "openai", "anthropic":
	default:
		errs = append(errs, fmt.Sprintf("provider.type %q is not supported", c.Provider.Type))
	}
	if c.Bot.DataDir == "" {
		errs = append(errs, "bot.data_dir is required")
	}

	switch c.Sink.Type {
	case "":
	case "telegram":
		if c.Sink.TelegramChatID == "" {
			errs = append(errs, "sink.telegram_chat_id is required for the telegram sink")
		}
	case "slack":
		if c.Sink.SlackBotToken == "" {
			errs = append(errs, "sink.slack_bot_token is required for the slack sink")
		}
		if c.Sink.SlackChannel == "" {
			errs = append(errs, "sink.slack_channel is required for the slack sink")
		}
	default:
		errs = append(errs, fmt.Sprintf("sink.type %q is not supported", c.Sink.Type))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func parseInt64List(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	result := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", p)
		}
		result = append(result, n)
	}
	return result, nil
}
