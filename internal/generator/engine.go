package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ntw-markets/supportbot/pkg/protocol"
)

// Config holds engine settings.
type Config struct {
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration // per-call deadline, 0 = default
}

const defaultTimeout = 60 * time.Second

// Engine turns a conversation history into a reply by prepending the system
// prompt and calling the configured provider under a bounded deadline.
type Engine struct {
	provider     Provider
	systemPrompt string
	config       Config
	logger       *slog.Logger
}

// NewEngine creates an engine on top of the given provider.
func NewEngine(provider Provider, systemPrompt string, cfg Config, logger *slog.Logger) *Engine {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		provider:     provider,
		systemPrompt: systemPrompt,
		config:       cfg,
		logger:       logger,
	}
}

// Reply generates a response to the conversation. history holds the chat
// turns in order, oldest first, without the system prompt.
func (e *Engine) Reply(ctx context.Context, history []protocol.ChatMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	messages := make([]protocol.ChatMessage, 0, len(history)+1)
	messages = append(messages, protocol.ChatMessage{
		Role:    protocol.RoleSystem,
		Content: e.systemPrompt,
	})
	messages = append(messages, history...)

	start := time.Now()
	resp, err := e.provider.Chat(ctx, protocol.ChatRequest{
		Model:       e.config.Model,
		Messages:    messages,
		MaxTokens:   e.config.MaxTokens,
		Temperature: e.config.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("generator: %s call: %w", e.provider.Name(), err)
	}

	content := strings.TrimSpace(resp.Content)
	if content == "" {
		return "", fmt.Errorf("generator: %s returned empty response", e.provider.Name())
	}

	e.logger.Debug("reply generated",
		"provider", e.provider.Name(),
		"tokens", resp.Usage.TotalTokens(),
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return content, nil
}
