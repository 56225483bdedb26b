package dispatch

import (
	"context"
	"fmt"

	"github.com/ntw-markets/supportbot/pkg/protocol"
)

// SendFunc delivers plain text to a chat on an already-running connector.
type SendFunc func(ctx context.Context, chatID, text string) error

// TelegramSink posts ticket reports into an operations group chat, reusing
// the bot's own Telegram connection.
type TelegramSink struct {
	ChatID string
	Send   SendFunc
}

// NewTelegramSink creates a sink targeting the given operations chat.
func NewTelegramSink(chatID string, send SendFunc) *TelegramSink {
	return &TelegramSink{ChatID: chatID, Send: send}
}

func (s *TelegramSink) Configured() bool {
	return s != nil && s.ChatID != "" && s.Send != nil
}

func (s *TelegramSink) Dispatch(ctx context.Context, report protocol.TicketReport) error {
	if !s.Configured() {
		return ErrNotConfigured
	}
	if err := s.Send(ctx, s.ChatID, report.Body); err != nil {
		return fmt.Errorf("dispatch: telegram send: %w", err)
	}
	return nil
}
