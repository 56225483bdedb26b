// Package generator produces bot replies from conversation history using an
// external language-model API.
package generator

import (
	"context"

	"github.com/ntw-markets/supportbot/pkg/protocol"
)

// Provider is the abstraction over response engine APIs.
type Provider interface {
	Chat(ctx context.Context, req protocol.ChatRequest) (*protocol.ChatResponse, error)
	Name() string
}
