// Package connector defines the boundary between the conversation core and
// external chat transports.
package connector

import "context"

// ChatKind distinguishes one-to-one conversations from shared ones.
type ChatKind string

const (
	ChatPrivate ChatKind = "private"
	ChatGroup   ChatKind = "group"
)

// Sender identifies the author of an inbound message. ID is the stable
// platform identifier; the other fields are best-effort display data.
type Sender struct {
	ID          string
	Username    string
	DisplayName string
}

// InboundMessage is a message received from a chat transport. The transport
// supplies the participation primitives (mention and reply-to detection); the
// router decides what to do with them.
type InboundMessage struct {
	Channel     string   // connector name, e.g. "telegram"
	ChatID      string   // platform-specific chat identifier
	Kind        ChatKind // private or group
	Text        string
	Sender      Sender
	MentionsBot bool // message text references the bot's handle
	ReplyToBot  bool // message is a direct reply to the bot's own message
}

// OutboundMessage is a message sent to a chat transport.
type OutboundMessage struct {
	ChatID  string
	Content string // Markdown
}

// InboundHandler processes messages received from a transport.
type InboundHandler func(ctx context.Context, msg InboundMessage) error

// Connector is the interface for external messaging platforms.
type Connector interface {
	// Name returns the connector type (e.g., "telegram").
	Name() string
	// Start begins listening for inbound messages. Blocks until context is cancelled.
	Start(ctx context.Context) error
	// Stop gracefully shuts down the connector.
	Stop() error
	// Send delivers an outbound message to the external platform.
	Send(ctx context.Context, msg OutboundMessage) error
}
