// Package session holds per-chat conversation state: an append-only turn
// history and at most one in-progress ticket intake. Sessions are created
// lazily on first contact and live for the process lifetime; there is no
// expiry or persistence across restarts.
package session

import (
	"strings"
	"sync"

	"github.com/ntw-markets/supportbot/internal/intake"
	"github.com/ntw-markets/supportbot/pkg/protocol"
)

// maxContextLine is the per-line character cap when rendering recent context
// into a ticket. Longer content is cut and marked.
const maxContextLine = 200

// Role identifies who produced a turn.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Turn is one message in a chat's history. Order is significant: the history
// is replayed to the response engine as conversation context.
type Turn struct {
	Role    Role
	Content string
}

// Session is the state for one chat. It embeds its own mutex: the router
// locks the session for the whole handling of an inbound message, so turns
// for the same chat serialize while other chats proceed independently. The
// remaining methods assume the caller holds the lock.
type Session struct {
	sync.Mutex

	ChatID  string
	History []Turn
	Intake  *intake.State
}

// AppendExchange records one completed user/bot exchange.
func (s *Session) AppendExchange(userText, botText string) {
	s.History = append(s.History,
		Turn{Role: RoleUser, Content: userText},
		Turn{Role: RoleBot, Content: botText},
	)
}

// Reset discards the chat's history and any active intake.
func (s *Session) Reset() {
	s.History = nil
	s.Intake = nil
}

// ChatMessages converts the history into response engine messages.
func (s *Session) ChatMessages() []protocol.ChatMessage {
	msgs := make([]protocol.ChatMessage, 0, len(s.History))
	for _, t := range s.History {
		role := protocol.RoleUser
		if t.Role == RoleBot {
			role = protocol.RoleAssistant
		}
		msgs = append(msgs, protocol.ChatMessage{Role: role, Content: t.Content})
	}
	return msgs
}

// RecentContext renders the last maxTurns exchanges as labelled lines for a
// ticket's context snapshot. It returns at most 2*maxTurns entries; turns
// that render to empty text produce no entry.
func (s *Session) RecentContext(maxTurns int) []string {
	if maxTurns <= 0 {
		return nil
	}

	start := len(s.History) - 2*maxTurns
	if start < 0 {
		start = 0
	}

	var lines []string
	for _, t := range s.History[start:] {
		content := strings.TrimSpace(t.Content)
		if content == "" {
			continue
		}
		if runes := []rune(content); len(runes) > maxContextLine {
			content = string(runes[:maxContextLine]) + "…"
		}
		label := "User"
		if t.Role == RoleBot {
			label = "Bot"
		}
		lines = append(lines, label+": "+content)
	}
	return lines
}
