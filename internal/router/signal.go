package router

import (
	"regexp"
	"strings"

	"github.com/ntw-markets/supportbot/internal/intake"
)

// ReplyKind classifies what the response engine produced.
type ReplyKind int

const (
	// ReplyAnswer is an ordinary answer to relay to the user.
	ReplyAnswer ReplyKind = iota
	// ReplyEscalate is the control signal to start a ticket intake.
	ReplyEscalate
)

// Reply is an engine response classified by ParseReply.
type Reply struct {
	Kind     ReplyKind
	Text     string
	Category intake.Category
}

// escalatePattern matches the escalation control tag. The whole trimmed
// reply must be the tag: a tag embedded in surrounding prose is treated as
// ordinary answer text, so a leaked mention of the protocol never silently
// opens an intake.
var escalatePattern = regexp.MustCompile(`^\[ESCALATE:(\w+)\]$`)

// ParseReply classifies a raw engine reply.
func ParseReply(raw string) Reply {
	trimmed := strings.TrimSpace(raw)
	if m := escalatePattern.FindStringSubmatch(trimmed); m != nil {
		return Reply{
			Kind:     ReplyEscalate,
			Text:     trimmed,
			Category: intake.ParseCategory(m[1]),
		}
	}
	return Reply{Kind: ReplyAnswer, Text: raw}
}
