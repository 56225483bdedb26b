package intake

import (
	"fmt"
	"strings"
	"time"

	"github.com/ntw-markets/supportbot/pkg/protocol"
)

// Render builds the ticket report for a completed intake, timestamped now.
func Render(s *State) protocol.TicketReport {
	return RenderAt(s, time.Now().UTC())
}

// RenderAt builds the ticket report with an explicit timestamp. The body
// layout is fixed so operators can scan tickets reliably: every field is
// present even when empty, except the conversation section which is omitted
// when there is no context to show.
func RenderAt(s *State, now time.Time) protocol.TicketReport {
	username := "No username"
	if s.Submitter.Username != "" {
		username = "@" + s.Submitter.Username
	}
	display := s.Submitter.DisplayName
	if display == "" {
		display = "Unknown"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New support ticket %s\n", s.Ref)
	fmt.Fprintf(&b, "Category: %s\n", s.Category.Label())
	fmt.Fprintf(&b, "Filed: %s UTC\n", now.UTC().Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "From: %s (%s)\n", username, display)
	fmt.Fprintf(&b, "User ID: %s\n", s.Submitter.ID)
	b.WriteString("\nOriginal question:\n")
	b.WriteString(s.OriginalQuery)
	b.WriteString("\n\nDetails:\n")
	for i, q := range s.Questions {
		answer := ""
		if i < len(s.Answers) {
			answer = s.Answers[i]
		}
		fmt.Fprintf(&b, "%d. %s\n   A: %s\n", i+1, q, answer)
	}
	if len(s.Context) > 0 {
		b.WriteString("\nRecent conversation:\n")
		for _, line := range s.Context {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return protocol.TicketReport{
		Ref:           s.Ref,
		Category:      string(s.Category),
		CategoryLabel: s.Category.Label(),
		Submitter:     s.Submitter,
		OriginalQuery: s.OriginalQuery,
		Body:          b.String(),
		FiledAt:       now.UTC(),
	}
}
