// Package intake implements the ticket qualification flow: a fixed ordered
// sequence of category-specific questions collected one answer per turn, and
// the rendering of a completed flow into a dispatchable ticket report.
package intake

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ntw-markets/supportbot/pkg/protocol"
)

// Outcome is the result of submitting one answer to an active intake.
type Outcome int

const (
	// OutcomeNext means the answer was recorded and another question follows.
	OutcomeNext Outcome = iota
	// OutcomeComplete means all questions are answered; the caller must
	// render and dispatch the ticket, then discard the state.
	OutcomeComplete
	// OutcomeCancelled means the user aborted; all answers are discarded
	// and the caller must discard the state.
	OutcomeCancelled
)

// cancelWords abort an active intake when submitted as a whole answer,
// case-insensitively and ignoring surrounding whitespace.
var cancelWords = map[string]bool{
	"cancel":     true,
	"nevermind":  true,
	"never mind": true,
	"stop":       true,
	"exit":       true,
}

// State is an in-progress ticket qualification for one chat. At most one
// State exists per session; the router enforces that by only starting an
// intake when none is active.
//
// Invariants: len(Answers) == Index after every Submit, and Index never
// exceeds len(Questions).
type State struct {
	Ref           string
	Category      Category
	Questions     []string
	Answers       []string
	Index         int
	OriginalQuery string
	Submitter     protocol.Submitter
	Context       []string
	StartedAt     time.Time
}

// Start begins a qualification flow and returns the state together with the
// first question to ask. Categories with no configured questions fall back to
// the general list, so at least one question is always asked.
func Start(cat Category, originalQuery string, sub protocol.Submitter, contextSnapshot []string) (*State, string) {
	questions := cat.Questions()
	if len(questions) == 0 {
		questions = CategoryGeneral.Questions()
	}
	s := &State{
		Ref:           newRef(),
		Category:      cat,
		Questions:     questions,
		Answers:       make([]string, 0, len(questions)),
		OriginalQuery: originalQuery,
		Submitter:     sub,
		Context:       contextSnapshot,
		StartedAt:     time.Now().UTC(),
	}
	return s, questions[0]
}

// Submit records one answer. On OutcomeNext the returned string is the next
// question; otherwise it is empty.
func (s *State) Submit(text string) (Outcome, string) {
	if IsCancellation(text) {
		s.Answers = nil
		s.Index = 0
		return OutcomeCancelled, ""
	}

	s.Answers = append(s.Answers, text)
	s.Index++

	if s.Index < len(s.Questions) {
		return OutcomeNext, s.Questions[s.Index]
	}
	return OutcomeComplete, ""
}

// IsCancellation reports whether text is one of the cancellation keywords.
func IsCancellation(text string) bool {
	return cancelWords[strings.ToLower(strings.TrimSpace(text))]
}

// newRef returns a short ticket reference like "NTW-3f9a1c2b".
func newRef() string {
	id := uuid.NewString()
	return "NTW-" + strings.ReplaceAll(id, "-", "")[:8]
}
