package intake

import (
	"strings"
	"testing"
	"time"

	"github.com/ntw-markets/supportbot/pkg/protocol"
)

func completedState(t *testing.T, sub protocol.Submitter, context []string) *State {
	t.Helper()
	s, _ := Start(CategoryCommission, "My commission is wrong", sub, context)
	for range s.Questions {
		if outcome, _ := s.Submit("some answer"); outcome == OutcomeCancelled {
			t.Fatal("unexpected cancellation")
		}
	}
	return s
}

func TestRenderAt(t *testing.T) {
	sub := protocol.Submitter{ID: "12345", Username: "trader_joe", DisplayName: "Joe"}
	context := []string{"User: hello", "Bot: hi there"}
	s := completedState(t, sub, context)

	now := time.Date(2026, 8, 23, 14, 5, 33, 0, time.UTC)
	report := RenderAt(s, now)

	if report.Ref != s.Ref {
		t.Errorf("expected ref %q, got %q", s.Ref, report.Ref)
	}
	if report.CategoryLabel != "Commission Issue" {
		t.Errorf("expected label 'Commission Issue', got %q", report.CategoryLabel)
	}

	body := report.Body
	for _, want := range []string{
		"Category: Commission Issue",
		"Filed: 2026-08-23 14:05 UTC", // minute precision, seconds dropped
		"From: @trader_joe (Joe)",
		"User ID: 12345",
		"My commission is wrong",
		"1. " + s.Questions[0],
		"A: some answer",
		"Recent conversation:",
		"User: hello",
		"Bot: hi there",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("report body missing %q:\n%s", want, body)
		}
	}

	// Question/answer pairs stay in order.
	if strings.Index(body, "1. ") > strings.Index(body, "2. ") {
		t.Error("expected questions in order")
	}
}

func TestRenderAt_Deterministic(t *testing.T) {
	s := completedState(t, protocol.Submitter{ID: "1"}, nil)
	now := time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)
	if RenderAt(s, now).Body != RenderAt(s, now).Body {
		t.Error("expected identical bodies for identical inputs")
	}
}

func TestRenderAt_MissingSubmitterFields(t *testing.T) {
	s := completedState(t, protocol.Submitter{ID: "987"}, nil)
	body := RenderAt(s, time.Now()).Body

	if !strings.Contains(body, "From: No username (Unknown)") {
		t.Errorf("expected placeholder submitter line, got:\n%s", body)
	}
	if !strings.Contains(body, "User ID: 987") {
		t.Error("expected stable identifier even without username")
	}
}

func TestRenderAt_NoContextSectionWhenEmpty(t *testing.T) {
	s := completedState(t, protocol.Submitter{ID: "1"}, nil)
	if strings.Contains(RenderAt(s, time.Now()).Body, "Recent conversation:") {
		t.Error("expected no conversation section for empty context")
	}
}
