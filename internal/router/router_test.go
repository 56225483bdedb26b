package router

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ntw-markets/supportbot/internal/connector"
	"github.com/ntw-markets/supportbot/internal/dispatch"
	"github.com/ntw-markets/supportbot/internal/session"
	"github.com/ntw-markets/supportbot/pkg/protocol"
)

type mockGenerator struct {
	replies []string
	err     error
	calls   int
	last    []protocol.ChatMessage
}

func (g *mockGenerator) Reply(_ context.Context, history []protocol.ChatMessage) (string, error) {
	g.last = history
	if g.err != nil {
		return "", g.err
	}
	reply := g.replies[g.calls%len(g.replies)]
	g.calls++
	return reply, nil
}

type mockDispatcher struct {
	configured bool
	err        error
	reports    []protocol.TicketReport
}

func (d *mockDispatcher) Configured() bool { return d.configured }

func (d *mockDispatcher) Dispatch(_ context.Context, report protocol.TicketReport) error {
	d.reports = append(d.reports, report)
	return d.err
}

func newTestRouter(gen Generator, disp dispatch.Dispatcher) (*Router, *session.Store) {
	store := session.NewStore()
	r := New(Config{
		BotHandle:      "ntw_sos_bot",
		SupportContact: "@ntw_support",
	}, store, gen, disp, nil)
	return r, store
}

func privateMsg(text string) connector.InboundMessage {
	return connector.InboundMessage{
		Channel: "telegram",
		ChatID:  "1001",
		Kind:    connector.ChatPrivate,
		Text:    text,
		Sender: connector.Sender{
			ID:          "42",
			Username:    "trader_joe",
			DisplayName: "Joe",
		},
	}
}

func groupMsg(text string, mentions, reply bool) connector.InboundMessage {
	m := privateMsg(text)
	m.ChatID = "-500"
	m.Kind = connector.ChatGroup
	m.MentionsBot = mentions
	m.ReplyToBot = reply
	return m
}

func TestAnswerPath(t *testing.T) {
	gen := &mockGenerator{replies: []string{"Commissions are paid per lot."}}
	r, store := newTestRouter(gen, &mockDispatcher{configured: true})

	got := r.Handle(context.Background(), privateMsg("How do commissions work?"))
	if got != "Commissions are paid per lot." {
		t.Fatalf("reply = %q", got)
	}

	sess := store.GetOrCreate("1001")
	if len(sess.History) != 2 {
		t.Fatalf("history = %d turns, want 2", len(sess.History))
	}
	if sess.History[0].Content != "How do commissions work?" {
		t.Errorf("user turn = %q", sess.History[0].Content)
	}
	if sess.Intake != nil {
		t.Error("intake started on plain answer")
	}
}

func TestHistoryGrowsAcrossTurns(t *testing.T) {
	gen := &mockGenerator{replies: []string{"answer"}}
	r, _ := newTestRouter(gen, &mockDispatcher{configured: true})

	r.Handle(context.Background(), privateMsg("first"))
	r.Handle(context.Background(), privateMsg("second"))

	// Second call sees both prior turns plus the new user message.
	if len(gen.last) != 3 {
		t.Fatalf("engine saw %d messages, want 3", len(gen.last))
	}
	if gen.last[0].Content != "first" || gen.last[1].Content != "answer" {
		t.Errorf("history replay wrong: %+v", gen.last[:2])
	}
}

func TestEscalationStartsIntake(t *testing.T) {
	gen := &mockGenerator{replies: []string{"[ESCALATE:technical]"}}
	r, store := newTestRouter(gen, &mockDispatcher{configured: true})

	got := r.Handle(context.Background(), privateMsg("the dashboard is broken"))
	if !strings.Contains(got, "cancel") {
		t.Errorf("intro missing cancel hint: %q", got)
	}
	if !strings.Contains(got, "What were you trying to do when the problem happened?") {
		t.Errorf("intro missing first question: %q", got)
	}

	sess := store.GetOrCreate("1001")
	if sess.Intake == nil {
		t.Fatal("no intake started")
	}
	if sess.Intake.Category != "technical" {
		t.Errorf("category = %q", sess.Intake.Category)
	}
	if sess.Intake.OriginalQuery != "the dashboard is broken" {
		t.Errorf("original query = %q", sess.Intake.OriginalQuery)
	}
	if sess.Intake.Submitter.ID != "42" {
		t.Errorf("submitter = %+v", sess.Intake.Submitter)
	}

	// The tagged exchange still lands in history.
	if len(sess.History) != 2 {
		t.Errorf("history = %d turns, want 2", len(sess.History))
	}
}

func TestFullIntakeFlow(t *testing.T) {
	gen := &mockGenerator{replies: []string{"[ESCALATE:account]"}}
	disp := &mockDispatcher{configured: true}
	r, store := newTestRouter(gen, disp)

	r.Handle(context.Background(), privateMsg("I cannot log in"))

	next := r.Handle(context.Background(), privateMsg("joe@example.com"))
	if next != "What account change or issue do you need help with?" {
		t.Fatalf("second question = %q", next)
	}

	final := r.Handle(context.Background(), privateMsg("password reset never arrives"))
	if !strings.Contains(final, "NTW-") {
		t.Fatalf("filed reply missing ref: %q", final)
	}

	if len(disp.reports) != 1 {
		t.Fatalf("dispatched %d reports, want 1", len(disp.reports))
	}
	report := disp.reports[0]
	if report.Category != "account" {
		t.Errorf("report category = %q", report.Category)
	}
	if !strings.Contains(report.Body, "joe@example.com") {
		t.Errorf("report body missing answer:\n%s", report.Body)
	}
	if !strings.Contains(report.Body, "I cannot log in") {
		t.Errorf("report body missing original query:\n%s", report.Body)
	}

	sess := store.GetOrCreate("1001")
	if sess.Intake != nil {
		t.Error("intake not cleared after completion")
	}

	// Answers given during intake stay out of the engine history.
	if len(sess.History) != 2 {
		t.Errorf("history = %d turns, want 2", len(sess.History))
	}
}

func TestIntakeCancellation(t *testing.T) {
	gen := &mockGenerator{replies: []string{"[ESCALATE:commission]", "ordinary answer"}}
	disp := &mockDispatcher{configured: true}
	r, store := newTestRouter(gen, disp)

	r.Handle(context.Background(), privateMsg("where is my commission"))

	got := r.Handle(context.Background(), privateMsg("  Cancel "))
	if got != msgCancelled {
		t.Fatalf("reply = %q, want cancellation ack", got)
	}
	if store.GetOrCreate("1001").Intake != nil {
		t.Error("intake not cleared on cancel")
	}
	if len(disp.reports) != 0 {
		t.Error("cancelled intake was dispatched")
	}

	// Next message goes back to the engine.
	got = r.Handle(context.Background(), privateMsg("ok, how do payouts work?"))
	if got != "ordinary answer" {
		t.Errorf("post-cancel reply = %q", got)
	}
}

func TestCancelWordInsideSentenceIsAnAnswer(t *testing.T) {
	gen := &mockGenerator{replies: []string{"[ESCALATE:general]"}}
	disp := &mockDispatcher{configured: true}
	r, _ := newTestRouter(gen, disp)

	r.Handle(context.Background(), privateMsg("weird issue"))
	got := r.Handle(context.Background(), privateMsg("I want to cancel my pending withdrawal"))

	// general has a single question, so this answer completes the ticket.
	if !strings.Contains(got, "NTW-") {
		t.Fatalf("reply = %q, want ticket filed", got)
	}
	if len(disp.reports) != 1 {
		t.Fatal("ticket not dispatched")
	}
	if !strings.Contains(disp.reports[0].Body, "cancel my pending withdrawal") {
		t.Error("sentence containing cancel word not recorded as answer")
	}
}

func TestGroupGate(t *testing.T) {
	gen := &mockGenerator{replies: []string{"answer"}}
	r, store := newTestRouter(gen, &mockDispatcher{configured: true})

	if got := r.Handle(context.Background(), groupMsg("random chatter", false, false)); got != "" {
		t.Errorf("unaddressed group message replied %q", got)
	}
	if gen.calls != 0 {
		t.Error("engine called for unaddressed group message")
	}
	if store.GetOrCreate("-500").History != nil {
		t.Error("unaddressed group message recorded in history")
	}

	if got := r.Handle(context.Background(), groupMsg("@ntw_sos_bot how do payouts work?", true, false)); got != "answer" {
		t.Errorf("mention reply = %q", got)
	}
	if got := gen.last[len(gen.last)-1].Content; got != "how do payouts work?" {
		t.Errorf("mention not stripped: %q", got)
	}

	if got := r.Handle(context.Background(), groupMsg("and level 2?", false, true)); got != "answer" {
		t.Errorf("reply-to-bot reply = %q", got)
	}
}

func TestGroupEscalationContinuesPrivately(t *testing.T) {
	gen := &mockGenerator{replies: []string{"[ESCALATE:technical]"}}
	r, store := newTestRouter(gen, &mockDispatcher{configured: true})

	got := r.Handle(context.Background(), groupMsg("@ntw_sos_bot my link is broken", true, false))
	if got != msgContinuePrivately {
		t.Fatalf("reply = %q, want continue-privately", got)
	}
	if store.GetOrCreate("-500").Intake != nil {
		t.Error("intake started in a group chat")
	}
}

func TestGroupMessageDuringIntakeDoesNotConsumeAnswer(t *testing.T) {
	gen := &mockGenerator{replies: []string{"[ESCALATE:technical]"}}
	r, store := newTestRouter(gen, &mockDispatcher{configured: true})

	// Same user, same session key scenario: an intake is active and a group
	// message for that chat arrives.
	msg := privateMsg("broken dashboard")
	msg.ChatID = "2002"
	r.Handle(context.Background(), msg)

	grp := groupMsg("some detail", true, false)
	grp.ChatID = "2002"
	got := r.Handle(context.Background(), grp)
	if got != msgContinuePrivately {
		t.Fatalf("reply = %q", got)
	}

	sess := store.GetOrCreate("2002")
	if len(sess.Intake.Answers) != 0 {
		t.Error("group message consumed as intake answer")
	}
}

func TestUnconfiguredDispatcherFallsBack(t *testing.T) {
	gen := &mockGenerator{replies: []string{"[ESCALATE:technical]"}}
	r, store := newTestRouter(gen, dispatch.Disabled{})

	got := r.Handle(context.Background(), privateMsg("broken link"))
	if !strings.Contains(got, "@ntw_support") {
		t.Fatalf("reply = %q, want support contact", got)
	}
	if store.GetOrCreate("1001").Intake != nil {
		t.Error("intake started with no sink configured")
	}
}

func TestGeneratorFailure(t *testing.T) {
	gen := &mockGenerator{err: errors.New("api down")}
	r, store := newTestRouter(gen, &mockDispatcher{configured: true})

	got := r.Handle(context.Background(), privateMsg("hello"))
	if got != msgApology {
		t.Fatalf("reply = %q, want apology", got)
	}
	if len(store.GetOrCreate("1001").History) != 0 {
		t.Error("failed exchange recorded in history")
	}
}

func TestDispatchFailure(t *testing.T) {
	gen := &mockGenerator{replies: []string{"[ESCALATE:general]"}}
	disp := &mockDispatcher{configured: true, err: errors.New("sink down")}
	r, store := newTestRouter(gen, disp)

	r.Handle(context.Background(), privateMsg("weird issue"))
	got := r.Handle(context.Background(), privateMsg("all the details"))

	if !strings.Contains(got, "@ntw_support") {
		t.Fatalf("reply = %q, want dispatch-failed message", got)
	}
	if store.GetOrCreate("1001").Intake != nil {
		t.Error("intake kept after failed dispatch")
	}
	if len(disp.reports) != 1 {
		t.Error("dispatch not attempted")
	}
}

func TestTicketContextSnapshot(t *testing.T) {
	gen := &mockGenerator{replies: []string{"the standard rate is 15 USD per lot", "[ESCALATE:commission]"}}
	disp := &mockDispatcher{configured: true}
	r, _ := newTestRouter(gen, disp)

	r.Handle(context.Background(), privateMsg("what is the level 1 rate?"))
	r.Handle(context.Background(), privateMsg("mine shows zero, something is wrong"))
	r.Handle(context.Background(), privateMsg("link ABC123"))
	r.Handle(context.Background(), privateMsg("last month"))
	final := r.Handle(context.Background(), privateMsg("expected 300 USD, got 0"))

	if !strings.Contains(final, "NTW-") {
		t.Fatalf("flow did not complete: %q", final)
	}
	body := disp.reports[0].Body
	if !strings.Contains(body, "Recent conversation:") {
		t.Fatalf("report missing context section:\n%s", body)
	}
	if !strings.Contains(body, "User: what is the level 1 rate?") {
		t.Errorf("context missing earlier exchange:\n%s", body)
	}
}

func TestMalformedSenderDropped(t *testing.T) {
	gen := &mockGenerator{replies: []string{"answer"}}
	r, _ := newTestRouter(gen, &mockDispatcher{configured: true})

	msg := privateMsg("hello")
	msg.Sender = connector.Sender{}
	if got := r.Handle(context.Background(), msg); got != "" {
		t.Errorf("reply = %q, want drop", got)
	}
	if gen.calls != 0 {
		t.Error("engine called for malformed sender")
	}
}

func TestEmptyTextDropped(t *testing.T) {
	gen := &mockGenerator{replies: []string{"answer"}}
	r, _ := newTestRouter(gen, &mockDispatcher{configured: true})

	if got := r.Handle(context.Background(), privateMsg("   ")); got != "" {
		t.Errorf("reply = %q, want drop", got)
	}
}

func TestReset(t *testing.T) {
	gen := &mockGenerator{replies: []string{"[ESCALATE:technical]"}}
	r, store := newTestRouter(gen, &mockDispatcher{configured: true})

	r.Handle(context.Background(), privateMsg("broken"))
	r.Reset("1001")

	sess := store.GetOrCreate("1001")
	if sess.Intake != nil || sess.History != nil {
		t.Error("Reset did not clear session")
	}
}
