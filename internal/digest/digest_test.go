package digest

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ntw-markets/supportbot/internal/archive"
	"github.com/ntw-markets/supportbot/pkg/protocol"
)

func testArchive(t *testing.T) *archive.Store {
	t.Helper()
	s, err := archive.NewStore(filepath.Join(t.TempDir(), "tickets.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func record(t *testing.T, s *archive.Store, ref string, delivered bool, age time.Duration) {
	t.Helper()
	err := s.Record(protocol.TicketReport{
		Ref:      ref,
		Category: "general",
		Body:     "body",
		FiledAt:  time.Now().UTC().Add(-age),
	}, delivered)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
}

func TestRunSummarizesWindow(t *testing.T) {
	store := testArchive(t)
	record(t, store, "NTW-1", true, time.Hour)
	record(t, store, "NTW-2", true, 2*time.Hour)
	record(t, store, "NTW-3", false, time.Hour)
	record(t, store, "NTW-old", true, 48*time.Hour) // outside window

	var sent string
	d := New(store, func(_ context.Context, text string) error {
		sent = text
		return nil
	}, nil)

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(sent, "Filed: 2") {
		t.Errorf("digest missing filed count:\n%s", sent)
	}
	if !strings.Contains(sent, "Failed to deliver: 1") {
		t.Errorf("digest missing failed count:\n%s", sent)
	}
}

func TestRunSkipsWhenQuiet(t *testing.T) {
	store := testArchive(t)
	record(t, store, "NTW-old", true, 48*time.Hour)

	sent := false
	d := New(store, func(context.Context, string) error {
		sent = true
		return nil
	}, nil)

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sent {
		t.Error("digest sent despite no activity in window")
	}
}

func TestRunNotifyError(t *testing.T) {
	store := testArchive(t)
	record(t, store, "NTW-1", true, time.Hour)

	notifyErr := errors.New("sink down")
	d := New(store, func(context.Context, string) error { return notifyErr }, nil)

	if err := d.Run(context.Background()); !errors.Is(err, notifyErr) {
		t.Errorf("Run error = %v, want wrapped notify error", err)
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	d := New(testArchive(t), func(context.Context, string) error { return nil }, nil)
	if err := d.Start(context.Background(), "not a schedule"); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}
