package logbuf

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

func TestBufferWraps(t *testing.T) {
	b := New(3)
	for i, msg := range []string{"one", "two", "three", "four"} {
		b.Write(Entry{
			Time:    time.Now().Add(time.Duration(i) * time.Second),
			Level:   "INFO",
			Message: msg,
		})
	}

	got := b.Query(time.Time{}, slog.LevelDebug, 0)
	if len(got) != 3 {
		t.Fatalf("entries = %d, want 3", len(got))
	}
	if got[0].Message != "two" || got[2].Message != "four" {
		t.Errorf("oldest-first order wrong: %q ... %q", got[0].Message, got[2].Message)
	}
}

func TestQueryFilters(t *testing.T) {
	b := New(10)
	base := time.Now()
	b.Write(Entry{Time: base.Add(-time.Hour), Level: "INFO", Message: "old"})
	b.Write(Entry{Time: base, Level: "DEBUG", Message: "noise"})
	b.Write(Entry{Time: base, Level: "ERROR", Message: "boom"})

	got := b.Query(base.Add(-time.Minute), slog.LevelInfo, 0)
	if len(got) != 1 || got[0].Message != "boom" {
		t.Fatalf("filtered query = %+v, want just boom", got)
	}

	limited := b.Query(time.Time{}, slog.LevelDebug, 2)
	if len(limited) != 2 {
		t.Fatalf("limited = %d entries, want 2", len(limited))
	}
	if limited[1].Message != "boom" {
		t.Errorf("limit must keep newest entries, got %q last", limited[1].Message)
	}
}

func TestHandlerCapturesAndDelegates(t *testing.T) {
	buf := New(10)
	var out bytes.Buffer
	inner := slog.NewJSONHandler(&out, &slog.HandlerOptions{Level: slog.LevelWarn})
	logger := slog.New(NewHandler(inner, buf))

	logger.Info("quiet", "chat_id", "1001")
	logger.Error("loud", "error", errTest{})

	entries := buf.Query(time.Time{}, slog.LevelDebug, 0)
	if len(entries) != 2 {
		t.Fatalf("captured %d entries, want 2", len(entries))
	}
	if entries[0].Attrs["chat_id"] != "1001" {
		t.Errorf("attrs = %v", entries[0].Attrs)
	}
	// Errors must capture as strings so they survive JSON marshalling.
	if entries[1].Attrs["error"] != "test error" {
		t.Errorf("error attr = %v", entries[1].Attrs["error"])
	}

	// Inner handler only sees warn and above.
	var lines int
	for _, b := range bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n")) {
		if len(b) > 0 {
			lines++
			var rec map[string]any
			if err := json.Unmarshal(b, &rec); err != nil {
				t.Fatalf("inner output not JSON: %v", err)
			}
		}
	}
	if lines != 1 {
		t.Errorf("inner handler wrote %d lines, want 1", lines)
	}
}

func TestHandlerWithAttrsAndGroup(t *testing.T) {
	buf := New(10)
	inner := slog.NewTextHandler(&bytes.Buffer{}, nil)
	logger := slog.New(NewHandler(inner, buf)).With("component", "router").WithGroup("req")

	logger.Info("handled", "chat_id", "7")

	entries := buf.Query(time.Time{}, slog.LevelDebug, 0)
	if len(entries) != 1 {
		t.Fatalf("captured %d entries, want 1", len(entries))
	}
	if entries[0].Attrs["component"] != "router" {
		t.Errorf("pre-bound attr missing: %v", entries[0].Attrs)
	}
	if entries[0].Attrs["req.chat_id"] != "7" {
		t.Errorf("grouped attr missing: %v", entries[0].Attrs)
	}
}

type errTest struct{}

func (errTest) Error() string { return "test error" }
