package dispatch

import (
	"context"
	"log/slog"

	"github.com/ntw-markets/supportbot/internal/archive"
	"github.com/ntw-markets/supportbot/pkg/protocol"
)

// Archived wraps a Dispatcher and records every attempt and its outcome in
// the archive. Archive write failures are logged but never surfaced: the
// user-visible result of a dispatch depends only on the inner sink.
type Archived struct {
	inner  Dispatcher
	store  *archive.Store
	logger *slog.Logger
}

// NewArchived wraps dispatcher so every attempt lands in store.
func NewArchived(inner Dispatcher, store *archive.Store, logger *slog.Logger) *Archived {
	if logger == nil {
		logger = slog.Default()
	}
	return &Archived{inner: inner, store: store, logger: logger}
}

func (a *Archived) Configured() bool { return a.inner.Configured() }

func (a *Archived) Dispatch(ctx context.Context, report protocol.TicketReport) error {
	err := a.inner.Dispatch(ctx, report)

	if a.store != nil {
		if recErr := a.store.Record(report, err == nil); recErr != nil {
			a.logger.Error("failed to archive dispatch",
				"ref", report.Ref,
				"error", recErr,
			)
		}
	}

	return err
}
