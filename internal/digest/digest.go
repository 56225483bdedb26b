// Package digest sends operators a scheduled summary of ticket activity.
package digest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ntw-markets/supportbot/internal/archive"
)

// DefaultSchedule fires every morning at 09:00 server time.
const DefaultSchedule = "0 9 * * *"

// NotifyFunc delivers the digest text to operators.
type NotifyFunc func(ctx context.Context, text string) error

// Digest periodically summarizes the last 24 hours of dispatch activity.
type Digest struct {
	cron    *cron.Cron
	store   *archive.Store
	notify  NotifyFunc
	logger  *slog.Logger
	window  time.Duration
	nowFunc func() time.Time
}

// New creates a digest reading from store and delivering through notify.
func New(store *archive.Store, notify NotifyFunc, logger *slog.Logger) *Digest {
	if logger == nil {
		logger = slog.Default()
	}
	return &Digest{
		cron:    cron.New(),
		store:   store,
		notify:  notify,
		logger:  logger,
		window:  24 * time.Hour,
		nowFunc: time.Now,
	}
}

// Start registers the schedule and runs until the context is cancelled.
// schedule is a standard 5-field cron expression; empty means DefaultSchedule.
func (d *Digest) Start(ctx context.Context, schedule string) error {
	if schedule == "" {
		schedule = DefaultSchedule
	}

	_, err := d.cron.AddFunc(schedule, func() {
		runCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := d.Run(runCtx); err != nil {
			d.logger.Error("digest run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("digest: invalid schedule %q: %w", schedule, err)
	}

	d.cron.Start()
	d.logger.Info("digest scheduled", "schedule", schedule)

	<-ctx.Done()
	d.cron.Stop()
	d.logger.Info("digest stopped")
	return ctx.Err()
}

// Run produces and sends one digest covering the trailing window. When no
// tickets moved at all, nothing is sent.
func (d *Digest) Run(ctx context.Context) error {
	since := d.nowFunc().Add(-d.window)
	delivered, failed := true, false

	filed, err := d.store.Count(archive.Filter{Delivered: &delivered, Since: since})
	if err != nil {
		return fmt.Errorf("digest: count filed: %w", err)
	}
	missed, err := d.store.Count(archive.Filter{Delivered: &failed, Since: since})
	if err != nil {
		return fmt.Errorf("digest: count failed: %w", err)
	}

	if filed == 0 && missed == 0 {
		d.logger.Debug("digest skipped, no activity")
		return nil
	}

	text := d.render(filed, missed, since)
	if err := d.notify(ctx, text); err != nil {
		return fmt.Errorf("digest: notify: %w", err)
	}

	d.logger.Info("digest sent", "filed", filed, "failed", missed)
	return nil
}

func (d *Digest) render(filed, missed int, since time.Time) string {
	text := fmt.Sprintf("Support ticket digest since %s:\n- Filed: %d",
		since.UTC().Format("2006-01-02 15:04 UTC"), filed)
	if missed > 0 {
		text += fmt.Sprintf("\n- Failed to deliver: %d (check the archive)", missed)
	}
	return text
}
