// Package dispatch delivers qualified ticket reports to an operational sink.
// Delivery is single-shot: a failed dispatch is reported to the caller and
// archived, never queued for retry.
package dispatch

import (
	"context"
	"errors"

	"github.com/ntw-markets/supportbot/pkg/protocol"
)

// ErrNotConfigured is returned when no operational sink is set up.
var ErrNotConfigured = errors.New("dispatch: no sink configured")

// Dispatcher delivers a rendered ticket report to the operations team.
type Dispatcher interface {
	// Configured reports whether a destination is actually set up. The
	// router checks this before starting an intake so users are not walked
	// through questions that can go nowhere.
	Configured() bool
	// Dispatch delivers the report. Implementations must respect ctx.
	Dispatch(ctx context.Context, report protocol.TicketReport) error
}

// Disabled is a Dispatcher with no destination.
type Disabled struct{}

func (Disabled) Configured() bool { return false }

func (Disabled) Dispatch(context.Context, protocol.TicketReport) error {
	return ErrNotConfigured
}
