package dispatch

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"github.com/ntw-markets/supportbot/pkg/protocol"
)

// slackPoster is the slice of the Slack client the sink needs.
type slackPoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackSink posts ticket reports to a Slack channel. Used by teams that run
// operations in Slack rather than a Telegram group.
type SlackSink struct {
	client  slackPoster
	channel string
}

// NewSlackSink creates a sink posting to the given channel ID.
func NewSlackSink(botToken, channel string) *SlackSink {
	return &SlackSink{
		client:  slack.New(botToken),
		channel: channel,
	}
}

func (s *SlackSink) Configured() bool {
	return s != nil && s.client != nil && s.channel != ""
}

func (s *SlackSink) Dispatch(ctx context.Context, report protocol.TicketReport) error {
	if !s.Configured() {
		return ErrNotConfigured
	}
	return s.SendText(ctx, report.Body)
}

// SendText posts arbitrary text to the sink channel. The daily digest uses
// this to reach operators through the same destination as tickets.
func (s *SlackSink) SendText(ctx context.Context, text string) error {
	if !s.Configured() {
		return ErrNotConfigured
	}
	_, _, err := s.client.PostMessageContext(ctx, s.channel, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("dispatch: slack post: %w", err)
	}
	return nil
}
