// Package router is the conversation core. It owns the decision, per inbound
// message, between the response engine path and the deterministic ticket
// intake flow, and it is the only writer of session state.
package router

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ntw-markets/supportbot/internal/connector"
	"github.com/ntw-markets/supportbot/internal/dispatch"
	"github.com/ntw-markets/supportbot/internal/intake"
	"github.com/ntw-markets/supportbot/internal/session"
	"github.com/ntw-markets/supportbot/pkg/protocol"
)

// Generator produces a reply from conversation history.
type Generator interface {
	Reply(ctx context.Context, history []protocol.ChatMessage) (string, error)
}

// Config holds router settings.
type Config struct {
	// BotHandle is the bot's username without the leading @, used to strip
	// mentions from group messages before processing.
	BotHandle string
	// SupportContact is where users are pointed when a ticket cannot be
	// taken, e.g. "@ntw_support" or "the #support channel".
	SupportContact string
	// ContextMaxTurns is how many recent exchanges are snapshotted into a
	// ticket. 0 means the default of 3.
	ContextMaxTurns int
	// DispatchTimeout bounds a single ticket delivery. 0 means 15s.
	DispatchTimeout time.Duration
}

const (
	defaultContextTurns    = 3
	defaultDispatchTimeout = 15 * time.Second
)

// Router dispatches inbound messages to the engine or an active intake.
type Router struct {
	config     Config
	sessions   *session.Store
	generator  Generator
	dispatcher dispatch.Dispatcher
	logger     *slog.Logger
}

// New creates a router.
func New(cfg Config, sessions *session.Store, gen Generator, disp dispatch.Dispatcher, logger *slog.Logger) *Router {
	if cfg.ContextMaxTurns <= 0 {
		cfg.ContextMaxTurns = defaultContextTurns
	}
	if cfg.DispatchTimeout <= 0 {
		cfg.DispatchTimeout = defaultDispatchTimeout
	}
	if cfg.SupportContact == "" {
		cfg.SupportContact = "our support team"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		config:     cfg,
		sessions:   sessions,
		generator:  gen,
		dispatcher: disp,
		logger:     logger,
	}
}

// Handle processes one inbound message and returns the reply text. An empty
// return means the message produced no reply and the connector must send
// nothing.
func (r *Router) Handle(ctx context.Context, msg connector.InboundMessage) string {
	if msg.Sender.ID == "" {
		return ""
	}

	// In group chats the bot only participates when addressed.
	if msg.Kind == connector.ChatGroup && !msg.MentionsBot && !msg.ReplyToBot {
		return ""
	}

	text := r.stripMention(msg.Text)
	if text == "" {
		return ""
	}

	sess := r.sessions.GetOrCreate(msg.ChatID)
	sess.Lock()
	defer sess.Unlock()

	if sess.Intake != nil {
		return r.handleIntake(ctx, sess, msg, text)
	}
	return r.handleQuestion(ctx, sess, msg, text)
}

// Reset discards a chat's history and any active intake.
func (r *Router) Reset(chatID string) {
	sess := r.sessions.GetOrCreate(chatID)
	sess.Lock()
	defer sess.Unlock()
	sess.Reset()
}

// handleIntake feeds one message into the active qualification flow. Intake
// turns never enter the conversation history: answers are structured ticket
// data, not dialogue for the engine to build on.
func (r *Router) handleIntake(ctx context.Context, sess *session.Session, msg connector.InboundMessage, text string) string {
	// Ticket details stay out of shared chats.
	if msg.Kind == connector.ChatGroup {
		return msgContinuePrivately
	}

	outcome, next := sess.Intake.Submit(text)
	switch outcome {
	case intake.OutcomeCancelled:
		r.logger.Info("intake cancelled",
			"chat_id", sess.ChatID,
			"ref", sess.Intake.Ref,
			"category", sess.Intake.Category,
		)
		sess.Intake = nil
		return msgCancelled

	case intake.OutcomeNext:
		return next

	default: // OutcomeComplete
		report := intake.Render(sess.Intake)
		sess.Intake = nil
		return r.fileTicket(ctx, sess.ChatID, report)
	}
}

// handleQuestion runs the response engine path, watching for the escalation
// signal in the reply.
func (r *Router) handleQuestion(ctx context.Context, sess *session.Session, msg connector.InboundMessage, text string) string {
	history := append(sess.ChatMessages(), protocol.ChatMessage{
		Role:    protocol.RoleUser,
		Content: text,
	})

	raw, err := r.generator.Reply(ctx, history)
	if err != nil {
		// The failed exchange is not recorded, so a retry starts clean.
		r.logger.Error("reply generation failed",
			"chat_id", sess.ChatID,
			"error", err,
		)
		return msgApology
	}

	sess.AppendExchange(text, raw)

	reply := ParseReply(raw)
	if reply.Kind == ReplyAnswer {
		return reply.Text
	}

	r.logger.Info("escalation signalled",
		"chat_id", sess.ChatID,
		"category", reply.Category,
	)

	// No point collecting answers that can go nowhere.
	if !r.dispatcher.Configured() {
		return msgFallbackContact(r.config.SupportContact)
	}

	if msg.Kind == connector.ChatGroup {
		return msgContinuePrivately
	}

	snapshot := sess.RecentContext(r.config.ContextMaxTurns)
	state, firstQuestion := intake.Start(reply.Category, text, protocol.Submitter{
		ID:          msg.Sender.ID,
		Username:    msg.Sender.Username,
		DisplayName: msg.Sender.DisplayName,
	}, snapshot)
	sess.Intake = state

	return msgTicketIntro(firstQuestion)
}

// fileTicket delivers a completed report. Delivery is single-shot: on
// failure the user is pointed at the human contact and the report is not
// queued for retry.
func (r *Router) fileTicket(ctx context.Context, chatID string, report protocol.TicketReport) string {
	ctx, cancel := context.WithTimeout(ctx, r.config.DispatchTimeout)
	defer cancel()

	if err := r.dispatcher.Dispatch(ctx, report); err != nil {
		r.logger.Error("ticket dispatch failed",
			"chat_id", chatID,
			"ref", report.Ref,
			"category", report.Category,
			"error", err,
		)
		return msgDispatchFailed(r.config.SupportContact)
	}

	r.logger.Info("ticket filed",
		"chat_id", chatID,
		"ref", report.Ref,
		"category", report.Category,
	)
	return msgTicketFiled(report.Ref)
}

// stripMention removes the bot's @handle from the text so mentions in group
// chats read like direct questions.
func (r *Router) stripMention(text string) string {
	if r.config.BotHandle != "" {
		text = strings.ReplaceAll(text, "@"+r.config.BotHandle, "")
	}
	return strings.TrimSpace(text)
}
