package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ntw-markets/supportbot/internal/connector"
)

// Config holds Telegram connector configuration.
type Config struct {
	Token     string  // Bot token from @BotFather
	AllowFrom []int64 // Allowed Telegram user IDs (empty = allow all)
}

// Connector implements the connector.Connector interface for Telegram.
type Connector struct {
	bot     *tgbotapi.BotAPI
	config  Config
	handler connector.InboundHandler
	logger  *slog.Logger
	cancel  context.CancelFunc
}

// New creates a new Telegram connector.
func New(cfg Config, handler connector.InboundHandler, logger *slog.Logger) (*Connector, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram: init bot: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("telegram bot authorized", "username", bot.Self.UserName)

	return &Connector{
		bot:     bot,
		config:  cfg,
		handler: handler,
		logger:  logger,
	}, nil
}

func (c *Connector) Name() string { return "telegram" }

// Handle returns the bot's username, without the leading @.
func (c *Connector) Handle() string { return c.bot.Self.UserName }

// Start begins long-polling for updates. Blocks until context is cancelled.
// Each update is handled on its own goroutine so a slow response engine call
// for one chat never stalls messages arriving for other chats.
func (c *Connector) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := c.bot.GetUpdatesChan(u)

	c.logger.Info("telegram connector started", "bot", c.bot.Self.UserName)

	for {
		select {
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			go c.handleUpdate(ctx, update)

		case <-ctx.Done():
			c.bot.StopReceivingUpdates()
			c.logger.Info("telegram connector stopped")
			return ctx.Err()
		}
	}
}

// Stop gracefully shuts down the connector.
func (c *Connector) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	return nil
}

// Send delivers a message to a Telegram chat. Markdown content is converted
// to Telegram HTML; if the HTML send is rejected, falls back to plain text.
func (c *Connector) Send(_ context.Context, msg connector.OutboundMessage) error {
	chatID, err := strconv.ParseInt(msg.ChatID, 10, 64)
	if err != nil {
		return fmt.Errorf("telegram: invalid chat_id %q: %w", msg.ChatID, err)
	}

	if strings.TrimSpace(msg.Content) == "" {
		c.logger.Warn("skipping empty message", "chat_id", msg.ChatID)
		return nil
	}

	tgMsg := tgbotapi.NewMessage(chatID, RenderHTML(msg.Content))
	tgMsg.ParseMode = "HTML"
	tgMsg.DisableWebPagePreview = true

	if _, err = c.bot.Send(tgMsg); err != nil {
		c.logger.Warn("HTML send failed, falling back to plain text",
			"chat_id", msg.ChatID,
			"error", err,
		)
		tgMsg.Text = msg.Content
		tgMsg.ParseMode = ""
		_, err = c.bot.Send(tgMsg)
	}

	return err
}

func (c *Connector) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("update handler panicked", "panic", fmt.Sprintf("%v", r))
		}
	}()

	msg := update.Message
	if msg.From == nil {
		return
	}
	userID := msg.From.ID
	chatID := msg.Chat.ID

	// Access control
	if len(c.config.AllowFrom) > 0 && !contains(c.config.AllowFrom, userID) {
		c.logger.Warn("unauthorized user", "user_id", userID, "username", msg.From.UserName)
		return
	}

	text := msg.Text
	if text == "" && msg.Caption != "" {
		text = msg.Caption
	}
	if text == "" {
		return
	}

	inbound := c.toInbound(msg, text)

	// Typing indicator, but only when the bot is going to be addressed:
	// always in private chats, in groups only on mention or reply.
	if inbound.Kind == connector.ChatPrivate || inbound.MentionsBot || inbound.ReplyToBot {
		typing := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
		c.bot.Send(typing)
	}

	if err := c.handler(ctx, inbound); err != nil {
		c.logger.Error("inbound handler error",
			"chat_id", chatID,
			"error", err,
		)
	}
}

// toInbound maps a Telegram message onto the transport boundary type,
// computing the participation primitives the router needs.
func (c *Connector) toInbound(msg *tgbotapi.Message, text string) connector.InboundMessage {
	kind := connector.ChatGroup
	if msg.Chat.IsPrivate() {
		kind = connector.ChatPrivate
	}

	botUser := c.bot.Self.UserName
	mentioned := botUser != "" && strings.Contains(text, "@"+botUser)
	repliedToBot := msg.ReplyToMessage != nil &&
		msg.ReplyToMessage.From != nil &&
		msg.ReplyToMessage.From.UserName == botUser

	displayName := strings.TrimSpace(msg.From.FirstName + " " + msg.From.LastName)

	return connector.InboundMessage{
		Channel: "telegram",
		ChatID:  strconv.FormatInt(msg.Chat.ID, 10),
		Kind:    kind,
		Text:    text,
		Sender: connector.Sender{
			ID:          strconv.FormatInt(msg.From.ID, 10),
			Username:    msg.From.UserName,
			DisplayName: displayName,
		},
		MentionsBot: mentioned,
		ReplyToBot:  repliedToBot,
	}
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
