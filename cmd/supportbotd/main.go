package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ntw-markets/supportbot/internal/archive"
	"github.com/ntw-markets/supportbot/internal/config"
	"github.com/ntw-markets/supportbot/internal/connector"
	"github.com/ntw-markets/supportbot/internal/connector/telegram"
	"github.com/ntw-markets/supportbot/internal/digest"
	"github.com/ntw-markets/supportbot/internal/dispatch"
	"github.com/ntw-markets/supportbot/internal/generator"
	"github.com/ntw-markets/supportbot/internal/knowledge"
	"github.com/ntw-markets/supportbot/internal/logbuf"
	"github.com/ntw-markets/supportbot/internal/ops"
	"github.com/ntw-markets/supportbot/internal/router"
	"github.com/ntw-markets/supportbot/internal/session"
)

const (
	msgGreeting = "Hi! I'm the NTW support bot. Send me a message and I'll do my best to help."
	msgNewChat  = "Starting fresh. Send me your question!"
	msgHelp     = "Ask me anything about the NTW Markets IB program. " +
		"If I can't answer, I'll take your details and file a ticket with our support team.\n\n" +
		"/new starts a fresh conversation, /help shows this message."
)

func main() {
	configPath := flag.String("config", "", "Path to config JSON file")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	// Set up logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logBuf := logbuf.New(2000)
	jsonHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(logbuf.NewHandler(jsonHandler, logBuf))

	// Load config (2 modes: file, env)
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("supportbotd starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Assemble the system prompt
	prompt, err := knowledge.BuildPrompt(ctx, knowledge.Config{
		File: cfg.Knowledge.File,
		URL:  cfg.Knowledge.URL,
	})
	if err != nil {
		logger.Error("failed to build knowledge prompt", "error", err)
		os.Exit(1)
	}

	// 2. Response engine
	var prov generator.Provider
	switch cfg.Provider.Type {
	case "anthropic":
		var opts []generator.AnthropicOption
		if cfg.Provider.BaseURL != "" {
			opts = append(opts, generator.WithAnthropicBaseURL(cfg.Provider.BaseURL))
		}
		if cfg.Provider.Model != "" {
			opts = append(opts, generator.WithAnthropicModel(cfg.Provider.Model))
		}
		prov = generator.NewAnthropic(cfg.Provider.APIKey, opts...)
	default: // "openai" or empty
		var opts []generator.OpenAIOption
		if cfg.Provider.BaseURL != "" {
			opts = append(opts, generator.WithBaseURL(cfg.Provider.BaseURL))
		}
		if cfg.Provider.Model != "" {
			opts = append(opts, generator.WithModel(cfg.Provider.Model))
		}
		prov = generator.NewOpenAI(cfg.Provider.APIKey, opts...)
	}
	logger.Info("provider initialized", "type", prov.Name(), "model", cfg.Provider.Model)

	engine := generator.NewEngine(prov, prompt, generator.Config{
		Model:       cfg.Provider.Model,
		MaxTokens:   cfg.Provider.MaxTokens,
		Temperature: cfg.Provider.Temperature,
		Timeout:     time.Duration(cfg.Provider.TimeoutSeconds) * time.Second,
	}, logger.With("component", "generator"))

	// 3. Sessions and the ticket archive
	sessions := session.NewStore()

	os.MkdirAll(cfg.Bot.DataDir, 0o755)
	dbPath := filepath.Join(cfg.Bot.DataDir, "tickets.db")
	archiveStore, err := archive.NewStore(dbPath)
	if err != nil {
		logger.Error("failed to open ticket archive", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer archiveStore.Close()

	// Forward-declare tgConn and rtr so the handler and sink closures can
	// reference them.
	var tgConn *telegram.Connector
	var rtr *router.Router

	// 4. Operational sink
	var sink dispatch.Dispatcher
	var notify digest.NotifyFunc
	switch cfg.Sink.Type {
	case "telegram":
		sendText := func(ctx context.Context, chatID, text string) error {
			return tgConn.Send(ctx, connector.OutboundMessage{ChatID: chatID, Content: text})
		}
		sink = dispatch.NewTelegramSink(cfg.Sink.TelegramChatID, sendText)
		notify = func(ctx context.Context, text string) error {
			return sendText(ctx, cfg.Sink.TelegramChatID, text)
		}
	case "slack":
		slackSink := dispatch.NewSlackSink(cfg.Sink.SlackBotToken, cfg.Sink.SlackChannel)
		sink = slackSink
		notify = slackSink.SendText
	default:
		sink = dispatch.Disabled{}
		logger.Warn("no ticket sink configured, escalations will point users at the support contact")
	}
	dispatcher := dispatch.NewArchived(sink, archiveStore, logger.With("component", "dispatch"))

	// 5. Telegram connector with command handling in front of the router
	tgHandler := func(ctx context.Context, msg connector.InboundMessage) error {
		var reply string
		switch msg.Text {
		case "/start":
			rtr.Reset(msg.ChatID)
			reply = msgGreeting
		case "/new":
			rtr.Reset(msg.ChatID)
			reply = msgNewChat
		case "/help":
			reply = msgHelp
		default:
			reply = rtr.Handle(ctx, msg)
		}
		if reply == "" {
			return nil
		}
		return tgConn.Send(ctx, connector.OutboundMessage{ChatID: msg.ChatID, Content: reply})
	}

	tgConn, err = telegram.New(telegram.Config{
		Token:     cfg.Telegram.Token,
		AllowFrom: cfg.Telegram.AllowFrom,
	}, tgHandler, logger.With("connector", "telegram"))
	if err != nil {
		logger.Error("failed to init telegram connector", "error", err)
		os.Exit(1)
	}

	rtr = router.New(router.Config{
		BotHandle:       tgConn.Handle(),
		SupportContact:  cfg.Bot.SupportContact,
		ContextMaxTurns: cfg.Bot.ContextMaxTurns,
	}, sessions, engine, dispatcher, logger.With("component", "router"))

	go safeGo(logger, "telegram", func() { tgConn.Start(ctx) })

	// 6. Daily ops digest, delivered through the same sink as tickets
	if notify != nil {
		dg := digest.New(archiveStore, notify, logger.With("component", "digest"))
		go safeGo(logger, "digest", func() { dg.Start(ctx, cfg.Digest.Schedule) })
	}

	// 7. Ops API server
	opsSrv := ops.NewServer(ops.Config{
		Host: cfg.API.Host,
		Port: cfg.API.Port,
		Key:  cfg.API.Key,
	}, sessions, archiveStore, logBuf, logger.With("component", "ops"))
	go safeGo(logger, "ops-server", func() { opsSrv.Start(ctx) })
	logger.Info("ops server started", "port", cfg.API.Port)

	// 8. Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig)
	cancel()
	logger.Info("supportbotd stopped")
}

// safeGo runs fn with panic recovery.
func safeGo(logger *slog.Logger, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("goroutine panicked", "name", name, "panic", fmt.Sprintf("%v", r))
		}
	}()
	fn()
}
