package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ntw-markets/supportbot/internal/config"
	"github.com/ntw-markets/supportbot/internal/generator"
	"github.com/ntw-markets/supportbot/internal/knowledge"
	"github.com/ntw-markets/supportbot/internal/router"
	"github.com/ntw-markets/supportbot/pkg/protocol"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	switch os.Args[1] {
	case "chat":
		cmdChat(os.Args[2:])
	case "health":
		cmdHealth()
	case "stats":
		cmdStats()
	case "tickets":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "usage: supportctl tickets <list|show>")
			os.Exit(1)
		}
		switch os.Args[2] {
		case "list":
			cmdTicketsList(os.Args[3:])
		case "show":
			if len(os.Args) < 4 {
				fmt.Fprintln(os.Stderr, "usage: supportctl tickets show <id|ref>")
				os.Exit(1)
			}
			cmdTicketsShow(os.Args[3])
		default:
			fmt.Fprintf(os.Stderr, "unknown tickets subcommand: %s\n", os.Args[2])
			os.Exit(1)
		}
	case "logs":
		cmdLogs(os.Args[2:])
	case "config":
		if len(os.Args) < 4 || os.Args[2] != "validate" {
			fmt.Fprintln(os.Stderr, "usage: supportctl config validate <path>")
			os.Exit(1)
		}
		cmdConfigValidate(os.Args[3])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// --- chat command: local REPL against the response engine, no Telegram ---

func cmdChat(args []string) {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	provType := fs.String("provider", envOr("SUPPORTBOT_PROVIDER", "openai"), "Provider type: openai or anthropic")
	model := fs.String("model", envOr("SUPPORTBOT_MODEL", ""), "Model name")
	apiKey := fs.String("api-key", "", "API key (or set OPENAI_API_KEY / ANTHROPIC_API_KEY)")
	baseURL := fs.String("base-url", envOr("SUPPORTBOT_BASE_URL", ""), "Override API base URL")
	knowledgeFile := fs.String("knowledge-file", "", "Extra knowledge file appended to the prompt")
	verbose := fs.Bool("v", false, "Verbose logging")
	fs.Parse(args)

	if *apiKey == "" {
		switch *provType {
		case "anthropic":
			*apiKey = os.Getenv("ANTHROPIC_API_KEY")
		default:
			*apiKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if *apiKey == "" {
		fmt.Fprintln(os.Stderr, "error: API key required (--api-key, OPENAI_API_KEY, or ANTHROPIC_API_KEY)")
		os.Exit(1)
	}

	logLevel := slog.LevelWarn
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	var prov generator.Provider
	switch *provType {
	case "anthropic":
		var opts []generator.AnthropicOption
		if *model != "" {
			opts = append(opts, generator.WithAnthropicModel(*model))
		}
		if *baseURL != "" {
			opts = append(opts, generator.WithAnthropicBaseURL(*baseURL))
		}
		prov = generator.NewAnthropic(*apiKey, opts...)
	default:
		var opts []generator.OpenAIOption
		if *model != "" {
			opts = append(opts, generator.WithModel(*model))
		}
		if *baseURL != "" {
			opts = append(opts, generator.WithBaseURL(*baseURL))
		}
		prov = generator.NewOpenAI(*apiKey, opts...)
	}

	ctx := context.Background()
	prompt, err := knowledge.BuildPrompt(ctx, knowledge.Config{File: *knowledgeFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	engine := generator.NewEngine(prov, prompt, generator.Config{Model: *model}, logger)

	fmt.Println("supportctl chat (type 'quit' to exit). Escalation tags are shown raw.")
	fmt.Println()

	var history []protocol.ChatMessage
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		history = append(history, protocol.ChatMessage{Role: protocol.RoleUser, Content: line})
		reply, err := engine.Reply(ctx, history)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			history = history[:len(history)-1]
			continue
		}
		history = append(history, protocol.ChatMessage{Role: protocol.RoleAssistant, Content: reply})

		if parsed := router.ParseReply(reply); parsed.Kind == router.ReplyEscalate {
			fmt.Printf("%s  (would open a %s ticket)\n\n", reply, parsed.Category)
			continue
		}
		fmt.Println(reply)
		fmt.Println()
	}
}

// --- API client commands ---

func cmdHealth() {
	body, err := apiGet("/api/health")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(body))
}

func cmdStats() {
	body, err := apiGet("/api/stats")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(prettyJSON(body))
}

func cmdTicketsList(args []string) {
	fs := flag.NewFlagSet("tickets list", flag.ExitOnError)
	category := fs.String("category", "", "Filter by category")
	delivered := fs.String("delivered", "", "Filter by delivery outcome (true|false)")
	limit := fs.Int("limit", 50, "Max results")
	fs.Parse(args)

	query := fmt.Sprintf("?limit=%d", *limit)
	if *category != "" {
		query += "&category=" + *category
	}
	if *delivered != "" {
		query += "&delivered=" + *delivered
	}

	body, err := apiGet("/api/tickets" + query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	var tickets []map[string]any
	json.Unmarshal(body, &tickets)
	for _, t := range tickets {
		status := "filed"
		if t["delivered"] == false {
			status = "failed"
		}
		fmt.Printf("%-14s %-12s %-6s %s\n", t["ref"], t["category"], status, t["created_at"])
	}
}

func cmdTicketsShow(id string) {
	body, err := apiGet("/api/tickets/" + id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	var rec map[string]any
	if err := json.Unmarshal(body, &rec); err != nil {
		fmt.Println(string(body))
		return
	}
	if report, ok := rec["report"].(string); ok {
		fmt.Println(report)
		return
	}
	fmt.Println(prettyJSON(body))
}

func cmdLogs(args []string) {
	fs := flag.NewFlagSet("logs", flag.ExitOnError)
	level := fs.String("level", "", "Minimum level (info|warn|error)")
	limit := fs.Int("limit", 100, "Max entries")
	fs.Parse(args)

	query := fmt.Sprintf("?limit=%d", *limit)
	if *level != "" {
		query += "&level=" + *level
	}

	body, err := apiGet("/api/logs" + query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	var entries []map[string]any
	json.Unmarshal(body, &entries)
	for _, e := range entries {
		fmt.Printf("%-24v %-5v %v\n", e["time"], e["level"], e["message"])
	}
}

func cmdConfigValidate(path string) {
	if _, err := config.Load(path); err != nil {
		fmt.Fprintf(os.Stderr, "invalid: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("config is valid")
}

// --- Helpers ---

func apiGet(path string) ([]byte, error) {
	base := envOr("SUPPORTBOT_API_URL", "http://localhost:8080")
	url := base + path

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	if key := os.Getenv("SUPPORTBOT_API_KEY"); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func prettyJSON(data []byte) string {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return string(data)
	}
	out, _ := json.MarshalIndent(v, "", "  ")
	return string(out)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printUsage() {
	fmt.Println("supportctl - supportbot management CLI")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  chat                  Talk to the response engine locally (no Telegram)")
	fmt.Println("  health                Check daemon health")
	fmt.Println("  stats                 Show session and ticket counters")
	fmt.Println("  tickets list          List archived tickets (--category, --delivered, --limit)")
	fmt.Println("  tickets show <ref>    Print a ticket report")
	fmt.Println("  logs                  Show recent daemon logs (--level, --limit)")
	fmt.Println("  config validate <p>   Validate config file")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  SUPPORTBOT_API_URL    Daemon URL (default: http://localhost:8080)")
	fmt.Println("  SUPPORTBOT_API_KEY    API key for authentication")
	fmt.Println("  SUPPORTBOT_PROVIDER   Provider type: openai (default) or anthropic")
	fmt.Println("  OPENAI_API_KEY        API key for OpenAI provider")
	fmt.Println("  ANTHROPIC_API_KEY     API key for Anthropic provider")
}
