// Package knowledge assembles the system prompt for the response engine from
// the embedded base prompt plus optional file and URL supplements.
package knowledge

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	readability "codeberg.org/readeck/go-readability/v2"
)

const (
	maxSupplementSize = 50 * 1024 // per-source cap on supplement text
	fetchTimeout      = 30 * time.Second
)

// Config selects optional knowledge sources appended to the base prompt.
type Config struct {
	File string // path to a local knowledge file (plain text or Markdown)
	URL  string // page to fetch and extract readable text from
}

// BuildPrompt returns the full system prompt: the embedded base prompt plus
// any configured supplements. A failing supplement source is an error; the
// bot should not start with silently degraded knowledge.
func BuildPrompt(ctx context.Context, cfg Config) (string, error) {
	var b strings.Builder
	b.WriteString(basePrompt)

	if cfg.File != "" {
		text, err := loadFile(cfg.File)
		if err != nil {
			return "", err
		}
		appendSupplement(&b, "Additional knowledge", text)
	}

	if cfg.URL != "" {
		text, err := loadURL(ctx, cfg.URL)
		if err != nil {
			return "", err
		}
		appendSupplement(&b, "Additional knowledge from "+cfg.URL, text)
	}

	return b.String(), nil
}

func appendSupplement(b *strings.Builder, heading, text string) {
	b.WriteString("\n\n## ")
	b.WriteString(heading)
	b.WriteString("\n\n")
	b.WriteString(strings.TrimSpace(text))
}

func loadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("knowledge: read file: %w", err)
	}
	return clip(string(data)), nil
}

// loadURL fetches a page and extracts its readable text, so a public FAQ or
// help-center page can feed the prompt without hand-copying.
func loadURL(ctx context.Context, rawURL string) (string, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("knowledge: invalid url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("knowledge: %w", err)
	}
	req.Header.Set("User-Agent", "ntw-supportbot/1.0")

	client := &http.Client{Timeout: fetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("knowledge: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("knowledge: fetch %s: HTTP %d", rawURL, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxSupplementSize))
		if err != nil {
			return "", fmt.Errorf("knowledge: read body: %w", err)
		}
		return clip(string(body)), nil
	}

	article, err := readability.FromReader(resp.Body, parsedURL)
	if err != nil {
		return "", fmt.Errorf("knowledge: parse page: %w", err)
	}

	var textBuf bytes.Buffer
	if err := article.RenderText(&textBuf); err != nil {
		return "", fmt.Errorf("knowledge: render page: %w", err)
	}

	return clip(textBuf.String()), nil
}

func clip(s string) string {
	if len(s) > maxSupplementSize {
		return s[:maxSupplementSize] + "\n... [truncated]"
	}
	return s
}
