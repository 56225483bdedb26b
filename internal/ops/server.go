// Package ops exposes a small REST surface for operators: health, runtime
// stats, the ticket archive, and recent logs.
package ops

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ntw-markets/supportbot/internal/archive"
	"github.com/ntw-markets/supportbot/internal/logbuf"
	"github.com/ntw-markets/supportbot/internal/session"
)

// LogQuerier abstracts log entry querying to avoid coupling to logbuf directly.
type LogQuerier interface {
	Query(since time.Time, minLevel slog.Level, limit int) []logbuf.Entry
}

// Config holds ops server configuration.
type Config struct {
	Host string
	Port int
	Key  string // API key for Bearer auth; empty disables auth
}

// Server is the supportbot ops API server.
type Server struct {
	cfg      Config
	sessions *session.Store
	tickets  *archive.Store
	logs     LogQuerier
	logger   *slog.Logger
	srv      *http.Server
	started  time.Time
}

// NewServer creates an ops server. tickets and logs may be nil; the matching
// endpoints then serve empty results.
func NewServer(cfg Config, sessions *session.Store, tickets *archive.Store, logs LogQuerier, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:      cfg,
		sessions: sessions,
		tickets:  tickets,
		logs:     logs,
		logger:   logger,
		started:  time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/stats", s.requireAuth(s.handleStats))
	mux.HandleFunc("GET /api/tickets", s.requireAuth(s.handleListTickets))
	mux.HandleFunc("GET /api/tickets/{id}", s.requireAuth(s.handleGetTicket))
	mux.HandleFunc("GET /api/logs", s.requireAuth(s.handleGetLogs))

	s.srv = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           s.corsMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start begins listening. Blocks until context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.srv.Shutdown(shutCtx)
	}()

	s.logger.Info("ops server starting", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("ops server: %w", err)
	}
	return nil
}

// Handler returns the underlying http.Handler for testing.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// --- Middleware ---

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Key == "" {
			next(w, r)
			return
		}
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != s.cfg.Key {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next(w, r)
	}
}

// --- Handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type statsResponse struct {
	ActiveSessions int    `json:"active_sessions"`
	TicketsFiled   int    `json:"tickets_filed"`
	TicketsFailed  int    `json:"tickets_failed"`
	Uptime         string `json:"uptime"`
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	resp := statsResponse{
		Uptime: time.Since(s.started).Round(time.Second).String(),
	}
	if s.sessions != nil {
		resp.ActiveSessions = s.sessions.Len()
	}
	if s.tickets != nil {
		delivered, failed := true, false
		if n, err := s.tickets.Count(archive.Filter{Delivered: &delivered}); err == nil {
			resp.TicketsFiled = n
		}
		if n, err := s.tickets.Count(archive.Filter{Delivered: &failed}); err == nil {
			resp.TicketsFailed = n
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListTickets(w http.ResponseWriter, r *http.Request) {
	if s.tickets == nil {
		writeJSON(w, http.StatusOK, []*archive.Record{})
		return
	}

	filter := archive.Filter{Limit: 100}
	if cat := r.URL.Query().Get("category"); cat != "" {
		filter.Category = cat
	}
	if d := r.URL.Query().Get("delivered"); d != "" {
		v := d == "true"
		filter.Delivered = &v
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
			filter.Limit = n
		}
	}

	records, err := s.tickets.List(filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if records == nil {
		records = []*archive.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleGetTicket(w http.ResponseWriter, r *http.Request) {
	if s.tickets == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "ticket not found"})
		return
	}
	rec, err := s.tickets.Get(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "ticket not found"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleGetLogs(w http.ResponseWriter, r *http.Request) {
	if s.logs == nil {
		writeJSON(w, http.StatusOK, []logbuf.Entry{})
		return
	}

	limit := 200
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	minLevel := slog.LevelDebug
	switch strings.ToLower(r.URL.Query().Get("level")) {
	case "info":
		minLevel = slog.LevelInfo
	case "warn":
		minLevel = slog.LevelWarn
	case "error":
		minLevel = slog.LevelError
	}

	var since time.Time
	if v := r.URL.Query().Get("since"); v != "" {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
			since = time.UnixMilli(ms)
		}
	}

	entries := s.logs.Query(since, minLevel, limit)
	if entries == nil {
		entries = []logbuf.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
