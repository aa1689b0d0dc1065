package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"clubledger/internal/importer"
	"clubledger/internal/log"
	"clubledger/internal/report"
	"clubledger/internal/services"
	"clubledger/internal/storage"
)

type Server struct {
	http.Server
	store       *storage.SQLiteRepository
	ledger      *services.LedgerService
	reports     *report.Service
	importer    *importer.Importer
	rateLimiter *rateLimiter

	shutdownOnce sync.Once
}

// Simple in-memory rate limiter
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

// startCleanup runs periodic cleanup to remove stale client entries
func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

// stop gracefully shuts down the rate limiter cleanup goroutine
func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{
			lastRequest: now,
			requests:    1,
		}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 requests per minute
	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}

// NewServer configures routes and returns a ready-to-run http.Server.
func NewServer(addr string, store *storage.SQLiteRepository, ledger *services.LedgerService, reports *report.Service, imp *importer.Importer) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:       store,
		ledger:      ledger,
		reports:     reports,
		importer:    imp,
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	// Seasons
	mux.HandleFunc("POST /api/v1/seasons", s.wrap(s.handleCreateSeason))
	mux.HandleFunc("GET /api/v1/seasons", s.wrap(s.handleListSeasons))
	mux.HandleFunc("GET /api/v1/seasons/{id}", s.wrap(s.handleGetSeason))
	mux.HandleFunc("PUT /api/v1/seasons/{id}", s.wrap(s.handleUpdateSeason))
	mux.HandleFunc("DELETE /api/v1/seasons/{id}", s.wrap(s.handleDeleteSeason))

	// Teams
	mux.HandleFunc("POST /api/v1/teams", s.wrap(s.handleCreateTeam))
	mux.HandleFunc("GET /api/v1/teams", s.wrap(s.handleListTeams))
	mux.HandleFunc("GET /api/v1/teams/{id}", s.wrap(s.handleGetTeam))
	mux.HandleFunc("PUT /api/v1/teams/{id}", s.wrap(s.handleUpdateTeam))
	mux.HandleFunc("DELETE /api/v1/teams/{id}", s.wrap(s.handleDeleteTeam))

	// Budgets
	mux.HandleFunc("POST /api/v1/budgets", s.wrap(s.handleCreateBudget))
	mux.HandleFunc("GET /api/v1/budgets", s.wrap(s.handleListBudgets))
	mux.HandleFunc("GET /api/v1/budgets/summary", s.wrap(s.handleSeasonSummary))
	mux.HandleFunc("GET /api/v1/budgets/teams/{id}/summary", s.wrap(s.handleTeamSummary))
	mux.HandleFunc("GET /api/v1/budgets/{id}", s.wrap(s.handleGetBudget))
	mux.HandleFunc("PUT /api/v1/budgets/{id}", s.wrap(s.handleUpdateBudget))
	mux.HandleFunc("DELETE /api/v1/budgets/{id}", s.wrap(s.handleDeleteBudget))

	// Expenses
	mux.HandleFunc("POST /api/v1/expenses", s.wrap(s.handleCreateExpense))
	mux.HandleFunc("GET /api/v1/expenses", s.wrap(s.handleListExpenses))
	mux.HandleFunc("GET /api/v1/expenses/categories", s.wrap(s.handleExpenseCategories))
	mux.HandleFunc("GET /api/v1/expenses/{id}", s.wrap(s.handleGetExpense))
	mux.HandleFunc("PUT /api/v1/expenses/{id}", s.wrap(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/v1/expenses/{id}", s.wrap(s.handleDeleteExpense))

	// Revenues
	mux.HandleFunc("POST /api/v1/revenues", s.wrap(s.handleCreateRevenue))
	mux.HandleFunc("GET /api/v1/revenues", s.wrap(s.handleListRevenues))
	mux.HandleFunc("GET /api/v1/revenues/categories", s.wrap(s.handleRevenueCategories))
	mux.HandleFunc("GET /api/v1/revenues/{id}", s.wrap(s.handleGetRevenue))
	mux.HandleFunc("PUT /api/v1/revenues/{id}", s.wrap(s.handleUpdateRevenue))
	mux.HandleFunc("DELETE /api/v1/revenues/{id}", s.wrap(s.handleDeleteRevenue))

	// Transparency reports
	mux.HandleFunc("GET /api/v1/transparency/seasons/{id}/report", s.wrap(s.handleSeasonReport))
	mux.HandleFunc("GET /api/v1/transparency/organizations/{id}/report", s.wrap(s.handleOrganizationReport))
	mux.HandleFunc("GET /api/v1/transparency/teams/{id}/player-costs", s.wrap(s.handlePlayerCosts))

	// Quick actions
	mux.HandleFunc("POST /api/v1/quick/registration-fees", s.wrap(s.handleQuickRegistrationFees))
	mux.HandleFunc("POST /api/v1/quick/expenses", s.wrap(s.handleQuickExpense))

	// CSV import
	mux.HandleFunc("POST /api/v1/import/seasons", s.wrap(s.handleImportSeasons))
	mux.HandleFunc("POST /api/v1/import/teams", s.wrap(s.handleImportTeams))
	mux.HandleFunc("POST /api/v1/import/expenses", s.wrap(s.handleImportExpenses))
	mux.HandleFunc("POST /api/v1/import/revenues", s.wrap(s.handleImportRevenues))
	mux.HandleFunc("GET /api/v1/import/templates/{entity}", s.wrap(s.handleImportTemplate))

	return s
}

// wrap adds security headers, rate limiting, and request logging to handlers
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		// Generate request ID for tracing
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldClientIP, clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		// Apply rate limiting to mutating requests
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", log.FieldClientIP, clientIP, log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// Create a custom response writer to capture status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, duration.Milliseconds(),
			log.FieldClientIP, clientIP)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
