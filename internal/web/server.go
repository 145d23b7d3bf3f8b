package web

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hpungsan/nudge/internal/config"
	"github.com/hpungsan/nudge/internal/ops"
)

// maxBodyBytes bounds POST bodies.
const maxBodyBytes = 64 << 10

// NewServer creates and configures the HTTP server for the habit API.
func NewServer(store ops.Store, interp ops.Interpreter, cfg *config.Config, logger *zap.Logger, version string) *http.Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &Handlers{
		store:   store,
		interp:  interp,
		logger:  logger,
		version: version,
	}

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Bind, cfg.Port),
		Handler:           h.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// routes builds the handler chain. Split from NewServer so tests can drive it
// through httptest without a listener.
func (h *Handlers) routes() http.Handler {
	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("POST /prompt", h.HandlePrompt)
	mux.HandleFunc("GET /habits", h.HandleListHabits)
	mux.HandleFunc("GET /habits/report", h.HandleReport)

	return requestID(accessLog(h.logger, securityHeaders(mux)))
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and shuts it down gracefully on SIGINT/SIGTERM
// or when ctx is cancelled.
func Run(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("nudge API listening", zap.String("addr", "http://"+srv.Addr))

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		logger.Warn("server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
