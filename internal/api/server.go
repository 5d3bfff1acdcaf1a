package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"medibook/internal/config"
	"medibook/internal/meeting"
	"medibook/internal/slots"
	"medibook/internal/store"
)

// HTTPServer serves the availability engine over JSON.
type HTTPServer struct {
	server  *http.Server
	store   *store.Store
	gen     *slots.Generator
	eval    *meeting.Evaluator
	logger  zerolog.Logger
	limiter *rate.Limiter
	cfg     config.Config

	// now is injected so handlers stay testable against a fixed clock.
	now func() time.Time
}

// NewHTTPServer wires routes and middleware.
func NewHTTPServer(cfg *config.Config, st *store.Store, logger zerolog.Logger, now func() time.Time) *HTTPServer {
	if now == nil {
		now = func() time.Time { return time.Now().In(cfg.Location()) }
	}

	rps := cfg.Server.RateLimitRPS
	if rps <= 0 {
		rps = 50
	}
	burst := cfg.Server.RateLimitBurst
	if burst <= 0 {
		burst = 2 * rps
	}

	s := &HTTPServer{
		store:   st,
		gen:     slots.NewGenerator(cfg.SlotInterval()),
		eval:    meeting.NewEvaluator(cfg.Location(), logger),
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		cfg:     *cfg,
		now:     now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/slots", s.handleSlots)
	mux.HandleFunc("/api/availability", s.handleAvailability)
	mux.HandleFunc("/api/next-slot", s.handleNextSlot)
	mux.HandleFunc("/api/meeting", s.handleMeeting)
	mux.HandleFunc("/api/blackouts", s.handleBlackouts)
	mux.HandleFunc("/api/schedule/export", s.handleScheduleExport)
	mux.HandleFunc("/healthz", s.handleHealth)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.middleware(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Handler exposes the wrapped handler for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

// Start serves until the context is cancelled.
func (s *HTTPServer) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.server.Shutdown(ctxShutdown)
	}()

	s.logger.Info().Str("addr", s.server.Addr).Msg("API server started")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// middleware attaches a request ID, applies rate limiting and logs the
// request.
func (s *HTTPServer) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Second)
	defer cancel()
	if err := s.store.PingContext(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "store not ready")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
