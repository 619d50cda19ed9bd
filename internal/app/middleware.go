package app

import (
	"log/slog"
	"net/http"
	"time"

	"restoapi/internal/handlers/respond"

	"github.com/google/uuid"
)

const (
	HeaderClientId  = "X-Client-Id"
	HeaderRequestId = "X-Request-Id"

	maxClientIdLen = 128
)

// requestId tags every request with an id, reusing the caller's when given,
// and logs the outcome.
func (a *App) requestId(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestId)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestId, id)

		rec := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		a.log.Info("request",
			slog.String("request_id", id),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("elapsed", time.Since(start)),
		)
	})
}

// clientId requires the X-Client-Id header that scopes carts, booking flows
// and sessions.
func (a *App) clientId(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderClientId)
		if id == "" || len(id) > maxClientIdLen {
			http.Error(w, "X-Client-Id header is required", http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r.WithContext(respond.WithClientId(r.Context(), id)))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusWriter) WriteHeader(status int) {
	if !s.wroteHeader {
		s.status = status
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(status)
}
