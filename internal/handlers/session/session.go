package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"restoapi/internal/backend"
	"restoapi/internal/handlers/respond"
	"restoapi/internal/models"
	serviceerrors "restoapi/internal/service"
	"restoapi/pkg/lib/logger/sl"
)

type SessionService interface {
	Login(ctx context.Context, clientId string, creds models.Credentials) (models.Session, error)
	Current(ctx context.Context, clientId string) (models.Session, error)
	RequireAdmin(ctx context.Context, clientId string) (models.Session, error)
	Logout(ctx context.Context, clientId string) error
	Invalidate(ctx context.Context, clientId string) error
}

type Handler struct {
	log     *slog.Logger
	service SessionService
}

func New(log *slog.Logger, service SessionService) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

type sessionView struct {
	User    models.User `json:"user"`
	IsAdmin bool        `json:"is_admin"`
}

func viewOf(s models.Session) sessionView {
	return sessionView{User: s.User, IsAdmin: s.IsAdmin()}
}

// POST /session/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.Login"
	log := h.log.With("op", op)

	var creds models.Credentials
	if err := respond.Decode(r, &creds); err != nil {
		respond.Error(w, log, err, "Cannot read credentials")
		return
	}

	session, err := h.service.Login(r.Context(), respond.ClientId(r), creds)
	if err != nil {
		respond.Error(w, log, err, "Failed to log in")
		return
	}

	respond.JSON(w, log, http.StatusOK, viewOf(session))
}

// POST /session/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.Logout"
	log := h.log.With("op", op)

	if err := h.service.Logout(r.Context(), respond.ClientId(r)); err != nil {
		respond.Error(w, log, err, "Failed to log out")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GET /session
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.Current"
	log := h.log.With("op", op)

	session, err := h.service.Current(r.Context(), respond.ClientId(r))
	if err != nil {
		respond.Error(w, log, err, "Failed to read session")
		return
	}

	respond.JSON(w, log, http.StatusOK, viewOf(session))
}

// Attach puts the backend token of a signed-in client on the request context.
// Anonymous clients pass through untouched.
func (h *Handler) Attach(next http.Handler) http.Handler {
	const op = "handlers.session.Attach"

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := h.service.Current(r.Context(), respond.ClientId(r))
		if err != nil {
			if !errors.Is(err, serviceerrors.ErrUnauthenticated) {
				h.log.Warn("Failed to load session", slog.String("op", op), sl.Err(err))
			}
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(backend.WithToken(r.Context(), session.Token)))
	})
}

// RequireUser rejects anonymous clients with 401.
func (h *Handler) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	const op = "handlers.session.RequireUser"

	return func(w http.ResponseWriter, r *http.Request) {
		session, err := h.service.Current(r.Context(), respond.ClientId(r))
		if err != nil {
			respond.Error(w, h.log.With("op", op), err, "Failed to read session")
			return
		}
		next(w, r.WithContext(backend.WithToken(r.Context(), session.Token)))
	}
}

// RequireAdmin rejects anonymous clients with 401 and everyone else but
// admins with 403.
func (h *Handler) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	const op = "handlers.session.RequireAdmin"

	return func(w http.ResponseWriter, r *http.Request) {
		session, err := h.service.RequireAdmin(r.Context(), respond.ClientId(r))
		if err != nil {
			respond.Error(w, h.log.With("op", op), err, "Failed to read session")
			return
		}
		next(w, r.WithContext(backend.WithToken(r.Context(), session.Token)))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	if s.status == 0 {
		s.status = status
	}
	s.ResponseWriter.WriteHeader(status)
}

// Teardown clears the stored session whenever a response goes out as 401, so
// an expired backend token never lingers.
func (h *Handler) Teardown(next http.Handler) http.Handler {
	const op = "handlers.session.Teardown"

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		if rec.status != http.StatusUnauthorized {
			return
		}
		if err := h.service.Invalidate(r.Context(), respond.ClientId(r)); err != nil {
			h.log.Error("Failed to tear down session", slog.String("op", op), sl.Err(err))
		}
	})
}
