package sessionservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"restoapi/internal/backend"
	databaseerrors "restoapi/internal/database"
	"restoapi/internal/models"
	serviceerrors "restoapi/internal/service"
	"restoapi/pkg/lib/logger/sl"
)

const (
	KeyToken = "token"
	KeyUser  = "user"
)

type Storage interface {
	GetItem(ctx context.Context, clientId, key string) ([]byte, error)
	SetItem(ctx context.Context, clientId, key string, value []byte) error
	RemoveItem(ctx context.Context, clientId, key string) error
}

type Authenticator interface {
	Login(ctx context.Context, creds models.Credentials) (models.Session, error)
}

// Service keeps the signed-in identity of each client in client storage,
// under the token and user keys.
type Service struct {
	log     *slog.Logger
	storage Storage
	auth    Authenticator
}

func New(log *slog.Logger, storage Storage, auth Authenticator) *Service {
	return &Service{
		log:     log,
		storage: storage,
		auth:    auth,
	}
}

func (s *Service) Login(ctx context.Context, clientId string, creds models.Credentials) (models.Session, error) {
	const op = "service.session.Login"
	log := s.log.With("op", op, "client_id", clientId)

	select {
	case <-ctx.Done():
		err := serviceerrors.Translate(ctx.Err())
		log.Warn("request abandoned", sl.Err(err))
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	default:
	}

	session, err := s.auth.Login(ctx, creds)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			log.Info("login rejected")
			return models.Session{}, fmt.Errorf("%s: %w", op, serviceerrors.ErrUnauthenticated)
		}
		err = serviceerrors.Translate(err)
		log.Error("Failed to log in", sl.Err(err))
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	token, err := json.Marshal(session.Token)
	if err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	user, err := json.Marshal(session.User)
	if err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.SetItem(ctx, clientId, KeyToken, token); err != nil {
		err = serviceerrors.Translate(err)
		log.Error("Failed to store token", sl.Err(err))
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.storage.SetItem(ctx, clientId, KeyUser, user); err != nil {
		err = serviceerrors.Translate(err)
		log.Error("Failed to store user", sl.Err(err))
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("logged in", slog.String("user_id", session.User.Id))
	return session, nil
}

// Current returns the stored session. A missing or unreadable session is
// ErrUnauthenticated; an unreadable one is also wiped.
func (s *Service) Current(ctx context.Context, clientId string) (models.Session, error) {
	const op = "service.session.Current"
	log := s.log.With("op", op, "client_id", clientId)

	select {
	case <-ctx.Done():
		err := serviceerrors.Translate(ctx.Err())
		log.Warn("request abandoned", sl.Err(err))
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	default:
	}

	rawToken, err := s.storage.GetItem(ctx, clientId, KeyToken)
	if err != nil {
		if errors.Is(err, databaseerrors.ErrNotFound) {
			return models.Session{}, fmt.Errorf("%s: %w", op, serviceerrors.ErrUnauthenticated)
		}
		err = serviceerrors.Translate(err)
		log.Error("Failed to read token", sl.Err(err))
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	rawUser, err := s.storage.GetItem(ctx, clientId, KeyUser)
	if err != nil && !errors.Is(err, databaseerrors.ErrNotFound) {
		err = serviceerrors.Translate(err)
		log.Error("Failed to read user", sl.Err(err))
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	var session models.Session
	if json.Unmarshal(rawToken, &session.Token) != nil || session.Token == "" ||
		rawUser == nil || json.Unmarshal(rawUser, &session.User) != nil {
		log.Warn("discarding malformed session")
		if err := s.clear(ctx, clientId); err != nil {
			log.Error("Failed to discard session", sl.Err(err))
		}
		return models.Session{}, fmt.Errorf("%s: %w", op, serviceerrors.ErrUnauthenticated)
	}

	return session, nil
}

// RequireAdmin is Current plus the admin role check.
func (s *Service) RequireAdmin(ctx context.Context, clientId string) (models.Session, error) {
	const op = "service.session.RequireAdmin"

	session, err := s.Current(ctx, clientId)
	if err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	if !session.IsAdmin() {
		s.log.Warn("admin route denied", slog.String("op", op), slog.String("user_id", session.User.Id))
		return models.Session{}, fmt.Errorf("%s: %w", op, serviceerrors.ErrForbidden)
	}
	return session, nil
}

func (s *Service) Logout(ctx context.Context, clientId string) error {
	const op = "service.session.Logout"
	log := s.log.With("op", op, "client_id", clientId)

	select {
	case <-ctx.Done():
		err := serviceerrors.Translate(ctx.Err())
		log.Warn("request abandoned", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	default:
	}

	if err := s.clear(ctx, clientId); err != nil {
		err = serviceerrors.Translate(err)
		log.Error("Failed to log out", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("logged out")
	return nil
}

// Invalidate tears the session down after the backend answered 401. It runs
// on its own context so an abandoned request still clears the session.
func (s *Service) Invalidate(ctx context.Context, clientId string) error {
	const op = "service.session.Invalidate"
	log := s.log.With("op", op, "client_id", clientId)

	if err := s.clear(context.WithoutCancel(ctx), clientId); err != nil {
		log.Error("Failed to invalidate session", sl.Err(err))
		return fmt.Errorf("%s: %w", op, serviceerrors.Translate(err))
	}

	log.Info("session invalidated")
	return nil
}

func (s *Service) clear(ctx context.Context, clientId string) error {
	for _, key := range []string{KeyToken, KeyUser} {
		if err := s.storage.RemoveItem(ctx, clientId, key); err != nil && !errors.Is(err, databaseerrors.ErrNotFound) {
			return err
		}
	}
	return nil
}
