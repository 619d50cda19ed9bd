package backend

import (
	"context"
	"fmt"
	"net/http"

	"restoapi/internal/models"
)

func (c *Client) Login(ctx context.Context, creds models.Credentials) (models.Session, error) {
	const op = "backend.Login"

	raw, err := c.sendJSON(ctx, http.MethodPost, "auth/login", creds)
	if err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	session, err := decodeOne[models.Session, sessionDTO](raw)
	if err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	if session.Token == "" {
		return models.Session{}, fmt.Errorf("%s: %w: no token in login response", op, ErrBadResponse)
	}

	return session, nil
}
