package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"restoapi/internal/models"
	"restoapi/pkg/lib/logger/sl"
)

var ErrBadResponse = errors.New("backend: malformed response")

const maxResponseSize = 8 << 20

// Client talks to the restaurant REST backend. It holds no per-user state:
// the bearer token rides on the request context (see WithToken).
type Client struct {
	log     *slog.Logger
	baseURL string
	http    *http.Client
}

func New(log *slog.Logger, baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(log, baseURL, &http.Client{Timeout: timeout})
}

func NewWithHTTPClient(log *slog.Logger, baseURL string, httpClient *http.Client) *Client {
	return &Client{
		log:     log,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

type tokenKey struct{}

// WithToken attaches the session token that authenticates backend calls.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	const op = "backend.send"
	log := c.log.With("op", op, "method", method, "path", path)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimLeft(path, "/"), body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := tokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w", op, ctxErr)
		}
		log.Warn("backend unreachable", sl.Err(err))
		return nil, fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w", op, ctxErr)
		}
		return nil, fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Debug("backend rejected request", slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%s %s %s: %w", op, method, path, statusError(resp.StatusCode, errorMessage(raw)))
	}

	return raw, nil
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in any) ([]byte, error) {
	if in == nil {
		return c.send(ctx, method, path, nil, "")
	}
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("backend.sendJSON: %w", err)
	}
	return c.send(ctx, method, path, bytes.NewReader(body), "application/json")
}

func (c *Client) sendFile(ctx context.Context, path, field string, file models.Upload) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, file.Filename))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("backend.sendFile: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, fmt.Errorf("backend.sendFile: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("backend.sendFile: %w", err)
	}

	return c.send(ctx, http.MethodPost, path, &buf, mw.FormDataContentType())
}

type converter[M any] interface {
	toModel() M
}

func decodeOne[M any, D converter[M]](raw []byte) (M, error) {
	var dto D
	if len(bytes.TrimSpace(raw)) == 0 {
		return dto.toModel(), nil
	}
	if err := json.Unmarshal(unwrap(raw), &dto); err != nil {
		var zero M
		return zero, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return dto.toModel(), nil
}

func decodeList[M any, D converter[M]](raw []byte) ([]M, error) {
	var dtos []D
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(unwrapList(raw), &dtos); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
		}
	}
	out := make([]M, 0, len(dtos))
	for _, dto := range dtos {
		out = append(out, dto.toModel())
	}
	return out, nil
}

func idPath(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return strings.Join(escaped, "/")
}
