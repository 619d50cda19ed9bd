package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"restoapi/internal/models"
	"restoapi/internal/voucher"

	"github.com/shopspring/decimal"
)

type voucherRequest struct {
	Code         string             `json:"code"`
	DiscountType models.VoucherKind `json:"discount_type"`
	Value        decimal.Decimal    `json:"value"`
	Name         string             `json:"name,omitempty"`
	UserIds      []string           `json:"user_ids,omitempty"`
	ExpiresAt    *time.Time         `json:"expires_at,omitempty"`
}

func newVoucherRequest(v models.Voucher) voucherRequest {
	return voucherRequest{
		Code:         v.Code,
		DiscountType: v.Kind,
		Value:        v.Value,
		Name:         v.DisplayName,
		UserIds:      v.UserIds,
		ExpiresAt:    v.ExpiresAt,
	}
}

func (c *Client) ListVouchers(ctx context.Context) ([]models.Voucher, error) {
	const op = "backend.ListVouchers"

	raw, err := c.send(ctx, http.MethodGet, "vouchers", nil, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	vouchers, err := decodeList[models.Voucher, voucherDTO](raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return vouchers, nil
}

func (c *Client) GetVoucher(ctx context.Context, id string) (models.Voucher, error) {
	const op = "backend.GetVoucher"

	raw, err := c.send(ctx, http.MethodGet, idPath("vouchers", id), nil, "")
	if err != nil {
		return models.Voucher{}, fmt.Errorf("%s: %w", op, err)
	}
	v, err := decodeOne[models.Voucher, voucherDTO](raw)
	if err != nil {
		return models.Voucher{}, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

func (c *Client) CreateVoucher(ctx context.Context, v models.Voucher) (models.Voucher, error) {
	const op = "backend.CreateVoucher"

	raw, err := c.sendJSON(ctx, http.MethodPost, "vouchers", newVoucherRequest(v))
	if err != nil {
		return models.Voucher{}, fmt.Errorf("%s: %w", op, err)
	}
	created, err := decodeOne[models.Voucher, voucherDTO](raw)
	if err != nil {
		return models.Voucher{}, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

func (c *Client) UpdateVoucher(ctx context.Context, id string, v models.Voucher) (models.Voucher, error) {
	const op = "backend.UpdateVoucher"

	raw, err := c.sendJSON(ctx, http.MethodPut, idPath("vouchers", id), newVoucherRequest(v))
	if err != nil {
		return models.Voucher{}, fmt.Errorf("%s: %w", op, err)
	}
	updated, err := decodeOne[models.Voucher, voucherDTO](raw)
	if err != nil {
		return models.Voucher{}, fmt.Errorf("%s: %w", op, err)
	}
	if updated.Id == "" {
		updated.Id = id
	}
	return updated, nil
}

func (c *Client) DeleteVoucher(ctx context.Context, id string) error {
	const op = "backend.DeleteVoucher"

	if _, err := c.send(ctx, http.MethodDelete, idPath("vouchers", id), nil, ""); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CheckVoucher implements voucher.Checker. Any refusal by the backend, either
// a 4xx or a {"valid": false} body, is reported as voucher.ErrInvalidVoucher.
// When the backend explains the refusal the error also carries an *APIError
// with its message.
func (c *Client) CheckVoucher(ctx context.Context, code string) (models.Voucher, error) {
	const op = "backend.CheckVoucher"

	raw, err := c.send(ctx, http.MethodGet, idPath("vouchers", "check", code), nil, "")
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Voucher{}, fmt.Errorf("%s: %w", op, voucher.ErrInvalidVoucher)
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.IsConflict() {
			return models.Voucher{}, fmt.Errorf("%s: %w", op, voucherRefusal(apiErr))
		}
		return models.Voucher{}, fmt.Errorf("%s: %w", op, err)
	}

	var body struct {
		voucherDTO
		Voucher *voucherDTO `json:"voucher"`
	}
	if err := json.Unmarshal(unwrap(raw), &body); err != nil {
		return models.Voucher{}, fmt.Errorf("%s: %w: %v", op, ErrBadResponse, err)
	}
	if body.Valid != nil && !bool(*body.Valid) {
		refusal := &APIError{Status: http.StatusUnprocessableEntity, Message: body.Message}
		return models.Voucher{}, fmt.Errorf("%s: %w", op, voucherRefusal(refusal))
	}

	dto := body.voucherDTO
	if body.Voucher != nil {
		dto = *body.Voucher
	}
	v := dto.toModel()
	if v.Code == "" {
		v.Code = code
	}
	return v, nil
}

func (c *Client) GenerateVoucherCode(ctx context.Context) (string, error) {
	const op = "backend.GenerateVoucherCode"

	raw, err := c.send(ctx, http.MethodGet, "vouchers/generate-code", nil, "")
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var body struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(unwrap(raw), &body); err != nil || strings.TrimSpace(body.Code) == "" {
		return "", fmt.Errorf("%s: %w", op, ErrBadResponse)
	}
	return body.Code, nil
}

// SearchUsers backs the voucher assignment picker.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	const op = "backend.SearchUsers"

	raw, err := c.send(ctx, http.MethodGet, "vouchers/users?q="+url.QueryEscape(query), nil, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	users, err := decodeList[models.User, userDTO](raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// voucherRefusal keeps the backend's wording next to voucher.ErrInvalidVoucher.
// A refusal without text of its own is just the sentinel.
func voucherRefusal(apiErr *APIError) error {
	msg := strings.TrimSpace(apiErr.Message)
	if msg == "" || msg == http.StatusText(apiErr.Status) {
		return voucher.ErrInvalidVoucher
	}
	return fmt.Errorf("%w: %w", voucher.ErrInvalidVoucher, apiErr)
}
