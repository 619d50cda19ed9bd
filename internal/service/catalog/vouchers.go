package catalogservice

import (
	"context"
	"fmt"
	"strings"

	"restoapi/internal/models"
	serviceerrors "restoapi/internal/service"
	"restoapi/internal/voucher"
)

func checkVoucher(v models.Voucher) (models.Voucher, error) {
	v.Code = voucher.Normalize(v.Code)
	if v.Code == "" {
		return v, &serviceerrors.ValidationError{Missing: []string{"code"}}
	}
	if err := voucher.Validate(v); err != nil {
		return v, &serviceerrors.ValidationError{Invalid: []string{"value"}}
	}
	return v, nil
}

func (s *Service) ListVouchers(ctx context.Context) ([]models.Voucher, error) {
	const op = "service.catalog.ListVouchers"
	return call(ctx, s, op, s.backend.ListVouchers)
}

func (s *Service) GetVoucher(ctx context.Context, id string) (models.Voucher, error) {
	const op = "service.catalog.GetVoucher"
	return call(ctx, s, op, func(ctx context.Context) (models.Voucher, error) {
		return s.backend.GetVoucher(ctx, id)
	})
}

func (s *Service) CreateVoucher(ctx context.Context, v models.Voucher) (models.Voucher, error) {
	const op = "service.catalog.CreateVoucher"

	v, err := checkVoucher(v)
	if err != nil {
		return models.Voucher{}, fmt.Errorf("%s: %w", op, err)
	}
	return call(ctx, s, op, func(ctx context.Context) (models.Voucher, error) {
		return s.backend.CreateVoucher(ctx, v)
	})
}

func (s *Service) UpdateVoucher(ctx context.Context, id string, v models.Voucher) (models.Voucher, error) {
	const op = "service.catalog.UpdateVoucher"

	v, err := checkVoucher(v)
	if err != nil {
		return models.Voucher{}, fmt.Errorf("%s: %w", op, err)
	}
	return call(ctx, s, op, func(ctx context.Context) (models.Voucher, error) {
		return s.backend.UpdateVoucher(ctx, id, v)
	})
}

func (s *Service) DeleteVoucher(ctx context.Context, id string) error {
	const op = "service.catalog.DeleteVoucher"

	_, err := call(ctx, s, op, noResult(func(ctx context.Context) error {
		return s.backend.DeleteVoucher(ctx, id)
	}))
	return err
}

func (s *Service) GenerateVoucherCode(ctx context.Context) (string, error) {
	const op = "service.catalog.GenerateVoucherCode"
	return call(ctx, s, op, s.backend.GenerateVoucherCode)
}

// SearchUsers feeds the voucher assignment picker. Queries shorter than two
// characters return nothing without asking the backend.
func (s *Service) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	const op = "service.catalog.SearchUsers"

	query = strings.TrimSpace(query)
	if len([]rune(query)) < 2 {
		return []models.User{}, nil
	}
	return call(ctx, s, op, func(ctx context.Context) ([]models.User, error) {
		return s.backend.SearchUsers(ctx, query)
	})
}
