package catalogservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"restoapi/internal/listview"
	"restoapi/internal/models"
	serviceerrors "restoapi/internal/service"
	"restoapi/pkg/lib/logger/sl"
)

type Backend interface {
	ListMenu(ctx context.Context) ([]models.MenuItem, error)
	CreateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id string, item models.MenuItem) (models.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id string) error
	UploadMenuImage(ctx context.Context, id string, file models.Upload) (models.MenuItem, error)
	DeleteMenuImage(ctx context.Context, id string) error

	CreateTable(ctx context.Context, table models.Table) (models.Table, error)
	UpdateTable(ctx context.Context, id string, table models.Table) (models.Table, error)
	DeleteTable(ctx context.Context, id string) error
	CreateTableType(ctx context.Context, tt models.TableType) (models.TableType, error)

	ListVouchers(ctx context.Context) ([]models.Voucher, error)
	GetVoucher(ctx context.Context, id string) (models.Voucher, error)
	CreateVoucher(ctx context.Context, v models.Voucher) (models.Voucher, error)
	UpdateVoucher(ctx context.Context, id string, v models.Voucher) (models.Voucher, error)
	DeleteVoucher(ctx context.Context, id string) error
	GenerateVoucherCode(ctx context.Context) (string, error)
	SearchUsers(ctx context.Context, query string) ([]models.User, error)
}

// Service fronts the menu, table and voucher administration screens and the
// public menu.
type Service struct {
	log      *slog.Logger
	backend  Backend
	pageSize int
}

func New(log *slog.Logger, backend Backend, pageSize int) *Service {
	return &Service{
		log:      log,
		backend:  backend,
		pageSize: pageSize,
	}
}

// call runs one backend round trip with the usual context check and error
// translation.
func call[T any](ctx context.Context, s *Service, op string, fn func(context.Context) (T, error)) (T, error) {
	log := s.log.With("op", op)
	var zero T

	select {
	case <-ctx.Done():
		err := serviceerrors.Translate(ctx.Err())
		log.Warn("request abandoned", sl.Err(err))
		return zero, fmt.Errorf("%s: %w", op, err)
	default:
	}

	out, err := fn(ctx)
	if err != nil {
		err = serviceerrors.Translate(err)
		switch {
		case errors.Is(err, serviceerrors.ErrContextCanceled), errors.Is(err, serviceerrors.ErrDeadlineExceeded),
			errors.Is(err, serviceerrors.ErrNotFound), errors.Is(err, serviceerrors.ErrForbidden):
			log.Warn("backend call failed", sl.Err(err))
		default:
			log.Error("backend call failed", sl.Err(err))
		}
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func noResult(fn func(context.Context) error) func(context.Context) (struct{}, error) {
	return func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}
}

// ListMenu is the public menu screen. An absent menu is an empty page.
func (s *Service) ListMenu(ctx context.Context, q listview.Query) (listview.Page[models.MenuItem], error) {
	const op = "service.catalog.ListMenu"

	items, err := call(ctx, s, op, s.backend.ListMenu)
	if err != nil && !errors.Is(err, serviceerrors.ErrNotFound) {
		return listview.Page[models.MenuItem]{}, err
	}
	return listview.Apply(items, q, s.pageSize), nil
}

func (s *Service) CreateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	const op = "service.catalog.CreateMenuItem"

	if item.Price.IsNegative() {
		return models.MenuItem{}, fmt.Errorf("%s: %w", op, &serviceerrors.ValidationError{Invalid: []string{"price"}})
	}
	return call(ctx, s, op, func(ctx context.Context) (models.MenuItem, error) {
		return s.backend.CreateMenuItem(ctx, item)
	})
}

func (s *Service) UpdateMenuItem(ctx context.Context, id string, item models.MenuItem) (models.MenuItem, error) {
	const op = "service.catalog.UpdateMenuItem"

	if item.Price.IsNegative() {
		return models.MenuItem{}, fmt.Errorf("%s: %w", op, &serviceerrors.ValidationError{Invalid: []string{"price"}})
	}
	return call(ctx, s, op, func(ctx context.Context) (models.MenuItem, error) {
		return s.backend.UpdateMenuItem(ctx, id, item)
	})
}

func (s *Service) DeleteMenuItem(ctx context.Context, id string) error {
	const op = "service.catalog.DeleteMenuItem"

	_, err := call(ctx, s, op, noResult(func(ctx context.Context) error {
		return s.backend.DeleteMenuItem(ctx, id)
	}))
	return err
}

func (s *Service) UploadMenuImage(ctx context.Context, id string, file models.Upload) (models.MenuItem, error) {
	const op = "service.catalog.UploadMenuImage"

	if len(file.Data) == 0 {
		return models.MenuItem{}, fmt.Errorf("%s: %w", op, &serviceerrors.ValidationError{Missing: []string{"image"}})
	}
	return call(ctx, s, op, func(ctx context.Context) (models.MenuItem, error) {
		return s.backend.UploadMenuImage(ctx, id, file)
	})
}

func (s *Service) DeleteMenuImage(ctx context.Context, id string) error {
	const op = "service.catalog.DeleteMenuImage"

	_, err := call(ctx, s, op, noResult(func(ctx context.Context) error {
		return s.backend.DeleteMenuImage(ctx, id)
	}))
	return err
}
