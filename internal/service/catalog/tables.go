package catalogservice

import (
	"context"
	"fmt"

	"restoapi/internal/models"
	serviceerrors "restoapi/internal/service"
)

func (s *Service) CreateTable(ctx context.Context, table models.Table) (models.Table, error) {
	const op = "service.catalog.CreateTable"

	if table.Deposit.IsNegative() {
		return models.Table{}, fmt.Errorf("%s: %w", op, &serviceerrors.ValidationError{Invalid: []string{"deposit"}})
	}
	return call(ctx, s, op, func(ctx context.Context) (models.Table, error) {
		return s.backend.CreateTable(ctx, table)
	})
}

func (s *Service) UpdateTable(ctx context.Context, id string, table models.Table) (models.Table, error) {
	const op = "service.catalog.UpdateTable"

	if table.Deposit.IsNegative() {
		return models.Table{}, fmt.Errorf("%s: %w", op, &serviceerrors.ValidationError{Invalid: []string{"deposit"}})
	}
	return call(ctx, s, op, func(ctx context.Context) (models.Table, error) {
		return s.backend.UpdateTable(ctx, id, table)
	})
}

func (s *Service) DeleteTable(ctx context.Context, id string) error {
	const op = "service.catalog.DeleteTable"

	_, err := call(ctx, s, op, noResult(func(ctx context.Context) error {
		return s.backend.DeleteTable(ctx, id)
	}))
	return err
}

func (s *Service) CreateTableType(ctx context.Context, tt models.TableType) (models.TableType, error) {
	const op = "service.catalog.CreateTableType"

	if tt.Deposit.IsNegative() {
		return models.TableType{}, fmt.Errorf("%s: %w", op, &serviceerrors.ValidationError{Invalid: []string{"deposit"}})
	}
	return call(ctx, s, op, func(ctx context.Context) (models.TableType, error) {
		return s.backend.CreateTableType(ctx, tt)
	})
}
