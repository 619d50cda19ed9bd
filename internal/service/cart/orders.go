package cartservice

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

// ListMyOrders is the order history screen. A missing list is an empty page.
func (s *Service) ListMyOrders(ctx context.Context, q listview.Query) (listview.Page[models.Order], error) {
	const op = "service.cart.ListMyOrders"
	return s.listOrders(ctx, op, q, s.orders.ListMyOrders)
}

func (s *Service) ListAllOrders(ctx context.Context, q listview.Query) (listview.Page[models.Order], error) {
	const op = "service.cart.ListAllOrders"
	return s.listOrders(ctx, op, q, s.orders.ListOrders)
}

func (s *Service) listOrders(ctx context.Context, op string, q listview.Query, fetch func(context.Context) ([]models.Order, error)) (listview.Page[models.Order], error) {
	log := s.log.With("op", op)

	select {
	case <-ctx.Done():
		err := serviceerrors.Translate(ctx.Err())
		log.Warn("request abandoned", sl.Err(err))
		return listview.Page[models.Order]{}, fmt.Errorf("%s: %w", op, err)
	default:
	}

	orders, err := fetch(ctx)
	if err != nil {
		err = serviceerrors.Translate(err)
		if !errors.Is(err, serviceerrors.ErrNotFound) {
			log.Error("Failed to list orders", sl.Err(err))
			return listview.Page[models.Order]{}, fmt.Errorf("%s: %w", op, err)
		}
		orders = nil
	}

	return listview.Apply(orders, q, s.opts.PageSize), nil
}

func (s *Service) CancelOrder(ctx context.Context, id string) error {
	const op = "service.cart.CancelOrder"
	return s.orderAction(ctx, op, id, s.orders.CancelOrder)
}

func (s *Service) MarkOrderPaid(ctx context.Context, id string) error {
	const op = "service.cart.MarkOrderPaid"
	return s.orderAction(ctx, op, id, s.orders.MarkOrderPaid)
}

func (s *Service) orderAction(ctx context.Context, op, id string, action func(context.Context, string) error) error {
	log := s.log.With("op", op, "order_id", id)

	select {
	case <-ctx.Done():
		err := serviceerrors.Translate(ctx.Err())
		log.Warn("request abandoned", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	default:
	}

	if err := action(ctx, id); err != nil {
		err = serviceerrors.Translate(err)
		log.Warn("order action failed", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("order updated")
	return nil
}

func (s *Service) UploadPaymentProof(ctx context.Context, id string, file models.Upload) (models.Order, error) {
	const op = "service.cart.UploadPaymentProof"
	log := s.log.With("op", op, "order_id", id)

	select {
	case <-ctx.Done():
		err := serviceerrors.Translate(ctx.Err())
		log.Warn("request abandoned", sl.Err(err))
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	default:
	}

	if len(file.Data) == 0 {
		return models.Order{}, fmt.Errorf("%s: %w", op, &serviceerrors.ValidationError{Missing: []string{"proof"}})
	}

	order, err := s.orders.UploadPaymentProof(ctx, id, file)
	if err != nil {
		err = serviceerrors.Translate(err)
		log.Error("Failed to upload payment proof", sl.Err(err))
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("payment proof uploaded", slog.Int("bytes", len(file.Data)))
	return order, nil
}
