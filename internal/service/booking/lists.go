package bookingservice

import (
	"context"
	"errors"
	"fmt"

	"restoapi/internal/listview"
	"restoapi/internal/models"
	serviceerrors "restoapi/internal/service"
	"restoapi/pkg/lib/logger/sl"
)

func (s *Service) ListMine(ctx context.Context, q listview.Query) (listview.Page[models.Booking], error) {
	const op = "service.booking.ListMine"
	return listPage(ctx, s, op, q, s.backend.ListMyBookings)
}

func (s *Service) ListAll(ctx context.Context, q listview.Query) (listview.Page[models.Booking], error) {
	const op = "service.booking.ListAll"
	return listPage(ctx, s, op, q, s.backend.ListBookings)
}

func (s *Service) ListTables(ctx context.Context, q listview.Query) (listview.Page[models.Table], error) {
	const op = "service.booking.ListTables"
	return listPage(ctx, s, op, q, s.backend.ListTables)
}

// ListAvailableTables lists tables free for the slot chosen in the client's
// flow. It needs the flow to be past the time step.
func (s *Service) ListAvailableTables(ctx context.Context, clientId string, q listview.Query) (listview.Page[models.Table], error) {
	const op = "service.booking.ListAvailableTables"

	cf := s.flowFor(clientId)
	cf.mu.Lock()
	view := cf.flow.View()
	cf.mu.Unlock()

	if view.StartTime == nil || view.EndTime == nil {
		return listview.Page[models.Table]{}, fmt.Errorf("%s: %w", op, &serviceerrors.ValidationError{Missing: []string{"date", "time"}})
	}

	start, end := *view.StartTime, *view.EndTime
	return listPage(ctx, s, op, q, func(ctx context.Context) ([]models.Table, error) {
		return s.backend.ListAvailableTables(ctx, start, end)
	})
}

// listPage fetches and pages one of the booking screens. Not found means
// an empty list.
func listPage[T listview.Listable](ctx context.Context, s *Service, op string, q listview.Query, fetch func(context.Context) ([]T, error)) (listview.Page[T], error) {
	log := s.log.With("op", op)

	select {
	case <-ctx.Done():
		err := serviceerrors.Translate(ctx.Err())
		log.Warn("request abandoned", sl.Err(err))
		return listview.Page[T]{}, fmt.Errorf("%s: %w", op, err)
	default:
	}

	items, err := fetch(ctx)
	if err != nil {
		err = serviceerrors.Translate(err)
		if !errors.Is(err, serviceerrors.ErrNotFound) {
			log.Error("Failed to list", sl.Err(err))
			return listview.Page[T]{}, fmt.Errorf("%s: %w", op, err)
		}
		items = nil
	}

	return listview.Apply(items, q, s.opts.PageSize), nil
}

func (s *Service) Cancel(ctx context.Context, id string) error {
	const op = "service.booking.Cancel"
	log := s.log.With("op", op, "booking_id", id)

	select {
	case <-ctx.Done():
		err := serviceerrors.Translate(ctx.Err())
		log.Warn("request abandoned", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	default:
	}

	if err := s.backend.CancelBooking(ctx, id); err != nil {
		err = serviceerrors.Translate(err)
		log.Warn("Failed to cancel booking", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("booking cancelled")
	return nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (models.Booking, error) {
	const op = "service.booking.UpdateStatus"
	log := s.log.With("op", op, "booking_id", id)

	select {
	case <-ctx.Done():
		err := serviceerrors.Translate(ctx.Err())
		log.Warn("request abandoned", sl.Err(err))
		return models.Booking{}, fmt.Errorf("%s: %w", op, err)
	default:
	}

	switch status {
	case models.BookingPending, models.BookingConfirmed, models.BookingCancelled:
	default:
		return models.Booking{}, fmt.Errorf("%s: %w", op, &serviceerrors.ValidationError{Invalid: []string{"status"}})
	}

	updated, err := s.backend.UpdateBookingStatus(ctx, id, status)
	if err != nil {
		err = serviceerrors.Translate(err)
		log.Error("Failed to update booking status", sl.Err(err))
		return models.Booking{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("booking status updated", "status", status)
	return updated, nil
}

func (s *Service) Stats(ctx context.Context) (models.BookingStats, error) {
	const op = "service.booking.Stats"
	log := s.log.With("op", op)

	select {
	case <-ctx.Done():
		err := serviceerrors.Translate(ctx.Err())
		log.Warn("request abandoned", sl.Err(err))
		return models.BookingStats{}, fmt.Errorf("%s: %w", op, err)
	default:
	}

	stats, err := s.backend.BookingStats(ctx)
	if err != nil {
		err = serviceerrors.Translate(err)
		log.Error("Failed to load booking stats", sl.Err(err))
		return models.BookingStats{}, fmt.Errorf("%s: %w", op, err)
	}
	return stats, nil
}
