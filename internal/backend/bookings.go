package backend

import (
	"context"
	"fmt"
	"net/http"

	"restoapi/internal/models"
)

func (c *Client) listBookings(ctx context.Context, op, path string) ([]models.Booking, error) {
	raw, err := c.send(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	bookings, err := decodeList[models.Booking, bookingDTO](raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return bookings, nil
}

func (c *Client) ListMyBookings(ctx context.Context) ([]models.Booking, error) {
	return c.listBookings(ctx, "backend.ListMyBookings", "bookings/mine")
}

func (c *Client) ListBookings(ctx context.Context) ([]models.Booking, error) {
	return c.listBookings(ctx, "backend.ListBookings", "bookings")
}

func (c *Client) CreateBooking(ctx context.Context, b models.Booking) (models.Booking, error) {
	const op = "backend.CreateBooking"

	raw, err := c.sendJSON(ctx, http.MethodPost, "bookings", newBookingRequest(b))
	if err != nil {
		return models.Booking{}, fmt.Errorf("%s: %w", op, err)
	}
	created, err := decodeOne[models.Booking, bookingDTO](raw)
	if err != nil {
		return models.Booking{}, fmt.Errorf("%s: %w", op, err)
	}

	// Some deployments answer with just the id.
	if created.StartTime.IsZero() {
		id := created.Id
		created = b
		created.Id = id
	}
	return created, nil
}

func (c *Client) CancelBooking(ctx context.Context, id string) error {
	const op = "backend.CancelBooking"

	if _, err := c.send(ctx, http.MethodPost, idPath("bookings", id, "cancel"), nil, ""); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Client) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus) (models.Booking, error) {
	const op = "backend.UpdateBookingStatus"

	body := struct {
		Status models.BookingStatus `json:"status"`
	}{status}

	raw, err := c.sendJSON(ctx, http.MethodPatch, idPath("bookings", id, "status"), body)
	if err != nil {
		return models.Booking{}, fmt.Errorf("%s: %w", op, err)
	}
	updated, err := decodeOne[models.Booking, bookingDTO](raw)
	if err != nil {
		return models.Booking{}, fmt.Errorf("%s: %w", op, err)
	}
	if updated.Id == "" {
		updated.Id = id
	}
	updated.Status = status
	return updated, nil
}

func (c *Client) BookingStats(ctx context.Context) (models.BookingStats, error) {
	const op = "backend.BookingStats"

	raw, err := c.send(ctx, http.MethodGet, "bookings/stats", nil, "")
	if err != nil {
		return models.BookingStats{}, fmt.Errorf("%s: %w", op, err)
	}
	stats, err := decodeOne[models.BookingStats, statsDTO](raw)
	if err != nil {
		return models.BookingStats{}, fmt.Errorf("%s: %w", op, err)
	}
	return stats, nil
}
