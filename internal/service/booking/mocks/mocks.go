package mocks

import (
	"context"
	"time"

	"restoapi/internal/models"

	"github.com/stretchr/testify/mock"
)

type Backend struct {
	mock.Mock
}

func (m *Backend) CreateBooking(ctx context.Context, b models.Booking) (models.Booking, error) {
	args := m.Called(ctx, b)
	return args.Get(0).(models.Booking), args.Error(1)
}
func (m *Backend) ListMyBookings(ctx context.Context) ([]models.Booking, error) {
	args := m.Called(ctx)
	bookings, _ := args.Get(0).([]models.Booking)
	return bookings, args.Error(1)
}
func (m *Backend) ListBookings(ctx context.Context) ([]models.Booking, error) {
	args := m.Called(ctx)
	bookings, _ := args.Get(0).([]models.Booking)
	return bookings, args.Error(1)
}
func (m *Backend) CancelBooking(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *Backend) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus) (models.Booking, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(models.Booking), args.Error(1)
}
func (m *Backend) BookingStats(ctx context.Context) (models.BookingStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.BookingStats), args.Error(1)
}
func (m *Backend) ListTables(ctx context.Context) ([]models.Table, error) {
	args := m.Called(ctx)
	tables, _ := args.Get(0).([]models.Table)
	return tables, args.Error(1)
}
func (m *Backend) ListAvailableTables(ctx context.Context, start, end time.Time) ([]models.Table, error) {
	args := m.Called(ctx, start, end)
	tables, _ := args.Get(0).([]models.Table)
	return tables, args.Error(1)
}

type Cart struct {
	mock.Mock
}

func (m *Cart) AddLine(ctx context.Context, clientId string, line models.CartItem) (models.CartSummary, error) {
	args := m.Called(ctx, clientId, line)
	return args.Get(0).(models.CartSummary), args.Error(1)
}

func (m *Cart) RemoveItem(ctx context.Context, clientId, itemId string) (models.CartSummary, error) {
	args := m.Called(ctx, clientId, itemId)
	return args.Get(0).(models.CartSummary), args.Error(1)
}
