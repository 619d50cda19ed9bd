package mocks

import (
	"context"

	"restoapi/internal/booking"
	"restoapi/internal/listview"
	"restoapi/internal/models"

	"github.com/stretchr/testify/mock"
)

type Service struct {
	mock.Mock
}

func view(args mock.Arguments) (booking.View, error) {
	return args.Get(0).(booking.View), args.Error(1)
}

func (m *Service) Start(ctx context.Context, clientId string, variant booking.Variant) (booking.View, error) {
	return view(m.Called(ctx, clientId, variant))
}

func (m *Service) State(ctx context.Context, clientId string) (booking.View, error) {
	return view(m.Called(ctx, clientId))
}

func (m *Service) SelectTime(ctx context.Context, clientId string, sel booking.TimeSelection) (booking.View, error) {
	return view(m.Called(ctx, clientId, sel))
}

func (m *Service) Next(ctx context.Context, clientId string) (booking.View, error) {
	return view(m.Called(ctx, clientId))
}

func (m *Service) SelectTable(ctx context.Context, clientId string, choice booking.TableChoice) (booking.View, error) {
	return view(m.Called(ctx, clientId, choice))
}

func (m *Service) Confirm(ctx context.Context, clientId string) (booking.View, error) {
	return view(m.Called(ctx, clientId))
}

func (m *Service) Back(ctx context.Context, clientId string) (booking.View, error) {
	return view(m.Called(ctx, clientId))
}

func (m *Service) ListMine(ctx context.Context, q listview.Query) (listview.Page[models.Booking], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(listview.Page[models.Booking]), args.Error(1)
}

func (m *Service) ListAll(ctx context.Context, q listview.Query) (listview.Page[models.Booking], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(listview.Page[models.Booking]), args.Error(1)
}

func (m *Service) ListTables(ctx context.Context, q listview.Query) (listview.Page[models.Table], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(listview.Page[models.Table]), args.Error(1)
}

func (m *Service) ListAvailableTables(ctx context.Context, clientId string, q listview.Query) (listview.Page[models.Table], error) {
	args := m.Called(ctx, clientId, q)
	return args.Get(0).(listview.Page[models.Table]), args.Error(1)
}

func (m *Service) Cancel(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Service) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (models.Booking, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(models.Booking), args.Error(1)
}

func (m *Service) Stats(ctx context.Context) (models.BookingStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.BookingStats), args.Error(1)
}
