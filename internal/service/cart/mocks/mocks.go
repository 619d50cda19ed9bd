package mocks

import (
	"context"

	"restoapi/internal/backend"
	"restoapi/internal/models"

	"github.com/stretchr/testify/mock"
)

type Menu struct {
	mock.Mock
}

func (m *Menu) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]models.MenuItem)
	return items, args.Error(1)
}

type Orders struct {
	mock.Mock
}

func (m *Orders) CreateOrder(ctx context.Context, order backend.OrderRequest) (models.Order, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(models.Order), args.Error(1)
}
func (m *Orders) ListMyOrders(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]models.Order)
	return orders, args.Error(1)
}
func (m *Orders) ListOrders(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]models.Order)
	return orders, args.Error(1)
}
func (m *Orders) CancelOrder(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *Orders) MarkOrderPaid(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *Orders) UploadPaymentProof(ctx context.Context, id string, file models.Upload) (models.Order, error) {
	args := m.Called(ctx, id, file)
	return args.Get(0).(models.Order), args.Error(1)
}
