package mocks

import (
	"context"

	"restoapi/internal/listview"
	"restoapi/internal/models"

	"github.com/stretchr/testify/mock"
)

type Service struct {
	mock.Mock
}

func (m *Service) summary(args mock.Arguments) (models.CartSummary, error) {
	return args.Get(0).(models.CartSummary), args.Error(1)
}

func (m *Service) View(ctx context.Context, clientId string) (models.CartSummary, error) {
	return m.summary(m.Called(ctx, clientId))
}

func (m *Service) AddMenuItem(ctx context.Context, clientId, menuId string, quantity int) (models.CartSummary, error) {
	return m.summary(m.Called(ctx, clientId, menuId, quantity))
}

func (m *Service) SetQuantity(ctx context.Context, clientId, itemId string, quantity int) (models.CartSummary, error) {
	return m.summary(m.Called(ctx, clientId, itemId, quantity))
}

func (m *Service) RemoveItem(ctx context.Context, clientId, itemId string) (models.CartSummary, error) {
	return m.summary(m.Called(ctx, clientId, itemId))
}

func (m *Service) Clear(ctx context.Context, clientId string) (models.CartSummary, error) {
	return m.summary(m.Called(ctx, clientId))
}

func (m *Service) ApplyVoucher(ctx context.Context, clientId, code string) (models.CartSummary, error) {
	return m.summary(m.Called(ctx, clientId, code))
}

func (m *Service) RemoveVoucher(ctx context.Context, clientId string) (models.CartSummary, error) {
	return m.summary(m.Called(ctx, clientId))
}

func (m *Service) Checkout(ctx context.Context, clientId string) (models.Order, error) {
	args := m.Called(ctx, clientId)
	return args.Get(0).(models.Order), args.Error(1)
}

func (m *Service) ListMyOrders(ctx context.Context, q listview.Query) (listview.Page[models.Order], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(listview.Page[models.Order]), args.Error(1)
}

func (m *Service) ListAllOrders(ctx context.Context, q listview.Query) (listview.Page[models.Order], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(listview.Page[models.Order]), args.Error(1)
}

func (m *Service) CancelOrder(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Service) MarkOrderPaid(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Service) UploadPaymentProof(ctx context.Context, id string, file models.Upload) (models.Order, error) {
	args := m.Called(ctx, id, file)
	return args.Get(0).(models.Order), args.Error(1)
}
