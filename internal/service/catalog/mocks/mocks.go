package mocks

import (
	"context"

	"restoapi/internal/models"

	"github.com/stretchr/testify/mock"
)

type Backend struct {
	mock.Mock
}

func (m *Backend) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]models.MenuItem)
	return items, args.Error(1)
}
func (m *Backend) CreateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(models.MenuItem), args.Error(1)
}
func (m *Backend) UpdateMenuItem(ctx context.Context, id string, item models.MenuItem) (models.MenuItem, error) {
	args := m.Called(ctx, id, item)
	return args.Get(0).(models.MenuItem), args.Error(1)
}
func (m *Backend) DeleteMenuItem(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *Backend) UploadMenuImage(ctx context.Context, id string, file models.Upload) (models.MenuItem, error) {
	args := m.Called(ctx, id, file)
	return args.Get(0).(models.MenuItem), args.Error(1)
}
func (m *Backend) DeleteMenuImage(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *Backend) CreateTable(ctx context.Context, table models.Table) (models.Table, error) {
	args := m.Called(ctx, table)
	return args.Get(0).(models.Table), args.Error(1)
}
func (m *Backend) UpdateTable(ctx context.Context, id string, table models.Table) (models.Table, error) {
	args := m.Called(ctx, id, table)
	return args.Get(0).(models.Table), args.Error(1)
}
func (m *Backend) DeleteTable(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *Backend) CreateTableType(ctx context.Context, tt models.TableType) (models.TableType, error) {
	args := m.Called(ctx, tt)
	return args.Get(0).(models.TableType), args.Error(1)
}
func (m *Backend) ListVouchers(ctx context.Context) ([]models.Voucher, error) {
	args := m.Called(ctx)
	vouchers, _ := args.Get(0).([]models.Voucher)
	return vouchers, args.Error(1)
}
func (m *Backend) GetVoucher(ctx context.Context, id string) (models.Voucher, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Voucher), args.Error(1)
}
func (m *Backend) CreateVoucher(ctx context.Context, v models.Voucher) (models.Voucher, error) {
	args := m.Called(ctx, v)
	return args.Get(0).(models.Voucher), args.Error(1)
}
func (m *Backend) UpdateVoucher(ctx context.Context, id string, v models.Voucher) (models.Voucher, error) {
	args := m.Called(ctx, id, v)
	return args.Get(0).(models.Voucher), args.Error(1)
}
func (m *Backend) DeleteVoucher(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *Backend) GenerateVoucherCode(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
func (m *Backend) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	args := m.Called(ctx, query)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}
