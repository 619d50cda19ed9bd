package mocks

import (
	"context"

	"restoapi/internal/models"

	"github.com/stretchr/testify/mock"
)

type Checker struct {
	mock.Mock
}

func (m *Checker) CheckVoucher(ctx context.Context, code string) (models.Voucher, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(models.Voucher), args.Error(1)
}
