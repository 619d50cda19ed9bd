package mocks

import (
	"context"

	"restoapi/internal/models"

	"github.com/stretchr/testify/mock"
)

type Service struct {
	mock.Mock
}

func (m *Service) Login(ctx context.Context, clientId string, creds models.Credentials) (models.Session, error) {
	args := m.Called(ctx, clientId, creds)
	return args.Get(0).(models.Session), args.Error(1)
}

func (m *Service) Current(ctx context.Context, clientId string) (models.Session, error) {
	args := m.Called(ctx, clientId)
	return args.Get(0).(models.Session), args.Error(1)
}

func (m *Service) RequireAdmin(ctx context.Context, clientId string) (models.Session, error) {
	args := m.Called(ctx, clientId)
	return args.Get(0).(models.Session), args.Error(1)
}

func (m *Service) Logout(ctx context.Context, clientId string) error {
	args := m.Called(ctx, clientId)
	return args.Error(0)
}

func (m *Service) Invalidate(ctx context.Context, clientId string) error {
	args := m.Called(ctx, clientId)
	return args.Error(0)
}
