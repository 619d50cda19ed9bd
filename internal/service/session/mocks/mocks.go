package mocks

import (
	"context"

	"restoapi/internal/models"

	"github.com/stretchr/testify/mock"
)

type Storage struct {
	mock.Mock
}

func (m *Storage) GetItem(ctx context.Context, clientId, key string) ([]byte, error) {
	args := m.Called(ctx, clientId, key)
	raw, _ := args.Get(0).([]byte)
	return raw, args.Error(1)
}
func (m *Storage) SetItem(ctx context.Context, clientId, key string, value []byte) error {
	args := m.Called(ctx, clientId, key, value)
	return args.Error(0)
}
func (m *Storage) RemoveItem(ctx context.Context, clientId, key string) error {
	args := m.Called(ctx, clientId, key)
	return args.Error(0)
}

type Authenticator struct {
	mock.Mock
}

func (m *Authenticator) Login(ctx context.Context, creds models.Credentials) (models.Session, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(models.Session), args.Error(1)
}
