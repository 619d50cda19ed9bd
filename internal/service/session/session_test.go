package sessionservice_test

import (
	"context"
	"errors"
	"testing"

	"restoapi/internal/backend"
	"restoapi/internal/database/memory"
	"restoapi/internal/models"
	serviceerrors "restoapi/internal/service"
	sessionservice "restoapi/internal/service/session"
	"restoapi/internal/service/session/mocks"
	"restoapi/pkg/lib/logger/slogdiscard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var creds = models.Credentials{Email: "ann@example.com", Password: "secret"}

func newTestService(storage sessionservice.Storage, auth *mocks.Authenticator) *sessionservice.Service {
	return sessionservice.New(slogdiscard.NewDiscardLogger(), storage, auth)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(a *mocks.Authenticator)
		wantErr   error
	}{
		{
			name: "Success",
			setupMock: func(a *mocks.Authenticator) {
				a.On("Login", mock.Anything, creds).Return(models.Session{Token: "tkn", User: models.User{Id: "u1", Name: "Ann"}}, nil)
			},
		},
		{
			name: "Wrong password",
			setupMock: func(a *mocks.Authenticator) {
				a.On("Login", mock.Anything, creds).Return(models.Session{}, backend.ErrUnauthorized)
			},
			wantErr: serviceerrors.ErrUnauthenticated,
		},
		{
			name: "Backend down",
			setupMock: func(a *mocks.Authenticator) {
				a.On("Login", mock.Anything, creds).Return(models.Session{}, backend.ErrUnavailable)
			},
			wantErr: serviceerrors.ErrUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := new(mocks.Authenticator)
			tt.setupMock(auth)
			storage := memory.New()
			svc := newTestService(storage, auth)

			session, err := svc.Login(context.Background(), "c1", creds)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				_, err := svc.Current(context.Background(), "c1")
				assert.ErrorIs(t, err, serviceerrors.ErrUnauthenticated)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "tkn", session.Token)

			current, err := svc.Current(context.Background(), "c1")
			require.NoError(t, err)
			assert.Equal(t, session, current)

			_, err = svc.Current(context.Background(), "other-client")
			assert.ErrorIs(t, err, serviceerrors.ErrUnauthenticated)

			auth.AssertExpectations(t)
		})
	}
}

func TestLogin_ContextCanceled(t *testing.T) {
	auth := new(mocks.Authenticator)
	svc := newTestService(memory.New(), auth)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Login(ctx, "c1", creds)
	assert.ErrorIs(t, err, serviceerrors.ErrContextCanceled)
	auth.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestCurrent_MalformedSessionIsDiscarded(t *testing.T) {
	storage := memory.New()
	ctx := context.Background()
	require.NoError(t, storage.SetItem(ctx, "c1", sessionservice.KeyToken, []byte(`"tkn"`)))
	require.NoError(t, storage.SetItem(ctx, "c1", sessionservice.KeyUser, []byte(`[1,2]`)))

	svc := newTestService(storage, new(mocks.Authenticator))

	_, err := svc.Current(ctx, "c1")
	assert.ErrorIs(t, err, serviceerrors.ErrUnauthenticated)

	_, err = storage.GetItem(ctx, "c1", sessionservice.KeyToken)
	assert.Error(t, err, "token must be wiped")
}

func TestCurrent_StorageFailure(t *testing.T) {
	storage := new(mocks.Storage)
	storage.On("GetItem", mock.Anything, "c1", sessionservice.KeyToken).Return(nil, errors.New("connection reset"))

	svc := newTestService(storage, new(mocks.Authenticator))

	_, err := svc.Current(context.Background(), "c1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, serviceerrors.ErrUnauthenticated)
	storage.AssertExpectations(t)
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name    string
		role    models.Role
		wantErr error
	}{
		{name: "Admin", role: models.RoleAdmin},
		{name: "Customer", role: models.RoleUser, wantErr: serviceerrors.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := new(mocks.Authenticator)
			auth.On("Login", mock.Anything, creds).Return(models.Session{Token: "tkn", User: models.User{Id: "u1", Role: tt.role}}, nil)
			svc := newTestService(memory.New(), auth)

			_, err := svc.Login(context.Background(), "c1", creds)
			require.NoError(t, err)

			_, err = svc.RequireAdmin(context.Background(), "c1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}

	t.Run("Anonymous", func(t *testing.T) {
		svc := newTestService(memory.New(), new(mocks.Authenticator))
		_, err := svc.RequireAdmin(context.Background(), "c1")
		assert.ErrorIs(t, err, serviceerrors.ErrUnauthenticated)
	})
}

func TestLogoutAndInvalidate(t *testing.T) {
	for _, name := range []string{"Logout", "Invalidate"} {
		t.Run(name, func(t *testing.T) {
			auth := new(mocks.Authenticator)
			auth.On("Login", mock.Anything, creds).Return(models.Session{Token: "tkn", User: models.User{Id: "u1"}}, nil)
			svc := newTestService(memory.New(), auth)

			_, err := svc.Login(context.Background(), "c1", creds)
			require.NoError(t, err)

			if name == "Logout" {
				require.NoError(t, svc.Logout(context.Background(), "c1"))
			} else {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				require.NoError(t, svc.Invalidate(ctx, "c1"), "teardown must survive an abandoned request")
			}

			_, err = svc.Current(context.Background(), "c1")
			assert.ErrorIs(t, err, serviceerrors.ErrUnauthenticated)

			// Idempotent.
			assert.NoError(t, svc.Logout(context.Background(), "c1"))
		})
	}
}
