package catalogservice_test

import (
	"context"
	"testing"

	"restoapi/internal/backend"
	"restoapi/internal/listview"
	"restoapi/internal/models"
	serviceerrors "restoapi/internal/service"
	catalogservice "restoapi/internal/service/catalog"
	"restoapi/internal/service/catalog/mocks"
	"restoapi/pkg/lib/logger/slogdiscard"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService(b *mocks.Backend) *catalogservice.Service {
	return catalogservice.New(slogdiscard.NewDiscardLogger(), b, 2)
}

func TestListMenu(t *testing.T) {
	available := true
	menu := []models.MenuItem{
		{Id: "m1", Name: "Nasi goreng", Description: "fried rice", Price: decimal.NewFromInt(18000), Category: models.CategoryFood, Available: true},
		{Id: "m2", Name: "Es teh", Price: decimal.NewFromInt(5000), Category: models.CategoryDrink, Available: true},
		{Id: "m3", Name: "Mie goreng", Description: "fried noodles", Price: decimal.NewFromInt(17000), Category: models.CategoryFood, Available: false},
		{Id: "m4", Name: "Ayam goreng", Price: decimal.NewFromInt(22000), Category: models.CategoryFood, Available: true},
	}

	tests := []struct {
		name      string
		setupMock func(b *mocks.Backend)
		query     listview.Query
		wantIds   []string
		wantTotal int
		wantErr   error
	}{
		{
			name:      "Search and filter",
			setupMock: func(b *mocks.Backend) { b.On("ListMenu", mock.Anything).Return(menu, nil) },
			query:     listview.Query{Search: "GORENG", Category: "food", Available: &available, Sort: listview.SortPrice, Page: 1},
			wantIds:   []string{"m1", "m4"},
			wantTotal: 2,
		},
		{
			name:      "Page past the end is clamped",
			setupMock: func(b *mocks.Backend) { b.On("ListMenu", mock.Anything).Return(menu, nil) },
			query:     listview.Query{Sort: listview.SortName, Page: 9},
			wantIds:   []string{"m3", "m1"},
			wantTotal: 4,
		},
		{
			name:      "Not found is empty",
			setupMock: func(b *mocks.Backend) { b.On("ListMenu", mock.Anything).Return(nil, backend.ErrNotFound) },
			wantTotal: 0,
		},
		{
			name:      "Backend down",
			setupMock: func(b *mocks.Backend) { b.On("ListMenu", mock.Anything).Return(nil, backend.ErrUnavailable) },
			wantErr:   serviceerrors.ErrUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := new(mocks.Backend)
			tt.setupMock(b)
			svc := newTestService(b)

			page, err := svc.ListMenu(context.Background(), tt.query)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, page.TotalItems)

			var ids []string
			for _, item := range page.Items {
				ids = append(ids, item.Id)
			}
			assert.Equal(t, tt.wantIds, ids)
		})
	}
}

func TestCreateVoucher(t *testing.T) {
	tests := []struct {
		name    string
		voucher models.Voucher
		wantErr error
	}{
		{
			name:    "Success normalizes code",
			voucher: models.Voucher{Code: " hemat10 ", Kind: models.VoucherPercentage, Value: decimal.RequireFromString("0.1")},
		},
		{
			name:    "No code",
			voucher: models.Voucher{Kind: models.VoucherFixed, Value: decimal.NewFromInt(5000)},
			wantErr: serviceerrors.ErrValidation,
		},
		{
			name:    "Percentage over 100",
			voucher: models.Voucher{Code: "X", Kind: models.VoucherPercentage, Value: decimal.NewFromInt(2)},
			wantErr: serviceerrors.ErrValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := new(mocks.Backend)
			b.On("CreateVoucher", mock.Anything, mock.MatchedBy(func(v models.Voucher) bool { return v.Code == "HEMAT10" })).
				Return(models.Voucher{Id: "v1", Code: "HEMAT10"}, nil).Maybe()
			svc := newTestService(b)

			created, err := svc.CreateVoucher(context.Background(), tt.voucher)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				b.AssertNotCalled(t, "CreateVoucher", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "v1", created.Id)
		})
	}
}

func TestAdminErrors(t *testing.T) {
	b := new(mocks.Backend)
	b.On("DeleteMenuItem", mock.Anything, "m1").Return(backend.ErrForbidden)
	b.On("UpdateTable", mock.Anything, "t1", mock.Anything).Return(models.Table{}, &backend.APIError{Status: 409, Message: "Table number already exists"})
	b.On("GetVoucher", mock.Anything, "v9").Return(models.Voucher{}, backend.ErrNotFound)
	svc := newTestService(b)
	ctx := context.Background()

	assert.ErrorIs(t, svc.DeleteMenuItem(ctx, "m1"), serviceerrors.ErrForbidden)

	_, err := svc.UpdateTable(ctx, "t1", models.Table{Number: "1"})
	var conflict *serviceerrors.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Table number already exists", conflict.Message)

	_, err = svc.GetVoucher(ctx, "v9")
	assert.ErrorIs(t, err, serviceerrors.ErrNotFound)

	_, err = svc.CreateTable(ctx, models.Table{Deposit: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, serviceerrors.ErrValidation)

	_, err = svc.UploadMenuImage(ctx, "m1", models.Upload{})
	assert.ErrorIs(t, err, serviceerrors.ErrValidation)
}

func TestSearchUsers(t *testing.T) {
	b := new(mocks.Backend)
	b.On("SearchUsers", mock.Anything, "an").Return([]models.User{{Id: "u1", Name: "Ann"}}, nil)
	svc := newTestService(b)

	users, err := svc.SearchUsers(context.Background(), "a")
	require.NoError(t, err)
	assert.Empty(t, users)

	users, err = svc.SearchUsers(context.Background(), " an ")
	require.NoError(t, err)
	assert.Len(t, users, 1)
	b.AssertNumberOfCalls(t, "SearchUsers", 1)
}

func TestContextCanceled(t *testing.T) {
	b := new(mocks.Backend)
	svc := newTestService(b)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ListMenu(ctx, listview.Query{})
	assert.ErrorIs(t, err, serviceerrors.ErrContextCanceled)

	_, err = svc.GenerateVoucherCode(ctx)
	assert.ErrorIs(t, err, serviceerrors.ErrContextCanceled)

	assert.ErrorIs(t, svc.DeleteTable(ctx, "t1"), serviceerrors.ErrContextCanceled)
	b.AssertExpectations(t)
}
