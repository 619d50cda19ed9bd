package routes_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	bookinghandler "restoapi/internal/handlers/booking"
	bookingmocks "restoapi/internal/handlers/booking/mocks"
	carthandler "restoapi/internal/handlers/cart"
	cartmocks "restoapi/internal/handlers/cart/mocks"
	cataloghandler "restoapi/internal/handlers/catalog"
	catalogmocks "restoapi/internal/handlers/catalog/mocks"
	"restoapi/internal/handlers/respond"
	sessionhandler "restoapi/internal/handlers/session"
	sessionmocks "restoapi/internal/handlers/session/mocks"
	"restoapi/internal/listview"
	"restoapi/internal/models"
	"restoapi/internal/routes"
	serviceerrors "restoapi/internal/service"
	"restoapi/pkg/lib/logger/slogdiscard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const clientId = "client-1"

type fixture struct {
	session *sessionmocks.Service
	cart    *cartmocks.Service
	booking *bookingmocks.Service
	catalog *catalogmocks.Service
	mux     *http.ServeMux
}

func newFixture() *fixture {
	log := slogdiscard.NewDiscardLogger()
	f := &fixture{
		session: new(sessionmocks.Service),
		cart:    new(cartmocks.Service),
		booking: new(bookingmocks.Service),
		catalog: new(catalogmocks.Service),
		mux:     http.NewServeMux(),
	}
	routes.New(
		sessionhandler.New(log, f.session),
		carthandler.New(log, f.cart),
		bookinghandler.New(log, f.booking),
		cataloghandler.New(log, f.catalog),
	).Register(f.mux)
	return f
}

func (f *fixture) serve(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req = req.WithContext(respond.WithClientId(req.Context(), clientId))
	ww := httptest.NewRecorder()
	f.mux.ServeHTTP(ww, req)
	return ww
}

func TestRoutes_Public(t *testing.T) {
	f := newFixture()
	f.catalog.On("ListMenu", mock.Anything, listview.Query{Page: 1}).Return(listview.Page[models.MenuItem]{}, nil)
	f.cart.On("SetQuantity", mock.Anything, clientId, "m1", 2).Return(models.CartSummary{}, nil)
	f.cart.On("RemoveItem", mock.Anything, clientId, "res:t1").Return(models.CartSummary{}, nil)

	assert.Equal(t, http.StatusOK, f.serve(http.MethodGet, "/menu", "").Code)
	assert.Equal(t, http.StatusOK, f.serve(http.MethodPut, "/cart/items/m1", `{"quantity":2}`).Code)
	assert.Equal(t, http.StatusOK, f.serve(http.MethodDelete, "/cart/items/res%3At1", "").Code)
	assert.Equal(t, http.StatusNotFound, f.serve(http.MethodPatch, "/cart", "").Code)
	assert.Equal(t, http.StatusNotFound, f.serve(http.MethodGet, "/nowhere", "").Code)

	f.catalog.AssertExpectations(t)
	f.cart.AssertExpectations(t)
}

func TestRoutes_MemberOnly(t *testing.T) {
	f := newFixture()
	f.session.On("Current", mock.Anything, clientId).Return(models.Session{}, serviceerrors.ErrUnauthenticated)

	ww := f.serve(http.MethodPost, "/cart/checkout", "")
	assert.Equal(t, http.StatusUnauthorized, ww.Code)
	assert.Contains(t, ww.Body.String(), `"redirect":"/login"`)

	assert.Equal(t, http.StatusUnauthorized, f.serve(http.MethodPost, "/bookings/b1/cancel", "").Code)
	f.cart.AssertNotCalled(t, "Checkout", mock.Anything, mock.Anything)
	f.booking.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
}

func TestRoutes_MemberPasses(t *testing.T) {
	f := newFixture()
	f.session.On("Current", mock.Anything, clientId).Return(models.Session{Token: "tok"}, nil)
	f.booking.On("Cancel", mock.Anything, "b1").Return(nil)
	f.cart.On("CancelOrder", mock.Anything, "o1").Return(nil)

	assert.Equal(t, http.StatusNoContent, f.serve(http.MethodPost, "/bookings/b1/cancel", "").Code)
	assert.Equal(t, http.StatusNoContent, f.serve(http.MethodPost, "/orders/o1/cancel", "").Code)
	f.booking.AssertExpectations(t)
	f.cart.AssertExpectations(t)
}

func TestRoutes_Admin(t *testing.T) {
	t.Run("Forbidden for members", func(t *testing.T) {
		f := newFixture()
		f.session.On("RequireAdmin", mock.Anything, clientId).Return(models.Session{}, serviceerrors.ErrForbidden)

		assert.Equal(t, http.StatusForbidden, f.serve(http.MethodDelete, "/admin/menu/m1", "").Code)
		assert.Equal(t, http.StatusForbidden, f.serve(http.MethodGet, "/admin/unknown", "").Code)
		f.catalog.AssertNotCalled(t, "DeleteMenuItem", mock.Anything, mock.Anything)
	})

	t.Run("Dispatch for admins", func(t *testing.T) {
		f := newFixture()
		f.session.On("RequireAdmin", mock.Anything, clientId).Return(models.Session{Token: "tok"}, nil)
		f.catalog.On("DeleteMenuItem", mock.Anything, "m1").Return(nil)
		f.catalog.On("GenerateVoucherCode", mock.Anything).Return("ABC", nil)
		f.catalog.On("GetVoucher", mock.Anything, "v1").Return(models.Voucher{Id: "v1"}, nil)
		f.booking.On("Stats", mock.Anything).Return(models.BookingStats{}, nil)
		f.booking.On("UpdateStatus", mock.Anything, "b1", models.BookingCancelled).Return(models.Booking{Id: "b1"}, nil)
		f.cart.On("MarkOrderPaid", mock.Anything, "o1").Return(nil)

		assert.Equal(t, http.StatusNoContent, f.serve(http.MethodDelete, "/admin/menu/m1", "").Code)
		assert.Equal(t, http.StatusOK, f.serve(http.MethodGet, "/admin/vouchers/generate-code", "").Code)
		assert.Equal(t, http.StatusOK, f.serve(http.MethodGet, "/admin/vouchers/v1", "").Code)
		assert.Equal(t, http.StatusOK, f.serve(http.MethodGet, "/admin/bookings/stats", "").Code)
		assert.Equal(t, http.StatusOK, f.serve(http.MethodPatch, "/admin/bookings/b1/status", `{"status":"cancelled"}`).Code)
		assert.Equal(t, http.StatusNoContent, f.serve(http.MethodPost, "/admin/orders/o1/paid", "").Code)
		assert.Equal(t, http.StatusNotFound, f.serve(http.MethodGet, "/admin/unknown", "").Code)

		f.catalog.AssertExpectations(t)
		f.booking.AssertExpectations(t)
		f.cart.AssertExpectations(t)
	})
}
