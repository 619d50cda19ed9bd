package booking_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"restoapi/internal/booking"
	bookinghandler "restoapi/internal/handlers/booking"
	"restoapi/internal/handlers/booking/mocks"
	"restoapi/internal/handlers/respond"
	"restoapi/internal/listview"
	"restoapi/internal/models"
	serviceerrors "restoapi/internal/service"
	"restoapi/pkg/lib/logger/slogdiscard"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const clientId = "client-1"

func newTestHandler(service *mocks.Service) *bookinghandler.Handler {
	return bookinghandler.New(slogdiscard.NewDiscardLogger(), service)
}

func newRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return req.WithContext(respond.WithClientId(req.Context(), clientId))
}

func TestHandler_Start(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		variant      booking.Variant
		err          error
		expectedCode int
	}{
		{name: "Default variant", body: "", variant: "", expectedCode: http.StatusOK},
		{name: "Deposit variant", body: `{"variant":"deposit"}`, variant: booking.VariantDeposit, expectedCode: http.StatusOK},
		{
			name:         "Unknown variant",
			body:         `{"variant":"walk-in"}`,
			variant:      "walk-in",
			err:          &serviceerrors.ValidationError{Invalid: []string{"variant"}},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.Service)
			mockService.On("Start", mock.Anything, clientId, tt.variant).
				Return(booking.View{Step: booking.StepSelectingTime, Variant: booking.VariantDirect}, tt.err)

			ww := httptest.NewRecorder()
			newTestHandler(mockService).Start(ww, newRequest(http.MethodPost, "/booking/start", tt.body))

			assert.Equal(t, tt.expectedCode, ww.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_SelectTime(t *testing.T) {
	sel := booking.TimeSelection{Date: "2026-10-20", Time: "19:00", PartySize: 4}

	tests := []struct {
		name         string
		body         string
		setupMock    func(s *mocks.Service)
		expectedCode int
	}{
		{
			name: "Success",
			body: `{"date":"2026-10-20","time":"19:00","party_size":4}`,
			setupMock: func(s *mocks.Service) {
				s.On("SelectTime", mock.Anything, clientId, sel).Return(booking.View{Step: booking.StepSelectingTime, Selection: sel}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Missing date",
			body:         `{"time":"19:00"}`,
			setupMock:    func(s *mocks.Service) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Bad time format",
			body:         `{"date":"2026-10-20","time":"7pm"}`,
			setupMock:    func(s *mocks.Service) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Wrong step",
			body: `{"date":"2026-10-20","time":"19:00","party_size":4}`,
			setupMock: func(s *mocks.Service) {
				s.On("SelectTime", mock.Anything, clientId, sel).
					Return(booking.View{Step: booking.StepConfirmed}, &serviceerrors.ConflictError{Message: "not allowed at this step"})
			},
			expectedCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.Service)
			tt.setupMock(mockService)

			ww := httptest.NewRecorder()
			newTestHandler(mockService).SelectTime(ww, newRequest(http.MethodPost, "/booking/time", tt.body))

			assert.Equal(t, tt.expectedCode, ww.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_SelectTable(t *testing.T) {
	choice := booking.TableChoice{TableId: "t1", Deposit: decimal.NewFromInt(50000)}
	mockService := new(mocks.Service)
	mockService.On("SelectTable", mock.Anything, clientId, mock.MatchedBy(func(c booking.TableChoice) bool {
		return c.TableId == choice.TableId && c.Deposit.Equal(choice.Deposit)
	})).Return(booking.View{Step: booking.StepSelectingTable, Table: &choice}, nil)

	ww := httptest.NewRecorder()
	newTestHandler(mockService).SelectTable(ww, newRequest(http.MethodPost, "/booking/table", `{"table_id":"t1","deposit":"50000"}`))

	assert.Equal(t, http.StatusOK, ww.Code)
	mockService.AssertExpectations(t)
}

func TestHandler_Confirm(t *testing.T) {
	tests := []struct {
		name         string
		view         booking.View
		err          error
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Confirmed",
			view:         booking.View{Step: booking.StepConfirmed, Booking: &models.Booking{Id: "b1"}},
			expectedCode: http.StatusOK,
			expectedBody: `"step":"confirmed"`,
		},
		{
			name:         "Backend rejects",
			view:         booking.View{Step: booking.StepSelectingTable, LastError: "Table already booked"},
			err:          &serviceerrors.ConflictError{Message: "Table already booked"},
			expectedCode: http.StatusConflict,
			expectedBody: "Table already booked",
		},
		{
			name:         "Session expired",
			err:          serviceerrors.ErrUnauthenticated,
			expectedCode: http.StatusUnauthorized,
			expectedBody: `"redirect":"/login"`,
		},
		{
			name:         "Client left",
			err:          serviceerrors.ErrContextCanceled,
			expectedCode: respond.StatusClientClosedRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.Service)
			mockService.On("Confirm", mock.Anything, clientId).Return(tt.view, tt.err)

			ww := httptest.NewRecorder()
			newTestHandler(mockService).Confirm(ww, newRequest(http.MethodPost, "/booking/confirm", ""))

			assert.Equal(t, tt.expectedCode, ww.Code)
			assert.Contains(t, ww.Body.String(), tt.expectedBody)
		})
	}
}

func TestHandler_ListAvailableTables(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
	}{
		{name: "Success", expectedCode: http.StatusOK},
		{name: "No slot chosen", err: &serviceerrors.ValidationError{Missing: []string{"date", "time"}}, expectedCode: http.StatusBadRequest},
		{name: "Backend down", err: serviceerrors.ErrUnavailable, expectedCode: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.Service)
			mockService.On("ListAvailableTables", mock.Anything, clientId, listview.Query{Category: "vip", Page: 1}).
				Return(listview.Page[models.Table]{Items: []models.Table{{Id: "t1", Type: "vip"}}, Page: 1}, tt.err)

			ww := httptest.NewRecorder()
			newTestHandler(mockService).ListAvailableTables(ww, newRequest(http.MethodGet, "/tables/available?category=vip", ""))

			assert.Equal(t, tt.expectedCode, ww.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_UpdateStatus(t *testing.T) {
	mockService := new(mocks.Service)
	mockService.On("UpdateStatus", mock.Anything, "b1", models.BookingConfirmed).
		Return(models.Booking{Id: "b1", Status: models.BookingConfirmed}, nil)
	handler := newTestHandler(mockService)

	ww := httptest.NewRecorder()
	handler.UpdateStatus(ww, newRequest(http.MethodPatch, "/admin/bookings/b1/status", `{"status":"confirmed"}`), "b1")
	require.Equal(t, http.StatusOK, ww.Code)

	var got models.Booking
	require.NoError(t, json.NewDecoder(ww.Body).Decode(&got))
	assert.Equal(t, models.BookingConfirmed, got.Status)

	ww = httptest.NewRecorder()
	handler.UpdateStatus(ww, newRequest(http.MethodPatch, "/admin/bookings/b1/status", `{"status":"seated"}`), "b1")
	assert.Equal(t, http.StatusBadRequest, ww.Code)
	mockService.AssertNumberOfCalls(t, "UpdateStatus", 1)
}

func TestHandler_CancelAndStats(t *testing.T) {
	mockService := new(mocks.Service)
	mockService.On("Cancel", mock.Anything, "b1").Return(serviceerrors.ErrNotFound)
	mockService.On("Stats", mock.Anything).Return(models.BookingStats{Total: 3, Pending: 1, Confirmed: 2}, nil)
	handler := newTestHandler(mockService)

	ww := httptest.NewRecorder()
	handler.Cancel(ww, newRequest(http.MethodPost, "/bookings/b1/cancel", ""), "b1")
	assert.Equal(t, http.StatusNotFound, ww.Code)

	ww = httptest.NewRecorder()
	handler.Stats(ww, newRequest(http.MethodGet, "/admin/bookings/stats", ""))
	assert.Equal(t, http.StatusOK, ww.Code)
	assert.JSONEq(t, `{"total":3,"pending":1,"confirmed":2,"cancelled":0}`, ww.Body.String())

}
