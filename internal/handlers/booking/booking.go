package booking

import (
	"context"
	"log/slog"
	"net/http"

	"restoapi/internal/booking"
	"restoapi/internal/handlers/respond"
	"restoapi/internal/listview"
	"restoapi/internal/models"
)

type BookingService interface {
	Start(ctx context.Context, clientId string, variant booking.Variant) (booking.View, error)
	State(ctx context.Context, clientId string) (booking.View, error)
	SelectTime(ctx context.Context, clientId string, sel booking.TimeSelection) (booking.View, error)
	Next(ctx context.Context, clientId string) (booking.View, error)
	SelectTable(ctx context.Context, clientId string, choice booking.TableChoice) (booking.View, error)
	Confirm(ctx context.Context, clientId string) (booking.View, error)
	Back(ctx context.Context, clientId string) (booking.View, error)

	ListMine(ctx context.Context, q listview.Query) (listview.Page[models.Booking], error)
	ListAll(ctx context.Context, q listview.Query) (listview.Page[models.Booking], error)
	ListTables(ctx context.Context, q listview.Query) (listview.Page[models.Table], error)
	ListAvailableTables(ctx context.Context, clientId string, q listview.Query) (listview.Page[models.Table], error)
	Cancel(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (models.Booking, error)
	Stats(ctx context.Context) (models.BookingStats, error)
}

type Handler struct {
	log     *slog.Logger
	service BookingService
}

func New(log *slog.Logger, service BookingService) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

type startRequest struct {
	Variant booking.Variant `json:"variant"`
}

type statusRequest struct {
	Status models.BookingStatus `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}

func (h *Handler) writeView(w http.ResponseWriter, log *slog.Logger, view booking.View, err error, msg string) {
	if err != nil {
		respond.Error(w, log, err, msg)
		return
	}
	respond.JSON(w, log, http.StatusOK, view)
}

// POST /booking/start
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.Start"
	log := h.log.With("op", op)

	var req startRequest
	if r.ContentLength != 0 {
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, log, err, "Cannot read request body")
			return
		}
	}

	view, err := h.service.Start(r.Context(), respond.ClientId(r), req.Variant)
	h.writeView(w, log, view, err, "Failed to start booking")
}

// GET /booking
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.State"
	log := h.log.With("op", op)

	view, err := h.service.State(r.Context(), respond.ClientId(r))
	h.writeView(w, log, view, err, "Failed to load booking")
}

// POST /booking/time
func (h *Handler) SelectTime(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.SelectTime"
	log := h.log.With("op", op)

	var sel booking.TimeSelection
	if err := respond.Decode(r, &sel); err != nil {
		respond.Error(w, log, err, "Cannot read request body")
		return
	}

	view, err := h.service.SelectTime(r.Context(), respond.ClientId(r), sel)
	h.writeView(w, log, view, err, "Failed to select time")
}

// POST /booking/next
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.Next"
	log := h.log.With("op", op)

	view, err := h.service.Next(r.Context(), respond.ClientId(r))
	h.writeView(w, log, view, err, "Failed to continue booking")
}

// POST /booking/table
func (h *Handler) SelectTable(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.SelectTable"
	log := h.log.With("op", op)

	var choice booking.TableChoice
	if err := respond.Decode(r, &choice); err != nil {
		respond.Error(w, log, err, "Cannot read request body")
		return
	}

	view, err := h.service.SelectTable(r.Context(), respond.ClientId(r), choice)
	h.writeView(w, log, view, err, "Failed to select table")
}

// POST /booking/confirm
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.Confirm"
	log := h.log.With("op", op)

	view, err := h.service.Confirm(r.Context(), respond.ClientId(r))
	h.writeView(w, log, view, err, "Failed to confirm booking")
}

// POST /booking/back
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.Back"
	log := h.log.With("op", op)

	view, err := h.service.Back(r.Context(), respond.ClientId(r))
	h.writeView(w, log, view, err, "Failed to go back")
}
