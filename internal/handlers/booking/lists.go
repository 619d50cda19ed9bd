package booking

import (
	"net/http"

	"restoapi/internal/handlers/respond"
	"restoapi/internal/listview"
)

// GET /bookings
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.ListMine"
	log := h.log.With("op", op)

	page, err := h.service.ListMine(r.Context(), listview.ParseQuery(r.URL.Query()))
	if err != nil {
		respond.Error(w, log, err, "Failed to list bookings")
		return
	}

	respond.JSON(w, log, http.StatusOK, page)
}

// GET /admin/bookings
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.ListAll"
	log := h.log.With("op", op)

	page, err := h.service.ListAll(r.Context(), listview.ParseQuery(r.URL.Query()))
	if err != nil {
		respond.Error(w, log, err, "Failed to list bookings")
		return
	}

	respond.JSON(w, log, http.StatusOK, page)
}

// GET /tables
func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.ListTables"
	log := h.log.With("op", op)

	page, err := h.service.ListTables(r.Context(), listview.ParseQuery(r.URL.Query()))
	if err != nil {
		respond.Error(w, log, err, "Failed to list tables")
		return
	}

	respond.JSON(w, log, http.StatusOK, page)
}

// GET /tables/available
func (h *Handler) ListAvailableTables(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.ListAvailableTables"
	log := h.log.With("op", op)

	page, err := h.service.ListAvailableTables(r.Context(), respond.ClientId(r), listview.ParseQuery(r.URL.Query()))
	if err != nil {
		respond.Error(w, log, err, "Failed to list available tables")
		return
	}

	respond.JSON(w, log, http.StatusOK, page)
}

// POST /bookings/{bookingId}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request, bookingId string) {
	const op = "handlers.booking.Cancel"
	log := h.log.With("op", op, "booking_id", bookingId)

	if err := h.service.Cancel(r.Context(), bookingId); err != nil {
		respond.Error(w, log, err, "Failed to cancel booking")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PATCH /admin/bookings/{bookingId}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request, bookingId string) {
	const op = "handlers.booking.UpdateStatus"
	log := h.log.With("op", op, "booking_id", bookingId)

	var req statusRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, log, err, "Cannot read request body")
		return
	}

	updated, err := h.service.UpdateStatus(r.Context(), bookingId, req.Status)
	if err != nil {
		respond.Error(w, log, err, "Failed to update booking")
		return
	}

	respond.JSON(w, log, http.StatusOK, updated)
}

// GET /admin/bookings/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.Stats"
	log := h.log.With("op", op)

	stats, err := h.service.Stats(r.Context())
	if err != nil {
		respond.Error(w, log, err, "Failed to load booking stats")
		return
	}

	respond.JSON(w, log, http.StatusOK, stats)
}
