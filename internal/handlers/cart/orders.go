package cart

import (
	"net/http"

	"restoapi/internal/handlers/respond"
	"restoapi/internal/listview"
)

// GET /orders
func (h *Handler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.ListMyOrders"
	log := h.log.With("op", op)

	page, err := h.service.ListMyOrders(r.Context(), listview.ParseQuery(r.URL.Query()))
	if err != nil {
		respond.Error(w, log, err, "Failed to list orders")
		return
	}

	respond.JSON(w, log, http.StatusOK, page)
}

// GET /admin/orders
func (h *Handler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.ListAllOrders"
	log := h.log.With("op", op)

	page, err := h.service.ListAllOrders(r.Context(), listview.ParseQuery(r.URL.Query()))
	if err != nil {
		respond.Error(w, log, err, "Failed to list orders")
		return
	}

	respond.JSON(w, log, http.StatusOK, page)
}

// POST /orders/{orderId}/cancel
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request, orderId string) {
	const op = "handlers.cart.CancelOrder"
	log := h.log.With("op", op, "order_id", orderId)

	if err := h.service.CancelOrder(r.Context(), orderId); err != nil {
		respond.Error(w, log, err, "Failed to cancel order")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// POST /admin/orders/{orderId}/paid
func (h *Handler) MarkOrderPaid(w http.ResponseWriter, r *http.Request, orderId string) {
	const op = "handlers.cart.MarkOrderPaid"
	log := h.log.With("op", op, "order_id", orderId)

	if err := h.service.MarkOrderPaid(r.Context(), orderId); err != nil {
		respond.Error(w, log, err, "Failed to mark order paid")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// POST /orders/{orderId}/payment-proof
func (h *Handler) UploadPaymentProof(w http.ResponseWriter, r *http.Request, orderId string) {
	const op = "handlers.cart.UploadPaymentProof"
	log := h.log.With("op", op, "order_id", orderId)

	file, err := respond.File(r, "proof")
	if err != nil {
		respond.Error(w, log, err, "Cannot read payment proof")
		return
	}

	order, err := h.service.UploadPaymentProof(r.Context(), orderId, file)
	if err != nil {
		respond.Error(w, log, err, "Failed to upload payment proof")
		return
	}

	respond.JSON(w, log, http.StatusOK, order)
}
