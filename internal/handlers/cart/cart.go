package cart

import (
	"context"
	"log/slog"
	"net/http"

	"restoapi/internal/handlers/respond"
	"restoapi/internal/listview"
	"restoapi/internal/models"
)

type CartService interface {
	View(ctx context.Context, clientId string) (models.CartSummary, error)
	AddMenuItem(ctx context.Context, clientId, menuId string, quantity int) (models.CartSummary, error)
	SetQuantity(ctx context.Context, clientId, itemId string, quantity int) (models.CartSummary, error)
	RemoveItem(ctx context.Context, clientId, itemId string) (models.CartSummary, error)
	Clear(ctx context.Context, clientId string) (models.CartSummary, error)
	ApplyVoucher(ctx context.Context, clientId, code string) (models.CartSummary, error)
	RemoveVoucher(ctx context.Context, clientId string) (models.CartSummary, error)
	Checkout(ctx context.Context, clientId string) (models.Order, error)

	ListMyOrders(ctx context.Context, q listview.Query) (listview.Page[models.Order], error)
	ListAllOrders(ctx context.Context, q listview.Query) (listview.Page[models.Order], error)
	CancelOrder(ctx context.Context, id string) error
	MarkOrderPaid(ctx context.Context, id string) error
	UploadPaymentProof(ctx context.Context, id string, file models.Upload) (models.Order, error)
}

type Handler struct {
	log     *slog.Logger
	service CartService
}

func New(log *slog.Logger, service CartService) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

type addItemRequest struct {
	MenuId   string `json:"menu_id" validate:"required"`
	Quantity *int   `json:"quantity"`
}

// quantityRequest requires the field so a line is only removed by an explicit 0.
type quantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type voucherRequest struct {
	Code string `json:"code" validate:"required"`
}

// GET /cart
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.View"
	log := h.log.With("op", op)

	summary, err := h.service.View(r.Context(), respond.ClientId(r))
	if err != nil {
		respond.Error(w, log, err, "Failed to load cart")
		return
	}

	respond.JSON(w, log, http.StatusOK, summary)
}

// DELETE /cart
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.Clear"
	log := h.log.With("op", op)

	summary, err := h.service.Clear(r.Context(), respond.ClientId(r))
	if err != nil {
		respond.Error(w, log, err, "Failed to clear cart")
		return
	}

	respond.JSON(w, log, http.StatusOK, summary)
}

// POST /cart/items
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.AddItem"
	log := h.log.With("op", op)

	var req addItemRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, log, err, "Cannot read request body")
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	summary, err := h.service.AddMenuItem(r.Context(), respond.ClientId(r), req.MenuId, quantity)
	if err != nil {
		respond.Error(w, log, err, "Failed to add item")
		return
	}

	respond.JSON(w, log, http.StatusCreated, summary)
}

// PUT /cart/items/{itemId}
func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request, itemId string) {
	const op = "handlers.cart.SetQuantity"
	log := h.log.With("op", op, "item_id", itemId)

	var req quantityRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, log, err, "Cannot read request body")
		return
	}

	summary, err := h.service.SetQuantity(r.Context(), respond.ClientId(r), itemId, *req.Quantity)
	if err != nil {
		respond.Error(w, log, err, "Failed to update item")
		return
	}

	respond.JSON(w, log, http.StatusOK, summary)
}

// DELETE /cart/items/{itemId}
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request, itemId string) {
	const op = "handlers.cart.RemoveItem"
	log := h.log.With("op", op, "item_id", itemId)

	summary, err := h.service.RemoveItem(r.Context(), respond.ClientId(r), itemId)
	if err != nil {
		respond.Error(w, log, err, "Failed to remove item")
		return
	}

	respond.JSON(w, log, http.StatusOK, summary)
}

// POST /cart/voucher
func (h *Handler) ApplyVoucher(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.ApplyVoucher"
	log := h.log.With("op", op)

	var req voucherRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, log, err, "Cannot read request body")
		return
	}

	summary, err := h.service.ApplyVoucher(r.Context(), respond.ClientId(r), req.Code)
	if err != nil {
		respond.Error(w, log, err, "Failed to apply voucher")
		return
	}

	respond.JSON(w, log, http.StatusOK, summary)
}

// DELETE /cart/voucher
func (h *Handler) RemoveVoucher(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.RemoveVoucher"
	log := h.log.With("op", op)

	summary, err := h.service.RemoveVoucher(r.Context(), respond.ClientId(r))
	if err != nil {
		respond.Error(w, log, err, "Failed to remove voucher")
		return
	}

	respond.JSON(w, log, http.StatusOK, summary)
}

// POST /cart/checkout
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.Checkout"
	log := h.log.With("op", op)

	order, err := h.service.Checkout(r.Context(), respond.ClientId(r))
	if err != nil {
		respond.Error(w, log, err, "Failed to place order")
		return
	}

	respond.JSON(w, log, http.StatusCreated, order)
}
