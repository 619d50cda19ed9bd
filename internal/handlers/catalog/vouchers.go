package catalog

import (
	"net/http"

	"restoapi/internal/handlers/respond"
	"restoapi/internal/models"
)

// GET /admin/vouchers
func (h *Handler) ListVouchers(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.ListVouchers"
	log := h.log.With("op", op)

	vouchers, err := h.service.ListVouchers(r.Context())
	if err != nil {
		respond.Error(w, log, err, "Failed to list vouchers")
		return
	}
	if vouchers == nil {
		vouchers = []models.Voucher{}
	}

	respond.JSON(w, log, http.StatusOK, vouchers)
}

// GET /admin/vouchers/{voucherId}
func (h *Handler) GetVoucher(w http.ResponseWriter, r *http.Request, voucherId string) {
	const op = "handlers.catalog.GetVoucher"
	log := h.log.With("op", op, "voucher_id", voucherId)

	v, err := h.service.GetVoucher(r.Context(), voucherId)
	if err != nil {
		respond.Error(w, log, err, "Failed to load voucher")
		return
	}

	respond.JSON(w, log, http.StatusOK, v)
}

// POST /admin/vouchers
func (h *Handler) CreateVoucher(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.CreateVoucher"
	log := h.log.With("op", op)

	var v models.Voucher
	if err := respond.Decode(r, &v); err != nil {
		respond.Error(w, log, err, "Cannot read request body")
		return
	}

	created, err := h.service.CreateVoucher(r.Context(), v)
	if err != nil {
		respond.Error(w, log, err, "Failed to create voucher")
		return
	}

	respond.JSON(w, log, http.StatusCreated, created)
}

// PUT /admin/vouchers/{voucherId}
func (h *Handler) UpdateVoucher(w http.ResponseWriter, r *http.Request, voucherId string) {
	const op = "handlers.catalog.UpdateVoucher"
	log := h.log.With("op", op, "voucher_id", voucherId)

	var v models.Voucher
	if err := respond.Decode(r, &v); err != nil {
		respond.Error(w, log, err, "Cannot read request body")
		return
	}

	updated, err := h.service.UpdateVoucher(r.Context(), voucherId, v)
	if err != nil {
		respond.Error(w, log, err, "Failed to update voucher")
		return
	}

	respond.JSON(w, log, http.StatusOK, updated)
}

// DELETE /admin/vouchers/{voucherId}
func (h *Handler) DeleteVoucher(w http.ResponseWriter, r *http.Request, voucherId string) {
	const op = "handlers.catalog.DeleteVoucher"
	log := h.log.With("op", op, "voucher_id", voucherId)

	if err := h.service.DeleteVoucher(r.Context(), voucherId); err != nil {
		respond.Error(w, log, err, "Failed to delete voucher")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GET /admin/vouchers/generate-code
func (h *Handler) GenerateVoucherCode(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.GenerateVoucherCode"
	log := h.log.With("op", op)

	code, err := h.service.GenerateVoucherCode(r.Context())
	if err != nil {
		respond.Error(w, log, err, "Failed to generate voucher code")
		return
	}

	respond.JSON(w, log, http.StatusOK, map[string]string{"code": code})
}

// GET /admin/vouchers/users?q=
func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.SearchUsers"
	log := h.log.With("op", op)

	users, err := h.service.SearchUsers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respond.Error(w, log, err, "Failed to search users")
		return
	}
	if users == nil {
		users = []models.User{}
	}

	respond.JSON(w, log, http.StatusOK, users)
}
