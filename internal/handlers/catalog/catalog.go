package catalog

import (
	"context"
	"log/slog"
	"net/http"

	"restoapi/internal/handlers/respond"
	"restoapi/internal/listview"
	"restoapi/internal/models"
)

type CatalogService interface {
	ListMenu(ctx context.Context, q listview.Query) (listview.Page[models.MenuItem], error)
	CreateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id string, item models.MenuItem) (models.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id string) error
	UploadMenuImage(ctx context.Context, id string, file models.Upload) (models.MenuItem, error)
	DeleteMenuImage(ctx context.Context, id string) error

	CreateTable(ctx context.Context, table models.Table) (models.Table, error)
	UpdateTable(ctx context.Context, id string, table models.Table) (models.Table, error)
	DeleteTable(ctx context.Context, id string) error
	CreateTableType(ctx context.Context, tt models.TableType) (models.TableType, error)

	ListVouchers(ctx context.Context) ([]models.Voucher, error)
	GetVoucher(ctx context.Context, id string) (models.Voucher, error)
	CreateVoucher(ctx context.Context, v models.Voucher) (models.Voucher, error)
	UpdateVoucher(ctx context.Context, id string, v models.Voucher) (models.Voucher, error)
	DeleteVoucher(ctx context.Context, id string) error
	GenerateVoucherCode(ctx context.Context) (string, error)
	SearchUsers(ctx context.Context, query string) ([]models.User, error)
}

type Handler struct {
	log     *slog.Logger
	service CatalogService
}

func New(log *slog.Logger, service CatalogService) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// GET /menu
func (h *Handler) ListMenu(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.ListMenu"
	log := h.log.With("op", op)

	page, err := h.service.ListMenu(r.Context(), listview.ParseQuery(r.URL.Query()))
	if err != nil {
		respond.Error(w, log, err, "Failed to load menu")
		return
	}

	respond.JSON(w, log, http.StatusOK, page)
}

// POST /admin/menu
func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.CreateMenuItem"
	log := h.log.With("op", op)

	var item models.MenuItem
	if err := respond.Decode(r, &item); err != nil {
		respond.Error(w, log, err, "Cannot read request body")
		return
	}

	created, err := h.service.CreateMenuItem(r.Context(), item)
	if err != nil {
		respond.Error(w, log, err, "Failed to create menu item")
		return
	}

	respond.JSON(w, log, http.StatusCreated, created)
}

// PUT /admin/menu/{menuId}
func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request, menuId string) {
	const op = "handlers.catalog.UpdateMenuItem"
	log := h.log.With("op", op, "menu_id", menuId)

	var item models.MenuItem
	if err := respond.Decode(r, &item); err != nil {
		respond.Error(w, log, err, "Cannot read request body")
		return
	}

	updated, err := h.service.UpdateMenuItem(r.Context(), menuId, item)
	if err != nil {
		respond.Error(w, log, err, "Failed to update menu item")
		return
	}

	respond.JSON(w, log, http.StatusOK, updated)
}

// DELETE /admin/menu/{menuId}
func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request, menuId string) {
	const op = "handlers.catalog.DeleteMenuItem"
	log := h.log.With("op", op, "menu_id", menuId)

	if err := h.service.DeleteMenuItem(r.Context(), menuId); err != nil {
		respond.Error(w, log, err, "Failed to delete menu item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// POST /admin/menu/{menuId}/image
func (h *Handler) UploadMenuImage(w http.ResponseWriter, r *http.Request, menuId string) {
	const op = "handlers.catalog.UploadMenuImage"
	log := h.log.With("op", op, "menu_id", menuId)

	file, err := respond.File(r, "image")
	if err != nil {
		respond.Error(w, log, err, "Cannot read image")
		return
	}

	updated, err := h.service.UploadMenuImage(r.Context(), menuId, file)
	if err != nil {
		respond.Error(w, log, err, "Failed to upload image")
		return
	}

	respond.JSON(w, log, http.StatusOK, updated)
}

// DELETE /admin/menu/{menuId}/image
func (h *Handler) DeleteMenuImage(w http.ResponseWriter, r *http.Request, menuId string) {
	const op = "handlers.catalog.DeleteMenuImage"
	log := h.log.With("op", op, "menu_id", menuId)

	if err := h.service.DeleteMenuImage(r.Context(), menuId); err != nil {
		respond.Error(w, log, err, "Failed to delete image")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// POST /admin/tables
func (h *Handler) CreateTable(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.CreateTable"
	log := h.log.With("op", op)

	var table models.Table
	if err := respond.Decode(r, &table); err != nil {
		respond.Error(w, log, err, "Cannot read request body")
		return
	}

	created, err := h.service.CreateTable(r.Context(), table)
	if err != nil {
		respond.Error(w, log, err, "Failed to create table")
		return
	}

	respond.JSON(w, log, http.StatusCreated, created)
}

// PUT /admin/tables/{tableId}
func (h *Handler) UpdateTable(w http.ResponseWriter, r *http.Request, tableId string) {
	const op = "handlers.catalog.UpdateTable"
	log := h.log.With("op", op, "table_id", tableId)

	var table models.Table
	if err := respond.Decode(r, &table); err != nil {
		respond.Error(w, log, err, "Cannot read request body")
		return
	}

	updated, err := h.service.UpdateTable(r.Context(), tableId, table)
	if err != nil {
		respond.Error(w, log, err, "Failed to update table")
		return
	}

	respond.JSON(w, log, http.StatusOK, updated)
}

// DELETE /admin/tables/{tableId}
func (h *Handler) DeleteTable(w http.ResponseWriter, r *http.Request, tableId string) {
	const op = "handlers.catalog.DeleteTable"
	log := h.log.With("op", op, "table_id", tableId)

	if err := h.service.DeleteTable(r.Context(), tableId); err != nil {
		respond.Error(w, log, err, "Failed to delete table")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// POST /admin/table-types
func (h *Handler) CreateTableType(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.CreateTableType"
	log := h.log.With("op", op)

	var tt models.TableType
	if err := respond.Decode(r, &tt); err != nil {
		respond.Error(w, log, err, "Cannot read request body")
		return
	}

	created, err := h.service.CreateTableType(r.Context(), tt)
	if err != nil {
		respond.Error(w, log, err, "Failed to create table type")
		return
	}

	respond.JSON(w, log, http.StatusCreated, created)
}
