package backend

import (
	"context"
	"fmt"
	"net/http"

	"restoapi/internal/models"

	"github.com/shopspring/decimal"
)

type menuItemRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    models.Category `json:"category"`
	Available   bool            `json:"available"`
}

func newMenuItemRequest(item models.MenuItem) menuItemRequest {
	return menuItemRequest{
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		Category:    item.Category,
		Available:   item.Available,
	}
}

func (c *Client) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	const op = "backend.ListMenu"

	raw, err := c.send(ctx, http.MethodGet, "menu", nil, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	items, err := decodeList[models.MenuItem, menuItemDTO](raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

func (c *Client) CreateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	const op = "backend.CreateMenuItem"

	raw, err := c.sendJSON(ctx, http.MethodPost, "menu", newMenuItemRequest(item))
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("%s: %w", op, err)
	}
	created, err := decodeOne[models.MenuItem, menuItemDTO](raw)
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

func (c *Client) UpdateMenuItem(ctx context.Context, id string, item models.MenuItem) (models.MenuItem, error) {
	const op = "backend.UpdateMenuItem"

	raw, err := c.sendJSON(ctx, http.MethodPut, idPath("menu", id), newMenuItemRequest(item))
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("%s: %w", op, err)
	}
	updated, err := decodeOne[models.MenuItem, menuItemDTO](raw)
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("%s: %w", op, err)
	}
	if updated.Id == "" {
		updated.Id = id
	}
	return updated, nil
}

func (c *Client) DeleteMenuItem(ctx context.Context, id string) error {
	const op = "backend.DeleteMenuItem"

	if _, err := c.send(ctx, http.MethodDelete, idPath("menu", id), nil, ""); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Client) UploadMenuImage(ctx context.Context, id string, file models.Upload) (models.MenuItem, error) {
	const op = "backend.UploadMenuImage"

	raw, err := c.sendFile(ctx, idPath("menu", id, "image"), "image", file)
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("%s: %w", op, err)
	}
	item, err := decodeOne[models.MenuItem, menuItemDTO](raw)
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

func (c *Client) DeleteMenuImage(ctx context.Context, id string) error {
	const op = "backend.DeleteMenuImage"

	if _, err := c.send(ctx, http.MethodDelete, idPath("menu", id, "image"), nil, ""); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
