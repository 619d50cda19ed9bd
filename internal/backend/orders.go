package backend

import (
	"context"
	"fmt"
	"net/http"

	"restoapi/internal/models"
)

func (c *Client) CreateOrder(ctx context.Context, order OrderRequest) (models.Order, error) {
	const op = "backend.CreateOrder"

	raw, err := c.sendJSON(ctx, http.MethodPost, "orders", order)
	if err != nil {
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	created, err := decodeOne[models.Order, orderDTO](raw)
	if err != nil {
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(created.Items) == 0 {
		created.Items = order.Items
		created.Subtotal, created.Discount, created.Total = order.Subtotal, order.Discount, order.Total
		created.VoucherCode = order.VoucherCode
	}
	return created, nil
}

func (c *Client) listOrders(ctx context.Context, op, path string) ([]models.Order, error) {
	raw, err := c.send(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	orders, err := decodeList[models.Order, orderDTO](raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (c *Client) ListMyOrders(ctx context.Context) ([]models.Order, error) {
	return c.listOrders(ctx, "backend.ListMyOrders", "orders/mine")
}

func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	return c.listOrders(ctx, "backend.ListOrders", "orders")
}

func (c *Client) CancelOrder(ctx context.Context, id string) error {
	const op = "backend.CancelOrder"

	if _, err := c.send(ctx, http.MethodPost, idPath("orders", id, "cancel"), nil, ""); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Client) MarkOrderPaid(ctx context.Context, id string) error {
	const op = "backend.MarkOrderPaid"

	if _, err := c.send(ctx, http.MethodPost, idPath("orders", id, "paid"), nil, ""); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Client) UploadPaymentProof(ctx context.Context, id string, file models.Upload) (models.Order, error) {
	const op = "backend.UploadPaymentProof"

	raw, err := c.sendFile(ctx, idPath("orders", id, "payment-proof"), "proof", file)
	if err != nil {
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	order, err := decodeOne[models.Order, orderDTO](raw)
	if err != nil {
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	if order.Id == "" {
		order.Id = id
	}
	return order, nil
}
