package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"restoapi/internal/models"

	"github.com/shopspring/decimal"
)

type tableRequest struct {
	Number    string          `json:"number"`
	Type      string          `json:"type"`
	Capacity  int             `json:"capacity"`
	Available bool            `json:"available"`
	Deposit   decimal.Decimal `json:"deposit"`
}

func newTableRequest(t models.Table) tableRequest {
	return tableRequest{
		Number:    t.Number,
		Type:      t.Type,
		Capacity:  t.Capacity,
		Available: t.Available,
		Deposit:   t.Deposit,
	}
}

func (c *Client) ListTables(ctx context.Context) ([]models.Table, error) {
	const op = "backend.ListTables"

	raw, err := c.send(ctx, http.MethodGet, "tables", nil, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	tables, err := decodeList[models.Table, tableDTO](raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tables, nil
}

// ListAvailableTables asks which tables are free for the whole [start, end) slot.
func (c *Client) ListAvailableTables(ctx context.Context, start, end time.Time) ([]models.Table, error) {
	const op = "backend.ListAvailableTables"

	q := url.Values{}
	q.Set("start_time", start.Format(time.RFC3339))
	q.Set("end_time", end.Format(time.RFC3339))

	raw, err := c.send(ctx, http.MethodGet, "tables/available?"+q.Encode(), nil, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	tables, err := decodeList[models.Table, tableDTO](raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tables, nil
}

func (c *Client) CreateTable(ctx context.Context, table models.Table) (models.Table, error) {
	const op = "backend.CreateTable"

	raw, err := c.sendJSON(ctx, http.MethodPost, "tables", newTableRequest(table))
	if err != nil {
		return models.Table{}, fmt.Errorf("%s: %w", op, err)
	}
	created, err := decodeOne[models.Table, tableDTO](raw)
	if err != nil {
		return models.Table{}, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

func (c *Client) UpdateTable(ctx context.Context, id string, table models.Table) (models.Table, error) {
	const op = "backend.UpdateTable"

	raw, err := c.sendJSON(ctx, http.MethodPut, idPath("tables", id), newTableRequest(table))
	if err != nil {
		return models.Table{}, fmt.Errorf("%s: %w", op, err)
	}
	updated, err := decodeOne[models.Table, tableDTO](raw)
	if err != nil {
		return models.Table{}, fmt.Errorf("%s: %w", op, err)
	}
	if updated.Id == "" {
		updated.Id = id
	}
	return updated, nil
}

func (c *Client) DeleteTable(ctx context.Context, id string) error {
	const op = "backend.DeleteTable"

	if _, err := c.send(ctx, http.MethodDelete, idPath("tables", id), nil, ""); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Client) CreateTableType(ctx context.Context, tt models.TableType) (models.TableType, error) {
	const op = "backend.CreateTableType"

	body := struct {
		Name     string          `json:"name"`
		Capacity int             `json:"capacity"`
		Deposit  decimal.Decimal `json:"deposit"`
	}{tt.Name, tt.Capacity, tt.Deposit}

	raw, err := c.sendJSON(ctx, http.MethodPost, "table-types", body)
	if err != nil {
		return models.TableType{}, fmt.Errorf("%s: %w", op, err)
	}
	created, err := decodeOne[models.TableType, tableTypeDTO](raw)
	if err != nil {
		return models.TableType{}, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}
