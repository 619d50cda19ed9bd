package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// The List* methods expose the fields the list views filter and sort on.

func (m MenuItem) ListName() string           { return m.Name }
func (m MenuItem) ListText() string           { return m.Name + " " + m.Description }
func (m MenuItem) ListCategory() string       { return string(m.Category) }
func (m MenuItem) ListAvailable() bool        { return m.Available }
func (m MenuItem) ListPrice() decimal.Decimal { return m.Price }
func (m MenuItem) ListTime() time.Time        { return m.CreatedAt }

func (t Table) ListName() string           { return t.Number }
func (t Table) ListText() string           { return t.Number + " " + t.Type }
func (t Table) ListCategory() string       { return t.Type }
func (t Table) ListAvailable() bool        { return t.Available }
func (t Table) ListPrice() decimal.Decimal { return t.Deposit }
func (t Table) ListTime() time.Time        { return t.CreatedAt }

func (b Booking) ListName() string           { return b.UserName }
func (b Booking) ListText() string           { return b.UserName + " " + b.TableId + " " + b.TableType + " " + b.Note }
func (b Booking) ListCategory() string       { return string(b.Status) }
func (b Booking) ListAvailable() bool        { return b.Status != BookingCancelled }
func (b Booking) ListPrice() decimal.Decimal { return decimal.Zero }
func (b Booking) ListTime() time.Time        { return b.StartTime }

func (o Order) ListName() string { return o.Id }
func (o Order) ListText() string {
	text := o.Id
	for _, item := range o.Items {
		text += " " + item.Name
	}
	return text
}
func (o Order) ListCategory() string       { return string(o.Status) }
func (o Order) ListAvailable() bool        { return o.Status != OrderCancelled }
func (o Order) ListPrice() decimal.Decimal { return o.Total }
func (o Order) ListTime() time.Time        { return o.CreatedAt }
