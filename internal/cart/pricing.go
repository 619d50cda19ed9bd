package cart

import (
	"restoapi/internal/models"
	"restoapi/internal/voucher"

	"github.com/shopspring/decimal"
)

// Pricing carries the knobs of the estimate.
type Pricing struct {
	// DepositWaiverMin is the food and drink subtotal at which reservation
	// deposits are waived. Zero disables waivers.
	DepositWaiverMin decimal.Decimal
}

func (e *Engine) Summary(p Pricing) models.CartSummary {
	state := e.State()
	return Summarize(state.Items, state.Voucher, p)
}

// Summarize prices items: the discount applies to what is left after any
// deposit waiver, and the total never drops below zero.
func Summarize(items []models.CartItem, v *models.Voucher, p Pricing) models.CartSummary {
	sub := subtotal(items)
	waiver := depositWaiver(items, p)

	base := sub.Sub(waiver)
	discount := voucher.DiscountAmount(v, base)

	total := base.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return models.CartSummary{
		Items:         copyItems(items),
		Subtotal:      sub,
		DepositWaiver: waiver,
		Discount:      discount,
		Total:         total,
		Voucher:       v,
	}
}

func depositWaiver(items []models.CartItem, p Pricing) decimal.Decimal {
	if !p.DepositWaiverMin.IsPositive() {
		return decimal.Zero
	}

	deposits := decimal.Zero
	orders := decimal.Zero
	for _, item := range items {
		if item.Category == models.CategoryReservation {
			deposits = deposits.Add(item.LineTotal())
		} else {
			orders = orders.Add(item.LineTotal())
		}
	}

	if deposits.IsZero() || orders.LessThan(p.DepositWaiverMin) {
		return decimal.Zero
	}
	return deposits
}
