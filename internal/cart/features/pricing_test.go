package features

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"restoapi/internal/cart"
	"restoapi/internal/models"
	"restoapi/internal/voucher"
	"restoapi/pkg/lib/logger/slogdiscard"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
)

type pricingTestContext struct {
	engine   *cart.Engine
	resolver *voucher.Resolver
	err      error
}

func (c *pricingTestContext) reset() {
	c.engine = cart.New()
	c.resolver = voucher.NewResolver(slogdiscard.NewDiscardLogger(), nil, nil)
	c.err = nil
}

func (c *pricingTestContext) anEmptyCart() error {
	c.engine = cart.New()
	return nil
}

func (c *pricingTestContext) theVoucherRules(table *godog.Table) error {
	var rules []models.Voucher
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		value, err := decimal.NewFromString(row.Cells[2].Value)
		if err != nil {
			return err
		}
		rules = append(rules, models.Voucher{
			Code:  row.Cells[0].Value,
			Kind:  models.VoucherKind(row.Cells[1].Value),
			Value: value,
		})
	}
	c.resolver = voucher.NewResolver(slogdiscard.NewDiscardLogger(), rules, nil)
	return nil
}

func (c *pricingTestContext) iAddOfPriced(qty int, id string, price int64) error {
	return c.engine.AddItem(models.CartItem{
		Id:        id,
		Name:      id,
		UnitPrice: decimal.NewFromInt(price),
		Category:  models.CategoryFood,
	}, qty)
}

func (c *pricingTestContext) iApplyVoucher(code string) error {
	_, c.err = c.resolver.Apply(context.Background(), c.engine, code)
	return nil
}

func (c *pricingTestContext) iSetTheQuantityOfTo(id string, qty int) error {
	c.engine.SetQuantity(id, qty)
	return nil
}

func (c *pricingTestContext) iClearTheCart() error {
	c.engine.Clear()
	return nil
}

func (c *pricingTestContext) applyingTheVoucherFailed() error {
	if !errors.Is(c.err, voucher.ErrInvalidVoucher) {
		return fmt.Errorf("expected invalid voucher error, got %v", c.err)
	}
	return nil
}

func (c *pricingTestContext) theCartHasLines(n int) error {
	if got := c.engine.Len(); got != n {
		return fmt.Errorf("expected %d lines, got %d", n, got)
	}
	return nil
}

func (c *pricingTestContext) amountIs(name string, pick func(models.CartSummary) decimal.Decimal) func(int64) error {
	return func(want int64) error {
		got := pick(c.engine.Summary(cart.Pricing{}))
		if !got.Equal(decimal.NewFromInt(want)) {
			return fmt.Errorf("expected %s %d, got %s", name, want, got)
		}
		return nil
	}
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &pricingTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^an empty cart$`, tc.anEmptyCart)
	ctx.Step(`^the voucher rules:$`, tc.theVoucherRules)

	// When steps
	ctx.Step(`^I add (\d+) of "([^"]*)" priced (\d+)$`, tc.iAddOfPriced)
	ctx.Step(`^I apply voucher "([^"]*)"$`, tc.iApplyVoucher)
	ctx.Step(`^I set the quantity of "([^"]*)" to (-?\d+)$`, tc.iSetTheQuantityOfTo)
	ctx.Step(`^I clear the cart$`, tc.iClearTheCart)

	// Then steps
	ctx.Step(`^applying the voucher failed$`, tc.applyingTheVoucherFailed)
	ctx.Step(`^the cart has (\d+) lines$`, tc.theCartHasLines)
	ctx.Step(`^the subtotal is (\d+)$`, tc.amountIs("subtotal", func(s models.CartSummary) decimal.Decimal { return s.Subtotal }))
	ctx.Step(`^the discount is (\d+)$`, tc.amountIs("discount", func(s models.CartSummary) decimal.Decimal { return s.Discount }))
	ctx.Step(`^the total is (\d+)$`, tc.amountIs("total", func(s models.CartSummary) decimal.Decimal { return s.Total }))
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"pricing.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
