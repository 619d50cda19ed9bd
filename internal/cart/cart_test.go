package cart_test

import (
	"fmt"
	"math/rand"
	"testing"

	"restoapi/internal/cart"
	"restoapi/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id string, price int64, category models.Category) models.CartItem {
	return models.CartItem{
		Id:        id,
		Name:      "item " + id,
		UnitPrice: decimal.NewFromInt(price),
		Category:  category,
	}
}

func assertDecimal(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.NewFromInt(want).Equal(got), "want %d, got %s", want, got)
}

func TestAddItem(t *testing.T) {
	tests := []struct {
		name     string
		item     models.CartItem
		quantity int
		wantErr  error
	}{
		{
			name:     "Success",
			item:     item("m1", 18000, models.CategoryFood),
			quantity: 2,
		},
		{
			name:     "Negative price",
			item:     item("m1", -1, models.CategoryFood),
			quantity: 1,
			wantErr:  cart.ErrInvalidPrice,
		},
		{
			name:     "Empty id",
			item:     item("", 100, models.CategoryFood),
			quantity: 1,
			wantErr:  cart.ErrInvalidItem,
		},
		{
			name:     "Unknown category",
			item:     item("m1", 100, models.Category("dessert")),
			quantity: 1,
			wantErr:  cart.ErrInvalidItem,
		},
		{
			name:     "Zero quantity",
			item:     item("m1", 100, models.CategoryFood),
			quantity: 0,
			wantErr:  cart.ErrInvalidQuantity,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := cart.New()
			err := e.AddItem(tt.item, tt.quantity)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 0, e.Len())
				return
			}
			require.NoError(t, err)
			items := e.Items()
			require.Len(t, items, 1)
			assert.Equal(t, tt.quantity, items[0].Quantity)
		})
	}
}

func TestAddItem_MergesSameId(t *testing.T) {
	e := cart.New()
	require.NoError(t, e.AddItem(item("m1", 18000, models.CategoryFood), 1))
	require.NoError(t, e.AddItem(item("m1", 18000, models.CategoryFood), 2))

	items := e.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestRemoveItem_Absent(t *testing.T) {
	e := cart.New()
	require.NoError(t, e.AddItem(item("m1", 100, models.CategoryFood), 1))

	calls := 0
	e.Subscribe(func(cart.State) { calls++ })
	e.RemoveItem("nope")

	assert.Equal(t, 1, e.Len())
	assert.Equal(t, 0, calls)
}

func TestSetQuantityZeroEqualsRemove(t *testing.T) {
	for _, id := range []string{"m1", "m2", "missing"} {
		t.Run(id, func(t *testing.T) {
			a := cart.New()
			b := cart.New()
			for _, e := range []*cart.Engine{a, b} {
				require.NoError(t, e.AddItem(item("m1", 18000, models.CategoryFood), 2))
				require.NoError(t, e.AddItem(item("m2", 25000, models.CategoryDrink), 1))
			}

			a.SetQuantity(id, 0)
			b.RemoveItem(id)

			assert.Equal(t, b.Items(), a.Items())
		})
	}
}

func TestSubtotalNeverDrifts(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ids := []string{"a", "b", "c", "d"}
	prices := map[string]int64{"a": 1500, "b": 0, "c": 99999, "d": 42}

	e := cart.New()
	for step := 0; step < 500; step++ {
		id := ids[rng.Intn(len(ids))]
		switch rng.Intn(3) {
		case 0:
			require.NoError(t, e.AddItem(item(id, prices[id], models.CategoryFood), rng.Intn(3)+1))
		case 1:
			e.RemoveItem(id)
		case 2:
			e.SetQuantity(id, rng.Intn(5)-1)
		}

		want := decimal.Zero
		for _, it := range e.Items() {
			require.GreaterOrEqual(t, it.Quantity, 1)
			want = want.Add(decimal.NewFromInt(prices[it.Id] * int64(it.Quantity)))
		}
		require.True(t, want.Equal(e.Subtotal()), "step %d: want %s got %s", step, want, e.Subtotal())
	}
}

func TestClearResetsVoucher(t *testing.T) {
	e := cart.New()
	require.NoError(t, e.AddItem(item("m1", 100, models.CategoryFood), 1))
	e.SetVoucher(&models.Voucher{Code: "UNSPROMO", Kind: models.VoucherPercentage, Value: decimal.RequireFromString("0.1")})

	e.Clear()

	assert.Equal(t, 0, e.Len())
	assert.Nil(t, e.Voucher())
	assertDecimal(t, 0, e.Subtotal())
}

func TestSubscribe(t *testing.T) {
	e := cart.New()

	var states []cart.State
	unsubscribe := e.Subscribe(func(s cart.State) { states = append(states, s) })

	require.NoError(t, e.AddItem(item("m1", 100, models.CategoryFood), 1))
	e.SetQuantity("m1", 4)
	unsubscribe()
	e.RemoveItem("m1")

	require.Len(t, states, 2)
	assert.Equal(t, 1, states[0].Items[0].Quantity)
	assert.Equal(t, 4, states[1].Items[0].Quantity)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	e := cart.New()
	require.NoError(t, e.AddItem(item("m1", 18000, models.CategoryFood), 2))
	require.NoError(t, e.AddItem(item("m2", 25000, models.CategoryDrink), 1))

	raw, err := e.Snapshot()
	require.NoError(t, err)

	restored, dropped := cart.Restore(raw)
	assert.Equal(t, 0, dropped)

	want := e.Items()
	got := restored.Items()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Id, got[i].Id)
		assert.Equal(t, want[i].Quantity, got[i].Quantity)
		assert.True(t, want[i].UnitPrice.Equal(got[i].UnitPrice))
	}
}

func TestRestoreDiscardsMalformed(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantIds     []string
		wantDropped int
	}{
		{
			name:        "Empty",
			raw:         "",
			wantDropped: 0,
		},
		{
			name:        "Not an array",
			raw:         `{"id":"m1"}`,
			wantDropped: 1,
		},
		{
			name: "Mixed entries",
			raw: `[
				{"id":"m1","name":"Rice","unit_price":18000,"quantity":2,"category":"food"},
				{"id":"","name":"No id","unit_price":1,"quantity":1,"category":"food"},
				{"id":"m3","name":"Neg","unit_price":-5,"quantity":1,"category":"food"},
				{"id":"m4","name":"Zero","unit_price":5,"quantity":0,"category":"food"},
				{"id":"m5","name":"Cake","unit_price":5,"quantity":1,"category":"dessert"},
				"garbage",
				{"id":"m6","name":"Tea","unit_price":"7000","quantity":1,"category":"drink"}
			]`,
			wantIds:     []string{"m1", "m6"},
			wantDropped: 5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, dropped := cart.Restore([]byte(tt.raw))
			assert.Equal(t, tt.wantDropped, dropped)

			var ids []string
			for _, it := range e.Items() {
				ids = append(ids, it.Id)
			}
			assert.Equal(t, tt.wantIds, ids)
		})
	}
}

func TestSummarize(t *testing.T) {
	percent := &models.Voucher{Code: "UNSPROMO", Kind: models.VoucherPercentage, Value: decimal.RequireFromString("0.1")}
	fixed := &models.Voucher{Code: "FLAT", Kind: models.VoucherFixed, Value: decimal.NewFromInt(15000)}

	deposit := item("booking-1", 50000, models.CategoryReservation)
	deposit.Quantity = 1

	tests := []struct {
		name         string
		items        []models.CartItem
		voucher      *models.Voucher
		pricing      cart.Pricing
		wantSubtotal int64
		wantWaiver   int64
		wantDiscount int64
		wantTotal    int64
	}{
		{
			name: "Percentage voucher",
			items: []models.CartItem{
				{Id: "m1", Name: "a", UnitPrice: decimal.NewFromInt(18000), Quantity: 2, Category: models.CategoryFood},
				{Id: "m2", Name: "b", UnitPrice: decimal.NewFromInt(25000), Quantity: 1, Category: models.CategoryFood},
			},
			voucher:      percent,
			wantSubtotal: 61000,
			wantDiscount: 6100,
			wantTotal:    54900,
		},
		{
			name: "Fixed voucher capped at subtotal",
			items: []models.CartItem{
				{Id: "m1", Name: "a", UnitPrice: decimal.NewFromInt(10000), Quantity: 1, Category: models.CategoryFood},
			},
			voucher:      fixed,
			wantSubtotal: 10000,
			wantDiscount: 10000,
			wantTotal:    0,
		},
		{
			name: "Deposit waived above threshold",
			items: []models.CartItem{
				deposit,
				{Id: "m1", Name: "a", UnitPrice: decimal.NewFromInt(100000), Quantity: 1, Category: models.CategoryFood},
			},
			pricing:      cart.Pricing{DepositWaiverMin: decimal.NewFromInt(100000)},
			wantSubtotal: 150000,
			wantWaiver:   50000,
			wantTotal:    100000,
		},
		{
			name: "Deposit kept below threshold",
			items: []models.CartItem{
				deposit,
				{Id: "m1", Name: "a", UnitPrice: decimal.NewFromInt(99999), Quantity: 1, Category: models.CategoryFood},
			},
			pricing:      cart.Pricing{DepositWaiverMin: decimal.NewFromInt(100000)},
			wantSubtotal: 149999,
			wantTotal:    149999,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := cart.Summarize(tt.items, tt.voucher, tt.pricing)
			assertDecimal(t, tt.wantSubtotal, s.Subtotal)
			assertDecimal(t, tt.wantWaiver, s.DepositWaiver)
			assertDecimal(t, tt.wantDiscount, s.Discount)
			assertDecimal(t, tt.wantTotal, s.Total)
		})
	}
}

func ExampleEngine_Summary() {
	e := cart.New()
	_ = e.AddItem(models.CartItem{Id: "m1", Name: "Nasi goreng", UnitPrice: decimal.NewFromInt(18000), Category: models.CategoryFood}, 2)
	_ = e.AddItem(models.CartItem{Id: "m2", Name: "Es teh", UnitPrice: decimal.NewFromInt(25000), Category: models.CategoryDrink}, 1)
	e.SetVoucher(&models.Voucher{Code: "UNSPROMO", Kind: models.VoucherPercentage, Value: decimal.RequireFromString("0.1")})

	s := e.Summary(cart.Pricing{})
	fmt.Println(s.Subtotal, s.Discount, s.Total)
	// Output: 61000 6100 54900
}
