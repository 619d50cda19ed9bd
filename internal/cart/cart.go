// Package cart holds the client-side shopping cart: line items, the applied
// voucher and the pricing estimate shown before checkout. Totals computed here
// are a presentation estimate; the backend prices the order authoritatively.
package cart

import (
	"encoding/json"
	"errors"
	"sync"

	"restoapi/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidItem     = errors.New("cart item must have an id, a name and a known category")
	ErrInvalidPrice    = errors.New("unit price must be a non-negative number")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// State is an immutable copy of the cart handed to subscribers.
type State struct {
	Items   []models.CartItem
	Voucher *models.Voucher
}

type Engine struct {
	mu          sync.Mutex
	items       []models.CartItem
	voucher     *models.Voucher
	subscribers map[int]func(State)
	nextSub     int
}

func New() *Engine {
	return &Engine{
		items:       make([]models.CartItem, 0),
		subscribers: make(map[int]func(State)),
	}
}

// Restore rebuilds a cart from a stored snapshot. Entries that fail to decode
// or violate the item invariants are dropped one by one; the number of dropped
// entries is returned. A snapshot that is not a JSON array counts as one.
func Restore(raw []byte) (*Engine, int) {
	e := New()
	if len(raw) == 0 {
		return e, 0
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return e, 1
	}

	dropped := 0
	for _, entry := range entries {
		var item models.CartItem
		if err := json.Unmarshal(entry, &item); err != nil {
			dropped++
			continue
		}
		if validate(item) != nil || item.Quantity < 1 {
			dropped++
			continue
		}
		e.add(item, item.Quantity)
	}

	return e, dropped
}

func validate(item models.CartItem) error {
	if item.Id == "" || item.Name == "" || !item.Category.Valid() {
		return ErrInvalidItem
	}
	if item.UnitPrice.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

// AddItem increments the quantity of an existing line with the same id or
// appends a new one. Invalid items leave the cart untouched.
func (e *Engine) AddItem(item models.CartItem, quantity int) error {
	if err := validate(item); err != nil {
		return err
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	e.mu.Lock()
	e.add(item, quantity)
	state := e.stateLocked()
	e.mu.Unlock()

	e.publish(state)
	return nil
}

func (e *Engine) add(item models.CartItem, quantity int) {
	for i := range e.items {
		if e.items[i].Id == item.Id {
			e.items[i].Quantity += quantity
			return
		}
	}
	item.Quantity = quantity
	e.items = append(e.items, item)
}

// RemoveItem is a no-op when the id is absent.
func (e *Engine) RemoveItem(id string) {
	e.mu.Lock()
	if !e.removeLocked(id) {
		e.mu.Unlock()
		return
	}
	state := e.stateLocked()
	e.mu.Unlock()

	e.publish(state)
}

func (e *Engine) removeLocked(id string) bool {
	for i := range e.items {
		if e.items[i].Id == id {
			e.items = append(e.items[:i], e.items[i+1:]...)
			return true
		}
	}
	return false
}

// SetQuantity with qty <= 0 removes the line.
func (e *Engine) SetQuantity(id string, qty int) {
	if qty <= 0 {
		e.RemoveItem(id)
		return
	}

	e.mu.Lock()
	found := false
	for i := range e.items {
		if e.items[i].Id == id {
			e.items[i].Quantity = qty
			found = true
			break
		}
	}
	if !found {
		e.mu.Unlock()
		return
	}
	state := e.stateLocked()
	e.mu.Unlock()

	e.publish(state)
}

// Clear empties the cart and drops the applied voucher.
func (e *Engine) Clear() {
	e.mu.Lock()
	e.items = make([]models.CartItem, 0)
	e.voucher = nil
	state := e.stateLocked()
	e.mu.Unlock()

	e.publish(state)
}

func (e *Engine) SetVoucher(v *models.Voucher) {
	e.mu.Lock()
	if v != nil {
		cp := *v
		v = &cp
	}
	e.voucher = v
	state := e.stateLocked()
	e.mu.Unlock()

	e.publish(state)
}

func (e *Engine) Voucher() *models.Voucher {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.voucher == nil {
		return nil
	}
	cp := *e.voucher
	return &cp
}

func (e *Engine) Subtotal() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()

	return subtotal(e.items)
}

func subtotal(items []models.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

func (e *Engine) Items() []models.CartItem {
	e.mu.Lock()
	defer e.mu.Unlock()

	return copyItems(e.items)
}

func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.items)
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.stateLocked()
}

// Snapshot encodes the item list in the format Restore reads.
func (e *Engine) Snapshot() ([]byte, error) {
	return json.Marshal(e.Items())
}

// Subscribe registers fn to receive the state after every mutation. The
// returned func removes the subscription.
func (e *Engine) Subscribe(fn func(State)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextSub
	e.nextSub++
	e.subscribers[id] = fn

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subscribers, id)
	}
}

func (e *Engine) stateLocked() State {
	var v *models.Voucher
	if e.voucher != nil {
		cp := *e.voucher
		v = &cp
	}
	return State{Items: copyItems(e.items), Voucher: v}
}

func (e *Engine) publish(state State) {
	e.mu.Lock()
	subs := make([]func(State), 0, len(e.subscribers))
	for _, fn := range e.subscribers {
		subs = append(subs, fn)
	}
	e.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}

func copyItems(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out
}
