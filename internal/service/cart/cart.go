package cartservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"restoapi/internal/backend"
	"restoapi/internal/cart"
	databaseerrors "restoapi/internal/database"
	"restoapi/internal/models"
	serviceerrors "restoapi/internal/service"
	"restoapi/internal/voucher"
	"restoapi/pkg/lib/logger/sl"
)

const (
	KeyCart = "cart"

	persistTimeout = 5 * time.Second
)

type Storage interface {
	GetItem(ctx context.Context, clientId, key string) ([]byte, error)
	SetItem(ctx context.Context, clientId, key string, value []byte) error
	RemoveItem(ctx context.Context, clientId, key string) error
}

type Menu interface {
	ListMenu(ctx context.Context) ([]models.MenuItem, error)
}

type Orders interface {
	CreateOrder(ctx context.Context, order backend.OrderRequest) (models.Order, error)
	ListMyOrders(ctx context.Context) ([]models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	CancelOrder(ctx context.Context, id string) error
	MarkOrderPaid(ctx context.Context, id string) error
	UploadPaymentProof(ctx context.Context, id string, file models.Upload) (models.Order, error)
}

type VoucherResolver interface {
	Apply(ctx context.Context, holder voucher.Holder, code string) (models.Voucher, error)
}

type Options struct {
	Pricing  cart.Pricing
	PageSize int
}

// clientCart serializes every operation on one client's cart, including the
// checkout round trip.
type clientCart struct {
	mu     sync.Mutex
	engine *cart.Engine
}

type Service struct {
	log      *slog.Logger
	storage  Storage
	menu     Menu
	orders   Orders
	vouchers VoucherResolver
	opts     Options

	mu    sync.Mutex
	carts map[string]*clientCart
}

func New(log *slog.Logger, storage Storage, menu Menu, orders Orders, vouchers VoucherResolver, opts Options) *Service {
	return &Service{
		log:      log,
		storage:  storage,
		menu:     menu,
		orders:   orders,
		vouchers: vouchers,
		opts:     opts,
		carts:    make(map[string]*clientCart),
	}
}

// lock returns the client's cart locked and loaded. The caller must unlock it.
func (s *Service) lock(ctx context.Context, clientId string) (*clientCart, error) {
	s.mu.Lock()
	cc, ok := s.carts[clientId]
	if !ok {
		cc = &clientCart{}
		s.carts[clientId] = cc
	}
	s.mu.Unlock()

	cc.mu.Lock()
	if cc.engine != nil {
		return cc, nil
	}

	engine, err := s.load(ctx, clientId)
	if err != nil {
		cc.mu.Unlock()
		return nil, err
	}
	cc.engine = engine
	return cc, nil
}

// load rehydrates the cart from client storage. Entries that no longer parse
// and menu lines whose item left the menu are dropped.
func (s *Service) load(ctx context.Context, clientId string) (*cart.Engine, error) {
	const op = "service.cart.load"
	log := s.log.With("op", op, "client_id", clientId)

	raw, err := s.storage.GetItem(ctx, clientId, KeyCart)
	if err != nil && !errors.Is(err, databaseerrors.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	engine, dropped := cart.Restore(raw)
	if dropped > 0 {
		log.Warn("discarded malformed cart entries", slog.Int("dropped", dropped))
	}

	removed := s.reconcile(ctx, log, engine)

	engine.Subscribe(func(state cart.State) {
		s.persist(clientId, state)
	})

	if dropped > 0 || removed > 0 {
		s.persist(clientId, engine.State())
	}

	return engine, nil
}

func (s *Service) reconcile(ctx context.Context, log *slog.Logger, engine *cart.Engine) int {
	if engine.Len() == 0 || s.menu == nil {
		return 0
	}

	menu, err := s.menu.ListMenu(ctx)
	if err != nil {
		log.Warn("cannot reconcile cart with menu", sl.Err(err))
		return 0
	}

	known := make(map[string]struct{}, len(menu))
	for _, item := range menu {
		known[item.Id] = struct{}{}
	}

	removed := 0
	for _, item := range engine.Items() {
		if item.Category == models.CategoryReservation {
			continue
		}
		if _, ok := known[item.Id]; !ok {
			engine.RemoveItem(item.Id)
			removed++
		}
	}
	if removed > 0 {
		log.Info("dropped cart lines no longer on the menu", slog.Int("removed", removed))
	}
	return removed
}

func (s *Service) persist(clientId string, state cart.State) {
	const op = "service.cart.persist"
	log := s.log.With("op", op, "client_id", clientId)

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if len(state.Items) == 0 {
		if err := s.storage.RemoveItem(ctx, clientId, KeyCart); err != nil && !errors.Is(err, databaseerrors.ErrNotFound) {
			log.Error("Failed to clear stored cart", sl.Err(err))
		}
		return
	}

	raw, err := json.Marshal(state.Items)
	if err != nil {
		log.Error("Failed to encode cart", sl.Err(err))
		return
	}
	if err := s.storage.SetItem(ctx, clientId, KeyCart, raw); err != nil {
		log.Error("Failed to store cart", sl.Err(err))
	}
}

func (s *Service) summary(engine *cart.Engine) models.CartSummary {
	return engine.Summary(s.opts.Pricing)
}

func (s *Service) View(ctx context.Context, clientId string) (models.CartSummary, error) {
	const op = "service.cart.View"
	log := s.log.With("op", op, "client_id", clientId)

	select {
	case <-ctx.Done():
		err := serviceerrors.Translate(ctx.Err())
		log.Warn("request abandoned", sl.Err(err))
		return models.CartSummary{}, fmt.Errorf("%s: %w", op, err)
	default:
	}

	cc, err := s.lock(ctx, clientId)
	if err != nil {
		err = serviceerrors.Translate(err)
		log.Error("Failed to load cart", sl.Err(err))
		return models.CartSummary{}, fmt.Errorf("%s: %w", op, err)
	}
	defer cc.mu.Unlock()

	return s.summary(cc.engine), nil
}

// AddMenuItem adds quantity of a menu item, priced from the current menu.
func (s *Service) AddMenuItem(ctx context.Context, clientId, menuId string, quantity int) (models.CartSummary, error) {
	const op = "service.cart.AddMenuItem"
	log := s.log.With("op", op, "client_id", clientId)

	select {
	case <-ctx.Done():
		err := serviceerrors.Translate(ctx.Err())
		log.Warn("request abandoned", sl.Err(err))
		return models.CartSummary{}, fmt.Errorf("%s: %w", op, err)
	default:
	}

	menu, err := s.menu.ListMenu(ctx)
	if err != nil {
		err = serviceerrors.Translate(err)
		log.Error("Failed to load menu", sl.Err(err))
		return models.CartSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	var found *models.MenuItem
	for i := range menu {
		if menu[i].Id == menuId {
			found = &menu[i]
			break
		}
	}
	if found == nil {
		log.Warn("menu item not found", slog.String("menu_id", menuId))
		return models.CartSummary{}, fmt.Errorf("%s: %w", op, serviceerrors.ErrNotFound)
	}
	if !found.Available {
		return models.CartSummary{}, fmt.Errorf("%s: %w", op, &serviceerrors.ConflictError{Message: found.Name + " is not available"})
	}

	line := models.CartItem{
		Id:        found.Id,
		Name:      found.Name,
		UnitPrice: found.Price,
		Category:  found.Category,
		ImageRef:  found.ImageRef,
	}
	return s.addLine(ctx, log, op, clientId, line, quantity)
}

// AddLine adds a line the caller built itself, e.g. a reservation deposit.
func (s *Service) AddLine(ctx context.Context, clientId string, line models.CartItem) (models.CartSummary, error) {
	const op = "service.cart.AddLine"
	log := s.log.With("op", op, "client_id", clientId)

	select {
	case <-ctx.Done():
		err := serviceerrors.Translate(ctx.Err())
		log.Warn("request abandoned", sl.Err(err))
		return models.CartSummary{}, fmt.Errorf("%s: %w", op, err)
	default:
	}

	quantity := line.Quantity
	if quantity < 1 {
		quantity = 1
	}
	return s.addLine(ctx, log, op, clientId, line, quantity)
}

func (s *Service) addLine(ctx context.Context, log *slog.Logger, op, clientId string, line models.CartItem, quantity int) (models.CartSummary, error) {
	cc, err := s.lock(ctx, clientId)
	if err != nil {
		err = serviceerrors.Translate(err)
		log.Error("Failed to load cart", sl.Err(err))
		return models.CartSummary{}, fmt.Errorf("%s: %w", op, err)
	}
	defer cc.mu.Unlock()

	if err := cc.engine.AddItem(line, quantity); err != nil {
		err = serviceerrors.Translate(err)
		log.Warn("item rejected", slog.String("item_id", line.Id), sl.Err(err))
		return models.CartSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.summary(cc.engine), nil
}

// SetQuantity of zero or less removes the line. Unknown ids are ignored.
func (s *Service) SetQuantity(ctx context.Context, clientId, itemId string, quantity int) (models.CartSummary, error) {
	const op = "service.cart.SetQuantity"
	return s.mutate(ctx, op, clientId, func(e *cart.Engine) { e.SetQuantity(itemId, quantity) })
}

func (s *Service) RemoveItem(ctx context.Context, clientId, itemId string) (models.CartSummary, error) {
	const op = "service.cart.RemoveItem"
	return s.mutate(ctx, op, clientId, func(e *cart.Engine) { e.RemoveItem(itemId) })
}

func (s *Service) Clear(ctx context.Context, clientId string) (models.CartSummary, error) {
	const op = "service.cart.Clear"
	return s.mutate(ctx, op, clientId, func(e *cart.Engine) { e.Clear() })
}

func (s *Service) RemoveVoucher(ctx context.Context, clientId string) (models.CartSummary, error) {
	const op = "service.cart.RemoveVoucher"
	return s.mutate(ctx, op, clientId, func(e *cart.Engine) { e.SetVoucher(nil) })
}

func (s *Service) mutate(ctx context.Context, op, clientId string, fn func(*cart.Engine)) (models.CartSummary, error) {
	log := s.log.With("op", op, "client_id", clientId)

	select {
	case <-ctx.Done():
		err := serviceerrors.Translate(ctx.Err())
		log.Warn("request abandoned", sl.Err(err))
		return models.CartSummary{}, fmt.Errorf("%s: %w", op, err)
	default:
	}

	cc, err := s.lock(ctx, clientId)
	if err != nil {
		err = serviceerrors.Translate(err)
		log.Error("Failed to load cart", sl.Err(err))
		return models.CartSummary{}, fmt.Errorf("%s: %w", op, err)
	}
	defer cc.mu.Unlock()

	fn(cc.engine)
	return s.summary(cc.engine), nil
}

// ApplyVoucher installs the voucher for code. On any failure the previous
// voucher is gone too, and the summary returned alongside the error shows the
// undiscounted total.
func (s *Service) ApplyVoucher(ctx context.Context, clientId, code string) (models.CartSummary, error) {
	const op = "service.cart.ApplyVoucher"
	log := s.log.With("op", op, "client_id", clientId)

	select {
	case <-ctx.Done():
		err := serviceerrors.Translate(ctx.Err())
		log.Warn("request abandoned", sl.Err(err))
		return models.CartSummary{}, fmt.Errorf("%s: %w", op, err)
	default:
	}

	cc, err := s.lock(ctx, clientId)
	if err != nil {
		err = serviceerrors.Translate(err)
		log.Error("Failed to load cart", sl.Err(err))
		return models.CartSummary{}, fmt.Errorf("%s: %w", op, err)
	}
	defer cc.mu.Unlock()

	if _, err := s.vouchers.Apply(ctx, cc.engine, code); err != nil {
		err = serviceerrors.Translate(err)
		log.Info("voucher not applied", sl.Err(err))
		return s.summary(cc.engine), fmt.Errorf("%s: %w", op, err)
	}

	return s.summary(cc.engine), nil
}

// Checkout submits the cart as an order. The cart is emptied only once the
// backend accepted the order.
func (s *Service) Checkout(ctx context.Context, clientId string) (models.Order, error) {
	const op = "service.cart.Checkout"
	log := s.log.With("op", op, "client_id", clientId)

	select {
	case <-ctx.Done():
		err := serviceerrors.Translate(ctx.Err())
		log.Warn("request abandoned", sl.Err(err))
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	default:
	}

	cc, err := s.lock(ctx, clientId)
	if err != nil {
		err = serviceerrors.Translate(err)
		log.Error("Failed to load cart", sl.Err(err))
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	defer cc.mu.Unlock()

	summary := s.summary(cc.engine)
	if len(summary.Items) == 0 {
		return models.Order{}, fmt.Errorf("%s: %w", op, &serviceerrors.ValidationError{Missing: []string{"items"}})
	}

	order, err := s.orders.CreateOrder(ctx, orderRequest(summary))
	if err != nil {
		err = serviceerrors.Translate(err)
		log.Error("Failed to place order", sl.Err(err))
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	cc.engine.Clear()
	log.Info("order placed", slog.String("order_id", order.Id), slog.String("total", summary.Total.String()))
	return order, nil
}

func orderRequest(summary models.CartSummary) backend.OrderRequest {
	req := backend.OrderRequest{
		Items:    summary.Items,
		Subtotal: summary.Subtotal,
		Discount: summary.Discount.Add(summary.DepositWaiver),
		Total:    summary.Total,
	}
	if summary.Voucher != nil {
		req.VoucherCode = summary.Voucher.Code
	}
	for _, item := range summary.Items {
		if item.Reservation == nil {
			continue
		}
		r := item.Reservation
		req.Reservations = append(req.Reservations, models.Booking{
			TableId:   r.TableId,
			TableType: r.TableType,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			PartySize: r.PartySize,
			Note:      r.Note,
			Status:    models.BookingPending,
		})
	}
	return req
}
