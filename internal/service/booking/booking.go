package bookingservice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"restoapi/internal/booking"
	"restoapi/internal/models"
	serviceerrors "restoapi/internal/service"
	"restoapi/pkg/lib/logger/sl"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

type Backend interface {
	CreateBooking(ctx context.Context, b models.Booking) (models.Booking, error)
	ListMyBookings(ctx context.Context) ([]models.Booking, error)
	ListBookings(ctx context.Context) ([]models.Booking, error)
	CancelBooking(ctx context.Context, id string) error
	UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus) (models.Booking, error)
	BookingStats(ctx context.Context) (models.BookingStats, error)
	ListTables(ctx context.Context) ([]models.Table, error)
	ListAvailableTables(ctx context.Context, start, end time.Time) ([]models.Table, error)
}

// Cart receives deposit lines in the deposit variant.
type Cart interface {
	AddLine(ctx context.Context, clientId string, line models.CartItem) (models.CartSummary, error)
	RemoveItem(ctx context.Context, clientId, itemId string) (models.CartSummary, error)
}

type Options struct {
	Variant  booking.Variant
	Duration time.Duration
	Deposit  decimal.Decimal
	Location *time.Location
	PageSize int
}

type clientFlow struct {
	mu   sync.Mutex
	flow *booking.Flow
}

type Service struct {
	log     *slog.Logger
	backend Backend
	cart    Cart
	opts    Options

	mu      sync.Mutex
	flows   map[string]*clientFlow
	confirm singleflight.Group
}

func New(log *slog.Logger, backend Backend, cart Cart, opts Options) *Service {
	if opts.Duration <= 0 {
		opts.Duration = 2 * time.Hour
	}
	return &Service{
		log:     log,
		backend: backend,
		cart:    cart,
		opts:    opts,
		flows:   make(map[string]*clientFlow),
	}
}

func (s *Service) newFlow(variant booking.Variant) *booking.Flow {
	if variant == "" {
		variant = s.opts.Variant
	}
	return booking.NewFlow(booking.Options{
		Variant:  variant,
		Duration: s.opts.Duration,
		Deposit:  s.opts.Deposit,
		Location: s.opts.Location,
	})
}

func (s *Service) flowFor(clientId string) *clientFlow {
	s.mu.Lock()
	defer s.mu.Unlock()

	cf, ok := s.flows[clientId]
	if !ok {
		cf = &clientFlow{flow: s.newFlow("")}
		s.flows[clientId] = cf
	}
	return cf
}

// step runs fn against the client's flow under its lock and returns the
// resulting view.
func (s *Service) step(ctx context.Context, op, clientId string, fn func(f *booking.Flow) error) (booking.View, error) {
	log := s.log.With("op", op, "client_id", clientId)

	select {
	case <-ctx.Done():
		err := serviceerrors.Translate(ctx.Err())
		log.Warn("request abandoned", sl.Err(err))
		return booking.View{}, fmt.Errorf("%s: %w", op, err)
	default:
	}

	cf := s.flowFor(clientId)
	cf.mu.Lock()
	defer cf.mu.Unlock()

	if err := fn(cf.flow); err != nil {
		err = serviceerrors.Translate(err)
		log.Debug("booking step refused", sl.Err(err))
		return cf.flow.View(), fmt.Errorf("%s: %w", op, err)
	}
	return cf.flow.View(), nil
}

// Start replaces the client's flow with a fresh one. An empty variant uses
// the configured default.
func (s *Service) Start(ctx context.Context, clientId string, variant booking.Variant) (booking.View, error) {
	const op = "service.booking.Start"

	if variant != "" && !variant.Valid() {
		return booking.View{}, fmt.Errorf("%s: %w", op, &serviceerrors.ValidationError{Invalid: []string{"variant"}})
	}

	return s.step(ctx, op, clientId, func(f *booking.Flow) error {
		// A submission still running against the old flow is dropped
		// when it completes.
		s.flowFor(clientId).flow = s.newFlow(variant)
		return nil
	})
}

func (s *Service) State(ctx context.Context, clientId string) (booking.View, error) {
	const op = "service.booking.State"
	return s.step(ctx, op, clientId, func(*booking.Flow) error { return nil })
}

func (s *Service) SelectTime(ctx context.Context, clientId string, sel booking.TimeSelection) (booking.View, error) {
	const op = "service.booking.SelectTime"
	return s.step(ctx, op, clientId, func(f *booking.Flow) error { return f.SelectTime(sel) })
}

func (s *Service) Next(ctx context.Context, clientId string) (booking.View, error) {
	const op = "service.booking.Next"
	return s.step(ctx, op, clientId, func(f *booking.Flow) error { return f.Next() })
}

func (s *Service) Back(ctx context.Context, clientId string) (booking.View, error) {
	const op = "service.booking.Back"
	return s.step(ctx, op, clientId, func(f *booking.Flow) error {
		f.Back()
		return nil
	})
}

// SelectTable picks a table. When the table is known to the backend its type
// and deposit are taken from there.
func (s *Service) SelectTable(ctx context.Context, clientId string, choice booking.TableChoice) (booking.View, error) {
	const op = "service.booking.SelectTable"
	log := s.log.With("op", op, "client_id", clientId)

	if choice.TableId != "" {
		tables, err := s.backend.ListTables(ctx)
		if err != nil {
			err = serviceerrors.Translate(err)
			log.Error("Failed to load tables", sl.Err(err))
			return booking.View{}, fmt.Errorf("%s: %w", op, err)
		}

		found := false
		for _, t := range tables {
			if t.Id != choice.TableId {
				continue
			}
			found = true
			if choice.TableType == "" {
				choice.TableType = t.Type
			}
			if choice.Deposit.IsZero() {
				choice.Deposit = t.Deposit
			}
		}
		if !found {
			return booking.View{}, fmt.Errorf("%s: %w", op, &serviceerrors.ValidationError{Invalid: []string{"table_id"}})
		}
	}

	return s.step(ctx, op, clientId, func(f *booking.Flow) error { return f.SelectTable(choice) })
}

// Confirm submits the booking. Concurrent confirmations from one client share
// a single submission. The submission outlives the HTTP request; its result
// is applied only if the flow has not moved on in the meantime.
func (s *Service) Confirm(ctx context.Context, clientId string) (booking.View, error) {
	const op = "service.booking.Confirm"
	log := s.log.With("op", op, "client_id", clientId)

	select {
	case <-ctx.Done():
		err := serviceerrors.Translate(ctx.Err())
		log.Warn("request abandoned", sl.Err(err))
		return booking.View{}, fmt.Errorf("%s: %w", op, err)
	default:
	}

	ch := s.confirm.DoChan(clientId, func() (any, error) {
		return s.submit(context.WithoutCancel(ctx), log, clientId)
	})

	select {
	case <-ctx.Done():
		err := serviceerrors.Translate(ctx.Err())
		log.Warn("client left before booking completed", sl.Err(err))
		return booking.View{}, fmt.Errorf("%s: %w", op, err)
	case res := <-ch:
		view, _ := res.Val.(booking.View)
		if res.Err != nil {
			return view, fmt.Errorf("%s: %w", op, res.Err)
		}
		return view, nil
	}
}

func (s *Service) submit(ctx context.Context, log *slog.Logger, clientId string) (booking.View, error) {
	cf := s.flowFor(clientId)

	cf.mu.Lock()
	flow := cf.flow
	req, err := flow.BeginConfirm()
	view := flow.View()
	cf.mu.Unlock()
	if err != nil {
		return view, serviceerrors.Translate(err)
	}

	var (
		created models.Booking
		deposit *models.CartItem
	)
	switch req.Variant {
	case booking.VariantDeposit:
		item := flow.DepositItem(req)
		_, err = s.cart.AddLine(ctx, clientId, item)
		created, deposit = req.Booking, &item
	default:
		created, err = s.backend.CreateBooking(ctx, req.Booking)
	}
	err = serviceerrors.Translate(err)

	cf.mu.Lock()
	current := cf.flow == flow && flow.CompleteConfirm(req.Generation, created, deposit, err)
	view = cf.flow.View()
	cf.mu.Unlock()

	if !current {
		log.Info("discarded result of abandoned booking", slog.Uint64("generation", req.Generation))
		if deposit != nil && err == nil {
			s.dropDeposit(ctx, log, clientId, deposit.Id)
		}
		return view, nil
	}

	if err != nil {
		log.Warn("booking rejected", sl.Err(err))
		return view, err
	}

	log.Info("booking confirmed", slog.String("variant", string(req.Variant)), slog.String("booking_id", created.Id))
	return view, nil
}

// dropDeposit takes back a deposit line whose booking the client walked away
// from while it was being added.
func (s *Service) dropDeposit(ctx context.Context, log *slog.Logger, clientId, itemId string) {
	if _, err := s.cart.RemoveItem(ctx, clientId, itemId); err != nil {
		log.Error("Failed to remove deposit of abandoned booking", slog.String("item_id", itemId), sl.Err(serviceerrors.Translate(err)))
	}
}
