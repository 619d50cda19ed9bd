package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"restoapi/internal/backend"
	"restoapi/internal/booking"
	"restoapi/internal/cart"
	bookinghandler "restoapi/internal/handlers/booking"
	carthandler "restoapi/internal/handlers/cart"
	cataloghandler "restoapi/internal/handlers/catalog"
	sessionhandler "restoapi/internal/handlers/session"
	"restoapi/internal/routes"
	bookingservice "restoapi/internal/service/booking"
	cartservice "restoapi/internal/service/cart"
	catalogservice "restoapi/internal/service/catalog"
	sessionservice "restoapi/internal/service/session"
	"restoapi/internal/voucher"
	"restoapi/pkg/config"

	"github.com/shopspring/decimal"
)

// ClientStorage is the per-client key/value store behind sessions and carts.
type ClientStorage interface {
	GetItem(ctx context.Context, clientId, key string) ([]byte, error)
	SetItem(ctx context.Context, clientId, key string, value []byte) error
	RemoveItem(ctx context.Context, clientId, key string) error
}

type App struct {
	log     *slog.Logger
	cfg     *config.Config
	storage ClientStorage
	api     *backend.Client

	mu     sync.Mutex
	server *http.Server
}

func New(log *slog.Logger, cfg *config.Config, storage ClientStorage, api *backend.Client) *App {
	return &App{
		log:     log,
		cfg:     cfg,
		storage: storage,
		api:     api,
	}
}

func (a *App) MustRun() {
	if err := a.Run(); err != nil {
		panic(err)
	}
}

func (a *App) Run() error {
	const op = "app.Run"

	handler, err := a.Handler()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.mu.Lock()
	a.server = server
	a.mu.Unlock()

	a.log.Info("starting http server", slog.String("addr", server.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Shutdown stops accepting requests and waits for the running ones.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	server := a.server
	a.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

// Handler wires services, handlers and routes into one http.Handler.
func (a *App) Handler() (http.Handler, error) {
	rules, err := voucher.RulesFromConfig(a.cfg.Vouchers)
	if err != nil {
		return nil, err
	}
	var checker voucher.Checker
	if a.cfg.Backend.CheckVouchers {
		checker = a.api
	}
	resolver := voucher.NewResolver(a.log, rules, checker)

	waiverMin, err := decimal.NewFromString(a.cfg.Booking.DepositWaiverMin)
	if err != nil {
		return nil, fmt.Errorf("booking.deposit_waiver_min: %w", err)
	}
	deposit, err := decimal.NewFromString(a.cfg.Booking.Deposit)
	if err != nil {
		return nil, fmt.Errorf("booking.deposit: %w", err)
	}
	variant := booking.Variant(a.cfg.Booking.Variant)
	if !variant.Valid() {
		return nil, fmt.Errorf("booking.variant: unknown variant %q", a.cfg.Booking.Variant)
	}

	sessionService := sessionservice.New(a.log, a.storage, a.api)
	cartService := cartservice.New(a.log, a.storage, a.api, a.api, resolver, cartservice.Options{
		Pricing:  cart.Pricing{DepositWaiverMin: waiverMin},
		PageSize: a.cfg.Catalog.PageSize,
	})
	bookingService := bookingservice.New(a.log, a.api, cartService, bookingservice.Options{
		Variant:  variant,
		Duration: a.cfg.Booking.Duration,
		Deposit:  deposit,
		Location: time.Local,
		PageSize: a.cfg.Catalog.PageSize,
	})
	catalogService := catalogservice.New(a.log, a.api, a.cfg.Catalog.PageSize)

	sessionHandler := sessionhandler.New(a.log, sessionService)
	mux := http.NewServeMux()
	routes.New(
		sessionHandler,
		carthandler.New(a.log, cartService),
		bookinghandler.New(a.log, bookingService),
		cataloghandler.New(a.log, catalogService),
	).Register(mux)

	var handler http.Handler = mux
	handler = sessionHandler.Teardown(handler)
	handler = sessionHandler.Attach(handler)
	handler = a.clientId(handler)
	handler = a.requestId(handler)

	return handler, nil
}
