package routes

import (
	"net/http"

	bookinghandler "restoapi/internal/handlers/booking"
	carthandler "restoapi/internal/handlers/cart"
	cataloghandler "restoapi/internal/handlers/catalog"
	sessionhandler "restoapi/internal/handlers/session"
	"restoapi/pkg/lib/urlparser"
)

type Routes struct {
	session *sessionhandler.Handler
	cart    *carthandler.Handler
	booking *bookinghandler.Handler
	catalog *cataloghandler.Handler
}

func New(
	session *sessionhandler.Handler,
	cart *carthandler.Handler,
	booking *bookinghandler.Handler,
	catalog *cataloghandler.Handler,
) *Routes {
	return &Routes{
		session: session,
		cart:    cart,
		booking: booking,
		catalog: catalog,
	}
}

func (r *Routes) Register(mux *http.ServeMux) {
	mux.HandleFunc("/", r.pathParser)
}

func (r *Routes) pathParser(ww http.ResponseWriter, req *http.Request) {
	params, err := urlparser.ParsePath(req.URL.EscapedPath())
	if err != nil {
		http.NotFound(ww, req)
		return
	}

	var ids []string
	on := func(method, pattern string) bool {
		if req.Method != method {
			return false
		}
		var ok bool
		ids, ok = params.Match(pattern)
		return ok
	}

	user := r.session.RequireUser
	admin := r.session.RequireAdmin

	switch {
	// session
	case on(http.MethodPost, "session/login"):
		r.session.Login(ww, req)
	case on(http.MethodPost, "session/logout"):
		r.session.Logout(ww, req)
	case on(http.MethodGet, "session"):
		r.session.Current(ww, req)

	// cart
	case on(http.MethodGet, "cart"):
		r.cart.View(ww, req)
	case on(http.MethodDelete, "cart"):
		r.cart.Clear(ww, req)
	case on(http.MethodPost, "cart/items"):
		r.cart.AddItem(ww, req)
	case on(http.MethodPut, "cart/items/*"):
		r.cart.SetQuantity(ww, req, ids[0])
	case on(http.MethodDelete, "cart/items/*"):
		r.cart.RemoveItem(ww, req, ids[0])
	case on(http.MethodPost, "cart/voucher"):
		r.cart.ApplyVoucher(ww, req)
	case on(http.MethodDelete, "cart/voucher"):
		r.cart.RemoveVoucher(ww, req)
	case on(http.MethodPost, "cart/checkout"):
		user(r.cart.Checkout)(ww, req)

	// orders
	case on(http.MethodGet, "orders"):
		user(r.cart.ListMyOrders)(ww, req)
	case on(http.MethodPost, "orders/*/cancel"):
		id := ids[0]
		user(func(w http.ResponseWriter, req *http.Request) { r.cart.CancelOrder(w, req, id) })(ww, req)
	case on(http.MethodPost, "orders/*/payment-proof"):
		id := ids[0]
		user(func(w http.ResponseWriter, req *http.Request) { r.cart.UploadPaymentProof(w, req, id) })(ww, req)

	// booking flow
	case on(http.MethodGet, "booking"):
		r.booking.State(ww, req)
	case on(http.MethodPost, "booking/start"):
		r.booking.Start(ww, req)
	case on(http.MethodPost, "booking/time"):
		r.booking.SelectTime(ww, req)
	case on(http.MethodPost, "booking/next"):
		r.booking.Next(ww, req)
	case on(http.MethodPost, "booking/table"):
		r.booking.SelectTable(ww, req)
	case on(http.MethodPost, "booking/confirm"):
		user(r.booking.Confirm)(ww, req)
	case on(http.MethodPost, "booking/back"):
		r.booking.Back(ww, req)
	case on(http.MethodGet, "bookings"):
		user(r.booking.ListMine)(ww, req)
	case on(http.MethodPost, "bookings/*/cancel"):
		id := ids[0]
		user(func(w http.ResponseWriter, req *http.Request) { r.booking.Cancel(w, req, id) })(ww, req)

	// public catalogue
	case on(http.MethodGet, "menu"):
		r.catalog.ListMenu(ww, req)
	case on(http.MethodGet, "tables"):
		r.booking.ListTables(ww, req)
	case on(http.MethodGet, "tables/available"):
		r.booking.ListAvailableTables(ww, req)

	default:
		if len(params.Segments) > 0 && params.Segments[0] == "admin" {
			admin(r.adminParser(params))(ww, req)
			return
		}
		http.NotFound(ww, req)
	}
}

// adminParser dispatches /admin/... once the admin check has passed. Unknown
// admin paths answer 404 only to admins.
func (r *Routes) adminParser(params urlparser.PathParams) http.HandlerFunc {
	return func(ww http.ResponseWriter, req *http.Request) {
		var ids []string
		on := func(method, pattern string) bool {
			if req.Method != method {
				return false
			}
			var ok bool
			ids, ok = params.Match("admin/" + pattern)
			return ok
		}

		switch {
		// menu
		case on(http.MethodPost, "menu"):
			r.catalog.CreateMenuItem(ww, req)
		case on(http.MethodPut, "menu/*"):
			r.catalog.UpdateMenuItem(ww, req, ids[0])
		case on(http.MethodDelete, "menu/*"):
			r.catalog.DeleteMenuItem(ww, req, ids[0])
		case on(http.MethodPost, "menu/*/image"):
			r.catalog.UploadMenuImage(ww, req, ids[0])
		case on(http.MethodDelete, "menu/*/image"):
			r.catalog.DeleteMenuImage(ww, req, ids[0])

		// tables
		case on(http.MethodGet, "tables"):
			r.booking.ListTables(ww, req)
		case on(http.MethodPost, "tables"):
			r.catalog.CreateTable(ww, req)
		case on(http.MethodPut, "tables/*"):
			r.catalog.UpdateTable(ww, req, ids[0])
		case on(http.MethodDelete, "tables/*"):
			r.catalog.DeleteTable(ww, req, ids[0])
		case on(http.MethodPost, "table-types"):
			r.catalog.CreateTableType(ww, req)

		// bookings
		case on(http.MethodGet, "bookings"):
			r.booking.ListAll(ww, req)
		case on(http.MethodGet, "bookings/stats"):
			r.booking.Stats(ww, req)
		case on(http.MethodPatch, "bookings/*/status"):
			r.booking.UpdateStatus(ww, req, ids[0])

		// orders
		case on(http.MethodGet, "orders"):
			r.cart.ListAllOrders(ww, req)
		case on(http.MethodPost, "orders/*/paid"):
			r.cart.MarkOrderPaid(ww, req, ids[0])

		// vouchers
		case on(http.MethodGet, "vouchers"):
			r.catalog.ListVouchers(ww, req)
		case on(http.MethodPost, "vouchers"):
			r.catalog.CreateVoucher(ww, req)
		case on(http.MethodGet, "vouchers/generate-code"):
			r.catalog.GenerateVoucherCode(ww, req)
		case on(http.MethodGet, "vouchers/users"):
			r.catalog.SearchUsers(ww, req)
		case on(http.MethodGet, "vouchers/*"):
			r.catalog.GetVoucher(ww, req, ids[0])
		case on(http.MethodPut, "vouchers/*"):
			r.catalog.UpdateVoucher(ww, req, ids[0])
		case on(http.MethodDelete, "vouchers/*"):
			r.catalog.DeleteVoucher(ww, req, ids[0])

		default:
			http.NotFound(ww, req)
		}
	}
}
