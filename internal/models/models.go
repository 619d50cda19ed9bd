package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money goes over the wire as a JSON number.
	decimal.MarshalJSONWithoutQuotes = true
}

type Category string

const (
	CategoryFood        Category = "food"
	CategoryDrink       Category = "drink"
	CategoryReservation Category = "reservation"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryDrink, CategoryReservation:
		return true
	}
	return false
}

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (s Session) IsAdmin() bool {
	return s.User.Role == RoleAdmin
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ReservationDetails travels with a deposit line so checkout can forward the booking.
type ReservationDetails struct {
	TableId   string    `json:"table_id,omitempty"`
	TableType string    `json:"table_type,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	PartySize int       `json:"party_size"`
	Note      string    `json:"note,omitempty"`
}

type CartItem struct {
	Id          string              `json:"id"`
	Name        string              `json:"name"`
	UnitPrice   decimal.Decimal     `json:"unit_price"`
	Quantity    int                 `json:"quantity"`
	Category    Category            `json:"category"`
	ImageRef    string              `json:"image_ref,omitempty"`
	Reservation *ReservationDetails `json:"reservation,omitempty"`
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type VoucherKind string

const (
	VoucherPercentage VoucherKind = "percentage"
	VoucherFixed      VoucherKind = "fixed"
)

// Voucher.Value is a 0..1 fraction for percentage vouchers and an absolute amount for fixed ones.
type Voucher struct {
	Id          string          `json:"id,omitempty"`
	Code        string          `json:"code" validate:"required"`
	Kind        VoucherKind     `json:"kind" validate:"required,oneof=percentage fixed"`
	Value       decimal.Decimal `json:"value"`
	DisplayName string          `json:"display_name,omitempty"`
	UserIds     []string        `json:"user_ids,omitempty"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
}

type CartSummary struct {
	Items         []CartItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DepositWaiver decimal.Decimal `json:"deposit_waiver"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	Voucher       *Voucher        `json:"voucher,omitempty"`
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

type Booking struct {
	Id        string        `json:"id"`
	UserId    string        `json:"user_id,omitempty"`
	UserName  string        `json:"user_name,omitempty"`
	TableId   string        `json:"table_id"`
	TableType string        `json:"table_type,omitempty"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	PartySize int           `json:"party_size"`
	Note      string        `json:"note,omitempty"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

type BookingStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Cancelled int `json:"cancelled"`
}

type MenuItem struct {
	Id          string          `json:"id"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category" validate:"required,oneof=food drink"`
	Available   bool            `json:"available"`
	ImageRef    string          `json:"image_ref,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type Table struct {
	Id        string          `json:"id"`
	Number    string          `json:"number" validate:"required"`
	Type      string          `json:"type" validate:"required"`
	Capacity  int             `json:"capacity" validate:"gte=1"`
	Available bool            `json:"available"`
	Deposit   decimal.Decimal `json:"deposit"`
	CreatedAt time.Time       `json:"created_at"`
}

type TableType struct {
	Id       string          `json:"id"`
	Name     string          `json:"name" validate:"required"`
	Capacity int             `json:"capacity" validate:"gte=1"`
	Deposit  decimal.Decimal `json:"deposit"`
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
)

type Order struct {
	Id           string          `json:"id"`
	UserId       string          `json:"user_id,omitempty"`
	Items        []CartItem      `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
	VoucherCode  string          `json:"voucher_code,omitempty"`
	Status       OrderStatus     `json:"status"`
	PaymentProof string          `json:"payment_proof,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Upload is a file handed through to the backend untouched.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}
