package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"restoapi/internal/models"

	"github.com/shopspring/decimal"
)

// Everything the backend sends is decoded into the types below and turned
// into models here. The rest of the service never sees raw response shapes.

// flexString accepts both JSON strings and numbers (ids are sent either way).
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("flexString: %s is neither string nor number", b)
	}
	*s = flexString(n.String())
	return nil
}

func firstString(values ...flexString) string {
	for _, v := range values {
		if s := strings.TrimSpace(string(v)); s != "" {
			return s
		}
	}
	return ""
}

// flexBool accepts true/false, 0/1 and their string forms.
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("flexBool: %w", err)
	}
	*f = flexBool(v)
	return nil
}

func boolOr(def bool, values ...*flexBool) bool {
	for _, v := range values {
		if v != nil {
			return bool(*v)
		}
	}
	return def
}

// flexDecimal accepts numbers, numeric strings, "" and null.
type flexDecimal struct {
	decimal.Decimal
	set bool
}

func (d *flexDecimal) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("flexDecimal: %w", err)
	}
	d.Decimal, d.set = v, true
	return nil
}

func decimalOr(values ...flexDecimal) decimal.Decimal {
	for _, v := range values {
		if v.set {
			return v.Decimal
		}
	}
	return decimal.Zero
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// flexTime accepts RFC 3339 and the zone-less layouts the backend uses for
// booking slots, which are read as local time.
type flexTime struct {
	time.Time
}

func (t *flexTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	for _, layout := range timeLayouts {
		if v, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			t.Time = v
			return nil
		}
	}
	return fmt.Errorf("flexTime: unknown layout %q", s)
}

var categoryAliases = map[string]models.Category{
	"food":        models.CategoryFood,
	"foods":       models.CategoryFood,
	"makanan":     models.CategoryFood,
	"drink":       models.CategoryDrink,
	"drinks":      models.CategoryDrink,
	"beverage":    models.CategoryDrink,
	"minuman":     models.CategoryDrink,
	"reservation": models.CategoryReservation,
}

func normalizeCategory(raw string) models.Category {
	if c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return c
	}
	return models.Category(strings.ToLower(strings.TrimSpace(raw)))
}

type userDTO struct {
	Id      flexString `json:"id"`
	AltId   flexString `json:"_id"`
	Name    string     `json:"name"`
	Email   string     `json:"email"`
	Role    string     `json:"role"`
	IsAdmin *flexBool  `json:"is_admin"`
}

func (d userDTO) toModel() models.User {
	role := models.RoleUser
	if strings.EqualFold(d.Role, string(models.RoleAdmin)) || boolOr(false, d.IsAdmin) {
		role = models.RoleAdmin
	}
	return models.User{
		Id:    firstString(d.Id, d.AltId),
		Name:  d.Name,
		Email: d.Email,
		Role:  role,
	}
}

type sessionDTO struct {
	Token       string  `json:"token"`
	AccessToken string  `json:"access_token"`
	User        userDTO `json:"user"`
}

func (d sessionDTO) toModel() models.Session {
	token := d.Token
	if token == "" {
		token = d.AccessToken
	}
	return models.Session{Token: token, User: d.User.toModel()}
}

type menuItemDTO struct {
	Id          flexString  `json:"id"`
	AltId       flexString  `json:"_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       flexDecimal `json:"price"`
	Category    string      `json:"category"`
	Available   *flexBool   `json:"available"`
	IsAvailable *flexBool   `json:"is_available"`
	Image       string      `json:"image"`
	ImageURL    string      `json:"image_url"`
	CreatedAt   flexTime    `json:"created_at"`
}

func (d menuItemDTO) toModel() models.MenuItem {
	image := d.ImageURL
	if image == "" {
		image = d.Image
	}
	return models.MenuItem{
		Id:          firstString(d.Id, d.AltId),
		Name:        d.Name,
		Description: d.Description,
		Price:       decimalOr(d.Price),
		Category:    normalizeCategory(d.Category),
		Available:   boolOr(true, d.Available, d.IsAvailable),
		ImageRef:    image,
		CreatedAt:   d.CreatedAt.Time,
	}
}

type tableDTO struct {
	Id          flexString  `json:"id"`
	AltId       flexString  `json:"_id"`
	Number      flexString  `json:"number"`
	TableNumber flexString  `json:"table_number"`
	Type        string      `json:"type"`
	TableType   string      `json:"table_type"`
	Capacity    int         `json:"capacity"`
	Available   *flexBool   `json:"available"`
	Status      string      `json:"status"`
	Deposit     flexDecimal `json:"deposit"`
	CreatedAt   flexTime    `json:"created_at"`
}

func (d tableDTO) toModel() models.Table {
	available := boolOr(true, d.Available)
	if d.Available == nil && d.Status != "" {
		available = strings.EqualFold(d.Status, "available")
	}
	typ := d.Type
	if typ == "" {
		typ = d.TableType
	}
	return models.Table{
		Id:        firstString(d.Id, d.AltId),
		Number:    firstString(d.Number, d.TableNumber),
		Type:      typ,
		Capacity:  d.Capacity,
		Available: available,
		Deposit:   decimalOr(d.Deposit),
		CreatedAt: d.CreatedAt.Time,
	}
}

type tableTypeDTO struct {
	Id       flexString  `json:"id"`
	AltId    flexString  `json:"_id"`
	Name     string      `json:"name"`
	Capacity int         `json:"capacity"`
	Deposit  flexDecimal `json:"deposit"`
}

func (d tableTypeDTO) toModel() models.TableType {
	return models.TableType{
		Id:       firstString(d.Id, d.AltId),
		Name:     d.Name,
		Capacity: d.Capacity,
		Deposit:  decimalOr(d.Deposit),
	}
}

type bookingDTO struct {
	Id        flexString `json:"id"`
	AltId     flexString `json:"_id"`
	UserId    flexString `json:"user_id"`
	UserName  string     `json:"user_name"`
	User      *userDTO   `json:"user"`
	TableId   flexString `json:"table_id"`
	TableType string     `json:"table_type"`
	StartTime flexTime   `json:"start_time"`
	EndTime   flexTime   `json:"end_time"`
	PartySize int        `json:"party_size"`
	Guests    int        `json:"guests"`
	Note      string     `json:"note"`
	Notes     string     `json:"notes"`
	Status    string     `json:"status"`
	CreatedAt flexTime   `json:"created_at"`
}

func (d bookingDTO) toModel() models.Booking {
	b := models.Booking{
		Id:        firstString(d.Id, d.AltId),
		UserId:    string(d.UserId),
		UserName:  d.UserName,
		TableId:   string(d.TableId),
		TableType: d.TableType,
		StartTime: d.StartTime.Time,
		EndTime:   d.EndTime.Time,
		PartySize: d.PartySize,
		Note:      d.Note,
		Status:    models.BookingStatus(strings.ToLower(d.Status)),
		CreatedAt: d.CreatedAt.Time,
	}
	if b.PartySize == 0 {
		b.PartySize = d.Guests
	}
	if b.Note == "" {
		b.Note = d.Notes
	}
	if d.User != nil {
		u := d.User.toModel()
		if b.UserId == "" {
			b.UserId = u.Id
		}
		if b.UserName == "" {
			b.UserName = u.Name
		}
	}
	if b.Status == "" {
		b.Status = models.BookingPending
	}
	return b
}

type voucherDTO struct {
	Id           flexString   `json:"id"`
	AltId        flexString   `json:"_id"`
	Code         string       `json:"code"`
	Kind         string       `json:"kind"`
	Type         string       `json:"type"`
	DiscountType string       `json:"discount_type"`
	Value        flexDecimal  `json:"value"`
	Discount     flexDecimal  `json:"discount"`
	Name         string       `json:"name"`
	DisplayName  string       `json:"display_name"`
	UserIds      []flexString `json:"user_ids"`
	ExpiresAt    *flexTime    `json:"expires_at"`
	Valid        *flexBool    `json:"valid"`
	Message      string       `json:"message"`
}

func normalizeVoucherKind(raw string) models.VoucherKind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "percentage", "percent", "%":
		return models.VoucherPercentage
	case "fixed", "amount", "nominal":
		return models.VoucherFixed
	}
	return models.VoucherKind(strings.ToLower(raw))
}

func (d voucherDTO) toModel() models.Voucher {
	kind := d.Kind
	for _, k := range []string{d.Type, d.DiscountType} {
		if kind == "" {
			kind = k
		}
	}

	v := models.Voucher{
		Id:          firstString(d.Id, d.AltId),
		Code:        d.Code,
		Kind:        normalizeVoucherKind(kind),
		Value:       decimalOr(d.Value, d.Discount),
		DisplayName: d.DisplayName,
	}
	if v.DisplayName == "" {
		v.DisplayName = d.Name
	}
	// Percentages arrive either as 0.1 or as 10.
	if v.Kind == models.VoucherPercentage && v.Value.GreaterThan(decimal.NewFromInt(1)) {
		v.Value = v.Value.Div(decimal.NewFromInt(100))
	}
	for _, id := range d.UserIds {
		v.UserIds = append(v.UserIds, string(id))
	}
	if d.ExpiresAt != nil && !d.ExpiresAt.IsZero() {
		t := d.ExpiresAt.Time
		v.ExpiresAt = &t
	}
	return v
}

type orderItemDTO struct {
	Id        flexString  `json:"id"`
	MenuId    flexString  `json:"menu_id"`
	Name      string      `json:"name"`
	UnitPrice flexDecimal `json:"unit_price"`
	Price     flexDecimal `json:"price"`
	Quantity  int         `json:"quantity"`
	Qty       int         `json:"qty"`
	Category  string      `json:"category"`
}

func (d orderItemDTO) toModel() models.CartItem {
	qty := d.Quantity
	if qty == 0 {
		qty = d.Qty
	}
	return models.CartItem{
		Id:        firstString(d.MenuId, d.Id),
		Name:      d.Name,
		UnitPrice: decimalOr(d.UnitPrice, d.Price),
		Quantity:  qty,
		Category:  normalizeCategory(d.Category),
	}
}

type orderDTO struct {
	Id           flexString     `json:"id"`
	AltId        flexString     `json:"_id"`
	UserId       flexString     `json:"user_id"`
	Items        []orderItemDTO `json:"items"`
	Subtotal     flexDecimal    `json:"subtotal"`
	Discount     flexDecimal    `json:"discount"`
	Total        flexDecimal    `json:"total"`
	TotalPrice   flexDecimal    `json:"total_price"`
	VoucherCode  string         `json:"voucher_code"`
	Status       string         `json:"status"`
	PaymentProof string         `json:"payment_proof"`
	CreatedAt    flexTime       `json:"created_at"`
}

func (d orderDTO) toModel() models.Order {
	o := models.Order{
		Id:           firstString(d.Id, d.AltId),
		UserId:       string(d.UserId),
		Items:        make([]models.CartItem, 0, len(d.Items)),
		Subtotal:     decimalOr(d.Subtotal),
		Discount:     decimalOr(d.Discount),
		Total:        decimalOr(d.Total, d.TotalPrice),
		VoucherCode:  d.VoucherCode,
		Status:       models.OrderStatus(strings.ToLower(d.Status)),
		PaymentProof: d.PaymentProof,
		CreatedAt:    d.CreatedAt.Time,
	}
	for _, item := range d.Items {
		o.Items = append(o.Items, item.toModel())
	}
	if o.Status == "" {
		o.Status = models.OrderPending
	}
	return o
}

type statsDTO struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Cancelled int `json:"cancelled"`
	Canceled  int `json:"canceled"`
}

func (d statsDTO) toModel() models.BookingStats {
	cancelled := d.Cancelled
	if cancelled == 0 {
		cancelled = d.Canceled
	}
	total := d.Total
	if total == 0 {
		total = d.Pending + d.Confirmed + cancelled
	}
	return models.BookingStats{Total: total, Pending: d.Pending, Confirmed: d.Confirmed, Cancelled: cancelled}
}

// Request bodies.

type bookingRequest struct {
	TableId   string `json:"table_id,omitempty"`
	TableType string `json:"table_type,omitempty"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	PartySize int    `json:"party_size"`
	Note      string `json:"note,omitempty"`
}

func newBookingRequest(b models.Booking) bookingRequest {
	return bookingRequest{
		TableId:   b.TableId,
		TableType: b.TableType,
		StartTime: b.StartTime.Format(time.RFC3339),
		EndTime:   b.EndTime.Format(time.RFC3339),
		PartySize: b.PartySize,
		Note:      b.Note,
	}
}

type OrderRequest struct {
	Items        []models.CartItem `json:"items"`
	VoucherCode  string            `json:"voucher_code,omitempty"`
	Subtotal     decimal.Decimal   `json:"subtotal"`
	Discount     decimal.Decimal   `json:"discount"`
	Total        decimal.Decimal   `json:"total"`
	Reservations []models.Booking  `json:"reservations,omitempty"`
}

// unwrap strips the {"data": ...} envelope when present.
func unwrap(raw []byte) []byte {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err != nil {
		return raw
	}
	if data, ok := env["data"]; ok && len(data) > 0 && string(data) != "null" {
		return data
	}
	return raw
}

// unwrapList also accepts lists nested under items/rows/results.
func unwrapList(raw []byte) []byte {
	raw = unwrap(raw)
	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err != nil {
		return raw
	}
	for _, key := range []string{"items", "rows", "results"} {
		if list, ok := env[key]; ok {
			return list
		}
	}
	return raw
}

// errorMessage digs the human-readable reason out of an error body.
func errorMessage(raw []byte) string {
	var body struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
		Detail  string          `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return strings.TrimSpace(string(raw))
	}
	if body.Message != "" {
		return body.Message
	}
	if len(body.Error) > 0 {
		var s string
		if err := json.Unmarshal(body.Error, &s); err == nil && s != "" {
			return s
		}
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
	}
	return body.Detail
}
