package booking

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"restoapi/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Step string

const (
	StepSelectingTime  Step = "selecting_time"
	StepSelectingTable Step = "selecting_table"
	StepConfirmed      Step = "confirmed"
)

// Variant decides what confirmation produces: a backend booking or a
// deposit line in the cart.
type Variant string

const (
	VariantDirect  Variant = "direct"
	VariantDeposit Variant = "deposit"
)

func (v Variant) Valid() bool {
	return v == VariantDirect || v == VariantDeposit
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	ErrWrongStep          = errors.New("action not allowed at this step")
	ErrSubmissionInFlight = errors.New("booking submission already in progress")
)

// ValidationError lists the fields that blocked a transition.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid: "+strings.Join(e.Invalid, ", "))
	}
	return "booking: " + strings.Join(parts, "; ")
}

type TimeSelection struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Time      string `json:"time" validate:"required,datetime=15:04"`
	PartySize int    `json:"party_size" validate:"omitempty,gte=1,lte=50"`
	Note      string `json:"note" validate:"max=500"`
}

type TableChoice struct {
	TableId   string          `json:"table_id"`
	TableType string          `json:"table_type"`
	Deposit   decimal.Decimal `json:"deposit"`
}

func (c TableChoice) empty() bool {
	return strings.TrimSpace(c.TableId) == "" && strings.TrimSpace(c.TableType) == ""
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

func validateSelection(sel TimeSelection) error {
	err := validate.Struct(sel)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			verr.Missing = append(verr.Missing, fe.Field())
		} else {
			verr.Invalid = append(verr.Invalid, fe.Field())
		}
	}
	return verr
}

type Options struct {
	Variant  Variant
	Duration time.Duration
	// Deposit is charged when the chosen table carries no deposit of its own.
	Deposit  decimal.Decimal
	Location *time.Location
}

// Request is what BeginConfirm hands out for submission. Generation ties the
// eventual result back to the flow state that produced it.
type Request struct {
	Generation uint64
	Variant    Variant
	Booking    models.Booking
	Table      TableChoice
}

// Flow is the SelectingTime -> SelectingTable -> Confirmed booking wizard.
// Nothing reaches the backend before the final transition. Flow is not safe
// for concurrent use; callers serialize access.
type Flow struct {
	opts       Options
	step       Step
	selection  TimeSelection
	start      time.Time
	end        time.Time
	table      *TableChoice
	submitting bool
	generation uint64
	booking    *models.Booking
	deposit    *models.CartItem
	lastError  string
}

func NewFlow(opts Options) *Flow {
	if !opts.Variant.Valid() {
		opts.Variant = VariantDirect
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Flow{opts: opts, step: StepSelectingTime}
}

func (f *Flow) Step() Step { return f.step }

func (f *Flow) Variant() Variant { return f.opts.Variant }

func (f *Flow) Submitting() bool { return f.submitting }

// SelectTime records the date/time form. Validation happens on Next.
func (f *Flow) SelectTime(sel TimeSelection) error {
	if f.step != StepSelectingTime {
		return fmt.Errorf("select time in %s: %w", f.step, ErrWrongStep)
	}
	f.selection = sel
	f.lastError = ""
	return nil
}

// Next moves to table selection once date and time are present and well
// formed. The end time is the start plus the configured duration.
func (f *Flow) Next() error {
	if f.step != StepSelectingTime {
		return fmt.Errorf("next in %s: %w", f.step, ErrWrongStep)
	}
	if err := validateSelection(f.selection); err != nil {
		return err
	}

	start, err := time.ParseInLocation(DateLayout+" "+TimeLayout, f.selection.Date+" "+f.selection.Time, f.opts.Location)
	if err != nil {
		return &ValidationError{Invalid: []string{"time"}}
	}

	f.start = start
	f.end = start.Add(f.opts.Duration)
	f.step = StepSelectingTable
	return nil
}

func (f *Flow) SelectTable(choice TableChoice) error {
	if f.step != StepSelectingTable {
		return fmt.Errorf("select table in %s: %w", f.step, ErrWrongStep)
	}
	if f.submitting {
		return ErrSubmissionInFlight
	}
	if choice.empty() {
		return &ValidationError{Missing: []string{"table"}}
	}
	if choice.Deposit.IsNegative() {
		return &ValidationError{Invalid: []string{"deposit"}}
	}
	f.table = &choice
	f.lastError = ""
	return nil
}

// BeginConfirm starts the final transition. Only one submission may be
// outstanding at a time.
func (f *Flow) BeginConfirm() (Request, error) {
	if f.step != StepSelectingTable {
		return Request{}, fmt.Errorf("confirm in %s: %w", f.step, ErrWrongStep)
	}
	if f.submitting {
		return Request{}, ErrSubmissionInFlight
	}
	if f.table == nil {
		return Request{}, &ValidationError{Missing: []string{"table"}}
	}

	f.submitting = true
	f.generation++

	partySize := f.selection.PartySize
	if partySize == 0 {
		partySize = 1
	}

	return Request{
		Generation: f.generation,
		Variant:    f.opts.Variant,
		Table:      *f.table,
		Booking: models.Booking{
			TableId:   f.table.TableId,
			TableType: f.table.TableType,
			StartTime: f.start,
			EndTime:   f.end,
			PartySize: partySize,
			Note:      f.selection.Note,
			Status:    models.BookingPending,
		},
	}, nil
}

// CompleteConfirm applies the outcome of a submission. Failures return the
// flow to table selection with the backend's message kept verbatim. Results
// for a generation the flow has moved past are dropped and false is returned.
func (f *Flow) CompleteConfirm(generation uint64, booking models.Booking, deposit *models.CartItem, err error) bool {
	if !f.submitting || generation != f.generation {
		return false
	}
	f.submitting = false

	if err != nil {
		f.step = StepSelectingTable
		f.lastError = err.Error()
		return true
	}

	f.step = StepConfirmed
	f.booking = &booking
	f.deposit = deposit
	f.lastError = ""
	return true
}

// Back is always allowed. It abandons any outstanding submission result.
// From Confirmed it starts a fresh flow; the confirmed booking stays with the
// backend.
func (f *Flow) Back() {
	if f.submitting {
		f.submitting = false
		f.generation++
	}
	f.lastError = ""

	switch f.step {
	case StepSelectingTable:
		f.step = StepSelectingTime
	case StepConfirmed:
		f.Reset()
	}
}

func (f *Flow) Reset() {
	gen := f.generation + 1
	*f = Flow{opts: f.opts, step: StepSelectingTime, generation: gen}
}

// DepositItem builds the cart line that stands for a table deposit.
func (f *Flow) DepositItem(req Request) models.CartItem {
	amount := req.Table.Deposit
	if amount.IsZero() {
		amount = f.opts.Deposit
	}

	label := req.Table.TableType
	if label == "" {
		label = "table " + req.Table.TableId
	}

	return models.CartItem{
		Id:        "booking-" + uuid.NewString(),
		Name:      fmt.Sprintf("Reservation %s, %s", label, req.Booking.StartTime.Format(DateLayout+" "+TimeLayout)),
		UnitPrice: amount,
		Quantity:  1,
		Category:  models.CategoryReservation,
		Reservation: &models.ReservationDetails{
			TableId:   req.Booking.TableId,
			TableType: req.Booking.TableType,
			StartTime: req.Booking.StartTime,
			EndTime:   req.Booking.EndTime,
			PartySize: req.Booking.PartySize,
			Note:      req.Booking.Note,
		},
	}
}

// View is the JSON shape of the flow for the UI.
type View struct {
	Step       Step             `json:"step"`
	Variant    Variant          `json:"variant"`
	Selection  TimeSelection    `json:"selection"`
	StartTime  *time.Time       `json:"start_time,omitempty"`
	EndTime    *time.Time       `json:"end_time,omitempty"`
	Table      *TableChoice     `json:"table,omitempty"`
	Submitting bool             `json:"submitting"`
	Booking    *models.Booking  `json:"booking,omitempty"`
	Deposit    *models.CartItem `json:"deposit_item,omitempty"`
	LastError  string           `json:"last_error,omitempty"`
}

func (f *Flow) View() View {
	v := View{
		Step:       f.step,
		Variant:    f.opts.Variant,
		Selection:  f.selection,
		Submitting: f.submitting,
		LastError:  f.lastError,
	}
	if f.step != StepSelectingTime {
		start, end := f.start, f.end
		v.StartTime, v.EndTime = &start, &end
	}
	if f.table != nil {
		t := *f.table
		v.Table = &t
	}
	if f.booking != nil {
		b := *f.booking
		v.Booking = &b
	}
	if f.deposit != nil {
		d := *f.deposit
		v.Deposit = &d
	}
	return v
}
