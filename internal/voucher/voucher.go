package voucher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"restoapi/internal/models"
	"restoapi/pkg/config"
	"restoapi/pkg/lib/logger/sl"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidVoucher = errors.New("voucher code is not valid")
	ErrEmptyCode      = errors.New("voucher code is required")
)

// Checker asks the backend whether a code is valid. Implementations return an
// error wrapping ErrInvalidVoucher when the backend rejects the code.
type Checker interface {
	CheckVoucher(ctx context.Context, code string) (models.Voucher, error)
}

// Holder receives the active voucher. The cart engine implements it.
type Holder interface {
	SetVoucher(v *models.Voucher)
}

type Resolver struct {
	log     *slog.Logger
	rules   map[string]models.Voucher
	checker Checker
}

// NewResolver builds a resolver over a fixed rule set. checker may be nil, in
// which case only the fixed rules are consulted.
func NewResolver(log *slog.Logger, rules []models.Voucher, checker Checker) *Resolver {
	byCode := make(map[string]models.Voucher, len(rules))
	for _, rule := range rules {
		rule.Code = Normalize(rule.Code)
		byCode[rule.Code] = rule
	}

	return &Resolver{
		log:     log,
		rules:   byCode,
		checker: checker,
	}
}

// Normalize makes code matching case-insensitive.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Resolve finds the voucher for code without touching any cart.
func (r *Resolver) Resolve(ctx context.Context, code string) (models.Voucher, error) {
	const op = "voucher.Resolve"
	log := r.log.With("op", op)

	code = Normalize(code)
	if code == "" {
		return models.Voucher{}, fmt.Errorf("%s: %w", op, ErrEmptyCode)
	}

	if v, ok := r.rules[code]; ok {
		return v, nil
	}

	if r.checker == nil {
		log.Debug("unknown voucher code", slog.String("code", code))
		return models.Voucher{}, fmt.Errorf("%s: %w", op, ErrInvalidVoucher)
	}

	v, err := r.checker.CheckVoucher(ctx, code)
	if err != nil {
		log.Warn("voucher check failed", slog.String("code", code), sl.Err(err))
		return models.Voucher{}, fmt.Errorf("%s: %w", op, err)
	}
	v.Code = Normalize(v.Code)
	if v.Code == "" {
		v.Code = code
	}
	if err := Validate(v); err != nil {
		log.Warn("backend returned unusable voucher", slog.String("code", code), sl.Err(err))
		return models.Voucher{}, fmt.Errorf("%s: %w", op, err)
	}

	return v, nil
}

// Apply resolves code and installs the voucher on holder. Any failure clears
// the holder's voucher so a previous discount never outlives a bad code.
func (r *Resolver) Apply(ctx context.Context, holder Holder, code string) (models.Voucher, error) {
	v, err := r.Resolve(ctx, code)
	if err != nil {
		holder.SetVoucher(nil)
		return models.Voucher{}, err
	}

	holder.SetVoucher(&v)
	return v, nil
}

// Validate checks the value range for the voucher kind.
func Validate(v models.Voucher) error {
	switch v.Kind {
	case models.VoucherPercentage:
		if v.Value.IsNegative() || v.Value.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: percentage must be between 0 and 1", ErrInvalidVoucher)
		}
	case models.VoucherFixed:
		if v.Value.IsNegative() {
			return fmt.Errorf("%w: fixed amount cannot be negative", ErrInvalidVoucher)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidVoucher, v.Kind)
	}
	return nil
}

// DiscountAmount is the discount v grants on subtotal, never more than subtotal
// and never negative. A nil voucher grants nothing.
func DiscountAmount(v *models.Voucher, subtotal decimal.Decimal) decimal.Decimal {
	if v == nil || !subtotal.IsPositive() {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch v.Kind {
	case models.VoucherPercentage:
		discount = subtotal.Mul(v.Value).Round(2)
	case models.VoucherFixed:
		discount = decimal.Min(v.Value, subtotal)
	default:
		return decimal.Zero
	}

	if discount.IsNegative() {
		return decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		return subtotal
	}
	return discount
}

// RulesFromConfig converts the configured voucher list into vouchers.
func RulesFromConfig(rules []config.VoucherRule) ([]models.Voucher, error) {
	out := make([]models.Voucher, 0, len(rules))
	for _, rule := range rules {
		value, err := decimal.NewFromString(rule.Value)
		if err != nil {
			return nil, fmt.Errorf("voucher %q: bad value %q: %w", rule.Code, rule.Value, err)
		}
		v := models.Voucher{
			Code:        Normalize(rule.Code),
			Kind:        models.VoucherKind(rule.Kind),
			Value:       value,
			DisplayName: rule.DisplayName,
		}
		if v.Code == "" {
			return nil, fmt.Errorf("voucher rule without code")
		}
		if err := Validate(v); err != nil {
			return nil, fmt.Errorf("voucher %q: %w", rule.Code, err)
		}
		out = append(out, v)
	}
	return out, nil
}
