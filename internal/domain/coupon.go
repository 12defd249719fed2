package domain

import (
	"strings"
	"time"
)

// CouponType discriminates how the discount value is interpreted
type CouponType string

const (
	CouponPercentage  CouponType = "percentage"
	CouponFixedAmount CouponType = "fixed_amount"
)

// Coupon represents a discount code scoped to a store
type Coupon struct {
	ID      int64
	StoreID int64

	Code  string // case-normalized upper-case, unique per store
	Type  CouponType
	Value float64

	MinAmount   *float64 // floor on the pre-discount price
	MaxDiscount *float64 // cap, relevant only for percentage coupons

	UsageLimit     *int // global cap
	UserUsageLimit *int // per-client cap

	StartsAt *time.Time
	EndsAt   *time.Time
	Active   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CouponUsage records one consumed application of a coupon.
// Rows exist only as a consequence of a successful booking and are never
// mutated, only counted.
type CouponUsage struct {
	ID            int64
	CouponID      int64
	ClientEmail   string
	AppointmentID int64
	CreatedAt     time.Time
}

// NormalizeCouponCode upper-cases and trims a raw coupon code
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks the coupon invariants
func (c *Coupon) Validate() error {
	if NormalizeCouponCode(c.Code) == "" {
		return ErrCouponCode
	}
	switch c.Type {
	case CouponPercentage:
		if c.Value <= 0 || c.Value > 100 {
			return ErrCouponValue
		}
	case CouponFixedAmount:
		if c.Value <= 0 {
			return ErrCouponValue
		}
	default:
		return ErrCouponType
	}
	if c.StartsAt != nil && c.EndsAt != nil && !c.EndsAt.After(*c.StartsAt) {
		return ErrCouponWindow
	}
	return nil
}

// WindowState describes where an instant falls relative to the coupon window
type WindowState int

const (
	WindowValid WindowState = iota
	WindowNotYetActive
	WindowExpired
)

// WindowAt checks the coupon's window against the instant the coupon is being
// consumed (booking creation time, not the appointment date). An inactive
// coupon counts as expired.
func (c *Coupon) WindowAt(now time.Time) WindowState {
	if !c.Active {
		return WindowExpired
	}
	if c.StartsAt != nil && now.Before(*c.StartsAt) {
		return WindowNotYetActive
	}
	if c.EndsAt != nil && now.After(*c.EndsAt) {
		return WindowExpired
	}
	return WindowValid
}

// DiscountFor computes the discount for a raw price.
// Percentage discounts are clamped to MaxDiscount when set; fixed-amount
// discounts never exceed the raw price, so the final price never goes
// negative.
func (c *Coupon) DiscountFor(rawPrice float64) float64 {
	var discount float64
	switch c.Type {
	case CouponPercentage:
		discount = rawPrice * c.Value / 100
		if c.MaxDiscount != nil && discount > *c.MaxDiscount {
			discount = *c.MaxDiscount
		}
	case CouponFixedAmount:
		discount = c.Value
		if discount > rawPrice {
			discount = rawPrice
		}
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

// FinalPrice applies the discount, floored at zero
func (c *Coupon) FinalPrice(rawPrice float64) float64 {
	final := rawPrice - c.DiscountFor(rawPrice)
	if final < 0 {
		final = 0
	}
	return final
}
