package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/avmos/SB-AppointmentService/pkg/ptr"
)

func TestNormalizeCouponCode(t *testing.T) {
	assert.Equal(t, "SUMMER10", NormalizeCouponCode("  summer10 "))
	assert.Equal(t, "SALE-20", NormalizeCouponCode("Sale-20"))
	assert.Equal(t, "", NormalizeCouponCode("   "))
}

func TestCoupon_Validate(t *testing.T) {
	base := func() *Coupon {
		return &Coupon{Code: "SALE", Type: CouponPercentage, Value: 10}
	}

	t.Run("valid percentage", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("empty code", func(t *testing.T) {
		c := base()
		c.Code = "  "
		assert.ErrorIs(t, c.Validate(), ErrCouponCode)
	})

	t.Run("percentage over 100", func(t *testing.T) {
		c := base()
		c.Value = 150
		assert.ErrorIs(t, c.Validate(), ErrCouponValue)
	})

	t.Run("zero value", func(t *testing.T) {
		c := base()
		c.Type = CouponFixedAmount
		c.Value = 0
		assert.ErrorIs(t, c.Validate(), ErrCouponValue)
	})

	t.Run("unknown type", func(t *testing.T) {
		c := base()
		c.Type = "bogo"
		assert.ErrorIs(t, c.Validate(), ErrCouponType)
	})

	t.Run("window ends before it starts", func(t *testing.T) {
		c := base()
		start := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
		end := start.Add(-time.Hour)
		c.StartsAt = &start
		c.EndsAt = &end
		assert.ErrorIs(t, c.Validate(), ErrCouponWindow)
	})
}

func TestCoupon_WindowAt(t *testing.T) {
	start := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.June, 30, 23, 59, 59, 0, time.UTC)

	c := &Coupon{Active: true, StartsAt: &start, EndsAt: &end}

	assert.Equal(t, WindowNotYetActive, c.WindowAt(start.Add(-time.Minute)))
	assert.Equal(t, WindowValid, c.WindowAt(start))
	assert.Equal(t, WindowValid, c.WindowAt(start.AddDate(0, 0, 15)))
	assert.Equal(t, WindowValid, c.WindowAt(end))
	assert.Equal(t, WindowExpired, c.WindowAt(end.Add(time.Minute)))

	// deactivated coupon reads as expired regardless of window
	c.Active = false
	assert.Equal(t, WindowExpired, c.WindowAt(start.AddDate(0, 0, 15)))

	// open-ended window
	open := &Coupon{Active: true}
	assert.Equal(t, WindowValid, open.WindowAt(time.Now()))
}

func TestCoupon_DiscountFor(t *testing.T) {
	tests := []struct {
		name     string
		coupon   Coupon
		rawPrice float64
		want     float64
	}{
		{
			name:     "percentage",
			coupon:   Coupon{Type: CouponPercentage, Value: 10},
			rawPrice: 200,
			want:     20,
		},
		{
			name:     "percentage clamped to max discount",
			coupon:   Coupon{Type: CouponPercentage, Value: 50, MaxDiscount: ptr.Ptr[float64](30)},
			rawPrice: 200,
			want:     30,
		},
		{
			name:     "percentage under max discount untouched",
			coupon:   Coupon{Type: CouponPercentage, Value: 10, MaxDiscount: ptr.Ptr[float64](30)},
			rawPrice: 200,
			want:     20,
		},
		{
			name:     "fixed amount",
			coupon:   Coupon{Type: CouponFixedAmount, Value: 50},
			rawPrice: 200,
			want:     50,
		},
		{
			name:     "fixed amount capped at raw price",
			coupon:   Coupon{Type: CouponFixedAmount, Value: 500},
			rawPrice: 200,
			want:     200,
		},
		{
			name:     "zero price",
			coupon:   Coupon{Type: CouponPercentage, Value: 25},
			rawPrice: 0,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.coupon.DiscountFor(tt.rawPrice), 1e-9)
		})
	}
}

func TestCoupon_FinalPriceNeverNegative(t *testing.T) {
	c := &Coupon{Type: CouponFixedAmount, Value: 1000}
	assert.Equal(t, float64(0), c.FinalPrice(200))

	p := &Coupon{Type: CouponPercentage, Value: 100}
	assert.Equal(t, float64(0), p.FinalPrice(200))
}
