package coupons

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avmos/SB-AppointmentService/internal/auth"
	"github.com/avmos/SB-AppointmentService/internal/domain"
	couponRepo "github.com/avmos/SB-AppointmentService/internal/infra/storage/coupon"
	"github.com/avmos/SB-AppointmentService/internal/service/coupons/models"
	"github.com/avmos/SB-AppointmentService/pkg/ptr"
)

// ---- fakes ----

type fakeCouponRepo struct {
	coupon       *domain.Coupon
	createErr    error
	totalUsages  int
	clientUsages int
	created      []*domain.Coupon
	updated      []*domain.Coupon
	deactivated  []int64
	nextID       int64
}

func (f *fakeCouponRepo) Create(_ context.Context, c *domain.Coupon) (*domain.Coupon, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	c.ID = f.nextID
	f.created = append(f.created, c)
	return c, nil
}

func (f *fakeCouponRepo) GetByID(_ context.Context, id int64) (*domain.Coupon, error) {
	if f.coupon == nil || f.coupon.ID != id {
		return nil, couponRepo.ErrCouponNotFound
	}
	cp := *f.coupon
	return &cp, nil
}

func (f *fakeCouponRepo) GetByStoreAndCode(_ context.Context, _ int64, code string) (*domain.Coupon, error) {
	if f.coupon == nil || f.coupon.Code != code {
		return nil, couponRepo.ErrCouponNotFound
	}
	return f.coupon, nil
}

func (f *fakeCouponRepo) ListByStore(_ context.Context, _ int64) ([]*domain.Coupon, error) {
	if f.coupon == nil {
		return nil, nil
	}
	return []*domain.Coupon{f.coupon}, nil
}

func (f *fakeCouponRepo) Update(_ context.Context, c *domain.Coupon) error {
	f.updated = append(f.updated, c)
	return nil
}

func (f *fakeCouponRepo) Deactivate(_ context.Context, id int64) error {
	f.deactivated = append(f.deactivated, id)
	return nil
}

func (f *fakeCouponRepo) CountUsages(_ context.Context, _ int64) (int, error) {
	return f.totalUsages, nil
}

func (f *fakeCouponRepo) CountUsagesByClient(_ context.Context, _ int64, _ string) (int, error) {
	return f.clientUsages, nil
}

type fakeStoreRepo struct {
	store *domain.Store
}

func (f *fakeStoreRepo) GetByID(_ context.Context, _ int64) (*domain.Store, error) {
	return f.store, nil
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// ---- fixture ----

var testNow = time.Date(2025, time.June, 10, 15, 0, 0, 0, time.UTC)

type fixture struct {
	svc  *Service
	repo *fakeCouponRepo
}

func newFixture() *fixture {
	f := &fixture{
		repo: &fakeCouponRepo{
			coupon: &domain.Coupon{
				ID:      5,
				StoreID: 1,
				Code:    "SALE10",
				Type:    domain.CouponPercentage,
				Value:   10,
				Active:  true,
			},
		},
	}
	f.svc = NewService(f.repo, &fakeStoreRepo{store: &domain.Store{ID: 1}}, nopLogger{})
	f.svc.timeProvider = &fixedTime{now: testNow}
	return f
}

func ownerCtx() context.Context {
	return auth.WithCaller(context.Background(), &auth.Caller{
		Kind:     auth.CallerSession,
		Role:     auth.RoleOwner,
		StoreIDs: []int64{1},
	})
}

// ---- tests ----

func TestCreate(t *testing.T) {
	t.Run("code is normalized", func(t *testing.T) {
		f := newFixture()

		resp, err := f.svc.Create(ownerCtx(), 1, &models.CreateCouponRequest{
			Code:  "  spring20 ",
			Type:  "percentage",
			Value: 20,
		})
		require.NoError(t, err)
		assert.Equal(t, "SPRING20", resp.Code)
		assert.True(t, resp.Active)
	})

	t.Run("duplicate code", func(t *testing.T) {
		f := newFixture()
		f.repo.createErr = couponRepo.ErrDuplicateCode

		_, err := f.svc.Create(ownerCtx(), 1, &models.CreateCouponRequest{
			Code:  "SALE10",
			Type:  "percentage",
			Value: 20,
		})
		assert.ErrorIs(t, err, ErrDuplicateCode)
	})

	t.Run("invalid value", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Create(ownerCtx(), 1, &models.CreateCouponRequest{
			Code:  "SALE",
			Type:  "percentage",
			Value: 150,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("guest denied", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Create(context.Background(), 1, &models.CreateCouponRequest{
			Code:  "SALE",
			Type:  "percentage",
			Value: 10,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestUpdate(t *testing.T) {
	t.Run("partial update", func(t *testing.T) {
		f := newFixture()

		resp, err := f.svc.Update(ownerCtx(), 5, &models.UpdateCouponRequest{
			Value:  ptr.Ptr[float64](25),
			Active: ptr.Ptr(false),
		})
		require.NoError(t, err)

		assert.Equal(t, float64(25), resp.Value)
		assert.False(t, resp.Active)
		// the code never changes
		assert.Equal(t, "SALE10", resp.Code)
		require.Len(t, f.repo.updated, 1)
	})

	t.Run("update must keep invariants", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Update(ownerCtx(), 5, &models.UpdateCouponRequest{
			Value: ptr.Ptr[float64](150),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Empty(t, f.repo.updated)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Update(ownerCtx(), 99, &models.UpdateCouponRequest{})
		assert.ErrorIs(t, err, ErrCouponNotFound)
	})
}

func TestDeactivate(t *testing.T) {
	f := newFixture()

	err := f.svc.Deactivate(ownerCtx(), 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, f.repo.deactivated)
}

func TestValidate(t *testing.T) {
	validReq := func() *models.ValidateCouponRequest {
		return &models.ValidateCouponRequest{
			Code:        "SALE10",
			Amount:      200,
			ClientEmail: "anna@example.com",
		}
	}

	t.Run("valid coupon returns pricing", func(t *testing.T) {
		f := newFixture()

		// pre-check is public and consumes no usage
		resp, err := f.svc.Validate(context.Background(), 1, validReq())
		require.NoError(t, err)

		assert.True(t, resp.Valid)
		assert.Equal(t, float64(20), resp.Discount)
		assert.Equal(t, float64(180), resp.FinalPrice)
	})

	t.Run("code lookup is case-insensitive", func(t *testing.T) {
		f := newFixture()

		req := validReq()
		req.Code = " sale10 "
		resp, err := f.svc.Validate(context.Background(), 1, req)
		require.NoError(t, err)
		assert.True(t, resp.Valid)
	})

	t.Run("business failures", func(t *testing.T) {
		future := testNow.Add(time.Hour)
		past := testNow.Add(-time.Hour)

		tests := []struct {
			name    string
			setup   func(*fakeCouponRepo)
			wantErr error
		}{
			{"unknown code", func(r *fakeCouponRepo) { r.coupon = nil }, ErrCouponNotFound},
			{"not yet active", func(r *fakeCouponRepo) { r.coupon.StartsAt = &future }, ErrCouponNotYetActive},
			{"expired", func(r *fakeCouponRepo) { r.coupon.EndsAt = &past }, ErrCouponExpired},
			{"inactive", func(r *fakeCouponRepo) { r.coupon.Active = false }, ErrCouponExpired},
			{"below min amount", func(r *fakeCouponRepo) { r.coupon.MinAmount = ptr.Ptr[float64](500) }, ErrMinAmountNotMet},
			{"global limit", func(r *fakeCouponRepo) {
				r.coupon.UsageLimit = ptr.Ptr(2)
				r.totalUsages = 2
			}, ErrUsageLimitReached},
			{"client limit", func(r *fakeCouponRepo) {
				r.coupon.UserUsageLimit = ptr.Ptr(1)
				r.clientUsages = 1
			}, ErrUserUsageLimitReached},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newFixture()
				tt.setup(f.repo)

				_, err := f.svc.Validate(context.Background(), 1, validReq())
				assert.ErrorIs(t, err, tt.wantErr)
			})
		}
	})

	t.Run("client limit skipped without email", func(t *testing.T) {
		f := newFixture()
		f.repo.coupon.UserUsageLimit = ptr.Ptr(1)
		f.repo.clientUsages = 1

		req := validReq()
		req.ClientEmail = ""
		resp, err := f.svc.Validate(context.Background(), 1, req)
		require.NoError(t, err)
		assert.True(t, resp.Valid)
	})

	t.Run("input validation", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Validate(context.Background(), 1, &models.ValidateCouponRequest{Code: "  "})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = f.svc.Validate(context.Background(), 1, &models.ValidateCouponRequest{Code: "SALE10", Amount: -1})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestListByStore_ScopeEnforced(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ListByStore(context.Background(), 1)
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := f.svc.ListByStore(ownerCtx(), 1)
	require.NoError(t, err)
	assert.Len(t, resp.Coupons, 1)
}
