package stores

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avmos/SB-AppointmentService/internal/auth"
	"github.com/avmos/SB-AppointmentService/internal/domain"
	storeRepo "github.com/avmos/SB-AppointmentService/internal/infra/storage/store"
	"github.com/avmos/SB-AppointmentService/internal/service/stores/models"
	"github.com/avmos/SB-AppointmentService/pkg/types"
)

type fakeStoreRepo struct {
	store *domain.Store

	updatedMinAdvance  int
	updatedBookingDays int
	updatedHours       []domain.WorkingHours
	updateCalls        int
	updateErr          error
}

func (f *fakeStoreRepo) GetByID(_ context.Context, id int64) (*domain.Store, error) {
	if f.store == nil || f.store.ID != id {
		return nil, storeRepo.ErrStoreNotFound
	}
	cp := *f.store
	return &cp, nil
}

func (f *fakeStoreRepo) UpdateCalendarConfig(_ context.Context, _ int64, minAdvanceHours, advanceBookingDays int, hours []domain.WorkingHours) error {
	f.updateCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedMinAdvance = minAdvanceHours
	f.updatedBookingDays = advanceBookingDays
	f.updatedHours = hours
	f.store.MinAdvanceHours = minAdvanceHours
	f.store.AdvanceBookingDays = advanceBookingDays
	f.store.WorkingHours = hours
	return nil
}

type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func mustTime(t *testing.T, s string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

type fixture struct {
	svc       *Service
	storeRepo *fakeStoreRepo
	txManager *fakeTxManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := &fakeStoreRepo{
		store: &domain.Store{
			ID:                 1,
			Name:               "Салон на Арбате",
			Timezone:           "Europe/Moscow",
			MinAdvanceHours:    2,
			AdvanceBookingDays: 30,
			WorkingHours: []domain.WorkingHours{
				{Weekday: 2, OpenTime: mustTime(t, "09:00"), CloseTime: mustTime(t, "18:00"), Active: true},
			},
		},
	}
	tx := &fakeTxManager{}

	return &fixture{
		svc:       NewService(repo, tx, nopLogger{}),
		storeRepo: repo,
		txManager: tx,
	}
}

func ownerCtx(storeIDs ...int64) context.Context {
	return auth.WithCaller(context.Background(), &auth.Caller{
		Kind:     auth.CallerSession,
		UserID:   3,
		Role:     auth.RoleOwner,
		StoreIDs: storeIDs,
	})
}

func validUpdateRequest() *models.UpdateStoreConfigRequest {
	return &models.UpdateStoreConfigRequest{
		MinAdvanceHours:    4,
		AdvanceBookingDays: 60,
		WorkingHours: models.WeeklyHours{
			Monday:  models.DayHours{Open: "10:00", Close: "19:00", Active: true},
			Tuesday: models.DayHours{Open: "10:00", Close: "19:00", Active: true},
		},
	}
}

func TestGetConfig(t *testing.T) {
	t.Run("config is public", func(t *testing.T) {
		f := newFixture(t)

		resp, err := f.svc.GetConfig(context.Background(), 1)
		require.NoError(t, err)

		assert.Equal(t, int64(1), resp.StoreID)
		assert.Equal(t, "Europe/Moscow", resp.Timezone)
		assert.Equal(t, 2, resp.MinAdvanceHours)
		assert.Equal(t, 30, resp.AdvanceBookingDays)
		assert.Equal(t, models.DayHours{Open: "09:00", Close: "18:00", Active: true}, resp.WorkingHours.Tuesday)
		assert.False(t, resp.WorkingHours.Sunday.Active)
	})

	t.Run("unknown store", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.GetConfig(context.Background(), 99)
		assert.ErrorIs(t, err, ErrStoreNotFound)
	})
}

func TestUpdateConfig_Success(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.UpdateConfig(ownerCtx(1), 1, validUpdateRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, f.txManager.calls)
	assert.Equal(t, 4, f.storeRepo.updatedMinAdvance)
	assert.Equal(t, 60, f.storeRepo.updatedBookingDays)
	require.Len(t, f.storeRepo.updatedHours, 7)

	assert.Equal(t, 4, resp.MinAdvanceHours)
	assert.Equal(t, models.DayHours{Open: "10:00", Close: "19:00", Active: true}, resp.WorkingHours.Monday)
	assert.False(t, resp.WorkingHours.Wednesday.Active)
}

func TestUpdateConfig_InactiveDayTimesIgnored(t *testing.T) {
	f := newFixture(t)

	req := validUpdateRequest()
	req.WorkingHours.Sunday = models.DayHours{Open: "bogus", Close: "also bogus", Active: false}

	_, err := f.svc.UpdateConfig(ownerCtx(1), 1, req)
	require.NoError(t, err)
}

func TestUpdateConfig_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *models.UpdateStoreConfigRequest)
	}{
		{"negative min advance", func(req *models.UpdateStoreConfigRequest) {
			req.MinAdvanceHours = -1
		}},
		{"min advance over a week", func(req *models.UpdateStoreConfigRequest) {
			req.MinAdvanceHours = domain.MaxAdvanceHoursLimit + 1
		}},
		{"booking horizon over a year", func(req *models.UpdateStoreConfigRequest) {
			req.AdvanceBookingDays = domain.MaxAdvanceBookingDays + 1
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			req := validUpdateRequest()
			tt.mutate(req)

			_, err := f.svc.UpdateConfig(ownerCtx(1), 1, req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Zero(t, f.txManager.calls)
		})
	}
}

func TestUpdateConfig_WorkingHoursValidation(t *testing.T) {
	tests := []struct {
		name string
		day  models.DayHours
	}{
		{"malformed open time", models.DayHours{Open: "9am", Close: "18:00", Active: true}},
		{"open equals close", models.DayHours{Open: "10:00", Close: "10:00", Active: true}},
		{"open after close", models.DayHours{Open: "18:00", Close: "09:00", Active: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			req := validUpdateRequest()
			req.WorkingHours.Friday = tt.day

			_, err := f.svc.UpdateConfig(ownerCtx(1), 1, req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Zero(t, f.txManager.calls)
		})
	}
}

func TestUpdateConfig_Scope(t *testing.T) {
	t.Run("guest denied", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.UpdateConfig(context.Background(), 1, validUpdateRequest())
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("owner of another store denied", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.UpdateConfig(ownerCtx(2), 1, validUpdateRequest())
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("admin allowed", func(t *testing.T) {
		f := newFixture(t)

		ctx := auth.WithCaller(context.Background(), &auth.Caller{
			Kind: auth.CallerSession,
			Role: auth.RoleAdmin,
		})

		_, err := f.svc.UpdateConfig(ctx, 1, validUpdateRequest())
		assert.NoError(t, err)
	})
}

func TestUpdateConfig_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpdateConfig(ownerCtx(1), 99, validUpdateRequest())
	assert.ErrorIs(t, err, ErrStoreNotFound)
}
