package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avmos/SB-AppointmentService/internal/domain"
	serviceRepo "github.com/avmos/SB-AppointmentService/internal/infra/storage/service"
)

// ---- fakes ----

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
}

func (f *fakeAppointmentRepo) ListOverlapping(_ context.Context, _ int64, _, _ time.Time, _ *int64) ([]*domain.Appointment, error) {
	return f.appointments, nil
}

type fakeServiceRepo struct {
	service *domain.Service
}

func (f *fakeServiceRepo) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	if f.service == nil || f.service.ID != id {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return f.service, nil
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

// June 10, 2025 is a Tuesday; the store works Tuesdays 09:00-12:00 UTC
var testNow = time.Date(2025, time.June, 9, 12, 0, 0, 0, time.UTC)

type fixture struct {
	uc           *UseCase
	appointments *fakeAppointmentRepo
	services     *fakeServiceRepo
	stores       *fakeStoreRepo
}

func newFixture() *fixture {
	f := &fixture{
		appointments: &fakeAppointmentRepo{},
		services: &fakeServiceRepo{
			service: &domain.Service{
				ID:              7,
				StoreID:         1,
				Name:            "Haircut",
				DurationMinutes: 60,
				Price:           200,
				Active:          true,
			},
		},
		stores: &fakeStoreRepo{
			store: &domain.Store{
				ID:                 1,
				Timezone:           "UTC",
				AdvanceBookingDays: 30,
				WorkingHours: []domain.WorkingHours{
					{Weekday: time.Tuesday, OpenTime: "09:00", CloseTime: "12:00", Active: true},
				},
			},
		},
	}
	f.uc = NewUseCase(f.appointments, f.services, f.stores, nopLogger{})
	f.uc.timeProvider = &fixedTime{now: testNow}
	return f
}

func requestFor(day time.Time) *Request {
	return &Request{ServiceID: 7, Date: day}
}

// ---- tests ----

func TestExecute_GeneratesSlotsAtServiceDuration(t *testing.T) {
	f := newFixture()
	day := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

	resp, err := f.uc.Execute(context.Background(), requestFor(day))
	require.NoError(t, err)

	// 09:00-12:00 with a 60-minute service: three slots, last one ends at close
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, "09:00", resp.Slots[0].StartTime.String())
	assert.Equal(t, "10:00", resp.Slots[1].StartTime.String())
	assert.Equal(t, "11:00", resp.Slots[2].StartTime.String())

	for _, s := range resp.Slots {
		assert.True(t, s.Available)
		assert.Equal(t, 60, s.DurationMinutes)
	}

	assert.Equal(t, time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC), resp.Slots[0].StartsAt)
}

func TestExecute_PartialSlotNotGenerated(t *testing.T) {
	f := newFixture()
	f.services.service.DurationMinutes = 45
	day := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

	resp, err := f.uc.Execute(context.Background(), requestFor(day))
	require.NoError(t, err)

	// 09:00, 09:45, 10:30, 11:15; the next one (12:00) would run past close
	require.Len(t, resp.Slots, 4)
	assert.Equal(t, "11:15", resp.Slots[3].StartTime.String())
}

func TestExecute_OccupiedSlotsMarked(t *testing.T) {
	f := newFixture()
	day := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

	f.appointments.appointments = []*domain.Appointment{
		{
			Status:          domain.StatusConfirmed,
			StartsAt:        time.Date(2025, time.June, 10, 10, 0, 0, 0, time.UTC),
			DurationMinutes: 60,
		},
		{
			// cancelled appointments release their slot
			Status:          domain.StatusCancelled,
			StartsAt:        time.Date(2025, time.June, 10, 11, 0, 0, 0, time.UTC),
			DurationMinutes: 60,
		},
	}

	resp, err := f.uc.Execute(context.Background(), requestFor(day))
	require.NoError(t, err)

	require.Len(t, resp.Slots, 3)
	assert.True(t, resp.Slots[0].Available)
	assert.False(t, resp.Slots[1].Available)
	assert.True(t, resp.Slots[2].Available)
}

func TestExecute_AbuttingAppointmentDoesNotOccupy(t *testing.T) {
	f := newFixture()
	day := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

	// ends exactly when the 10:00 slot starts
	f.appointments.appointments = []*domain.Appointment{
		{
			Status:          domain.StatusPending,
			StartsAt:        time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC),
			DurationMinutes: 60,
		},
	}

	resp, err := f.uc.Execute(context.Background(), requestFor(day))
	require.NoError(t, err)

	require.Len(t, resp.Slots, 3)
	assert.False(t, resp.Slots[0].Available)
	assert.True(t, resp.Slots[1].Available)
}

func TestExecute_TodayFiltersPastAndLeadWindow(t *testing.T) {
	f := newFixture()
	f.stores.store.MinAdvanceHours = 1

	// now is Tuesday 10:30; slots at 09:00 and 10:00 are gone, 11:00 is
	// Tuesday's last slot but falls inside the one-hour lead window edge
	f.uc.timeProvider = &fixedTime{now: time.Date(2025, time.June, 10, 10, 30, 0, 0, time.UTC)}
	day := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

	resp, err := f.uc.Execute(context.Background(), requestFor(day))
	require.NoError(t, err)

	// minStart = 11:30, so the 11:00 slot is filtered as well
	assert.Empty(t, resp.Slots)
}

func TestExecute_ClosedDayReturnsEmptyList(t *testing.T) {
	f := newFixture()
	day := time.Date(2025, time.June, 11, 0, 0, 0, 0, time.UTC) // Wednesday, no entry

	resp, err := f.uc.Execute(context.Background(), requestFor(day))
	require.NoError(t, err)
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
}

func TestExecute_DateValidation(t *testing.T) {
	t.Run("past date", func(t *testing.T) {
		f := newFixture()
		day := time.Date(2025, time.June, 8, 0, 0, 0, 0, time.UTC)

		_, err := f.uc.Execute(context.Background(), requestFor(day))
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("beyond booking horizon", func(t *testing.T) {
		f := newFixture()
		day := time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC) // 31 days out

		_, err := f.uc.Execute(context.Background(), requestFor(day))
		assert.ErrorIs(t, err, ErrDateTooFarInFuture)
	})

	t.Run("horizon boundary is allowed", func(t *testing.T) {
		f := newFixture()
		f.stores.store.WorkingHours = append(f.stores.store.WorkingHours,
			domain.WorkingHours{Weekday: time.Wednesday, OpenTime: "09:00", CloseTime: "12:00", Active: true})
		day := time.Date(2025, time.July, 9, 0, 0, 0, 0, time.UTC) // exactly 30 days out

		_, err := f.uc.Execute(context.Background(), requestFor(day))
		assert.NoError(t, err)
	})
}

func TestExecute_InactiveService(t *testing.T) {
	f := newFixture()
	f.services.service.Active = false

	day := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	_, err := f.uc.Execute(context.Background(), requestFor(day))
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_InputValidation(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{ServiceID: 0, Date: testNow})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(context.Background(), &Request{ServiceID: 7})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
