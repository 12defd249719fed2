package reschedule_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avmos/SB-AppointmentService/internal/auth"
	"github.com/avmos/SB-AppointmentService/internal/domain"
	apptRepo "github.com/avmos/SB-AppointmentService/internal/infra/storage/appointment"
	"github.com/avmos/SB-AppointmentService/internal/integrations/notify"
	"github.com/avmos/SB-AppointmentService/pkg/ptr"
)

// ---- fakes ----

type fakeAppointmentRepo struct {
	appointment *domain.Appointment
	overlapping []*domain.Appointment
	updateErrs  []error // consumed one per UpdateSchedule call
	updatedTo   []time.Time
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if f.appointment == nil || f.appointment.ID != id {
		return nil, apptRepo.ErrAppointmentNotFound
	}
	cp := *f.appointment
	return &cp, nil
}

func (f *fakeAppointmentRepo) ListOverlapping(_ context.Context, _ int64, _, _ time.Time, excludeID *int64) ([]*domain.Appointment, error) {
	out := make([]*domain.Appointment, 0, len(f.overlapping))
	for _, ap := range f.overlapping {
		if excludeID != nil && ap.ID == *excludeID {
			continue
		}
		out = append(out, ap)
	}
	return out, nil
}

func (f *fakeAppointmentRepo) UpdateSchedule(_ context.Context, _ int64, newStart time.Time) error {
	if len(f.updateErrs) > 0 {
		err := f.updateErrs[0]
		f.updateErrs = f.updateErrs[1:]
		if err != nil {
			return err
		}
	}
	f.updatedTo = append(f.updatedTo, newStart)
	return nil
}

type fakeStoreRepo struct {
	store *domain.Store
}

func (f *fakeStoreRepo) GetByID(_ context.Context, _ int64) (*domain.Store, error) {
	return f.store, nil
}

type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeNotifier struct {
	events []*notify.AppointmentEvent
}

func (f *fakeNotifier) Publish(_ context.Context, e *notify.AppointmentEvent) error {
	f.events = append(f.events, e)
	return nil
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

// June 10, 2025 is a Tuesday; the store works Tuesdays and Wednesdays
var testNow = time.Date(2025, time.June, 10, 10, 0, 0, 0, time.UTC)

type fixture struct {
	uc           *UseCase
	appointments *fakeAppointmentRepo
	stores       *fakeStoreRepo
	tx           *fakeTxManager
	notifier     *fakeNotifier
}

func newFixture() *fixture {
	f := &fixture{
		appointments: &fakeAppointmentRepo{
			appointment: &domain.Appointment{
				ID:              11,
				StoreID:         1,
				ServiceID:       7,
				StartsAt:        testNow.Add(4 * time.Hour),
				DurationMinutes: 60,
				Status:          domain.StatusConfirmed,
				ClientName:      "Anna",
				ClientEmail:     "anna@example.com",
				TotalPrice:      180,
			},
		},
		stores: &fakeStoreRepo{
			store: &domain.Store{
				ID:                 1,
				Timezone:           "UTC",
				AdvanceBookingDays: 30,
				WorkingHours: []domain.WorkingHours{
					{Weekday: time.Tuesday, OpenTime: "09:00", CloseTime: "18:00", Active: true},
					{Weekday: time.Wednesday, OpenTime: "09:00", CloseTime: "18:00", Active: true},
				},
			},
		},
		tx:       &fakeTxManager{},
		notifier: &fakeNotifier{},
	}
	f.uc = NewUseCase(f.appointments, f.stores, f.tx, f.notifier, nopLogger{})
	f.uc.timeProvider = &fixedTime{now: testNow}
	return f
}

func ownerCtx() context.Context {
	return auth.WithCaller(context.Background(), &auth.Caller{
		Kind:     auth.CallerSession,
		UserID:   3,
		Role:     auth.RoleOwner,
		StoreIDs: []int64{1},
	})
}

// Wednesday 14:00, comfortably inside working hours and the booking horizon
var newStart = time.Date(2025, time.June, 11, 14, 0, 0, 0, time.UTC)

// ---- tests ----

func TestExecute_Success(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(ownerCtx(), &Request{AppointmentID: 11, NewStartsAt: newStart})
	require.NoError(t, err)

	assert.Equal(t, newStart, resp.StartsAt)
	// identity and pricing survive the move
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, float64(180), resp.TotalPrice)
	assert.Equal(t, "anna@example.com", resp.ClientEmail)

	require.Len(t, f.appointments.updatedTo, 1)
	assert.Equal(t, newStart, f.appointments.updatedTo[0])

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, notify.EventAppointmentRescheduled, f.notifier.events[0].EventType)
}

func TestExecute_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(ownerCtx(), &Request{AppointmentID: 99, NewStartsAt: newStart})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_OutOfScope(t *testing.T) {
	f := newFixture()

	ctx := auth.WithCaller(context.Background(), &auth.Caller{
		Kind:     auth.CallerSession,
		Role:     auth.RoleOwner,
		StoreIDs: []int64{2}, // owns a different store
	})

	_, err := f.uc.Execute(ctx, &Request{AppointmentID: 11, NewStartsAt: newStart})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Empty(t, f.appointments.updatedTo)
}

func TestExecute_APIKeyWithoutUpdateCapability(t *testing.T) {
	tests := []struct {
		name string
		caps []auth.Capability
	}{
		{"no capabilities", nil},
		{"read only", []auth.Capability{
			{Resource: auth.ResourceAppointments, Actions: []auth.Action{auth.ActionRead}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			caps, err := auth.NewCapabilitySet(tt.caps)
			require.NoError(t, err)

			// Ключ привязан к нужному магазину, но без права обновления записей
			ctx := auth.WithCaller(context.Background(), &auth.Caller{
				Kind:    auth.CallerAPIKey,
				StoreID: ptr.Ptr[int64](1),
				Caps:    caps,
			})

			_, err = f.uc.Execute(ctx, &Request{AppointmentID: 11, NewStartsAt: newStart})
			assert.ErrorIs(t, err, ErrPermissionDenied)
			assert.Empty(t, f.appointments.updatedTo)
		})
	}
}

func TestExecute_TerminalStatusesNotReschedulable(t *testing.T) {
	for _, status := range []domain.AppointmentStatus{domain.StatusCancelled, domain.StatusCompleted, domain.StatusNoShow} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture()
			f.appointments.appointment.Status = status

			_, err := f.uc.Execute(ownerCtx(), &Request{AppointmentID: 11, NewStartsAt: newStart})
			assert.ErrorIs(t, err, ErrNotReschedulable)
		})
	}
}

func TestExecute_NewSlotPolicies(t *testing.T) {
	tests := []struct {
		name     string
		startsAt time.Time
		wantErr  error
	}{
		{"in the past", testNow.Add(-time.Hour), ErrInvalidDate},
		{"beyond horizon", testNow.AddDate(0, 0, 31), ErrExcessiveAdvanceTime},
		{"closed weekday", time.Date(2025, time.June, 15, 14, 0, 0, 0, time.UTC), ErrOutsideWorkingHours}, // Sunday
		{"runs past closing", time.Date(2025, time.June, 11, 17, 30, 0, 0, time.UTC), ErrOutsideWorkingHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.uc.Execute(ownerCtx(), &Request{AppointmentID: 11, NewStartsAt: tt.startsAt})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.appointments.updatedTo)
		})
	}
}

func TestExecute_OwnSlotExcludedFromOverlap(t *testing.T) {
	f := newFixture()

	// only the appointment being moved occupies the target window
	f.appointments.overlapping = []*domain.Appointment{f.appointments.appointment}

	// shift within the original hour: overlaps itself and nothing else
	target := f.appointments.appointment.StartsAt.Add(30 * time.Minute)
	_, err := f.uc.Execute(ownerCtx(), &Request{AppointmentID: 11, NewStartsAt: target})
	assert.NoError(t, err)
}

func TestExecute_TargetSlotTaken(t *testing.T) {
	f := newFixture()
	f.appointments.overlapping = []*domain.Appointment{
		{ID: 42, Status: domain.StatusPending},
	}

	_, err := f.uc.Execute(ownerCtx(), &Request{AppointmentID: 11, NewStartsAt: newStart})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Empty(t, f.notifier.events)
}

func TestExecute_RetriesOnceOnConflict(t *testing.T) {
	t.Run("conflict then success", func(t *testing.T) {
		f := newFixture()
		f.appointments.updateErrs = []error{apptRepo.ErrSlotTaken, nil}

		_, err := f.uc.Execute(ownerCtx(), &Request{AppointmentID: 11, NewStartsAt: newStart})
		require.NoError(t, err)
		assert.Equal(t, 2, f.tx.calls)
	})

	t.Run("conflict persists", func(t *testing.T) {
		f := newFixture()
		f.appointments.updateErrs = []error{apptRepo.ErrSlotTaken, apptRepo.ErrSlotTaken}

		_, err := f.uc.Execute(ownerCtx(), &Request{AppointmentID: 11, NewStartsAt: newStart})
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
		assert.Equal(t, 2, f.tx.calls)
	})
}

func TestExecute_ConcurrentTerminalTransition(t *testing.T) {
	f := newFixture()
	f.appointments.updateErrs = []error{apptRepo.ErrStatusConflict}

	_, err := f.uc.Execute(ownerCtx(), &Request{AppointmentID: 11, NewStartsAt: newStart})
	assert.ErrorIs(t, err, ErrNotReschedulable)
}

func TestExecute_InputValidation(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(ownerCtx(), &Request{AppointmentID: 0, NewStartsAt: newStart})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(ownerCtx(), &Request{AppointmentID: 11})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
