package appointments

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
	"github.com/avmos/SB-AppointmentService/internal/service/appointments/models"
)

// ---- fakes ----

type fakeAppointmentRepo struct {
	appointment   *domain.Appointment
	listed        []*domain.Appointment
	cancelErr     error
	updateErr     error
	cancelled     []int64
	statusUpdates []domain.AppointmentStatus
	lastFilter    domain.StoreAppointmentsFilter
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if f.appointment == nil || f.appointment.ID != id {
		return nil, apptRepo.ErrAppointmentNotFound
	}
	cp := *f.appointment
	return &cp, nil
}

func (f *fakeAppointmentRepo) GetByStoreWithFilter(_ context.Context, filter domain.StoreAppointmentsFilter) ([]*domain.Appointment, error) {
	f.lastFilter = filter
	return f.listed, nil
}

func (f *fakeAppointmentRepo) UpdateStatusIf(_ context.Context, _ int64, _, target domain.AppointmentStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.statusUpdates = append(f.statusUpdates, target)
	return nil
}

func (f *fakeAppointmentRepo) Cancel(_ context.Context, id int64, _ string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, id)
	return nil
}

type fakeStoreRepo struct {
	store *domain.Store
}

func (f *fakeStoreRepo) GetByID(_ context.Context, _ int64) (*domain.Store, error) {
	return f.store, nil
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

var testNow = time.Date(2025, time.June, 10, 15, 0, 0, 0, time.UTC)

type fixture struct {
	svc      *Service
	repo     *fakeAppointmentRepo
	notifier *fakeNotifier
}

func newFixture() *fixture {
	f := &fixture{
		repo: &fakeAppointmentRepo{
			appointment: &domain.Appointment{
				ID:              11,
				StoreID:         1,
				ServiceID:       7,
				StartsAt:        testNow.Add(-time.Hour), // already started
				DurationMinutes: 60,
				Status:          domain.StatusConfirmed,
				ClientEmail:     "anna@example.com",
			},
		},
		notifier: &fakeNotifier{},
	}
	f.svc = NewService(f.repo, &fakeStoreRepo{store: &domain.Store{ID: 1}}, f.notifier, nopLogger{})
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

func TestGetByID(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newFixture()

		resp, err := f.svc.GetByID(ownerCtx(), 11)
		require.NoError(t, err)
		assert.Equal(t, int64(11), resp.ID)
		assert.Equal(t, "confirmed", resp.Status)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.GetByID(ownerCtx(), 99)
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})

	t.Run("guest denied", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.GetByID(context.Background(), 11)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("foreign store denied", func(t *testing.T) {
		f := newFixture()

		ctx := auth.WithCaller(context.Background(), &auth.Caller{
			Kind:     auth.CallerSession,
			Role:     auth.RoleOwner,
			StoreIDs: []int64{2},
		})
		_, err := f.svc.GetByID(ctx, 11)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("key without read capability denied", func(t *testing.T) {
		f := newFixture()

		caps, err := auth.NewCapabilitySet([]auth.Capability{
			{Resource: auth.ResourceCoupons, Actions: []auth.Action{auth.ActionRead}},
		})
		require.NoError(t, err)

		storeID := int64(1)
		ctx := auth.WithCaller(context.Background(), &auth.Caller{
			Kind:    auth.CallerAPIKey,
			StoreID: &storeID,
			Caps:    caps,
		})
		_, err = f.svc.GetByID(ctx, 11)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestGetStoreAppointments(t *testing.T) {
	t.Run("filter passed through", func(t *testing.T) {
		f := newFixture()
		f.repo.listed = []*domain.Appointment{f.repo.appointment}

		status := "confirmed"
		serviceID := int64(7)
		resp, err := f.svc.GetStoreAppointments(ownerCtx(), &models.GetStoreAppointmentsRequest{
			StoreID:   1,
			ServiceID: &serviceID,
			Status:    &status,
		})
		require.NoError(t, err)
		require.Len(t, resp.Appointments, 1)

		assert.Equal(t, int64(1), f.repo.lastFilter.StoreID)
		require.NotNil(t, f.repo.lastFilter.Status)
		assert.Equal(t, domain.StatusConfirmed, *f.repo.lastFilter.Status)
		assert.False(t, f.repo.lastFilter.IncludeInactive)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		f := newFixture()

		status := "archived"
		_, err := f.svc.GetStoreAppointments(ownerCtx(), &models.GetStoreAppointmentsRequest{
			StoreID: 1,
			Status:  &status,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("empty list is not nil", func(t *testing.T) {
		f := newFixture()

		resp, err := f.svc.GetStoreAppointments(ownerCtx(), &models.GetStoreAppointmentsRequest{StoreID: 1})
		require.NoError(t, err)
		assert.NotNil(t, resp.Appointments)
		assert.Empty(t, resp.Appointments)
	})
}

func TestCancel(t *testing.T) {
	t.Run("success publishes event", func(t *testing.T) {
		f := newFixture()

		err := f.svc.Cancel(ownerCtx(), 11, &models.CancelAppointmentRequest{CancellationReason: "client asked"})
		require.NoError(t, err)
		assert.Equal(t, []int64{11}, f.repo.cancelled)

		require.Len(t, f.notifier.events, 1)
		assert.Equal(t, notify.EventAppointmentCancelled, f.notifier.events[0].EventType)
		assert.Equal(t, "cancelled", f.notifier.events[0].Status)
	})

	t.Run("terminal status cannot be cancelled", func(t *testing.T) {
		f := newFixture()
		f.repo.appointment.Status = domain.StatusCompleted

		err := f.svc.Cancel(ownerCtx(), 11, &models.CancelAppointmentRequest{})
		assert.ErrorIs(t, err, ErrCannotCancel)
	})

	t.Run("concurrent terminal transition", func(t *testing.T) {
		f := newFixture()
		f.repo.cancelErr = apptRepo.ErrStatusConflict

		err := f.svc.Cancel(ownerCtx(), 11, &models.CancelAppointmentRequest{})
		assert.ErrorIs(t, err, ErrCannotCancel)
	})
}

func TestUpdateStatus(t *testing.T) {
	t.Run("confirmed to completed", func(t *testing.T) {
		f := newFixture()

		err := f.svc.UpdateStatus(ownerCtx(), 11, &models.UpdateStatusRequest{Status: "completed"})
		require.NoError(t, err)
		assert.Equal(t, []domain.AppointmentStatus{domain.StatusCompleted}, f.repo.statusUpdates)

		require.Len(t, f.notifier.events, 1)
		assert.Equal(t, notify.EventAppointmentCompleted, f.notifier.events[0].EventType)
	})

	t.Run("no_show only after start", func(t *testing.T) {
		f := newFixture()
		f.repo.appointment.StartsAt = testNow.Add(time.Hour)

		err := f.svc.UpdateStatus(ownerCtx(), 11, &models.UpdateStatusRequest{Status: "no_show"})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("cancellation accepted without a reason", func(t *testing.T) {
		f := newFixture()

		err := f.svc.UpdateStatus(ownerCtx(), 11, &models.UpdateStatusRequest{Status: "cancelled"})
		require.NoError(t, err)

		// Отмена проходит по пути Cancel с отметкой времени, не голым UPDATE статуса
		assert.Equal(t, []int64{11}, f.repo.cancelled)
		assert.Empty(t, f.repo.statusUpdates)

		require.Len(t, f.notifier.events, 1)
		assert.Equal(t, notify.EventAppointmentCancelled, f.notifier.events[0].EventType)
		assert.Equal(t, "cancelled", f.notifier.events[0].Status)
	})

	t.Run("cancellation of terminal appointment rejected", func(t *testing.T) {
		f := newFixture()
		f.repo.appointment.Status = domain.StatusCompleted

		err := f.svc.UpdateStatus(ownerCtx(), 11, &models.UpdateStatusRequest{Status: "cancelled"})
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Empty(t, f.repo.cancelled)
	})

	t.Run("concurrent cancellation conflict", func(t *testing.T) {
		f := newFixture()
		f.repo.cancelErr = apptRepo.ErrStatusConflict

		err := f.svc.UpdateStatus(ownerCtx(), 11, &models.UpdateStatusRequest{Status: "cancelled"})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newFixture()

		err := f.svc.UpdateStatus(ownerCtx(), 11, &models.UpdateStatusRequest{Status: "archived"})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("illegal transition", func(t *testing.T) {
		f := newFixture()
		f.repo.appointment.Status = domain.StatusPending

		err := f.svc.UpdateStatus(ownerCtx(), 11, &models.UpdateStatusRequest{Status: "completed"})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("concurrent status change", func(t *testing.T) {
		f := newFixture()
		f.repo.updateErr = apptRepo.ErrStatusConflict

		err := f.svc.UpdateStatus(ownerCtx(), 11, &models.UpdateStatusRequest{Status: "completed"})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}
