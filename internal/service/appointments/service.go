package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/avmos/SB-AppointmentService/internal/auth"
	"github.com/avmos/SB-AppointmentService/internal/domain"
	apptRepo "github.com/avmos/SB-AppointmentService/internal/infra/storage/appointment"
	"github.com/avmos/SB-AppointmentService/internal/integrations/notify"
	"github.com/avmos/SB-AppointmentService/internal/service/appointments/models"
)

// Service сервис для работы с жизненным циклом записей
type Service struct {
	appointmentRepo AppointmentRepository
	storeRepo       StoreRepository
	notifier        Notifier
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	storeRepo StoreRepository,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		storeRepo:       storeRepo,
		notifier:        notifier,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает запись по ID.
// Запись видна только вызывающим, в чью область видимости входит её магазин.
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkScope(ctx, appointment.StoreID, auth.ActionRead); err != nil {
		s.logger.Warn("GetByID: access denied to appointment id=%d", id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appointment), nil
}

// GetStoreAppointments получает записи магазина с гибкой фильтрацией
// по услуге, периоду и статусу. Терминальные записи включаются только
// по явному запросу.
func (s *Service) GetStoreAppointments(ctx context.Context, req *models.GetStoreAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetStoreAppointments: fetching appointments for store=%d", req.StoreID)

	if req.StoreID <= 0 {
		return nil, fmt.Errorf("%w: storeID must be positive", ErrInvalidInput)
	}

	if err := s.checkScope(ctx, req.StoreID, auth.ActionRead); err != nil {
		s.logger.Warn("GetStoreAppointments: access denied to store=%d", req.StoreID)
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetStoreAppointments: invalid filter for store=%d: %v", req.StoreID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.GetByStoreWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetStoreAppointments: repository error for store=%d: %v", req.StoreID, err)
		return nil, fmt.Errorf("%w: GetStoreAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetStoreAppointments: successfully fetched %d appointments for store=%d",
		len(appointments), req.StoreID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись с указанием причины.
// Отмена разрешена только из активных статусов и необратима.
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d", appointmentID)

	if len(req.CancellationReason) > domain.MaxCancelReasonLength {
		return fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
	}

	appointment, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if err := s.checkScope(ctx, appointment.StoreID, auth.ActionUpdate); err != nil {
		s.logger.Warn("Cancel: access denied to appointment id=%d", appointmentID)
		return err
	}

	if !appointment.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", appointmentID, appointment.Status)
		return ErrCannotCancel
	}

	if err := s.appointmentRepo.Cancel(ctx, appointmentID, req.CancellationReason); err != nil {
		if errors.Is(err, apptRepo.ErrStatusConflict) {
			// Конкурирующий переход увел запись в терминальный статус
			s.logger.Warn("Cancel: appointment id=%d left active statuses concurrently", appointmentID)
			return ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", appointmentID)

	appointment.Status = domain.StatusCancelled
	s.publishStatusEvent(ctx, appointment, notify.EventAppointmentCancelled)

	return nil
}

// UpdateStatus выполняет переход статуса записи.
// Допустимость перехода проверяется доменной моделью, сама смена статуса
// условна: строка обновляется только из прочитанного статуса, так что
// конкурирующий переход не может быть перезаписан.
func (s *Service) UpdateStatus(ctx context.Context, appointmentID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s", appointmentID, req.Status)

	targetStatus, err := models.ToDomainAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, appointmentID)
		return fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	appointment, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	if err := s.checkScope(ctx, appointment.StoreID, auth.ActionUpdate); err != nil {
		s.logger.Warn("UpdateStatus: access denied to appointment id=%d", appointmentID)
		return err
	}

	// Отмена через статусный переход идет тем же путем, что и Cancel,
	// но без причины: записи нужна отметка времени отмены
	if targetStatus == domain.StatusCancelled {
		return s.cancelViaStatus(ctx, appointment)
	}

	now := s.timeProvider.Now()
	if !appointment.CanTransitionTo(targetStatus, now) {
		s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for appointment id=%d",
			appointment.Status, targetStatus, appointmentID)
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appointment.Status, targetStatus)
	}

	if err := s.appointmentRepo.UpdateStatusIf(ctx, appointmentID, appointment.Status, targetStatus); err != nil {
		if errors.Is(err, apptRepo.ErrStatusConflict) {
			s.logger.Warn("UpdateStatus: appointment id=%d changed status concurrently", appointmentID)
			return fmt.Errorf("%w: appointment status changed concurrently", ErrInvalidTransition)
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", appointmentID, targetStatus)

	appointment.Status = targetStatus
	s.publishStatusEvent(ctx, appointment, statusEventType(targetStatus))

	return nil
}

// cancelViaStatus выполняет отмену, запрошенную через статусный переход.
// Область видимости уже проверена вызывающей стороной.
func (s *Service) cancelViaStatus(ctx context.Context, appointment *domain.Appointment) error {
	if !appointment.CanBeCancelled() {
		s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for appointment id=%d",
			appointment.Status, domain.StatusCancelled, appointment.ID)
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appointment.Status, domain.StatusCancelled)
	}

	if err := s.appointmentRepo.Cancel(ctx, appointment.ID, ""); err != nil {
		if errors.Is(err, apptRepo.ErrStatusConflict) {
			s.logger.Warn("UpdateStatus: appointment id=%d changed status concurrently", appointment.ID)
			return fmt.Errorf("%w: appointment status changed concurrently", ErrInvalidTransition)
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointment.ID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully cancelled appointment id=%d", appointment.ID)

	appointment.Status = domain.StatusCancelled
	s.publishStatusEvent(ctx, appointment, notify.EventAppointmentCancelled)

	return nil
}

// Вспомогательные методы

// checkScope проверяет, что магазин записи входит в область видимости
// вызывающего и что у него есть право на действие
func (s *Service) checkScope(ctx context.Context, storeID int64, action auth.Action) error {
	caller := auth.CallerFromContext(ctx)
	if caller == nil {
		return ErrAccessDenied
	}

	if !caller.Can(auth.ResourceAppointments, action) {
		return ErrAccessDenied
	}

	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		s.logger.Error("checkScope: failed to get store id=%d: %v", storeID, err)
		return fmt.Errorf("%w: checkScope - failed to get store: %v", ErrInternal, err)
	}

	if !caller.AllowsStore(store.ID, store.CompanyID) {
		return ErrAccessDenied
	}

	return nil
}

// publishStatusEvent публикует событие жизненного цикла. Лучшая по возможности.
func (s *Service) publishStatusEvent(ctx context.Context, ap *domain.Appointment, eventType string) {
	event := &notify.AppointmentEvent{
		EventType:     eventType,
		AppointmentID: ap.ID,
		StoreID:       ap.StoreID,
		ServiceID:     ap.ServiceID,
		Status:        string(ap.Status),
		StartsAt:      ap.StartsAt,
		ClientEmail:   ap.ClientEmail,
		ClientPhone:   ap.ClientPhone,
	}

	if err := s.notifier.Publish(ctx, event); err != nil {
		s.logger.Error("publishStatusEvent: failed to publish %s for appointment id=%d: %v", eventType, ap.ID, err)
	}
}

// statusEventType сопоставляет целевой статус типу события
func statusEventType(status domain.AppointmentStatus) string {
	switch status {
	case domain.StatusConfirmed:
		return notify.EventAppointmentConfirmed
	case domain.StatusCompleted:
		return notify.EventAppointmentCompleted
	case domain.StatusNoShow:
		return notify.EventAppointmentNoShow
	case domain.StatusCancelled:
		return notify.EventAppointmentCancelled
	default:
		return notify.EventAppointmentCreated
	}
}
