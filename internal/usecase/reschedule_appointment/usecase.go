package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/avmos/SB-AppointmentService/internal/auth"
	"github.com/avmos/SB-AppointmentService/internal/domain"
	apptRepo "github.com/avmos/SB-AppointmentService/internal/infra/storage/appointment"
	"github.com/avmos/SB-AppointmentService/internal/integrations/notify"
)

// pgSerializationFailure код SQLSTATE обрыва сериализуемой транзакции
const pgSerializationFailure = "40001"

// UseCase use case для переноса записи на новое время
type UseCase struct {
	appointmentRepo AppointmentRepository
	storeRepo       StoreRepository
	txManager       TransactionManager
	notifier        Notifier
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	storeRepo StoreRepository,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		storeRepo:       storeRepo,
		txManager:       txManager,
		notifier:        notifier,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case переноса записи.
// Запись меняет дату на месте: идентичность, цена и применённый купон
// сохраняются. Новый слот проходит все проверки доступности, собственная
// запись при поиске пересечений исключается. Как и при создании, конфликт
// конкурирующих транзакций повторяется ровно один раз.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleAppointment: id=%d, newStartsAt=%s",
		req.AppointmentID, req.NewStartsAt.Format(domain.DateFormat+" "+domain.TimeFormat))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	result, err := uc.rescheduleOnce(ctx, req, now)
	if err != nil && isRetryableConflict(err) {
		uc.logger.Warn("RescheduleAppointment: concurrent conflict, retrying once: %v", err)

		result, err = uc.rescheduleOnce(ctx, req, uc.timeProvider.Now())
		if err != nil && isRetryableConflict(err) {
			uc.logger.Warn("RescheduleAppointment: conflict persisted after retry, slot taken")
			return nil, ErrSlotNotAvailable
		}
	}
	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleAppointment: successfully rescheduled appointment id=%d", result.ID)

	uc.publishRescheduled(ctx, result)

	return &Response{
		ID:              result.ID,
		StoreID:         result.StoreID,
		ServiceID:       result.ServiceID,
		StartsAt:        result.StartsAt,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		ClientName:      result.ClientName,
		ClientEmail:     result.ClientEmail,
		TotalPrice:      result.TotalPrice,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

// rescheduleOnce выполняет одну транзакционную попытку переноса
func (uc *UseCase) rescheduleOnce(ctx context.Context, req *Request, now time.Time) (*domain.Appointment, error) {
	var result *domain.Appointment

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Получаем запись
		appointment, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("RescheduleAppointment: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("RescheduleAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		// 2. Проверяем область видимости вызывающего
		store, err := uc.storeRepo.GetByID(txCtx, appointment.StoreID)
		if err != nil {
			uc.logger.Error("RescheduleAppointment: failed to get store id=%d: %v", appointment.StoreID, err)
			return fmt.Errorf("%w: failed to get store: %v", ErrInternal, err)
		}

		caller := auth.CallerFromContext(txCtx)
		if !caller.Can(auth.ResourceAppointments, auth.ActionUpdate) {
			uc.logger.Warn("RescheduleAppointment: caller lacks appointment update capability")
			return ErrPermissionDenied
		}
		if !caller.AllowsStore(store.ID, store.CompanyID) {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d is out of caller scope", req.AppointmentID)
			return ErrPermissionDenied
		}

		// 3. Терминальные записи не переносятся
		if !appointment.CanBeRescheduled() {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d has status %s", req.AppointmentID, appointment.Status)
			return ErrNotReschedulable
		}

		// 4. Полный набор проверок доступности для нового слота.
		// Длительность остается денормализованной в записи: изменение
		// каталога после бронирования не двигает уже занятый интервал.
		if err := validateStartTime(req.NewStartsAt, now, store); err != nil {
			uc.logger.Warn("RescheduleAppointment: start time validation failed: %v", err)
			return err
		}

		if err := validateWorkingHours(req.NewStartsAt, appointment.DurationMinutes, store); err != nil {
			uc.logger.Warn("RescheduleAppointment: working hours validation failed: %v", err)
			return err
		}

		// 5. Эксклюзивность: собственная запись исключается, иначе перенос
		// на пересекающееся с собой время всегда бы конфликтовал
		slotEnd := req.NewStartsAt.Add(time.Duration(appointment.DurationMinutes) * time.Minute)
		overlapping, err := uc.appointmentRepo.ListOverlapping(
			txCtx, appointment.ServiceID, req.NewStartsAt, slotEnd, &appointment.ID,
		)
		if err != nil {
			uc.logger.Error("RescheduleAppointment: failed to list overlapping appointments: %v", err)
			return fmt.Errorf("%w: failed to list overlapping appointments: %v", ErrInternal, err)
		}
		if len(overlapping) > 0 {
			uc.logger.Warn("RescheduleAppointment: new slot overlaps %d active appointment(s)", len(overlapping))
			return ErrSlotNotAvailable
		}

		// 6. Меняем дату на месте
		if err := uc.appointmentRepo.UpdateSchedule(txCtx, appointment.ID, req.NewStartsAt); err != nil {
			if errors.Is(err, apptRepo.ErrSlotTaken) {
				return err
			}
			if errors.Is(err, apptRepo.ErrStatusConflict) {
				// Конкурирующий переход увел запись в терминальный статус
				// между чтением и обновлением
				return ErrNotReschedulable
			}
			uc.logger.Error("RescheduleAppointment: failed to update schedule: %v", err)
			return fmt.Errorf("%w: failed to update schedule: %v", ErrInternal, err)
		}

		appointment.StartsAt = req.NewStartsAt

		result = appointment
		return nil
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

// publishRescheduled публикует событие о переносе. Лучшая по возможности.
func (uc *UseCase) publishRescheduled(ctx context.Context, ap *domain.Appointment) {
	event := &notify.AppointmentEvent{
		EventType:     notify.EventAppointmentRescheduled,
		AppointmentID: ap.ID,
		StoreID:       ap.StoreID,
		ServiceID:     ap.ServiceID,
		Status:        string(ap.Status),
		StartsAt:      ap.StartsAt,
		ClientEmail:   ap.ClientEmail,
		ClientPhone:   ap.ClientPhone,
	}

	if err := uc.notifier.Publish(ctx, event); err != nil {
		uc.logger.Error("RescheduleAppointment: failed to publish event for id=%d: %v", ap.ID, err)
	}
}

// isRetryableConflict сообщает, стоит ли повторить транзакцию переноса
func isRetryableConflict(err error) bool {
	if errors.Is(err, apptRepo.ErrSlotTaken) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgSerializationFailure {
		return true
	}

	return false
}
