package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/avmos/SB-AppointmentService/internal/domain"
	apptRepo "github.com/avmos/SB-AppointmentService/internal/infra/storage/appointment"
	couponRepo "github.com/avmos/SB-AppointmentService/internal/infra/storage/coupon"
	serviceRepo "github.com/avmos/SB-AppointmentService/internal/infra/storage/service"
	storeRepo "github.com/avmos/SB-AppointmentService/internal/infra/storage/store"
	"github.com/avmos/SB-AppointmentService/internal/integrations/notify"
)

// pgSerializationFailure код SQLSTATE обрыва сериализуемой транзакции
const pgSerializationFailure = "40001"

// UseCase use case для создания записи на услугу
type UseCase struct {
	appointmentRepo AppointmentRepository
	serviceRepo     ServiceRepository
	storeRepo       StoreRepository
	couponRepo      CouponRepository
	txManager       TransactionManager
	notifier        Notifier
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	serviceRepo ServiceRepository,
	storeRepo StoreRepository,
	couponRepo CouponRepository,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		serviceRepo:     serviceRepo,
		storeRepo:       storeRepo,
		couponRepo:      couponRepo,
		txManager:       txManager,
		notifier:        notifier,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Все проверки доступности и создание выполняются в одной сериализуемой
// транзакции. Конфликт конкурирующих созданий (обрыв сериализации или
// нарушение уникальности слота) повторяется ровно один раз как свежая
// проверка доступности; повторный конфликт означает, что слот занят.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: service=%d, startsAt=%s, client=%s",
		req.ServiceID, req.StartsAt.Format(domain.DateFormat+" "+domain.TimeFormat), req.ClientEmail)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время один раз, чтобы все проверки были согласованы
	now := uc.timeProvider.Now()

	// 3. Первая попытка
	result, err := uc.createOnce(ctx, req, now)
	if err != nil && isRetryableConflict(err) {
		uc.logger.Warn("CreateAppointment: concurrent conflict, retrying once: %v", err)

		// 4. Единственный повтор. Состояние перечитывается с нуля, поэтому
		// повтор эквивалентен свежей проверке доступности.
		result, err = uc.createOnce(ctx, req, uc.timeProvider.Now())
		if err != nil && isRetryableConflict(err) {
			uc.logger.Warn("CreateAppointment: conflict persisted after retry, slot taken")
			return nil, ErrSlotNotAvailable
		}
	}
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d, status=%s",
		result.appointment.ID, result.appointment.Status)

	// 5. Публикуем событие. Ошибка публикации не откатывает запись.
	uc.publishCreated(ctx, result.appointment)

	return buildResponse(result), nil
}

// txResult результат успешно закоммиченной транзакции создания
type txResult struct {
	appointment *domain.Appointment
	rawPrice    float64
	discount    float64
}

// createOnce выполняет одну транзакционную попытку создания записи
func (uc *UseCase) createOnce(ctx context.Context, req *Request, now time.Time) (*txResult, error) {
	var result *txResult

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Получаем услугу. Неактивная услуга для клиента не существует.
		service, err := uc.serviceRepo.GetByID(txCtx, req.ServiceID)
		if err != nil {
			if errors.Is(err, serviceRepo.ErrServiceNotFound) {
				uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
				return ErrServiceNotFound
			}
			uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
			return fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		if !service.Active {
			uc.logger.Warn("CreateAppointment: service id=%d is inactive", req.ServiceID)
			return ErrServiceNotFound
		}

		// 2. Получаем магазин с календарными политиками и рабочими часами
		store, err := uc.storeRepo.GetByID(txCtx, service.StoreID)
		if err != nil {
			if errors.Is(err, storeRepo.ErrStoreNotFound) {
				uc.logger.Warn("CreateAppointment: store id=%d not found", service.StoreID)
				return ErrStoreNotFound
			}
			uc.logger.Error("CreateAppointment: failed to get store id=%d: %v", service.StoreID, err)
			return fmt.Errorf("%w: failed to get store: %v", ErrInternal, err)
		}

		// 3. Временные политики: прошлое, минимальное окно, максимальный горизонт
		if err := validateStartTime(req.StartsAt, now, store); err != nil {
			uc.logger.Warn("CreateAppointment: start time validation failed: %v", err)
			return err
		}

		// 4. Рабочие часы магазина
		if err := validateWorkingHours(req.StartsAt, service.DurationMinutes, store); err != nil {
			uc.logger.Warn("CreateAppointment: working hours validation failed: %v", err)
			return err
		}

		// 5. Эксклюзивность слота: активные записи той же услуги блокируются
		// FOR UPDATE и проверяются на пересечение интервалов
		slotEnd := req.StartsAt.Add(time.Duration(service.DurationMinutes) * time.Minute)
		overlapping, err := uc.appointmentRepo.ListOverlapping(txCtx, req.ServiceID, req.StartsAt, slotEnd, nil)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to list overlapping appointments: %v", err)
			return fmt.Errorf("%w: failed to list overlapping appointments: %v", ErrInternal, err)
		}
		if len(overlapping) > 0 {
			uc.logger.Warn("CreateAppointment: slot overlaps %d active appointment(s)", len(overlapping))
			return ErrSlotNotAvailable
		}

		// 6. Купон: окно, минимальная сумма и лимиты проверяются на момент
		// создания записи, не на дату визита
		rawPrice := service.Price
		totalPrice := rawPrice
		var discount float64
		var coupon *domain.Coupon

		if req.CouponCode != nil {
			coupon, discount, totalPrice, err = uc.applyCoupon(txCtx, store.ID, *req.CouponCode, req.ClientEmail, rawPrice, now)
			if err != nil {
				return err
			}
		}

		// 7. Статус задается handler'ом: подтверждение доступно только
		// доверенным вызывающим, гости всегда получают pending
		status := domain.StatusPending
		if req.Confirm {
			status = domain.StatusConfirmed
		}

		appointment := &domain.Appointment{
			StoreID:         store.ID,
			ServiceID:       service.ID,
			StartsAt:        req.StartsAt,
			DurationMinutes: service.DurationMinutes,
			Status:          status,
			ClientName:      req.ClientName,
			ClientEmail:     req.ClientEmail,
			ClientPhone:     req.ClientPhone,
			TotalPrice:      totalPrice,
			Notes:           req.Notes,
		}
		if coupon != nil {
			appointment.CouponID = &coupon.ID
		}

		// 8. Сохраняем запись
		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			if errors.Is(err, apptRepo.ErrSlotTaken) {
				return err
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		// 9. Фиксируем использование купона в той же транзакции: откат
		// записи откатывает и расход лимита
		if coupon != nil {
			usage := &domain.CouponUsage{
				CouponID:      coupon.ID,
				ClientEmail:   req.ClientEmail,
				AppointmentID: created.ID,
			}
			if _, err := uc.couponRepo.CreateUsage(txCtx, usage); err != nil {
				uc.logger.Error("CreateAppointment: failed to record coupon usage: %v", err)
				return fmt.Errorf("%w: failed to record coupon usage: %v", ErrInternal, err)
			}
		}

		result = &txResult{
			appointment: created,
			rawPrice:    rawPrice,
			discount:    discount,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

// applyCoupon проверяет купон и возвращает его вместе со скидкой и итоговой
// ценой. Подсчет использований блокирует строки usages, поэтому конкурирующие
// применения последнего использования сериализуются.
func (uc *UseCase) applyCoupon(ctx context.Context, storeID int64, code, clientEmail string, rawPrice float64, now time.Time) (*domain.Coupon, float64, float64, error) {
	normalized := domain.NormalizeCouponCode(code)

	coupon, err := uc.couponRepo.GetByStoreAndCode(ctx, storeID, normalized)
	if err != nil {
		if errors.Is(err, couponRepo.ErrCouponNotFound) {
			uc.logger.Warn("CreateAppointment: coupon %q not found in store id=%d", normalized, storeID)
			return nil, 0, 0, ErrCouponNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get coupon %q: %v", normalized, err)
		return nil, 0, 0, fmt.Errorf("%w: failed to get coupon: %v", ErrInternal, err)
	}

	if err := checkCouponWindow(coupon, now); err != nil {
		uc.logger.Warn("CreateAppointment: coupon %q window check failed: %v", normalized, err)
		return nil, 0, 0, err
	}

	if coupon.MinAmount != nil && rawPrice < *coupon.MinAmount {
		uc.logger.Warn("CreateAppointment: coupon %q requires min amount %.2f, price is %.2f",
			normalized, *coupon.MinAmount, rawPrice)
		return nil, 0, 0, ErrMinAmountNotMet
	}

	if coupon.UsageLimit != nil {
		used, err := uc.couponRepo.CountUsages(ctx, coupon.ID)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to count coupon usages: %v", err)
			return nil, 0, 0, fmt.Errorf("%w: failed to count coupon usages: %v", ErrInternal, err)
		}
		if used >= *coupon.UsageLimit {
			uc.logger.Warn("CreateAppointment: coupon %q usage limit %d reached", normalized, *coupon.UsageLimit)
			return nil, 0, 0, ErrUsageLimitReached
		}
	}

	if coupon.UserUsageLimit != nil {
		used, err := uc.couponRepo.CountUsagesByClient(ctx, coupon.ID, clientEmail)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to count coupon usages for client: %v", err)
			return nil, 0, 0, fmt.Errorf("%w: failed to count coupon usages for client: %v", ErrInternal, err)
		}
		if used >= *coupon.UserUsageLimit {
			uc.logger.Warn("CreateAppointment: coupon %q per-client limit %d reached for %s",
				normalized, *coupon.UserUsageLimit, clientEmail)
			return nil, 0, 0, ErrUserUsageLimitReached
		}
	}

	discount := coupon.DiscountFor(rawPrice)
	return coupon, discount, coupon.FinalPrice(rawPrice), nil
}

// publishCreated публикует событие о созданной записи.
// Публикация вне транзакции и лучшая по возможности: потерянное уведомление
// не должно ронять успешное бронирование.
func (uc *UseCase) publishCreated(ctx context.Context, ap *domain.Appointment) {
	eventType := notify.EventAppointmentCreated
	if ap.Status == domain.StatusConfirmed {
		eventType = notify.EventAppointmentConfirmed
	}

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

	if err := uc.notifier.Publish(ctx, event); err != nil {
		uc.logger.Error("CreateAppointment: failed to publish %s event for id=%d: %v", eventType, ap.ID, err)
	}
}

// isRetryableConflict сообщает, стоит ли повторить транзакцию создания.
// Повторяемыми считаются нарушение уникальности слота и обрыв сериализуемой
// транзакции (SQLSTATE 40001), всплывающий на коммите.
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

func buildResponse(result *txResult) *Response {
	ap := result.appointment
	return &Response{
		ID:              ap.ID,
		StoreID:         ap.StoreID,
		ServiceID:       ap.ServiceID,
		StartsAt:        ap.StartsAt,
		DurationMinutes: ap.DurationMinutes,
		Status:          string(ap.Status),
		ClientName:      ap.ClientName,
		ClientEmail:     ap.ClientEmail,
		ClientPhone:     ap.ClientPhone,
		RawPrice:        result.rawPrice,
		Discount:        result.discount,
		TotalPrice:      ap.TotalPrice,
		CouponID:        ap.CouponID,
		Notes:           ap.Notes,
		CreatedAt:       ap.CreatedAt,
		UpdatedAt:       ap.UpdatedAt,
	}
}
