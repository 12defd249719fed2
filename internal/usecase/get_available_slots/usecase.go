package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avmos/SB-AppointmentService/internal/domain"
	serviceRepo "github.com/avmos/SB-AppointmentService/internal/infra/storage/service"
	storeRepo "github.com/avmos/SB-AppointmentService/internal/infra/storage/store"
)

// UseCase use case для получения слотов услуги на день
type UseCase struct {
	appointmentRepo AppointmentRepository
	serviceRepo     ServiceRepository
	storeRepo       StoreRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	serviceRepo ServiceRepository,
	storeRepo StoreRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		serviceRepo:     serviceRepo,
		storeRepo:       storeRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения слотов.
// Ответ носит информационный характер: слот может быть занят между просмотром
// и созданием записи, окончательную проверку делает путь создания.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%d, date=%s",
		req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу. Неактивная услуга для клиента не существует.
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.Active {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 4. Получаем магазин с календарными политиками
	store, err := uc.storeRepo.GetByID(ctx, service.StoreID)
	if err != nil {
		if errors.Is(err, storeRepo.ErrStoreNotFound) {
			uc.logger.Warn("GetAvailableSlots: store id=%d not found", service.StoreID)
			return nil, ErrStoreNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get store id=%d: %v", service.StoreID, err)
		return nil, fmt.Errorf("%w: failed to get store: %v", ErrInternal, err)
	}

	loc := store.Location()

	// 5. Валидация даты относительно горизонта записи
	if err := validateDate(req.Date, now, store.AdvanceBookingDays, loc); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 6. Рабочие часы на запрошенный день. Выходной - пустой список.
	day := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, loc)
	hours := store.HoursFor(day.Weekday())
	if !hours.Active {
		uc.logger.Info("GetAvailableSlots: store id=%d is closed on %s", store.ID, day.Weekday())
		return &Response{
			Date:      req.Date,
			StoreID:   store.ID,
			ServiceID: service.ID,
			Slots:     []Slot{},
		}, nil
	}

	// 7. Генерируем слоты с шагом длительности услуги
	slots, err := generateSlots(hours, service.DurationMinutes, day)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	// 8. Отсекаем слоты внутри минимального окна записи.
	// Для будущих дат фильтр ничего не отбрасывает.
	minStart := now.Add(time.Duration(store.MinAdvanceHours) * time.Hour)
	slots = filterByMinStart(slots, minStart)

	// 9. Получаем активные записи услуги за сутки и помечаем занятые слоты
	dayStart, dayEnd := dayBounds(req.Date, loc)
	appointments, err := uc.appointmentRepo.ListOverlapping(ctx, service.ID, dayStart, dayEnd, nil)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
	}

	slots = markOccupied(slots, appointments)

	uc.logger.Info("GetAvailableSlots: generated %d slots for service=%d, date=%s",
		len(slots), service.ID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:      req.Date,
		StoreID:   store.ID,
		ServiceID: service.ID,
		Slots:     slots,
	}, nil
}
