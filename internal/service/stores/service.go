package stores

import (
	"context"
	"errors"
	"fmt"

	"github.com/avmos/SB-AppointmentService/internal/auth"
	"github.com/avmos/SB-AppointmentService/internal/domain"
	storeRepo "github.com/avmos/SB-AppointmentService/internal/infra/storage/store"
	"github.com/avmos/SB-AppointmentService/internal/service/stores/models"
)

// Service сервис для работы с календарной конфигурацией магазинов
type Service struct {
	storeRepo StoreRepository
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса магазинов
func NewService(
	storeRepo StoreRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		storeRepo: storeRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// GetConfig возвращает календарную конфигурацию магазина.
// Конфигурация публична: её видит любой клиент, выбирающий время записи.
func (s *Service) GetConfig(ctx context.Context, storeID int64) (*models.StoreConfigResponse, error) {
	s.logger.Info("GetConfig: fetching config for store=%d", storeID)

	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, storeRepo.ErrStoreNotFound) {
			s.logger.Warn("GetConfig: store id=%d not found", storeID)
			return nil, ErrStoreNotFound
		}
		s.logger.Error("GetConfig: repository error for store=%d: %v", storeID, err)
		return nil, fmt.Errorf("%w: GetConfig - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetConfig: successfully fetched config for store=%d", storeID)
	return models.FromDomainStore(store), nil
}

// UpdateConfig обновляет календарные политики и недельную таблицу рабочих
// часов магазина. Замена таблицы атомарна: удаление и повторная вставка
// идут в одной транзакции.
func (s *Service) UpdateConfig(ctx context.Context, storeID int64, req *models.UpdateStoreConfigRequest) (*models.StoreConfigResponse, error) {
	s.logger.Info("UpdateConfig: updating config for store=%d", storeID)

	if err := validateConfigRequest(req); err != nil {
		s.logger.Warn("UpdateConfig: validation failed for store=%d: %v", storeID, err)
		return nil, err
	}

	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, storeRepo.ErrStoreNotFound) {
			s.logger.Warn("UpdateConfig: store id=%d not found", storeID)
			return nil, ErrStoreNotFound
		}
		s.logger.Error("UpdateConfig: repository error for store=%d: %v", storeID, err)
		return nil, fmt.Errorf("%w: UpdateConfig - repository error: %v", ErrInternal, err)
	}

	if err := s.checkScope(ctx, store); err != nil {
		s.logger.Warn("UpdateConfig: access denied to store=%d", storeID)
		return nil, err
	}

	hours, err := req.WorkingHours.ToDomainWorkingHours()
	if err != nil {
		s.logger.Warn("UpdateConfig: invalid working hours for store=%d: %v", storeID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.storeRepo.UpdateCalendarConfig(txCtx, storeID, req.MinAdvanceHours, req.AdvanceBookingDays, hours)
	})
	if err != nil {
		s.logger.Error("UpdateConfig: failed to update config for store=%d: %v", storeID, err)
		return nil, fmt.Errorf("%w: UpdateConfig - failed to update config: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateConfig: successfully updated config for store=%d", storeID)

	updated, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		s.logger.Error("UpdateConfig: failed to re-read store=%d: %v", storeID, err)
		return nil, fmt.Errorf("%w: UpdateConfig - failed to re-read store: %v", ErrInternal, err)
	}

	return models.FromDomainStore(updated), nil
}

// validateConfigRequest проверяет границы календарных политик
func validateConfigRequest(req *models.UpdateStoreConfigRequest) error {
	if req.MinAdvanceHours < domain.MinAdvanceHoursLimit || req.MinAdvanceHours > domain.MaxAdvanceHoursLimit {
		return fmt.Errorf("%w: minAdvanceHours must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceHoursLimit, domain.MaxAdvanceHoursLimit)
	}

	if req.AdvanceBookingDays < 0 || req.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between 0 and %d",
			ErrInvalidInput, domain.MaxAdvanceBookingDays)
	}

	return nil
}

// checkScope проверяет, что магазин входит в область видимости вызывающего
func (s *Service) checkScope(ctx context.Context, store *domain.Store) error {
	caller := auth.CallerFromContext(ctx)
	if caller == nil {
		return ErrAccessDenied
	}

	if !caller.Can(auth.ResourceStores, auth.ActionUpdate) {
		return ErrAccessDenied
	}

	if !caller.AllowsStore(store.ID, store.CompanyID) {
		return ErrAccessDenied
	}

	return nil
}
