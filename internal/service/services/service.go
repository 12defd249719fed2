package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/avmos/SB-AppointmentService/internal/auth"
	"github.com/avmos/SB-AppointmentService/internal/domain"
	serviceRepo "github.com/avmos/SB-AppointmentService/internal/infra/storage/service"
	storeRepo "github.com/avmos/SB-AppointmentService/internal/infra/storage/store"
	"github.com/avmos/SB-AppointmentService/internal/service/services/models"
)

// Service сервис для работы с каталогом услуг
type Service struct {
	serviceRepo     ServiceRepository
	appointmentRepo AppointmentRepository
	storeRepo       StoreRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(
	serviceRepo ServiceRepository,
	appointmentRepo AppointmentRepository,
	storeRepo StoreRepository,
	logger Logger,
) *Service {
	return &Service{
		serviceRepo:     serviceRepo,
		appointmentRepo: appointmentRepo,
		storeRepo:       storeRepo,
		logger:          logger,
	}
}

// Create добавляет услугу в каталог магазина
func (s *Service) Create(ctx context.Context, storeID int64, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Create: creating service %q for store=%d", req.Name, storeID)

	if err := s.checkScope(ctx, storeID, auth.ActionCreate); err != nil {
		s.logger.Warn("Create: access denied to store=%d", storeID)
		return nil, err
	}

	svc := &domain.Service{
		StoreID:         storeID,
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Active:          true,
	}

	if err := svc.Validate(); err != nil {
		s.logger.Warn("Create: validation failed for store=%d: %v", storeID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.serviceRepo.Create(ctx, svc)
	if err != nil {
		s.logger.Error("Create: repository error for store=%d: %v", storeID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created service id=%d for store=%d", created.ID, storeID)
	return models.FromDomainService(created), nil
}

// GetByID получает услугу по ID. Каталог публичен, но неактивная услуга
// видна только вызывающим с областью видимости её магазина.
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ServiceResponse, error) {
	s.logger.Info("GetByID: fetching service id=%d", id)

	svc, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("GetByID: service id=%d not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetByID: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !svc.Active {
		if err := s.checkScope(ctx, svc.StoreID, auth.ActionRead); err != nil {
			s.logger.Warn("GetByID: inactive service id=%d hidden from caller", id)
			return nil, ErrServiceNotFound
		}
	}

	s.logger.Info("GetByID: successfully fetched service id=%d", id)
	return models.FromDomainService(svc), nil
}

// ListByStore получает каталог магазина. Гости видят только активные услуги,
// вызывающие с областью видимости магазина - весь каталог.
func (s *Service) ListByStore(ctx context.Context, storeID int64) (*models.ServiceListResponse, error) {
	s.logger.Info("ListByStore: fetching services for store=%d", storeID)

	activeOnly := s.checkScope(ctx, storeID, auth.ActionRead) != nil

	servicesList, err := s.serviceRepo.ListByStore(ctx, storeID, activeOnly)
	if err != nil {
		s.logger.Error("ListByStore: repository error for store=%d: %v", storeID, err)
		return nil, fmt.Errorf("%w: ListByStore - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByStore: successfully fetched %d services for store=%d", len(servicesList), storeID)
	return models.FromDomainServiceList(servicesList), nil
}

// Update обновляет услугу. StoreID неизменяем: услуга не переезжает
// между магазинами.
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Update: updating service id=%d", id)

	svc, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("Update: service id=%d not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Update: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	if err := s.checkScope(ctx, svc.StoreID, auth.ActionUpdate); err != nil {
		s.logger.Warn("Update: access denied to service id=%d", id)
		return nil, err
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.DurationMinutes != nil {
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := svc.Validate(); err != nil {
		s.logger.Warn("Update: validation failed for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.serviceRepo.Update(ctx, svc); err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Update: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated service id=%d", id)
	return models.FromDomainService(svc), nil
}

// Delete удаляет услугу из каталога. Услуга, на которую ссылаются записи,
// не удаляется, а деактивируется: история должна оставаться читаемой.
func (s *Service) Delete(ctx context.Context, id int64) (*models.DeleteServiceResponse, error) {
	s.logger.Info("Delete: deleting service id=%d", id)

	svc, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("Delete: service id=%d not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Delete: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	if err := s.checkScope(ctx, svc.StoreID, auth.ActionDelete); err != nil {
		s.logger.Warn("Delete: access denied to service id=%d", id)
		return nil, err
	}

	referenced, err := s.appointmentRepo.HasAnyForService(ctx, id)
	if err != nil {
		s.logger.Error("Delete: failed to check references for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Delete - failed to check references: %v", ErrInternal, err)
	}

	if referenced {
		if err := s.serviceRepo.Deactivate(ctx, id); err != nil {
			s.logger.Error("Delete: failed to deactivate service id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: Delete - failed to deactivate: %v", ErrInternal, err)
		}
		s.logger.Info("Delete: service id=%d has appointments, deactivated instead", id)
		return &models.DeleteServiceResponse{Deactivated: true}, nil
	}

	if err := s.serviceRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Delete: failed to delete service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Delete - failed to delete: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted service id=%d", id)
	return &models.DeleteServiceResponse{Deleted: true}, nil
}

// checkScope проверяет, что магазин входит в область видимости вызывающего
func (s *Service) checkScope(ctx context.Context, storeID int64, action auth.Action) error {
	caller := auth.CallerFromContext(ctx)
	if caller == nil {
		return ErrAccessDenied
	}

	if !caller.Can(auth.ResourceServices, action) {
		return ErrAccessDenied
	}

	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, storeRepo.ErrStoreNotFound) {
			return ErrStoreNotFound
		}
		s.logger.Error("checkScope: failed to get store id=%d: %v", storeID, err)
		return fmt.Errorf("%w: checkScope - failed to get store: %v", ErrInternal, err)
	}

	if !caller.AllowsStore(store.ID, store.CompanyID) {
		return ErrAccessDenied
	}

	return nil
}
