package coupons

import (
	"context"
	"errors"
	"fmt"

	"github.com/avmos/SB-AppointmentService/internal/auth"
	"github.com/avmos/SB-AppointmentService/internal/domain"
	couponRepo "github.com/avmos/SB-AppointmentService/internal/infra/storage/coupon"
	storeRepo "github.com/avmos/SB-AppointmentService/internal/infra/storage/store"
	"github.com/avmos/SB-AppointmentService/internal/service/coupons/models"
)

// Service сервис для работы с купонами магазина
type Service struct {
	couponRepo   CouponRepository
	storeRepo    StoreRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса купонов
func NewService(
	couponRepo CouponRepository,
	storeRepo StoreRepository,
	logger Logger,
) *Service {
	return &Service{
		couponRepo:   couponRepo,
		storeRepo:    storeRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Create создает купон магазина. Код нормализуется и уникален в пределах
// магазина.
func (s *Service) Create(ctx context.Context, storeID int64, req *models.CreateCouponRequest) (*models.CouponResponse, error) {
	s.logger.Info("Create: creating coupon %q for store=%d", req.Code, storeID)

	if err := s.checkScope(ctx, storeID, auth.ActionCreate); err != nil {
		s.logger.Warn("Create: access denied to store=%d", storeID)
		return nil, err
	}

	coupon := req.ToDomainCoupon(storeID)
	if err := coupon.Validate(); err != nil {
		s.logger.Warn("Create: validation failed for store=%d: %v", storeID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.couponRepo.Create(ctx, coupon)
	if err != nil {
		if errors.Is(err, couponRepo.ErrDuplicateCode) {
			s.logger.Warn("Create: coupon code %q already exists in store=%d", coupon.Code, storeID)
			return nil, ErrDuplicateCode
		}
		s.logger.Error("Create: repository error for store=%d: %v", storeID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created coupon id=%d for store=%d", created.ID, storeID)
	return models.FromDomainCoupon(created), nil
}

// ListByStore получает купоны магазина. Купоны не публичны:
// список доступен только в области видимости магазина.
func (s *Service) ListByStore(ctx context.Context, storeID int64) (*models.CouponListResponse, error) {
	s.logger.Info("ListByStore: fetching coupons for store=%d", storeID)

	if err := s.checkScope(ctx, storeID, auth.ActionRead); err != nil {
		s.logger.Warn("ListByStore: access denied to store=%d", storeID)
		return nil, err
	}

	coupons, err := s.couponRepo.ListByStore(ctx, storeID)
	if err != nil {
		s.logger.Error("ListByStore: repository error for store=%d: %v", storeID, err)
		return nil, fmt.Errorf("%w: ListByStore - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByStore: successfully fetched %d coupons for store=%d", len(coupons), storeID)
	return models.FromDomainCouponList(coupons), nil
}

// Update обновляет купон. Код неизменяем: клиенты могли его уже сохранить.
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateCouponRequest) (*models.CouponResponse, error) {
	s.logger.Info("Update: updating coupon id=%d", id)

	coupon, err := s.getScoped(ctx, id, auth.ActionUpdate)
	if err != nil {
		return nil, err
	}

	if req.Value != nil {
		coupon.Value = *req.Value
	}
	if req.MinAmount != nil {
		coupon.MinAmount = req.MinAmount
	}
	if req.MaxDiscount != nil {
		coupon.MaxDiscount = req.MaxDiscount
	}
	if req.UsageLimit != nil {
		coupon.UsageLimit = req.UsageLimit
	}
	if req.UserUsageLimit != nil {
		coupon.UserUsageLimit = req.UserUsageLimit
	}
	if req.StartsAt != nil {
		coupon.StartsAt = req.StartsAt
	}
	if req.EndsAt != nil {
		coupon.EndsAt = req.EndsAt
	}
	if req.Active != nil {
		coupon.Active = *req.Active
	}

	if err := coupon.Validate(); err != nil {
		s.logger.Warn("Update: validation failed for coupon id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.couponRepo.Update(ctx, coupon); err != nil {
		if errors.Is(err, couponRepo.ErrCouponNotFound) {
			return nil, ErrCouponNotFound
		}
		s.logger.Error("Update: repository error for coupon id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated coupon id=%d", id)
	return models.FromDomainCoupon(coupon), nil
}

// Deactivate деактивирует купон. Записи, уже созданные с ним, не трогаются.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	s.logger.Info("Deactivate: deactivating coupon id=%d", id)

	if _, err := s.getScoped(ctx, id, auth.ActionDelete); err != nil {
		return err
	}

	if err := s.couponRepo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, couponRepo.ErrCouponNotFound) {
			return ErrCouponNotFound
		}
		s.logger.Error("Deactivate: repository error for coupon id=%d: %v", id, err)
		return fmt.Errorf("%w: Deactivate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Deactivate: successfully deactivated coupon id=%d", id)
	return nil
}

// Validate выполняет предварительную проверку купона без расхода лимита.
// Проверки и порядок те же, что на пути создания записи: окно действия,
// минимальная сумма, лимиты. Результат информационный.
func (s *Service) Validate(ctx context.Context, storeID int64, req *models.ValidateCouponRequest) (*models.ValidateCouponResponse, error) {
	s.logger.Info("Validate: validating coupon %q for store=%d, amount=%.2f", req.Code, storeID, req.Amount)

	if domain.NormalizeCouponCode(req.Code) == "" {
		return nil, fmt.Errorf("%w: code is required", ErrInvalidInput)
	}
	if req.Amount < 0 {
		return nil, fmt.Errorf("%w: amount must be non-negative", ErrInvalidInput)
	}

	coupon, err := s.couponRepo.GetByStoreAndCode(ctx, storeID, domain.NormalizeCouponCode(req.Code))
	if err != nil {
		if errors.Is(err, couponRepo.ErrCouponNotFound) {
			s.logger.Warn("Validate: coupon %q not found in store=%d", req.Code, storeID)
			return nil, ErrCouponNotFound
		}
		s.logger.Error("Validate: repository error for store=%d: %v", storeID, err)
		return nil, fmt.Errorf("%w: Validate - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()

	switch coupon.WindowAt(now) {
	case domain.WindowNotYetActive:
		s.logger.Warn("Validate: coupon %q is not yet active", coupon.Code)
		return nil, ErrCouponNotYetActive
	case domain.WindowExpired:
		s.logger.Warn("Validate: coupon %q has expired", coupon.Code)
		return nil, ErrCouponExpired
	}

	if coupon.MinAmount != nil && req.Amount < *coupon.MinAmount {
		s.logger.Warn("Validate: coupon %q requires min amount %.2f, got %.2f", coupon.Code, *coupon.MinAmount, req.Amount)
		return nil, ErrMinAmountNotMet
	}

	if coupon.UsageLimit != nil {
		used, err := s.couponRepo.CountUsages(ctx, coupon.ID)
		if err != nil {
			s.logger.Error("Validate: failed to count usages for coupon id=%d: %v", coupon.ID, err)
			return nil, fmt.Errorf("%w: Validate - failed to count usages: %v", ErrInternal, err)
		}
		if used >= *coupon.UsageLimit {
			s.logger.Warn("Validate: coupon %q usage limit %d reached", coupon.Code, *coupon.UsageLimit)
			return nil, ErrUsageLimitReached
		}
	}

	if coupon.UserUsageLimit != nil && req.ClientEmail != "" {
		used, err := s.couponRepo.CountUsagesByClient(ctx, coupon.ID, req.ClientEmail)
		if err != nil {
			s.logger.Error("Validate: failed to count client usages for coupon id=%d: %v", coupon.ID, err)
			return nil, fmt.Errorf("%w: Validate - failed to count client usages: %v", ErrInternal, err)
		}
		if used >= *coupon.UserUsageLimit {
			s.logger.Warn("Validate: coupon %q per-client limit %d reached for %s",
				coupon.Code, *coupon.UserUsageLimit, req.ClientEmail)
			return nil, ErrUserUsageLimitReached
		}
	}

	discount := coupon.DiscountFor(req.Amount)

	s.logger.Info("Validate: coupon %q is valid, discount=%.2f", coupon.Code, discount)
	return &models.ValidateCouponResponse{
		Valid:      true,
		Discount:   discount,
		FinalPrice: coupon.FinalPrice(req.Amount),
	}, nil
}

// Вспомогательные методы

// getScoped читает купон и проверяет область видимости вызывающего
func (s *Service) getScoped(ctx context.Context, id int64, action auth.Action) (*domain.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, couponRepo.ErrCouponNotFound) {
			s.logger.Warn("getScoped: coupon id=%d not found", id)
			return nil, ErrCouponNotFound
		}
		s.logger.Error("getScoped: repository error for coupon id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: getScoped - repository error: %v", ErrInternal, err)
	}

	if err := s.checkScope(ctx, coupon.StoreID, action); err != nil {
		s.logger.Warn("getScoped: access denied to coupon id=%d", id)
		return nil, err
	}

	return coupon, nil
}

// checkScope проверяет, что магазин входит в область видимости вызывающего
func (s *Service) checkScope(ctx context.Context, storeID int64, action auth.Action) error {
	caller := auth.CallerFromContext(ctx)
	if caller == nil {
		return ErrAccessDenied
	}

	if !caller.Can(auth.ResourceCoupons, action) {
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
