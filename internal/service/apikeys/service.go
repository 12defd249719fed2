package apikeys

import (
	"context"
	"fmt"

	"github.com/avmos/SB-AppointmentService/internal/auth"
	"github.com/avmos/SB-AppointmentService/internal/service/apikeys/models"
)

// Service сервис выпуска интеграционных API ключей
type Service struct {
	apiKeyRepo APIKeyRepository
	logger     Logger
}

// NewService создает новый экземпляр сервиса ключей
func NewService(apiKeyRepo APIKeyRepository, logger Logger) *Service {
	return &Service{
		apiKeyRepo: apiKeyRepo,
		logger:     logger,
	}
}

// Create выпускает новый API ключ. Доступно только администратору платформы.
// Сырой ключ возвращается один раз, дальше хранится только bcrypt-хэш секрета.
func (s *Service) Create(ctx context.Context, req *models.CreateAPIKeyRequest) (*models.CreateAPIKeyResponse, error) {
	s.logger.Info("Create: issuing api key %q", req.Name)

	caller := auth.CallerFromContext(ctx)
	if caller == nil || caller.Kind != auth.CallerSession || caller.Role != auth.RoleAdmin {
		s.logger.Warn("Create: api key issuance denied")
		return nil, ErrAccessDenied
	}

	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if req.CompanyID != nil && req.StoreID != nil {
		return nil, fmt.Errorf("%w: at most one of companyId and storeId may be set", ErrInvalidInput)
	}
	if len(req.Capabilities) == 0 {
		return nil, fmt.Errorf("%w: at least one capability is required", ErrInvalidInput)
	}

	caps, err := auth.NewCapabilitySet(req.Capabilities)
	if err != nil {
		s.logger.Warn("Create: invalid capabilities for key %q: %v", req.Name, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	raw, keyID, secretHash, err := auth.GenerateAPIKey()
	if err != nil {
		s.logger.Error("Create: failed to generate api key: %v", err)
		return nil, fmt.Errorf("%w: Create - failed to generate key: %v", ErrInternal, err)
	}

	key := &auth.APIKey{
		KeyID:      keyID,
		SecretHash: secretHash,
		Name:       req.Name,
		CompanyID:  req.CompanyID,
		StoreID:    req.StoreID,
		Caps:       caps,
		PreConfirm: req.PreConfirm,
		Active:     true,
	}

	created, err := s.apiKeyRepo.Create(ctx, key)
	if err != nil {
		s.logger.Error("Create: repository error for key %q: %v", req.Name, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully issued api key id=%d, keyId=%s", created.ID, created.KeyID)

	return &models.CreateAPIKeyResponse{
		ID:           created.ID,
		Key:          raw,
		KeyID:        created.KeyID,
		Name:         created.Name,
		CompanyID:    created.CompanyID,
		StoreID:      created.StoreID,
		Capabilities: caps.Rows(),
		PreConfirm:   created.PreConfirm,
		CreatedAt:    created.CreatedAt,
	}, nil
}
