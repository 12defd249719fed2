package create_api_key

import (
	"errors"
	"net/http"

	"github.com/avmos/SB-AppointmentService/internal/api/handlers"
	"github.com/avmos/SB-AppointmentService/internal/service/apikeys"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgForbidden          = "доступ запрещен"
	msgInvalidData        = "некорректные данные ключа"
)

type Handler struct {
	service APIKeyService
	logger  Logger
}

func NewHandler(service APIKeyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/api-keys
// Выпуск интеграционного ключа. Сырой ключ возвращается один раз.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAPIKeyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /api-keys - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidRequestBody)
		return
	}

	serviceReq := req.ToServiceRequest()

	result, err := h.service.Create(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, apikeys.ErrAccessDenied):
			h.logger.Warn("POST /api-keys - Access denied: name=%s", req.Name)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, apikeys.ErrInvalidInput):
			h.logger.Warn("POST /api-keys - Invalid data: name=%s, error=%v", req.Name, err)
			handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidData)

		default:
			h.logger.Error("POST /api-keys - Failed to create api key: name=%s, error=%v", req.Name, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /api-keys - API key created successfully: key_id=%s, name=%s", result.KeyID, result.Name)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
