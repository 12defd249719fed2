package create_api_key

import (
	"github.com/avmos/SB-AppointmentService/internal/auth"
	"github.com/avmos/SB-AppointmentService/internal/service/apikeys/models"
)

// CapabilityRequest строка запрашиваемых прав ключа
type CapabilityRequest struct {
	Resource string   `json:"resource"`
	Actions  []string `json:"actions"`
}

// CreateAPIKeyRequest HTTP request model
type CreateAPIKeyRequest struct {
	Name         string              `json:"name"`
	CompanyID    *int64              `json:"companyId,omitempty"`
	StoreID      *int64              `json:"storeId,omitempty"`
	Capabilities []CapabilityRequest `json:"capabilities"`
	PreConfirm   bool                `json:"preConfirm,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса.
// Валидация ресурсов и действий остается за сервисом.
func (r *CreateAPIKeyRequest) ToServiceRequest() *models.CreateAPIKeyRequest {
	caps := make([]auth.Capability, len(r.Capabilities))
	for i, c := range r.Capabilities {
		actions := make([]auth.Action, len(c.Actions))
		for j, a := range c.Actions {
			actions[j] = auth.Action(a)
		}
		caps[i] = auth.Capability{
			Resource: auth.Resource(c.Resource),
			Actions:  actions,
		}
	}

	return &models.CreateAPIKeyRequest{
		Name:         r.Name,
		CompanyID:    r.CompanyID,
		StoreID:      r.StoreID,
		Capabilities: caps,
		PreConfirm:   r.PreConfirm,
	}
}
