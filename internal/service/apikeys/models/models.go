package models

import (
	"time"

	"github.com/avmos/SB-AppointmentService/internal/auth"
)

// CreateAPIKeyRequest запрос на выпуск интеграционного ключа.
// Ключ привязывается не более чем к одному из CompanyID/StoreID;
// без привязки выпускается платформенный ключ.
type CreateAPIKeyRequest struct {
	Name         string            `json:"name"`
	CompanyID    *int64            `json:"companyId,omitempty"`
	StoreID      *int64            `json:"storeId,omitempty"`
	Capabilities []auth.Capability `json:"capabilities"`
	PreConfirm   bool              `json:"preConfirm,omitempty"`
}

// CreateAPIKeyResponse ответ с выпущенным ключом.
// Key показывается ровно один раз: хранится только хэш секрета.
type CreateAPIKeyResponse struct {
	ID           int64             `json:"id"`
	Key          string            `json:"key"`
	KeyID        string            `json:"keyId"`
	Name         string            `json:"name"`
	CompanyID    *int64            `json:"companyId,omitempty"`
	StoreID      *int64            `json:"storeId,omitempty"`
	Capabilities []auth.Capability `json:"capabilities"`
	PreConfirm   bool              `json:"preConfirm"`
	CreatedAt    time.Time         `json:"createdAt"`
}
