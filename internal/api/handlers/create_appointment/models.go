package create_appointment

import (
	"time"

	createAppointment "github.com/avmos/SB-AppointmentService/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ServiceID int64  `json:"serviceId"`
	StartsAt  string `json:"startsAt"` // RFC 3339, например "2026-09-15T10:00:00+03:00"

	ClientName  string `json:"clientName"`
	ClientEmail string `json:"clientEmail"`
	ClientPhone string `json:"clientPhone,omitempty"`

	CouponCode *string `json:"couponCode,omitempty"`
	Notes      *string `json:"notes,omitempty"`

	// Confirm запрашивает создание сразу в статусе confirmed.
	// Учитывается только для доверенных вызывающих.
	Confirm bool `json:"confirm,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64  `json:"id"`
	StoreID         int64  `json:"storeId"`
	ServiceID       int64  `json:"serviceId"`
	StartsAt        string `json:"startsAt"`
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`

	ClientName  string `json:"clientName"`
	ClientEmail string `json:"clientEmail"`
	ClientPhone string `json:"clientPhone,omitempty"`

	RawPrice   float64 `json:"rawPrice"`
	Discount   float64 `json:"discount"`
	TotalPrice float64 `json:"totalPrice"`
	CouponID   *int64  `json:"couponId,omitempty"`

	Notes *string `json:"notes,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// confirm передается уже с учетом доверия вызывающего.
func (r *CreateAppointmentRequest) ToUseCaseRequest(confirm bool) (*createAppointment.Request, error) {
	startsAt, err := time.Parse(time.RFC3339, r.StartsAt)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		ServiceID:   r.ServiceID,
		StartsAt:    startsAt,
		ClientName:  r.ClientName,
		ClientEmail: r.ClientEmail,
		ClientPhone: r.ClientPhone,
		CouponCode:  r.CouponCode,
		Notes:       r.Notes,
		Confirm:     confirm,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		StoreID:         resp.StoreID,
		ServiceID:       resp.ServiceID,
		StartsAt:        resp.StartsAt.Format(time.RFC3339),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		ClientName:      resp.ClientName,
		ClientEmail:     resp.ClientEmail,
		ClientPhone:     resp.ClientPhone,
		RawPrice:        resp.RawPrice,
		Discount:        resp.Discount,
		TotalPrice:      resp.TotalPrice,
		CouponID:        resp.CouponID,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
