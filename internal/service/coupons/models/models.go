package models

import (
	"time"

	"github.com/avmos/SB-AppointmentService/internal/domain"
)

// Request модели

// CreateCouponRequest запрос на создание купона
type CreateCouponRequest struct {
	Code           string     `json:"code"`
	Type           string     `json:"type"` // "percentage" | "fixed_amount"
	Value          float64    `json:"value"`
	MinAmount      *float64   `json:"minAmount,omitempty"`
	MaxDiscount    *float64   `json:"maxDiscount,omitempty"`
	UsageLimit     *int       `json:"usageLimit,omitempty"`
	UserUsageLimit *int       `json:"userUsageLimit,omitempty"`
	StartsAt       *time.Time `json:"startsAt,omitempty"`
	EndsAt         *time.Time `json:"endsAt,omitempty"`
}

// UpdateCouponRequest запрос на обновление купона.
// Nil поле означает "не менять". Код купона неизменяем.
type UpdateCouponRequest struct {
	Value          *float64   `json:"value,omitempty"`
	MinAmount      *float64   `json:"minAmount,omitempty"`
	MaxDiscount    *float64   `json:"maxDiscount,omitempty"`
	UsageLimit     *int       `json:"usageLimit,omitempty"`
	UserUsageLimit *int       `json:"userUsageLimit,omitempty"`
	StartsAt       *time.Time `json:"startsAt,omitempty"`
	EndsAt         *time.Time `json:"endsAt,omitempty"`
	Active         *bool      `json:"active,omitempty"`
}

// ValidateCouponRequest запрос на предварительную проверку купона
type ValidateCouponRequest struct {
	Code        string  `json:"code"`
	Amount      float64 `json:"amount"`
	ClientEmail string  `json:"clientEmail,omitempty"`
}

// Response модели

// CouponResponse ответ с данными купона
type CouponResponse struct {
	ID             int64      `json:"id"`
	StoreID        int64      `json:"storeId"`
	Code           string     `json:"code"`
	Type           string     `json:"type"`
	Value          float64    `json:"value"`
	MinAmount      *float64   `json:"minAmount,omitempty"`
	MaxDiscount    *float64   `json:"maxDiscount,omitempty"`
	UsageLimit     *int       `json:"usageLimit,omitempty"`
	UserUsageLimit *int       `json:"userUsageLimit,omitempty"`
	StartsAt       *time.Time `json:"startsAt,omitempty"`
	EndsAt         *time.Time `json:"endsAt,omitempty"`
	Active         bool       `json:"active"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// CouponListResponse ответ со списком купонов магазина
type CouponListResponse struct {
	Coupons []CouponResponse `json:"coupons"`
}

// ValidateCouponResponse результат предварительной проверки купона.
// Проверка информационная: лимиты могут исчерпаться между проверкой
// и созданием записи.
type ValidateCouponResponse struct {
	Valid      bool    `json:"valid"`
	Discount   float64 `json:"discount"`
	FinalPrice float64 `json:"finalPrice"`
}

// Методы конвертации

// ToDomainCoupon конвертирует запрос создания в domain модель
func (r *CreateCouponRequest) ToDomainCoupon(storeID int64) *domain.Coupon {
	return &domain.Coupon{
		StoreID:        storeID,
		Code:           domain.NormalizeCouponCode(r.Code),
		Type:           domain.CouponType(r.Type),
		Value:          r.Value,
		MinAmount:      r.MinAmount,
		MaxDiscount:    r.MaxDiscount,
		UsageLimit:     r.UsageLimit,
		UserUsageLimit: r.UserUsageLimit,
		StartsAt:       r.StartsAt,
		EndsAt:         r.EndsAt,
		Active:         true,
	}
}

// FromDomainCoupon конвертирует domain модель в DTO
func FromDomainCoupon(c *domain.Coupon) *CouponResponse {
	if c == nil {
		return nil
	}

	return &CouponResponse{
		ID:             c.ID,
		StoreID:        c.StoreID,
		Code:           c.Code,
		Type:           string(c.Type),
		Value:          c.Value,
		MinAmount:      c.MinAmount,
		MaxDiscount:    c.MaxDiscount,
		UsageLimit:     c.UsageLimit,
		UserUsageLimit: c.UserUsageLimit,
		StartsAt:       c.StartsAt,
		EndsAt:         c.EndsAt,
		Active:         c.Active,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// FromDomainCouponList конвертирует список domain моделей в DTO
func FromDomainCouponList(coupons []*domain.Coupon) *CouponListResponse {
	if coupons == nil {
		return &CouponListResponse{
			Coupons: []CouponResponse{},
		}
	}

	resp := &CouponListResponse{
		Coupons: make([]CouponResponse, len(coupons)),
	}

	for i, c := range coupons {
		if cResp := FromDomainCoupon(c); cResp != nil {
			resp.Coupons[i] = *cResp
		}
	}

	return resp
}
