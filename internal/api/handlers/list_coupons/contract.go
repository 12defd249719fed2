package list_coupons

import (
	"context"

	"github.com/avmos/SB-AppointmentService/internal/service/coupons/models"
)

type CouponService interface {
	ListByStore(ctx context.Context, storeID int64) (*models.CouponListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
