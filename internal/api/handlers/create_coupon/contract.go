package create_coupon

import (
	"context"

	"github.com/avmos/SB-AppointmentService/internal/service/coupons/models"
)

type CouponService interface {
	Create(ctx context.Context, storeID int64, req *models.CreateCouponRequest) (*models.CouponResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
