package update_coupon

import (
	"context"

	"github.com/avmos/SB-AppointmentService/internal/service/coupons/models"
)

type CouponService interface {
	Update(ctx context.Context, id int64, req *models.UpdateCouponRequest) (*models.CouponResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
