package get_store_appointments

import (
	"context"

	"github.com/avmos/SB-AppointmentService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetStoreAppointments(ctx context.Context, req *models.GetStoreAppointmentsRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
