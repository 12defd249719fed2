package get_store_appointments

import (
	"strconv"
	"time"

	"github.com/avmos/SB-AppointmentService/internal/domain"
	"github.com/avmos/SB-AppointmentService/internal/service/appointments/models"
)

// ToServiceRequest собирает запрос к сервису из path и query параметров.
// Все query параметры опциональны.
func ToServiceRequest(storeID int64, serviceIDStr, startDateStr, endDateStr, statusStr, includeInactiveStr string) (*models.GetStoreAppointmentsRequest, error) {
	req := &models.GetStoreAppointmentsRequest{
		StoreID: storeID,
	}

	if serviceIDStr != "" {
		serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ServiceID = &serviceID
	}

	if startDateStr != "" {
		startDate, err := time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &startDate
	}

	if endDateStr != "" {
		endDate, err := time.Parse(domain.DateFormat, endDateStr)
		if err != nil {
			return nil, err
		}
		// Конец периода включает весь указанный день
		endOfDay := endDate.Add(24 * time.Hour)
		req.EndDate = &endOfDay
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, err
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
