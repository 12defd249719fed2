package create_appointment

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrStoreNotFound возвращается, когда магазин не найден
	ErrStoreNotFound = errors.New("create_appointment: store not found")

	// ErrInvalidDate возвращается, когда время начала в прошлом или некорректно
	ErrInvalidDate = errors.New("create_appointment: invalid start date")

	// ErrInsufficientAdvanceTime возвращается при нарушении минимального окна записи
	ErrInsufficientAdvanceTime = errors.New("create_appointment: insufficient advance time")

	// ErrExcessiveAdvanceTime возвращается при превышении максимального горизонта записи
	ErrExcessiveAdvanceTime = errors.New("create_appointment: date is too far in the future")

	// ErrOutsideWorkingHours возвращается, когда запись не помещается в рабочие часы
	ErrOutsideWorkingHours = errors.New("create_appointment: outside working hours")

	// ErrSlotNotAvailable возвращается, когда слот занят другой активной записью
	ErrSlotNotAvailable = errors.New("create_appointment: time slot is not available")

	// ErrCouponNotFound возвращается, когда купон с таким кодом не найден в магазине
	ErrCouponNotFound = errors.New("create_appointment: coupon not found")

	// ErrCouponNotYetActive возвращается, когда окно действия купона еще не началось
	ErrCouponNotYetActive = errors.New("create_appointment: coupon is not yet active")

	// ErrCouponExpired возвращается, когда окно действия купона истекло
	ErrCouponExpired = errors.New("create_appointment: coupon has expired")

	// ErrMinAmountNotMet возвращается, когда цена услуги ниже порога купона
	ErrMinAmountNotMet = errors.New("create_appointment: minimum amount not met")

	// ErrUsageLimitReached возвращается при исчерпании глобального лимита купона
	ErrUsageLimitReached = errors.New("create_appointment: coupon usage limit reached")

	// ErrUserUsageLimitReached возвращается при исчерпании лимита купона для клиента
	ErrUserUsageLimitReached = errors.New("create_appointment: coupon usage limit for this client reached")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
