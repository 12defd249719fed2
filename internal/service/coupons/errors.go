package coupons

import "errors"

var (
	// ErrCouponNotFound возвращается, когда купон не найден
	ErrCouponNotFound = errors.New("coupon not found")

	// ErrStoreNotFound возвращается, когда магазин не найден
	ErrStoreNotFound = errors.New("store not found")

	// ErrDuplicateCode возвращается, когда код купона уже занят в магазине
	ErrDuplicateCode = errors.New("coupon code already exists")

	// ErrAccessDenied возвращается, когда купон вне области видимости вызывающего
	ErrAccessDenied = errors.New("access denied")

	// ErrCouponNotYetActive возвращается, когда окно действия еще не началось
	ErrCouponNotYetActive = errors.New("coupon is not yet active")

	// ErrCouponExpired возвращается, когда окно действия истекло
	ErrCouponExpired = errors.New("coupon has expired")

	// ErrMinAmountNotMet возвращается, когда сумма ниже порога купона
	ErrMinAmountNotMet = errors.New("minimum amount not met")

	// ErrUsageLimitReached возвращается при исчерпании глобального лимита
	ErrUsageLimitReached = errors.New("coupon usage limit reached")

	// ErrUserUsageLimitReached возвращается при исчерпании лимита клиента
	ErrUserUsageLimitReached = errors.New("coupon usage limit for this client reached")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
