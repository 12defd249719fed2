package handlers

// Машинные коды ошибок интеграционного API. Возвращаются в поле "code"
// и не меняются между версиями, в отличие от текстов сообщений.
const (
	CodeInvalidInput            = "INVALID_INPUT"
	CodeInvalidDate             = "INVALID_DATE"
	CodeInsufficientAdvanceTime = "INSUFFICIENT_ADVANCE_TIME"
	CodeExcessiveAdvanceTime    = "EXCESSIVE_ADVANCE_TIME"
	CodeOutsideWorkingHours     = "OUTSIDE_WORKING_HOURS"
	CodeTimeSlotUnavailable     = "TIME_SLOT_UNAVAILABLE"
	CodeCouponExpired           = "COUPON_EXPIRED"
	CodeCouponNotYetActive      = "COUPON_NOT_YET_ACTIVE"
	CodeMinAmountNotMet         = "MIN_AMOUNT_NOT_MET"
	CodeUsageLimitReached       = "USAGE_LIMIT_REACHED"
	CodeUserUsageLimitReached   = "USER_USAGE_LIMIT_REACHED"
	CodeInvalidStateTransition  = "INVALID_STATE_TRANSITION"
	CodeNotFound                = "NOT_FOUND"
	CodePermissionDenied        = "PERMISSION_DENIED"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeInternalError           = "INTERNAL_ERROR"
)
