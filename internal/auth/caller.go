package auth

import "context"

// Role роль сессионного пользователя
type Role string

const (
	RoleAdmin Role = "admin" // platform-wide, unrestricted
	RoleOwner Role = "owner" // restricted to owned stores
)

// CallerKind источник вызова
type CallerKind string

const (
	CallerSession CallerKind = "session"
	CallerAPIKey  CallerKind = "api_key"
)

// Caller описывает аутентифицированного вызывающего после разбора
// сессионного токена или API ключа. Все компоненты ниже фильтра
// арендатора работают только с уже определенной областью видимости.
type Caller struct {
	Kind CallerKind

	// Session caller
	UserID   int64
	Role     Role
	StoreIDs []int64 // stores owned by the session user

	// API key caller
	APIKeyID   *int64
	CompanyID  *int64 // at most one of CompanyID/StoreID is set
	StoreID    *int64
	Caps       CapabilitySet
	PreConfirm bool // key is trusted to create appointments directly in confirmed
}

// Can проверяет право на действие над ресурсом.
// Сессионные пользователи не ограничены списком capabilities:
// их область определяется ролью и принадлежностью магазина.
func (c *Caller) Can(r Resource, a Action) bool {
	if c == nil {
		return false
	}
	if c.Kind == CallerSession {
		return true
	}
	return c.Caps.Can(r, a)
}

// AllowsStore проверяет, входит ли магазин в область видимости вызывающего.
// companyID — тенант магазина (nil для одиночных магазинов).
func (c *Caller) AllowsStore(storeID int64, companyID *int64) bool {
	if c == nil {
		return false
	}
	switch c.Kind {
	case CallerSession:
		if c.Role == RoleAdmin {
			return true
		}
		for _, id := range c.StoreIDs {
			if id == storeID {
				return true
			}
		}
		return false
	case CallerAPIKey:
		if c.StoreID != nil {
			return *c.StoreID == storeID
		}
		if c.CompanyID != nil {
			return companyID != nil && *companyID == *c.CompanyID
		}
		// platform-wide key: neither binding set
		return true
	}
	return false
}

// Trusted сообщает, может ли вызывающий создавать записи сразу в confirmed.
// Политика на интеграцию: сессионные owner/admin и ключи с флагом PreConfirm.
func (c *Caller) Trusted() bool {
	if c == nil {
		return false
	}
	if c.Kind == CallerSession {
		return c.Role == RoleAdmin || c.Role == RoleOwner
	}
	return c.PreConfirm
}

type callerCtxKey struct{}

// WithCaller кладет вызывающего в контекст запроса
func WithCaller(ctx context.Context, caller *Caller) context.Context {
	return context.WithValue(ctx, callerCtxKey{}, caller)
}

// CallerFromContext достает вызывающего из контекста.
// nil означает неаутентифицированный (гостевой) запрос.
func CallerFromContext(ctx context.Context) *Caller {
	caller, _ := ctx.Value(callerCtxKey{}).(*Caller)
	return caller
}
