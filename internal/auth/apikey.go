package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Формат ключа: "ak_<keyID>.<secret>". keyID хранится открыто и используется
// для поиска, secret хранится только как bcrypt-хэш.
const apiKeyPrefix = "ak_"

var (
	// ErrMalformedAPIKey возвращается, когда ключ не соответствует формату
	ErrMalformedAPIKey = errors.New("auth: malformed api key")

	// ErrAPIKeyMismatch возвращается при несовпадении секрета
	ErrAPIKeyMismatch = errors.New("auth: api key secret mismatch")
)

// APIKey учетные данные интеграционного вызывающего
type APIKey struct {
	ID         int64
	KeyID      string // public lookup id
	SecretHash string // bcrypt of the secret part
	Name       string

	// Tenant binding: exactly one of CompanyID/StoreID, or neither
	// for a platform-wide key.
	CompanyID *int64
	StoreID   *int64

	Caps       CapabilitySet
	PreConfirm bool
	Active     bool

	CreatedAt  time.Time
	LastUsedAt *time.Time
}

// Caller строит вызывающего из записи ключа
func (k *APIKey) Caller() *Caller {
	return &Caller{
		Kind:       CallerAPIKey,
		APIKeyID:   &k.ID,
		CompanyID:  k.CompanyID,
		StoreID:    k.StoreID,
		Caps:       k.Caps,
		PreConfirm: k.PreConfirm,
	}
}

// SplitAPIKey разбирает сырой ключ на keyID и секрет
func SplitAPIKey(raw string) (keyID, secret string, err error) {
	if !strings.HasPrefix(raw, apiKeyPrefix) {
		return "", "", ErrMalformedAPIKey
	}
	rest := strings.TrimPrefix(raw, apiKeyPrefix)
	keyID, secret, found := strings.Cut(rest, ".")
	if !found || keyID == "" || secret == "" {
		return "", "", ErrMalformedAPIKey
	}
	return keyID, secret, nil
}

// VerifySecret сравнивает секрет с хэшем из хранилища
func (k *APIKey) VerifySecret(secret string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(k.SecretHash), []byte(secret)); err != nil {
		return ErrAPIKeyMismatch
	}
	return nil
}

// GenerateAPIKey выпускает новый ключ. Возвращает сырой ключ (показывается
// один раз при создании), публичный keyID и bcrypt-хэш секрета.
func GenerateAPIKey() (raw, keyID, secretHash string, err error) {
	keyID = strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	secret := strings.ReplaceAll(uuid.NewString(), "-", "")

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", "", "", fmt.Errorf("auth: hash api key secret: %w", err)
	}

	return apiKeyPrefix + keyID + "." + secret, keyID, string(hash), nil
}
