package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avmos/SB-AppointmentService/internal/auth"
	apikeyRepo "github.com/avmos/SB-AppointmentService/internal/infra/storage/apikey"
)

const testSecret = "test-secret"

type fakeKeyRepo struct {
	key     *auth.APIKey
	touched []int64
}

func (f *fakeKeyRepo) GetByKeyID(_ context.Context, keyID string) (*auth.APIKey, error) {
	if f.key == nil || f.key.KeyID != keyID {
		return nil, apikeyRepo.ErrKeyNotFound
	}
	return f.key, nil
}

func (f *fakeKeyRepo) TouchLastUsed(_ context.Context, id int64) error {
	f.touched = append(f.touched, id)
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func signToken(t *testing.T, secret string) string {
	t.Helper()
	claims := auth.SessionClaims{
		UserID:   3,
		Role:     "owner",
		StoreIDs: []int64{1},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

// captureCaller records what lands in the request context
func captureCaller(out **auth.Caller) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*out = auth.CallerFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_SessionToken(t *testing.T) {
	mw := NewAuthMiddleware(testSecret, &fakeKeyRepo{}, nopLogger{})

	t.Run("valid token", func(t *testing.T) {
		var caller *auth.Caller
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret))
		rec := httptest.NewRecorder()

		mw.Authenticate(captureCaller(&caller)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, caller)
		assert.Equal(t, auth.CallerSession, caller.Kind)
		assert.Equal(t, auth.RoleOwner, caller.Role)
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		var caller *auth.Caller
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret"))
		rec := httptest.NewRecorder()

		mw.Authenticate(captureCaller(&caller)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, caller)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "UNAUTHORIZED", body["code"])
	})

	t.Run("malformed header rejected", func(t *testing.T) {
		var caller *auth.Caller
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()

		mw.Authenticate(captureCaller(&caller)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthenticate_APIKey(t *testing.T) {
	raw, keyID, secretHash, err := auth.GenerateAPIKey()
	require.NoError(t, err)

	storeID := int64(1)
	repo := &fakeKeyRepo{
		key: &auth.APIKey{
			ID:         4,
			KeyID:      keyID,
			SecretHash: secretHash,
			StoreID:    &storeID,
			PreConfirm: true,
			Active:     true,
		},
	}
	mw := NewAuthMiddleware(testSecret, repo, nopLogger{})

	t.Run("valid key", func(t *testing.T) {
		var caller *auth.Caller
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-API-Key", raw)
		rec := httptest.NewRecorder()

		mw.Authenticate(captureCaller(&caller)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, caller)
		assert.Equal(t, auth.CallerAPIKey, caller.Kind)
		assert.True(t, caller.PreConfirm)
		// usage timestamp is updated on each authenticated request
		assert.Equal(t, []int64{4}, repo.touched)
	})

	t.Run("unknown key id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-API-Key", "ak_unknown.secret")
		rec := httptest.NewRecorder()

		mw.Authenticate(captureCaller(new(*auth.Caller))).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-API-Key", "ak_"+keyID+".wrong-secret")
		rec := httptest.NewRecorder()

		mw.Authenticate(captureCaller(new(*auth.Caller))).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-API-Key", "garbage")
		rec := httptest.NewRecorder()

		mw.Authenticate(captureCaller(new(*auth.Caller))).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthenticate_GuestPassthrough(t *testing.T) {
	mw := NewAuthMiddleware(testSecret, &fakeKeyRepo{}, nopLogger{})

	var caller *auth.Caller
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	mw.Authenticate(captureCaller(&caller)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, caller)
}

func TestRequireAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("guest rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		RequireAuth(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("authenticated passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(auth.WithCaller(req.Context(), &auth.Caller{Kind: auth.CallerSession}))
		rec := httptest.NewRecorder()

		RequireAuth(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
