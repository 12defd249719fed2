package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avmos/SB-AppointmentService/pkg/ptr"
)

func TestNewCapabilitySet(t *testing.T) {
	t.Run("valid rows", func(t *testing.T) {
		set, err := NewCapabilitySet([]Capability{
			{Resource: ResourceAppointments, Actions: []Action{ActionRead, ActionCreate}},
			{Resource: ResourceCoupons, Actions: []Action{ActionRead}},
		})
		require.NoError(t, err)

		assert.True(t, set.Can(ResourceAppointments, ActionRead))
		assert.True(t, set.Can(ResourceAppointments, ActionCreate))
		assert.False(t, set.Can(ResourceAppointments, ActionDelete))
		assert.True(t, set.Can(ResourceCoupons, ActionRead))
		assert.False(t, set.Can(ResourceServices, ActionRead))
	})

	t.Run("unknown resource rejected", func(t *testing.T) {
		_, err := NewCapabilitySet([]Capability{
			{Resource: "payments", Actions: []Action{ActionRead}},
		})
		assert.Error(t, err)
	})

	t.Run("unknown action rejected", func(t *testing.T) {
		_, err := NewCapabilitySet([]Capability{
			{Resource: ResourceAppointments, Actions: []Action{"execute"}},
		})
		assert.Error(t, err)
	})
}

func TestCapabilities_MarshalRoundTrip(t *testing.T) {
	set, err := NewCapabilitySet([]Capability{
		{Resource: ResourceAppointments, Actions: []Action{ActionCreate, ActionRead}},
	})
	require.NoError(t, err)

	data, err := MarshalCapabilities(set)
	require.NoError(t, err)

	parsed, err := ParseCapabilities(data)
	require.NoError(t, err)
	assert.True(t, parsed.Can(ResourceAppointments, ActionRead))
	assert.False(t, parsed.Can(ResourceAppointments, ActionDelete))
}

func TestParseCapabilities_EmptyAndMalformed(t *testing.T) {
	set, err := ParseCapabilities(nil)
	require.NoError(t, err)
	assert.False(t, set.Can(ResourceAppointments, ActionRead))

	_, err = ParseCapabilities([]byte("{not json"))
	assert.Error(t, err)
}

func TestCaller_AllowsStore(t *testing.T) {
	tests := []struct {
		name      string
		caller    *Caller
		storeID   int64
		companyID *int64
		want      bool
	}{
		{"nil caller", nil, 1, nil, false},
		{
			"admin sees everything",
			&Caller{Kind: CallerSession, Role: RoleAdmin},
			1, nil, true,
		},
		{
			"owner of the store",
			&Caller{Kind: CallerSession, Role: RoleOwner, StoreIDs: []int64{1, 2}},
			2, nil, true,
		},
		{
			"owner of another store",
			&Caller{Kind: CallerSession, Role: RoleOwner, StoreIDs: []int64{1}},
			3, nil, false,
		},
		{
			"store-bound key matches",
			&Caller{Kind: CallerAPIKey, StoreID: ptr.Ptr[int64](5)},
			5, nil, true,
		},
		{
			"store-bound key mismatch",
			&Caller{Kind: CallerAPIKey, StoreID: ptr.Ptr[int64](5)},
			6, nil, false,
		},
		{
			"company-bound key matches tenant",
			&Caller{Kind: CallerAPIKey, CompanyID: ptr.Ptr[int64](9)},
			6, ptr.Ptr[int64](9), true,
		},
		{
			"company-bound key against single store",
			&Caller{Kind: CallerAPIKey, CompanyID: ptr.Ptr[int64](9)},
			6, nil, false,
		},
		{
			"platform-wide key",
			&Caller{Kind: CallerAPIKey},
			6, nil, true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.caller.AllowsStore(tt.storeID, tt.companyID))
		})
	}
}

func TestCaller_Trusted(t *testing.T) {
	assert.False(t, (*Caller)(nil).Trusted())
	assert.True(t, (&Caller{Kind: CallerSession, Role: RoleAdmin}).Trusted())
	assert.True(t, (&Caller{Kind: CallerSession, Role: RoleOwner}).Trusted())
	assert.True(t, (&Caller{Kind: CallerAPIKey, PreConfirm: true}).Trusted())
	assert.False(t, (&Caller{Kind: CallerAPIKey}).Trusted())
}

func TestCaller_Can(t *testing.T) {
	set, err := NewCapabilitySet([]Capability{
		{Resource: ResourceAppointments, Actions: []Action{ActionRead}},
	})
	require.NoError(t, err)

	key := &Caller{Kind: CallerAPIKey, Caps: set}
	assert.True(t, key.Can(ResourceAppointments, ActionRead))
	assert.False(t, key.Can(ResourceAppointments, ActionDelete))

	// session callers are scoped by role and ownership, not capabilities
	session := &Caller{Kind: CallerSession, Role: RoleOwner}
	assert.True(t, session.Can(ResourceCoupons, ActionDelete))
}

func TestParseSessionToken(t *testing.T) {
	const secret = "test-secret"

	sign := func(claims SessionClaims, key string) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		s, err := token.SignedString([]byte(key))
		require.NoError(t, err)
		return s
	}

	validClaims := SessionClaims{
		UserID:   3,
		Role:     "owner",
		StoreIDs: []int64{1, 2},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	t.Run("valid token", func(t *testing.T) {
		caller, err := ParseSessionToken(secret, sign(validClaims, secret))
		require.NoError(t, err)

		assert.Equal(t, CallerSession, caller.Kind)
		assert.Equal(t, int64(3), caller.UserID)
		assert.Equal(t, RoleOwner, caller.Role)
		assert.Equal(t, []int64{1, 2}, caller.StoreIDs)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := ParseSessionToken(secret, sign(validClaims, "other-secret"))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := validClaims
		expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

		_, err := ParseSessionToken(secret, sign(expired, secret))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unknown role", func(t *testing.T) {
		bad := validClaims
		bad.Role = "superuser"

		_, err := ParseSessionToken(secret, sign(bad, secret))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := ParseSessionToken(secret, "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestSplitAPIKey(t *testing.T) {
	keyID, secret, err := SplitAPIKey("ak_abc123.supersecret")
	require.NoError(t, err)
	assert.Equal(t, "abc123", keyID)
	assert.Equal(t, "supersecret", secret)

	for _, raw := range []string{"", "abc123.secret", "ak_abc123", "ak_.secret", "ak_abc123."} {
		_, _, err := SplitAPIKey(raw)
		assert.ErrorIs(t, err, ErrMalformedAPIKey, raw)
	}
}

func TestGenerateAndVerifyAPIKey(t *testing.T) {
	raw, keyID, secretHash, err := GenerateAPIKey()
	require.NoError(t, err)

	parsedID, secret, err := SplitAPIKey(raw)
	require.NoError(t, err)
	assert.Equal(t, keyID, parsedID)

	key := &APIKey{KeyID: keyID, SecretHash: secretHash}
	assert.NoError(t, key.VerifySecret(secret))
	assert.ErrorIs(t, key.VerifySecret("wrong"), ErrAPIKeyMismatch)
}

func TestAPIKey_Caller(t *testing.T) {
	set, err := NewCapabilitySet([]Capability{
		{Resource: ResourceAppointments, Actions: []Action{ActionCreate}},
	})
	require.NoError(t, err)

	key := &APIKey{
		ID:         4,
		StoreID:    ptr.Ptr[int64](1),
		Caps:       set,
		PreConfirm: true,
	}

	caller := key.Caller()
	assert.Equal(t, CallerAPIKey, caller.Kind)
	require.NotNil(t, caller.APIKeyID)
	assert.Equal(t, int64(4), *caller.APIKeyID)
	assert.True(t, caller.Trusted())
	assert.True(t, caller.Can(ResourceAppointments, ActionCreate))
}
