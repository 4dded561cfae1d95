package jwtutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func newTestUtil(t *testing.T, clock *fakeClock) *JWTUtil {
	t.Helper()
	j, err := NewJWTUtil(JWTConfig{Secret: "test-secret", Lifetime: time.Hour}, WithClock(clock.Now))
	require.NoError(t, err)
	return j
}

func TestNewJWTUtil(t *testing.T) {
	t.Run("empty secret", func(t *testing.T) {
		j, err := NewJWTUtil(JWTConfig{Lifetime: time.Hour})
		require.Error(t, err)
		require.Nil(t, j)
	})

	t.Run("non-positive lifetime", func(t *testing.T) {
		_, err := NewJWTUtil(JWTConfig{Secret: "s"})
		require.Error(t, err)
	})

	t.Run("asymmetric method rejected", func(t *testing.T) {
		_, err := NewJWTUtil(JWTConfig{Secret: "s", Lifetime: time.Hour, SigningMethod: "RS256"})
		require.ErrorContains(t, err, "unsupported signing method")
	})
}

func TestTokenRoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	j := newTestUtil(t, clock)

	accountID, tenantID := uuid.New(), uuid.New()
	token, err := j.GenerateToken(accountID, tenantID, "owner", "amina@glow.test")
	require.NoError(t, err)

	clock.t = clock.t.Add(59 * time.Minute)
	claims, err := j.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, accountID, claims.AccountID)
	require.Equal(t, tenantID, claims.TenantID)
	require.Equal(t, "owner", claims.Role)
	require.Equal(t, "amina@glow.test", claims.Email)
	require.Equal(t, accountID.String(), claims.Subject)
}

func TestTokenExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	j := newTestUtil(t, clock)

	token, err := j.GenerateToken(uuid.New(), uuid.New(), "stylist", "lina@glow.test")
	require.NoError(t, err)

	clock.t = clock.t.Add(time.Hour + time.Second)
	claims, err := j.ValidateToken(token)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
	require.Nil(t, claims)
}

func TestTokenSignature(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	j := newTestUtil(t, clock)

	other, err := NewJWTUtil(JWTConfig{Secret: "another-secret", Lifetime: time.Hour}, WithClock(clock.Now))
	require.NoError(t, err)

	token, err := other.GenerateToken(uuid.New(), uuid.New(), "owner", "x@y.test")
	require.NoError(t, err)

	_, err = j.ValidateToken(token)
	require.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = j.ValidateToken(token + "x")
	require.Error(t, err)

	_, err = j.ValidateToken("not.a.token")
	require.Error(t, err)
}

func TestTokenRejectsOtherHMACStrength(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	j := newTestUtil(t, clock)

	strong, err := NewJWTUtil(JWTConfig{Secret: "test-secret", Lifetime: time.Hour, SigningMethod: "HS512"}, WithClock(clock.Now))
	require.NoError(t, err)

	token, err := strong.GenerateToken(uuid.New(), uuid.New(), "owner", "x@y.test")
	require.NoError(t, err)

	_, err = j.ValidateToken(token)
	require.Error(t, err)
}

func TestTokenRequiresExpiry(t *testing.T) {
	j := newTestUtil(t, &fakeClock{t: time.Now()})

	claims := SessionClaims{AccountID: uuid.New(), TenantID: uuid.New(), Role: "owner"}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = j.ValidateToken(raw)
	require.Error(t, err)
}
