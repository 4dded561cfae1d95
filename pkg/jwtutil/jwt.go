package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	Lifetime      time.Duration
	SigningMethod string
}

// SessionClaims represents the JWT claims for an authenticated account
type SessionClaims struct {
	AccountID uuid.UUID `json:"account_id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Role      string    `json:"role"`
	Email     string    `json:"email"`
	jwt.RegisteredClaims
}

// JWTUtil is a utility for JWT token operations
type JWTUtil struct {
	secret   []byte
	lifetime time.Duration
	method   *jwt.SigningMethodHMAC
	now      func() time.Time
}

// Option customizes a JWTUtil.
type Option func(*JWTUtil)

// WithClock replaces the wall clock used for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(j *JWTUtil) {
		j.now = now
	}
}

// NewJWTUtil creates a new JWT utility with the given configuration
func NewJWTUtil(config JWTConfig, opts ...Option) (*JWTUtil, error) {
	if config.Secret == "" {
		return nil, errors.New("JWT signing secret not provided")
	}
	if config.Lifetime <= 0 {
		return nil, errors.New("JWT lifetime must be positive")
	}

	var method *jwt.SigningMethodHMAC
	switch config.SigningMethod {
	case "", "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing method: %s", config.SigningMethod)
	}

	j := &JWTUtil{
		secret:   []byte(config.Secret),
		lifetime: config.Lifetime,
		method:   method,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

// GenerateToken signs a session token for the account
func (j *JWTUtil) GenerateToken(accountID, tenantID uuid.UUID, role, email string) (string, error) {
	now := j.now()
	claims := SessionClaims{
		AccountID: accountID,
		TenantID:  tenantID,
		Role:      role,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.lifetime)),
		},
	}

	token := jwt.NewWithClaims(j.method, claims)
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken validates and parses the JWT token
func (j *JWTUtil) ValidateToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&SessionClaims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return j.secret, nil
		},
		jwt.WithValidMethods([]string{j.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.AccountID == uuid.Nil || claims.TenantID == uuid.Nil {
		return nil, errors.New("token is missing account or tenant")
	}
	return claims, nil
}

// Lifetime returns how long issued tokens stay valid.
func (j *JWTUtil) Lifetime() time.Duration {
	return j.lifetime
}
