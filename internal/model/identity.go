package model

import "github.com/google/uuid"

// Identity is the caller decoded from a verified session token.
// It lives only for the duration of one request.
type Identity struct {
	AccountID uuid.UUID `json:"account_id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Role      Role      `json:"role"`
	Email     string    `json:"email"`
}
