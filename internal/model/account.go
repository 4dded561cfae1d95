package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account is a login credential bound to one tenant.
// Email is unique among accounts that are not soft-deleted.
type Account struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID      `json:"tenant_id" gorm:"type:uuid;index;not null"`
	Name         string         `json:"name" gorm:"type:varchar(100);not null"`
	Email        string         `json:"email" gorm:"type:varchar(255);not null;uniqueIndex:idx_accounts_email_active,where:deleted_at IS NULL"`
	PasswordHash string         `json:"-" gorm:"type:varchar(255);not null"`
	Role         Role           `json:"role" gorm:"type:varchar(32);not null"`
	IsActive     bool           `json:"is_active" gorm:"not null;default:true"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Tenant *Tenant `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
}

// BeforeCreate assigns the primary key.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
