package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is a tenant-owned client record. It is only ever soft-deleted.
type Customer struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID      `json:"tenant_id" gorm:"type:uuid;index;not null"`
	Name      string         `json:"name" gorm:"type:varchar(150);not null"`
	NameAr    string         `json:"name_ar,omitempty" gorm:"type:varchar(150)"`
	Phone     string         `json:"phone" gorm:"type:varchar(30);not null"`
	Email     string         `json:"email,omitempty" gorm:"type:varchar(255)"`
	Notes     string         `json:"notes,omitempty" gorm:"type:text"`
	IsActive  bool           `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate assigns the primary key.
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
