package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlanBasic is the subscription plan every tenant starts on.
const PlanBasic = "basic"

// Tenant represents a salon organization; every account and customer belongs to exactly one.
type Tenant struct {
	ID               uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	NameEn           string         `json:"name_en" gorm:"type:varchar(150);not null"`
	NameAr           string         `json:"name_ar,omitempty" gorm:"type:varchar(150)"`
	OwnerName        string         `json:"owner_name" gorm:"type:varchar(100);not null"`
	Email            string         `json:"email" gorm:"type:varchar(255);not null"`
	Phone            string         `json:"phone" gorm:"type:varchar(30);not null"`
	City             string         `json:"city,omitempty" gorm:"type:varchar(100)"`
	SubscriptionPlan string         `json:"subscription_plan" gorm:"type:varchar(30);not null;default:'basic'"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate assigns the primary key.
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
