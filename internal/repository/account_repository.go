package repository

import (
	"context"

	"salonos-service/internal/apperror"
	"salonos-service/internal/model"
	"salonos-service/pkg/database"
	"salonos-service/prometheus"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccountRepository stores tenants and their login accounts.
type AccountRepository interface {
	// FindByEmail returns the non-deleted account with the email, tenant preloaded.
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	// FindByID returns the non-deleted account, tenant preloaded.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	// CreateWithTenant persists a new tenant and its first account atomically.
	CreateWithTenant(ctx context.Context, tenant *model.Tenant, account *model.Account) error
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository returns a gorm-backed AccountRepository.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	defer prometheus.TrackDBOperation("account_find_by_email")()

	var account model.Account
	err := r.db.WithContext(ctx).
		Preload("Tenant").
		Where("email = ?", email).
		First(&account).Error
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apperror.NotFound("account not found")
		}
		return nil, apperror.Internal("failed to load account", err)
	}
	return &account, nil
}

func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	defer prometheus.TrackDBOperation("account_find_by_id")()

	var account model.Account
	err := r.db.WithContext(ctx).
		Preload("Tenant").
		Where("id = ?", id).
		First(&account).Error
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apperror.NotFound("account not found")
		}
		return nil, apperror.Internal("failed to load account", err)
	}
	return &account, nil
}

func (r *accountRepository) CreateWithTenant(ctx context.Context, tenant *model.Tenant, account *model.Account) error {
	defer prometheus.TrackDBOperation("account_create_with_tenant")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tenant).Error; err != nil {
			return err
		}
		account.TenantID = tenant.ID
		return tx.Omit(clause.Associations).Create(account).Error
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperror.Conflict("email already registered", err)
		}
		return apperror.Internal("failed to create account", err)
	}

	account.Tenant = tenant
	return nil
}
