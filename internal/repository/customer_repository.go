package repository

import (
	"context"
	"strings"

	"salonos-service/internal/apperror"
	"salonos-service/internal/model"
	"salonos-service/pkg/database"
	"salonos-service/prometheus"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerFields are the client-supplied fields of a new customer.
type CustomerFields struct {
	Name   string
	NameAr string
	Phone  string
	Email  string
	Notes  string
}

// CustomerPatch is a partial update; nil fields are left unchanged.
type CustomerPatch struct {
	Name   *string
	NameAr *string
	Phone  *string
	Email  *string
	Notes  *string
}

// CustomerRepository gives tenant-scoped access to customers.
// Every method takes the caller's tenant; a record owned by another tenant
// behaves exactly like a missing one. Soft-deleted rows are never returned.
type CustomerRepository interface {
	List(ctx context.Context, tenantID uuid.UUID) ([]model.Customer, error)
	Get(ctx context.Context, id, tenantID uuid.UUID) (*model.Customer, error)
	Create(ctx context.Context, tenantID uuid.UUID, fields CustomerFields) (*model.Customer, error)
	Update(ctx context.Context, id, tenantID uuid.UUID, patch CustomerPatch) (*model.Customer, error)
	SoftDelete(ctx context.Context, id, tenantID uuid.UUID) (*model.Customer, error)
}

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository returns a gorm-backed CustomerRepository.
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// scoped restricts a query to one tenant. gorm adds "deleted_at IS NULL" itself.
func (r *customerRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Customer{}).Where("tenant_id = ?", tenantID)
}

func (r *customerRepository) List(ctx context.Context, tenantID uuid.UUID) ([]model.Customer, error) {
	defer prometheus.TrackDBOperation("customer_list")()

	customers := []model.Customer{}
	if err := r.scoped(ctx, tenantID).Order("created_at DESC").Find(&customers).Error; err != nil {
		return nil, apperror.Internal("failed to load customers", err)
	}
	return customers, nil
}

func (r *customerRepository) Get(ctx context.Context, id, tenantID uuid.UUID) (*model.Customer, error) {
	defer prometheus.TrackDBOperation("customer_get")()

	var customer model.Customer
	err := r.scoped(ctx, tenantID).Where("id = ?", id).First(&customer).Error
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apperror.NotFound("customer not found")
		}
		return nil, apperror.Internal("failed to load customer", err)
	}
	return &customer, nil
}

func (r *customerRepository) Create(ctx context.Context, tenantID uuid.UUID, fields CustomerFields) (*model.Customer, error) {
	defer prometheus.TrackDBOperation("customer_create")()

	fields.Name = strings.TrimSpace(fields.Name)
	fields.Phone = strings.TrimSpace(fields.Phone)
	if fields.Name == "" || fields.Phone == "" {
		return nil, apperror.Validation("name and phone are required")
	}
	if tenantID == uuid.Nil {
		return nil, apperror.Validation("tenant is required")
	}

	customer := &model.Customer{
		TenantID: tenantID,
		Name:     fields.Name,
		NameAr:   strings.TrimSpace(fields.NameAr),
		Phone:    fields.Phone,
		Email:    strings.TrimSpace(fields.Email),
		Notes:    fields.Notes,
		IsActive: true,
	}
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return nil, apperror.Internal("failed to create customer", err)
	}
	return customer, nil
}

func (r *customerRepository) Update(ctx context.Context, id, tenantID uuid.UUID, patch CustomerPatch) (*model.Customer, error) {
	defer prometheus.TrackDBOperation("customer_update")()

	updates, err := patch.columns()
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return r.Get(ctx, id, tenantID)
	}

	result := r.scoped(ctx, tenantID).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, apperror.Internal("failed to update customer", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperror.NotFound("customer not found")
	}
	return r.Get(ctx, id, tenantID)
}

func (r *customerRepository) SoftDelete(ctx context.Context, id, tenantID uuid.UUID) (*model.Customer, error) {
	defer prometheus.TrackDBOperation("customer_soft_delete")()

	customer, err := r.Get(ctx, id, tenantID)
	if err != nil {
		return nil, err
	}

	now := r.db.NowFunc()
	result := r.scoped(ctx, tenantID).Where("id = ?", id).Updates(map[string]any{
		"deleted_at": now,
		"is_active":  false,
	})
	if result.Error != nil {
		return nil, apperror.Internal("failed to delete customer", result.Error)
	}
	// Lost a race with another delete of the same record.
	if result.RowsAffected == 0 {
		return nil, apperror.NotFound("customer not found")
	}

	customer.IsActive = false
	customer.DeletedAt = gorm.DeletedAt{Time: now, Valid: true}
	return customer, nil
}

// columns turns the patch into a column map, rejecting blanked mandatory fields.
func (p CustomerPatch) columns() (map[string]any, error) {
	updates := map[string]any{}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, apperror.Validation("name must not be empty")
		}
		updates["name"] = name
	}
	if p.Phone != nil {
		phone := strings.TrimSpace(*p.Phone)
		if phone == "" {
			return nil, apperror.Validation("phone must not be empty")
		}
		updates["phone"] = phone
	}
	if p.NameAr != nil {
		updates["name_ar"] = strings.TrimSpace(*p.NameAr)
	}
	if p.Email != nil {
		updates["email"] = strings.TrimSpace(*p.Email)
	}
	if p.Notes != nil {
		updates["notes"] = *p.Notes
	}
	return updates, nil
}
