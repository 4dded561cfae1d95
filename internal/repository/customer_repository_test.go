package repository

import (
	"context"
	"testing"
	"time"

	"salonos-service/internal/apperror"
	"salonos-service/internal/dbtest"
	"salonos-service/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func newCustomerRepo(t *testing.T) (CustomerRepository, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t)
	return NewCustomerRepository(db), db
}

func TestCustomerCreateValidation(t *testing.T) {
	repo, _ := newCustomerRepo(t)
	ctx := context.Background()
	tenant := uuid.New()

	_, err := repo.Create(ctx, tenant, CustomerFields{Phone: "0559876543"})
	require.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = repo.Create(ctx, tenant, CustomerFields{Name: "Lina", Phone: "   "})
	require.True(t, apperror.Is(err, apperror.KindValidation))

	c, err := repo.Create(ctx, tenant, CustomerFields{Name: " Lina ", Phone: "0559876543", Email: "lina@mail.test"})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, c.ID)
	require.Equal(t, tenant, c.TenantID)
	require.Equal(t, "Lina", c.Name)
	require.True(t, c.IsActive)
	require.False(t, c.CreatedAt.IsZero())
}

func TestCustomerTenantIsolation(t *testing.T) {
	repo, _ := newCustomerRepo(t)
	ctx := context.Background()
	tenantA, tenantB := uuid.New(), uuid.New()

	c, err := repo.Create(ctx, tenantA, CustomerFields{Name: "Lina", Phone: "0559876543"})
	require.NoError(t, err)

	_, err = repo.Get(ctx, c.ID, tenantB)
	require.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = repo.Update(ctx, c.ID, tenantB, CustomerPatch{Name: strPtr("Hacked")})
	require.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = repo.SoftDelete(ctx, c.ID, tenantB)
	require.True(t, apperror.Is(err, apperror.KindNotFound))

	list, err := repo.List(ctx, tenantB)
	require.NoError(t, err)
	require.Empty(t, list)

	// untouched for its owner
	got, err := repo.Get(ctx, c.ID, tenantA)
	require.NoError(t, err)
	require.Equal(t, "Lina", got.Name)
	require.True(t, got.IsActive)
}

func TestCustomerCrossTenantLooksMissing(t *testing.T) {
	repo, _ := newCustomerRepo(t)
	ctx := context.Background()
	tenantA, tenantB := uuid.New(), uuid.New()

	c, err := repo.Create(ctx, tenantA, CustomerFields{Name: "Lina", Phone: "0559876543"})
	require.NoError(t, err)

	_, crossErr := repo.Get(ctx, c.ID, tenantB)
	_, missingErr := repo.Get(ctx, uuid.New(), tenantB)
	require.Equal(t, missingErr.Error(), crossErr.Error())
	require.Equal(t, apperror.KindOf(missingErr), apperror.KindOf(crossErr))
}

func TestCustomerListOrderAndScope(t *testing.T) {
	repo, db := newCustomerRepo(t)
	ctx := context.Background()
	tenantA, tenantB := uuid.New(), uuid.New()

	first, err := repo.Create(ctx, tenantA, CustomerFields{Name: "First", Phone: "1"})
	require.NoError(t, err)
	second, err := repo.Create(ctx, tenantA, CustomerFields{Name: "Second", Phone: "2"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, tenantB, CustomerFields{Name: "Other", Phone: "3"})
	require.NoError(t, err)

	// pin creation times so ordering does not depend on clock resolution
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, db.Model(&model.Customer{}).Where("id = ?", first.ID).Update("created_at", base).Error)
	require.NoError(t, db.Model(&model.Customer{}).Where("id = ?", second.ID).Update("created_at", base.Add(time.Minute)).Error)

	list, err := repo.List(ctx, tenantA)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID)
	require.Equal(t, first.ID, list[1].ID)
}

func TestCustomerPartialUpdate(t *testing.T) {
	repo, _ := newCustomerRepo(t)
	ctx := context.Background()
	tenant := uuid.New()

	c, err := repo.Create(ctx, tenant, CustomerFields{Name: "Lina", Phone: "0559876543", Notes: "prefers mornings"})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, c.ID, tenant, CustomerPatch{Phone: strPtr("0551112222")})
	require.NoError(t, err)
	require.Equal(t, "0551112222", updated.Phone)
	require.Equal(t, "Lina", updated.Name)
	require.Equal(t, "prefers mornings", updated.Notes)

	same, err := repo.Update(ctx, c.ID, tenant, CustomerPatch{})
	require.NoError(t, err)
	require.Equal(t, "0551112222", same.Phone)

	_, err = repo.Update(ctx, c.ID, tenant, CustomerPatch{Name: strPtr("  ")})
	require.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = repo.Update(ctx, uuid.New(), tenant, CustomerPatch{Name: strPtr("Nobody")})
	require.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestCustomerSoftDelete(t *testing.T) {
	repo, db := newCustomerRepo(t)
	ctx := context.Background()
	tenant := uuid.New()

	c, err := repo.Create(ctx, tenant, CustomerFields{Name: "Lina", Phone: "0559876543"})
	require.NoError(t, err)

	deleted, err := repo.SoftDelete(ctx, c.ID, tenant)
	require.NoError(t, err)
	require.False(t, deleted.IsActive)
	require.True(t, deleted.DeletedAt.Valid)

	_, err = repo.Get(ctx, c.ID, tenant)
	require.True(t, apperror.Is(err, apperror.KindNotFound))

	list, err := repo.List(ctx, tenant)
	require.NoError(t, err)
	require.Empty(t, list)

	_, err = repo.Update(ctx, c.ID, tenant, CustomerPatch{Name: strPtr("Back")})
	require.True(t, apperror.Is(err, apperror.KindNotFound))

	// second delete resolves to not found
	_, err = repo.SoftDelete(ctx, c.ID, tenant)
	require.True(t, apperror.Is(err, apperror.KindNotFound))

	// the row is kept, flagged inactive
	var raw model.Customer
	require.NoError(t, db.Unscoped().Where("id = ?", c.ID).First(&raw).Error)
	require.False(t, raw.IsActive)
	require.True(t, raw.DeletedAt.Valid)
}
