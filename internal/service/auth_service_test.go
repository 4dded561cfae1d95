package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"salonos-service/internal/apperror"
	"salonos-service/internal/dbtest"
	"salonos-service/internal/model"
	"salonos-service/internal/repository"
	"salonos-service/pkg/jwtutil"
	"salonos-service/pkg/password"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memAccounts is an in-memory AccountRepository.
type memAccounts struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*model.Account
	tenants  map[uuid.UUID]*model.Tenant
	failWith error
}

func newMemAccounts() *memAccounts {
	return &memAccounts{
		accounts: map[uuid.UUID]*model.Account{},
		tenants:  map[uuid.UUID]*model.Tenant{},
	}
}

func (m *memAccounts) FindByEmail(_ context.Context, email string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, a := range m.accounts {
		if a.Email == email && !a.DeletedAt.Valid {
			cp := *a
			cp.Tenant = m.tenants[a.TenantID]
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("account not found")
}

func (m *memAccounts) FindByID(_ context.Context, id uuid.UUID) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok || a.DeletedAt.Valid {
		return nil, apperror.NotFound("account not found")
	}
	cp := *a
	cp.Tenant = m.tenants[a.TenantID]
	return &cp, nil
}

func (m *memAccounts) CreateWithTenant(_ context.Context, tenant *model.Tenant, account *model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tenant.ID = uuid.New()
	account.ID = uuid.New()
	account.TenantID = tenant.ID
	m.tenants[tenant.ID] = tenant
	m.accounts[account.ID] = account
	account.Tenant = tenant
	return nil
}

func (m *memAccounts) suspend(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[id].IsActive = false
}

func newTestService(t *testing.T, accounts repository.AccountRepository) (*AuthService, *jwtutil.JWTUtil) {
	t.Helper()
	hasher, err := password.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := jwtutil.NewJWTUtil(jwtutil.JWTConfig{Secret: "test-secret", Lifetime: time.Hour})
	require.NoError(t, err)
	svc, err := NewAuthService(accounts, tokens, hasher)
	require.NoError(t, err)
	return svc, tokens
}

func glowSalon() RegisterInput {
	return RegisterInput{
		SalonNameEn: "Glow Salon",
		SalonNameAr: "صالون جلو",
		City:        "Algiers",
		Phone:       "0551234567",
		OwnerName:   "Amina",
		Email:       "amina@glow.test",
		Password:    "Secret123",
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t, newMemAccounts())

	blank := []func(*RegisterInput){
		func(in *RegisterInput) { in.SalonNameEn = "" },
		func(in *RegisterInput) { in.OwnerName = " " },
		func(in *RegisterInput) { in.Email = "" },
		func(in *RegisterInput) { in.Password = "" },
		func(in *RegisterInput) { in.Phone = "" },
	}
	for _, mutate := range blank {
		in := glowSalon()
		mutate(&in)
		_, err := svc.Register(context.Background(), in)
		require.True(t, apperror.Is(err, apperror.KindValidation), "got %v", err)
	}

	in := glowSalon()
	in.Password = strings.Repeat("p", 80)
	_, err := svc.Register(context.Background(), in)
	require.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestRegisterCreatesOwner(t *testing.T) {
	svc, tokens := newTestService(t, newMemAccounts())

	res, err := svc.Register(context.Background(), glowSalon())
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.Equal(t, model.RoleOwner, res.Account.Role)
	require.True(t, res.Account.IsActive)
	require.Equal(t, model.PlanBasic, res.Tenant.SubscriptionPlan)
	require.Equal(t, res.Tenant.ID, res.Account.TenantID)
	require.NotEqual(t, "Secret123", res.Account.PasswordHash)

	claims, err := tokens.ValidateToken(res.Token)
	require.NoError(t, err)
	require.Equal(t, res.Account.ID, claims.AccountID)
	require.Equal(t, res.Tenant.ID, claims.TenantID)
	require.Equal(t, "owner", claims.Role)
	require.Equal(t, "amina@glow.test", claims.Email)
}

func TestRegisterThenLogin(t *testing.T) {
	svc, tokens := newTestService(t, newMemAccounts())
	ctx := context.Background()

	reg, err := svc.Register(ctx, glowSalon())
	require.NoError(t, err)

	login, err := svc.Login(ctx, " Amina@Glow.test ", "Secret123")
	require.NoError(t, err)

	regClaims, err := tokens.ValidateToken(reg.Token)
	require.NoError(t, err)
	loginClaims, err := tokens.ValidateToken(login.Token)
	require.NoError(t, err)

	require.Equal(t, regClaims.AccountID, loginClaims.AccountID)
	require.Equal(t, regClaims.TenantID, loginClaims.TenantID)
	require.NotNil(t, login.Tenant)
	require.Equal(t, "Glow Salon", login.Tenant.NameEn)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	accounts := newMemAccounts()
	svc, _ := newTestService(t, accounts)
	ctx := context.Background()

	_, err := svc.Register(ctx, glowSalon())
	require.NoError(t, err)

	dup := glowSalon()
	dup.Email = "AMINA@glow.test"
	_, err = svc.Register(ctx, dup)
	require.True(t, apperror.Is(err, apperror.KindConflict))
	require.Len(t, accounts.accounts, 1)
}

func TestLoginUniformFailures(t *testing.T) {
	svc, _ := newTestService(t, newMemAccounts())
	ctx := context.Background()

	_, err := svc.Register(ctx, glowSalon())
	require.NoError(t, err)

	_, unknownErr := svc.Login(ctx, "nobody@glow.test", "Secret123")
	_, wrongErr := svc.Login(ctx, "amina@glow.test", "Secret124")

	require.True(t, apperror.Is(unknownErr, apperror.KindAuthentication))
	require.True(t, apperror.Is(wrongErr, apperror.KindAuthentication))
	require.Equal(t, unknownErr.Error(), wrongErr.Error())

	_, err = svc.Login(ctx, "", "Secret123")
	require.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestLoginSuspendedAccount(t *testing.T) {
	accounts := newMemAccounts()
	svc, _ := newTestService(t, accounts)
	ctx := context.Background()

	reg, err := svc.Register(ctx, glowSalon())
	require.NoError(t, err)
	accounts.suspend(reg.Account.ID)

	_, err = svc.Login(ctx, "amina@glow.test", "Secret123")
	require.True(t, apperror.Is(err, apperror.KindAuthorization))

	// a wrong password still reads as bad credentials
	_, err = svc.Login(ctx, "amina@glow.test", "nope")
	require.True(t, apperror.Is(err, apperror.KindAuthentication))
}

func TestLoginStoreFailure(t *testing.T) {
	accounts := newMemAccounts()
	accounts.failWith = apperror.Internal("failed to load account", errors.New("connection reset"))
	svc, _ := newTestService(t, accounts)

	_, err := svc.Login(context.Background(), "amina@glow.test", "Secret123")
	require.True(t, apperror.Is(err, apperror.KindInternal))
}

func TestCurrentIdentity(t *testing.T) {
	svc, _ := newTestService(t, newMemAccounts())
	ctx := context.Background()

	reg, err := svc.Register(ctx, glowSalon())
	require.NoError(t, err)

	account, err := svc.CurrentIdentity(ctx, reg.Account.ID)
	require.NoError(t, err)
	require.Equal(t, "amina@glow.test", account.Email)

	_, err = svc.CurrentIdentity(ctx, uuid.New())
	require.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestServiceAgainstDatabase(t *testing.T) {
	db := dbtest.Open(t)
	svc, _ := newTestService(t, repository.NewAccountRepository(db))
	ctx := context.Background()

	reg, err := svc.Register(ctx, glowSalon())
	require.NoError(t, err)

	_, err = svc.Register(ctx, glowSalon())
	require.True(t, apperror.Is(err, apperror.KindConflict))

	var count int64
	require.NoError(t, db.Model(&model.Account{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	require.NoError(t, db.Model(&model.Account{}).Where("id = ?", reg.Account.ID).Update("is_active", false).Error)
	_, err = svc.Login(ctx, "amina@glow.test", "Secret123")
	require.True(t, apperror.Is(err, apperror.KindAuthorization))
}
