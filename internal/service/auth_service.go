package service

import (
	"context"
	"errors"
	"strings"

	"salonos-service/internal/apperror"
	"salonos-service/internal/model"
	"salonos-service/internal/repository"
	"salonos-service/pkg/jwtutil"
	"salonos-service/pkg/password"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "invalid email or password"

// RegisterInput carries the salon and owner fields of a registration.
type RegisterInput struct {
	SalonNameEn string
	SalonNameAr string
	City        string
	Phone       string
	OwnerName   string
	Email       string
	Password    string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token   string
	Account *model.Account
	Tenant  *model.Tenant
}

// AuthService registers tenants, authenticates accounts and mints session tokens.
type AuthService struct {
	accounts repository.AccountRepository
	tokens   *jwtutil.JWTUtil
	hasher   *password.Hasher

	// compared against when the email is unknown so both failure paths cost a bcrypt round
	dummyHash string
}

// NewAuthService wires the issuer to its collaborators.
func NewAuthService(accounts repository.AccountRepository, tokens *jwtutil.JWTUtil, hasher *password.Hasher) (*AuthService, error) {
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, err
	}
	return &AuthService{
		accounts:  accounts,
		tokens:    tokens,
		hasher:    hasher,
		dummyHash: dummy,
	}, nil
}

// Register creates a tenant on the basic plan together with its owner account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.SalonNameEn = strings.TrimSpace(in.SalonNameEn)
	in.OwnerName = strings.TrimSpace(in.OwnerName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = normalizeEmail(in.Email)

	if in.SalonNameEn == "" || in.OwnerName == "" || in.Email == "" || in.Password == "" || in.Phone == "" {
		return nil, apperror.Validation("please provide all required fields")
	}

	_, err := s.accounts.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, apperror.Conflict("email already registered", nil)
	case !apperror.Is(err, apperror.KindNotFound):
		return nil, err
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperror.Validation("password is too long")
		}
		return nil, apperror.Internal("failed to hash password", err)
	}

	tenant := &model.Tenant{
		NameEn:           in.SalonNameEn,
		NameAr:           strings.TrimSpace(in.SalonNameAr),
		OwnerName:        in.OwnerName,
		Email:            in.Email,
		Phone:            in.Phone,
		City:             strings.TrimSpace(in.City),
		SubscriptionPlan: model.PlanBasic,
	}
	account := &model.Account{
		Name:         in.OwnerName,
		Email:        in.Email,
		PasswordHash: digest,
		Role:         model.RoleOwner,
		IsActive:     true,
	}

	// A concurrent registration of the same email surfaces here as a Conflict.
	if err := s.accounts.CreateWithTenant(ctx, tenant, account); err != nil {
		return nil, err
	}

	token, err := s.issue(account)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Account: account, Tenant: tenant}, nil
}

// Login checks the credentials and mints a fresh token. Earlier tokens stay valid.
func (s *AuthService) Login(ctx context.Context, email, plaintext string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || plaintext == "" {
		return nil, apperror.Validation("email and password are required")
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			s.hasher.Verify(plaintext, s.dummyHash)
			return nil, apperror.Authentication(invalidCredentials)
		}
		return nil, err
	}

	if !s.hasher.Verify(plaintext, account.PasswordHash) {
		return nil, apperror.Authentication(invalidCredentials)
	}

	if !account.IsActive {
		return nil, apperror.Authorization("account is suspended, please contact support")
	}

	token, err := s.issue(account)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Account: account, Tenant: account.Tenant}, nil
}

// CurrentIdentity loads the account behind a verified token.
func (s *AuthService) CurrentIdentity(ctx context.Context, accountID uuid.UUID) (*model.Account, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AuthService) issue(account *model.Account) (string, error) {
	token, err := s.tokens.GenerateToken(account.ID, account.TenantID, account.Role.String(), account.Email)
	if err != nil {
		return "", apperror.Internal("failed to issue token", err)
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
