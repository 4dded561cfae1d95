package handler

import (
	"net/http"

	"salonos-service/internal/apperror"
	"salonos-service/internal/middleware"
	"salonos-service/internal/model"
	"salonos-service/internal/service"
	"salonos-service/pkg/logger"
	"salonos-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	SalonNameEn string `json:"salon_name_en"`
	SalonNameAr string `json:"salon_name_ar"`
	City        string `json:"city"`
	Phone       string `json:"phone"`
	OwnerName   string `json:"owner_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is the data of a successful register or login.
type SessionResponse struct {
	Token   string         `json:"token"`
	Account *model.Account `json:"account"`
	Tenant  *model.Tenant  `json:"tenant,omitempty"`
}

// AuthHandler serves the credential endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register creates a salon tenant with its owner account.
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromContext(c)

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse registration request", zap.Error(err))
		prometheus.RecordRegister("invalid_request")
		return apperror.Validation("invalid request body")
	}

	res, err := h.auth.Register(c.Request().Context(), service.RegisterInput{
		SalonNameEn: req.SalonNameEn,
		SalonNameAr: req.SalonNameAr,
		City:        req.City,
		Phone:       req.Phone,
		OwnerName:   req.OwnerName,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		prometheus.RecordRegister(apperror.KindOf(err).String())
		log.Warn("Registration rejected",
			zap.String("email", req.Email),
			zap.Error(err))
		return err
	}

	prometheus.RecordRegister("success")
	log.Info("Tenant registered",
		zap.String("tenant_id", res.Tenant.ID.String()),
		zap.String("account_id", res.Account.ID.String()))

	return respond(c, http.StatusCreated, "registration successful", SessionResponse{
		Token:   res.Token,
		Account: res.Account,
		Tenant:  res.Tenant,
	})
}

// Login exchanges email and password for a session token.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse login request", zap.Error(err))
		prometheus.RecordLogin("invalid_request")
		return apperror.Validation("invalid request body")
	}

	res, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		prometheus.RecordLogin(apperror.KindOf(err).String())
		log.Warn("Login rejected", zap.String("email", req.Email), zap.Error(err))
		return err
	}

	prometheus.RecordLogin("success")
	log.Info("User logged in",
		zap.String("account_id", res.Account.ID.String()),
		zap.String("tenant_id", res.Account.TenantID.String()),
		zap.String("role", res.Account.Role.String()))

	return respond(c, http.StatusOK, "login successful", SessionResponse{
		Token:   res.Token,
		Account: res.Account,
		Tenant:  res.Tenant,
	})
}

// Me returns the account behind the presented token.
func (h *AuthHandler) Me(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return apperror.Authentication("authentication required")
	}

	account, err := h.auth.CurrentIdentity(c.Request().Context(), identity.AccountID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", account)
}
