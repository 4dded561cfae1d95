// Package app assembles the HTTP server: global middleware, gates and routes.
package app

import (
	"salonos-service/internal/handler"
	"salonos-service/internal/middleware"
	"salonos-service/internal/model"
	"salonos-service/internal/ratelimit"
	"salonos-service/internal/repository"
	"salonos-service/internal/service"
	"salonos-service/pkg/jwtutil"
	"salonos-service/pkg/logger"
	"salonos-service/pkg/password"
	"salonos-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the process-wide collaborators built once at startup.
type Dependencies struct {
	DB      *gorm.DB
	Tokens  *jwtutil.JWTUtil
	Hasher  *password.Hasher
	Limiter ratelimit.Limiter
	Logger  *zap.Logger
}

// NewServer builds the echo instance with every route registered.
func NewServer(deps Dependencies) (*echo.Echo, error) {
	if deps.Limiter == nil {
		deps.Limiter = ratelimit.Noop{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.GetLogger()
	}

	accounts := repository.NewAccountRepository(deps.DB)
	customers := repository.NewCustomerRepository(deps.DB)

	authService, err := service.NewAuthService(accounts, deps.Tokens, deps.Hasher)
	if err != nil {
		return nil, err
	}

	authHandler := handler.NewAuthHandler(authService)
	customerHandler := handler.NewCustomerHandler(customers)
	healthHandler := handler.NewHealthHandler(deps.DB)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(deps.Logger))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	authenticate := middleware.Authenticate(deps.Tokens)
	throttle := middleware.Throttle(deps.Limiter)

	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register, throttle)
	auth.POST("/login", authHandler.Login, throttle)
	auth.GET("/me", authHandler.Me, authenticate)

	anyStaff := middleware.RequireRoles(model.RoleOwner, model.RoleReceptionist, model.RoleStylist)
	frontDesk := middleware.RequireRoles(model.RoleOwner, model.RoleReceptionist)
	ownerOnly := middleware.RequireRoles(model.RoleOwner)

	customersGroup := e.Group("/customers", authenticate)
	customersGroup.GET("", customerHandler.ListCustomers, anyStaff)
	customersGroup.GET("/:id", customerHandler.GetCustomer, anyStaff)
	customersGroup.POST("", customerHandler.CreateCustomer, frontDesk)
	customersGroup.PUT("/:id", customerHandler.UpdateCustomer, frontDesk)
	customersGroup.DELETE("/:id", customerHandler.DeleteCustomer, ownerOnly)

	return e, nil
}
