package handler

import (
	"net/http"

	"salonos-service/internal/apperror"
	"salonos-service/internal/middleware"
	"salonos-service/internal/model"
	"salonos-service/internal/repository"
	"salonos-service/pkg/logger"
	"salonos-service/prometheus"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CustomerRequest is the body of customer create and update calls.
// Absent fields are left unchanged on update. It has no tenant field.
type CustomerRequest struct {
	Name   *string `json:"name"`
	NameAr *string `json:"name_ar"`
	Phone  *string `json:"phone"`
	Email  *string `json:"email"`
	Notes  *string `json:"notes"`
}

// CustomerHandler serves tenant-scoped customer endpoints.
// The tenant always comes from the verified token.
type CustomerHandler struct {
	customers repository.CustomerRepository
}

// NewCustomerHandler creates a CustomerHandler.
func NewCustomerHandler(customers repository.CustomerRepository) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// ListCustomers returns the caller's tenant's customers, newest first.
func (h *CustomerHandler) ListCustomers(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}

	customers, err := h.customers.List(c.Request().Context(), identity.TenantID)
	if err != nil {
		prometheus.RecordCustomerOperation("list", apperror.KindOf(err).String())
		return err
	}

	prometheus.RecordCustomerOperation("list", "success")
	logger.FromContext(c).Debug("Customers retrieved", zap.Int("count", len(customers)))
	return respondList(c, customers)
}

// GetCustomer returns one customer of the caller's tenant.
func (h *CustomerHandler) GetCustomer(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}
	id, err := customerID(c)
	if err != nil {
		return err
	}

	customer, err := h.customers.Get(c.Request().Context(), id, identity.TenantID)
	if err != nil {
		prometheus.RecordCustomerOperation("get", apperror.KindOf(err).String())
		return err
	}

	prometheus.RecordCustomerOperation("get", "success")
	return respond(c, http.StatusOK, "", customer)
}

// CreateCustomer adds a customer to the caller's tenant.
func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid request data", zap.Error(err))
		return apperror.Validation("invalid request body")
	}

	customer, err := h.customers.Create(c.Request().Context(), identity.TenantID, repository.CustomerFields{
		Name:   deref(req.Name),
		NameAr: deref(req.NameAr),
		Phone:  deref(req.Phone),
		Email:  deref(req.Email),
		Notes:  deref(req.Notes),
	})
	if err != nil {
		prometheus.RecordCustomerOperation("create", apperror.KindOf(err).String())
		return err
	}

	prometheus.RecordCustomerOperation("create", "success")
	log.Info("Customer created", zap.String("customer_id", customer.ID.String()))
	return respond(c, http.StatusCreated, "customer created successfully", customer)
}

// UpdateCustomer applies a partial update to a customer of the caller's tenant.
func (h *CustomerHandler) UpdateCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}
	id, err := customerID(c)
	if err != nil {
		return err
	}

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid request data", zap.Error(err))
		return apperror.Validation("invalid request body")
	}

	customer, err := h.customers.Update(c.Request().Context(), id, identity.TenantID, repository.CustomerPatch{
		Name:   req.Name,
		NameAr: req.NameAr,
		Phone:  req.Phone,
		Email:  req.Email,
		Notes:  req.Notes,
	})
	if err != nil {
		prometheus.RecordCustomerOperation("update", apperror.KindOf(err).String())
		return err
	}

	prometheus.RecordCustomerOperation("update", "success")
	log.Info("Customer updated", zap.String("customer_id", customer.ID.String()))
	return respond(c, http.StatusOK, "customer updated successfully", customer)
}

// DeleteCustomer soft-deletes a customer of the caller's tenant.
func (h *CustomerHandler) DeleteCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}
	id, err := customerID(c)
	if err != nil {
		return err
	}

	if _, err := h.customers.SoftDelete(c.Request().Context(), id, identity.TenantID); err != nil {
		prometheus.RecordCustomerOperation("delete", apperror.KindOf(err).String())
		return err
	}

	prometheus.RecordCustomerOperation("delete", "success")
	log.Info("Customer deleted", zap.String("customer_id", id.String()))
	return respond(c, http.StatusOK, "customer deleted successfully", nil)
}

func callerIdentity(c echo.Context) (*model.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return nil, apperror.Authentication("authentication required")
	}
	return identity, nil
}

// customerID parses the :id path parameter. A malformed id reads as not found,
// the same answer any unknown id gets.
func customerID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperror.NotFound("customer not found")
	}
	return id, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
