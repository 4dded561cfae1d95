package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"salonos-service/internal/apperror"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func renderError(t *testing.T, err error) (int, Envelope) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	HTTPErrorHandler(err, c)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", apperror.Validation("name and phone are required"), http.StatusBadRequest, "name and phone are required"},
		{"conflict", apperror.Conflict("email already registered", nil), http.StatusBadRequest, "email already registered"},
		{"authentication", apperror.Authentication("invalid or expired token"), http.StatusUnauthorized, "invalid or expired token"},
		{"authorization", apperror.Authorization("access denied, required role: owner"), http.StatusForbidden, "access denied, required role: owner"},
		{"not found", apperror.NotFound("customer not found"), http.StatusNotFound, "customer not found"},
		{"rate limited", apperror.RateLimited("slow down"), http.StatusTooManyRequests, "slow down"},
		{"internal hides cause", apperror.Internal("failed to load customers", errors.New("pq: relation missing")), http.StatusInternalServerError, "internal server error"},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), http.StatusMethodNotAllowed, "Method Not Allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := renderError(t, tt.err)
			require.Equal(t, tt.status, status)
			require.False(t, env.Success)
			require.Equal(t, tt.message, env.Message)
			require.Nil(t, env.Data)
		})
	}
}

func TestRespondList(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, respondList(c, []string{}))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, true, body["success"])
	require.EqualValues(t, 0, body["count"])
	require.Equal(t, []any{}, body["data"])
}
