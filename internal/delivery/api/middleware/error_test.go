package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/config"
	"storefront/internal/delivery/api/response"
	domainerrors "storefront/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderError(t *testing.T, cfg *config.Config, method string, err error) (*httptest.ResponseRecorder, response.Envelope) {
	t.Helper()

	e := echo.New()
	handler := NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)), cfg)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(method, "/api/products/1", nil), rec)
	handler.HandleHTTPError(err, c)

	var env response.Envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}

	return rec, env
}

func productionConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Env.Env = config.EnvProduction

	return cfg
}

func TestHandleHTTPError(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *config.Config
		err         error
		wantStatus  int
		wantMessage string
		wantStack   bool
	}{
		{
			name:        "app error keeps its status and message",
			cfg:         &config.Config{},
			err:         errors.WithStack(domainerrors.ErrProductNotFound),
			wantStatus:  http.StatusNotFound,
			wantMessage: "Product not found",
			wantStack:   true,
		},
		{
			name:        "wrapped app error",
			cfg:         &config.Config{},
			err:         domainerrors.ErrInsufficientStock.WithMessage("Insufficient stock for Mug").WrapMessage("create order"),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Insufficient stock for Mug",
			wantStack:   true,
		},
		{
			name:        "echo not found",
			cfg:         &config.Config{},
			err:         echo.ErrNotFound,
			wantStatus:  http.StatusNotFound,
			wantMessage: "Not Found - /api/products/1",
			wantStack:   true,
		},
		{
			name:        "echo body limit",
			cfg:         &config.Config{},
			err:         echo.ErrStatusRequestEntityTooLarge,
			wantStatus:  http.StatusRequestEntityTooLarge,
			wantMessage: "Request Entity Too Large",
			wantStack:   true,
		},
		{
			name:        "unknown error outside production",
			cfg:         &config.Config{},
			err:         errors.New("dial tcp: connection refused"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "dial tcp: connection refused",
			wantStack:   true,
		},
		{
			name:        "unknown error in production",
			cfg:         productionConfig(),
			err:         errors.New("dial tcp: connection refused"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Internal server error, please try again later",
		},
		{
			name:        "no stack in production",
			cfg:         productionConfig(),
			err:         errors.WithStack(domainerrors.ErrForbidden),
			wantStatus:  http.StatusForbidden,
			wantMessage: "Access denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := renderError(t, tt.cfg, http.MethodGet, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantMessage, env.Message)
			assert.Equal(t, tt.wantStack, env.Stack != "")
		})
	}
}

func TestHandleHTTPError_HeadHasNoBody(t *testing.T) {
	rec, _ := renderError(t, &config.Config{}, http.MethodHead, domainerrors.ErrProductNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{header: "Bearer abc.def", want: "abc.def", ok: true},
		{header: "bearer   abc ", want: "abc", ok: true},
		{header: "Basic abc", ok: false},
		{header: "Bearer ", ok: false},
		{header: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := bearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
