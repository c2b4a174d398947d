package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEcho(logBuf *bytes.Buffer, m *metrics.Metrics) *echo.Echo {
	logger := slog.New(slog.NewJSONHandler(logBuf, nil))

	e := echo.New()
	e.Use(NewRequestIDMiddleware(logger).Process)
	e.Use(NewLoggerMiddleware(logger, &config.Config{}).Handle)
	e.Use(NewMetricsMiddleware(m).Handle)

	return e
}

func counterFor(t *testing.T, m *metrics.Metrics, labels map[string]string) float64 {
	t.Helper()

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	for _, family := range families {
		if !strings.HasSuffix(family.GetName(), "http_requests_total") {
			continue
		}
		for _, metric := range family.GetMetric() {
			matched := 0
			for _, pair := range metric.GetLabel() {
				if labels[pair.GetName()] == pair.GetValue() {
					matched++
				}
			}
			if matched == len(labels) {
				return metric.GetCounter().GetValue()
			}
		}
	}

	return 0
}

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var buf bytes.Buffer
	e := newTestEcho(&buf, metrics.New(&config.Config{}))

	var seen string
	e.GET("/ping", func(c echo.Context) error {
		seen = deliverycontext.GetRequestIDFromContext(c.Request().Context())

		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(deliverycontext.HeaderXRequestID))
	assert.Contains(t, buf.String(), seen)
}

func TestRequestID_KeepsClientIDUnlessOversized(t *testing.T) {
	var buf bytes.Buffer
	e := newTestEcho(&buf, metrics.New(&config.Config{}))
	e.GET("/ping", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(deliverycontext.HeaderXRequestID, "client-id")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "client-id", rec.Header().Get(deliverycontext.HeaderXRequestID))

	oversized := strings.Repeat("x", deliverycontext.MaxRequestIDLength+1)
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(deliverycontext.HeaderXRequestID, oversized)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.NotEqual(t, oversized, rec.Header().Get(deliverycontext.HeaderXRequestID))
}

func TestLoggerAndMetrics_RecordFinalStatus(t *testing.T) {
	var buf bytes.Buffer
	m := metrics.New(&config.Config{})
	e := newTestEcho(&buf, m)
	e.GET("/items/:id", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/42", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, float64(1), counterFor(t, m, map[string]string{
		"method": http.MethodGet,
		"route":  "/items/:id",
		"status": "418",
	}))

	logLine := buf.String()
	assert.Contains(t, logLine, `"level":"WARN"`)
	assert.Contains(t, logLine, `"status":418`)
	assert.Contains(t, logLine, `"route":"/items/:id"`)
	assert.Contains(t, logLine, "short and stout")
}

func TestMetrics_UnmatchedRouteLabel(t *testing.T) {
	var buf bytes.Buffer
	m := metrics.New(&config.Config{})
	e := newTestEcho(&buf, m)
	e.RouteNotFound("/*", func(c echo.Context) error {
		return echo.ErrNotFound
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere/123", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, float64(1), counterFor(t, m, map[string]string{"route": unmatchedRoute, "status": "404"}))
}
