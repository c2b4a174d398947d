package metrics

import (
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// counterValue sums the samples of a gathered counter family whose labels include want.
func counterValue(t *testing.T, m *Metrics, name string, want map[string]string) float64 {
	t.Helper()

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	var total float64
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			labels := map[string]string{}
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			matched := true
			for k, v := range want {
				if labels[k] != v {
					matched = false
				}
			}
			if matched {
				total += metric.GetCounter().GetValue()
			}
		}
	}

	return total
}

func TestBusinessCounters(t *testing.T) {
	m := New(&config.Config{Metrics: &config.MetricsConfig{Enabled: true, Namespace: "shop"}})
	assert.True(t, m.Enabled())

	m.OrderCreated("website", 30)
	m.OrderCreated("website", 12.5)
	m.OrderCreated("whatsapp", 5)
	m.OrderRejected("insufficient_stock")
	m.OrderStatusChanged("pending", "shipped")

	assert.InDelta(t, 2, counterValue(t, m, "shop_orders_created_total", map[string]string{"source": "website"}), 0.0001)
	assert.InDelta(t, 42.5, counterValue(t, m, "shop_orders_revenue_total", map[string]string{"source": "website"}), 0.0001)
	assert.InDelta(t, 1, counterValue(t, m, "shop_orders_rejected_total", map[string]string{"reason": "insufficient_stock"}), 0.0001)
	assert.InDelta(t, 1, counterValue(t, m, "shop_orders_status_changes_total", map[string]string{"from": "pending", "to": "shipped"}), 0.0001)
}

func TestHandler_ExposesNamespacedMetrics(t *testing.T) {
	m := New(&config.Config{Metrics: &config.MetricsConfig{Enabled: true, Namespace: "shop"}})
	m.OrderCreated("admin", 1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `shop_orders_created_total{source="admin"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNew_DefaultsWhenUnconfigured(t *testing.T) {
	m := New(&config.Config{})
	assert.False(t, m.Enabled())

	m.OrderCreated("website", 1)
	assert.InDelta(t, 1, counterValue(t, m, "storefront_orders_created_total", nil), 0.0001)
}

func TestRegisterDBStats(t *testing.T) {
	m := New(&config.Config{})
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	db.SetMaxOpenConns(3)

	require.NoError(t, m.RegisterDBStats(db, "primary"))
	assert.Error(t, m.RegisterDBStats(db, "primary"))

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	var maxOpen float64
	for _, family := range families {
		if family.GetName() != "go_sql_max_open_connections" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if pair.GetName() == "db_name" && pair.GetValue() == "primary" {
					maxOpen = metric.GetGauge().GetValue()
				}
			}
		}
	}
	assert.InDelta(t, 3, maxOpen, 0.0001)
}
