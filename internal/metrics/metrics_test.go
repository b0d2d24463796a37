package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m := New()

	m.ObserveRequest(http.MethodPost, "/api", http.StatusOK, 5*time.Millisecond)
	m.ObserveRequest(http.MethodPost, "/api", http.StatusOK, 5*time.Millisecond)
	m.StoreOperation("load", nil)
	m.StoreOperation("save", errors.New("disk full"))
	m.AuthFailure("header")
	m.SetCatalogSize(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("POST", "/api", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeOps.WithLabelValues("load", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeOps.WithLabelValues("save", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authFailures.WithLabelValues("header")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.catalogProjects))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.SetCatalogSize(1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "portfolio_catalog_projects 1")
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
		m.StoreOperation("load", nil)
		m.AuthFailure("header")
		m.SetCatalogSize(1)
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
