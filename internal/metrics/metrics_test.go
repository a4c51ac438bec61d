package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New()

	m.RecordHTTPRequest(http.MethodGet, "/lista_compras/:usuario_id", http.StatusOK, 20*time.Millisecond)
	m.EntitySaved("recipe")
	m.EntitySaved("recipe")
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/lista_compras/:usuario_id", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.entitiesSaved.WithLabelValues("recipe")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.EntitySaved("user")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `meal_planner_store_entities_saved_total{entity="user"} 1`)
}
