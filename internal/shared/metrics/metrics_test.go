package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(normalizationsTotal.WithLabelValues("json"))
	IncNormalization("json")
	assert.Equal(t, before+1, testutil.ToFloat64(normalizationsTotal.WithLabelValues("json")))

	before = testutil.ToFloat64(checkinsSubmittedTotal.WithLabelValues("completed"))
	IncCheckinSubmitted("completed")
	assert.Equal(t, before+1, testutil.ToFloat64(checkinsSubmittedTotal.WithLabelValues("completed")))
}

func TestHandlerRendersRegistry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	IncNormalization("structured")
	ObserveNormalizationDuration(3 * time.Millisecond)
	ObserveNormalizationDuration(-time.Second)

	r := gin.New()
	r.Use(Middleware())
	r.GET("/metrics", Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `recommendation_normalizations_total{source="structured"}`)
	assert.Contains(t, body, "recommendation_normalization_duration_ms_count")
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(http.StatusCreated))
	assert.Equal(t, "3xx", statusClass(http.StatusFound))
	assert.Equal(t, "4xx", statusClass(http.StatusUnprocessableEntity))
	assert.Equal(t, "5xx", statusClass(http.StatusBadGateway))
}

func TestRegisterDBStats(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RegisterDBStats(db, "metrics_test"))
	assert.Error(t, RegisterDBStats(db, "metrics_test"))

	w := httptest.NewRecorder()
	r := gin.New()
	r.GET("/metrics", Handler())
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), `go_sql_max_open_connections{db_name="metrics_test"}`)
}
