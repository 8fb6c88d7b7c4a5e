package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveOperation(t *testing.T) {
	m := New()

	m.ObserveOperation("create", OutcomeOK, time.Now())
	m.ObserveOperation("create", OutcomeOK, time.Now())
	m.ObserveOperation("create", OutcomeInvalid, time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("create", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("create", OutcomeInvalid)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.OperationDuration))
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.IncrementHTTPRequest("GET", "/customers", "200")

	assert.Equal(t, 1.0, testutil.ToFloat64(a.HTTPRequests.WithLabelValues("GET", "/customers", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.HTTPRequests.WithLabelValues("GET", "/customers", "200")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveOperation("delete", OutcomeNotFound, time.Now())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `customers_operations_total{operation="delete",outcome="not_found"} 1`)
}
