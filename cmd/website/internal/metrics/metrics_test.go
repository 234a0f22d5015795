package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Exposition(t *testing.T) {
	m := New()

	m.ObserveRequest(http.MethodGet, "GET /", http.StatusOK, 15*time.Millisecond)
	m.ObserveUpload("photos", false)
	m.ObserveUpload("photos", false)
	m.ObserveUpload("music", true)
	m.UploadsLimited.Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Uploads.WithLabelValues("photos", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Uploads.WithLabelValues("music", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UploadsLimited))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `couplestory_http_request_duration_seconds_count{method="GET",route="GET /",status="200"} 1`), body)
	assert.True(t, strings.Contains(body, "couplestory_uploads_rate_limited_total 1"))
}
