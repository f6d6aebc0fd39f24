package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/dentalclinic/internal/infrastructure/observability"
)

func TestCORSMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantOrigin string
		wantStatus int
	}{
		{
			name:       "wildcard by default",
			method:     http.MethodGet,
			origin:     "https://anything.example.com",
			wantOrigin: "*",
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "listed origin is echoed",
			allowed:    []string{"https://clinic.example.com"},
			method:     http.MethodPost,
			origin:     "https://clinic.example.com",
			wantOrigin: "https://clinic.example.com",
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "unlisted origin gets no header",
			allowed:    []string{"https://clinic.example.com"},
			method:     http.MethodGet,
			origin:     "https://evil.example.com",
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "preflight short-circuits",
			allowed:    []string{"https://clinic.example.com"},
			method:     http.MethodOptions,
			origin:     "https://clinic.example.com",
			wantOrigin: "https://clinic.example.com",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := CORSMiddleware(tt.allowed)(ok)
			req := httptest.NewRequest(tt.method, "/api/patients", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestLoggingMiddleware_PassesStatusThrough(t *testing.T) {
	handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"success":false}`))
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/ai/book-appointment", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"success":false}`, w.Body.String())
}

func TestObservabilityMiddleware_LabelsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/patients/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	handler := ObservabilityMiddleware(metrics)(LoggingMiddleware(mux))

	for _, path := range []string{"/api/patients/a", "/api/patients/b", "/nowhere"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	families, err := reg.Gather()
	require.NoError(t, err)

	routes := map[string]float64{}
	for _, family := range families {
		if family.GetName() != "dental_clinic_http_requests_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "route" {
					routes[label.GetValue()] += metric.GetCounter().GetValue()
				}
			}
		}
	}

	assert.Equal(t, float64(2), routes["GET /api/patients/{id}"])
	assert.Equal(t, float64(1), routes[unmatchedRoute])

	count, err := testutil.GatherAndCount(reg, "dental_clinic_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
