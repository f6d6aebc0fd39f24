package middleware

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/dentalclinic/internal/infrastructure/observability"
)

const unmatchedRoute = "unmatched"

// ObservabilityMiddleware traces each request and records request metrics
// labelled by the matched route pattern
func ObservabilityMiddleware(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := observability.StartSpan(r.Context(), r.Method+" "+r.URL.Path,
				attribute.String("http.method", r.Method),
				attribute.String("http.user_agent", r.UserAgent()),
			)
			defer span.End()

			rw := newStatusRecorder(w)
			req := r.WithContext(ctx)
			start := time.Now()

			next.ServeHTTP(rw, req)

			// ServeMux fills in Pattern on the request it was handed
			route := req.Pattern
			if route == "" {
				route = unmatchedRoute
			}

			span.SetName(route)
			span.SetAttributes(
				attribute.String("http.route", route),
				attribute.Int("http.status_code", rw.statusCode),
			)
			metrics.ObserveRequest(r.Method, route, rw.statusCode, time.Since(start).Seconds())
		})
	}
}
