package routes

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zatekoja/dentalclinic/internal/api/handlers"
	"github.com/zatekoja/dentalclinic/internal/api/middleware"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	aiHandler          *handlers.AIHandler
	patientHandler     *handlers.PatientHandler
	appointmentHandler *handlers.AppointmentHandler
	statisticsHandler  *handlers.StatisticsHandler
	webhookHandler     *handlers.WebhookHandler

	metrics        *observability.Metrics
	gatherer       prometheus.Gatherer
	allowedOrigins []string
}

// NewRouter creates a new router. A nil gatherer serves the default registry.
func NewRouter(
	aiHandler *handlers.AIHandler,
	patientHandler *handlers.PatientHandler,
	appointmentHandler *handlers.AppointmentHandler,
	statisticsHandler *handlers.StatisticsHandler,
	webhookHandler *handlers.WebhookHandler,
	metrics *observability.Metrics,
	gatherer prometheus.Gatherer,
	allowedOrigins []string,
) *Router {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Router{
		mux:                http.NewServeMux(),
		aiHandler:          aiHandler,
		patientHandler:     patientHandler,
		appointmentHandler: appointmentHandler,
		statisticsHandler:  statisticsHandler,
		webhookHandler:     webhookHandler,
		metrics:            metrics,
		gatherer:           gatherer,
		allowedOrigins:     allowedOrigins,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","message":"Dental Clinic API is running"}`))
	})
	r.mux.Handle("GET /metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}))

	// Assistant tool endpoints
	r.mux.HandleFunc("POST /api/ai/check-availability", r.aiHandler.CheckAvailability)
	r.mux.HandleFunc("POST /api/ai/book-appointment", r.aiHandler.BookAppointment)
	r.mux.HandleFunc("POST /api/ai/get-patient", r.aiHandler.GetPatient)

	// Patients
	r.mux.HandleFunc("POST /api/create-patient", r.patientHandler.CreatePatient)
	r.mux.HandleFunc("GET /api/patients", r.patientHandler.ListPatients)
	r.mux.HandleFunc("GET /api/patients/{id}", r.patientHandler.GetPatient)

	// Appointments
	r.mux.HandleFunc("POST /api/appointments/create", r.appointmentHandler.CreateAppointment)
	r.mux.HandleFunc("GET /api/appointments/today", r.appointmentHandler.TodayAppointments)
	r.mux.HandleFunc("GET /api/appointments/range", r.appointmentHandler.RangeAppointments)
	r.mux.HandleFunc("POST /api/appointments/{id}/confirm", r.appointmentHandler.ConfirmAppointment)
	r.mux.HandleFunc("POST /api/appointments/{id}/cancel", r.appointmentHandler.CancelAppointment)
	r.mux.HandleFunc("POST /api/appointments/{id}/complete", r.appointmentHandler.CompleteAppointment)

	// Reporting and automation
	r.mux.HandleFunc("GET /api/statistics/daily", r.statisticsHandler.Daily)
	r.mux.HandleFunc("POST /api/webhook/n8n", r.webhookHandler.ReceiveN8N)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS is outermost so preflights skip tracing.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
