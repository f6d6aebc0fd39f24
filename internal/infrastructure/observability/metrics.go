package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors for the clinic API.
type Metrics struct {
	requestTotal      *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	availabilityTotal *prometheus.CounterVec
	bookingTotal      *prometheus.CounterVec
	transitionTotal   *prometheus.CounterVec
	notificationTotal *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg, or the default registerer when reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dental_clinic",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dental_clinic",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		availabilityTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dental_clinic",
			Subsystem: "scheduling",
			Name:      "availability_checks_total",
			Help:      "Availability checks by result",
		}, []string{"result"}),
		bookingTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dental_clinic",
			Subsystem: "scheduling",
			Name:      "bookings_total",
			Help:      "Booking attempts by outcome",
		}, []string{"outcome"}),
		transitionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dental_clinic",
			Subsystem: "scheduling",
			Name:      "status_transitions_total",
			Help:      "Appointment status transitions by target status and outcome",
		}, []string{"status", "outcome"}),
		notificationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dental_clinic",
			Subsystem: "notifications",
			Name:      "sent_total",
			Help:      "Outbound notifications by channel and status",
		}, []string{"channel", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestTotal, m.requestDuration, m.availabilityTotal, m.bookingTotal, m.transitionTotal, m.notificationTotal)
	return m
}

func (m *Metrics) ObserveRequest(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.requestTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(seconds)
}

func (m *Metrics) ObserveAvailability(available bool) {
	if m == nil {
		return
	}
	result := "taken"
	if available {
		result = "available"
	}
	m.availabilityTotal.WithLabelValues(result).Inc()
}

// ObserveBooking counts a booking attempt; outcome is "booked" or an error code.
func (m *Metrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveTransition(status, outcome string) {
	if m == nil {
		return
	}
	m.transitionTotal.WithLabelValues(status, outcome).Inc()
}

func (m *Metrics) ObserveNotification(channel string, sent bool) {
	if m == nil {
		return
	}
	status := "failed"
	if sent {
		status = "sent"
	}
	m.notificationTotal.WithLabelValues(channel, status).Inc()
}
