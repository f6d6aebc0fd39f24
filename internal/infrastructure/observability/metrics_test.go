package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveRequest("POST", "/api/ai/book-appointment", 200, 0.02)
	m.ObserveAvailability(true)
	m.ObserveAvailability(false)
	m.ObserveBooking("booked")
	m.ObserveBooking("slot_taken")
	m.ObserveTransition("confirmed", "ok")
	m.ObserveNotification("whatsapp", true)

	if got := testutil.ToFloat64(m.bookingTotal.WithLabelValues("slot_taken")); got != 1 {
		t.Errorf("slot_taken bookings = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.availabilityTotal.WithLabelValues("available")); got != 1 {
		t.Errorf("available checks = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.requestTotal.WithLabelValues("POST", "/api/ai/book-appointment", "200")); got != 1 {
		t.Errorf("request count = %v, want 1", got)
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("GET", "/api/health", 200, 0.001)
	m.ObserveAvailability(true)
	m.ObserveBooking("booked")
	m.ObserveTransition("cancelled", "ok")
	m.ObserveNotification("webhook", false)
}
