package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/dentalclinic/internal/application/services"
)

// StatisticsService defines the clinic summary operations
type StatisticsService interface {
	Daily(ctx context.Context) (*services.DailyReport, error)
}

// StatisticsHandler serves clinic summaries for reporting automations
type StatisticsHandler struct {
	service StatisticsService
}

// NewStatisticsHandler creates a new statistics handler
func NewStatisticsHandler(service StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{
		service: service,
	}
}

// Daily handles GET /api/statistics/daily.
//
// The statistics object carries totalPatients, todayAppointments and
// appointmentsByStatus only. Visit and revenue figures (todayVisits,
// todayRevenue) are not tracked by this service and are never included, so
// daily-report workflows must read them from the visits system.
func (h *StatisticsHandler) Daily(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Daily(r.Context())
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"date":       report.Date,
		"statistics": report.Statistics,
	})
}
