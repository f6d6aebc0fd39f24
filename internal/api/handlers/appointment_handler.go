package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/dentalclinic/internal/application/services"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
)

// AppointmentService defines the staff-side appointment operations
type AppointmentService interface {
	Confirm(ctx context.Context, id string) (*services.TransitionResult, error)
	Cancel(ctx context.Context, id string) (*services.TransitionResult, error)
	Complete(ctx context.Context, id string) (*services.TransitionResult, error)
	Today(ctx context.Context) ([]*entities.Appointment, error)
	Range(ctx context.Context, start, end string) ([]*entities.Appointment, error)
}

// AppointmentHandler handles appointment requests
type AppointmentHandler struct {
	service AppointmentService
	booking BookingService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(service AppointmentService, booking BookingService) *AppointmentHandler {
	return &AppointmentHandler{
		service: service,
		booking: booking,
	}
}

type createAppointmentRequest struct {
	PatientID       string  `json:"patient_id"`
	AppointmentDate string  `json:"appointment_date"`
	Duration        *int    `json:"duration"`
	Notes           *string `json:"notes"`
}

// CreateAppointment handles POST /api/appointments/create
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}

	appointment, err := h.booking.CreateAppointment(r.Context(), services.CreateAppointmentRequest{
		PatientID:       req.PatientID,
		AppointmentDate: req.AppointmentDate,
		Duration:        req.Duration,
		Notes:           req.Notes,
	})
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"appointment": appointment,
	})
}

// ConfirmAppointment handles POST /api/appointments/{id}/confirm
func (h *AppointmentHandler) ConfirmAppointment(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Confirm)
}

// CancelAppointment handles POST /api/appointments/{id}/cancel
func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Cancel)
}

// CompleteAppointment handles POST /api/appointments/{id}/complete
func (h *AppointmentHandler) CompleteAppointment(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Complete)
}

func (h *AppointmentHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	apply func(context.Context, string) (*services.TransitionResult, error),
) {
	result, err := apply(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	payload := map[string]interface{}{
		"success":     true,
		"appointment": result.Appointment,
	}
	if result.Notification != nil {
		payload["notification"] = result.Notification
	}

	respondWithJSON(w, http.StatusOK, payload)
}

// TodayAppointments handles GET /api/appointments/today
func (h *AppointmentHandler) TodayAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.service.Today(r.Context())
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithAppointments(w, appointments)
}

// RangeAppointments handles GET /api/appointments/range?start=&end=
func (h *AppointmentHandler) RangeAppointments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	appointments, err := h.service.Range(r.Context(), query.Get("start"), query.Get("end"))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithAppointments(w, appointments)
}

func respondWithAppointments(w http.ResponseWriter, appointments []*entities.Appointment) {
	if appointments == nil {
		appointments = []*entities.Appointment{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"count":        len(appointments),
		"appointments": appointments,
	})
}
