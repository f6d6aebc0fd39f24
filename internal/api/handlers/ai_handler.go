package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/zatekoja/dentalclinic/internal/application/services"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
)

// AvailabilityService defines the availability check used by the assistant
type AvailabilityService interface {
	CheckAvailability(ctx context.Context, date, clock string) (*entities.AvailabilityResult, error)
}

// BookingService defines the booking operations used by the assistant and staff tools
type BookingService interface {
	BookAppointment(ctx context.Context, req services.BookAppointmentRequest) (*services.BookingResult, error)
	CreatePatient(ctx context.Context, name, phone string) (*entities.Patient, error)
	CreateAppointment(ctx context.Context, req services.CreateAppointmentRequest) (*entities.Appointment, error)
	GetPatientByPhone(ctx context.Context, phone string) (*services.PatientLookup, error)
	GetPatient(ctx context.Context, id string) (*entities.Patient, error)
	ListPatients(ctx context.Context) ([]*entities.Patient, error)
}

// AIHandler serves the tool endpoints called by the conversational assistant
type AIHandler struct {
	availability AvailabilityService
	booking      BookingService
}

// NewAIHandler creates a new assistant handler
func NewAIHandler(availability AvailabilityService, booking BookingService) *AIHandler {
	return &AIHandler{
		availability: availability,
		booking:      booking,
	}
}

type checkAvailabilityRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type nextAvailableResponse struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	MessageAr string `json:"message_ar"`
}

type checkAvailabilityResponse struct {
	Success       bool                   `json:"success"`
	Available     bool                   `json:"available"`
	Date          string                 `json:"date"`
	Time          string                 `json:"time"`
	Message       string                 `json:"message"`
	MessageAr     string                 `json:"message_ar"`
	NextAvailable *nextAvailableResponse `json:"nextAvailable,omitempty"`
}

// CheckAvailability handles POST /api/ai/check-availability
func (h *AIHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req checkAvailabilityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}

	result, err := h.availability.CheckAvailability(r.Context(), req.Date, req.Time)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	resp := checkAvailabilityResponse{
		Success:   true,
		Available: result.Available,
		Date:      result.Date,
		Time:      result.Time,
		Message:   "This time slot is available",
		MessageAr: "هذا الموعد متاح",
	}
	if !result.Available {
		resp.Message = "This time slot is already taken"
		resp.MessageAr = "هذا الموعد محجوز بالفعل"
		if next := result.NextAvailable; next != nil {
			resp.NextAvailable = &nextAvailableResponse{
				Date:      next.Date,
				Time:      next.Time,
				MessageAr: fmt.Sprintf("الموعد القريب المتاح هو الساعة %s", next.Time),
			}
		} else {
			resp.MessageAr = "هذا الموعد محجوز بالفعل ولا توجد مواعيد متاحة بعده في هذا اليوم"
		}
	}

	respondWithJSON(w, http.StatusOK, resp)
}

type bookAppointmentRequest struct {
	Phone string  `json:"phone"`
	Date  string  `json:"date"`
	Time  string  `json:"time"`
	Notes *string `json:"notes"`
}

type bookedAppointment struct {
	ID          string                     `json:"id"`
	PatientName string                     `json:"patient_name"`
	Date        string                     `json:"date"`
	Time        string                     `json:"time"`
	Status      entities.AppointmentStatus `json:"status"`
}

// BookAppointment handles POST /api/ai/book-appointment
func (h *AIHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var req bookAppointmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}

	result, err := h.booking.BookAppointment(r.Context(), services.BookAppointmentRequest{
		Phone: req.Phone,
		Date:  req.Date,
		Time:  req.Time,
		Notes: req.Notes,
	})
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success":    true,
		"message":    "Appointment booked successfully",
		"message_ar": fmt.Sprintf("تم حجز موعدك بنجاح يا %s! نتطلع لرؤيتك يوم %s الساعة %s", result.PatientName, result.Date, result.Time),
		"appointment": bookedAppointment{
			ID:          result.Appointment.ID,
			PatientName: result.PatientName,
			Date:        result.Date,
			Time:        result.Time,
			Status:      result.Appointment.Status,
		},
	})
}

type getPatientRequest struct {
	Phone string `json:"phone"`
}

// GetPatient handles POST /api/ai/get-patient
func (h *AIHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	var req getPatientRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}

	lookup, err := h.booking.GetPatientByPhone(r.Context(), req.Phone)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	if !lookup.Found {
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"success":    true,
			"found":      false,
			"message":    "No patient found with this phone number",
			"message_ar": "لم يتم العثور على مريض بهذا الرقم",
		})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"found":      true,
		"patient":    lookup.Patient,
		"message_ar": fmt.Sprintf("مرحباً %s! وجدنا ملفك في النظام.", lookup.Patient.Name),
	})
}
