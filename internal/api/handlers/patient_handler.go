package handlers

import (
	"errors"
	"net/http"

	"github.com/zatekoja/dentalclinic/internal/application/services"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

// PatientHandler handles patient registration and lookup
type PatientHandler struct {
	booking BookingService
}

// NewPatientHandler creates a new patient handler
func NewPatientHandler(booking BookingService) *PatientHandler {
	return &PatientHandler{
		booking: booking,
	}
}

type createPatientRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type duplicatePatientResponse struct {
	errorResponse
	ExistingPatient entities.PatientSummary `json:"existingPatient"`
}

// CreatePatient handles POST /api/create-patient
func (h *PatientHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req createPatientRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}

	patient, err := h.booking.CreatePatient(r.Context(), req.Name, req.Phone)
	if err != nil {
		var dup *services.DuplicatePatientError
		if errors.As(err, &dup) {
			respondWithJSON(w, http.StatusConflict, duplicatePatientResponse{
				errorResponse: errorResponse{
					Error:   "Patient with this phone number already exists",
					ErrorAr: "يوجد مريض بهذا الرقم مسبقاً",
					Code:    apperrors.CodeDuplicatePhone,
				},
				ExistingPatient: dup.Existing.Summary(),
			})
			return
		}
		respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success":    true,
		"message":    "Patient created successfully",
		"message_ar": "تم إضافة المريض بنجاح",
		"patient":    patient,
	})
}

// ListPatients handles GET /api/patients
func (h *PatientHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.booking.ListPatients(r.Context())
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	if patients == nil {
		patients = []*entities.Patient{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"count":    len(patients),
		"patients": patients,
	})
}

// GetPatient handles GET /api/patients/{id}
func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	patient, err := h.booking.GetPatient(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"patient": patient,
	})
}
