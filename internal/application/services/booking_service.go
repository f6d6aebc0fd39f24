package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/providers"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
	"github.com/zatekoja/dentalclinic/pkg/utils"
)

// BookAppointmentRequest is a booking made by phone number for a date and time
type BookAppointmentRequest struct {
	Phone string
	Date  string
	Time  string
	Notes *string
}

// BookingResult is a successfully booked appointment
type BookingResult struct {
	Appointment *entities.Appointment
	PatientName string
	Date        string
	Time        string
}

// CreateAppointmentRequest is a booking made by patient id for an instant
type CreateAppointmentRequest struct {
	PatientID       string
	AppointmentDate string
	Duration        *int
	Notes           *string
}

// PatientLookup is the result of a phone lookup; a miss is not an error
type PatientLookup struct {
	Found   bool
	Patient *entities.Patient
}

// DuplicatePatientError reports the patient already registered under a phone.
// It unwraps to a duplicate_phone conflict.
type DuplicatePatientError struct {
	Existing *entities.Patient
	err      *apperrors.AppError
}

func (e *DuplicatePatientError) Error() string { return e.err.Error() }

func (e *DuplicatePatientError) Unwrap() error { return e.err }

// NewDuplicatePatientError wraps the patient already holding a phone
func NewDuplicatePatientError(existing *entities.Patient) *DuplicatePatientError {
	return &DuplicatePatientError{
		Existing: existing,
		err: apperrors.NewConflictError(apperrors.CodeDuplicatePhone, "Patient with this phone number already exists").
			WithArabic("يوجد مريض بهذا الرقم مسبقاً"),
	}
}

var localDateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// BookingService registers patients and books appointments. All inserts for a
// clinic day go through the day's lock; the store's unique index is the final
// word on conflicts.
type BookingService struct {
	patients     repositories.PatientRepository
	appointments repositories.AppointmentRepository
	locker       providers.SlotLocker
	notifier     *NotificationService
	loc          *time.Location
	metrics      *observability.Metrics
}

// NewBookingService creates a new booking service
func NewBookingService(
	patients repositories.PatientRepository,
	appointments repositories.AppointmentRepository,
	locker providers.SlotLocker,
	notifier *NotificationService,
	loc *time.Location,
	metrics *observability.Metrics,
) *BookingService {
	if loc == nil {
		loc = time.Local
	}
	return &BookingService{
		patients:     patients,
		appointments: appointments,
		locker:       locker,
		notifier:     notifier,
		loc:          loc,
		metrics:      metrics,
	}
}

// BookAppointment books the exact instant date+time for the patient owning phone.
// The patient must already exist.
func (s *BookingService) BookAppointment(ctx context.Context, req BookAppointmentRequest) (*BookingResult, error) {
	ctx, span := observability.StartSpan(ctx, "BookingService.BookAppointment",
		attribute.String("clinic.date", req.Date),
		attribute.String("clinic.time", req.Time),
	)
	defer span.End()

	result, err := s.bookAppointment(ctx, req)
	s.observeBooking(err)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("appointment.id", result.Appointment.ID))
	return result, nil
}

func (s *BookingService) bookAppointment(ctx context.Context, req BookAppointmentRequest) (*BookingResult, error) {
	if err := requireFields(
		requiredField{"phone", req.Phone},
		requiredField{"date", req.Date},
		requiredField{"time", req.Time},
	); err != nil {
		return nil, err
	}

	day, at, err := parseSlot(req.Date, req.Time)
	if err != nil {
		return nil, err
	}

	phone := utils.NormalizePhone(req.Phone)
	if phone.IsEmpty() {
		return nil, requireFields(requiredField{"phone", ""})
	}

	patient, err := s.patients.GetByPhoneKey(ctx, phone.Key)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperrors.NewNotFoundError(apperrors.CodePatientNotFound, "Patient not found. Please create patient first.").
			WithArabic("المريض غير موجود. يرجى إنشاء ملف المريض أولاً")
	}

	appointment := &entities.Appointment{
		PatientID:       patient.ID,
		AppointmentDate: entities.Instant(day, at, s.loc),
		Duration:        entities.DefaultAppointmentDuration,
		Status:          entities.AppointmentStatusScheduled,
		Notes:           blankToNil(req.Notes),
	}
	if err := s.reserve(ctx, appointment); err != nil {
		return nil, err
	}

	s.notifier.AppointmentCreated(ctx, appointment, patient)

	return &BookingResult{
		Appointment: appointment,
		PatientName: patient.Name,
		Date:        day.String(),
		Time:        at.String(),
	}, nil
}

// CreatePatient registers a patient. A phone already on file returns a
// *DuplicatePatientError carrying the existing patient.
func (s *BookingService) CreatePatient(ctx context.Context, name, phone string) (*entities.Patient, error) {
	ctx, span := observability.StartSpan(ctx, "BookingService.CreatePatient")
	defer span.End()

	if err := requireFields(requiredField{"name", name}, requiredField{"phone", phone}); err != nil {
		return nil, err
	}

	normalized := utils.NormalizePhone(phone)
	if normalized.IsEmpty() {
		return nil, requireFields(requiredField{"phone", ""})
	}

	existing, err := s.patients.GetByPhoneKey(ctx, normalized.Key)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	if existing != nil {
		return nil, NewDuplicatePatientError(existing)
	}

	now := time.Now().UTC()
	patient := &entities.Patient{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		Phone:     normalized.Display,
		PhoneKey:  normalized.Key,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.patients.Create(ctx, patient); err != nil {
		if apperrors.HasCode(err, apperrors.CodeDuplicatePhone) {
			// Lost a race with a concurrent registration
			if winner, lookupErr := s.patients.GetByPhoneKey(ctx, normalized.Key); lookupErr == nil && winner != nil {
				return nil, NewDuplicatePatientError(winner)
			}
		}
		observability.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("patient.id", patient.ID))
	return patient, nil
}

// CreateAppointment books an instant for a known patient id. The instant is
// RFC3339 or a local YYYY-MM-DDTHH:mm[:ss] in the clinic timezone.
func (s *BookingService) CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*entities.Appointment, error) {
	ctx, span := observability.StartSpan(ctx, "BookingService.CreateAppointment")
	defer span.End()

	appointment, err := s.createAppointment(ctx, req)
	s.observeBooking(err)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	return appointment, nil
}

func (s *BookingService) createAppointment(ctx context.Context, req CreateAppointmentRequest) (*entities.Appointment, error) {
	if err := requireFields(
		requiredField{"patient_id", req.PatientID},
		requiredField{"appointment_date", req.AppointmentDate},
	); err != nil {
		return nil, err
	}

	instant, err := s.parseInstant(req.AppointmentDate)
	if err != nil {
		return nil, err
	}

	duration := entities.DefaultAppointmentDuration
	if req.Duration != nil {
		if *req.Duration <= 0 {
			return nil, apperrors.NewValidationError(apperrors.CodeInvalidDuration, "duration must be a positive number of minutes").
				WithArabic("مدة الموعد غير صحيحة")
		}
		duration = *req.Duration
	}

	patient, err := s.getPatient(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}

	appointment := &entities.Appointment{
		PatientID:       patient.ID,
		AppointmentDate: instant,
		Duration:        duration,
		Status:          entities.AppointmentStatusScheduled,
		Notes:           blankToNil(req.Notes),
	}
	if err := s.reserve(ctx, appointment); err != nil {
		return nil, err
	}

	s.notifier.AppointmentCreated(ctx, appointment, patient)

	return appointment, nil
}

// GetPatientByPhone looks a patient up by any formatting of their phone
func (s *BookingService) GetPatientByPhone(ctx context.Context, phone string) (*PatientLookup, error) {
	if err := requireFields(requiredField{"phone", phone}); err != nil {
		return nil, err
	}

	normalized := utils.NormalizePhone(phone)
	if normalized.IsEmpty() {
		return &PatientLookup{Found: false}, nil
	}

	patient, err := s.patients.GetByPhoneKey(ctx, normalized.Key)
	if err != nil {
		return nil, err
	}

	return &PatientLookup{Found: patient != nil, Patient: patient}, nil
}

// GetPatient retrieves a patient by id
func (s *BookingService) GetPatient(ctx context.Context, id string) (*entities.Patient, error) {
	return s.getPatient(ctx, id)
}

// ListPatients retrieves all patients, newest first
func (s *BookingService) ListPatients(ctx context.Context) ([]*entities.Patient, error) {
	return s.patients.List(ctx)
}

// reserve inserts the appointment while holding the lock of its clinic day
func (s *BookingService) reserve(ctx context.Context, appointment *entities.Appointment) error {
	day := entities.DateOf(appointment.AppointmentDate, s.loc)

	unlock, err := s.locker.Acquire(ctx, providers.BookingLockKey(day.String()))
	if err != nil {
		return err
	}
	defer unlock()

	existing, err := s.appointments.FindActiveAt(ctx, appointment.AppointmentDate)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return slotTakenError()
	}

	now := time.Now().UTC()
	appointment.ID = uuid.New().String()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	return s.appointments.Create(ctx, appointment)
}

func (s *BookingService) getPatient(ctx context.Context, id string) (*entities.Patient, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewNotFoundError(apperrors.CodePatientNotFound, fmt.Sprintf("patient with id %s not found", id)).
			WithArabic("المريض غير موجود")
	}
	return s.patients.GetByID(ctx, id)
}

func (s *BookingService) parseInstant(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	var lastErr error
	for _, layout := range localDateTimeLayouts {
		t, err := time.ParseInLocation(layout, value, s.loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, invalidDateError(lastErr)
}

func (s *BookingService) observeBooking(err error) {
	if err == nil {
		s.metrics.ObserveBooking("booked")
		return
	}
	if appErr, ok := apperrors.As(err); ok {
		s.metrics.ObserveBooking(string(appErr.Code))
		return
	}
	s.metrics.ObserveBooking(string(apperrors.CodeInternal))
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
