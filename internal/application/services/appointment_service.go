package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

// TransitionResult is an appointment after a status change. Notification is
// set when the change triggered a patient message.
type TransitionResult struct {
	Appointment  *entities.Appointment
	Notification *entities.NotificationOutcome
}

// AppointmentService handles staff-side appointment lifecycle and listings
type AppointmentService struct {
	repo     repositories.AppointmentRepository
	notifier *NotificationService
	loc      *time.Location
	metrics  *observability.Metrics
	now      func() time.Time
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(
	repo repositories.AppointmentRepository,
	notifier *NotificationService,
	loc *time.Location,
	metrics *observability.Metrics,
) *AppointmentService {
	if loc == nil {
		loc = time.Local
	}
	return &AppointmentService{
		repo:     repo,
		notifier: notifier,
		loc:      loc,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Confirm moves a scheduled appointment to confirmed, then messages the patient.
// A failed message does not undo the confirmation.
func (s *AppointmentService) Confirm(ctx context.Context, id string) (*TransitionResult, error) {
	appointment, err := s.transition(ctx, id, entities.AppointmentStatusConfirmed)
	if err != nil {
		return nil, err
	}

	outcome := s.notifier.AppointmentConfirmed(ctx, appointment, appointment.Patient)
	return &TransitionResult{Appointment: appointment, Notification: &outcome}, nil
}

// Cancel cancels a scheduled or confirmed appointment, freeing its slot
func (s *AppointmentService) Cancel(ctx context.Context, id string) (*TransitionResult, error) {
	appointment, err := s.transition(ctx, id, entities.AppointmentStatusCancelled)
	if err != nil {
		return nil, err
	}

	s.notifier.AppointmentCancelled(ctx, appointment, appointment.Patient)
	return &TransitionResult{Appointment: appointment}, nil
}

// Complete marks a scheduled or confirmed appointment as attended
func (s *AppointmentService) Complete(ctx context.Context, id string) (*TransitionResult, error) {
	appointment, err := s.transition(ctx, id, entities.AppointmentStatusCompleted)
	if err != nil {
		return nil, err
	}
	return &TransitionResult{Appointment: appointment}, nil
}

// Get retrieves an appointment with its patient
func (s *AppointmentService) Get(ctx context.Context, id string) (*entities.Appointment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, appointmentNotFound(id)
	}
	return s.repo.GetByID(ctx, id)
}

// Today lists every appointment of the current clinic day, cancelled included
func (s *AppointmentService) Today(ctx context.Context) ([]*entities.Appointment, error) {
	from := entities.DateOf(s.now(), s.loc).Start(s.loc)
	to := from.AddDate(0, 0, 1)

	return s.repo.List(ctx, repositories.AppointmentFilter{
		From:           &from,
		To:             &to,
		IncludePatient: true,
	})
}

// Range lists appointments between start and end, both inclusive. Bounds are
// YYYY-MM-DD days in the clinic timezone or RFC3339 instants.
func (s *AppointmentService) Range(ctx context.Context, start, end string) ([]*entities.Appointment, error) {
	if err := requireFields(requiredField{"start", start}, requiredField{"end", end}); err != nil {
		return nil, err
	}

	from, err := s.parseBound(start, false)
	if err != nil {
		return nil, err
	}
	to, err := s.parseBound(end, true)
	if err != nil {
		return nil, err
	}
	if !from.Before(to) {
		return nil, apperrors.NewValidationError(apperrors.CodeInvalidRange, "start must not be after end").
			WithArabic("تاريخ البداية يجب أن يسبق تاريخ النهاية")
	}

	return s.repo.List(ctx, repositories.AppointmentFilter{
		From:           &from,
		To:             &to,
		IncludePatient: true,
	})
}

// parseBound returns the lower bound of start, or the exclusive upper bound of end
func (s *AppointmentService) parseBound(value string, end bool) (time.Time, error) {
	if day, err := entities.ParseCalendarDate(value); err == nil {
		if end {
			return day.Start(s.loc).AddDate(0, 0, 1), nil
		}
		return day.Start(s.loc), nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, invalidDateError(err)
	}
	if end {
		// timestamptz resolution is one microsecond
		return t.Add(time.Microsecond), nil
	}
	return t, nil
}

func (s *AppointmentService) transition(ctx context.Context, id string, target entities.AppointmentStatus) (*entities.Appointment, error) {
	ctx, span := observability.StartSpan(ctx, "AppointmentService.transition",
		attribute.String("appointment.id", id),
		attribute.String("appointment.target_status", string(target)),
	)
	defer span.End()

	appointment, err := s.applyTransition(ctx, id, target)
	if err != nil {
		observability.RecordError(span, err)
		outcome := string(apperrors.CodeInternal)
		if appErr, ok := apperrors.As(err); ok {
			outcome = string(appErr.Code)
		}
		s.metrics.ObserveTransition(string(target), outcome)
		return nil, err
	}

	s.metrics.ObserveTransition(string(target), "ok")
	return appointment, nil
}

func (s *AppointmentService) applyTransition(ctx context.Context, id string, target entities.AppointmentStatus) (*entities.Appointment, error) {
	appointment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !appointment.Status.CanTransitionTo(target) {
		return nil, invalidTransition(appointment.Status, target)
	}

	if err := s.repo.UpdateStatus(ctx, id, appointment.Status, target); err != nil {
		if !apperrors.HasCode(err, apperrors.CodeInvalidStatusTransition) {
			return nil, err
		}
		// Another change landed between the read and the write
		current, getErr := s.Get(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		return nil, invalidTransition(current.Status, target)
	}

	appointment.Status = target
	appointment.UpdatedAt = s.now().UTC()
	return appointment, nil
}

func invalidTransition(from, to entities.AppointmentStatus) error {
	return apperrors.NewConflictError(apperrors.CodeInvalidStatusTransition,
		fmt.Sprintf("cannot change appointment status from %s to %s", from, to)).
		WithArabic("لا يمكن تغيير حالة هذا الموعد")
}

func appointmentNotFound(id string) error {
	return apperrors.NewNotFoundError(apperrors.CodeAppointmentNotFound, fmt.Sprintf("appointment with id %s not found", id)).
		WithArabic("الموعد غير موجود")
}
