package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/observability"
)

// AvailabilityService answers whether a clinic slot is free and, when it is
// not, which later slot of the same day is
type AvailabilityService struct {
	repo    repositories.AppointmentRepository
	hours   entities.WorkingHours
	loc     *time.Location
	metrics *observability.Metrics
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(
	repo repositories.AppointmentRepository,
	hours entities.WorkingHours,
	loc *time.Location,
	metrics *observability.Metrics,
) *AvailabilityService {
	if loc == nil {
		loc = time.Local
	}
	return &AvailabilityService{
		repo:    repo,
		hours:   hours,
		loc:     loc,
		metrics: metrics,
	}
}

// CheckAvailability reports whether the exact instant date+clock is free.
// It only reads.
func (s *AvailabilityService) CheckAvailability(ctx context.Context, date, clock string) (*entities.AvailabilityResult, error) {
	ctx, span := observability.StartSpan(ctx, "AvailabilityService.CheckAvailability",
		attribute.String("clinic.date", date),
		attribute.String("clinic.time", clock),
	)
	defer span.End()

	if err := requireFields(requiredField{"date", date}, requiredField{"time", clock}); err != nil {
		return nil, err
	}

	day, at, err := parseSlot(date, clock)
	if err != nil {
		return nil, err
	}

	instant := entities.Instant(day, at, s.loc)
	taken, err := s.repo.FindActiveAt(ctx, instant)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	result := &entities.AvailabilityResult{
		Date:      day.String(),
		Time:      at.String(),
		Available: len(taken) == 0,
	}

	if !result.Available {
		next, err := s.nextAvailable(ctx, day, instant)
		if err != nil {
			observability.RecordError(span, err)
			return nil, err
		}
		result.NextAvailable = next
	}

	span.SetAttributes(attribute.Bool("clinic.available", result.Available))
	s.metrics.ObserveAvailability(result.Available)

	return result, nil
}

// nextAvailable walks the day's slot grid and returns the first free slot
// strictly after the requested instant, or nil when the rest of the day is full
func (s *AvailabilityService) nextAvailable(ctx context.Context, day entities.CalendarDate, requested time.Time) (*entities.Slot, error) {
	from := day.Start(s.loc)
	to := from.AddDate(0, 0, 1)

	dayAppointments, err := s.repo.List(ctx, repositories.AppointmentFilter{
		From:          &from,
		To:            &to,
		ExcludeStatus: entities.AppointmentStatusCancelled,
	})
	if err != nil {
		return nil, err
	}

	// Keyed to the nanosecond to agree with the exact-instant check
	taken := make(map[int64]struct{}, len(dayAppointments))
	for _, a := range dayAppointments {
		taken[a.AppointmentDate.UnixNano()] = struct{}{}
	}

	for _, slot := range s.hours.SlotTimes() {
		instant := entities.Instant(day, slot, s.loc)
		if !instant.After(requested) {
			continue
		}
		if _, busy := taken[instant.UnixNano()]; busy {
			continue
		}
		return &entities.Slot{Date: day.String(), Time: slot.String()}, nil
	}

	return nil, nil
}
