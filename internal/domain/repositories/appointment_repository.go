package repositories

import (
	"context"
	"time"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
)

// AppointmentRepository defines the interface for appointment data operations
type AppointmentRepository interface {
	// Create inserts a new appointment. A second non-cancelled appointment at
	// the same instant fails with a slot_taken conflict.
	Create(ctx context.Context, appointment *entities.Appointment) error

	// GetByID retrieves an appointment by ID
	GetByID(ctx context.Context, id string) (*entities.Appointment, error)

	// UpdateStatus moves an appointment from status from to status to. It fails
	// with invalid_status_transition when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to entities.AppointmentStatus) error

	// FindActiveAt returns non-cancelled appointments starting exactly at instant
	FindActiveAt(ctx context.Context, instant time.Time) ([]*entities.Appointment, error)

	// List retrieves appointments matching the filter, ordered by start ascending
	List(ctx context.Context, filter AppointmentFilter) ([]*entities.Appointment, error)
}

// AppointmentFilter defines filters for listing appointments
type AppointmentFilter struct {
	From *time.Time
	// To is exclusive
	To             *time.Time
	ExcludeStatus  entities.AppointmentStatus
	IncludePatient bool
}
