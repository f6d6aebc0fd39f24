package entities

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// DefaultAppointmentDuration is used when the caller gives no duration, in minutes
const DefaultAppointmentDuration = 30

// AppointmentStatuses lists every status in display order
var AppointmentStatuses = []AppointmentStatus{
	AppointmentStatusScheduled,
	AppointmentStatusConfirmed,
	AppointmentStatusCompleted,
	AppointmentStatusCancelled,
}

// CanTransitionTo reports whether staff may move an appointment from s to next.
// Cancelled and completed are terminal.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case AppointmentStatusScheduled:
		return next == AppointmentStatusConfirmed ||
			next == AppointmentStatusCancelled ||
			next == AppointmentStatusCompleted
	case AppointmentStatusConfirmed:
		return next == AppointmentStatusCancelled ||
			next == AppointmentStatusCompleted
	default:
		return false
	}
}

// OccupiesSlot reports whether an appointment in this status blocks its start instant
func (s AppointmentStatus) OccupiesSlot() bool {
	return s != AppointmentStatusCancelled
}

// Appointment represents a scheduled appointment
type Appointment struct {
	ID              string            `json:"id" db:"id"`
	PatientID       string            `json:"patient_id" db:"patient_id"`
	AppointmentDate time.Time         `json:"appointment_date" db:"appointment_date"`
	Duration        int               `json:"duration" db:"duration"`
	Status          AppointmentStatus `json:"status" db:"status"`
	Notes           *string           `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" db:"updated_at"`

	// Patient is populated by listing queries that join patients
	Patient *Patient `json:"patient,omitempty" db:"-"`
}
