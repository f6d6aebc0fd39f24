package entities

import (
	"time"
)

// Patient represents a clinic patient. Phone is stored normalized and
// PhoneKey (digits only) is the dedup key.
type Patient struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Phone          string    `json:"phone" db:"phone"`
	PhoneKey       string    `json:"-" db:"phone_key"`
	Email          *string   `json:"email,omitempty" db:"email"`
	MedicalHistory *string   `json:"medical_history,omitempty" db:"medical_history"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// PatientSummary is the subset returned when reconciling duplicates
type PatientSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Summary returns the id/name/phone view of the patient
func (p *Patient) Summary() PatientSummary {
	return PatientSummary{
		ID:    p.ID,
		Name:  p.Name,
		Phone: p.Phone,
	}
}
