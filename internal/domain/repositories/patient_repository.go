package repositories

import (
	"context"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
)

// PatientRepository defines the interface for patient data operations
type PatientRepository interface {
	// Create inserts a new patient. A duplicate phone key fails with a
	// duplicate_phone conflict.
	Create(ctx context.Context, patient *entities.Patient) error

	// GetByID retrieves a patient by ID
	GetByID(ctx context.Context, id string) (*entities.Patient, error)

	// GetByPhoneKey retrieves a patient by digits-only phone; nil when absent
	GetByPhoneKey(ctx context.Context, phoneKey string) (*entities.Patient, error)

	// List retrieves all patients, newest first
	List(ctx context.Context) ([]*entities.Patient, error)

	// Count returns the number of patients
	Count(ctx context.Context) (int, error)
}
