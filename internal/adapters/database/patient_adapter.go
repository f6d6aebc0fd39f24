package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

var patientColumns = []interface{}{
	"id", "name", "phone", "phone_key", "email", "medical_history", "created_at", "updated_at",
}

// PatientAdapter implements the PatientRepository interface
type PatientAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPatientAdapter creates a new patient adapter
func NewPatientAdapter(client *postgres.Client) repositories.PatientRepository {
	return &PatientAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new patient
func (a *PatientAdapter) Create(ctx context.Context, patient *entities.Patient) error {
	record := goqu.Record{
		"id":              patient.ID,
		"name":            patient.Name,
		"phone":           patient.Phone,
		"phone_key":       patient.PhoneKey,
		"email":           patient.Email,
		"medical_history": patient.MedicalHistory,
		"created_at":      patient.CreatedAt,
		"updated_at":      patient.UpdatedAt,
	}

	query, args, err := a.db.Insert("patients").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	ctx, cancel := a.client.WithTimeout(ctx)
	defer cancel()

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return storeError("failed to create patient", err)
	}

	return nil
}

// GetByID retrieves a patient by ID
func (a *PatientAdapter) GetByID(ctx context.Context, id string) (*entities.Patient, error) {
	query, args, err := a.db.Select(patientColumns...).
		From("patients").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	patient, err := a.queryOne(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperrors.NewNotFoundError(apperrors.CodePatientNotFound, fmt.Sprintf("patient with id %s not found", id)).
			WithArabic("المريض غير موجود")
	}
	return patient, nil
}

// GetByPhoneKey retrieves a patient by digits-only phone
func (a *PatientAdapter) GetByPhoneKey(ctx context.Context, phoneKey string) (*entities.Patient, error) {
	query, args, err := a.db.Select(patientColumns...).
		From("patients").
		Where(goqu.Ex{"phone_key": phoneKey}).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryOne(ctx, query, args...)
}

// List retrieves all patients, newest first
func (a *PatientAdapter) List(ctx context.Context) ([]*entities.Patient, error) {
	query, args, err := a.db.Select(patientColumns...).
		From("patients").
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	ctx, cancel := a.client.WithTimeout(ctx)
	defer cancel()

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError("failed to list patients", err)
	}
	defer rows.Close()

	var patients []*entities.Patient
	for rows.Next() {
		patient, err := scanPatient(rows)
		if err != nil {
			return nil, storeError("failed to scan patient", err)
		}
		patients = append(patients, patient)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("failed to list patients", err)
	}

	return patients, nil
}

// Count returns the number of patients
func (a *PatientAdapter) Count(ctx context.Context) (int, error) {
	query, args, err := a.db.From("patients").Select(goqu.COUNT("*")).ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build count query", err)
	}

	ctx, cancel := a.client.WithTimeout(ctx)
	defer cancel()

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, storeError("failed to count patients", err)
	}
	return count, nil
}

func (a *PatientAdapter) queryOne(ctx context.Context, query string, args ...interface{}) (*entities.Patient, error) {
	ctx, cancel := a.client.WithTimeout(ctx)
	defer cancel()

	patient, err := scanPatient(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("failed to get patient", err)
	}
	return patient, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPatient(row rowScanner) (*entities.Patient, error) {
	patient := &entities.Patient{}
	var email, medicalHistory sql.NullString

	if err := row.Scan(
		&patient.ID,
		&patient.Name,
		&patient.Phone,
		&patient.PhoneKey,
		&email,
		&medicalHistory,
		&patient.CreatedAt,
		&patient.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if email.Valid {
		patient.Email = &email.String
	}
	if medicalHistory.Valid {
		patient.MedicalHistory = &medicalHistory.String
	}
	return patient, nil
}
