package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

var appointmentColumns = []interface{}{
	goqu.I("a.id"), goqu.I("a.patient_id"), goqu.I("a.appointment_date"), goqu.I("a.duration"),
	goqu.I("a.status"), goqu.I("a.notes"), goqu.I("a.created_at"), goqu.I("a.updated_at"),
}

var joinedPatientColumns = []interface{}{
	goqu.I("p.id"), goqu.I("p.name"), goqu.I("p.phone"), goqu.I("p.phone_key"),
	goqu.I("p.email"), goqu.I("p.medical_history"), goqu.I("p.created_at"), goqu.I("p.updated_at"),
}

// AppointmentAdapter implements the AppointmentRepository interface
type AppointmentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAppointmentAdapter creates a new appointment adapter
func NewAppointmentAdapter(client *postgres.Client) repositories.AppointmentRepository {
	return &AppointmentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new appointment
func (a *AppointmentAdapter) Create(ctx context.Context, appointment *entities.Appointment) error {
	record := goqu.Record{
		"id":               appointment.ID,
		"patient_id":       appointment.PatientID,
		"appointment_date": appointment.AppointmentDate.UTC(),
		"duration":         appointment.Duration,
		"status":           string(appointment.Status),
		"notes":            appointment.Notes,
		"created_at":       appointment.CreatedAt,
		"updated_at":       appointment.UpdatedAt,
	}

	query, args, err := a.db.Insert("appointments").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	ctx, cancel := a.client.WithTimeout(ctx)
	defer cancel()

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return storeError("failed to create appointment", err)
	}

	return nil
}

// GetByID retrieves an appointment by ID, with its patient
func (a *AppointmentAdapter) GetByID(ctx context.Context, id string) (*entities.Appointment, error) {
	query, args, err := a.selectWithPatient().
		Where(goqu.Ex{"a.id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	ctx, cancel := a.client.WithTimeout(ctx)
	defer cancel()

	appointment, err := scanAppointment(a.client.DB().QueryRowContext(ctx, query, args...), true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(apperrors.CodeAppointmentNotFound, fmt.Sprintf("appointment with id %s not found", id)).
			WithArabic("الموعد غير موجود")
	}
	if err != nil {
		return nil, storeError("failed to get appointment", err)
	}

	return appointment, nil
}

// UpdateStatus moves an appointment from one status to another. The write only
// applies while the row still holds from.
func (a *AppointmentAdapter) UpdateStatus(ctx context.Context, id string, from, to entities.AppointmentStatus) error {
	query, args, err := a.db.Update("appointments").
		Set(goqu.Record{
			"status":     string(to),
			"updated_at": time.Now(),
		}).
		Where(goqu.Ex{"id": id, "status": string(from)}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	ctx, cancel := a.client.WithTimeout(ctx)
	defer cancel()

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return storeError("failed to update appointment", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storeError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewConflictError(apperrors.CodeInvalidStatusTransition,
			fmt.Sprintf("appointment %s is no longer %s", id, from)).
			WithArabic("تغيرت حالة الموعد، يرجى المحاولة مرة أخرى")
	}

	return nil
}

// FindActiveAt returns non-cancelled appointments starting exactly at instant
func (a *AppointmentAdapter) FindActiveAt(ctx context.Context, instant time.Time) ([]*entities.Appointment, error) {
	ds := a.db.From(goqu.T("appointments").As("a")).
		Select(appointmentColumns...).
		Where(
			goqu.I("a.appointment_date").Eq(instant.UTC()),
			goqu.I("a.status").Neq(string(entities.AppointmentStatusCancelled)),
		)

	return a.list(ctx, ds, false)
}

// List retrieves appointments matching the filter, ordered by start ascending
func (a *AppointmentAdapter) List(ctx context.Context, filter repositories.AppointmentFilter) ([]*entities.Appointment, error) {
	var ds *goqu.SelectDataset
	if filter.IncludePatient {
		ds = a.selectWithPatient()
	} else {
		ds = a.db.From(goqu.T("appointments").As("a")).Select(appointmentColumns...)
	}

	if filter.From != nil {
		ds = ds.Where(goqu.I("a.appointment_date").Gte(filter.From.UTC()))
	}

	if filter.To != nil {
		ds = ds.Where(goqu.I("a.appointment_date").Lt(filter.To.UTC()))
	}

	if filter.ExcludeStatus != "" {
		ds = ds.Where(goqu.I("a.status").Neq(string(filter.ExcludeStatus)))
	}

	ds = ds.Order(goqu.I("a.appointment_date").Asc())

	return a.list(ctx, ds, filter.IncludePatient)
}

func (a *AppointmentAdapter) selectWithPatient() *goqu.SelectDataset {
	columns := append(append([]interface{}{}, appointmentColumns...), joinedPatientColumns...)
	return a.db.From(goqu.T("appointments").As("a")).
		Join(goqu.T("patients").As("p"), goqu.On(goqu.I("p.id").Eq(goqu.I("a.patient_id")))).
		Select(columns...)
}

func (a *AppointmentAdapter) list(ctx context.Context, ds *goqu.SelectDataset, withPatient bool) ([]*entities.Appointment, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	ctx, cancel := a.client.WithTimeout(ctx)
	defer cancel()

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError("failed to list appointments", err)
	}
	defer rows.Close()

	var appointments []*entities.Appointment
	for rows.Next() {
		appointment, err := scanAppointment(rows, withPatient)
		if err != nil {
			return nil, storeError("failed to scan appointment", err)
		}
		appointments = append(appointments, appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("failed to list appointments", err)
	}

	return appointments, nil
}

func scanAppointment(row rowScanner, withPatient bool) (*entities.Appointment, error) {
	appointment := &entities.Appointment{}
	var status string
	var notes sql.NullString

	dest := []interface{}{
		&appointment.ID,
		&appointment.PatientID,
		&appointment.AppointmentDate,
		&appointment.Duration,
		&status,
		&notes,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	}

	var patient entities.Patient
	var email, medicalHistory sql.NullString
	if withPatient {
		dest = append(dest,
			&patient.ID,
			&patient.Name,
			&patient.Phone,
			&patient.PhoneKey,
			&email,
			&medicalHistory,
			&patient.CreatedAt,
			&patient.UpdatedAt,
		)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	appointment.Status = entities.AppointmentStatus(status)
	if notes.Valid {
		appointment.Notes = &notes.String
	}

	if withPatient {
		if email.Valid {
			patient.Email = &email.String
		}
		if medicalHistory.Valid {
			patient.MedicalHistory = &medicalHistory.String
		}
		appointment.Patient = &patient
	}

	return appointment, nil
}
