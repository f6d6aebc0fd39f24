package database_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/dentalclinic/internal/adapters/database"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

var appointmentRowColumns = []string{
	"id", "patient_id", "appointment_date", "duration", "status", "notes", "created_at", "updated_at",
}

func newMockClient(t *testing.T) (*postgres.Client, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return postgres.NewClientWithDB(db, time.Second), mock
}

func TestAppointmentAdapter_Create(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	appointment := &entities.Appointment{
		ID:              "apt-1",
		PatientID:       "pat-1",
		AppointmentDate: time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC),
		Duration:        30,
		Status:          entities.AppointmentStatusScheduled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	t.Run("inserts the appointment", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewAppointmentAdapter(client)

		mock.ExpectExec(`INSERT INTO "appointments"`).WillReturnResult(sqlmock.NewResult(1, 1))

		err := adapter.Create(context.Background(), appointment)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps the active slot unique violation to slot_taken", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewAppointmentAdapter(client)

		mock.ExpectExec(`INSERT INTO "appointments"`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "appointments_active_slot_uidx"})

		err := adapter.Create(context.Background(), appointment)

		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeSlotTaken))
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	})

	t.Run("maps a timeout to a transient error", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewAppointmentAdapter(client)

		mock.ExpectExec(`INSERT INTO "appointments"`).WillReturnError(context.DeadlineExceeded)

		err := adapter.Create(context.Background(), appointment)

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeTransient))
		assert.True(t, apperrors.HasCode(err, apperrors.CodeStoreUnavailable))
	})
}

func TestAppointmentAdapter_FindActiveAt(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewAppointmentAdapter(client)
	instant := time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .* FROM "appointments" AS "a" WHERE .*"a"."appointment_date" = .*"a"."status" != 'cancelled'`).
		WillReturnRows(sqlmock.NewRows(appointmentRowColumns).
			AddRow("apt-1", "pat-1", instant, 30, "scheduled", nil, instant, instant))

	appointments, err := adapter.FindActiveAt(context.Background(), instant)

	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, "apt-1", appointments[0].ID)
	assert.Equal(t, entities.AppointmentStatusScheduled, appointments[0].Status)
	assert.Nil(t, appointments[0].Notes)
	assert.Nil(t, appointments[0].Patient)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentAdapter_ListWithPatient(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewAppointmentAdapter(client)
	from := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	at := from.Add(9 * time.Hour)

	columns := append(append([]string{}, appointmentRowColumns...),
		"id", "name", "phone", "phone_key", "email", "medical_history", "created_at", "updated_at")
	mock.ExpectQuery(`SELECT .* FROM "appointments" AS "a" INNER JOIN "patients" AS "p" .* ORDER BY "a"."appointment_date" ASC`).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("apt-1", "pat-1", at, 30, "confirmed", "checkup", at, at,
				"pat-1", "Omar", "+201012345678", "201012345678", nil, nil, at, at))

	appointments, err := adapter.List(context.Background(), repositories.AppointmentFilter{
		From:           &from,
		To:             &to,
		IncludePatient: true,
	})

	require.NoError(t, err)
	require.Len(t, appointments, 1)
	require.NotNil(t, appointments[0].Patient)
	assert.Equal(t, "Omar", appointments[0].Patient.Name)
	assert.Equal(t, "checkup", *appointments[0].Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentAdapter_GetByID_NotFound(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewAppointmentAdapter(client)

	mock.ExpectQuery(`SELECT .* FROM "appointments"`).WillReturnError(sql.ErrNoRows)

	_, err := adapter.GetByID(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeAppointmentNotFound))
}

func TestAppointmentAdapter_UpdateStatus(t *testing.T) {
	t.Run("updates the status", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewAppointmentAdapter(client)

		mock.ExpectExec(`UPDATE "appointments" SET .*"status"='cancelled'.* WHERE \(\("id" = 'apt-1'\) AND \("status" = 'scheduled'\)\)`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := adapter.UpdateStatus(context.Background(), "apt-1", entities.AppointmentStatusScheduled, entities.AppointmentStatusCancelled)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects the write when the status moved on", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewAppointmentAdapter(client)

		mock.ExpectExec(`UPDATE "appointments"`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := adapter.UpdateStatus(context.Background(), "apt-1", entities.AppointmentStatusScheduled, entities.AppointmentStatusConfirmed)

		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidStatusTransition))
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	})
}
