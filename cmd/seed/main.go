package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/dentalclinic/internal/adapters/database"
	"github.com/zatekoja/dentalclinic/internal/adapters/locking"
	"github.com/zatekoja/dentalclinic/internal/application/services"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/observability"
	"github.com/zatekoja/dentalclinic/pkg/config"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

type seedPatient struct {
	name  string
	phone string
}

type seedBooking struct {
	phone     string
	dayOffset int
	clock     string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	observability.InitLogger(observability.LoggerOptions{Service: "dental-clinic-seed", Clinic: cfg.Clinic.Name, Env: cfg.Log.Env, Level: cfg.Log.Level})

	loc, err := cfg.Clinic.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid clinic timezone")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to DB")
	}
	defer pgClient.Close()

	ctx := context.Background()

	if err := postgres.Migrate(pgClient); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Warn().Msg("RESET_DB=true detected, truncating tables before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, `TRUNCATE TABLE appointments, patients CASCADE`); err != nil {
			log.Fatal().Err(err).Msg("Failed to reset tables")
		}
	}

	patients := database.NewPatientAdapter(pgClient)
	appointments := database.NewAppointmentAdapter(pgClient)
	booking := services.NewBookingService(patients, appointments, locking.NewLocalLocker(cfg.Clinic.LockWait), nil, loc, nil)

	// 1. Patients
	for _, p := range []seedPatient{
		{name: "أحمد محمد", phone: "+201012345678"},
		{name: "منى علي", phone: "01099999999"},
		{name: "Omar Hassan", phone: "+20 111 222 3333"},
		{name: "سارة إبراهيم", phone: "0122-555-7788"},
	} {
		patient, err := booking.CreatePatient(ctx, p.name, p.phone)
		var dup *services.DuplicatePatientError
		switch {
		case errors.As(err, &dup):
			log.Info().Str("phone", dup.Existing.Phone).Msg("Patient already exists")
		case err != nil:
			log.Error().Err(err).Str("name", p.name).Msg("Failed to create patient")
		default:
			log.Info().Str("id", patient.ID).Str("name", patient.Name).Msg("Created patient")
		}
	}

	// 2. Bookings for today and the next two clinic days
	today := entities.DateOf(time.Now(), loc).Start(loc)
	for _, b := range []seedBooking{
		{phone: "+201012345678", dayOffset: 0, clock: "10:00"},
		{phone: "01099999999", dayOffset: 0, clock: "11:30"},
		{phone: "201112223333", dayOffset: 1, clock: "09:00"},
		{phone: "01225557788", dayOffset: 1, clock: "16:30"},
		{phone: "+201012345678", dayOffset: 2, clock: "12:00"},
	} {
		date := entities.DateOf(today.AddDate(0, 0, b.dayOffset), loc).String()
		result, err := booking.BookAppointment(ctx, services.BookAppointmentRequest{
			Phone: b.phone,
			Date:  date,
			Time:  b.clock,
		})
		switch {
		case apperrors.HasCode(err, apperrors.CodeSlotTaken):
			log.Info().Str("date", date).Str("time", b.clock).Msg("Slot already booked")
		case err != nil:
			log.Error().Err(err).Str("date", date).Str("time", b.clock).Msg("Failed to book appointment")
		default:
			log.Info().
				Str("id", result.Appointment.ID).
				Str("patient", result.PatientName).
				Str("date", result.Date).
				Str("time", result.Time).
				Msg("Booked appointment")
		}
	}

	log.Info().Msg("Seeding completed")
}
