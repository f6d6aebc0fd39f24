package services

import (
	"context"
	"time"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
)

// DailyReport is the clinic summary for one day
type DailyReport struct {
	Date       time.Time
	Statistics *entities.DailyStatistics
}

// StatisticsService builds the daily clinic summary used by automations
type StatisticsService struct {
	patients     repositories.PatientRepository
	appointments repositories.AppointmentRepository
	loc          *time.Location
	now          func() time.Time
}

// NewStatisticsService creates a new statistics service
func NewStatisticsService(
	patients repositories.PatientRepository,
	appointments repositories.AppointmentRepository,
	loc *time.Location,
) *StatisticsService {
	if loc == nil {
		loc = time.Local
	}
	return &StatisticsService{
		patients:     patients,
		appointments: appointments,
		loc:          loc,
		now:          time.Now,
	}
}

// Daily counts all patients and today's appointments by status
func (s *StatisticsService) Daily(ctx context.Context) (*DailyReport, error) {
	from := entities.DateOf(s.now(), s.loc).Start(s.loc)
	to := from.AddDate(0, 0, 1)

	appointments, err := s.appointments.List(ctx, repositories.AppointmentFilter{
		From: &from,
		To:   &to,
	})
	if err != nil {
		return nil, err
	}

	totalPatients, err := s.patients.Count(ctx)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[entities.AppointmentStatus]int, len(entities.AppointmentStatuses))
	for _, status := range entities.AppointmentStatuses {
		byStatus[status] = 0
	}
	for _, a := range appointments {
		byStatus[a.Status]++
	}

	return &DailyReport{
		Date: from,
		Statistics: &entities.DailyStatistics{
			TotalPatients:        totalPatients,
			TodayAppointments:    len(appointments),
			AppointmentsByStatus: byStatus,
		},
	}, nil
}
