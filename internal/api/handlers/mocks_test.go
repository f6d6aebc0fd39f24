package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/dentalclinic/internal/application/services"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
)

type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) CheckAvailability(ctx context.Context, date, clock string) (*entities.AvailabilityResult, error) {
	args := m.Called(ctx, date, clock)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.AvailabilityResult), args.Error(1)
}

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) BookAppointment(ctx context.Context, req services.BookAppointmentRequest) (*services.BookingResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.BookingResult), args.Error(1)
}

func (m *MockBookingService) CreatePatient(ctx context.Context, name, phone string) (*entities.Patient, error) {
	args := m.Called(ctx, name, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Patient), args.Error(1)
}

func (m *MockBookingService) CreateAppointment(ctx context.Context, req services.CreateAppointmentRequest) (*entities.Appointment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockBookingService) GetPatientByPhone(ctx context.Context, phone string) (*services.PatientLookup, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PatientLookup), args.Error(1)
}

func (m *MockBookingService) GetPatient(ctx context.Context, id string) (*entities.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Patient), args.Error(1)
}

func (m *MockBookingService) ListPatients(ctx context.Context) ([]*entities.Patient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Patient), args.Error(1)
}

type MockAppointmentService struct {
	mock.Mock
}

func (m *MockAppointmentService) Confirm(ctx context.Context, id string) (*services.TransitionResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TransitionResult), args.Error(1)
}

func (m *MockAppointmentService) Cancel(ctx context.Context, id string) (*services.TransitionResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TransitionResult), args.Error(1)
}

func (m *MockAppointmentService) Complete(ctx context.Context, id string) (*services.TransitionResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TransitionResult), args.Error(1)
}

func (m *MockAppointmentService) Today(ctx context.Context) ([]*entities.Appointment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentService) Range(ctx context.Context, start, end string) ([]*entities.Appointment, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Appointment), args.Error(1)
}

type MockStatisticsService struct {
	mock.Mock
}

func (m *MockStatisticsService) Daily(ctx context.Context) (*services.DailyReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.DailyReport), args.Error(1)
}
