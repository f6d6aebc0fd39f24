package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

// memStore keeps patients and appointments in memory and enforces the same
// unique rules as the database indexes
type memStore struct {
	mu           sync.Mutex
	patients     map[string]entities.Patient
	appointments map[string]entities.Appointment
	err          error
}

func newMemStore() *memStore {
	return &memStore{
		patients:     make(map[string]entities.Patient),
		appointments: make(map[string]entities.Appointment),
	}
}

func (s *memStore) patientRepo() repositories.PatientRepository         { return &memPatients{s} }
func (s *memStore) appointmentRepo() repositories.AppointmentRepository { return &memAppointments{s} }

func (s *memStore) failWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

type memPatients struct{ s *memStore }

func (r *memPatients) Create(ctx context.Context, patient *entities.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return r.s.err
	}
	for _, p := range r.s.patients {
		if p.PhoneKey == patient.PhoneKey {
			return apperrors.NewConflictError(apperrors.CodeDuplicatePhone, "patient with this phone number already exists")
		}
	}
	r.s.patients[patient.ID] = *patient
	return nil
}

func (r *memPatients) GetByID(ctx context.Context, id string) (*entities.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	p, ok := r.s.patients[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(apperrors.CodePatientNotFound, "patient not found")
	}
	return &p, nil
}

func (r *memPatients) GetByPhoneKey(ctx context.Context, phoneKey string) (*entities.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	for _, p := range r.s.patients {
		if p.PhoneKey == phoneKey {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memPatients) List(ctx context.Context) ([]*entities.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	out := make([]*entities.Patient, 0, len(r.s.patients))
	for _, p := range r.s.patients {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memPatients) Count(ctx context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return 0, r.s.err
	}
	return len(r.s.patients), nil
}

type memAppointments struct{ s *memStore }

func (r *memAppointments) Create(ctx context.Context, appointment *entities.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return r.s.err
	}
	if appointment.Status.OccupiesSlot() {
		for _, a := range r.s.appointments {
			if a.Status.OccupiesSlot() && a.AppointmentDate.Equal(appointment.AppointmentDate) {
				return apperrors.NewConflictError(apperrors.CodeSlotTaken, "this time slot is no longer available")
			}
		}
	}
	stored := *appointment
	stored.Patient = nil
	r.s.appointments[appointment.ID] = stored
	return nil
}

func (r *memAppointments) GetByID(ctx context.Context, id string) (*entities.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	a, ok := r.s.appointments[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(apperrors.CodeAppointmentNotFound, "appointment not found")
	}
	return r.withPatient(a), nil
}

func (r *memAppointments) UpdateStatus(ctx context.Context, id string, from, to entities.AppointmentStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return r.s.err
	}
	a, ok := r.s.appointments[id]
	if !ok || a.Status != from {
		return apperrors.NewConflictError(apperrors.CodeInvalidStatusTransition, "appointment status changed")
	}
	a.Status = to
	a.UpdatedAt = time.Now()
	r.s.appointments[id] = a
	return nil
}

func (r *memAppointments) FindActiveAt(ctx context.Context, instant time.Time) ([]*entities.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	var out []*entities.Appointment
	for _, a := range r.s.appointments {
		if a.Status.OccupiesSlot() && a.AppointmentDate.Equal(instant) {
			a := a
			out = append(out, &a)
		}
	}
	return out, nil
}

func (r *memAppointments) List(ctx context.Context, filter repositories.AppointmentFilter) ([]*entities.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	var out []*entities.Appointment
	for _, a := range r.s.appointments {
		if filter.From != nil && a.AppointmentDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !a.AppointmentDate.Before(*filter.To) {
			continue
		}
		if filter.ExcludeStatus != "" && a.Status == filter.ExcludeStatus {
			continue
		}
		if filter.IncludePatient {
			out = append(out, r.withPatient(a))
		} else {
			a := a
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppointmentDate.Before(out[j].AppointmentDate) })
	return out, nil
}

func (r *memAppointments) withPatient(a entities.Appointment) *entities.Appointment {
	if p, ok := r.s.patients[a.PatientID]; ok {
		a.Patient = &p
	}
	return &a
}

// MockMessageSender is a mock implementation of providers.MessageSender
type MockMessageSender struct {
	mock.Mock
}

func (m *MockMessageSender) SendText(ctx context.Context, phone, text string) (string, error) {
	args := m.Called(ctx, phone, text)
	return args.String(0), args.Error(1)
}

// MockWebhookNotifier is a mock implementation of providers.WebhookNotifier
type MockWebhookNotifier struct {
	mock.Mock
}

func (m *MockWebhookNotifier) Post(ctx context.Context, event *entities.WebhookEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
