package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/providers"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

const defaultNotificationTimeout = 10 * time.Second

// NotificationService delivers best-effort messages after a state change has
// been committed. Failures are logged, never returned as errors. A nil sender
// or webhook disables that channel. Each delivery gets its own deadline, and
// webhook events are posted in the background.
type NotificationService struct {
	sender     providers.MessageSender
	webhook    providers.WebhookNotifier
	clinicName string
	loc        *time.Location
	timeout    time.Duration
	metrics    *observability.Metrics
	inflight   sync.WaitGroup
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	sender providers.MessageSender,
	webhook providers.WebhookNotifier,
	clinicName string,
	loc *time.Location,
	metrics *observability.Metrics,
) *NotificationService {
	if loc == nil {
		loc = time.Local
	}
	return &NotificationService{
		sender:     sender,
		webhook:    webhook,
		clinicName: clinicName,
		loc:        loc,
		timeout:    defaultNotificationTimeout,
		metrics:    metrics,
	}
}

// appointmentEventData is the payload of appointment webhook events
type appointmentEventData struct {
	AppointmentID string                     `json:"appointment_id"`
	PatientID     string                     `json:"patient_id"`
	PatientName   string                     `json:"patient_name,omitempty"`
	Phone         string                     `json:"phone,omitempty"`
	Date          string                     `json:"date"`
	Time          string                     `json:"time"`
	Duration      int                        `json:"duration"`
	Status        entities.AppointmentStatus `json:"status"`
	Notes         *string                    `json:"notes,omitempty"`
}

// AppointmentConfirmed sends the WhatsApp confirmation to the patient, then
// queues an appointment_confirmed event. The outcome describes the WhatsApp send.
func (n *NotificationService) AppointmentConfirmed(ctx context.Context, appointment *entities.Appointment, patient *entities.Patient) entities.NotificationOutcome {
	outcome := entities.NotificationOutcome{Channel: entities.ChannelWhatsApp}
	if n == nil {
		return outcome
	}
	defer n.dispatch(ctx, entities.WebhookEventAppointmentConfirmed, appointment, patient)

	if n.sender == nil || patient == nil || patient.Phone == "" {
		return outcome
	}

	ctx, cancel := n.detach(ctx)
	defer cancel()

	outcome.Attempted = true
	messageID, err := n.sender.SendText(ctx, patient.Phone, n.confirmationText(appointment, patient))
	if err != nil {
		appErr := apperrors.NewIntegrationError("WhatsApp confirmation could not be sent", err)
		observability.LoggerFromContext(ctx).Warn().
			Err(appErr).
			Str("appointment_id", appointment.ID).
			Msg("Failed to send WhatsApp confirmation")
		outcome.Error = appErr.Message
		n.metrics.ObserveNotification(string(entities.ChannelWhatsApp), false)
		return outcome
	}

	outcome.Sent = true
	outcome.MessageID = messageID
	n.metrics.ObserveNotification(string(entities.ChannelWhatsApp), true)
	return outcome
}

// AppointmentCreated queues an appointment_created event
func (n *NotificationService) AppointmentCreated(ctx context.Context, appointment *entities.Appointment, patient *entities.Patient) {
	n.dispatch(ctx, entities.WebhookEventAppointmentCreated, appointment, patient)
}

// AppointmentCancelled queues an appointment_cancelled event
func (n *NotificationService) AppointmentCancelled(ctx context.Context, appointment *entities.Appointment, patient *entities.Patient) {
	n.dispatch(ctx, entities.WebhookEventAppointmentCancelled, appointment, patient)
}

// Wait blocks until queued webhook events are delivered or ctx ends
func (n *NotificationService) Wait(ctx context.Context) error {
	if n == nil {
		return nil
	}

	done := make(chan struct{})
	go func() {
		n.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// detach keeps request values (trace ids) but not the caller's cancellation;
// the state change is already committed when notifications run
func (n *NotificationService) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
}

// dispatch posts the event on its own goroutine and deadline
func (n *NotificationService) dispatch(ctx context.Context, event entities.WebhookEventType, appointment *entities.Appointment, patient *entities.Patient) {
	if n == nil || n.webhook == nil || appointment == nil {
		return
	}

	data := n.eventData(appointment, patient)
	ctx, cancel := n.detach(ctx)

	n.inflight.Add(1)
	go func() {
		defer n.inflight.Done()
		defer cancel()
		n.post(ctx, event, appointment.ID, data)
	}()
}

func (n *NotificationService) post(ctx context.Context, event entities.WebhookEventType, appointmentID string, data appointmentEventData) {
	err := n.webhook.Post(ctx, &entities.WebhookEvent{
		Event: event,
		Data:  data,
	})
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(apperrors.NewIntegrationError("automation webhook could not be notified", err)).
			Str("event", string(event)).
			Str("appointment_id", appointmentID).
			Msg("Failed to post webhook event")
		n.metrics.ObserveNotification(string(entities.ChannelWebhook), false)
		return
	}

	n.metrics.ObserveNotification(string(entities.ChannelWebhook), true)
}

func (n *NotificationService) eventData(appointment *entities.Appointment, patient *entities.Patient) appointmentEventData {
	local := appointment.AppointmentDate.In(n.loc)
	data := appointmentEventData{
		AppointmentID: appointment.ID,
		PatientID:     appointment.PatientID,
		Date:          entities.DateOf(local, n.loc).String(),
		Time:          entities.ClockOf(local, n.loc).String(),
		Duration:      appointment.Duration,
		Status:        appointment.Status,
		Notes:         appointment.Notes,
	}
	if patient != nil {
		data.PatientName = patient.Name
		data.Phone = patient.Phone
	}
	return data
}

func (n *NotificationService) confirmationText(appointment *entities.Appointment, patient *entities.Patient) string {
	return fmt.Sprintf(
		"مرحباً %s،\n\nتم تأكيد موعدكم في %s:\n📅 التاريخ: %s\n🕐 الوقت: %s\n\nنتطلع لرؤيتكم.\n\n%s",
		patient.Name,
		n.clinicName,
		entities.DateOf(appointment.AppointmentDate, n.loc).String(),
		entities.ClockOf(appointment.AppointmentDate, n.loc).String(),
		n.clinicName,
	)
}
