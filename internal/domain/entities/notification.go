package entities

import "time"

// WebhookEventType names an event posted to the automation webhook
type WebhookEventType string

const (
	WebhookEventAppointmentCreated   WebhookEventType = "appointment_created"
	WebhookEventAppointmentConfirmed WebhookEventType = "appointment_confirmed"
	WebhookEventAppointmentCancelled WebhookEventType = "appointment_cancelled"
)

// WebhookEvent is the envelope posted to the automation webhook
type WebhookEvent struct {
	Event     WebhookEventType `json:"event"`
	Data      interface{}      `json:"data"`
	Timestamp time.Time        `json:"timestamp"`
}

// NotificationChannel represents the delivery channel
type NotificationChannel string

const (
	ChannelWhatsApp NotificationChannel = "whatsapp"
	ChannelWebhook  NotificationChannel = "webhook"
)

// NotificationOutcome reports a best-effort send next to the primary result
type NotificationOutcome struct {
	Channel   NotificationChannel `json:"channel"`
	Attempted bool                `json:"attempted"`
	Sent      bool                `json:"sent"`
	MessageID string              `json:"message_id,omitempty"`
	Error     string              `json:"error,omitempty"`
}
