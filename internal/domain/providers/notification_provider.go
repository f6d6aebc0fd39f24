package providers

import (
	"context"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
)

// MessageSender sends plain text messages to a patient's phone
type MessageSender interface {
	// SendText returns the gateway message id
	SendText(ctx context.Context, phone, text string) (string, error)
}

// WebhookNotifier posts automation events
type WebhookNotifier interface {
	Post(ctx context.Context, event *entities.WebhookEvent) error
}
