package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/pkg/config"
	"github.com/zatekoja/dentalclinic/pkg/retry"
)

// WebhookNotifier posts automation events to an n8n webhook
type WebhookNotifier struct {
	url         string
	httpClient  *http.Client
	retryConfig retry.Config
}

// NewWebhookNotifier creates a new webhook notifier
func NewWebhookNotifier(cfg *config.WebhookConfig) (*WebhookNotifier, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("N8N_WEBHOOK_URL must be set")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &WebhookNotifier{
		url: cfg.URL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retryConfig: retry.Config{
			MaxAttempts:     3,
			InitialDelay:    200 * time.Millisecond,
			MaxDelay:        time.Second,
			BackoffFactor:   2.0,
			MaxTotalTimeout: 3 * timeout,
		},
	}, nil
}

// Post sends the event, retrying on network errors and 5xx responses
func (n *WebhookNotifier) Post(ctx context.Context, event *entities.WebhookEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return retry.Do(ctx, n.retryConfig, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(jsonData))
		if err != nil {
			return retry.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to send request: %w", err)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		switch {
		case resp.StatusCode >= 500:
			return fmt.Errorf("webhook error (status %d): %s", resp.StatusCode, string(body))
		case resp.StatusCode >= 300:
			return retry.Permanent(fmt.Errorf("webhook rejected event (status %d): %s", resp.StatusCode, string(body)))
		}
		return nil
	})
}
