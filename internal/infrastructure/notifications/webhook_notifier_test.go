package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/pkg/config"
)

func TestNewWebhookNotifier_RequiresURL(t *testing.T) {
	if _, err := NewWebhookNotifier(&config.WebhookConfig{}); err == nil {
		t.Error("NewWebhookNotifier() expected error for empty URL")
	}
}

func TestWebhookNotifier_Post(t *testing.T) {
	tests := []struct {
		name         string
		statusCodes  []int
		wantErr      bool
		wantAttempts int32
	}{
		{name: "Delivered first time", statusCodes: []int{http.StatusOK}, wantErr: false, wantAttempts: 1},
		{name: "Retries server errors", statusCodes: []int{http.StatusBadGateway, http.StatusOK}, wantErr: false, wantAttempts: 2},
		{name: "Does not retry client errors", statusCodes: []int{http.StatusNotFound}, wantErr: true, wantAttempts: 1},
		{name: "Gives up after max attempts", statusCodes: []int{500, 500, 500}, wantErr: true, wantAttempts: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := atomic.AddInt32(&attempts, 1)

				var event entities.WebhookEvent
				if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
					t.Errorf("failed to decode event: %v", err)
				}
				if event.Event != entities.WebhookEventAppointmentCreated {
					t.Errorf("event = %q, want appointment_created", event.Event)
				}
				if event.Timestamp.IsZero() {
					t.Error("event timestamp not set")
				}

				w.WriteHeader(tt.statusCodes[int(n)-1])
			}))
			defer server.Close()

			notifier, err := NewWebhookNotifier(&config.WebhookConfig{URL: server.URL, Timeout: time.Second})
			if err != nil {
				t.Fatalf("NewWebhookNotifier() error = %v", err)
			}
			notifier.retryConfig.InitialDelay = time.Millisecond
			notifier.retryConfig.MaxDelay = time.Millisecond

			err = notifier.Post(context.Background(), &entities.WebhookEvent{
				Event: entities.WebhookEventAppointmentCreated,
				Data:  map[string]string{"id": "apt-1"},
			})

			if (err != nil) != tt.wantErr {
				t.Errorf("Post() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := atomic.LoadInt32(&attempts); got != tt.wantAttempts {
				t.Errorf("attempts = %d, want %d", got, tt.wantAttempts)
			}
		})
	}
}
