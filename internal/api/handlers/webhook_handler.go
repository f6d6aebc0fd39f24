package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/zatekoja/dentalclinic/internal/infrastructure/observability"
)

// WebhookHandler receives callbacks from the n8n automation
type WebhookHandler struct{}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler() *WebhookHandler {
	return &WebhookHandler{}
}

// ReceiveN8N handles POST /api/webhook/n8n. The payload is logged and echoed.
func (h *WebhookHandler) ReceiveN8N(w http.ResponseWriter, r *http.Request) {
	var payload json.RawMessage
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithError(w, r, err)
		return
	}

	observability.LoggerFromContext(r.Context()).Info().
		RawJSON("payload", payload).
		Msg("Received n8n webhook")

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"message":      "Webhook received successfully",
		"receivedData": payload,
	})
}
