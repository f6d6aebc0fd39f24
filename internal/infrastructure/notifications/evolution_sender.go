package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zatekoja/dentalclinic/pkg/config"
	"github.com/zatekoja/dentalclinic/pkg/utils"
)

// EvolutionSender sends WhatsApp messages through an Evolution API instance
type EvolutionSender struct {
	apiKey       string
	instanceName string
	httpClient   *http.Client
	baseURL      string
}

// NewEvolutionSender creates a new WhatsApp sender
func NewEvolutionSender(cfg *config.EvolutionConfig) (*EvolutionSender, error) {
	if cfg.URL == "" || cfg.InstanceName == "" {
		return nil, fmt.Errorf("EVOLUTION_API_URL and EVOLUTION_INSTANCE_NAME must be set")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &EvolutionSender{
		apiKey:       cfg.APIKey,
		instanceName: cfg.InstanceName,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(cfg.URL, "/"),
	}, nil
}

// EvolutionTextMessage represents a sendText request
type EvolutionTextMessage struct {
	Number      string `json:"number"`
	TextMessage struct {
		Text string `json:"text"`
	} `json:"textMessage"`
}

// EvolutionResponse represents the API response
type EvolutionResponse struct {
	Key struct {
		RemoteJID string `json:"remoteJid"`
		FromMe    bool   `json:"fromMe"`
		ID        string `json:"id"`
	} `json:"key"`
	Status string `json:"status"`
}

// SendText sends a text message to the phone's WhatsApp account
func (s *EvolutionSender) SendText(ctx context.Context, phone, text string) (string, error) {
	number := utils.PhoneDigits(phone)
	if number == "" {
		return "", fmt.Errorf("phone %q has no digits", phone)
	}

	message := EvolutionTextMessage{Number: number}
	message.TextMessage.Text = text

	return s.sendMessage(ctx, message)
}

// sendMessage posts a message to the instance's sendText endpoint
func (s *EvolutionSender) sendMessage(ctx context.Context, message interface{}) (string, error) {
	url := fmt.Sprintf("%s/message/sendText/%s", s.baseURL, s.instanceName)

	jsonData, err := json.Marshal(message)
	if err != nil {
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("evolution API error (status %d): %s", resp.StatusCode, string(body))
	}

	var evolutionResp EvolutionResponse
	if err := json.Unmarshal(body, &evolutionResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return evolutionResp.Key.ID, nil
}
