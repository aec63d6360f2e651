package monitor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Sender delivers an alert message to an external channel.
type Sender interface {
	Send(ctx context.Context, text string) error
}

type webhookSender struct {
	url    string
	client *http.Client
}

// NewWebhookSender posts alert messages to an incoming-webhook URL.
func NewWebhookSender(url string) Sender {
	return &webhookSender{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type webhookPayload struct {
	Text      string `json:"text"`
	Username  string `json:"username"`
	IconEmoji string `json:"icon_emoji"`
}

func (s *webhookSender) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(webhookPayload{
		Text:      text,
		Username:  "DispatchHub Monitor",
		IconEmoji: ":rotating_light:",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Anything other than a plain 200 counts as a failed delivery.
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// noopSender is used when no webhook URL is configured.
type noopSender struct{}

func NewNoopSender() Sender { return noopSender{} }

func (noopSender) Send(context.Context, string) error { return nil }
