package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DiscordNotifier posts notifications to a Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	httpClient *http.Client
}

// NewDiscordNotifier creates a Discord webhook backend.
func NewDiscordNotifier(webhookURL string, timeout time.Duration) *DiscordNotifier {
	return &DiscordNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name returns the backend name
func (d *DiscordNotifier) Name() string {
	return "discord"
}

// discordMessage is the webhook payload. A webhook posts to the channel it
// was created for, so the configured channel identifier only gates dispatch
// and picks the Slack target; it is not part of this payload.
type discordMessage struct {
	Content string `json:"content"`
}

// Send posts the notification to the webhook.
func (d *DiscordNotifier) Send(ctx context.Context, n Notification) error {
	if d.webhookURL == "" {
		return &BackendError{Backend: d.Name(), Err: fmt.Errorf("webhook URL not configured")}
	}

	payload, err := json.Marshal(discordMessage{Content: n.Text()})
	if err != nil {
		return &BackendError{Backend: d.Name(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return &BackendError{Backend: d.Name(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return &BackendError{Backend: d.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &BackendError{Backend: d.Name(), Err: fmt.Errorf("webhook returned status %d", resp.StatusCode)}
	}

	return nil
}
