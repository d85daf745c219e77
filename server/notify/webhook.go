package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/mattermost/mattermost-plugin-orefalerts/server/backend"
	"github.com/mattermost/mattermost-plugin-orefalerts/server/formatter"
)

const (
	webhookRetryMax     = 3
	webhookRetryWaitMin = 250 * time.Millisecond
	webhookRetryWaitMax = 2 * time.Second
	webhookTimeout      = 5 * time.Second

	// webhookDeadline bounds one Notify call across all retries
	webhookDeadline = 20 * time.Second
)

// WebhookPayload is the JSON body posted to a webhook
type WebhookPayload struct {
	Text  string        `json:"text"`
	Alert backend.Alert `json:"alert"`
}

// WebhookNotifier posts home alerts as JSON to an HTTP endpoint.
type WebhookNotifier struct {
	url     string
	enabled bool
	client  *retryablehttp.Client
}

// NewWebhookNotifier creates a webhook notifier. Retries are logged through logger.
func NewWebhookNotifier(url string, enabled bool, logger backend.Logger) *WebhookNotifier {
	client := retryablehttp.NewClient()
	client.RetryMax = webhookRetryMax
	client.RetryWaitMin = webhookRetryWaitMin
	client.RetryWaitMax = webhookRetryWaitMax
	client.HTTPClient.Timeout = webhookTimeout
	client.Logger = nil
	if logger != nil {
		client.Logger = retryablehttp.LeveledLogger(logger)
	}

	return &WebhookNotifier{
		url:     url,
		enabled: enabled,
		client:  client,
	}
}

// PermissionGranted implements backend.Notifier
func (n *WebhookNotifier) PermissionGranted() bool {
	return n.enabled && n.url != ""
}

// Notify implements backend.Notifier
func (n *WebhookNotifier) Notify(alert backend.Alert) error {
	body, err := json.Marshal(WebhookPayload{
		Text:  formatter.FormatNotificationText(alert),
		Alert: alert,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), webhookDeadline)
	defer cancel()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, n.url, body)
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}

	return nil
}
