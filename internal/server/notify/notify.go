// Package notify delivers plain-text operator warnings, either to a chat-ops
// webhook or to the log.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/dailyword/internal/logging"
)

// Notifier sends an operator-facing warning.
type Notifier interface {
	Warn(ctx context.Context, message string) error
}

// WebhookNotifier posts {"text": message} to a Slack-compatible incoming
// webhook.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	return &WebhookNotifier{url: url, client: &http.Client{Timeout: timeout}}
}

func (n *WebhookNotifier) Warn(ctx context.Context, message string) error {
	body, err := json.Marshal(map[string]string{"text": message})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}

// LogNotifier writes warnings to the logger. Used when no webhook is set.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(logger logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("module", "notify")}
}

func (n *LogNotifier) Warn(ctx context.Context, message string) error {
	n.logger.Warn(ctx, message)
	return nil
}

// New picks the webhook notifier when url is set, the log notifier otherwise.
func New(url string, timeout time.Duration, logger logging.Logger) Notifier {
	if url == "" {
		return NewLogNotifier(logger)
	}
	return NewWebhookNotifier(url, timeout)
}
