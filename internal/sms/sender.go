// Package sms is the outbound message-delivery channel. The core treats it as
// an opaque "send text to phone" sink: success or failure, no delivery
// receipts.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"curbside/internal/sentinel"
)

// Sender delivers one text to one phone. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, phone, text string) error
}

// WebhookSender posts each message to a delivery webhook as JSON. The webhook
// relay owns carrier details; from here a send is fire-and-forget.
type WebhookSender struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewWebhookSender constructs a webhook-backed sender with a bounded timeout.
func NewWebhookSender(url string, timeout time.Duration, logger *slog.Logger) *WebhookSender {
	return &WebhookSender{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type webhookMessage struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func (s *WebhookSender) Send(ctx context.Context, phone, text string) error {
	body, err := json.Marshal(webhookMessage{Phone: phone, Message: text})
	if err != nil {
		return fmt.Errorf("encode webhook message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post to delivery webhook: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("delivery webhook returned status %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}
	return nil
}

// LogSender logs messages instead of delivering them. Used in development
// when no delivery webhook is configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender constructs a log-only sender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, phone, text string) error {
	s.logger.Info("sms send (log only)",
		"phone", phone,
		"text", text,
	)
	return nil
}
