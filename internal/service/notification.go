package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/minibank/minibank-backend/internal/domain"
	"github.com/minibank/minibank-backend/internal/logging"
	"github.com/minibank/minibank-backend/internal/middleware"
)

// NotifierClient posts notification messages to the notification sink. It is
// plain transport; resilience lives in NotificationGateway.
type NotifierClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewNotifierClient(baseURL string, timeout time.Duration) *NotifierClient {
	return &NotifierClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type notificationPayload struct {
	Message string `json:"message"`
}

func (c *NotifierClient) Send(ctx context.Context, message string) error {
	log := logging.FromContext(ctx)

	body, err := json.Marshal(notificationPayload{Message: message})
	if err != nil {
		return fmt.Errorf("Send: marshal: %w", err)
	}

	url := c.baseURL + "/api/notifications/send"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("Send: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if correlationID := middleware.CorrelationIDFromContext(ctx); correlationID != "" {
		req.Header.Set(middleware.CorrelationIDHeader, correlationID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("Send: %w", err)
	}
	defer resp.Body.Close()

	log.Debug("notifier response received",
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("Send: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

type notificationSender interface {
	Send(ctx context.Context, message string) error
}

// NotificationGateway is the fallback path in front of the notifier client.
// Any transport or remote failure is logged with its cause and replaced by
// ErrNotificationUnavailable, so callers never see raw transport faults.
type NotificationGateway struct {
	client notificationSender
}

func NewNotificationGateway(client notificationSender) *NotificationGateway {
	return &NotificationGateway{client: client}
}

func (g *NotificationGateway) Notify(ctx context.Context, message string) error {
	if err := g.client.Send(ctx, message); err != nil {
		logging.FromContext(ctx).Error("notification service unavailable", "cause", err)
		return fmt.Errorf("Notify: %w", domain.ErrNotificationUnavailable)
	}
	return nil
}
