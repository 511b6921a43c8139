// Package notify provides notification delivery for triggered alerts.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"stockpulse/internal/config"
	"stockpulse/internal/models"
)

// Notifier defines the interface for sending notifications.
//
// Delivery is best effort: the alert monitor treats a failed send as a
// local, recoverable event and never rolls back alert state because of it.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
	SendAlert(ctx context.Context, alert *models.PriceAlert, currentPrice float64) error
	SendError(ctx context.Context, err error, context string) error
}

// NotificationChannel defines the interface for a notification channel.
type NotificationChannel interface {
	Name() string
	Send(ctx context.Context, n Notification) error
	IsEnabled() bool
}

// Notification represents a notification message.
type Notification struct {
	Type      NotificationType
	Title     string
	Message   string
	Data      map[string]interface{}
	Timestamp time.Time
}

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationAlert NotificationType = "alert"
	NotificationError NotificationType = "error"
	NotificationInfo  NotificationType = "info"
)

// NotificationLevel represents the notification level filter.
type NotificationLevel string

const (
	LevelAll        NotificationLevel = "all"
	LevelAlertsOnly NotificationLevel = "alerts_only"
	LevelErrorsOnly NotificationLevel = "errors_only"
)

// MultiNotifier sends notifications to multiple channels. Per-channel
// failures are collected but do not stop delivery to the other channels.
type MultiNotifier struct {
	channels []NotificationChannel
	level    NotificationLevel
	mu       sync.RWMutex
}

// NewMultiNotifier creates a notifier from configuration, registering the
// enabled channels.
func NewMultiNotifier(cfg config.NotificationConfig) *MultiNotifier {
	level := NotificationLevel(cfg.Level)
	if level == "" {
		level = LevelAll
	}

	n := &MultiNotifier{level: level}
	n.AddChannel(NewTerminalChannel(true))
	if cfg.Webhook.Enabled && cfg.Webhook.URL != "" {
		n.AddChannel(NewWebhookChannel(cfg.Webhook.URL))
	}
	return n
}

// AddChannel registers a notification channel.
func (m *MultiNotifier) AddChannel(ch NotificationChannel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels = append(m.channels, ch)
}

// Send delivers a notification to every enabled channel.
func (m *MultiNotifier) Send(ctx context.Context, n Notification) error {
	if !m.shouldSend(n.Type) {
		return nil
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}

	m.mu.RLock()
	channels := make([]NotificationChannel, len(m.channels))
	copy(channels, m.channels)
	m.mu.RUnlock()

	var firstErr error
	for _, ch := range channels {
		if !ch.IsEnabled() {
			continue
		}
		if err := ch.Send(ctx, n); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("channel %s: %w", ch.Name(), err)
		}
	}
	return firstErr
}

// SendAlert delivers a triggered-alert notification.
func (m *MultiNotifier) SendAlert(ctx context.Context, alert *models.PriceAlert, currentPrice float64) error {
	return m.Send(ctx, Notification{
		Type:    NotificationAlert,
		Title:   "Price target reached",
		Message: FormatAlertMessage(alert, currentPrice),
		Data: map[string]interface{}{
			"alert_id":      alert.ID,
			"ticker":        alert.Ticker,
			"direction":     string(alert.Direction),
			"target_price":  alert.TargetPrice,
			"current_price": currentPrice,
		},
	})
}

// SendError delivers an error notification.
func (m *MultiNotifier) SendError(ctx context.Context, err error, context string) error {
	return m.Send(ctx, Notification{
		Type:    NotificationError,
		Title:   "Error: " + context,
		Message: err.Error(),
	})
}

func (m *MultiNotifier) shouldSend(t NotificationType) bool {
	switch m.level {
	case LevelAlertsOnly:
		return t == NotificationAlert
	case LevelErrorsOnly:
		return t == NotificationError
	default:
		return true
	}
}

// FormatAlertMessage renders the user-facing alert text.
func FormatAlertMessage(alert *models.PriceAlert, currentPrice float64) string {
	condition := "or above"
	if alert.Direction == models.DirectionBelow {
		condition = "or below"
	}
	return fmt.Sprintf("%s (%s): $%.2f\nReached target $%.2f %s",
		alert.DisplayName, alert.Ticker, currentPrice, alert.TargetPrice, condition)
}

// WebhookChannel sends notifications as JSON to an HTTP endpoint.
type WebhookChannel struct {
	url        string
	httpClient *http.Client
	enabled    bool
}

// NewWebhookChannel creates a webhook notification channel.
func NewWebhookChannel(url string) *WebhookChannel {
	return &WebhookChannel{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		enabled: true,
	}
}

func (w *WebhookChannel) Name() string { return "webhook" }

func (w *WebhookChannel) IsEnabled() bool { return w.enabled }

func (w *WebhookChannel) Send(ctx context.Context, n Notification) error {
	payload := map[string]interface{}{
		"type":      string(n.Type),
		"title":     n.Title,
		"message":   n.Message,
		"data":      n.Data,
		"timestamp": n.Timestamp.Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
