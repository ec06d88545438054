package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-confirmator/internal/adapter"
	"github.com/feral-file/ff-confirmator/internal/domain"
	"github.com/feral-file/ff-confirmator/internal/logger"
	"github.com/feral-file/ff-confirmator/internal/messaging"
)

const (
	userAgent       = "FF-Confirmator-Webhook/1.0"
	maxResponseBody = 4 * 1024
)

// Config holds the configuration of the webhook publisher
type Config struct {
	// URL is the endpoint notifications are posted to
	URL string
	// Secret is the hex encoded HMAC secret
	Secret string
	// InitialInterval is the first retry delay
	InitialInterval time.Duration
	// MaxInterval caps the retry delay
	MaxInterval time.Duration
	// MaxElapsedTime is the total time spent retrying a single delivery
	MaxElapsedTime time.Duration
}

type publisher struct {
	config     Config
	httpClient adapter.HTTPClient
	clock      adapter.Clock
	json       adapter.JSON
	jcs        adapter.JCS
}

// NewPublisher creates a publisher delivering notifications to a webhook endpoint
func NewPublisher(cfg Config, httpClient adapter.HTTPClient, clock adapter.Clock, json adapter.JSON, jcs adapter.JCS) messaging.Publisher {
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = time.Second
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 30 * time.Second
	}
	if cfg.MaxElapsedTime == 0 {
		cfg.MaxElapsedTime = 2 * time.Minute
	}

	return &publisher{
		config:     cfg,
		httpClient: httpClient,
		clock:      clock,
		json:       json,
		jcs:        jcs,
	}
}

// Publish signs the notification and posts it, retrying with exponential backoff on
// network errors, 429 and 5xx responses. Other 4xx responses fail immediately.
func (p *publisher) Publish(ctx context.Context, notification *domain.Notification) error {
	event := NewWebhookEvent(notification)
	if event.EventID == "" {
		event.EventID = ulid.MustNewDefault(p.clock.Now()).String()
	}

	timestamp := p.clock.Now().Unix()
	payload, signature, err := GenerateSignedPayload(p.config.Secret, event, timestamp, p.json, p.jcs)
	if err != nil {
		return fmt.Errorf("failed to generate signed payload: %w", err)
	}

	headers := map[string]string{
		"Content-Type":         "application/json",
		"User-Agent":           userAgent,
		HeaderSignature:        signature,
		HeaderEventID:          event.EventID,
		HeaderEventType:        event.EventType,
		HeaderTimestamp:        strconv.FormatInt(timestamp, 10),
		HeaderDeduplicationKey: notification.DeduplicationKey(),
	}

	result, err := p.deliver(ctx, headers, payload)
	if err != nil {
		logger.ErrorCtx(ctx, errors.New("failed to deliver webhook"),
			zap.Error(err),
			zap.String("event_id", event.EventID),
			zap.String("event_type", event.EventType),
			zap.Int("attempts", result.Attempts))
		return fmt.Errorf("failed to deliver webhook %s: %w", event.EventID, err)
	}

	logger.DebugCtx(ctx, "Webhook delivered",
		zap.String("event_id", event.EventID),
		zap.String("event_type", event.EventType),
		zap.Int("status_code", result.StatusCode),
		zap.Int("attempts", result.Attempts))

	return nil
}

func (p *publisher) deliver(ctx context.Context, headers map[string]string, payload []byte) (DeliveryResult, error) {
	var result DeliveryResult

	operation := func() error {
		result.Attempts++

		resp, err := p.httpClient.PostWithHeadersNoRetry(ctx, p.config.URL, headers, bytes.NewReader(payload))
		if err != nil {
			// Network errors are retryable
			return err
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				logger.WarnCtx(ctx, "failed to close response body", zap.Error(err), zap.String("url", p.config.URL))
			}
		}()

		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
		result.StatusCode = resp.StatusCode
		result.Body = string(body)

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return fmt.Errorf("HTTP %d", resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("HTTP %d: %s", resp.StatusCode, result.Body))
		}
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.config.InitialInterval
	b.MaxInterval = p.config.MaxInterval
	b.MaxElapsedTime = p.config.MaxElapsedTime
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.5

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return result, err
	}

	return result, nil
}

// Close is a no-op; the HTTP client holds no per-publisher resources
func (p *publisher) Close() {}
