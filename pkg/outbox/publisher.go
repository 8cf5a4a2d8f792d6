package outbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/davidhuanca/mayorista-backend/pkg/config"
	"github.com/davidhuanca/mayorista-backend/pkg/db/models"
	"github.com/davidhuanca/mayorista-backend/pkg/logger"
)

// TopicPublisher is the slice of the Pub/Sub client the dispatcher needs.
type TopicPublisher interface {
	PublishToTopic(ctx context.Context, topic string, data []byte, attributes map[string]string) (string, error)
}

// NonRetryableError signals the dispatcher should stop retrying a row.
type NonRetryableError struct {
	Err error
}

func (e NonRetryableError) Error() string {
	if e.Err == nil {
		return "non-retryable error"
	}
	return e.Err.Error()
}

func (e NonRetryableError) Unwrap() error {
	return e.Err
}

// NewNonRetryableError wraps an error to signal no retries.
func NewNonRetryableError(err error) NonRetryableError {
	return NonRetryableError{Err: err}
}

// Publisher drains unpublished outbox rows into Pub/Sub.
type Publisher struct {
	repo   *Repository
	topics TopicPublisher
	cfg    config.OutboxConfig
	topic  string
	logg   *logger.Logger
}

func NewPublisher(repo *Repository, topics TopicPublisher, cfg config.OutboxConfig, ordersTopic string, logg *logger.Logger) (*Publisher, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if topics == nil {
		return nil, fmt.Errorf("topic publisher is required")
	}
	if ordersTopic == "" {
		return nil, fmt.Errorf("orders topic is required")
	}
	return &Publisher{repo: repo, topics: topics, cfg: cfg, topic: ordersTopic, logg: logg}, nil
}

// Run polls until the context is cancelled.
func (p *Publisher) Run(ctx context.Context) error {
	interval := time.Duration(p.cfg.PollIntervalMS) * time.Millisecond
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := p.DrainOnce(ctx); err != nil && p.logg != nil {
				p.logg.Error(ctx, "outbox drain failed", err)
			}
		}
	}
}

// DrainOnce fetches one batch and publishes each row. Returns how many rows
// were published successfully.
func (p *Publisher) DrainOnce(ctx context.Context) (int, error) {
	batch := p.cfg.BatchSize
	if batch <= 0 {
		batch = 50
	}
	rows, err := p.repo.FetchUnpublished(batch)
	if err != nil {
		return 0, fmt.Errorf("fetch unpublished: %w", err)
	}

	published := 0
	for _, row := range rows {
		if err := p.publishRow(ctx, row); err != nil {
			if markErr := p.repo.MarkFailed(row.ID, err); markErr != nil && p.logg != nil {
				p.logg.Error(ctx, "marking outbox row failed", markErr)
			}
			var nonRetryable NonRetryableError
			exhausted := p.cfg.MaxAttempts > 0 && row.AttemptCount+1 >= p.cfg.MaxAttempts
			if errors.As(err, &nonRetryable) || exhausted {
				// Park the row so it stops blocking the batch without ever
				// looking like a delivered event.
				if markErr := p.repo.MarkParked(row.ID); markErr != nil && p.logg != nil {
					p.logg.Error(ctx, "parking poisoned outbox row", markErr)
				}
			}
			continue
		}
		if err := p.repo.MarkPublished(row.ID); err != nil {
			return published, fmt.Errorf("mark published: %w", err)
		}
		published++
	}
	return published, nil
}

func (p *Publisher) publishRow(ctx context.Context, row models.OutboxEvent) error {
	if err := validateRow(row); err != nil {
		return err
	}

	attributes := map[string]string{
		"event_type":     string(row.EventType),
		"aggregate_type": string(row.AggregateType),
		"aggregate_id":   fmt.Sprintf("%d", row.AggregateID),
	}

	msgID, err := p.topics.PublishToTopic(ctx, p.topic, row.Payload, attributes)
	if err != nil {
		return fmt.Errorf("publish %s: %w", row.EventType, err)
	}
	if p.logg != nil {
		fields := map[string]any{
			"event_type": row.EventType,
			"message_id": msgID,
		}
		p.logg.Info(p.logg.WithFields(ctx, fields), "outbox event published")
	}
	return nil
}

func validateRow(row models.OutboxEvent) error {
	if !row.EventType.IsValid() {
		return NewNonRetryableError(fmt.Errorf("unsupported event type %s", row.EventType))
	}
	if row.AggregateID == 0 {
		return NewNonRetryableError(fmt.Errorf("missing aggregate_id"))
	}
	var envelope PayloadEnvelope
	if err := json.Unmarshal(row.Payload, &envelope); err != nil {
		return NewNonRetryableError(fmt.Errorf("decode envelope: %w", err))
	}
	trimmed := bytes.TrimSpace(envelope.Data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return NewNonRetryableError(fmt.Errorf("payload missing for %s", row.EventType))
	}
	return nil
}
