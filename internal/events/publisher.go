package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/parceldesk/postal-service/internal/config"
	"github.com/parceldesk/postal-service/internal/entities"
	"github.com/parceldesk/postal-service/pkg/utils"

	"github.com/segmentio/kafka-go"
)

const (
	TypeShipmentCreated = "shipment.created"
	TypeStatusUpdated   = "shipment.status_updated"
)

// Event is the message published to the shipment event stream on every
// create and status change.
type Event struct {
	Type       string          `json:"type"`
	ShipmentID int64           `json:"shipment_id"`
	Status     entities.Status `json:"status"`
	OccurredAt time.Time       `json:"occurred_at"`
}

type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	logger *slog.Logger
	writer writer
}

func NewPublisher(logger *slog.Logger, cfg config.Kafka) *Publisher {
	return NewPublisherWithWriter(logger, &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: cfg.BatchTimeout,
	})
}

// NewPublisherWithWriter lets tests substitute the kafka writer.
func NewPublisherWithWriter(logger *slog.Logger, w writer) *Publisher {
	return &Publisher{
		logger: logger.With(slog.String("component", "events")),
		writer: w,
	}
}

func (p *Publisher) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.ShipmentID, 10)),
		Value: value,
	}

	cfg := utils.RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 50 * time.Millisecond,
		Multiplier:   2,
	}
	if err := utils.Retry(cfg, func() error {
		return p.writer.WriteMessages(ctx, msg)
	}); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("event published",
		slog.String("type", event.Type),
		slog.Int64("shipment_id", event.ShipmentID),
	)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
