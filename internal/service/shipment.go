package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/parceldesk/postal-service/internal/entities"
	"github.com/parceldesk/postal-service/internal/events"
	"github.com/parceldesk/postal-service/pkg/trm"
	"github.com/parceldesk/postal-service/pkg/utils"
)

type ShipmentRepo interface {
	SaveAddress(ctx context.Context, a entities.Address) (entities.Address, error)
	SaveShipment(ctx context.Context, s entities.Shipment) (entities.Shipment, error)
	SaveLabel(ctx context.Context, l entities.Label) (entities.Label, error)

	GetShipmentByID(ctx context.Context, id int64) (entities.Shipment, error)
	UpdateStatus(ctx context.Context, id int64, status entities.Status) error
	SearchShipments(ctx context.Context, term string) ([]entities.Shipment, error)
	ListShipments(ctx context.Context) ([]entities.Shipment, error)
	ListShipmentsByUser(ctx context.Context, userID int64) ([]entities.Shipment, error)
}

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Delete(key string)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type ShipmentService struct {
	logger    *slog.Logger
	txManager trm.Manager
	repo      ShipmentRepo
	cache     Cache
	publisher EventPublisher
}

func NewShipmentService(logger *slog.Logger, txManager trm.Manager, repo ShipmentRepo, cache Cache, publisher EventPublisher) *ShipmentService {
	return &ShipmentService{
		logger:    logger.With(slog.String("service", "shipment")),
		txManager: txManager,
		repo:      repo,
		cache:     cache,
		publisher: publisher,
	}
}

// CreateShipment persists two addresses, the shipment row and its label
// as one transaction. Any failure rolls everything back and the storage
// error is surfaced unchanged. There is no idempotency key: calling
// twice with the same input creates two shipments.
func (s *ShipmentService) CreateShipment(ctx context.Context, weight float64, method entities.ShippingMethod, from, to entities.Address, senderID int64) (entities.Shipment, error) {
	if err := from.Validate("from"); err != nil {
		return entities.Shipment{}, err
	}
	if err := to.Validate("to"); err != nil {
		return entities.Shipment{}, err
	}

	shipment := entities.Shipment{
		Status:   entities.StatusPending,
		Cost:     CalculateCost(method, weight),
		Weight:   weight,
		Method:   method,
		SenderID: senderID,
	}

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		if shipment.From, err = s.repo.SaveAddress(ctx, from); err != nil {
			return fmt.Errorf("failed to save from address: %w", err)
		}
		if shipment.To, err = s.repo.SaveAddress(ctx, to); err != nil {
			return fmt.Errorf("failed to save to address: %w", err)
		}

		if shipment, err = s.repo.SaveShipment(ctx, shipment); err != nil {
			return fmt.Errorf("failed to save shipment: %w", err)
		}

		label := entities.Label{
			Content:    entities.LabelContent(shipment.From, shipment.To),
			ShipmentID: shipment.ID,
			From:       shipment.From,
			To:         shipment.To,
		}
		if shipment.Label, err = s.repo.SaveLabel(ctx, label); err != nil {
			return fmt.Errorf("failed to save label: %w", err)
		}
		return nil
	})
	if err != nil {
		return entities.Shipment{}, err
	}

	s.logger.Debug("shipment created", slog.Int64("shipment_id", shipment.ID))
	s.publish(ctx, events.TypeShipmentCreated, shipment.ID, shipment.Status)

	return shipment, nil
}

// UpdateStatus overwrites the status unconditionally; no transition
// graph is enforced, only membership in the known status set.
func (s *ShipmentService) UpdateStatus(ctx context.Context, id int64, status string) error {
	parsed, err := entities.ParseStatus(status)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(ctx, id, parsed); err != nil {
		return err
	}

	s.cache.Delete(cacheKey(id))
	s.publish(ctx, events.TypeStatusUpdated, id, parsed)
	return nil
}

func (s *ShipmentService) GetShipmentByID(ctx context.Context, id int64) (entities.Shipment, error) {
	key := cacheKey(id)
	if data, ok := s.cache.Get(key); ok {
		var shipment entities.Shipment
		if err := shipment.Unmarshal(data); err == nil {
			return shipment, nil
		}
		// поврежденная запись, перечитываем из базы
		s.cache.Delete(key)
	}

	var shipment entities.Shipment
	cfg := utils.RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		Multiplier:   2,
	}
	err := utils.Retry(cfg, func() error {
		var err error
		shipment, err = s.repo.GetShipmentByID(ctx, id)
		return err
	}, entities.ErrShipmentNotFound)
	if err != nil {
		return entities.Shipment{}, err
	}

	if data, err := shipment.Marshal(); err == nil {
		s.cache.Set(key, data)
	} else {
		s.logger.Error("failed to marshal shipment", slog.Int64("shipment_id", id), slog.Any("error", err))
	}
	return shipment, nil
}

func (s *ShipmentService) SearchShipments(ctx context.Context, term string) ([]entities.Shipment, error) {
	return s.repo.SearchShipments(ctx, term)
}

func (s *ShipmentService) ListShipments(ctx context.Context) ([]entities.Shipment, error) {
	return s.repo.ListShipments(ctx)
}

func (s *ShipmentService) ListShipmentsByUser(ctx context.Context, userID int64) ([]entities.Shipment, error) {
	return s.repo.ListShipmentsByUser(ctx, userID)
}

// publish emits a shipment event best-effort: a broker outage must not
// fail the request that already committed.
func (s *ShipmentService) publish(ctx context.Context, eventType string, id int64, status entities.Status) {
	event := events.Event{
		Type:       eventType,
		ShipmentID: id,
		Status:     status,
		OccurredAt: time.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish event",
			slog.String("type", eventType),
			slog.Int64("shipment_id", id),
			slog.Any("error", err),
		)
	}
}

func cacheKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
