package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/parceldesk/postal-service/internal/entities"
	"github.com/parceldesk/postal-service/internal/events"
	"github.com/parceldesk/postal-service/internal/repo"
	"github.com/parceldesk/postal-service/internal/service"
	"github.com/parceldesk/postal-service/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) published() []events.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]events.Event(nil), f.events...)
}

func address(name string) entities.Address {
	return entities.Address{
		Name:    name,
		Street:  "1 Main St",
		City:    "Springfield",
		State:   "IL",
		Zip:     "62701",
		Country: "US",
	}
}

func newShipmentService(store *repo.Memory, publisher *fakePublisher) *service.ShipmentService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := cache.NewLRUCache(16, time.Minute)
	return service.NewShipmentService(logger, store, store, c, publisher)
}

func TestShipmentService_CreateShipment(t *testing.T) {
	method := entities.ShippingMethod{Name: "express", Expedited: true}

	t.Run("creates addresses, shipment and label atomically", func(t *testing.T) {
		store := repo.NewMemory()
		publisher := &fakePublisher{}
		svc := newShipmentService(store, publisher)

		shipment, err := svc.CreateShipment(context.Background(), 3, method, address("Alice Smith"), address("Bob Jones"), 7)
		require.NoError(t, err)

		assert.Equal(t, entities.StatusPending, shipment.Status)
		assert.InDelta(t, 21.0, shipment.Cost, 1e-9)
		assert.Equal(t, int64(7), shipment.SenderID)
		assert.Equal(t, "Package from Alice Smith to Bob Jones", shipment.Label.Content)
		assert.Equal(t, shipment.ID, shipment.Label.ShipmentID)
		assert.NotZero(t, shipment.From.ID)
		assert.NotZero(t, shipment.To.ID)
		assert.NotEqual(t, shipment.From.ID, shipment.To.ID)

		assert.Equal(t, 2, store.AddressCount())
		assert.Equal(t, 1, store.ShipmentCount())
		assert.Equal(t, 1, store.LabelCount())

		published := publisher.published()
		require.Len(t, published, 1)
		assert.Equal(t, events.TypeShipmentCreated, published[0].Type)
		assert.Equal(t, shipment.ID, published[0].ShipmentID)
	})

	t.Run("missing address field fails before any persistence", func(t *testing.T) {
		store := repo.NewMemory()
		publisher := &fakePublisher{}
		svc := newShipmentService(store, publisher)

		to := address("Bob Jones")
		to.City = ""

		_, err := svc.CreateShipment(context.Background(), 3, method, address("Alice Smith"), to, 0)
		require.ErrorIs(t, err, entities.ErrInvalidAddress)
		assert.Contains(t, err.Error(), "to.city")

		assert.Zero(t, store.AddressCount())
		assert.Zero(t, store.ShipmentCount())
		assert.Zero(t, store.LabelCount())
		assert.Empty(t, publisher.published())
	})

	t.Run("storage failure rolls back every row", func(t *testing.T) {
		store := repo.NewMemory()
		dbErr := errors.New("db error")
		store.SaveLabelErr = dbErr
		publisher := &fakePublisher{}
		svc := newShipmentService(store, publisher)

		_, err := svc.CreateShipment(context.Background(), 1, method, address("Alice"), address("Bob"), 0)
		require.ErrorIs(t, err, dbErr)

		assert.Zero(t, store.AddressCount())
		assert.Zero(t, store.ShipmentCount())
		assert.Zero(t, store.LabelCount())
		assert.Empty(t, publisher.published())
	})

	t.Run("no deduplication on identical input", func(t *testing.T) {
		store := repo.NewMemory()
		svc := newShipmentService(store, &fakePublisher{})

		first, err := svc.CreateShipment(context.Background(), 1, method, address("Alice"), address("Bob"), 0)
		require.NoError(t, err)
		second, err := svc.CreateShipment(context.Background(), 1, method, address("Alice"), address("Bob"), 0)
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, 2, store.ShipmentCount())
		assert.Equal(t, 4, store.AddressCount())
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		store := repo.NewMemory()
		publisher := &fakePublisher{err: errors.New("broker down")}
		svc := newShipmentService(store, publisher)

		_, err := svc.CreateShipment(context.Background(), 1, method, address("Alice"), address("Bob"), 0)
		require.NoError(t, err)
		assert.Equal(t, 1, store.ShipmentCount())
	})

	t.Run("concurrent creates never interleave partial state", func(t *testing.T) {
		store := repo.NewMemory()
		svc := newShipmentService(store, &fakePublisher{})

		const n = 10
		var g errgroup.Group
		for i := 0; i < n; i++ {
			i := i
			g.Go(func() error {
				_, err := svc.CreateShipment(context.Background(), float64(i),
					entities.ShippingMethod{Name: "standard"},
					address(fmt.Sprintf("Sender %d", i)),
					address(fmt.Sprintf("Recipient %d", i)), 0)
				return err
			})
		}
		require.NoError(t, g.Wait())

		assert.Equal(t, n, store.ShipmentCount())
		assert.Equal(t, 2*n, store.AddressCount())
		assert.Equal(t, n, store.LabelCount())
	})
}

func TestShipmentService_UpdateStatus(t *testing.T) {
	method := entities.ShippingMethod{Name: "standard"}

	t.Run("unknown shipment returns not found", func(t *testing.T) {
		store := repo.NewMemory()
		svc := newShipmentService(store, &fakePublisher{})

		err := svc.UpdateStatus(context.Background(), 999, "delivered")
		assert.ErrorIs(t, err, entities.ErrShipmentNotFound)
	})

	t.Run("unknown status is rejected before hitting the store", func(t *testing.T) {
		store := repo.NewMemory()
		svc := newShipmentService(store, &fakePublisher{})

		shipment, err := svc.CreateShipment(context.Background(), 1, method, address("Alice"), address("Bob"), 0)
		require.NoError(t, err)

		err = svc.UpdateStatus(context.Background(), shipment.ID, "teleported")
		assert.ErrorIs(t, err, entities.ErrInvalidStatus)

		got, err := svc.GetShipmentByID(context.Background(), shipment.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.StatusPending, got.Status)
	})

	t.Run("idempotent in effect and invalidates the cache", func(t *testing.T) {
		store := repo.NewMemory()
		publisher := &fakePublisher{}
		svc := newShipmentService(store, publisher)

		shipment, err := svc.CreateShipment(context.Background(), 1, method, address("Alice"), address("Bob"), 0)
		require.NoError(t, err)

		// warm the cache with the pending status
		_, err = svc.GetShipmentByID(context.Background(), shipment.ID)
		require.NoError(t, err)

		require.NoError(t, svc.UpdateStatus(context.Background(), shipment.ID, "delivered"))
		require.NoError(t, svc.UpdateStatus(context.Background(), shipment.ID, "delivered"))

		got, err := svc.GetShipmentByID(context.Background(), shipment.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.StatusDelivered, got.Status)

		var updates int
		for _, e := range publisher.published() {
			if e.Type == events.TypeStatusUpdated {
				updates++
				assert.Equal(t, entities.StatusDelivered, e.Status)
			}
		}
		assert.Equal(t, 2, updates)
	})
}

func TestShipmentService_SearchShipments(t *testing.T) {
	store := repo.NewMemory()
	svc := newShipmentService(store, &fakePublisher{})
	method := entities.ShippingMethod{Name: "standard"}

	_, err := svc.CreateShipment(context.Background(), 1, method, address("Alice Smith"), address("Bob Jones"), 0)
	require.NoError(t, err)
	_, err = svc.CreateShipment(context.Background(), 1, method, address("Carol White"), address("Dan SMITH"), 0)
	require.NoError(t, err)
	_, err = svc.CreateShipment(context.Background(), 1, method, address("Eve Black"), address("Frank Green"), 0)
	require.NoError(t, err)

	results, err := svc.SearchShipments(context.Background(), "smith")
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, s := range results {
		match := s.From.Name == "Alice Smith" || s.To.Name == "Dan SMITH"
		assert.True(t, match, "unexpected result: %s -> %s", s.From.Name, s.To.Name)
	}
}

func TestShipmentService_GetShipmentByID(t *testing.T) {
	store := repo.NewMemory()
	svc := newShipmentService(store, &fakePublisher{})

	_, err := svc.GetShipmentByID(context.Background(), 404)
	assert.ErrorIs(t, err, entities.ErrShipmentNotFound)

	shipment, err := svc.CreateShipment(context.Background(), 2,
		entities.ShippingMethod{Name: "standard"}, address("Alice"), address("Bob"), 0)
	require.NoError(t, err)

	got, err := svc.GetShipmentByID(context.Background(), shipment.ID)
	require.NoError(t, err)
	assert.Equal(t, shipment.ID, got.ID)
	assert.Equal(t, shipment.Label.Content, got.Label.Content)

	// второй вызов идет из кэша
	cached, err := svc.GetShipmentByID(context.Background(), shipment.ID)
	require.NoError(t, err)
	assert.Equal(t, got, cached)
}
