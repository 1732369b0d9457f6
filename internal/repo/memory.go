package repo

import (
	"context"
	"strings"
	"sync"

	"github.com/parceldesk/postal-service/internal/entities"
)

// Memory is an in-memory shipment store used as a test double for the
// transactional Postgres repo. It also implements trm.Manager: Do
// snapshots the store and restores it when the callback fails, which
// mirrors rollback semantics closely enough for workflow tests.
type Memory struct {
	mu        sync.Mutex
	addresses map[int64]entities.Address
	shipments map[int64]entities.Shipment
	labels    map[int64]entities.Label

	nextAddressID  int64
	nextShipmentID int64
	nextLabelID    int64

	// injectable failures
	SaveShipmentErr error
	SaveLabelErr    error
}

func NewMemory() *Memory {
	return &Memory{
		addresses: make(map[int64]entities.Address),
		shipments: make(map[int64]entities.Shipment),
		labels:    make(map[int64]entities.Label),
	}
}

func (m *Memory) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := m.snapshot()
	if err := fn(ctx); err != nil {
		m.restore(snapshot)
		return err
	}
	return nil
}

func (m *Memory) SaveAddress(_ context.Context, a entities.Address) (entities.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextAddressID++
	a.ID = m.nextAddressID
	m.addresses[a.ID] = a
	return a, nil
}

func (m *Memory) SaveShipment(_ context.Context, s entities.Shipment) (entities.Shipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveShipmentErr != nil {
		return entities.Shipment{}, m.SaveShipmentErr
	}
	m.nextShipmentID++
	s.ID = m.nextShipmentID
	m.shipments[s.ID] = s
	return s, nil
}

func (m *Memory) SaveLabel(_ context.Context, l entities.Label) (entities.Label, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveLabelErr != nil {
		return entities.Label{}, m.SaveLabelErr
	}
	m.nextLabelID++
	l.ID = m.nextLabelID
	m.labels[l.ID] = l

	if s, ok := m.shipments[l.ShipmentID]; ok {
		s.Label = l
		m.shipments[l.ShipmentID] = s
	}
	return l, nil
}

func (m *Memory) GetShipmentByID(_ context.Context, id int64) (entities.Shipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.shipments[id]
	if !ok {
		return entities.Shipment{}, entities.ErrShipmentNotFound
	}
	return s, nil
}

func (m *Memory) UpdateStatus(_ context.Context, id int64, status entities.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.shipments[id]
	if !ok {
		return entities.ErrShipmentNotFound
	}
	s.Status = status
	m.shipments[id] = s
	return nil
}

func (m *Memory) SearchShipments(_ context.Context, term string) ([]entities.Shipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	term = strings.ToLower(term)
	var result []entities.Shipment
	for _, s := range m.shipments {
		if strings.Contains(strings.ToLower(s.From.Name), term) ||
			strings.Contains(strings.ToLower(s.To.Name), term) {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *Memory) ListShipments(_ context.Context) ([]entities.Shipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]entities.Shipment, 0, len(m.shipments))
	for _, s := range m.shipments {
		result = append(result, s)
	}
	return result, nil
}

func (m *Memory) ListShipmentsByUser(_ context.Context, userID int64) ([]entities.Shipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []entities.Shipment
	for _, s := range m.shipments {
		if s.SenderID == userID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *Memory) AddressCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.addresses)
}

func (m *Memory) ShipmentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.shipments)
}

func (m *Memory) LabelCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.labels)
}

type memorySnapshot struct {
	addresses map[int64]entities.Address
	shipments map[int64]entities.Shipment
	labels    map[int64]entities.Label

	nextAddressID  int64
	nextShipmentID int64
	nextLabelID    int64
}

func (m *Memory) snapshot() memorySnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := memorySnapshot{
		addresses:      make(map[int64]entities.Address, len(m.addresses)),
		shipments:      make(map[int64]entities.Shipment, len(m.shipments)),
		labels:         make(map[int64]entities.Label, len(m.labels)),
		nextAddressID:  m.nextAddressID,
		nextShipmentID: m.nextShipmentID,
		nextLabelID:    m.nextLabelID,
	}
	for k, v := range m.addresses {
		snap.addresses[k] = v
	}
	for k, v := range m.shipments {
		snap.shipments[k] = v
	}
	for k, v := range m.labels {
		snap.labels[k] = v
	}
	return snap
}

func (m *Memory) restore(snap memorySnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.addresses = snap.addresses
	m.shipments = snap.shipments
	m.labels = snap.labels
	m.nextAddressID = snap.nextAddressID
	m.nextShipmentID = snap.nextShipmentID
	m.nextLabelID = snap.nextLabelID
}
