package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/parceldesk/postal-service/internal/entities"

	skafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWriter records messages and can fail a configurable number of times.
type fakeWriter struct {
	msgs     []skafka.Message
	failures int
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...skafka.Message) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("broker unavailable")
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestPublisher_Publish(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("publishes event with shipment id key", func(t *testing.T) {
		fw := &fakeWriter{}
		p := NewPublisherWithWriter(logger, fw)

		event := Event{
			Type:       TypeShipmentCreated,
			ShipmentID: 42,
			Status:     entities.StatusPending,
			OccurredAt: time.Now(),
		}
		require.NoError(t, p.Publish(context.Background(), event))
		require.Len(t, fw.msgs, 1)

		assert.Equal(t, "42", string(fw.msgs[0].Key))

		var got Event
		require.NoError(t, json.Unmarshal(fw.msgs[0].Value, &got))
		assert.Equal(t, TypeShipmentCreated, got.Type)
		assert.Equal(t, entities.StatusPending, got.Status)
	})

	t.Run("retries transient write failures", func(t *testing.T) {
		fw := &fakeWriter{failures: 2}
		p := NewPublisherWithWriter(logger, fw)

		err := p.Publish(context.Background(), Event{Type: TypeStatusUpdated, ShipmentID: 7})
		require.NoError(t, err)
		assert.Len(t, fw.msgs, 1)
	})

	t.Run("gives up after exhausting retries", func(t *testing.T) {
		fw := &fakeWriter{failures: 10}
		p := NewPublisherWithWriter(logger, fw)

		err := p.Publish(context.Background(), Event{Type: TypeStatusUpdated, ShipmentID: 7})
		require.Error(t, err)
		assert.Empty(t, fw.msgs)
	})
}
