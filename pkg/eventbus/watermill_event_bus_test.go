package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsight/flowsight/pkg/channels/gochannel"
	"github.com/flowsight/flowsight/pkg/events"
)

func newTestBus(t *testing.T) EventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := NewWatermillEventBus(pub, sub)
	t.Cleanup(func() {
		_ = bus.Close()
	})

	return bus
}

func nextEvent(t *testing.T, received <-chan any) any {
	t.Helper()

	select {
	case event := <-received:
		return event
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")

		return nil
	}
}

func TestWatermillEventBusRoundTrip(t *testing.T) {
	ctx := context.Background()
	bus := newTestBus(t)

	received := make(chan any, 4)
	collect := func(_ context.Context, event any) error {
		received <- event

		return nil
	}

	require.NoError(t, bus.Handle(events.SyncCompletedEvent, collect))
	require.NoError(t, bus.Handle(events.WorkflowUpsertedEvent, collect))
	require.NoError(t, bus.Subscribe(ctx))

	require.NoError(t, bus.Publish(ctx, "conn-1", &events.SyncCompleted{
		BaseEvent: events.BaseEvent{
			ID:           bus.GenerateID(),
			Type:         events.SyncCompletedEvent,
			Timestamp:    time.Now().UTC(),
			ConnectionID: "conn-1",
			Provider:     "n8n",
		},
		Synced:   3,
		Duration: 2 * time.Second,
	}))

	completed, ok := nextEvent(t, received).(*events.SyncCompleted)
	require.True(t, ok)
	assert.Equal(t, "conn-1", completed.ConnectionID)
	assert.Equal(t, "n8n", completed.Provider)
	assert.Equal(t, 3, completed.Synced)

	require.NoError(t, bus.Publish(ctx, "conn-1", &events.WorkflowUpserted{
		BaseEvent: events.BaseEvent{
			ID:           bus.GenerateID(),
			Type:         events.WorkflowUpsertedEvent,
			Timestamp:    time.Now().UTC(),
			ConnectionID: "conn-1",
			Provider:     "n8n",
		},
		ExternalID: "wf-1",
		Created:    true,
	}))

	upserted, ok := nextEvent(t, received).(*events.WorkflowUpserted)
	require.True(t, ok)
	assert.Equal(t, "wf-1", upserted.ExternalID)
	assert.True(t, upserted.Created)
	assert.False(t, upserted.Migrated)
}

func TestWatermillEventBusSkipsUnhandledTypes(t *testing.T) {
	ctx := context.Background()
	bus := newTestBus(t)

	received := make(chan any, 4)

	require.NoError(t, bus.Handle(events.SyncCompletedEvent, func(_ context.Context, event any) error {
		received <- event

		return nil
	}))
	require.NoError(t, bus.Subscribe(ctx))

	// No handler registered for sync.started; the message is acked and
	// dropped without blocking later deliveries.
	require.NoError(t, bus.Publish(ctx, "conn-1", &events.SyncStarted{
		BaseEvent: events.BaseEvent{
			ID:           bus.GenerateID(),
			Type:         events.SyncStartedEvent,
			Timestamp:    time.Now().UTC(),
			ConnectionID: "conn-1",
		},
		UserID: "user-1",
	}))

	require.NoError(t, bus.Publish(ctx, "conn-1", &events.SyncCompleted{
		BaseEvent: events.BaseEvent{
			ID:           bus.GenerateID(),
			Type:         events.SyncCompletedEvent,
			Timestamp:    time.Now().UTC(),
			ConnectionID: "conn-1",
		},
		Synced: 1,
	}))

	completed, ok := nextEvent(t, received).(*events.SyncCompleted)
	require.True(t, ok)
	assert.Equal(t, 1, completed.Synced)
	assert.Empty(t, received)
}
