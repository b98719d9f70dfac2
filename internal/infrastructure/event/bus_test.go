package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, garden.AggregateTypePlot, uuid.New()),
	}
}

type recordingHandler struct {
	eventTypes []string
	err        error
	panicWith  any
	mu         sync.Mutex
	handled    []shared.DomainEvent
}

func newRecordingHandler(eventTypes ...string) *recordingHandler {
	return &recordingHandler{eventTypes: eventTypes}
}

func (h *recordingHandler) Handle(_ context.Context, evt shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, evt)
	h.mu.Unlock()
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newRecordingHandler(garden.EventTypePlotCreated)
	bus.Subscribe(handler)

	evt := newTestEvent(garden.EventTypePlotCreated)
	require.NoError(t, bus.Publish(context.Background(), evt))

	require.Equal(t, 1, handler.count())
	assert.Equal(t, evt, handler.handled[0])
}

func TestInMemoryEventBus_Publish_OnlyMatchingTypes(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	created := newRecordingHandler(garden.EventTypePlotCreated)
	deleted := newRecordingHandler(garden.EventTypePlotDeleted)
	bus.Subscribe(created)
	bus.Subscribe(deleted)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent(garden.EventTypePlotCreated),
		newTestEvent(garden.EventTypePlotCreated),
		nil,
	))

	assert.Equal(t, 2, created.count())
	assert.Equal(t, 0, deleted.count())

	published, failed := bus.Stats()
	assert.Equal(t, int64(2), published)
	assert.Equal(t, int64(0), failed)
}

func TestInMemoryEventBus_Publish_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	handler := newRecordingHandler(garden.EventTypePlotCreated)
	bus.Subscribe(handler, garden.EventTypeRotationRecorded)

	_ = bus.Publish(context.Background(), newTestEvent(garden.EventTypePlotCreated))
	_ = bus.Publish(context.Background(), newTestEvent(garden.EventTypeRotationRecorded))

	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_Publish_WildcardHandler(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	all := newRecordingHandler()
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent(garden.EventTypePlotCreated),
		newTestEvent(garden.EventTypePlotCellsChanged),
	))

	assert.Equal(t, 2, all.count())
}

func TestInMemoryEventBus_Publish_HandlerFailureIsIsolated(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	failing := newRecordingHandler(garden.EventTypePlotDeleted)
	failing.err = errors.New("boom")
	panicking := newRecordingHandler(garden.EventTypePlotDeleted)
	panicking.panicWith = "kaboom"
	healthy := newRecordingHandler(garden.EventTypePlotDeleted)
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent(garden.EventTypePlotDeleted))

	require.NoError(t, err)
	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, panicking.count())
	assert.Equal(t, 1, healthy.count())

	_, failed := bus.Stats()
	assert.Equal(t, int64(2), failed)
	entries := logs.FilterMessage("Event handler failed").All()
	require.Len(t, entries, 2)
	assert.Contains(t, entries[1].ContextMap()["error"], "kaboom")
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	handler := newRecordingHandler(garden.EventTypePlotCreated)
	bus.Subscribe(handler)

	_ = bus.Publish(context.Background(), newTestEvent(garden.EventTypePlotCreated))
	bus.Unsubscribe(handler)
	_ = bus.Publish(context.Background(), newTestEvent(garden.EventTypePlotCreated))

	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	ctx := context.Background()

	assert.False(t, bus.IsRunning())
	require.NoError(t, bus.Start(ctx))
	assert.True(t, bus.IsRunning())
	require.NoError(t, bus.Stop(ctx))
	assert.False(t, bus.IsRunning())
}
