package event

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
)

func TestHandlerRegistry_RegisterSpecificTypes(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newRecordingHandler()

	registry.Register(handler, garden.EventTypePlotCreated, garden.EventTypePlotDeleted)

	assert.Len(t, registry.GetHandlers(garden.EventTypePlotCreated), 1)
	assert.Len(t, registry.GetHandlers(garden.EventTypePlotDeleted), 1)
	assert.Empty(t, registry.GetHandlers(garden.EventTypeRotationRecorded))
}

func TestHandlerRegistry_RegisterTwiceIsNoop(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newRecordingHandler()

	registry.Register(handler, garden.EventTypePlotCreated)
	registry.Register(handler, garden.EventTypePlotCreated)
	registry.Register(handler)
	registry.Register(handler)

	assert.Len(t, registry.GetHandlers(garden.EventTypePlotCreated), 2)
	assert.Len(t, registry.GetAllHandlers(), 1)
}

func TestHandlerRegistry_TypedBeforeWildcard(t *testing.T) {
	registry := NewHandlerRegistry()
	wildcard := newRecordingHandler()
	typed := newRecordingHandler()

	registry.Register(wildcard)
	registry.Register(typed, garden.EventTypePlotCreated)

	handlers := registry.GetHandlers(garden.EventTypePlotCreated)
	assert.Len(t, handlers, 2)
	assert.Same(t, typed, handlers[0])
	assert.Same(t, wildcard, handlers[1])
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	registry := NewHandlerRegistry()
	keep := newRecordingHandler()
	drop := newRecordingHandler()

	registry.Register(keep, garden.EventTypePlotCreated)
	registry.Register(drop, garden.EventTypePlotCreated, garden.EventTypePlotDeleted)
	registry.Register(drop)

	registry.Unregister(drop)

	assert.Len(t, registry.GetHandlers(garden.EventTypePlotCreated), 1)
	assert.Empty(t, registry.GetHandlers(garden.EventTypePlotDeleted))
	assert.Len(t, registry.GetAllHandlers(), 1)
}
