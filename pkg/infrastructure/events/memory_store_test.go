package events

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	types  []string
	events []Event
	err    error
}

func (h *recordingHandler) CanHandle(eventType string) bool {
	for _, t := range h.types {
		if t == eventType {
			return true
		}
	}
	return false
}

func (h *recordingHandler) Handle(event Event) error {
	h.events = append(h.events, event)
	return h.err
}

func TestInMemoryEventStore_VersionsPerStream(t *testing.T) {
	store := NewInMemoryEventStore(zerolog.Nop())

	require.NoError(t, store.AppendEvent(PlanStream, NewPlanProposedEvent(PlanProposed{RunID: "r1"})))
	require.NoError(t, store.AppendEvent(InventoryStream, NewImportedEvent(CoilsImportedEvent, Imported{Imported: 3})))
	require.NoError(t, store.AppendEvent(PlanStream, NewPlanConfirmedEvent(PlanConfirmed{Assignments: 2})))

	plan, err := store.ReadEvents(PlanStream, 0)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, 1, plan[0].Version())
	assert.Equal(t, 2, plan[1].Version())
	assert.Equal(t, PlanConfirmedEvent, plan[1].Type())

	fromTwo, err := store.ReadEvents(PlanStream, 2)
	require.NoError(t, err)
	require.Len(t, fromTwo, 1)

	none, err := store.ReadEvents("missing", 1)
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := store.ReadAllEvents(2)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, InventoryStream, all[0].StreamID())
	assert.Equal(t, 2, all[0].Position())
	assert.Equal(t, 3, store.LastPosition())

	past, err := store.ReadAllEvents(10)
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestInMemoryEventStore_Retention(t *testing.T) {
	store := NewBoundedEventStore(zerolog.Nop(), 3)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.AppendEvent(PlanStream, NewPlanClearedEvent(PlanCleared{CoilsReset: i})))
	}
	require.NoError(t, store.AppendEvent(InventoryStream, NewImportedEvent(OrdersImportedEvent, Imported{Imported: 1})))

	all, err := store.ReadAllEvents(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 4, all[0].Position())
	assert.Equal(t, 6, all[2].Position())

	// Versions keep counting past dropped events
	plan, err := store.ReadEvents(PlanStream, 1)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, 4, plan[0].Version())
	assert.Equal(t, PlanCleared{CoilsReset: 4}, plan[1].Data())

	fromFive, err := store.ReadEvents(PlanStream, 5)
	require.NoError(t, err)
	require.Len(t, fromFive, 1)
	assert.Equal(t, 5, fromFive[0].Version())
}

func TestInMemoryEventStore_Subscribe(t *testing.T) {
	store := NewInMemoryEventStore(zerolog.Nop())
	handler := &recordingHandler{types: []string{PlanClearedEvent}}

	require.NoError(t, store.Subscribe(PlanEventTypes, handler))
	require.NoError(t, store.AppendEvent(PlanStream, NewPlanProposedEvent(PlanProposed{})))
	require.NoError(t, store.AppendEvent(PlanStream, NewPlanClearedEvent(PlanCleared{CoilsReset: 4})))

	// Subscribed to every plan event but only handles the cleared one
	require.Len(t, handler.events, 1)
	assert.Equal(t, PlanCleared{CoilsReset: 4}, handler.events[0].Data())
	assert.Equal(t, 2, handler.events[0].Version())
}

func TestInMemoryEventStore_HandlerErrorIsLogged(t *testing.T) {
	var buf bytes.Buffer
	store := NewInMemoryEventStore(zerolog.New(&buf))
	handler := &recordingHandler{types: []string{PlanProposedEvent}, err: errors.New("boom")}
	require.NoError(t, store.Subscribe([]string{PlanProposedEvent}, handler))

	require.NoError(t, store.AppendEvent(PlanStream, NewPlanProposedEvent(PlanProposed{})))

	assert.Contains(t, buf.String(), "event handler failed")
	assert.Contains(t, buf.String(), "boom")
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	handler := NewLogHandler(zerolog.New(&buf), LinesImportedEvent)

	assert.True(t, handler.CanHandle(LinesImportedEvent))
	assert.False(t, handler.CanHandle(PlanProposedEvent))

	store := NewInMemoryEventStore(zerolog.Nop())
	require.NoError(t, store.Subscribe([]string{LinesImportedEvent}, handler))
	require.NoError(t, store.AppendEvent(InventoryStream, NewImportedEvent(LinesImportedEvent, Imported{Source: "lines.csv", Imported: 2})))

	out := buf.String()
	assert.Contains(t, out, `"event":"lines.imported"`)
	assert.Contains(t, out, `"stream":"inventory"`)
	assert.Contains(t, out, `"version":1`)
	assert.Contains(t, out, `"source":"lines.csv"`)
}
