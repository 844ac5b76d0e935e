package events

import (
	"sync"

	"github.com/rs/zerolog"
)

// DefaultRetention is the number of events an InMemoryEventStore keeps
// unless told otherwise
const DefaultRetention = 1000

// InMemoryEventStore keeps the most recent events in memory. Once retention
// is exceeded the oldest event is dropped from both the log and its stream;
// positions and versions keep counting. Subscribers are notified
// synchronously, in subscription order, after the event is stored.
type InMemoryEventStore struct {
	mutex       sync.RWMutex
	retention   int
	log         []Record
	streams     map[string][]Record
	versions    map[string]int
	position    int
	subscribers map[string][]EventHandler
	logger      zerolog.Logger
}

// NewInMemoryEventStore creates a store with DefaultRetention
func NewInMemoryEventStore(logger zerolog.Logger) *InMemoryEventStore {
	return NewBoundedEventStore(logger, DefaultRetention)
}

// NewBoundedEventStore creates a store keeping at most retention events.
// A non-positive retention falls back to DefaultRetention.
func NewBoundedEventStore(logger zerolog.Logger, retention int) *InMemoryEventStore {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &InMemoryEventStore{
		retention:   retention,
		streams:     make(map[string][]Record),
		versions:    make(map[string]int),
		subscribers: make(map[string][]EventHandler),
		logger:      logger,
	}
}

var _ EventStore = (*InMemoryEventStore)(nil)

func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	s.mutex.Lock()

	s.position++
	s.versions[streamID]++
	record := Record{
		Kind:    event.Type(),
		Stream:  streamID,
		Payload: event.Data(),
		At:      event.Timestamp(),
		Seq:     s.versions[streamID],
		Pos:     s.position,
	}

	s.log = append(s.log, record)
	s.streams[streamID] = append(s.streams[streamID], record)
	if len(s.log) > s.retention {
		oldest := s.log[0]
		s.log = s.log[1:]
		s.streams[oldest.Stream] = s.streams[oldest.Stream][1:]
	}
	handlers := append([]EventHandler(nil), s.subscribers[record.Kind]...)

	s.mutex.Unlock()

	s.notify(handlers, record)
	return nil
}

// ReadEvents returns the retained events of a stream from the given version on
func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	records := s.streams[streamID]
	if len(records) == 0 {
		return []Event{}, nil
	}
	start := fromVersion - records[0].Seq
	return toEvents(records, start), nil
}

// ReadAllEvents returns the retained events from the given log position on
func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if len(s.log) == 0 {
		return []Event{}, nil
	}
	start := fromPosition - s.log[0].Pos
	return toEvents(s.log, start), nil
}

// LastPosition returns the position of the newest event, 0 when none was
// ever appended
func (s *InMemoryEventStore) LastPosition() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.position
}

func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}

	return nil
}

func (s *InMemoryEventStore) notify(handlers []EventHandler, event Event) {
	for _, handler := range handlers {
		if !handler.CanHandle(event.Type()) {
			continue
		}
		if err := handler.Handle(event); err != nil {
			s.logger.Error().Err(err).Str("event", event.Type()).Msg("event handler failed")
		}
	}
}

func toEvents(records []Record, start int) []Event {
	if start < 0 {
		start = 0
	}
	if start >= len(records) {
		return []Event{}
	}
	events := make([]Event, 0, len(records)-start)
	for _, record := range records[start:] {
		events = append(events, record)
	}
	return events
}
