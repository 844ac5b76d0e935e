package events

import (
	"time"
)

// Event is one entry of the planning event log
type Event interface {
	Type() string
	StreamID() string
	Data() interface{}
	Timestamp() time.Time
	Version() int
	Position() int
}

// EventHandler reacts to events as they are appended
type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

// EventStore appends planning events and reads them back by stream or by
// log position
type EventStore interface {
	AppendEvent(streamID string, event Event) error
	ReadEvents(streamID string, fromVersion int) ([]Event, error)
	ReadAllEvents(fromPosition int) ([]Event, error)
	Subscribe(eventTypes []string, handler EventHandler) error
}

// Record is the stored form of an event. Position counts every record the
// store has accepted, from 1; Version counts records within one stream.
type Record struct {
	Kind    string      `json:"type"`
	Stream  string      `json:"stream"`
	Payload interface{} `json:"data"`
	At      time.Time   `json:"time"`
	Seq     int         `json:"version"`
	Pos     int         `json:"position"`
}

func (r Record) Type() string         { return r.Kind }
func (r Record) StreamID() string     { return r.Stream }
func (r Record) Data() interface{}    { return r.Payload }
func (r Record) Timestamp() time.Time { return r.At }
func (r Record) Version() int         { return r.Seq }
func (r Record) Position() int        { return r.Pos }

// NewEvent creates an unsaved event; the store assigns version and position
func NewEvent(eventType, streamID string, data interface{}) Event {
	return Record{
		Kind:    eventType,
		Stream:  streamID,
		Payload: data,
		At:      time.Now().UTC(),
	}
}
