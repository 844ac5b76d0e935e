package events

import (
	"github.com/rs/zerolog"
)

// LogHandler writes every event it receives to a zerolog logger
type LogHandler struct {
	logger zerolog.Logger
	types  map[string]bool
}

func NewLogHandler(logger zerolog.Logger, eventTypes ...string) *LogHandler {
	types := make(map[string]bool, len(eventTypes))
	for _, t := range eventTypes {
		types[t] = true
	}
	return &LogHandler{logger: logger, types: types}
}

func (h *LogHandler) CanHandle(eventType string) bool {
	return h.types[eventType]
}

func (h *LogHandler) Handle(event Event) error {
	h.logger.Info().
		Str("event", event.Type()).
		Str("stream", event.StreamID()).
		Int("version", event.Version()).
		Interface("data", event.Data()).
		Msg("event")
	return nil
}
