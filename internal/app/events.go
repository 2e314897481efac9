package app

import (
	"github.com/rs/zerolog"

	"github.com/hyperifyio/textcheck/internal/match"
)

// eventLogger forwards classifier stage events to zerolog at debug level.
type eventLogger struct {
	log zerolog.Logger
}

func (e eventLogger) Report(ev match.Event) {
	e.log.Debug().
		Str("stage", ev.Stage).
		Str("level", ev.Level.String()).
		Str("outcome", ev.Outcome.String()).
		Float64("ratio", ev.Ratio).
		Int("words", ev.Words).
		Msg("match stage")
}
