package recipe

import (
	"context"
	"encoding/json"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"recipeflow/internal/recipectx"
)

// EventType identifies the kind of ExecutionEvent emitted during a run.
type EventType int

const (
	EventStepStarted EventType = iota
	EventStepCompleted
	EventStepFailed
)

// ExecutionEvent is sent on an Executor's optional progress channel.
// Consumed by the CLI's live progress view; entirely optional, the
// Executor works the same with or without a subscriber.
type ExecutionEvent struct {
	Type     EventType
	Index    int
	StepType string
	Err      error
}

// Executor runs a Recipe's steps sequentially against a live Store. It is
// stateless between invocations and safe to reuse/share.
type Executor struct {
	registry *Registry
	// Events, if non-nil, receives a progress event before and after each
	// step. Sends are non-blocking: a full channel silently drops events
	// rather than stalling execution.
	Events chan<- ExecutionEvent
}

// New returns an Executor dispatching against the given Registry.
func New(registry *Registry) *Executor {
	return &Executor{registry: registry}
}

// Execute normalizes src to a Recipe, then runs its steps in declared
// order against store. The first step error halts execution and is
// returned, wrapped with its step index and type.
func (e *Executor) Execute(ctx context.Context, src any, store *recipectx.Store, logger *zerolog.Logger) error {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	r, ok := src.(*Recipe)
	if !ok {
		var err error
		r, err = Load(src)
		if err != nil {
			return err
		}
	}

	logger.Debug().Str("source_kind", sourceKind(src)).Int("steps", len(r.Steps)).Msg("recipe loaded")

	for i, rec := range r.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		ctor, ok := e.registry.Lookup(rec.Type)
		if !ok {
			err := &UnknownStepTypeError{Index: i, Type: rec.Type}
			e.emit(ExecutionEvent{Type: EventStepFailed, Index: i, StepType: rec.Type, Err: err})
			return err
		}

		logger.Debug().Int("index", i).Str("type", rec.Type).Str("config", summarizeConfig(rec.Config)).Msg("step starting")
		e.emit(ExecutionEvent{Type: EventStepStarted, Index: i, StepType: rec.Type})

		step, err := ctor(rec.Config, logger)
		if err != nil {
			wrapped := &StepInitError{Index: i, Type: rec.Type, Cause: err}
			e.emit(ExecutionEvent{Type: EventStepFailed, Index: i, StepType: rec.Type, Err: wrapped})
			return wrapped
		}

		if err := step.Execute(ctx, store); err != nil {
			wrapped := &StepExecError{Index: i, Type: rec.Type, Cause: err}
			e.emit(ExecutionEvent{Type: EventStepFailed, Index: i, StepType: rec.Type, Err: wrapped})
			return wrapped
		}

		logger.Debug().Int("index", i).Str("type", rec.Type).Msg("step completed")
		e.emit(ExecutionEvent{Type: EventStepCompleted, Index: i, StepType: rec.Type})
	}

	return nil
}

func (e *Executor) emit(ev ExecutionEvent) {
	if e.Events == nil {
		return
	}
	select {
	case e.Events <- ev:
	default:
	}
}

func sourceKind(src any) string {
	switch src.(type) {
	case *Recipe:
		return "recipe"
	case string:
		return "path-or-json"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}

// summarizeConfig renders a small, size-capped JSON summary of a step's
// config for debug logging, so large embedded sub-recipes don't flood logs.
func summarizeConfig(cfg map[string]any) string {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "<unencodable>"
	}
	const limit = 200
	if len(data) > limit {
		return string(truncateValidUTF8(data, limit)) + "..."
	}
	return string(data)
}

// truncateValidUTF8 cuts data to at most limit bytes without splitting a
// multibyte rune, backing off byte-by-byte until the tail decodes cleanly.
func truncateValidUTF8(data []byte, limit int) []byte {
	cut := data[:limit]
	for len(cut) > 0 && !utf8.Valid(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}
