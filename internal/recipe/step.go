package recipe

import (
	"context"

	"github.com/rs/zerolog"

	"recipeflow/internal/recipectx"
)

// Step is the contract every step type implements. Instances are
// single-use: constructed just before Execute, discarded after.
type Step interface {
	Execute(ctx context.Context, store *recipectx.Store) error
}

// Constructor builds a Step from a step's raw config map and a logger
// captured at construction time. It must validate config and fail fast
// with a clear error naming the offending field.
type Constructor func(config map[string]any, logger *zerolog.Logger) (Step, error)
