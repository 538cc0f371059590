package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"recipeflow/internal/recipe"
	"recipeflow/internal/recipectx"
	"recipeflow/internal/recipeconc"
)

type parallelStep struct {
	substeps       []recipe.StepRecord
	maxConcurrency int
	delay          time.Duration
	logger         *zerolog.Logger
}

func newParallelStep(cfg map[string]any, logger *zerolog.Logger) (recipe.Step, error) {
	raw, err := configStepList(cfg, "substeps")
	if err != nil {
		return nil, err
	}
	substeps, err := recipe.DecodeSteps(raw)
	if err != nil {
		return nil, fmt.Errorf("substeps: %w", err)
	}
	maxConcurrency, err := configInt(cfg, "max_concurrency", 0)
	if err != nil {
		return nil, err
	}
	delaySeconds, err := configFloat(cfg, "delay", 0)
	if err != nil {
		return nil, err
	}

	return &parallelStep{
		substeps:       substeps,
		maxConcurrency: maxConcurrency,
		delay:          time.Duration(delaySeconds * float64(time.Second)),
		logger:         logger,
	}, nil
}

// SubstepError wraps a parallel substep's failure with its position in
// the substeps list.
type SubstepError struct {
	Index int
	Cause error
}

func (e *SubstepError) Error() string {
	return fmt.Sprintf("substep [%d]: %v", e.Index, e.Cause)
}

func (e *SubstepError) Unwrap() error { return e.Cause }

func (s *parallelStep) Execute(ctx context.Context, store *recipectx.Store) error {
	exec := recipe.New(recipe.DefaultRegistry)

	tasks := make([]recipeconc.Task, len(s.substeps))
	for i, record := range s.substeps {
		i, record := i, record
		tasks[i] = func(taskCtx context.Context, _ int) error {
			clone := store.Clone()
			if err := exec.Execute(taskCtx, recipe.FromSteps([]recipe.StepRecord{record}), clone, s.logger); err != nil {
				return &SubstepError{Index: i, Cause: err}
			}
			return nil
		}
	}

	_, err := recipeconc.Run(ctx, tasks, s.maxConcurrency, s.delay, true)
	return err
}
