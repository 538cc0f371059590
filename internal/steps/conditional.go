package steps

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"recipeflow/internal/condexpr"
	"recipeflow/internal/recipe"
	"recipeflow/internal/recipectx"
)

type conditionalStep struct {
	condition any
	ifTrue    []recipe.StepRecord
	ifFalse   []recipe.StepRecord
	logger    *zerolog.Logger
}

func newConditionalStep(cfg map[string]any, logger *zerolog.Logger) (recipe.Step, error) {
	s := &conditionalStep{condition: cfg["condition"], logger: logger}

	if branch, ok := cfg["if_true"].(map[string]any); ok {
		raw, err := configStepList(branch, "steps")
		if err != nil {
			return nil, fmt.Errorf("if_true: %w", err)
		}
		steps, err := recipe.DecodeSteps(raw)
		if err != nil {
			return nil, fmt.Errorf("if_true: %w", err)
		}
		s.ifTrue = steps
	}

	if branch, ok := cfg["if_false"].(map[string]any); ok {
		raw, err := configStepList(branch, "steps")
		if err != nil {
			return nil, fmt.Errorf("if_false: %w", err)
		}
		steps, err := recipe.DecodeSteps(raw)
		if err != nil {
			return nil, fmt.Errorf("if_false: %w", err)
		}
		s.ifFalse = steps
	}

	return s, nil
}

func (s *conditionalStep) Execute(ctx context.Context, store *recipectx.Store) error {
	result, err := s.evaluate(store)
	if err != nil {
		return err
	}

	branch := s.ifFalse
	if result {
		branch = s.ifTrue
	}
	if len(branch) == 0 {
		return nil
	}

	exec := recipe.New(recipe.DefaultRegistry)
	return exec.Execute(ctx, recipe.FromSteps(branch), store, s.logger)
}

func (s *conditionalStep) evaluate(store *recipectx.Store) (bool, error) {
	if b, ok := s.condition.(bool); ok {
		return b, nil
	}

	text, ok := s.condition.(string)
	if !ok {
		return false, fmt.Errorf("condition must be a boolean or a string, got %T", s.condition)
	}

	rendered, err := renderString(text, store)
	if err != nil {
		return false, fmt.Errorf("condition: %w", err)
	}

	return condexpr.Evaluate(rendered, store)
}
