package steps

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"recipeflow/internal/recipe"
	"recipeflow/internal/recipectx"
	"recipeflow/internal/schema"
)

type validateStep struct {
	validator   *schema.Validator
	artifactKey string
}

func newValidateStep(cfg map[string]any, logger *zerolog.Logger) (recipe.Step, error) {
	fragment, ok := cfg["schema"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("field %q must be an object, got %T", "schema", cfg["schema"])
	}
	artifactKey, err := configString(cfg, "artifact_key")
	if err != nil {
		return nil, err
	}

	validator, err := schema.Build(fragment)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}

	return &validateStep{validator: validator, artifactKey: artifactKey}, nil
}

func (s *validateStep) Execute(ctx context.Context, store *recipectx.Store) error {
	doc, ok := store.Get(s.artifactKey)
	if !ok {
		return fmt.Errorf("no artifact named %q", s.artifactKey)
	}
	if err := s.validator.Validate(doc); err != nil {
		return fmt.Errorf("%s: %w", s.artifactKey, err)
	}
	return nil
}
