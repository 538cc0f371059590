package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"recipeflow/internal/recipe"
	"recipeflow/internal/recipectx"
)

// SubRecipeNotFoundError reports that execute_recipe's recipe_path, once
// rendered, does not name an existing file.
type SubRecipeNotFoundError struct {
	Path string
}

func (e *SubRecipeNotFoundError) Error() string {
	return fmt.Sprintf("sub-recipe not found: %s", e.Path)
}

type executeRecipeStep struct {
	recipePath       string
	contextOverrides map[string]any
	logger           *zerolog.Logger
}

func newExecuteRecipeStep(cfg map[string]any, logger *zerolog.Logger) (recipe.Step, error) {
	path, err := configString(cfg, "recipe_path")
	if err != nil {
		return nil, err
	}
	overrides, _ := cfg["context_overrides"].(map[string]any)
	return &executeRecipeStep{recipePath: path, contextOverrides: overrides, logger: logger}, nil
}

func (s *executeRecipeStep) Execute(ctx context.Context, store *recipectx.Store) error {
	path, err := renderString(s.recipePath, store)
	if err != nil {
		return fmt.Errorf("recipe_path: %w", err)
	}

	for k, v := range s.contextOverrides {
		resolved, err := resolveOverride(v, store)
		if err != nil {
			return fmt.Errorf("context_overrides[%s]: %w", k, err)
		}
		store.Set(k, resolved)
	}

	if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
		return &SubRecipeNotFoundError{Path: path}
	}

	exec := recipe.New(recipe.DefaultRegistry)
	return exec.Execute(ctx, path, store, s.logger)
}

// resolveOverride implements core spec §4.6 step 2: a string leaf is
// rendered, then a structured-literal (JSON) parse is attempted on the
// rendered text at the top level only; a list/map leaf recurses into its
// own leaves; any other leaf passes through unchanged.
func resolveOverride(v any, store *recipectx.Store) (any, error) {
	switch t := v.(type) {
	case string:
		rendered, err := renderStringRecursive(t, store)
		if err != nil {
			return nil, err
		}
		var parsed any
		if err := json.Unmarshal([]byte(rendered), &parsed); err == nil {
			switch parsed.(type) {
			case map[string]any, []any:
				return parsed, nil
			}
		}
		return rendered, nil
	case []any, map[string]any:
		return renderLeavesRecursive(t, store)
	default:
		return t, nil
	}
}
