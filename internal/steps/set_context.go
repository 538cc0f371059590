package steps

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"recipeflow/internal/recipe"
	"recipeflow/internal/recipectx"
)

type setContextStep struct {
	key          string
	value        any
	nestedRender bool
	ifExists     string
}

func newSetContextStep(cfg map[string]any, logger *zerolog.Logger) (recipe.Step, error) {
	key, err := configString(cfg, "key")
	if err != nil {
		return nil, err
	}
	nested, err := configBool(cfg, "nested_render", false)
	if err != nil {
		return nil, err
	}
	mode, ok := cfg["if_exists"].(string)
	if !ok || mode == "" {
		mode = "overwrite"
	}
	if mode != "overwrite" && mode != "merge" {
		return nil, fmt.Errorf("if_exists must be %q or %q, got %q", "overwrite", "merge", mode)
	}

	return &setContextStep{key: key, value: cfg["value"], nestedRender: nested, ifExists: mode}, nil
}

func (s *setContextStep) Execute(ctx context.Context, store *recipectx.Store) error {
	rendered, err := s.render(store)
	if err != nil {
		return fmt.Errorf("value: %w", err)
	}

	if s.ifExists == "overwrite" {
		store.Set(s.key, rendered)
		return nil
	}

	old, exists := store.Get(s.key)
	if !exists {
		store.Set(s.key, rendered)
		return nil
	}
	store.Set(s.key, mergeValues(old, rendered))
	return nil
}

func (s *setContextStep) render(store *recipectx.Store) (any, error) {
	switch v := s.value.(type) {
	case string:
		if s.nestedRender {
			return renderStringRecursive(v, store)
		}
		return renderString(v, store)
	case []any, map[string]any:
		return renderLeavesRecursive(v, store)
	default:
		return v, nil
	}
}

// mergeValues implements core spec §4.10's type-aware shallow merge:
// string+string concatenates, list+list (or list+item) appends, map+map
// merges shallowly with new keys overriding, and any other type pairing
// produces the 2-element pair [old, new].
func mergeValues(old, new any) any {
	switch o := old.(type) {
	case string:
		if n, ok := new.(string); ok {
			return o + n
		}
	case []any:
		if n, ok := new.([]any); ok {
			return append(append([]any{}, o...), n...)
		}
		return append(append([]any{}, o...), new)
	case map[string]any:
		if n, ok := new.(map[string]any); ok {
			merged := make(map[string]any, len(o)+len(n))
			for k, v := range o {
				merged[k] = v
			}
			for k, v := range n {
				merged[k] = v
			}
			return merged
		}
	}
	return []any{old, new}
}
