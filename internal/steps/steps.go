// Package steps implements every concrete step type a recipe can
// reference: the five control-flow steps (execute_recipe, conditional,
// loop, parallel, set_context) and a small set of leaf I/O steps
// (read_files, write_files, log, validate). init registers all of them
// against recipe.DefaultRegistry.
package steps

import (
	"fmt"

	"recipeflow/internal/recipe"
	"recipeflow/internal/recipectx"
	"recipeflow/internal/template"
)

var engine = template.NewEngine()

func init() {
	must(recipe.DefaultRegistry.Register("execute_recipe", newExecuteRecipeStep))
	must(recipe.DefaultRegistry.Register("conditional", newConditionalStep))
	must(recipe.DefaultRegistry.Register("loop", newLoopStep))
	must(recipe.DefaultRegistry.Register("parallel", newParallelStep))
	must(recipe.DefaultRegistry.Register("set_context", newSetContextStep))
	must(recipe.DefaultRegistry.Register("read_files", newReadFilesStep))
	must(recipe.DefaultRegistry.Register("write_files", newWriteFilesStep))
	must(recipe.DefaultRegistry.Register("log", newLogStep))
	must(recipe.DefaultRegistry.Register("validate", newValidateStep))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// templateData builds the flat rendering environment shared by the
// Template Engine and the condition evaluator: config values as the
// base layer, artifacts layered on top so an artifact shadows a config
// value of the same name (Open Question #1).
func templateData(store *recipectx.Store) map[string]any {
	data := store.ConfigView()
	for k, v := range store.Dict() {
		data[k] = v
	}
	return data
}

// renderString is the common "render a templated string field" path
// every step's config uses.
func renderString(text string, store *recipectx.Store) (string, error) {
	return engine.Render(text, templateData(store))
}

// renderStringRecursive is renderString's nested-render counterpart.
func renderStringRecursive(text string, store *recipectx.Store) (string, error) {
	return engine.RenderRecursive(text, templateData(store))
}

// renderLeavesRecursive walks an arbitrary JSON-shaped value (string,
// list, map, or opaque scalar), rendering every string leaf and leaving
// everything else untouched. Used by set_context and execute_recipe's
// context_overrides.
func renderLeavesRecursive(value any, store *recipectx.Store) (any, error) {
	switch v := value.(type) {
	case string:
		return renderStringRecursive(v, store)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			rendered, err := renderLeavesRecursive(item, store)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = rendered
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			rendered, err := renderLeavesRecursive(item, store)
			if err != nil {
				return nil, fmt.Errorf("[%s]: %w", k, err)
			}
			out[k] = rendered
		}
		return out, nil
	default:
		return v, nil
	}
}

// configString reads a required string field from a step's raw config.
func configString(cfg map[string]any, key string) (string, error) {
	v, ok := cfg[key]
	if !ok {
		return "", fmt.Errorf("missing required field %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q must be a string, got %T", key, v)
	}
	return s, nil
}

// configStepList reads an optional nested step list (e.g. if_true.steps,
// substeps) from a step's raw config.
func configStepList(cfg map[string]any, key string) ([]any, error) {
	v, ok := cfg[key]
	if !ok {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("field %q must be a list, got %T", key, v)
	}
	return list, nil
}

func configInt(cfg map[string]any, key string, def int) (int, error) {
	v, ok := cfg[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, fmt.Errorf("field %q must be a number, got %T", key, v)
	}
}

func configFloat(cfg map[string]any, key string, def float64) (float64, error) {
	v, ok := cfg[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("field %q must be a number, got %T", key, v)
	}
}

func configBool(cfg map[string]any, key string, def bool) (bool, error) {
	v, ok := cfg[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("field %q must be a boolean, got %T", key, v)
	}
	return b, nil
}
