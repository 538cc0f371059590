package recipe

import (
	"encoding/json"
	"fmt"
	"os"
)

// StepRecord is one entry of a Recipe's steps list: a step-type name and
// its opaque, step-specific configuration.
type StepRecord struct {
	Type   string
	Config map[string]any
}

// Recipe is a validated, ordered list of steps plus an optional list of
// environment variable names the recipe requires (opaque to the core;
// consumed by the external config loader).
type Recipe struct {
	Steps   []StepRecord
	EnvVars []string
}

// wireRecipe mirrors the on-disk/on-wire JSON shape before validation.
type wireRecipe struct {
	Steps []struct {
		Type   string         `json:"type"`
		Config map[string]any `json:"config"`
	} `json:"steps"`
	EnvVars []string `json:"env_vars"`
}

// Load normalizes source into a validated Recipe. source may be:
//   - a string that names an existing regular file (read, then parsed as JSON)
//   - a string containing JSON text
//   - an already-decoded map[string]any
func Load(source any) (*Recipe, error) {
	raw, err := decode(source)
	if err != nil {
		return nil, err
	}
	return validate(raw)
}

func decode(source any) (*wireRecipe, error) {
	switch v := source.(type) {
	case string:
		data := []byte(v)
		if info, err := os.Stat(v); err == nil && info.Mode().IsRegular() {
			data, err = os.ReadFile(v)
			if err != nil {
				return nil, &RecipeFormatError{Reason: fmt.Sprintf("reading %s", v), Cause: err}
			}
		}
		var raw wireRecipe
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, &RecipeFormatError{Reason: "parsing JSON", Cause: err}
		}
		return &raw, nil

	case map[string]any:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, &RecipeFormatError{Reason: "re-encoding decoded recipe object", Cause: err}
		}
		var raw wireRecipe
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, &RecipeFormatError{Reason: "normalizing decoded recipe object", Cause: err}
		}
		return &raw, nil

	case *wireRecipe:
		return v, nil

	default:
		return nil, &RecipeFormatError{Reason: fmt.Sprintf("unsupported recipe source type %T", source)}
	}
}

func validate(raw *wireRecipe) (*Recipe, error) {
	out := &Recipe{
		Steps:   make([]StepRecord, 0, len(raw.Steps)),
		EnvVars: raw.EnvVars,
	}
	for i, s := range raw.Steps {
		if s.Type == "" {
			return nil, &RecipeFormatError{Reason: fmt.Sprintf("step [%d] is missing a type", i)}
		}
		cfg := s.Config
		if cfg == nil {
			cfg = map[string]any{}
		}
		out.Steps = append(out.Steps, StepRecord{Type: s.Type, Config: cfg})
	}
	return out, nil
}

// FromSteps builds a Recipe directly from a step list already held in
// memory (e.g. conditional branches, loop/parallel substep lists). Used
// by control-flow steps to hand a transient, in-memory recipe to the
// Executor without a round trip through JSON.
func FromSteps(steps []StepRecord) *Recipe {
	return &Recipe{Steps: steps}
}

// DecodeSteps converts a raw JSON-decoded step list (as found nested in a
// control-flow step's own config, e.g. `if_true.steps` or `substeps`) into
// StepRecords. Each element must be an object with a string "type" and an
// optional object "config".
func DecodeSteps(raw []any) ([]StepRecord, error) {
	out := make([]StepRecord, 0, len(raw))
	for i, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, &RecipeFormatError{Reason: fmt.Sprintf("step [%d] is not an object", i)}
		}
		typeName, _ := m["type"].(string)
		if typeName == "" {
			return nil, &RecipeFormatError{Reason: fmt.Sprintf("step [%d] is missing a type", i)}
		}
		cfg, _ := m["config"].(map[string]any)
		if cfg == nil {
			cfg = map[string]any{}
		}
		out = append(out, StepRecord{Type: typeName, Config: cfg})
	}
	return out, nil
}
