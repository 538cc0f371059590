// Package schema validates artifact documents against JSON Schema
// fragments embedded in a recipe's validate step, via
// github.com/kaptinlin/jsonschema.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonschema"
)

// ValidationError reports one or more schema violations found in a
// single document.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema validation failed: %s", strings.Join(e.Violations, "; "))
}

// Validator checks documents against a single compiled schema.
type Validator struct {
	schema *jsonschema.Schema
}

// Build compiles a schema fragment (already decoded from a step's config,
// e.g. the "schema" key of a validate step) into a Validator.
func Build(fragment map[string]any) (*Validator, error) {
	data, err := json.Marshal(fragment)
	if err != nil {
		return nil, fmt.Errorf("encoding schema fragment: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiled, err := compiler.Compile(data)
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}

	return &Validator{schema: compiled}, nil
}

// Validate checks doc (typically a map[string]any or []any read out of
// the artifact store) against the compiled schema. Returns a
// *ValidationError listing every violation found, or nil if doc conforms.
func (v *Validator) Validate(doc any) error {
	result := v.schema.Validate(doc)
	if result.IsValid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors))
	for loc, verr := range result.Errors {
		violations = append(violations, fmt.Sprintf("%s: %s", loc, verr.Error()))
	}
	return &ValidationError{Violations: violations}
}
