package schema

import "testing"

func personSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string", "minLength": 1},
			"age":  map[string]any{"type": "integer", "minimum": 0},
		},
		"required": []any{"name", "age"},
	}
}

func TestValidateAcceptsConformingDocument(t *testing.T) {
	v, err := Build(personSchema())
	if err != nil {
		t.Fatal(err)
	}
	err = v.Validate(map[string]any{"name": "Ada", "age": 30})
	if err != nil {
		t.Fatalf("expected no violations, got %v", err)
	}
}

func TestValidateRejectsMissingRequiredField(t *testing.T) {
	v, err := Build(personSchema())
	if err != nil {
		t.Fatal(err)
	}
	err = v.Validate(map[string]any{"age": 30})
	if err == nil {
		t.Fatal("expected a validation error for missing 'name'")
	}
}

func TestValidateRejectsWrongType(t *testing.T) {
	v, err := Build(personSchema())
	if err != nil {
		t.Fatal(err)
	}
	err = v.Validate(map[string]any{"name": "Ada", "age": "not a number"})
	if err == nil {
		t.Fatal("expected a validation error for wrong type")
	}
}

func TestBuildRejectsMalformedSchema(t *testing.T) {
	_, err := Build(map[string]any{"type": 12345})
	if err == nil {
		t.Fatal("expected an error for a malformed schema fragment")
	}
}
