package steps

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"recipeflow/internal/recipectx"
)

func TestSequentialReadSetWrite(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(inPath, []byte("world"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := recipectx.New(nil, nil)

	readStep := buildStep(t, "read_files", map[string]any{"path": inPath, "content_key": "x"})
	if err := readStep.Execute(context.Background(), store); err != nil {
		t.Fatal(err)
	}
	x, _ := store.Get("x")
	if x != "world" {
		t.Fatalf("got %v", x)
	}

	setStep := buildStep(t, "set_context", map[string]any{"key": "y", "value": "hi {{x}}"})
	if err := setStep.Execute(context.Background(), store); err != nil {
		t.Fatal(err)
	}

	writeStep := buildStep(t, "write_files", map[string]any{
		"root":  dir,
		"files": []any{map[string]any{"path": "out.txt", "content_key": "y"}},
	})
	if err := writeStep.Execute(context.Background(), store); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hi world" {
		t.Fatalf("got %q", data)
	}
}

func TestWriteFilesSerializesNonStringContentAsJSON(t *testing.T) {
	dir := t.TempDir()
	store := recipectx.New(map[string]any{"doc": map[string]any{"a": 1}}, nil)

	step := buildStep(t, "write_files", map[string]any{
		"root":  dir,
		"files": []any{map[string]any{"path": "doc.json", "content_key": "doc"}},
	})
	if err := step.Execute(context.Background(), store); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "doc.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{\n  \"a\": 1\n}" {
		t.Fatalf("got %q", data)
	}
}

func TestLogStepRenders(t *testing.T) {
	store := recipectx.New(map[string]any{"name": "Ada"}, nil)
	step := buildStep(t, "log", map[string]any{"message": "hello {{name}}", "level": "info"})
	if err := step.Execute(context.Background(), store); err != nil {
		t.Fatal(err)
	}
}

func TestValidateStepAcceptsConformingArtifact(t *testing.T) {
	store := recipectx.New(map[string]any{"doc": map[string]any{"name": "Ada", "age": 30}}, nil)
	step := buildStep(t, "validate", map[string]any{
		"artifact_key": "doc",
		"schema": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name": map[string]any{"type": "string"},
				"age":  map[string]any{"type": "integer"},
			},
			"required": []any{"name", "age"},
		},
	})
	if err := step.Execute(context.Background(), store); err != nil {
		t.Fatal(err)
	}
}

func TestValidateStepRejectsNonConformingArtifact(t *testing.T) {
	store := recipectx.New(map[string]any{"doc": map[string]any{"age": 30}}, nil)
	step := buildStep(t, "validate", map[string]any{
		"artifact_key": "doc",
		"schema": map[string]any{
			"type":     "object",
			"required": []any{"name"},
		},
	})
	if err := step.Execute(context.Background(), store); err == nil {
		t.Fatal("expected a validation error for a missing required field")
	}
}
