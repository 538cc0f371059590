package steps

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"recipeflow/internal/recipectx"
)

func TestExecuteRecipeSharesLiveStore(t *testing.T) {
	dir := t.TempDir()
	subPath := filepath.Join(dir, "sub.json")
	sub := `{"steps":[{"type":"set_context","config":{"key":"greeting","value":"hi {{name}}"}}]}`
	if err := os.WriteFile(subPath, []byte(sub), 0o644); err != nil {
		t.Fatal(err)
	}

	store := recipectx.New(map[string]any{"name": "Ada"}, nil)
	step := buildStep(t, "execute_recipe", map[string]any{"recipe_path": subPath})

	if err := step.Execute(context.Background(), store); err != nil {
		t.Fatal(err)
	}
	v, _ := store.Get("greeting")
	if v != "hi Ada" {
		t.Fatalf("got %v", v)
	}
}

func TestExecuteRecipeContextOverrides(t *testing.T) {
	dir := t.TempDir()
	subPath := filepath.Join(dir, "sub.json")
	sub := `{"steps":[]}`
	if err := os.WriteFile(subPath, []byte(sub), 0o644); err != nil {
		t.Fatal(err)
	}

	store := recipectx.New(nil, nil)
	step := buildStep(t, "execute_recipe", map[string]any{
		"recipe_path": subPath,
		"context_overrides": map[string]any{
			"plain":      "hello",
			"structured": `{"a": 1, "b": [1,2,3]}`,
		},
	})

	if err := step.Execute(context.Background(), store); err != nil {
		t.Fatal(err)
	}
	v, _ := store.Get("plain")
	if v != "hello" {
		t.Fatalf("got %v", v)
	}
	structured, ok := store.Get("structured")
	if !ok {
		t.Fatal("expected structured override to be set")
	}
	m, ok := structured.(map[string]any)
	if !ok {
		t.Fatalf("expected structured override to parse as a map, got %T", structured)
	}
	if m["a"].(float64) != 1 {
		t.Fatalf("got %v", m)
	}
}

func TestExecuteRecipeMissingPathErrors(t *testing.T) {
	store := recipectx.New(nil, nil)
	step := buildStep(t, "execute_recipe", map[string]any{"recipe_path": "/no/such/file.json"})
	if err := step.Execute(context.Background(), store); err == nil {
		t.Fatal("expected an error for a missing sub-recipe")
	}
}
