package steps

import (
	"context"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"recipeflow/internal/recipectx"
)

func buildStep(t *testing.T, stepType string, cfg map[string]any) interface {
	Execute(ctx context.Context, store *recipectx.Store) error
} {
	t.Helper()
	ctor, ok := testRegistryLookup(stepType)
	if !ok {
		t.Fatalf("step type %q not registered", stepType)
	}
	nop := zerolog.Nop()
	step, err := ctor(cfg, &nop)
	if err != nil {
		t.Fatalf("constructing %s: %v", stepType, err)
	}
	return step
}

func TestSetContextOverwrite(t *testing.T) {
	store := recipectx.New(map[string]any{"x": "world"}, nil)
	step := buildStep(t, "set_context", map[string]any{"key": "y", "value": "hi {{x}}"})
	if err := step.Execute(context.Background(), store); err != nil {
		t.Fatal(err)
	}
	v, _ := store.Get("y")
	if v != "hi world" {
		t.Fatalf("got %v", v)
	}
}

func TestSetContextMergeStrings(t *testing.T) {
	store := recipectx.New(map[string]any{"s": "foo"}, nil)
	step := buildStep(t, "set_context", map[string]any{"key": "s", "value": "bar", "if_exists": "merge"})
	if err := step.Execute(context.Background(), store); err != nil {
		t.Fatal(err)
	}
	v, _ := store.Get("s")
	if v != "foobar" {
		t.Fatalf("got %v", v)
	}
}

func TestSetContextMergeLists(t *testing.T) {
	store := recipectx.New(map[string]any{"items": []any{1, 2}}, nil)
	step := buildStep(t, "set_context", map[string]any{"key": "items", "value": []any{3}, "if_exists": "merge"})
	if err := step.Execute(context.Background(), store); err != nil {
		t.Fatal(err)
	}
	v, _ := store.Get("items")
	if !reflect.DeepEqual(v, []any{1, 2, 3}) {
		t.Fatalf("got %v", v)
	}
}

func TestSetContextMergeMaps(t *testing.T) {
	store := recipectx.New(map[string]any{"m": map[string]any{"a": 1}}, nil)
	step := buildStep(t, "set_context", map[string]any{
		"key": "m", "value": map[string]any{"a": 2, "b": 3}, "if_exists": "merge",
	})
	if err := step.Execute(context.Background(), store); err != nil {
		t.Fatal(err)
	}
	v, _ := store.Get("m")
	if !reflect.DeepEqual(v, map[string]any{"a": 2, "b": 3}) {
		t.Fatalf("got %v", v)
	}
}

func TestSetContextMergeTypeMismatchProducesPair(t *testing.T) {
	store := recipectx.New(map[string]any{"s": "not a list"}, nil)
	step := buildStep(t, "set_context", map[string]any{"key": "s", "value": []any{1, 2}, "if_exists": "merge"})
	if err := step.Execute(context.Background(), store); err != nil {
		t.Fatal(err)
	}
	v, _ := store.Get("s")
	if !reflect.DeepEqual(v, []any{"not a list", []any{1, 2}}) {
		t.Fatalf("got %v", v)
	}
}

func TestSetContextNestedRender(t *testing.T) {
	store := recipectx.New(map[string]any{"x": "{{y}}", "y": "Z"}, nil)
	step := buildStep(t, "set_context", map[string]any{
		"key": "out", "value": "{% raw %}{{y}}{% endraw %} {{x}}", "nested_render": true,
	})
	if err := step.Execute(context.Background(), store); err != nil {
		t.Fatal(err)
	}
	v, _ := store.Get("out")
	if v != "{{y}} Z" {
		t.Fatalf("got %q", v)
	}
}
