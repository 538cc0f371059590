package steps

import (
	"context"
	"testing"

	"recipeflow/internal/recipectx"
)

func TestConditionalBranchSelection(t *testing.T) {
	store := recipectx.New(map[string]any{"n": 3}, nil)
	step := buildStep(t, "conditional", map[string]any{
		"condition": "{{n}} > 0",
		"if_true": map[string]any{
			"steps": []any{
				map[string]any{"type": "set_context", "config": map[string]any{"key": "sign", "value": "pos"}},
			},
		},
		"if_false": map[string]any{
			"steps": []any{
				map[string]any{"type": "set_context", "config": map[string]any{"key": "sign", "value": "neg"}},
			},
		},
	})

	if err := step.Execute(context.Background(), store); err != nil {
		t.Fatal(err)
	}
	v, _ := store.Get("sign")
	if v != "pos" {
		t.Fatalf("got %v, want pos", v)
	}
}

func TestConditionalMissingBranchIsNoop(t *testing.T) {
	store := recipectx.New(map[string]any{"n": -1}, nil)
	step := buildStep(t, "conditional", map[string]any{
		"condition": "{{n}} > 0",
		"if_true": map[string]any{
			"steps": []any{
				map[string]any{"type": "set_context", "config": map[string]any{"key": "sign", "value": "pos"}},
			},
		},
	})

	if err := step.Execute(context.Background(), store); err != nil {
		t.Fatal(err)
	}
	if store.Has("sign") {
		t.Fatal("expected no-op when the false branch is absent")
	}
}

func TestConditionalBooleanLiteral(t *testing.T) {
	store := recipectx.New(nil, nil)
	step := buildStep(t, "conditional", map[string]any{
		"condition": true,
		"if_true": map[string]any{
			"steps": []any{
				map[string]any{"type": "set_context", "config": map[string]any{"key": "ran", "value": "yes"}},
			},
		},
	})
	if err := step.Execute(context.Background(), store); err != nil {
		t.Fatal(err)
	}
	v, _ := store.Get("ran")
	if v != "yes" {
		t.Fatalf("got %v", v)
	}
}
