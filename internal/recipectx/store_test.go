package recipectx

import "testing"

func TestCloneIsolation(t *testing.T) {
	orig := New(map[string]any{
		"list": []any{1, 2},
		"nested": map[string]any{
			"a": 1,
		},
	}, nil)

	clone := orig.Clone()
	clone.Set("list", "mutated")
	nested, _ := clone.Get("nested")
	nested.(map[string]any)["a"] = 999

	origList, _ := orig.Get("list")
	if _, ok := origList.([]any); !ok {
		t.Fatalf("original list mutated via clone: %v", origList)
	}
	origNested, _ := orig.Get("nested")
	if origNested.(map[string]any)["a"] != 1 {
		t.Fatalf("original nested map mutated via clone: %v", origNested)
	}
}

func TestDictIsDeepCopy(t *testing.T) {
	s := New(map[string]any{"nested": map[string]any{"a": 1}}, nil)
	d := s.Dict()
	d["nested"].(map[string]any)["a"] = 42

	v, _ := s.Get("nested")
	if v.(map[string]any)["a"] != 1 {
		t.Fatalf("Dict() aliased the live artifact map: %v", v)
	}
}

func TestGetSetHasRemove(t *testing.T) {
	s := New(nil, nil)
	if s.Has("x") {
		t.Fatal("expected fresh store to not have x")
	}
	s.Set("x", "y")
	if !s.Has("x") {
		t.Fatal("expected store to have x after Set")
	}
	v, ok := s.Get("x")
	if !ok || v != "y" {
		t.Fatalf("Get(x) = %v, %v; want y, true", v, ok)
	}
	s.Remove("x")
	if s.Has("x") {
		t.Fatal("expected x removed")
	}
}

func TestGetPath(t *testing.T) {
	s := New(map[string]any{
		"a": map[string]any{
			"b": map[string]any{
				"c": []any{1, 2, 3},
			},
		},
	}, nil)

	v, ok := s.GetPath("a.b.c")
	if !ok {
		t.Fatal("expected a.b.c to resolve")
	}
	if list, ok := v.([]any); !ok || len(list) != 3 {
		t.Fatalf("unexpected value at a.b.c: %v", v)
	}

	if _, ok := s.GetPath("a.missing.c"); ok {
		t.Fatal("expected missing path to fail resolution")
	}
}

func TestConfigViewIsReadOnlyCopy(t *testing.T) {
	s := New(nil, map[string]any{"k": "v"})
	view := s.ConfigView()
	view["k"] = "mutated"

	view2 := s.ConfigView()
	if view2["k"] != "v" {
		t.Fatalf("ConfigView mutation leaked into store config: %v", view2["k"])
	}
}
