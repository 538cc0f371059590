// Package recipectx holds the shared artifact/config store passed through
// recipe execution. It is named Store rather than Context to avoid
// colliding, in reader's minds as much as in code, with Go's context.Context
// which flows alongside it for cancellation.
package recipectx

import "fmt"

// Store is a pair of string-keyed maps: artifacts (mutable, read/write
// during step execution) and config (populated once at start-up, treated
// as read-only by core steps).
type Store struct {
	artifacts map[string]any
	config    map[string]any
}

// New returns a Store seeded with the given artifacts and config maps.
// Both may be nil. The maps are deep-copied so the caller's originals are
// never aliased by the Store.
func New(artifacts, config map[string]any) *Store {
	return &Store{
		artifacts: deepCopyMap(artifacts),
		config:    deepCopyMap(config),
	}
}

// Get returns the artifact named key and whether it was present.
func (s *Store) Get(key string) (any, bool) {
	v, ok := s.artifacts[key]
	return v, ok
}

// Set assigns value to the artifact named key, overwriting any prior value.
// key must be non-empty; callers that build keys dynamically (loop/parallel
// result keys) are responsible for enforcing that.
func (s *Store) Set(key string, value any) {
	if key == "" {
		panic("recipectx: artifact key must not be empty")
	}
	if s.artifacts == nil {
		s.artifacts = make(map[string]any)
	}
	s.artifacts[key] = value
}

// Has reports whether the artifact named key exists.
func (s *Store) Has(key string) bool {
	_, ok := s.artifacts[key]
	return ok
}

// Remove deletes the artifact named key, if present.
func (s *Store) Remove(key string) {
	delete(s.artifacts, key)
}

// Keys returns a snapshot of the current artifact names. Order is
// unspecified.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.artifacts))
	for k := range s.artifacts {
		keys = append(keys, k)
	}
	return keys
}

// Dict returns a deep-copied snapshot of the artifacts, suitable for handing
// to the template engine or the expression evaluator without risking
// aliasing of nested containers.
func (s *Store) Dict() map[string]any {
	return deepCopyMap(s.artifacts)
}

// ConfigView returns a deep-copied snapshot of the config half of the
// store. Core steps must not write through it; the copy makes that
// unenforceable violation harmless rather than forbidding it outright.
func (s *Store) ConfigView() map[string]any {
	return deepCopyMap(s.config)
}

// Clone returns an independent deep copy of the Store: mutations on the
// clone are never visible on the original, and vice versa. loop and
// parallel steps clone the live store at the boundary of concurrent work
// and discard the clone once their block completes.
func (s *Store) Clone() *Store {
	return &Store{
		artifacts: deepCopyMap(s.artifacts),
		config:    deepCopyMap(s.config),
	}
}

// GetPath resolves a dotted key path (e.g. "a.b.c") against the artifacts,
// walking successive map[string]any lookups. It is used by the loop step to
// resolve an items reference given as a context key path.
func (s *Store) GetPath(path string) (any, bool) {
	return lookupPath(s.artifacts, path)
}

func lookupPath(root map[string]any, path string) (any, bool) {
	cur := any(root)
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '.' {
			if i == start {
				return nil, false
			}
			segment := path[start:i]
			m, ok := cur.(map[string]any)
			if !ok {
				return nil, false
			}
			v, ok := m[segment]
			if !ok {
				return nil, false
			}
			cur = v
			start = i + 1
		}
	}
	return cur, true
}

func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return make(map[string]any)
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return deepCopyMap(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		// Scalars (string, number, bool, nil) are copied by value already.
		// Opaque domain objects (e.g. a file-list artifact struct) are
		// assumed immutable value types and are copied by reference; they
		// are not map/slice containers so there is nothing to alias.
		return x
	}
}

// String implements fmt.Stringer for debug logging.
func (s *Store) String() string {
	return fmt.Sprintf("Store{artifacts=%d keys, config=%d keys}", len(s.artifacts), len(s.config))
}
