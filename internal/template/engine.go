// Package template renders Liquid-style strings against a context snapshot.
// It wraps github.com/osteele/liquid with the two filters the recipe
// format depends on (snakecase, json) and a recursive render mode that
// honors {% raw %}...{% endraw %} blocks across passes.
package template

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/osteele/liquid"
)

// Engine renders templates against a flat data map.
type Engine struct {
	liquid *liquid.Engine
}

// NewEngine returns an Engine with the snakecase and json filters
// registered.
func NewEngine() *Engine {
	le := liquid.NewEngine()
	le.RegisterFilter("snakecase", snakecase)
	le.RegisterFilter("json", func(v any) string {
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	})
	return &Engine{liquid: le}
}

// RenderError wraps a rendering failure with the offending template text
// and a shallow representation of the data it was rendered against.
type RenderError struct {
	Text  string
	Data  map[string]any
	Cause error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("template render error in %q (data: %s): %v", e.Text, shallow(e.Data), e.Cause)
}

func (e *RenderError) Unwrap() error { return e.Cause }

// Render renders text against data. Missing variables render as empty;
// rendering failures (a malformed expression, an unknown filter) surface
// as *RenderError.
func (e *Engine) Render(text string, data map[string]any) (string, error) {
	if !strings.ContainsAny(text, "{") {
		return text, nil
	}
	bindings := make(map[string]any, len(data))
	for k, v := range data {
		bindings[k] = v
	}
	out, err := e.liquid.ParseAndRenderString(text, bindings)
	if err != nil {
		return "", &RenderError{Text: text, Data: data, Cause: err}
	}
	return out, nil
}

// maxRenderPasses bounds RenderRecursive's fixpoint loop. A self-referential
// artifact (e.g. a value rendering to itself plus more text) would otherwise
// change every pass and never settle; this caps the damage at a fixed depth
// of indirection, matching the upstream recipe tool's own pass limit.
const maxRenderPasses = 25

// RenderRecursive applies Render repeatedly until the output stops
// changing, no longer contains a live Liquid marker outside a
// {% raw %}...{% endraw %} block, or maxRenderPasses is reached. Raw blocks
// are protected across every pass and restored verbatim (without their
// raw/endraw wrapper, per Liquid's own raw-tag semantics) once rendering
// settles.
func (e *Engine) RenderRecursive(text string, data map[string]any) (string, error) {
	protected, raws := extractRawBlocks(text)

	current := protected
	for pass := 0; pass < maxRenderPasses; pass++ {
		rendered, err := e.Render(current, data)
		if err != nil {
			return "", err
		}
		if rendered == current {
			current = rendered
			break
		}
		if !hasLiveMarker(rendered) {
			current = rendered
			break
		}
		current = rendered
	}

	return restoreRawBlocks(current, raws), nil
}

func shallow(data map[string]any) string {
	parts := make([]string, 0, len(data))
	for k, v := range data {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// snakecase converts s to lowercase snake_case: spaces/hyphens become
// underscores, camelCase boundaries are split, the result is lowercased,
// characters outside [a-z0-9_] are dropped, runs of '_' collapse, and
// leading/trailing '_' are stripped.
func snakecase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == ' ' || r == '-':
			b.WriteRune('_')
		case unicode.IsUpper(r):
			if i > 0 {
				prev := runes[i-1]
				if unicode.IsLower(prev) || unicode.IsDigit(prev) {
					b.WriteRune('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}

	filtered := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return -1
	}, b.String())

	for strings.Contains(filtered, "__") {
		filtered = strings.ReplaceAll(filtered, "__", "_")
	}
	return strings.Trim(filtered, "_")
}
