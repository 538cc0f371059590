// Package condexpr evaluates the boolean condition expressions used by the
// conditional step. Expressions run in a closed environment built from a
// store snapshot (config values first, artifacts on top so an artifact
// shadows a config value of the same name) plus a small set of filesystem
// helper functions.
package condexpr

import (
	"fmt"
	"os"
	"time"

	"github.com/expr-lang/expr"

	"recipeflow/internal/recipectx"
)

// EvalError wraps a condition expression that failed to compile or run.
type EvalError struct {
	Expr  string
	Cause error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("condition %q: %v", e.Expr, e.Cause)
}

func (e *EvalError) Unwrap() error { return e.Cause }

// Evaluate compiles and runs expression against a snapshot of store,
// coercing the result to a boolean. Identifiers that resolve to nothing
// are treated as falsy rather than as a compile error, since recipe
// authors routinely write conditions like `some_flag` against an
// artifact that may not have been set yet.
func Evaluate(expression string, store *recipectx.Store) (bool, error) {
	env := environment(store)

	program, err := expr.Compile(expression, expr.Env(env), expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		// Fall back to a non-bool-constrained compile: the expression may
		// legitimately produce a non-bool value (e.g. a bare string) that
		// we still want to coerce truthily, rather than reject outright.
		program, err = expr.Compile(expression, expr.Env(env), expr.AllowUndefinedVariables())
		if err != nil {
			return false, &EvalError{Expr: expression, Cause: err}
		}
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return false, &EvalError{Expr: expression, Cause: err}
	}

	return truthy(out), nil
}

// environment merges config (base) and artifacts (override) into one
// flat map, then layers in the helper functions available to conditions.
func environment(store *recipectx.Store) map[string]any {
	env := store.ConfigView()
	for k, v := range store.Dict() {
		env[k] = v
	}

	env["file_exists"] = fileExists
	env["all_files_exist"] = allFilesExist
	env["file_is_newer"] = fileIsNewer
	env["and"] = func(a, b any) bool { return truthy(a) && truthy(b) }
	env["or"] = func(a, b any) bool { return truthy(a) || truthy(b) }
	env["not"] = func(a any) bool { return !truthy(a) }

	return env
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func allFilesExist(paths []any) bool {
	for _, p := range paths {
		s, ok := p.(string)
		if !ok || !fileExists(s) {
			return false
		}
	}
	return true
}

// fileIsNewer reports whether a was modified more recently than b. A
// missing file is treated as infinitely old, so a nonexistent b makes any
// existing a "newer" and a nonexistent a is never newer than anything.
func fileIsNewer(a, b string) bool {
	aInfo, aErr := os.Stat(a)
	if aErr != nil {
		return false
	}
	bInfo, bErr := os.Stat(b)
	if bErr != nil {
		return true
	}
	return aInfo.ModTime().After(bInfo.ModTime())
}

// truthy coerces an arbitrary expression result to a boolean: nil, false,
// zero, and empty strings/collections are falsy; the strings "true"/"false"
// map to their boolean regardless of emptiness; everything else is truthy.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		switch t {
		case "true":
			return true
		case "false":
			return false
		default:
			return t != ""
		}
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case time.Duration:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}
