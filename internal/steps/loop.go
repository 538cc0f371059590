package steps

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"recipeflow/internal/recipe"
	"recipeflow/internal/recipectx"
	"recipeflow/internal/recipeconc"
)

// LoopItemsError reports that a loop step's items field did not resolve
// to a list or a map.
type LoopItemsError struct {
	Items any
}

func (e *LoopItemsError) Error() string {
	return fmt.Sprintf("loop items must resolve to a list or a map, got %T", e.Items)
}

type loopStep struct {
	items          any
	itemsPath      string
	itemKey        string
	substeps       []recipe.StepRecord
	resultKey      string
	maxConcurrency int
	delay          time.Duration
	failFast       bool
	logger         *zerolog.Logger
}

func newLoopStep(cfg map[string]any, logger *zerolog.Logger) (recipe.Step, error) {
	itemKey, err := configString(cfg, "item_key")
	if err != nil {
		return nil, err
	}
	resultKey, err := configString(cfg, "result_key")
	if err != nil {
		return nil, err
	}
	rawSteps, err := configStepList(cfg, "substeps")
	if err != nil {
		return nil, err
	}
	substeps, err := recipe.DecodeSteps(rawSteps)
	if err != nil {
		return nil, fmt.Errorf("substeps: %w", err)
	}
	maxConcurrency, err := configInt(cfg, "max_concurrency", 1)
	if err != nil {
		return nil, err
	}
	delaySeconds, err := configFloat(cfg, "delay", 0)
	if err != nil {
		return nil, err
	}
	failFast, err := configBool(cfg, "fail_fast", true)
	if err != nil {
		return nil, err
	}

	s := &loopStep{
		itemKey:        itemKey,
		substeps:       substeps,
		resultKey:      resultKey,
		maxConcurrency: maxConcurrency,
		delay:          time.Duration(delaySeconds * float64(time.Second)),
		failFast:       failFast,
		logger:         logger,
	}

	if path, ok := cfg["items"].(string); ok {
		s.itemsPath = path
	} else {
		s.items = cfg["items"]
	}

	return s, nil
}

type loopEntry struct {
	key   string
	value any
	isInt bool
}

func (s *loopStep) resolveItems(store *recipectx.Store) ([]loopEntry, bool, error) {
	items := s.items
	if s.itemsPath != "" {
		resolved, ok := store.GetPath(s.itemsPath)
		if !ok {
			return nil, false, &LoopItemsError{Items: nil}
		}
		items = resolved
	}

	switch v := items.(type) {
	case []any:
		entries := make([]loopEntry, len(v))
		for i, item := range v {
			entries[i] = loopEntry{key: strconv.Itoa(i), value: item, isInt: true}
		}
		return entries, true, nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		entries := make([]loopEntry, len(keys))
		for i, k := range keys {
			entries[i] = loopEntry{key: k, value: v[k]}
		}
		return entries, false, nil
	default:
		return nil, false, &LoopItemsError{Items: items}
	}
}

func (s *loopStep) Execute(ctx context.Context, store *recipectx.Store) error {
	entries, isList, err := s.resolveItems(store)
	if err != nil {
		return err
	}

	clones := make([]*recipectx.Store, len(entries))
	exec := recipe.New(recipe.DefaultRegistry)

	var errsMu sync.Mutex
	errs := map[string]string{}

	tasks := make([]recipeconc.Task, len(entries))
	for i, entry := range entries {
		i, entry := i, entry
		tasks[i] = func(taskCtx context.Context, _ int) error {
			clone := store.Clone()
			clone.Set(s.itemKey, entry.value)
			if entry.isInt {
				idx, _ := strconv.Atoi(entry.key)
				clone.Set("__key", idx)
			} else {
				clone.Set("__key", entry.key)
			}
			clones[i] = clone

			if runErr := exec.Execute(taskCtx, recipe.FromSteps(s.substeps), clone, s.logger); runErr != nil {
				if !s.failFast {
					errsMu.Lock()
					errs[entry.key] = runErr.Error()
					errsMu.Unlock()
				}
				return runErr
			}
			return nil
		}
	}

	_, err = recipeconc.Run(ctx, tasks, s.maxConcurrency, s.delay, s.failFast)
	if s.failFast && err != nil {
		return err
	}

	if isList {
		results := make([]any, len(entries))
		for i, entry := range entries {
			if _, failed := errs[entry.key]; failed {
				continue
			}
			if clones[i] == nil {
				continue
			}
			v, _ := clones[i].Get(s.itemKey)
			results[i] = v
		}
		store.Set(s.resultKey, results)
	} else {
		results := make(map[string]any, len(entries))
		for i, entry := range entries {
			if _, failed := errs[entry.key]; failed {
				continue
			}
			if clones[i] == nil {
				continue
			}
			v, _ := clones[i].Get(s.itemKey)
			results[entry.key] = v
		}
		store.Set(s.resultKey, results)
	}

	if len(errs) > 0 {
		store.Set("__errors", toAnyMap(errs))
	}

	return nil
}

func toAnyMap(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
