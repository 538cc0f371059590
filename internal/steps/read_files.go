package steps

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"recipeflow/internal/recipe"
	"recipeflow/internal/recipectx"
)

type readFilesStep struct {
	path       string
	contentKey string
}

func newReadFilesStep(cfg map[string]any, logger *zerolog.Logger) (recipe.Step, error) {
	path, err := configString(cfg, "path")
	if err != nil {
		return nil, err
	}
	contentKey, err := configString(cfg, "content_key")
	if err != nil {
		return nil, err
	}
	return &readFilesStep{path: path, contentKey: contentKey}, nil
}

func (s *readFilesStep) Execute(ctx context.Context, store *recipectx.Store) error {
	path, err := renderString(s.path, store)
	if err != nil {
		return fmt.Errorf("path: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	store.Set(s.contentKey, string(data))
	return nil
}
