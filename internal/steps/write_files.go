package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"recipeflow/internal/recipe"
	"recipeflow/internal/recipectx"
)

type fileWriteSpec struct {
	path       string
	contentKey string
}

type writeFilesStep struct {
	files []fileWriteSpec
	root  string
}

func newWriteFilesStep(cfg map[string]any, logger *zerolog.Logger) (recipe.Step, error) {
	root, _ := cfg["root"].(string)
	if root == "" {
		root = "."
	}

	rawFiles, ok := cfg["files"].([]any)
	if !ok {
		return nil, fmt.Errorf("field %q must be a list, got %T", "files", cfg["files"])
	}

	files := make([]fileWriteSpec, 0, len(rawFiles))
	for i, rf := range rawFiles {
		m, ok := rf.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("files[%d] must be an object", i)
		}
		path, err := configString(m, "path")
		if err != nil {
			return nil, fmt.Errorf("files[%d]: %w", i, err)
		}
		contentKey, err := configString(m, "content_key")
		if err != nil {
			return nil, fmt.Errorf("files[%d]: %w", i, err)
		}
		files = append(files, fileWriteSpec{path: path, contentKey: contentKey})
	}

	return &writeFilesStep{files: files, root: root}, nil
}

func (s *writeFilesStep) Execute(ctx context.Context, store *recipectx.Store) error {
	root, err := renderString(s.root, store)
	if err != nil {
		return fmt.Errorf("root: %w", err)
	}

	for i, f := range s.files {
		path, err := renderString(f.path, store)
		if err != nil {
			return fmt.Errorf("files[%d].path: %w", i, err)
		}

		content, ok := store.Get(f.contentKey)
		if !ok {
			return fmt.Errorf("files[%d]: no artifact named %q", i, f.contentKey)
		}

		var data []byte
		if s, ok := content.(string); ok {
			data = []byte(s)
		} else {
			data, err = json.MarshalIndent(content, "", "  ")
			if err != nil {
				return fmt.Errorf("files[%d]: encoding %q: %w", i, f.contentKey, err)
			}
		}

		fullPath := filepath.Join(root, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			return fmt.Errorf("files[%d]: creating directory for %s: %w", i, fullPath, err)
		}
		if err := os.WriteFile(fullPath, data, 0o644); err != nil {
			return fmt.Errorf("files[%d]: writing %s: %w", i, fullPath, err)
		}
	}

	return nil
}
