package steps

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"recipeflow/internal/recipe"
	"recipeflow/internal/recipectx"
)

type logStep struct {
	message string
	level   zerolog.Level
	logger  *zerolog.Logger
}

func newLogStep(cfg map[string]any, logger *zerolog.Logger) (recipe.Step, error) {
	message, err := configString(cfg, "message")
	if err != nil {
		return nil, err
	}

	levelName, _ := cfg["level"].(string)
	if levelName == "" {
		levelName = "info"
	}
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("level: %w", err)
	}

	return &logStep{message: message, level: level, logger: logger}, nil
}

func (s *logStep) Execute(ctx context.Context, store *recipectx.Store) error {
	rendered, err := renderString(s.message, store)
	if err != nil {
		return fmt.Errorf("message: %w", err)
	}
	logger := s.logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	logger.WithLevel(s.level).Msg(rendered)
	return nil
}
