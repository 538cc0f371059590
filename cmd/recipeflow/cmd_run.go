package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"recipeflow/internal/recipe"
	"recipeflow/internal/recipectx"
)

var (
	flagLogDir  string
	flagContext []string
	flagConfig  []string
	flagWatch   bool
)

var runCmd = &cobra.Command{
	Use:   "run <recipe-path>",
	Short: "Execute a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRecipe(args[0])
	},
}

func init() {
	runCmd.Flags().StringVar(&flagLogDir, "log-dir", "", "directory to write the run's log file into (default logs)")
	runCmd.Flags().StringArrayVar(&flagContext, "context", nil, "initial artifact KEY=VALUE (repeatable)")
	runCmd.Flags().StringArrayVar(&flagConfig, "config", nil, "initial config KEY=VALUE, overriding environment (repeatable)")
	runCmd.Flags().BoolVar(&flagWatch, "watch", false, "attach a live progress view")
}

func runRecipe(path string) error {
	logDir := resolveLogDir(flagLogDir)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	logFile, err := os.Create(filepath.Join(logDir, fmt.Sprintf("recipeflow-%d.log", time.Now().Unix())))
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()

	logger := zerolog.New(logFile).With().Timestamp().Logger()

	r, err := recipe.Load(path)
	if err != nil {
		return err
	}

	config := envConfig(r.EnvVars)
	if err := applyKeyValueFlags(config, flagConfig); err != nil {
		return err
	}

	artifacts := map[string]any{}
	if err := applyKeyValueFlags(artifacts, flagContext); err != nil {
		return err
	}

	store := recipectx.New(artifacts, config)
	exec := recipe.New(recipe.DefaultRegistry)

	ctx := context.Background()

	if flagWatch {
		events := make(chan recipe.ExecutionEvent, 16)
		exec.Events = events
		return runWithProgressView(ctx, exec, r, store, &logger, events)
	}

	return exec.Execute(ctx, r, store, &logger)
}

func applyKeyValueFlags(into map[string]any, flags []string) error {
	for _, raw := range flags {
		key, value, ok := parseKeyValue(raw)
		if !ok {
			return fmt.Errorf("malformed KEY=VALUE argument: %q", raw)
		}
		into[key] = value
	}
	return nil
}
