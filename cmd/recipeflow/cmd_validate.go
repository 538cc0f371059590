package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"recipeflow/internal/recipe"
)

var validateCmd = &cobra.Command{
	Use:   "validate <recipe-path>",
	Short: "Load a recipe and check every step type against the registry, without executing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateRecipe(args[0])
	},
}

func validateRecipe(path string) error {
	r, err := recipe.Load(path)
	if err != nil {
		return err
	}

	fmt.Printf("[validate] %s\n", path)
	var unknown int
	for i, step := range r.Steps {
		if _, ok := recipe.DefaultRegistry.Lookup(step.Type); !ok {
			fmt.Printf("  step [%d] (%s)  UNKNOWN step type\n", i, step.Type)
			unknown++
			continue
		}
		fmt.Printf("  step [%d] (%s)  ok\n", i, step.Type)
	}

	if unknown > 0 {
		return fmt.Errorf("%d step(s) reference unregistered step types", unknown)
	}
	return nil
}
