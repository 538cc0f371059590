package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"recipeflow/internal/recipe"
)

var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "List every registered step type",
	RunE: func(cmd *cobra.Command, args []string) error {
		types := recipe.DefaultRegistry.Types()
		sort.Strings(types)
		if len(types) == 0 {
			fmt.Println("no step types registered")
			return nil
		}
		for _, t := range types {
			fmt.Println(t)
		}
		return nil
	},
}
