package main

import (
	"recipeflow/pkg/lib"

	_ "recipeflow/internal/steps"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		lib.Exit(err)
	}
}
