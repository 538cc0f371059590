package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Run declarative JSON recipes",
	Long:  "recipeflow executes declarative JSON recipes: ordered pipelines of typed steps sharing a context of artifacts.",
}

func init() {
	rootCmd.AddCommand(runCmd, validateCmd, stepsCmd)
}
