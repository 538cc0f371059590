package steps

import "recipeflow/internal/recipe"

func testRegistryLookup(stepType string) (recipe.Constructor, bool) {
	return recipe.DefaultRegistry.Lookup(stepType)
}
