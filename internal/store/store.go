// Package store persists the catalog, recipes, labor config and shopping plan.
// Each collection has its own typed interface; Store bundles them for callers
// that need everything.
package store

import (
	"context"
	"errors"

	"github.com/Simplici0/chefdevalor/internal/pricing"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("not found")

// IngredientStore persists catalog ingredients.
type IngredientStore interface {
	ListIngredients(ctx context.Context) ([]pricing.Ingredient, error)
	GetIngredient(ctx context.Context, id int64) (pricing.Ingredient, error)
	CreateIngredient(ctx context.Context, ing pricing.Ingredient) (pricing.Ingredient, error)
	UpdateIngredient(ctx context.Context, ing pricing.Ingredient) error
	DeleteIngredient(ctx context.Context, id int64) error
}

// RecipeStore persists recipes with their ordered ingredient lists.
type RecipeStore interface {
	ListRecipes(ctx context.Context) ([]pricing.Recipe, error)
	GetRecipe(ctx context.Context, id int64) (pricing.Recipe, error)
	CreateRecipe(ctx context.Context, r pricing.Recipe) (pricing.Recipe, error)
	UpdateRecipe(ctx context.Context, r pricing.Recipe) error
	DeleteRecipe(ctx context.Context, id int64) error
}

// LaborConfigStore persists the single labor budget record.
type LaborConfigStore interface {
	LoadLaborConfig(ctx context.Context) (pricing.LaborConfig, error)
	SaveLaborConfig(ctx context.Context, cfg pricing.LaborConfig) error
}

// ShoppingStore persists the current shopping plan as a whole.
type ShoppingStore interface {
	LoadShoppingList(ctx context.Context) (pricing.ShoppingList, error)
	SaveShoppingList(ctx context.Context, list pricing.ShoppingList) error
}

// Store is the full persistence surface.
type Store interface {
	IngredientStore
	RecipeStore
	LaborConfigStore
	ShoppingStore
}

// DefaultLaborConfig is returned before any labor config has been saved.
var DefaultLaborConfig = pricing.LaborConfig{
	MonthlySalary:     3000,
	MonthlyFixedCosts: 800,
	HoursPerDay:       8,
	DaysPerWeek:       5,
}
