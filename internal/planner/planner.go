// Package planner loads snapshots from a store, validates user input and runs
// the costing engine over them. It owns every mutation; the engine only ever
// sees immutable snapshots.
package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Simplici0/chefdevalor/internal/logger"
	"github.com/Simplici0/chefdevalor/internal/metrics"
	"github.com/Simplici0/chefdevalor/internal/pricing"
	"github.com/Simplici0/chefdevalor/internal/store"
)

// ErrIngredientInUse is returned when deleting an ingredient that recipes
// still reference, unless the deletion is forced.
var ErrIngredientInUse = errors.New("ingredient in use")

// InUseError lists the recipes that reference an ingredient.
type InUseError struct {
	IngredientID int64
	Recipes      []string
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("ingredient %d is used by %s", e.IngredientID, strings.Join(e.Recipes, ", "))
}

func (e *InUseError) Unwrap() error {
	return ErrIngredientInUse
}

// Planner is the application service behind the HTTP handlers.
type Planner struct {
	store   store.Store
	memo    *pricing.Memo
	metrics *metrics.Collector
	log     *logger.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithMemo serves recipe costings through m.
func WithMemo(m *pricing.Memo) Option {
	return func(p *Planner) { p.memo = m }
}

// WithMetrics records costing activity on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(p *Planner) { p.metrics = c }
}

// New creates a planner over s.
func New(s store.Store, log *logger.Logger, opts ...Option) *Planner {
	p := &Planner{store: s, log: log}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RateView is the hourly rate together with the config it was derived from.
type RateView struct {
	Config     pricing.LaborConfig `json:"config"`
	HourlyRate float64             `json:"hourlyRate"`
	Warnings   []pricing.Warning   `json:"warnings,omitempty"`
}

// RecipeCost pairs a recipe with its breakdown.
type RecipeCost struct {
	Recipe     pricing.Recipe        `json:"recipe"`
	HourlyRate float64               `json:"hourlyRate"`
	Cost       pricing.CostBreakdown `json:"cost"`
}

// ShoppingView is the stored plan and the purchase list derived from it.
type ShoppingView struct {
	Selections pricing.ShoppingList   `json:"selections"`
	Result     pricing.ShoppingResult `json:"result"`
}

type snapshot struct {
	catalog pricing.Catalog
	recipes []pricing.Recipe
	rate    RateView
}

func (p *Planner) loadSnapshot(ctx context.Context) (snapshot, error) {
	ingredients, err := p.store.ListIngredients(ctx)
	if err != nil {
		return snapshot{}, fmt.Errorf("load catalog: %w", err)
	}
	recipes, err := p.store.ListRecipes(ctx)
	if err != nil {
		return snapshot{}, fmt.Errorf("load recipes: %w", err)
	}
	rate, err := p.HourlyRate(ctx)
	if err != nil {
		return snapshot{}, err
	}
	return snapshot{catalog: pricing.NewCatalog(ingredients), recipes: recipes, rate: rate}, nil
}

func (p *Planner) warn(scope string, ws []pricing.Warning) {
	for _, w := range ws {
		p.log.Warn("%s: %s", scope, w)
	}
}

// LaborConfig returns the stored labor budget.
func (p *Planner) LaborConfig(ctx context.Context) (pricing.LaborConfig, error) {
	cfg, err := p.store.LoadLaborConfig(ctx)
	if err != nil {
		return pricing.LaborConfig{}, fmt.Errorf("load labor config: %w", err)
	}
	return cfg, nil
}

// SaveLaborConfig validates and stores the labor budget.
func (p *Planner) SaveLaborConfig(ctx context.Context, cfg pricing.LaborConfig) (RateView, error) {
	if err := ValidateLaborConfig(cfg); err != nil {
		return RateView{}, err
	}
	if err := p.store.SaveLaborConfig(ctx, cfg); err != nil {
		return RateView{}, fmt.Errorf("save labor config: %w", err)
	}
	p.log.Info("labor config updated")
	return p.HourlyRate(ctx)
}

// HourlyRate derives the current hourly rate from the stored labor budget.
func (p *Planner) HourlyRate(ctx context.Context) (RateView, error) {
	cfg, err := p.LaborConfig(ctx)
	if err != nil {
		return RateView{}, err
	}
	rate, warnings := pricing.HourlyRate(cfg)
	p.warn("hourly rate", warnings)
	if p.metrics != nil {
		p.metrics.RecordWarnings(warnings)
	}
	return RateView{Config: cfg, HourlyRate: rate, Warnings: warnings}, nil
}

// Ingredients lists the catalog.
func (p *Planner) Ingredients(ctx context.Context) ([]pricing.Ingredient, error) {
	return p.store.ListIngredients(ctx)
}

// CreateIngredient validates and adds a catalog record.
func (p *Planner) CreateIngredient(ctx context.Context, ing pricing.Ingredient) (pricing.Ingredient, error) {
	if err := ValidateIngredient(&ing); err != nil {
		return pricing.Ingredient{}, err
	}
	return p.store.CreateIngredient(ctx, ing)
}

// UpdateIngredient validates and replaces a catalog record.
func (p *Planner) UpdateIngredient(ctx context.Context, ing pricing.Ingredient) (pricing.Ingredient, error) {
	if err := ValidateIngredient(&ing); err != nil {
		return pricing.Ingredient{}, err
	}
	if err := p.store.UpdateIngredient(ctx, ing); err != nil {
		return pricing.Ingredient{}, err
	}
	return ing, nil
}

// DeleteIngredient removes a catalog record. When recipes still reference it
// the call fails with an *InUseError unless force is set; forced deletions
// leave the references in place, and costing skips them from then on.
func (p *Planner) DeleteIngredient(ctx context.Context, id int64, force bool) error {
	recipes, err := p.store.ListRecipes(ctx)
	if err != nil {
		return fmt.Errorf("load recipes: %w", err)
	}

	var users []string
	for _, r := range recipes {
		for _, ref := range r.Ingredients {
			if ref.IngredientID == id {
				users = append(users, r.Name)
				break
			}
		}
	}

	if len(users) > 0 {
		if !force {
			return &InUseError{IngredientID: id, Recipes: users}
		}
		p.log.Warn("deleting ingredient %d still used by %s", id, strings.Join(users, ", "))
	}

	return p.store.DeleteIngredient(ctx, id)
}

// Recipes lists every recipe.
func (p *Planner) Recipes(ctx context.Context) ([]pricing.Recipe, error) {
	return p.store.ListRecipes(ctx)
}

// CreateRecipe validates and stores a new recipe.
func (p *Planner) CreateRecipe(ctx context.Context, r pricing.Recipe) (pricing.Recipe, error) {
	if err := ValidateRecipe(&r); err != nil {
		return pricing.Recipe{}, err
	}
	return p.store.CreateRecipe(ctx, r)
}

// UpdateRecipe validates and replaces a recipe. Pending shopping selections
// pick up the change on their next computation.
func (p *Planner) UpdateRecipe(ctx context.Context, r pricing.Recipe) (pricing.Recipe, error) {
	if err := ValidateRecipe(&r); err != nil {
		return pricing.Recipe{}, err
	}
	if err := p.store.UpdateRecipe(ctx, r); err != nil {
		return pricing.Recipe{}, err
	}
	return r, nil
}

// DeleteRecipe removes a recipe.
func (p *Planner) DeleteRecipe(ctx context.Context, id int64) error {
	return p.store.DeleteRecipe(ctx, id)
}

func (p *Planner) cost(r pricing.Recipe, c pricing.Catalog, rate float64) pricing.CostBreakdown {
	var (
		b   pricing.CostBreakdown
		hit bool
	)
	if p.memo != nil {
		b, hit = p.memo.CostRecipe(r, c, rate)
	} else {
		b = pricing.CostRecipe(r, c, rate)
	}
	if !hit {
		p.warn(fmt.Sprintf("recipe %q", r.Name), b.Warnings)
	}
	if p.metrics != nil {
		p.metrics.RecordRecipeCosting(b, hit)
	}
	return b
}

// CostRecipe prices a stored recipe against the current catalog and rate.
func (p *Planner) CostRecipe(ctx context.Context, id int64) (RecipeCost, error) {
	r, err := p.store.GetRecipe(ctx, id)
	if err != nil {
		return RecipeCost{}, err
	}
	snap, err := p.loadSnapshot(ctx)
	if err != nil {
		return RecipeCost{}, err
	}
	rate := snap.rate.HourlyRate
	return RecipeCost{Recipe: r, HourlyRate: rate, Cost: p.cost(r, snap.catalog, rate)}, nil
}

// CostAllRecipes prices every stored recipe.
func (p *Planner) CostAllRecipes(ctx context.Context) ([]RecipeCost, error) {
	snap, err := p.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	rate := snap.rate.HourlyRate
	out := make([]RecipeCost, 0, len(snap.recipes))
	for _, r := range snap.recipes {
		out = append(out, RecipeCost{Recipe: r, HourlyRate: rate, Cost: p.cost(r, snap.catalog, rate)})
	}
	return out, nil
}

// PreviewRecipe prices an unsaved draft. The name is optional.
func (p *Planner) PreviewRecipe(ctx context.Context, draft pricing.Recipe) (RecipeCost, error) {
	if err := validateRecipeNumbers(draft); err != nil {
		return RecipeCost{}, err
	}
	snap, err := p.loadSnapshot(ctx)
	if err != nil {
		return RecipeCost{}, err
	}
	rate := snap.rate.HourlyRate
	return RecipeCost{Recipe: draft, HourlyRate: rate, Cost: p.cost(draft, snap.catalog, rate)}, nil
}

// Shopping aggregates the stored plan against the current recipes and catalog.
func (p *Planner) Shopping(ctx context.Context) (ShoppingView, error) {
	list, err := p.store.LoadShoppingList(ctx)
	if err != nil {
		return ShoppingView{}, fmt.Errorf("load shopping list: %w", err)
	}
	return p.shoppingView(ctx, list)
}

func (p *Planner) shoppingView(ctx context.Context, list pricing.ShoppingList) (ShoppingView, error) {
	snap, err := p.loadSnapshot(ctx)
	if err != nil {
		return ShoppingView{}, err
	}
	res := pricing.AggregateShopping(list, pricing.NewRecipes(snap.recipes), snap.catalog)
	p.warn("shopping list", res.Warnings)
	if p.metrics != nil {
		p.metrics.RecordShopping(res)
	}
	if list == nil {
		list = pricing.ShoppingList{}
	}
	return ShoppingView{Selections: list, Result: res}, nil
}

// AdjustShopping changes a selection by delta and returns the new plan.
func (p *Planner) AdjustShopping(ctx context.Context, t pricing.SubjectType, id int64, delta int) (ShoppingView, error) {
	return p.editShopping(ctx, t, func(list pricing.ShoppingList) pricing.ShoppingList {
		return list.Adjust(t, id, delta)
	})
}

// SetShopping sets a selection's multiplier and returns the new plan.
func (p *Planner) SetShopping(ctx context.Context, t pricing.SubjectType, id int64, count int) (ShoppingView, error) {
	return p.editShopping(ctx, t, func(list pricing.ShoppingList) pricing.ShoppingList {
		return list.Set(t, id, count)
	})
}

func (p *Planner) editShopping(ctx context.Context, t pricing.SubjectType, edit func(pricing.ShoppingList) pricing.ShoppingList) (ShoppingView, error) {
	if !t.Valid() {
		return ShoppingView{}, invalid("type", "must be recipe or ingredient")
	}
	list, err := p.store.LoadShoppingList(ctx)
	if err != nil {
		return ShoppingView{}, fmt.Errorf("load shopping list: %w", err)
	}
	list = edit(list)
	if err := p.store.SaveShoppingList(ctx, list); err != nil {
		return ShoppingView{}, fmt.Errorf("save shopping list: %w", err)
	}
	return p.shoppingView(ctx, list)
}

// ClearShopping empties the plan.
func (p *Planner) ClearShopping(ctx context.Context) error {
	if err := p.store.SaveShoppingList(ctx, nil); err != nil {
		return fmt.Errorf("clear shopping list: %w", err)
	}
	return nil
}
