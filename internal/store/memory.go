package store

import (
	"context"
	"sort"
	"sync"

	"github.com/Simplici0/chefdevalor/internal/logger"
	"github.com/Simplici0/chefdevalor/internal/pricing"
)

// Compile-time interface check.
var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps everything in maps. Safe for concurrent access.
type MemoryStore struct {
	mu          sync.RWMutex
	nextID      int64
	ingredients map[int64]pricing.Ingredient
	recipes     map[int64]pricing.Recipe
	labor       *pricing.LaborConfig
	shopping    pricing.ShoppingList
	log         *logger.Logger
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		ingredients: make(map[int64]pricing.Ingredient),
		recipes:     make(map[int64]pricing.Recipe),
		log:         log,
	}
}

func (s *MemoryStore) allocID() int64 {
	s.nextID++
	return s.nextID
}

// ListIngredients returns the catalog ordered by id.
func (s *MemoryStore) ListIngredients(ctx context.Context) ([]pricing.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]pricing.Ingredient, 0, len(s.ingredients))
	for _, ing := range s.ingredients {
		out = append(out, ing)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetIngredient(ctx context.Context, id int64) (pricing.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ing, ok := s.ingredients[id]
	if !ok {
		return pricing.Ingredient{}, ErrNotFound
	}
	return ing, nil
}

func (s *MemoryStore) CreateIngredient(ctx context.Context, ing pricing.Ingredient) (pricing.Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ing.ID = s.allocID()
	s.ingredients[ing.ID] = ing
	s.log.Debug("created ingredient %d (%s)", ing.ID, ing.Name)
	return ing, nil
}

func (s *MemoryStore) UpdateIngredient(ctx context.Context, ing pricing.Ingredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ingredients[ing.ID]; !ok {
		return ErrNotFound
	}
	s.ingredients[ing.ID] = ing
	return nil
}

func (s *MemoryStore) DeleteIngredient(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ingredients[id]; !ok {
		return ErrNotFound
	}
	delete(s.ingredients, id)
	s.log.Debug("deleted ingredient %d", id)
	return nil
}

// ListRecipes returns recipes ordered by id.
func (s *MemoryStore) ListRecipes(ctx context.Context) ([]pricing.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]pricing.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, cloneRecipe(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetRecipe(ctx context.Context, id int64) (pricing.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		return pricing.Recipe{}, ErrNotFound
	}
	return cloneRecipe(r), nil
}

func (s *MemoryStore) CreateRecipe(ctx context.Context, r pricing.Recipe) (pricing.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r = cloneRecipe(r)
	r.ID = s.allocID()
	s.recipes[r.ID] = r
	s.log.Debug("created recipe %d (%s)", r.ID, r.Name)
	return cloneRecipe(r), nil
}

func (s *MemoryStore) UpdateRecipe(ctx context.Context, r pricing.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[r.ID]; !ok {
		return ErrNotFound
	}
	s.recipes[r.ID] = cloneRecipe(r)
	return nil
}

func (s *MemoryStore) DeleteRecipe(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		return ErrNotFound
	}
	delete(s.recipes, id)
	s.log.Debug("deleted recipe %d", id)
	return nil
}

func (s *MemoryStore) LoadLaborConfig(ctx context.Context) (pricing.LaborConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.labor == nil {
		return DefaultLaborConfig, nil
	}
	return *s.labor, nil
}

func (s *MemoryStore) SaveLaborConfig(ctx context.Context, cfg pricing.LaborConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.labor = &cfg
	return nil
}

func (s *MemoryStore) LoadShoppingList(ctx context.Context) (pricing.ShoppingList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append(pricing.ShoppingList(nil), s.shopping...), nil
}

// SaveShoppingList replaces the stored plan. Entries with a non-positive
// multiplier are dropped.
func (s *MemoryStore) SaveShoppingList(ctx context.Context, list pricing.ShoppingList) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shopping = pricing.Normalize(list)
	return nil
}

func cloneRecipe(r pricing.Recipe) pricing.Recipe {
	r.Ingredients = append([]pricing.RecipeIngredient(nil), r.Ingredients...)
	return r
}
