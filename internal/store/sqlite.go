package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Simplici0/chefdevalor/internal/logger"
	"github.com/Simplici0/chefdevalor/internal/pricing"
)

// Compile-time interface check.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore persists to a migrated SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	log *logger.Logger
}

// NewSQLiteStore wraps an open database. The schema must already be migrated.
func NewSQLiteStore(db *sql.DB, log *logger.Logger) *SQLiteStore {
	return &SQLiteStore{db: db, log: log}
}

func (s *SQLiteStore) ListIngredients(ctx context.Context) ([]pricing.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, package_weight, package_cost
		FROM ingredients
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := make([]pricing.Ingredient, 0)
	for rows.Next() {
		var ing pricing.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.PackageWeight, &ing.PackageCost); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ingredients: %w", err)
	}

	return ingredients, nil
}

func (s *SQLiteStore) GetIngredient(ctx context.Context, id int64) (pricing.Ingredient, error) {
	var ing pricing.Ingredient
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, package_weight, package_cost
		FROM ingredients
		WHERE id = ?
	`, id).Scan(&ing.ID, &ing.Name, &ing.PackageWeight, &ing.PackageCost)
	if errors.Is(err, sql.ErrNoRows) {
		return pricing.Ingredient{}, ErrNotFound
	}
	if err != nil {
		return pricing.Ingredient{}, fmt.Errorf("query ingredient %d: %w", id, err)
	}
	return ing, nil
}

func (s *SQLiteStore) CreateIngredient(ctx context.Context, ing pricing.Ingredient) (pricing.Ingredient, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO ingredients (name, package_weight, package_cost)
		VALUES (?, ?, ?)
	`, ing.Name, ing.PackageWeight, ing.PackageCost)
	if err != nil {
		return pricing.Ingredient{}, fmt.Errorf("insert ingredient: %w", err)
	}

	ing.ID, err = result.LastInsertId()
	if err != nil {
		return pricing.Ingredient{}, fmt.Errorf("read ingredient id: %w", err)
	}
	s.log.Debug("created ingredient %d (%s)", ing.ID, ing.Name)
	return ing, nil
}

func (s *SQLiteStore) UpdateIngredient(ctx context.Context, ing pricing.Ingredient) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE ingredients
		SET
			name = ?,
			package_weight = ?,
			package_cost = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, ing.Name, ing.PackageWeight, ing.PackageCost, ing.ID)
	if err != nil {
		return fmt.Errorf("update ingredient %d: %w", ing.ID, err)
	}
	return requireAffected(result, "ingredient")
}

func (s *SQLiteStore) DeleteIngredient(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM ingredients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete ingredient %d: %w", id, err)
	}
	if err := requireAffected(result, "ingredient"); err != nil {
		return err
	}
	s.log.Debug("deleted ingredient %d", id)
	return nil
}

func (s *SQLiteStore) ListRecipes(ctx context.Context) ([]pricing.Recipe, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, yield_count, prep_minutes, margin_percent
		FROM recipes
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query recipes: %w", err)
	}

	recipes := make([]pricing.Recipe, 0)
	index := make(map[int64]int)
	for rows.Next() {
		var r pricing.Recipe
		if err := rows.Scan(&r.ID, &r.Name, &r.YieldCount, &r.PrepMinutes, &r.MarginPercent); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		index[r.ID] = len(recipes)
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}
	rows.Close()

	refs, err := s.db.QueryContext(ctx, `
		SELECT recipe_id, ingredient_id, quantity
		FROM recipe_ingredients
		ORDER BY recipe_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("query recipe ingredients: %w", err)
	}
	defer refs.Close()

	for refs.Next() {
		var recipeID int64
		var ref pricing.RecipeIngredient
		if err := refs.Scan(&recipeID, &ref.IngredientID, &ref.Quantity); err != nil {
			return nil, fmt.Errorf("scan recipe ingredient: %w", err)
		}
		if i, ok := index[recipeID]; ok {
			recipes[i].Ingredients = append(recipes[i].Ingredients, ref)
		}
	}
	if err := refs.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipe ingredients: %w", err)
	}

	return recipes, nil
}

func (s *SQLiteStore) GetRecipe(ctx context.Context, id int64) (pricing.Recipe, error) {
	var r pricing.Recipe
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, yield_count, prep_minutes, margin_percent
		FROM recipes
		WHERE id = ?
	`, id).Scan(&r.ID, &r.Name, &r.YieldCount, &r.PrepMinutes, &r.MarginPercent)
	if errors.Is(err, sql.ErrNoRows) {
		return pricing.Recipe{}, ErrNotFound
	}
	if err != nil {
		return pricing.Recipe{}, fmt.Errorf("query recipe %d: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT ingredient_id, quantity
		FROM recipe_ingredients
		WHERE recipe_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return pricing.Recipe{}, fmt.Errorf("query ingredients of recipe %d: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var ref pricing.RecipeIngredient
		if err := rows.Scan(&ref.IngredientID, &ref.Quantity); err != nil {
			return pricing.Recipe{}, fmt.Errorf("scan recipe ingredient: %w", err)
		}
		r.Ingredients = append(r.Ingredients, ref)
	}
	if err := rows.Err(); err != nil {
		return pricing.Recipe{}, fmt.Errorf("iterate recipe ingredients: %w", err)
	}

	return r, nil
}

func (s *SQLiteStore) CreateRecipe(ctx context.Context, r pricing.Recipe) (pricing.Recipe, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO recipes (name, yield_count, prep_minutes, margin_percent)
			VALUES (?, ?, ?, ?)
		`, r.Name, r.YieldCount, r.PrepMinutes, r.MarginPercent)
		if err != nil {
			return fmt.Errorf("insert recipe: %w", err)
		}
		if r.ID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("read recipe id: %w", err)
		}
		return insertRecipeIngredients(ctx, tx, r)
	})
	if err != nil {
		return pricing.Recipe{}, err
	}
	s.log.Debug("created recipe %d (%s) with %d ingredients", r.ID, r.Name, len(r.Ingredients))
	return r, nil
}

func (s *SQLiteStore) UpdateRecipe(ctx context.Context, r pricing.Recipe) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE recipes
			SET
				name = ?,
				yield_count = ?,
				prep_minutes = ?,
				margin_percent = ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, r.Name, r.YieldCount, r.PrepMinutes, r.MarginPercent, r.ID)
		if err != nil {
			return fmt.Errorf("update recipe %d: %w", r.ID, err)
		}
		if err := requireAffected(result, "recipe"); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = ?`, r.ID); err != nil {
			return fmt.Errorf("clear ingredients of recipe %d: %w", r.ID, err)
		}
		return insertRecipeIngredients(ctx, tx, r)
	})
}

func (s *SQLiteStore) DeleteRecipe(ctx context.Context, id int64) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = ?`, id); err != nil {
			return fmt.Errorf("delete ingredients of recipe %d: %w", id, err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete recipe %d: %w", id, err)
		}
		return requireAffected(result, "recipe")
	})
	if err != nil {
		return err
	}
	s.log.Debug("deleted recipe %d", id)
	return nil
}

func (s *SQLiteStore) LoadLaborConfig(ctx context.Context) (pricing.LaborConfig, error) {
	var cfg pricing.LaborConfig
	err := s.db.QueryRowContext(ctx, `
		SELECT monthly_salary, monthly_fixed_costs, hours_per_day, days_per_week
		FROM labor_config
		WHERE id = 1
	`).Scan(&cfg.MonthlySalary, &cfg.MonthlyFixedCosts, &cfg.HoursPerDay, &cfg.DaysPerWeek)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultLaborConfig, nil
	}
	if err != nil {
		return pricing.LaborConfig{}, fmt.Errorf("query labor_config: %w", err)
	}
	return cfg, nil
}

func (s *SQLiteStore) SaveLaborConfig(ctx context.Context, cfg pricing.LaborConfig) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO labor_config (id, monthly_salary, monthly_fixed_costs, hours_per_day, days_per_week)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			monthly_salary = excluded.monthly_salary,
			monthly_fixed_costs = excluded.monthly_fixed_costs,
			hours_per_day = excluded.hours_per_day,
			days_per_week = excluded.days_per_week,
			updated_at = CURRENT_TIMESTAMP
	`, cfg.MonthlySalary, cfg.MonthlyFixedCosts, cfg.HoursPerDay, cfg.DaysPerWeek)
	if err != nil {
		return fmt.Errorf("save labor_config: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadShoppingList(ctx context.Context) (pricing.ShoppingList, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT subject_type, subject_id, multiplier
		FROM shopping_selections
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("query shopping selections: %w", err)
	}
	defer rows.Close()

	var list pricing.ShoppingList
	for rows.Next() {
		var sel pricing.Selection
		if err := rows.Scan(&sel.SubjectType, &sel.SubjectID, &sel.Multiplier); err != nil {
			return nil, fmt.Errorf("scan shopping selection: %w", err)
		}
		list = append(list, sel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shopping selections: %w", err)
	}
	return list, nil
}

// SaveShoppingList replaces the stored plan. Entries with a non-positive
// multiplier are dropped.
func (s *SQLiteStore) SaveShoppingList(ctx context.Context, list pricing.ShoppingList) error {
	list = pricing.Normalize(list)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM shopping_selections`); err != nil {
			return fmt.Errorf("clear shopping selections: %w", err)
		}
		for i, sel := range list {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO shopping_selections (position, subject_type, subject_id, multiplier)
				VALUES (?, ?, ?, ?)
			`, i, sel.SubjectType, sel.SubjectID, sel.Multiplier); err != nil {
				return fmt.Errorf("insert shopping selection: %w", err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func insertRecipeIngredients(ctx context.Context, tx *sql.Tx, r pricing.Recipe) error {
	for i, ref := range r.Ingredients {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO recipe_ingredients (recipe_id, position, ingredient_id, quantity)
			VALUES (?, ?, ?, ?)
		`, r.ID, i, ref.IngredientID, ref.Quantity); err != nil {
			return fmt.Errorf("insert ingredient %d of recipe %d: %w", ref.IngredientID, r.ID, err)
		}
	}
	return nil
}

func requireAffected(result sql.Result, what string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected %s rows: %w", what, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
