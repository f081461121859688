package seed

import (
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Simplici0/chefdevalor/internal/pricing"
	"github.com/Simplici0/chefdevalor/internal/store"
)

// DefaultCatalog is inserted when no catalog file is configured.
var DefaultCatalog = []pricing.Ingredient{
	{Name: "Leite Condensado", PackageWeight: 395, PackageCost: 5.50},
	{Name: "Creme de Leite", PackageWeight: 200, PackageCost: 3.20},
	{Name: "Chocolate 50%", PackageWeight: 1000, PackageCost: 35.00},
	{Name: "Manteiga", PackageWeight: 200, PackageCost: 12.00},
}

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
	// CatalogFile, when set, replaces DefaultCatalog with the ingredients
	// listed in a YAML file.
	CatalogFile string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way.
func Run(db *sql.DB, cfg Config) (Stats, error) {
	catalog := DefaultCatalog
	if cfg.CatalogFile != "" {
		var err error
		if catalog, err = LoadCatalogFile(cfg.CatalogFile); err != nil {
			return Stats{}, err
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := seedAdmin(tx, cfg.AdminEmail, cfg.AdminPassword, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureLaborConfig(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	for _, ing := range catalog {
		if err := ensureIngredient(tx, ing, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func seedAdmin(tx *sql.Tx, email, password string, stats *Stats) error {
	if email == "" || password == "" {
		return nil
	}

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE email = ? LIMIT 1)`, email).Scan(&exists); err != nil {
		return fmt.Errorf("check admin user existence: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	if _, err := tx.Exec(`INSERT INTO users (email, password_hash) VALUES (?, ?)`, email, string(hash)); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureLaborConfig(tx *sql.Tx, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM labor_config WHERE id = 1)`).Scan(&exists); err != nil {
		return fmt.Errorf("check labor config existence: %w", err)
	}
	if exists {
		return nil
	}

	cfg := store.DefaultLaborConfig
	if _, err := tx.Exec(`
		INSERT INTO labor_config (id, monthly_salary, monthly_fixed_costs, hours_per_day, days_per_week)
		VALUES (1, ?, ?, ?, ?)
	`, cfg.MonthlySalary, cfg.MonthlyFixedCosts, cfg.HoursPerDay, cfg.DaysPerWeek); err != nil {
		return fmt.Errorf("insert labor config singleton: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureIngredient(tx *sql.Tx, ing pricing.Ingredient, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM ingredients WHERE name = ? LIMIT 1)`, ing.Name).Scan(&exists); err != nil {
		return fmt.Errorf("check ingredient %q existence: %w", ing.Name, err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`
		INSERT INTO ingredients (name, package_weight, package_cost)
		VALUES (?, ?, ?)
	`, ing.Name, ing.PackageWeight, ing.PackageCost); err != nil {
		return fmt.Errorf("insert ingredient %q: %w", ing.Name, err)
	}
	stats.Inserts++
	return nil
}
