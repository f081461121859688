package planner

import (
	"fmt"
	"math"
	"strings"

	"github.com/Simplici0/chefdevalor/internal/pricing"
)

// ValidationError reports user input rejected before it reaches the engine.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func nonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid(field, "must be a number")
	}
	if v < 0 {
		return invalid(field, "must be greater than or equal to 0")
	}
	return nil
}

func positive(field string, v float64) error {
	if err := nonNegative(field, v); err != nil {
		return err
	}
	if v == 0 {
		return invalid(field, "must be greater than 0")
	}
	return nil
}

// ValidateIngredient checks a catalog record and trims its name.
func ValidateIngredient(ing *pricing.Ingredient) error {
	ing.Name = strings.TrimSpace(ing.Name)
	if ing.Name == "" {
		return invalid("name", "is required")
	}
	if err := positive("packageWeight", ing.PackageWeight); err != nil {
		return err
	}
	return nonNegative("packageCost", ing.PackageCost)
}

// ValidateRecipe checks a recipe and trims its name.
func ValidateRecipe(r *pricing.Recipe) error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return invalid("name", "is required")
	}
	return validateRecipeNumbers(*r)
}

// validateRecipeNumbers checks the numeric fields only, so unsaved drafts can
// be previewed before they have a name.
func validateRecipeNumbers(r pricing.Recipe) error {
	if err := positive("yieldCount", r.YieldCount); err != nil {
		return err
	}
	if err := nonNegative("prepMinutes", r.PrepMinutes); err != nil {
		return err
	}
	if err := nonNegative("marginPercent", r.MarginPercent); err != nil {
		return err
	}
	for i, ref := range r.Ingredients {
		if err := nonNegative(fmt.Sprintf("ingredients[%d].quantity", i), ref.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// ValidateLaborConfig checks that every budget field is a non-negative number.
func ValidateLaborConfig(cfg pricing.LaborConfig) error {
	if err := nonNegative("monthlySalary", cfg.MonthlySalary); err != nil {
		return err
	}
	if err := nonNegative("monthlyFixedCosts", cfg.MonthlyFixedCosts); err != nil {
		return err
	}
	if err := nonNegative("hoursPerDay", cfg.HoursPerDay); err != nil {
		return err
	}
	if cfg.HoursPerDay > 24 {
		return invalid("hoursPerDay", "must be at most 24")
	}
	if err := nonNegative("daysPerWeek", cfg.DaysPerWeek); err != nil {
		return err
	}
	if cfg.DaysPerWeek > 7 {
		return invalid("daysPerWeek", "must be at most 7")
	}
	return nil
}
