package pricing

import "fmt"

// WarningCode identifies a degraded-mode condition.
type WarningCode string

const (
	WarnMissingIngredient WarningCode = "missing_ingredient"
	WarnMissingRecipe     WarningCode = "missing_recipe"
	WarnZeroPackageWeight WarningCode = "zero_package_weight"
	WarnZeroHours         WarningCode = "zero_hours"
	WarnZeroYield         WarningCode = "zero_yield"
	WarnUnknownSubject    WarningCode = "unknown_subject"
)

// Warning reports a substitution made instead of failing. Results that carry
// warnings are still complete; the skipped or defaulted parts contribute zero.
type Warning struct {
	Code    WarningCode `json:"code"`
	Subject string      `json:"subject,omitempty"`
	ID      int64       `json:"id,omitempty"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

func missingIngredient(id int64, recipe string) Warning {
	msg := fmt.Sprintf("ingredient %d not found in catalog", id)
	if recipe != "" {
		msg = fmt.Sprintf("ingredient %d referenced by %q not found in catalog", id, recipe)
	}
	return Warning{Code: WarnMissingIngredient, Subject: recipe, ID: id, Message: msg}
}

func zeroPackageWeight(ing Ingredient) Warning {
	return Warning{
		Code:    WarnZeroPackageWeight,
		Subject: ing.Name,
		ID:      ing.ID,
		Message: fmt.Sprintf("ingredient %q has no package weight; unit cost treated as 0", ing.Name),
	}
}
