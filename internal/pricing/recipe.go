package pricing

import "fmt"

// CostBreakdown is the derived cost and price of one recipe batch.
type CostBreakdown struct {
	MaterialCost float64   `json:"materialCost"`
	VariableCost float64   `json:"variableCost"`
	LaborCost    float64   `json:"laborCost"`
	TotalCost    float64   `json:"totalCost"`
	SalePrice    float64   `json:"salePrice"`
	UnitPrice    float64   `json:"unitPrice"`
	Warnings     []Warning `json:"warnings,omitempty"`
}

// Degraded reports whether any substitution was made while costing.
func (b CostBreakdown) Degraded() bool {
	return len(b.Warnings) > 0
}

// CostRecipe computes material, variable and labor cost of a recipe and the
// resulting sale and per-unit price. References missing from the catalog are
// skipped and reported as warnings. Neither the recipe nor the catalog is modified.
func CostRecipe(r Recipe, c Catalog, hourlyRate float64) CostBreakdown {
	var b CostBreakdown

	for _, ref := range r.Ingredients {
		ing, ok := c.Lookup(ref.IngredientID)
		if !ok {
			b.Warnings = append(b.Warnings, missingIngredient(ref.IngredientID, r.Name))
			continue
		}
		unitCost, ok := ing.UnitCost()
		if !ok {
			b.Warnings = append(b.Warnings, zeroPackageWeight(ing))
			continue
		}
		b.MaterialCost += unitCost * ref.Quantity
	}

	b.VariableCost = b.MaterialCost * VariableCostRate
	b.LaborCost = (r.PrepMinutes / 60.0) * hourlyRate
	b.TotalCost = b.MaterialCost + b.VariableCost + b.LaborCost
	b.SalePrice = b.TotalCost * (1.0 + r.MarginPercent/100.0)

	if r.YieldCount > 0 {
		b.UnitPrice = b.SalePrice / r.YieldCount
	} else {
		b.UnitPrice = b.SalePrice
		b.Warnings = append(b.Warnings, Warning{
			Code:    WarnZeroYield,
			Subject: r.Name,
			ID:      r.ID,
			Message: fmt.Sprintf("recipe %q has no yield; unit price equals sale price", r.Name),
		})
	}

	return b
}
