package pricing

import (
	"fmt"
	"sort"
)

// SubjectType tells whether a selection points at a recipe or a raw ingredient.
type SubjectType string

const (
	SubjectRecipe     SubjectType = "recipe"
	SubjectIngredient SubjectType = "ingredient"
)

// Valid reports whether t is a known subject type.
func (t SubjectType) Valid() bool {
	return t == SubjectRecipe || t == SubjectIngredient
}

// Selection is one planned purchase: a recipe to produce or an ingredient
// package to buy, repeated Multiplier times. Multipliers <= 0 are ignored.
type Selection struct {
	SubjectType SubjectType `json:"type"`
	SubjectID   int64       `json:"id"`
	Multiplier  int         `json:"count"`
}

// Line is the aggregated demand for one ingredient name.
type Line struct {
	IngredientName string  `json:"name"`
	Quantity       float64 `json:"quantity"`
	Cost           float64 `json:"cost"`
}

// ShoppingResult is the purchase plan derived from a set of selections.
type ShoppingResult struct {
	Lines      map[string]Line `json:"lines"`
	GrandTotal float64         `json:"grandTotal"`
	Warnings   []Warning       `json:"warnings,omitempty"`
}

// Names returns the line names in lexical order.
func (r ShoppingResult) Names() []string {
	names := make([]string, 0, len(r.Lines))
	for name := range r.Lines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SortedLines returns the lines ordered by ingredient name.
func (r ShoppingResult) SortedLines() []Line {
	out := make([]Line, 0, len(r.Lines))
	for _, name := range r.Names() {
		out = append(out, r.Lines[name])
	}
	return out
}

func (r *ShoppingResult) add(name string, qty, cost float64) {
	line := r.Lines[name]
	line.IngredientName = name
	line.Quantity += qty
	line.Cost += cost
	r.Lines[name] = line
	r.GrandTotal += cost
}

// AggregateShopping sums ingredient demand over every selection with a
// positive multiplier. Lines are keyed by ingredient name, so distinct catalog
// records sharing a name are merged into one line. The result is recomputed
// from scratch on every call.
func AggregateShopping(selections []Selection, recipes Recipes, c Catalog) ShoppingResult {
	res := ShoppingResult{Lines: make(map[string]Line)}

	for _, sel := range selections {
		if sel.Multiplier <= 0 {
			continue
		}
		m := float64(sel.Multiplier)

		switch sel.SubjectType {
		case SubjectIngredient:
			ing, ok := c.Lookup(sel.SubjectID)
			if !ok {
				res.Warnings = append(res.Warnings, missingIngredient(sel.SubjectID, ""))
				continue
			}
			res.add(ing.Name, ing.PackageWeight*m, ing.PackageCost*m)

		case SubjectRecipe:
			rec, ok := recipes.Lookup(sel.SubjectID)
			if !ok {
				res.Warnings = append(res.Warnings, Warning{
					Code:    WarnMissingRecipe,
					ID:      sel.SubjectID,
					Message: fmt.Sprintf("recipe %d not found", sel.SubjectID),
				})
				continue
			}
			for _, ref := range rec.Ingredients {
				ing, ok := c.Lookup(ref.IngredientID)
				if !ok {
					res.Warnings = append(res.Warnings, missingIngredient(ref.IngredientID, rec.Name))
					continue
				}
				qty := ref.Quantity * m
				unitCost, ok := ing.UnitCost()
				if !ok {
					res.Warnings = append(res.Warnings, zeroPackageWeight(ing))
				}
				res.add(ing.Name, qty, unitCost*qty)
			}

		default:
			res.Warnings = append(res.Warnings, Warning{
				Code:    WarnUnknownSubject,
				Subject: string(sel.SubjectType),
				ID:      sel.SubjectID,
				Message: fmt.Sprintf("unknown selection type %q", sel.SubjectType),
			})
		}
	}

	return res
}

// Merge combines two results line by line. Aggregating the union of two
// selection sets with disjoint keys equals merging their separate aggregates.
func Merge(a, b ShoppingResult) ShoppingResult {
	out := ShoppingResult{Lines: make(map[string]Line, len(a.Lines)+len(b.Lines))}
	for _, src := range []ShoppingResult{a, b} {
		for name, line := range src.Lines {
			out.add(name, line.Quantity, line.Cost)
		}
		out.Warnings = append(out.Warnings, src.Warnings...)
	}
	return out
}
