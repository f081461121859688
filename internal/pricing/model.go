package pricing

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"io"
	"math"
	"sort"
)

const (
	// WeeksPerMonth approximates the number of working weeks in a month.
	WeeksPerMonth = 4.28
	// VariableCostRate is the overhead allowance for packaging, waste and utilities.
	VariableCostRate = 0.10
)

// Ingredient is a purchasable catalog record.
type Ingredient struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	PackageWeight float64 `json:"packageWeight"`
	PackageCost   float64 `json:"packageCost"`
}

// UnitCost returns the cost of one unit of weight. The second value is false
// when the package weight is not positive, in which case the cost is 0.
func (i Ingredient) UnitCost() (float64, bool) {
	if i.PackageWeight <= 0 {
		return 0, false
	}
	return i.PackageCost / i.PackageWeight, true
}

// RecipeIngredient references a catalog ingredient by id.
type RecipeIngredient struct {
	IngredientID int64   `json:"ingredientId"`
	Quantity     float64 `json:"quantity"`
}

// Recipe is a named formula of ingredient quantities plus yield, prep time and margin.
type Recipe struct {
	ID            int64              `json:"id"`
	Name          string             `json:"name"`
	YieldCount    float64            `json:"yieldCount"`
	PrepMinutes   float64            `json:"prepMinutes"`
	MarginPercent float64            `json:"marginPercent"`
	Ingredients   []RecipeIngredient `json:"ingredients"`
}

// LaborConfig is the monthly budget converted into an hourly rate.
type LaborConfig struct {
	MonthlySalary     float64 `json:"monthlySalary"`
	MonthlyFixedCosts float64 `json:"monthlyFixedCosts"`
	HoursPerDay       float64 `json:"hoursPerDay"`
	DaysPerWeek       float64 `json:"daysPerWeek"`
}

// Catalog is a read-only snapshot of ingredients keyed by id.
type Catalog struct {
	byID  map[int64]Ingredient
	order []int64
}

// NewCatalog builds a snapshot. When ids repeat, the last record wins.
func NewCatalog(items []Ingredient) Catalog {
	c := Catalog{byID: make(map[int64]Ingredient, len(items))}
	for _, item := range items {
		if _, ok := c.byID[item.ID]; !ok {
			c.order = append(c.order, item.ID)
		}
		c.byID[item.ID] = item
	}
	return c
}

// Lookup resolves an ingredient by id.
func (c Catalog) Lookup(id int64) (Ingredient, bool) {
	ing, ok := c.byID[id]
	return ing, ok
}

// Len returns the number of ingredients in the snapshot.
func (c Catalog) Len() int {
	return len(c.order)
}

// Ingredients returns the snapshot contents in insertion order.
func (c Catalog) Ingredients() []Ingredient {
	out := make([]Ingredient, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Version is a content hash of the snapshot. Two catalogs with the same
// records produce the same version regardless of insertion order.
func (c Catalog) Version() string {
	ids := make([]int64, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	h := sha256.New()
	for _, id := range ids {
		ing := c.byID[id]
		writeInt(h, ing.ID)
		h.Write([]byte(ing.Name))
		h.Write([]byte{0})
		writeFloat(h, ing.PackageWeight)
		writeFloat(h, ing.PackageCost)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Recipes is a read-only snapshot of recipes keyed by id.
type Recipes struct {
	byID map[int64]Recipe
}

// NewRecipes builds a snapshot. When ids repeat, the last record wins.
func NewRecipes(items []Recipe) Recipes {
	rs := Recipes{byID: make(map[int64]Recipe, len(items))}
	for _, r := range items {
		rs.byID[r.ID] = r
	}
	return rs
}

// Lookup resolves a recipe by id.
func (rs Recipes) Lookup(id int64) (Recipe, bool) {
	r, ok := rs.byID[id]
	return r, ok
}

func writeInt(w io.Writer, v int64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	_, _ = w.Write(buf[:])
}

func writeFloat(w io.Writer, v float64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	_, _ = w.Write(buf[:])
}
