// Package export renders derived results as shareable text.
package export

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/chefdevalor/internal/pricing"
)

// DefaultBusinessName is used in headers when no business name is configured.
const DefaultBusinessName = "Chef de Valor"

// ShoppingListText renders a shopping list in the chat-friendly format users
// paste into messaging apps: one line per ingredient, then the projected total.
func ShoppingListText(businessName string, r pricing.ShoppingResult) string {
	if strings.TrimSpace(businessName) == "" {
		businessName = DefaultBusinessName
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*🛒 Lista de Compras - %s*\n\n", businessName)
	for _, line := range r.SortedLines() {
		fmt.Fprintf(&b, "▫️ %s: %sg (~%s)\n", line.IngredientName, Quantity(line.Quantity), Money(line.Cost))
	}
	fmt.Fprintf(&b, "\n*💰 Previsão Total: %s*", Money(r.GrandTotal))
	return b.String()
}

// Quantity rounds a quantity to a whole number of units.
func Quantity(v float64) string {
	return decimal.NewFromFloat(v).Round(0).String()
}

// Money formats an amount in Brazilian reais, rounded half away from zero to
// cents, e.g. 1234.5 -> "R$\u00a01.234,50". The space after the symbol is a
// no-break space, as pt-BR currency formatting emits.
func Money(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	whole, cents, _ := strings.Cut(d.StringFixed(2), ".")
	return fmt.Sprintf("%sR$\u00a0%s,%s", sign, groupThousands(whole), cents)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
