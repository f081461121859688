package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Simplici0/chefdevalor/internal/pricing"
)

func TestMoney(t *testing.T) {
	cases := map[float64]string{
		0:          "R$\u00a00,00",
		16.5:       "R$\u00a016,50",
		36.725:     "R$\u00a036,73",
		1234.5:     "R$\u00a01.234,50",
		1234567.89: "R$\u00a01.234.567,89",
		-3.2:       "-R$\u00a03,20",
	}
	for in, want := range cases {
		assert.Equal(t, want, Money(in), "Money(%v)", in)
	}
}

func TestQuantity(t *testing.T) {
	assert.Equal(t, "1185", Quantity(1185))
	assert.Equal(t, "1186", Quantity(1185.5))
	assert.Equal(t, "33", Quantity(33.2))
}

func TestShoppingListText(t *testing.T) {
	res := pricing.ShoppingResult{
		Lines: map[string]pricing.Line{
			"Leite Condensado": {IngredientName: "Leite Condensado", Quantity: 1185, Cost: 16.5},
			"Chocolate 50%":    {IngredientName: "Chocolate 50%", Quantity: 600, Cost: 21},
		},
		GrandTotal: 37.5,
	}

	text := ShoppingListText("Doces da Ana", res)

	assert.True(t, strings.HasPrefix(text, "*🛒 Lista de Compras - Doces da Ana*\n\n"))
	choc := strings.Index(text, "▫️ Chocolate 50%: 600g (~R$\u00a021,00)")
	milk := strings.Index(text, "▫️ Leite Condensado: 1185g (~R$\u00a016,50)")
	assert.True(t, choc >= 0 && milk > choc, "lines missing or out of order: %s", text)
	assert.True(t, strings.HasSuffix(text, "*💰 Previsão Total: R$\u00a037,50*"))
}

func TestShoppingListTextDefaultsBusinessName(t *testing.T) {
	text := ShoppingListText(" ", pricing.ShoppingResult{})

	assert.Equal(t, "*🛒 Lista de Compras - Chef de Valor*\n\n\n*💰 Previsão Total: R$\u00a00,00*", text)
}
