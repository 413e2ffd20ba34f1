package cart

import (
	"github.com/shopspring/decimal"

	"marketplace_back_end/internal/models"
)

// Totals calcule le nombre d'articles et le total à partir des prix figés des lignes.
func Totals(items []models.CartItem) (int, float64) {
	count := 0
	total := decimal.Zero
	for _, item := range items {
		count += item.Quantity
		total = total.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return count, total.InexactFloat64()
}

// Recalculate remet les totaux du panier en cohérence avec ses lignes.
func Recalculate(c *models.Cart) {
	c.TotalItems, c.TotalPrice = Totals(c.Items)
}
