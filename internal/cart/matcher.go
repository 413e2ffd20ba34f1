package cart

import "marketplace_back_end/internal/models"

// Match retourne l'index de la ligne correspondant à (productID, variant), ou -1.
// Une ligne est identifiée par le couple produit + variante, pas par le produit seul.
func Match(items []models.CartItem, productID string, variant models.Variant) int {
	for i := range items {
		if items[i].ProductID == productID && items[i].Variant.Equal(variant) {
			return i
		}
	}
	return -1
}
