package cart

import (
	"fmt"

	"marketplace_back_end/internal/models"
)

// CheckStock vérifie qu'un produit est vendable et que la quantité demandée
// ne dépasse pas le stock actuel. Aucune réservation n'est prise.
func CheckStock(product *models.Product, quantity int) error {
	if product == nil || !product.IsActive {
		return ErrProductUnavailable
	}
	if quantity > product.Stock {
		return fmt.Errorf("%w: %d disponible(s)", ErrOutOfStock, max(product.Stock, 0))
	}
	return nil
}
