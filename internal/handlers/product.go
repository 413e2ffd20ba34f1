package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace_back_end/internal/cart"
	"marketplace_back_end/internal/models"
	"marketplace_back_end/internal/responses"
)

// ProductReader lit une fiche produit pour l'affichage (cache.ProductCache).
type ProductReader interface {
	Get(ctx context.Context, productID string) (*models.Product, error)
}

// 🟢 GET /api/products/:id
func GetProduct(products ProductReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := products.Get(c.Request.Context(), c.Param("id"))
		if errors.Is(err, cart.ErrProductNotFound) {
			responses.Fail(c, http.StatusNotFound, "Produit introuvable")
			return
		}
		if err != nil {
			log.Printf("❌ Erreur lecture produit %s: %v", c.Param("id"), err)
			responses.Fail(c, http.StatusInternalServerError, "Erreur serveur")
			return
		}
		responses.OK(c, http.StatusOK, "", p)
	}
}
