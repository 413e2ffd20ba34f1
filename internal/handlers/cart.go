package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace_back_end/internal/auth"
	"marketplace_back_end/internal/cart"
	"marketplace_back_end/internal/middleware"
	"marketplace_back_end/internal/models"
	"marketplace_back_end/internal/responses"
)

// CartService est ce dont les handlers ont besoin (implémenté par cart.Service).
type CartService interface {
	Get(ctx context.Context, id auth.Identity) (*models.Cart, error)
	Add(ctx context.Context, id auth.Identity, in cart.AddInput) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, id auth.Identity, in cart.UpdateInput) (*models.Cart, error)
	Remove(ctx context.Context, id auth.Identity, in cart.RemoveInput) (*models.Cart, error)
	Clear(ctx context.Context, id auth.Identity) (*models.Cart, error)
}

// CartView est le corps "data" des réponses panier.
type CartView struct {
	Items      []models.CartItem `json:"items"`
	TotalItems int               `json:"totalItems"`
	TotalPrice float64           `json:"totalPrice"`
}

func NewCartView(c *models.Cart) CartView {
	items := c.Items
	if items == nil {
		items = []models.CartItem{}
	}
	return CartView{Items: items, TotalItems: c.TotalItems, TotalPrice: c.TotalPrice}
}

type addItemRequest struct {
	ProductID     string         `json:"productId"`
	Name          string         `json:"name"`
	Price         *float64       `json:"price"`
	OriginalPrice float64        `json:"originalPrice"`
	Quantity      *int           `json:"quantity"`
	Image         string         `json:"image"`
	Brand         string         `json:"brand"`
	Discount      float64        `json:"discount"`
	Variant       models.Variant `json:"variant"`
}

type updateItemRequest struct {
	ProductID string         `json:"productId"`
	Quantity  int            `json:"quantity"`
	Variant   models.Variant `json:"variant"`
}

type removeItemRequest struct {
	ProductID string         `json:"productId"`
	Variant   models.Variant `json:"variant"`
}

// 🟢 GET /api/cart
func GetCart(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := svc.Get(c.Request.Context(), middleware.GetIdentity(c))
		if err != nil {
			fail(c, err)
			return
		}
		responses.OK(c, http.StatusOK, "", NewCartView(result))
	}
}

// 🟢 POST /api/cart
func AddToCart(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidBody(c, err)
			return
		}
		c.Set(middleware.AuditResourceKey, req.ProductID)

		result, err := svc.Add(c.Request.Context(), middleware.GetIdentity(c), cart.AddInput{
			ProductID:     req.ProductID,
			Name:          req.Name,
			Brand:         req.Brand,
			Image:         req.Image,
			Price:         req.Price,
			OriginalPrice: req.OriginalPrice,
			Quantity:      req.Quantity,
			Discount:      req.Discount,
			Variant:       req.Variant,
		})
		if err != nil {
			fail(c, err)
			return
		}
		responses.OK(c, http.StatusOK, "Produit ajouté au panier", NewCartView(result))
	}
}

// 🟢 PATCH /api/cart
func UpdateCartItem(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidBody(c, err)
			return
		}
		c.Set(middleware.AuditResourceKey, req.ProductID)

		result, err := svc.UpdateQuantity(c.Request.Context(), middleware.GetIdentity(c), cart.UpdateInput{
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			Variant:   req.Variant,
		})
		if err != nil {
			fail(c, err)
			return
		}
		responses.OK(c, http.StatusOK, "Quantité mise à jour", NewCartView(result))
	}
}

// 🟢 DELETE /api/cart
// Le corps peut être omis au profit de ?productId= (sans variante).
func RemoveFromCart(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req removeItemRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
				invalidBody(c, err)
				return
			}
		}
		if req.ProductID == "" {
			req.ProductID = c.Query("productId")
		}
		c.Set(middleware.AuditResourceKey, req.ProductID)

		result, err := svc.Remove(c.Request.Context(), middleware.GetIdentity(c), cart.RemoveInput{
			ProductID: req.ProductID,
			Variant:   req.Variant,
		})
		if err != nil {
			fail(c, err)
			return
		}
		responses.OK(c, http.StatusOK, "Produit retiré du panier", NewCartView(result))
	}
}

// 🟢 DELETE /api/cart/clear
func ClearCart(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := svc.Clear(c.Request.Context(), middleware.GetIdentity(c))
		if err != nil {
			fail(c, err)
			return
		}
		responses.OK(c, http.StatusOK, "Panier vidé", NewCartView(result))
	}
}

// 🟢 GET /api/cart/count
func CartCount(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := svc.Get(c.Request.Context(), middleware.GetIdentity(c))
		if err != nil {
			fail(c, err)
			return
		}
		responses.OK(c, http.StatusOK, "", gin.H{
			"totalItems": result.TotalItems,
			"lines":      len(result.Items),
		})
	}
}

func invalidBody(c *gin.Context, err error) {
	_ = c.Error(err)
	responses.Fail(c, http.StatusBadRequest, "Données invalides")
}

// fail traduit une erreur métier en réponse; les erreurs internes ne sont
// jamais exposées au client.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)

	switch cart.KindOf(err) {
	case cart.KindValidation, cart.KindOutOfStock:
		responses.Fail(c, http.StatusBadRequest, err.Error())
	case cart.KindUnauthorized:
		responses.Fail(c, http.StatusUnauthorized, err.Error())
	case cart.KindNotFound:
		responses.Fail(c, http.StatusNotFound, err.Error())
	default:
		log.Printf("❌ Erreur panier (request %s): %v", middleware.GetRequestID(c), err)
		responses.Fail(c, http.StatusInternalServerError, "Erreur serveur")
	}
}
