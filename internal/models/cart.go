package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cart est le document panier, un seul par utilisateur.
// TotalItems et TotalPrice sont dérivés des lignes et recalculés avant chaque sauvegarde.
type Cart struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	User       string             `bson:"user" json:"user"`
	Items      []CartItem         `bson:"items" json:"items"`
	TotalItems int                `bson:"totalItems" json:"totalItems"`
	TotalPrice float64            `bson:"totalPrice" json:"totalPrice"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// CartItem est une ligne du panier. Name, Brand, Image et Price sont
// figés au moment de l'ajout.
type CartItem struct {
	ProductID     string  `bson:"productId" json:"productId"`
	Name          string  `bson:"name" json:"name"`
	Brand         string  `bson:"brand" json:"brand"`
	Image         string  `bson:"image" json:"image"`
	Price         float64 `bson:"price" json:"price"`
	OriginalPrice float64 `bson:"originalPrice,omitempty" json:"originalPrice,omitempty"`
	Quantity      int     `bson:"quantity" json:"quantity"`
	Discount      float64 `bson:"discount,omitempty" json:"discount,omitempty"` // 0-100
	Vendor        string  `bson:"vendor,omitempty" json:"vendor,omitempty"`
	Variant       Variant `bson:"variant,omitempty" json:"variant,omitzero"`
}

// NewEmptyCart retourne un panier synthétique vide (jamais persisté tel quel).
func NewEmptyCart(userID string) *Cart {
	return &Cart{
		User:  userID,
		Items: []CartItem{},
	}
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Clone copie le panier pour pouvoir le modifier sans toucher à l'original.
func (c *Cart) Clone() *Cart {
	out := *c
	out.Items = make([]CartItem, len(c.Items))
	copy(out.Items, c.Items)
	return &out
}
