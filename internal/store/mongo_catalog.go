package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marketplace_back_end/internal/cart"
	"marketplace_back_end/internal/models"
)

const ProductsCollection = "products"

// productDocument est la forme stockée par le back-office vendeurs.
// _id et vendor peuvent être des ObjectID ou des chaînes.
type productDocument struct {
	ID            any      `bson:"_id"`
	Name          string   `bson:"name"`
	Brand         string   `bson:"brand"`
	Price         float64  `bson:"price"`
	OriginalPrice float64  `bson:"originalPrice"`
	Stock         int      `bson:"stock"`
	IsActive      bool     `bson:"isActive"`
	Vendor        any      `bson:"vendor"`
	Images        []string `bson:"images"`
}

// MongoCatalog lit les produits. Le panier ne modifie jamais le stock.
type MongoCatalog struct {
	coll *mongo.Collection
}

func NewMongoCatalog(db *mongo.Database) *MongoCatalog {
	return &MongoCatalog{coll: db.Collection(ProductsCollection)}
}

var productProjection = bson.M{
	"name": 1, "brand": 1, "price": 1, "originalPrice": 1,
	"stock": 1, "isActive": 1, "vendor": 1, "images": 1,
}

func (s *MongoCatalog) FindProduct(ctx context.Context, productID string) (*models.Product, error) {
	var doc productDocument
	opts := options.FindOne().SetProjection(productProjection)
	err := s.coll.FindOne(ctx, bson.M{"_id": productKey(productID)}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, cart.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lecture produit %s: %w", productID, err)
	}

	return &models.Product{
		ID:            productID,
		Name:          doc.Name,
		Brand:         doc.Brand,
		Price:         doc.Price,
		OriginalPrice: doc.OriginalPrice,
		Stock:         doc.Stock,
		IsActive:      doc.IsActive,
		Vendor:        idString(doc.Vendor),
		Images:        doc.Images,
	}, nil
}

// productKey utilise un ObjectID quand l'identifiant en a la forme.
func productKey(id string) any {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

func idString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return t.Hex()
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
