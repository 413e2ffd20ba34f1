package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marketplace_back_end/internal/cart"
	"marketplace_back_end/internal/models"
)

const CartsCollection = "carts"

// MongoCartStore stocke un document par utilisateur dans la collection "carts".
// L'écriture d'un document est atomique, c'est la seule garantie utilisée.
type MongoCartStore struct {
	coll *mongo.Collection
}

func NewMongoCartStore(db *mongo.Database) *MongoCartStore {
	return &MongoCartStore{coll: db.Collection(CartsCollection)}
}

// EnsureIndexes crée l'index unique sur "user" (un panier par utilisateur).
func (s *MongoCartStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("user_unique"),
	})
	if err != nil {
		return fmt.Errorf("création index carts.user: %w", err)
	}
	log.Println("✅ Index carts.user prêt")
	return nil
}

func (s *MongoCartStore) FindByUser(ctx context.Context, userID string) (*models.Cart, error) {
	var c models.Cart
	err := s.coll.FindOne(ctx, bson.M{"user": userID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, cart.ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lecture panier %s: %w", userID, err)
	}
	return &c, nil
}

// Save remplace le document entier (upsert sur "user").
func (s *MongoCartStore) Save(ctx context.Context, c *models.Cart) error {
	doc := *c
	if doc.Items == nil {
		doc.Items = []models.CartItem{}
	}

	res, err := s.coll.ReplaceOne(ctx, bson.M{"user": c.User}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("sauvegarde panier %s: %w", c.User, err)
	}
	if id, ok := res.UpsertedID.(primitive.ObjectID); ok {
		c.ID = id
	}
	return nil
}
