package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marketplace_back_end/internal/auth"
	"marketplace_back_end/internal/cart"
	"marketplace_back_end/internal/models"
	"marketplace_back_end/internal/store"
	"marketplace_back_end/internal/testhelpers"
)

func setupMongo(t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("test conteneur ignoré en mode short")
	}

	uri := testhelpers.StartMongo(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	require.NoError(t, client.Ping(ctx, nil))

	return client.Database("marketplace_test")
}

func identity(t *testing.T, userID string) auth.Identity {
	t.Helper()
	id, err := auth.NewIdentity(userID)
	require.NoError(t, err)
	return id
}

func TestMongoCartStore_RoundTrip(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()
	s := store.NewMongoCartStore(db)
	require.NoError(t, s.EnsureIndexes(ctx))

	_, err := s.FindByUser(ctx, "u-1")
	assert.ErrorIs(t, err, cart.ErrCartNotFound)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := &models.Cart{
		User: "u-1",
		Items: []models.CartItem{{
			ProductID: "P1",
			Name:      "Sneaker",
			Price:     49.9,
			Quantity:  2,
			Variant:   models.NewVariant(map[string]string{"size": "42", "color": "red"}),
		}},
		TotalItems: 2,
		TotalPrice: 99.8,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, s.Save(ctx, c))
	assert.False(t, c.ID.IsZero())

	got, err := s.FindByUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].Variant.Equal(models.NewVariant(map[string]string{"color": "red", "size": "42"})))
	assert.Equal(t, 99.8, got.TotalPrice)
	assert.WithinDuration(t, now, got.CreatedAt, time.Millisecond)

	// Deuxième sauvegarde: remplacement, pas de nouveau document.
	got.Items = nil
	got.TotalItems, got.TotalPrice = 0, 0
	require.NoError(t, s.Save(ctx, got))

	n, err := db.Collection(store.CartsCollection).CountDocuments(ctx, bson.M{"user": "u-1"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	cleared, err := s.FindByUser(ctx, "u-1")
	require.NoError(t, err)
	assert.NotNil(t, cleared.Items)
	assert.Empty(t, cleared.Items)
}

func TestMongoCatalog_FindProduct(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()
	coll := db.Collection(store.ProductsCollection)

	oid := primitive.NewObjectID()
	vendor := primitive.NewObjectID()
	_, err := coll.InsertMany(ctx, []any{
		bson.M{"_id": oid, "name": "Veste", "brand": "Nord", "price": 120.0, "stock": 4, "isActive": true, "vendor": vendor, "images": []string{"a.jpg", "b.jpg"}},
		bson.M{"_id": "sku-42", "name": "Bonnet", "price": 15.0, "stock": 0, "isActive": false, "vendor": "v-9"},
	})
	require.NoError(t, err)

	catalog := store.NewMongoCatalog(db)

	p, err := catalog.FindProduct(ctx, oid.Hex())
	require.NoError(t, err)
	assert.Equal(t, oid.Hex(), p.ID)
	assert.Equal(t, "Veste", p.Name)
	assert.Equal(t, 4, p.Stock)
	assert.True(t, p.IsActive)
	assert.Equal(t, vendor.Hex(), p.Vendor)
	assert.Equal(t, "a.jpg", p.FirstImage())

	p, err = catalog.FindProduct(ctx, "sku-42")
	require.NoError(t, err)
	assert.False(t, p.IsActive)
	assert.Equal(t, "v-9", p.Vendor)

	_, err = catalog.FindProduct(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, cart.ErrProductNotFound)
	_, err = catalog.FindProduct(ctx, "missing")
	assert.ErrorIs(t, err, cart.ErrProductNotFound)
}

// Le service complet sur Mongo: la fusion par variante survit à la persistance.
func TestMongo_ServiceMergeAfterReload(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()

	oid := primitive.NewObjectID()
	_, err := db.Collection(store.ProductsCollection).InsertOne(ctx,
		bson.M{"_id": oid, "name": "T-shirt", "price": 20.0, "stock": 5, "isActive": true})
	require.NoError(t, err)

	svc := cart.NewService(store.NewMongoCartStore(db), store.NewMongoCatalog(db))
	id := identity(t, "u-merge")
	price := 20.0
	two := 2

	add := func(v map[string]string) (*models.Cart, error) {
		return svc.Add(ctx, id, cart.AddInput{
			ProductID: oid.Hex(), Name: "T-shirt", Brand: "Nord", Image: "t.jpg",
			Price: &price, Quantity: &two, Variant: models.NewVariant(v),
		})
	}

	_, err = add(map[string]string{"color": "red", "size": "M"})
	require.NoError(t, err)
	c, err := add(map[string]string{"size": "M", "color": "red"})
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 4, c.Items[0].Quantity)
	assert.Equal(t, 80.0, c.TotalPrice)

	_, err = add(map[string]string{"color": "red", "size": "M"})
	assert.ErrorIs(t, err, cart.ErrOutOfStock)

	reloaded, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 4, reloaded.TotalItems)
}
