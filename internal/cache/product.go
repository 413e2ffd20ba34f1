package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"marketplace_back_end/internal/cart"
	"marketplace_back_end/internal/models"
)

const ProductCacheTTL = 1 * time.Minute

// ProductCache sert les fiches produit affichées par la boutique.
// La vérification de stock du panier n'y passe jamais.
type ProductCache struct {
	rdb     redis.UniversalClient
	catalog cart.Catalog
	ttl     time.Duration
}

func NewProductCache(rdb redis.UniversalClient, catalog cart.Catalog) *ProductCache {
	return &ProductCache{rdb: rdb, catalog: catalog, ttl: ProductCacheTTL}
}

func (p *ProductCache) Get(ctx context.Context, productID string) (*models.Product, error) {
	key := ProductKey(productID)

	data, err := p.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var product models.Product
		if json.Unmarshal(data, &product) == nil {
			return &product, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("⚠️ Redis indisponible (produit %s): %v", productID, err)
	}

	product, err := p.catalog.FindProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(product); err == nil {
		if err := p.rdb.Set(ctx, key, data, p.ttl).Err(); err != nil {
			log.Printf("⚠️ Mise en cache produit %s impossible: %v", productID, err)
		}
	}
	return product, nil
}

func (p *ProductCache) Invalidate(ctx context.Context, productID string) error {
	return p.rdb.Del(ctx, ProductKey(productID)).Err()
}
