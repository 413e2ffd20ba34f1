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

const CartTTL = 30 * 24 * time.Hour // 30 jours

// CartCache garde une copie JSON du panier dans Redis devant le store
// persistant. Le store reste la source de vérité: une panne Redis ne fait
// que ralentir les lectures.
type CartCache struct {
	rdb  redis.UniversalClient
	next cart.Store
	ttl  time.Duration
}

var _ cart.Store = (*CartCache)(nil)

func NewCartCache(rdb redis.UniversalClient, next cart.Store) *CartCache {
	return &CartCache{rdb: rdb, next: next, ttl: CartTTL}
}

func (c *CartCache) FindByUser(ctx context.Context, userID string) (*models.Cart, error) {
	data, err := c.rdb.Get(ctx, CartKey(userID)).Bytes()
	switch {
	case err == nil:
		var snapshot models.Cart
		if jsonErr := json.Unmarshal(data, &snapshot); jsonErr == nil {
			return &snapshot, nil
		}
		log.Printf("⚠️ Panier Redis illisible pour %s, relecture du store", userID)
	case !errors.Is(err, redis.Nil):
		log.Printf("⚠️ Redis indisponible (lecture panier %s): %v", userID, err)
	}

	found, err := c.next.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(found); err == nil {
		if err := c.rdb.Set(ctx, CartKey(userID), data, c.ttl).Err(); err != nil {
			log.Printf("⚠️ Mise en cache panier %s impossible: %v", userID, err)
		}
	}
	return found, nil
}

// Save écrit d'abord dans le store, puis met à jour Redis et notifie les
// abonnés dans le même pipeline.
func (c *CartCache) Save(ctx context.Context, cartDoc *models.Cart) error {
	if err := c.next.Save(ctx, cartDoc); err != nil {
		return err
	}

	data, err := json.Marshal(cartDoc)
	if err != nil {
		c.invalidate(ctx, cartDoc.User)
		return nil
	}

	event := EventUpdated
	if cartDoc.IsEmpty() {
		event = EventCleared
	}

	pipe := c.rdb.Pipeline()
	pipe.Set(ctx, CartKey(cartDoc.User), data, c.ttl)
	pipe.Publish(ctx, CartChannel(cartDoc.User), event)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("⚠️ Synchronisation Redis du panier %s échouée: %v", cartDoc.User, err)
		c.invalidate(ctx, cartDoc.User)
	}
	return nil
}

// Invalidate retire la copie Redis, la prochaine lecture repasse par le store.
func (c *CartCache) Invalidate(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, CartKey(userID)).Err()
}

func (c *CartCache) invalidate(ctx context.Context, userID string) {
	if err := c.Invalidate(ctx, userID); err != nil {
		log.Printf("❌ Panier %s potentiellement périmé dans Redis: %v", userID, err)
	}
}
