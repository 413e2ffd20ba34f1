package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Clés Redis partagées par le cache, le rate limit et le websocket.
// Le canal pub/sub d'un panier porte le même nom que sa clé.
func CartKey(userID string) string {
	return "cart:" + userID
}

func CartChannel(userID string) string {
	return CartKey(userID)
}

func ProductKey(productID string) string {
	return "product:" + productID
}

func RateLimitKey(scope, userID string) string {
	return fmt.Sprintf("rate_limit:%s:%s", scope, userID)
}

// Messages publiés sur le canal du panier.
const (
	EventUpdated = "updated"
	EventCleared = "cleared"
)

// GetRateLimit retourne le compteur courant (0 si la clé n'existe pas).
func GetRateLimit(ctx context.Context, rdb redis.Cmdable, key string) (int64, error) {
	val, err := rdb.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return val, err
}

// IncrementRateLimit incrémente le compteur. La fenêtre n'est armée qu'à la
// création de la clé: les requêtes suivantes ne la prolongent pas.
func IncrementRateLimit(ctx context.Context, rdb redis.Cmdable, key string, window time.Duration) (int64, error) {
	n, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// TTL restant de la fenêtre, utilisé pour Retry-After.
func RateLimitTTL(ctx context.Context, rdb redis.Cmdable, key string) time.Duration {
	ttl, err := rdb.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		return 0
	}
	return ttl
}
