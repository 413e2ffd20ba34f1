package middleware

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"marketplace_back_end/internal/cache"
	"marketplace_back_end/internal/responses"
)

const CartRateWindow = 1 * time.Minute

// CartRateLimit limite les mutations du panier par utilisateur (anti-spam).
// Sans Redis, ou avec une limite à 0, tout passe.
func CartRateLimit(rdb redis.Cmdable, limit int) gin.HandlerFunc {
	return CartRateLimitWindow(rdb, limit, CartRateWindow)
}

// CartRateLimitWindow: au plus limit requêtes par fenêtre fixe de durée window.
func CartRateLimitWindow(rdb redis.Cmdable, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := GetIdentity(c)
		if rdb == nil || limit <= 0 || !identity.Valid() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := cache.RateLimitKey("cart", identity.UserID)

		requests, err := cache.GetRateLimit(ctx, rdb, key)
		if err != nil {
			log.Printf("⚠️ Rate limit panier indisponible: %v", err)
			c.Next()
			return
		}
		if requests >= int64(limit) {
			retry := cache.RateLimitTTL(ctx, rdb, key)
			if retry <= 0 {
				retry = window
			}
			c.Header("Retry-After", strconv.Itoa(int(retry.Seconds())))
			responses.Abort(c, http.StatusTooManyRequests, "Trop de modifications du panier. Ralentissez un peu")
			return
		}

		if _, err := cache.IncrementRateLimit(ctx, rdb, key, window); err != nil {
			log.Printf("⚠️ Rate limit panier indisponible: %v", err)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", int64(limit)-requests-1))
		c.Next()
	}
}
