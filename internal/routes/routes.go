package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"marketplace_back_end/internal/audit"
	"marketplace_back_end/internal/handlers"
	"marketplace_back_end/internal/middleware"
)

// Deps regroupe ce que les routes injectent dans les handlers.
// Redis peut être nil: pas de rate limit ni de websocket.
type Deps struct {
	Cart      handlers.CartService
	Products  handlers.ProductReader
	Health    handlers.Pinger
	Audit     middleware.AuditRecorder
	Redis     redis.UniversalClient
	JWTSecret []byte
	// TrustUserHeader accepte X-User-ID sans token.
	TrustUserHeader bool
	CartRateLimit   int
	CheckOrigin     func(*http.Request) bool
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", handlers.Health(d.Health))

	api := r.Group("/api")
	api.GET("/products/:id", handlers.GetProduct(d.Products))

	var limiter redis.Cmdable
	if d.Redis != nil {
		limiter = d.Redis
	}

	cart := api.Group("/cart", middleware.Identity(d.JWTSecret, d.TrustUserHeader))
	{
		cart.GET("", handlers.GetCart(d.Cart))
		cart.GET("/count", handlers.CartCount(d.Cart))
		cart.GET("/ws", handlers.CartWebSocket(d.Redis, d.Cart, d.CheckOrigin))

		mutations := cart.Group("", middleware.CartRateLimit(limiter, d.CartRateLimit))
		mutations.POST("", middleware.AuditCartAction(d.Audit, audit.ActionCartAdd), handlers.AddToCart(d.Cart))
		mutations.PATCH("", middleware.AuditCartAction(d.Audit, audit.ActionCartUpdate), handlers.UpdateCartItem(d.Cart))
		mutations.DELETE("", middleware.AuditCartAction(d.Audit, audit.ActionCartRemove), handlers.RemoveFromCart(d.Cart))
		mutations.DELETE("/clear", middleware.AuditCartAction(d.Audit, audit.ActionCartClear), handlers.ClearCart(d.Cart))
	}
}
