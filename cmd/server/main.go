package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"marketplace_back_end/internal/audit"
	"marketplace_back_end/internal/cache"
	"marketplace_back_end/internal/cart"
	"marketplace_back_end/internal/config"
	"marketplace_back_end/internal/database"
	"marketplace_back_end/internal/middleware"
	"marketplace_back_end/internal/models"
	"marketplace_back_end/internal/routes"
	"marketplace_back_end/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Configuration invalide: %v", err)
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	conns, err := database.Connect(ctx, cfg)
	if err != nil {
		cancel()
		log.Fatalf("❌ Échec connexion bases de données: %v", err)
	}

	carts := store.NewMongoCartStore(conns.DB)
	if err := carts.EnsureIndexes(ctx); err != nil {
		cancel()
		log.Fatalf("❌ %v", err)
	}
	cancel()
	catalog := store.NewMongoCatalog(conns.DB)

	var sink audit.Sink = audit.LogSink{}
	if conns.Scylla != nil {
		sink = audit.NewScyllaSink(conns.Scylla)
	}
	auditLogger := audit.NewLogger(sink, audit.DefaultBufferSize)

	deps := routes.Deps{
		Health:          conns,
		Audit:           auditLogger,
		JWTSecret:       []byte(cfg.JWTSecret),
		TrustUserHeader: cfg.TrustUserHeader,
		CartRateLimit:   cfg.CartRateLimit,
		CheckOrigin:     originChecker(cfg.CORSOrigins),
	}
	if conns.Redis != nil {
		deps.Redis = conns.Redis
		deps.Cart = cart.NewService(cache.NewCartCache(conns.Redis, carts), catalog)
		deps.Products = cache.NewProductCache(conns.Redis, catalog)
	} else {
		deps.Cart = cart.NewService(carts, catalog)
		deps.Products = catalogReader{catalog}
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.RequestID(), cors.New(corsConfig(cfg.CORSOrigins)))
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Println("🚀 Serveur panier lancé sur le port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Serveur HTTP: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Arrêt du serveur...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Arrêt HTTP forcé: %v", err)
	}
	if err := auditLogger.Close(shutdownCtx); err != nil {
		log.Printf("⚠️ Logs d'audit non vidés: %v", err)
	}
	if err := conns.Close(shutdownCtx); err != nil {
		log.Printf("⚠️ Fermeture bases de données: %v", err)
	}
	log.Println("✅ Serveur arrêté")
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.UserIDHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "Retry-After"},
		AllowCredentials: len(origins) > 0,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// originChecker applique la même liste d'origines au websocket.
func originChecker(origins []string) func(*http.Request) bool {
	if len(origins) == 0 {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(origins, origin)
	}
}

// catalogReader sert les fiches produit sans cache quand Redis est absent.
type catalogReader struct {
	catalog cart.Catalog
}

func (c catalogReader) Get(ctx context.Context, productID string) (*models.Product, error) {
	return c.catalog.FindProduct(ctx, productID)
}
