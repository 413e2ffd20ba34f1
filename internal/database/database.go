package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gocql/gocql"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"marketplace_back_end/internal/config"
)

// Connections regroupe les clients ouverts au démarrage.
// Redis et Scylla sont nil quand ils ne sont pas configurés.
type Connections struct {
	Mongo  *mongo.Client
	DB     *mongo.Database
	Redis  *redis.Client
	Scylla *gocql.Session
}

// Connect ouvre MongoDB (obligatoire) puis Redis et Scylla s'ils sont configurés.
func Connect(ctx context.Context, cfg *config.Config) (*Connections, error) {
	conns := &Connections{}

	if err := conns.connectMongo(ctx, cfg); err != nil {
		return nil, err
	}

	if cfg.RedisEnabled() {
		if err := conns.connectRedis(ctx, cfg); err != nil {
			conns.Close(ctx)
			return nil, err
		}
	} else {
		log.Println("⚠️ REDIS_HOST non configuré — pas de cache panier ni de rate limit")
	}

	if cfg.ScyllaEnabled() {
		if err := conns.connectScylla(cfg); err != nil {
			conns.Close(ctx)
			return nil, err
		}
	} else {
		log.Println("⚠️ SCYLLA_KS_AUDIT_KEYSPACE non configuré — audit écrit dans les logs")
	}

	log.Println("✅ Toutes les bases de données sont connectées")
	return conns, nil
}

func (c *Connections) connectMongo(ctx context.Context, cfg *config.Config) error {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.MongoURI).
		SetServerSelectionTimeout(10*time.Second))
	if err != nil {
		return fmt.Errorf("connexion MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("ping MongoDB: %w", err)
	}

	c.Mongo = client
	c.DB = client.Database(cfg.MongoDatabase)
	log.Printf("✅ Connecté à MongoDB (base %s)", cfg.MongoDatabase)
	return nil
}

func (c *Connections) connectRedis(ctx context.Context, cfg *config.Config) error {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisHost,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("impossible de se connecter à Redis: %w", err)
	}

	c.Redis = client
	log.Println("✅ Connecté à Redis")
	return nil
}

func (c *Connections) connectScylla(cfg *config.Config) error {
	cluster := gocql.NewCluster(cfg.ScyllaHosts...)
	cluster.Keyspace = cfg.ScyllaKeyspace
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = 5 * time.Second
	cluster.ReconnectInterval = 1 * time.Second
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())
	if cfg.ScyllaUsername != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.ScyllaUsername,
			Password: cfg.ScyllaPassword,
		}
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return fmt.Errorf("erreur création session ScyllaDB pour %s: %w", cfg.ScyllaKeyspace, err)
	}
	if err := EnsureAuditSchema(session); err != nil {
		session.Close()
		return err
	}

	c.Scylla = session
	log.Printf("✅ Session ScyllaDB pour keyspace '%s'", cfg.ScyllaKeyspace)
	return nil
}

// Ping vérifie MongoDB et, s'il est configuré, Redis.
func (c *Connections) Ping(ctx context.Context) map[string]error {
	status := map[string]error{"mongo": c.Mongo.Ping(ctx, readpref.Primary())}
	if c.Redis != nil {
		status["redis"] = c.Redis.Ping(ctx).Err()
	}
	return status
}

// Close ferme tout ce qui a été ouvert; les erreurs sont cumulées.
func (c *Connections) Close(ctx context.Context) error {
	var errs []error
	if c.Scylla != nil {
		c.Scylla.Close()
		log.Println("🔌 Session ScyllaDB fermée")
	}
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	if c.Mongo != nil {
		errs = append(errs, c.Mongo.Disconnect(ctx))
	}
	return errors.Join(errs...)
}
