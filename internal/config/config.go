package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config regroupe toute la configuration du service panier.
type Config struct {
	Port string

	MongoURI      string
	MongoDatabase string

	RedisHost     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	// TrustUserHeader: X-User-ID accepté sans token (derrière une passerelle).
	TrustUserHeader bool

	ScyllaHosts    []string
	ScyllaKeyspace string
	ScyllaUsername string
	ScyllaPassword string

	CORSOrigins   []string
	GinMode       string
	CartRateLimit int
}

const (
	DefaultPort          = "8080"
	DefaultMongoDatabase = "marketplace"
	DefaultCartRateLimit = 20
)

// Load charge .env puis lit l'environnement.
func Load() (*Config, error) {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé — on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// FromEnv construit la config à partir d'une fonction de lecture (os.Getenv en prod).
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:           withDefault(getenv("PORT"), DefaultPort),
		MongoURI:       getenv("MONGO_URI"),
		MongoDatabase:  withDefault(getenv("MONGO_DATABASE"), DefaultMongoDatabase),
		RedisHost:      getenv("REDIS_HOST"),
		RedisPassword:  getenv("REDIS_PASSWORD"),
		JWTSecret:      getenv("JWT_SECRET"),
		ScyllaHosts:    splitList(getenv("SCYLLA_HOSTS")),
		ScyllaKeyspace: getenv("SCYLLA_KS_AUDIT_KEYSPACE"),
		ScyllaUsername: getenv("SCYLLA_USERNAME"),
		ScyllaPassword: getenv("SCYLLA_PASSWORD"),
		CORSOrigins:    splitList(getenv("CORS_ORIGINS")),
		GinMode:        getenv("GIN_MODE"),
		CartRateLimit:  DefaultCartRateLimit,
	}

	if v := getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("REDIS_DB invalide %q: %w", v, err)
		}
		cfg.RedisDB = db
	}
	cfg.TrustUserHeader = cfg.JWTSecret == ""
	if v := getenv("TRUST_USER_HEADER"); v != "" {
		trust, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("TRUST_USER_HEADER invalide %q: %w", v, err)
		}
		cfg.TrustUserHeader = trust
	}
	if v := getenv("CART_RATE_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("CART_RATE_LIMIT invalide %q: %w", v, err)
		}
		cfg.CartRateLimit = limit
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.MongoURI == "" {
		errs = append(errs, errors.New("MONGO_URI non configuré"))
	}
	if c.CartRateLimit < 0 {
		errs = append(errs, errors.New("CART_RATE_LIMIT doit être positif"))
	}
	if c.JWTSecret == "" && !c.TrustUserHeader {
		errs = append(errs, errors.New("JWT_SECRET requis quand TRUST_USER_HEADER=false"))
	}
	if c.ScyllaKeyspace != "" && len(c.ScyllaHosts) == 0 {
		errs = append(errs, errors.New("SCYLLA_HOSTS requis avec SCYLLA_KS_AUDIT_KEYSPACE"))
	}
	return errors.Join(errs...)
}

// RedisEnabled: sans REDIS_HOST le panier fonctionne sans cache ni rate limit.
func (c *Config) RedisEnabled() bool { return c.RedisHost != "" }

func (c *Config) ScyllaEnabled() bool { return c.ScyllaKeyspace != "" }

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
