package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace_back_end/internal/config"
)

func env(values map[string]string) func(string) string {
	return func(k string) string { return values[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := config.FromEnv(env(map[string]string{"MONGO_URI": "mongodb://localhost:27017"}))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultPort, cfg.Port)
	assert.Equal(t, config.DefaultMongoDatabase, cfg.MongoDatabase)
	assert.Equal(t, config.DefaultCartRateLimit, cfg.CartRateLimit)
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.ScyllaEnabled())
	assert.True(t, cfg.TrustUserHeader)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_TrustUserHeader(t *testing.T) {
	cfg, err := config.FromEnv(env(map[string]string{"MONGO_URI": "mongodb://db", "JWT_SECRET": "s3cret"}))
	require.NoError(t, err)
	assert.False(t, cfg.TrustUserHeader)

	cfg, err = config.FromEnv(env(map[string]string{"MONGO_URI": "mongodb://db", "JWT_SECRET": "s3cret", "TRUST_USER_HEADER": "true"}))
	require.NoError(t, err)
	assert.True(t, cfg.TrustUserHeader)

	cfg, err = config.FromEnv(env(map[string]string{"MONGO_URI": "mongodb://db", "TRUST_USER_HEADER": "false"}))
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")

	_, err = config.FromEnv(env(map[string]string{"TRUST_USER_HEADER": "peut-être"}))
	assert.ErrorContains(t, err, "TRUST_USER_HEADER")
}

func TestFromEnv_Values(t *testing.T) {
	cfg, err := config.FromEnv(env(map[string]string{
		"PORT":                     "9000",
		"MONGO_URI":                "mongodb://db:27017",
		"MONGO_DATABASE":           "shop",
		"REDIS_HOST":               "redis:6379",
		"REDIS_DB":                 "2",
		"SCYLLA_HOSTS":             "10.0.0.1, 10.0.0.2,",
		"SCYLLA_KS_AUDIT_KEYSPACE": "audit",
		"CORS_ORIGINS":             "https://shop.example,https://admin.example",
		"CART_RATE_LIMIT":          "5",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "shop", cfg.MongoDatabase)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.ScyllaHosts)
	assert.Len(t, cfg.CORSOrigins, 2)
	assert.Equal(t, 5, cfg.CartRateLimit)
	assert.True(t, cfg.RedisEnabled())
	assert.True(t, cfg.ScyllaEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_InvalidNumbers(t *testing.T) {
	_, err := config.FromEnv(env(map[string]string{"REDIS_DB": "zero"}))
	assert.ErrorContains(t, err, "REDIS_DB")

	_, err = config.FromEnv(env(map[string]string{"CART_RATE_LIMIT": "beaucoup"}))
	assert.ErrorContains(t, err, "CART_RATE_LIMIT")
}

func TestValidate(t *testing.T) {
	cfg, err := config.FromEnv(env(map[string]string{"SCYLLA_KS_AUDIT_KEYSPACE": "audit"}))
	require.NoError(t, err)

	err = cfg.Validate()
	assert.ErrorContains(t, err, "MONGO_URI")
	assert.ErrorContains(t, err, "SCYLLA_HOSTS")
}
