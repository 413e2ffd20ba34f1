// Package testhelpers démarre MongoDB et Redis dans Docker pour les tests d'intégration.
//
// Les conteneurs sont arrêtés via t.Cleanup. Les tests appelants doivent
// sauter en mode -short:
//
//	if testing.Short() {
//	    t.Skip("test conteneur ignoré en mode short")
//	}
package testhelpers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	MongoImage = "mongo:7"
	RedisImage = "redis:7-alpine"
)

// StartMongo retourne une URI mongodb:// vers un conteneur neuf.
func StartMongo(t *testing.T) string {
	t.Helper()

	addr := start(t, testcontainers.ContainerRequest{
		Image:        MongoImage,
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(90 * time.Second),
	}, "27017/tcp")
	return "mongodb://" + addr
}

// StartRedis retourne l'adresse host:port d'un conteneur Redis neuf.
func StartRedis(t *testing.T) string {
	t.Helper()

	return start(t, testcontainers.ContainerRequest{
		Image:        RedisImage,
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
	}, "6379/tcp")
}

func start(t *testing.T, req testcontainers.ContainerRequest, port string) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start %s container: %v", req.Image, err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate %s container: %v", req.Image, err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get %s host: %v", req.Image, err)
	}
	mapped, err := container.MappedPort(ctx, port)
	if err != nil {
		t.Fatalf("Failed to get %s port: %v", req.Image, err)
	}

	addr := fmt.Sprintf("%s:%d", host, mapped.Int())
	t.Logf("%s started: %s", req.Image, addr)
	return addr
}
