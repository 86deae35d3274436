package testutil

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/dimitrije/rosterdesk-api/internal/database"
	"github.com/docker/go-connections/nat"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB is a migrated Postgres reached through the same database.New the
// API uses.
type TestDB struct {
	DB        *database.DB
	Container testcontainers.Container
}

// startContainer runs req until the test ends and returns host:port for
// the given container port.
func startContainer(t *testing.T, req testcontainers.ContainerRequest, port string) (testcontainers.Container, string) {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start %s", req.Image)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate %s: %v", req.Image, err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err, "failed to get container host")
	mapped, err := container.MappedPort(ctx, nat.Port(port))
	require.NoError(t, err, "failed to get container port")

	return container, net.JoinHostPort(host, mapped.Port())
}

func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	container, addr := startContainer(t, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "rosterdesk",
			"POSTGRES_PASSWORD": "rosterdesk",
			"POSTGRES_DB":       "rosterdesk_test",
		},
		// Postgres logs readiness twice: once for the init run, once for real.
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}, "5432")

	ctx := context.Background()
	db, err := database.New(ctx, fmt.Sprintf("postgres://rosterdesk:rosterdesk@%s/rosterdesk_test?sslmode=disable", addr))
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate(ctx), "failed to run migrations")
	return &TestDB{DB: db, Container: container}
}

// SetupTestRedis backs the link metadata cache in integration tests.
func SetupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	_, addr := startContainer(t, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	}, "6379")

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err(), "failed to ping redis")
	return client
}
