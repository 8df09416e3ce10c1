// Package testhelper starts a shared PostgreSQL container for integration
// tests and seeds the content schema.
package testhelper

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mlevkov/faqpress-backend/internal/adapter/postgres"
)

const (
	pgImage = "postgres:17-alpine"
	pgUser  = "faqpress"
	pgPass  = "faqpress"
	pgDB    = "faqpress_test"
)

var (
	once      sync.Once
	sharedDSN string
	initErr   error
)

// SetupTestDB starts one PostgreSQL container for the whole test run,
// applies the embedded migrations, and returns a fresh pool connected to
// it. The pool is closed via t.Cleanup; the container lives until the
// process exits.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	once.Do(func() {
		sharedDSN, initErr = startContainer()
	})
	if initErr != nil {
		t.Fatalf("testhelper: setup test DB: %v", initErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, sharedDSN)
	if err != nil {
		t.Fatalf("testhelper: create pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

func startContainer() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        pgImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPass,
				"POSTGRES_DB":       pgDB,
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", fmt.Errorf("container port: %w", err)
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		pgUser, pgPass, host, port.Port(), pgDB)

	if err := postgres.Migrate(ctx, dsn); err != nil {
		return "", fmt.Errorf("apply migrations: %w", err)
	}

	return dsn, nil
}
