package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gowallet/internal/infrastructure/postgres"
)

// TestDB provides an isolated test database connection for integration
// tests that opt into a real PostgreSQL via DATABASE_URL.
type TestDB struct {
	Pool *pgxpool.Pool
	t    *testing.T
}

// NewTestDB connects to the database named by DATABASE_URL and applies
// pending migrations. Tests calling it are skipped when DATABASE_URL is
// not set.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set; skipping postgres integration test")
	}

	migrationsPath := "migrations"
	if _, err := os.Stat(migrationsPath); os.IsNotExist(err) {
		// Relative from tests/integration.
		migrationsPath = "../../migrations"
	}

	if err := postgres.RunMigrations(dbURL, migrationsPath); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	return &TestDB{
		Pool: pool,
		t:    t,
	}
}

// Cleanup closes the database connection.
func (db *TestDB) Cleanup() {
	db.Pool.Close()
}

// TruncateLedger wipes the transaction log and resets the ID sequence
// so every test case starts from an empty wallet.
func (db *TestDB) TruncateLedger(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `TRUNCATE TABLE wallet_transactions RESTART IDENTITY`)
	if err != nil {
		db.t.Fatalf("failed to truncate wallet_transactions: %v", err)
	}
}
