// Package testutil holds helpers shared by integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/cashcard/cashcard/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetCashCardsSchema drops and recreates the cash_cards table for tests.
func ResetCashCardsSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, name := range []string{"000001_cash_cards.down.sql", "000001_cash_cards.up.sql"} {
		sql, err := ReadMigration(name)
		if err != nil {
			return err
		}
		if _, err := pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}

// ReadMigration reads a migration file from the repository migrations directory.
func ReadMigration(name string) (string, error) {
	root, err := ProjectRoot()
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(filepath.Join(root, "internal", "repository", "migrations", name))
	if err != nil {
		return "", fmt.Errorf("read migration %s: %w", name, err)
	}
	return string(data), nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// SampleCashCards returns the three cards most handler and repository tests
// start from.
func SampleCashCards() []model.CashCard {
	return []model.CashCard{
		{ID: 99, Amount: decimal.RequireFromString("123.45")},
		{ID: 100, Amount: decimal.RequireFromString("1.00")},
		{ID: 101, Amount: decimal.RequireFromString("150.00")},
	}
}

// SeedCashCards inserts cards with explicit IDs in one statement and moves
// the id sequence past them.
func SeedCashCards(ctx context.Context, pool *pgxpool.Pool, cards ...model.CashCard) error {
	ids := make([]int64, len(cards))
	amounts := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
		amounts[i] = c.Amount.String()
	}

	query := `
		INSERT INTO cash_cards (id, amount)
		SELECT s.id, s.amount::numeric
		FROM unnest($1::bigint[], $2::text[]) AS s(id, amount)`

	if _, err := pool.Exec(ctx, query, pq.Array(ids), pq.Array(amounts)); err != nil {
		return fmt.Errorf("seed cash cards: %w", err)
	}

	_, err := pool.Exec(ctx, `SELECT setval(pg_get_serial_sequence('cash_cards', 'id'), (SELECT COALESCE(MAX(id), 1) FROM cash_cards))`)
	if err != nil {
		return fmt.Errorf("advance id sequence: %w", err)
	}
	return nil
}
