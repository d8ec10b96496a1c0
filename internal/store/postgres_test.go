package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/devpath-labs/devpath/internal/store"
)

// startPostgres spins up a throwaway PostgreSQL container and returns a
// connected pool.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("devpath"),
		tcpostgres.WithUsername("devpath"),
		tcpostgres.WithPassword("devpath"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("starting postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("terminating container: %v", err)
		}
	})

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	poolCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	pool, err := pgxpool.New(poolCtx, connStr)
	if err != nil {
		t.Fatalf("connecting: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

func TestPostgresStore_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	pool := startPostgres(t)

	s, err := store.NewPostgresStore(ctx, pool)
	if err != nil {
		t.Fatalf("NewPostgresStore() error = %v", err)
	}

	if _, err := s.Read(ctx, store.BucketQuestions); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Read() before write error = %v, want ErrNotFound", err)
	}

	if err := s.Write(ctx, store.BucketQuestions, []byte(`[{"id":"q-1"}]`)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := s.Read(ctx, store.BucketQuestions)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(data) != `[{"id":"q-1"}]` {
		t.Errorf("Read() = %q, want stored payload", data)
	}

	// Upsert replaces in place.
	if err := s.Write(ctx, store.BucketQuestions, []byte(`[]`)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	data, _ = s.Read(ctx, store.BucketQuestions)
	if string(data) != `[]` {
		t.Errorf("Read() after rewrite = %q, want %q", data, `[]`)
	}
}
