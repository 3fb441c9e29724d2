// Package testdb starts a disposable PostgreSQL container for integration
// tests.
package testdb

import (
	"context"
	"testing"

	"hostel-service/internal/db"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
)

type PostgresContainer struct {
	Container *postgres.PostgresContainer
	DB        *bun.DB
	DSN       string
}

// Start runs postgres:16-alpine, creates the tables of models and tears
// everything down when t finishes. Subtests sharing the container must not
// run in parallel.
//
//	pg := testdb.Start(t, (*student.Student)(nil))
//	t.Run("Create", func(t *testing.T) {
//	    testdb.Truncate(t, pg.DB, "students")
//	    // ...
//	})
func Start(t *testing.T, models ...any) *PostgresContainer {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("hostel_test"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	database, err := db.NewWithDSN(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(ctx, database, models...))

	return &PostgresContainer{Container: container, DB: database, DSN: dsn}
}

// Truncate empties tables between subtests.
func Truncate(t *testing.T, database *bun.DB, tables ...string) {
	t.Helper()
	for _, table := range tables {
		_, err := database.ExecContext(context.Background(), "TRUNCATE "+table+" CASCADE")
		require.NoError(t, err, "failed to truncate table: %s", table)
	}
}
