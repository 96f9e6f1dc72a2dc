package tmpdb

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	itesting "github.com/vvka-141/tmpdb/internal/testing"
)

func TestLifecycleAgainstPostgres(t *testing.T) {
	serverURL := itesting.RequireServer(t)
	ctx := context.Background()

	db, err := New(ctx, serverURL, &Config{AutoCreate: true, Template: "tmpdb_it%i"})
	require.NoError(t, err)

	dbName, err := db.Name()
	require.NoError(t, err)
	resolved, err := db.URL()
	require.NoError(t, err)
	assert.Contains(t, resolved, dbName)

	require.NoError(t, db.Execute(ctx,
		"CREATE TABLE widgets (id INT PRIMARY KEY, label TEXT);\nINSERT INTO widgets VALUES (1, 'a'), (2, 'b');"))

	conn, err := pgx.Connect(ctx, resolved)
	require.NoError(t, err)
	var count int
	require.NoError(t, conn.QueryRow(ctx, "SELECT count(*) FROM widgets").Scan(&count))
	assert.Equal(t, 2, count)
	require.NoError(t, conn.Close(ctx))

	require.NoError(t, db.Close())

	// The database is gone after Close.
	_, err = pgx.Connect(ctx, resolved)
	assert.Error(t, err)
}

func TestConcurrentHandlesAgainstPostgres(t *testing.T) {
	serverURL := itesting.RequireServer(t)
	ctx := context.Background()

	seq := new(Sequence)
	cfg := func() *Config {
		return &Config{AutoCreate: true, Template: "tmpdb_pair%i", Sequence: seq}
	}

	first, err := New(ctx, serverURL, cfg())
	require.NoError(t, err)
	second, err := New(ctx, serverURL, cfg())
	require.NoError(t, err)

	a, err := first.Name()
	require.NoError(t, err)
	b, err := second.Name()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	require.NoError(t, first.Close())
	require.NoError(t, second.Close())
}

func TestDropNamedAgainstPostgres(t *testing.T) {
	serverURL := itesting.RequireServer(t)
	ctx := context.Background()

	db, err := New(ctx, serverURL, &Config{AutoCreate: true, Template: "tmpdb_named%i"})
	require.NoError(t, err)
	dbName, err := db.Name()
	require.NoError(t, err)

	other, err := New(ctx, serverURL, &Config{AutoCreate: false})
	require.NoError(t, err)
	require.NoError(t, other.DropNamed(ctx, dbName))

	// The explicit variant is strict: dropping again must fail.
	assert.ErrorIs(t, other.DropNamed(ctx, dbName), ErrDropFailed)

	require.NoError(t, other.Close())

	// The handle's own drop is tolerant of the database being gone.
	require.NoError(t, db.Drop(ctx))
	require.NoError(t, db.Close())
}
