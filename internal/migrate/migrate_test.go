package migrate

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retail-customers/internal/db"
)

func TestApplySQLite_CreatesSchemaAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	require.NoError(t, ApplySQLite(ctx, sqlDB))
	require.NoError(t, ApplySQLite(ctx, sqlDB), "second run must be a no-op")

	var count int
	err = sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'customers'`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = sqlDB.ExecContext(ctx, `INSERT INTO customers (name, email, dni, age) VALUES ('a', 'a@example.com', '12345678A', NULL)`)
	assert.NoError(t, err)
}

func TestMigrationsComeInPairs(t *testing.T) {
	for _, dir := range []string{"sql/postgres", "sql/sqlite"} {
		entries, err := migrationsFS.ReadDir(dir)
		require.NoError(t, err)
		require.NotEmpty(t, entries)

		names := map[string]bool{}
		for _, e := range entries {
			names[e.Name()] = true
		}
		for name := range names {
			if version, ok := strings.CutSuffix(name, ".up.sql"); ok {
				assert.True(t, names[version+".down.sql"], "%s/%s has no down migration", dir, name)
			}
			if version, ok := strings.CutSuffix(name, ".down.sql"); ok {
				assert.True(t, names[version+".up.sql"], "%s/%s has no up migration", dir, name)
			}
		}
	}
}
