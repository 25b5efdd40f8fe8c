package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ahmadqo/museum-engagement-ledger/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFilesSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"003_c.sql", "001_a.sql", "002_b.sql", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644))
	}

	files, err := MigrationFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "001_a.sql", filepath.Base(files[0]))
	assert.Equal(t, "003_c.sql", filepath.Base(files[2]))
}

func TestRepositoryMigrationsPresent(t *testing.T) {
	files, err := MigrationFiles(filepath.Join("..", "..", "migrations"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	var all strings.Builder
	for _, f := range files {
		content, err := os.ReadFile(f)
		require.NoError(t, err)
		all.Write(content)
	}
	assert.Contains(t, all.String(), "uq_certificates_visitor_rule")
	assert.Contains(t, all.String(), "uq_certificates_visitor_type_related")
	assert.Contains(t, all.String(), "(visitor_id, type, related_id)")
}

func TestDSN(t *testing.T) {
	dsn := DSN(&config.DatabaseConfig{
		Host: "db", Port: "5432", User: "u", Password: "p", Name: "museum", SSLMode: "disable",
	})
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=museum sslmode=disable", dsn)
}
