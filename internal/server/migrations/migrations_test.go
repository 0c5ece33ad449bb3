package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Embedded(t *testing.T) {
	files, err := fs.Glob(Migrations, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		b, err := fs.ReadFile(Migrations, f)
		require.NoError(t, err)
		assert.Contains(t, string(b), "-- +goose Up", f)
		assert.Contains(t, string(b), "-- +goose Down", f)
	}
}

func TestMigrations_GroupDeleteCascades(t *testing.T) {
	b, err := fs.ReadFile(Migrations, "00001_init.sql")
	require.NoError(t, err)
	sql := string(b)

	for _, table := range []string{"group_members", "contacts"} {
		start := strings.Index(sql, "CREATE TABLE "+table)
		require.GreaterOrEqual(t, start, 0, table)
		end := strings.Index(sql[start:], ");")
		body := sql[start : start+end]
		assert.Contains(t, body, "REFERENCES groups (id) ON DELETE CASCADE", table)
	}
	assert.Contains(t, sql, "UNIQUE (group_id, user_id)")
	assert.Contains(t, sql, "email         TEXT NOT NULL UNIQUE")
}
