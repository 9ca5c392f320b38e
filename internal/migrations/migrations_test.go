package migrations_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/Anthanoess/task-app/internal/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiles_PairsUpAndDown(t *testing.T) {
	entries, err := fs.ReadDir(migrations.Files(), ".")
	require.NoError(t, err)

	ups, downs := map[string]bool{}, map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}

	assert.NotEmpty(t, ups)
	assert.Equal(t, ups, downs)
}

func TestFiles_CreatesEveryTable(t *testing.T) {
	raw, err := fs.ReadFile(migrations.Files(), "000001_init.up.sql")
	require.NoError(t, err)

	schema := string(raw)
	for _, table := range []string{"users", "sprints", "tasks", "lifecycle_flags"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
}
