package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(embeddedMigrations, migrationsDir)
	require.NoError(t, err)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Fatalf("unexpected file %s", name)
		}
	}
	assert.NotEmpty(t, ups)
	assert.Equal(t, ups, downs)
}

func TestMigrate_AutoMigratesSQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:migrate_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(conn, "sqlite"))
	// idempotent
	require.NoError(t, Migrate(conn, "sqlite"))

	assert.True(t, conn.Migrator().HasTable("penalty_records"))
	assert.True(t, conn.Migrator().HasTable("billing_records"))
	assert.True(t, conn.Migrator().HasIndex("billing_records", "ux_billing_records_session"))
}

func TestMigrate_RequiresConnection(t *testing.T) {
	assert.Error(t, Migrate(nil, "sqlite"))
	assert.Error(t, RunMigrations(nil))
}
