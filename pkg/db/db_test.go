package db

import (
	"testing"

	"github.com/smallbiznis/parkwise/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialect(t *testing.T) {
	for _, typ := range []string{TypePostgres, TypeMySQL, TypeSQLite, " Postgres "} {
		d, err := Dialect(Config{Type: typ, Name: "parkwise"})
		require.NoError(t, err, typ)
		assert.NotNil(t, d)
	}

	_, err := Dialect(Config{Type: "oracle"})
	require.Error(t, err)
}

func TestSQLitePath(t *testing.T) {
	assert.Equal(t, "parkwise.db", sqlitePath(""))
	assert.Equal(t, "billing.db", sqlitePath("billing"))
	assert.Equal(t, "billing.db", sqlitePath("billing.db"))
	assert.Equal(t, ":memory:", sqlitePath(":memory:"))
	assert.Equal(t, "file::memory:?cache=shared", sqlitePath("file::memory:?cache=shared"))
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(config.Config{DBType: "postgres", DBName: "parkwise", DBConnMaxLifetime: 300})
	assert.Equal(t, "postgres", cfg.Type)
	assert.Equal(t, float64(300), cfg.ConnMaxLifetime.Seconds())
}
