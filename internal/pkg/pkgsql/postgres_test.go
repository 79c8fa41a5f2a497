package pkgsql

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRequiresDSN(t *testing.T) {
	_, err := Open(context.Background(), Options{})
	require.EqualError(t, err, "database dsn is required")
}

func TestConfigureAppliesDefaults(t *testing.T) {
	raw, _, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()

	db := sqlx.NewDb(raw, DriverName)
	Configure(db, Options{MaxOpenConns: 3})

	assert.Equal(t, 3, db.Stats().MaxOpenConnections)
}
