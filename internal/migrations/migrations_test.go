package migrations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersions(t *testing.T) {
	versions, err := Versions()
	require.NoError(t, err)
	require.NotEmpty(t, versions)
	assert.Equal(t, int64(1), versions[0])
}

func TestInitMigration_CarriesCoreConstraints(t *testing.T) {
	raw, err := files.ReadFile(Dir + "/00001_init.sql")
	require.NoError(t, err)
	sql := string(raw)

	assert.Contains(t, sql, "-- +goose Up")
	assert.Contains(t, sql, "-- +goose Down")
	assert.Contains(t, sql, "CREATE UNIQUE INDEX idx_cart_product ON cart_items (cart_id, product_id)")
	assert.Contains(t, sql, "CREATE UNIQUE INDEX idx_order_product ON order_items (order_id, product_id)")
	assert.True(t, strings.Contains(sql, "REFERENCES categories (id) ON UPDATE CASCADE ON DELETE RESTRICT"))
}
