package migrate_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/talesbyhand-backend/pkg/db"
	"github.com/angelmondragon/talesbyhand-backend/pkg/migrate"
)

func readMigrations(t *testing.T) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, matches, "no migrations found")

	var sb strings.Builder
	for _, m := range matches {
		data, err := os.ReadFile(m)
		require.NoError(t, err)
		sb.Write(data)
	}
	return sb.String()
}

func TestCatalogMigrationContainsSchemas(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_catalog_tables.sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS regions",
		"CREATE TABLE IF NOT EXISTS artisans",
		"CREATE TABLE IF NOT EXISTS products",
		"CREATE TABLE IF NOT EXISTS product_media",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_regions_slug",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_products_sku",
		"price NUMERIC(10,2) NOT NULL",
		"CHECK (price >= 0)",
		"CHECK (stock_quantity >= 0)",
		"DROP TABLE IF EXISTS regions",
	}
	for _, sub := range checks {
		assert.Contains(t, content, sub)
	}
}

func TestCartMigrationContainsUniqueness(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_users_and_carts.sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_user_id ON carts (user_id)")
	assert.Contains(t, content, "CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_items_cart_product ON cart_items (cart_id, product_id)")
	assert.Contains(t, content, "CHECK (quantity >= 1)")
}

func TestMigrationsMirrorRelationRegistry(t *testing.T) {
	content := readMigrations(t)
	for _, rel := range db.Relations() {
		clause := fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s(id) ON DELETE %s", rel.Column, rel.Parent, rel.OnDelete.SQL())
		assert.Containsf(t, content, clause, "%s.%s", rel.Child, rel.Column)
	}
}

func TestValidateDir(t *testing.T) {
	require.NoError(t, migrate.ValidateDir("migrations"))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad-name.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	require.Error(t, migrate.ValidateDir(dir))
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Region Banner!")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_add_region_banner.sql"))
	require.NoError(t, migrate.ValidateDir(dir))

	_, err = migrate.CreateSQLMigration(dir, "!!!")
	require.Error(t, err)
}
