package catalog

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/talesbyhand-backend/pkg/db/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func mustCreateRegion(t *testing.T, tx *gorm.DB, name, slug string) *models.Region {
	t.Helper()
	region := &models.Region{Name: name, Slug: slug, Description: name + " crafts"}
	require.NoError(t, tx.Create(region).Error)
	return region
}

func mustCreateArtisan(t *testing.T, tx *gorm.DB, name string) *models.Artisan {
	t.Helper()
	artisan := &models.Artisan{DisplayName: name, BioStory: name + " learned the craft from her grandmother."}
	require.NoError(t, tx.Create(artisan).Error)
	return artisan
}

func mustCreateProduct(t *testing.T, tx *gorm.DB, region *models.Region, artisan *models.Artisan, sku, name string, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		RegionID:      region.ID,
		SKU:           sku,
		Name:          name,
		Description:   name + " description",
		Price:         decimal.RequireFromString("450.00"),
		StockQuantity: 10,
		IsActive:      active,
	}
	if artisan != nil {
		product.ArtisanID = &artisan.ID
	}
	require.NoError(t, tx.Create(product).Error)
	return product
}

type testDeps struct {
	db *gorm.DB
}
