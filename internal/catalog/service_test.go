package catalog

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/talesbyhand-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/talesbyhand-backend/pkg/errors"
)

type catalogFixture struct {
	rajasthan *models.Region
	kerala    *models.Region
	meera     *models.Artisan
	active1   *models.Product
	active2   *models.Product
	inactive  *models.Product
	keralaOne *models.Product
}

func seedCatalog(t *testing.T, svcDB *testDeps) catalogFixture {
	t.Helper()
	tx := svcDB.db
	fx := catalogFixture{}
	fx.rajasthan = mustCreateRegion(t, tx, "Rajasthan", "rajasthan")
	fx.kerala = mustCreateRegion(t, tx, "Kerala", "kerala")
	fx.meera = mustCreateArtisan(t, tx, "Meera Devi")
	fx.active1 = mustCreateProduct(t, tx, fx.rajasthan, fx.meera, "RJ-001", "Block Print Scarf", true)
	fx.active2 = mustCreateProduct(t, tx, fx.rajasthan, nil, "RJ-002", "Blue Pottery Vase", true)
	fx.inactive = mustCreateProduct(t, tx, fx.rajasthan, fx.meera, "RJ-003", "Retired Puppet", false)
	fx.keralaOne = mustCreateProduct(t, tx, fx.kerala, nil, "KL-001", "Coir Mat", true)
	return fx
}

func newTestService(t *testing.T) (Service, *testDeps) {
	t.Helper()
	deps := &testDeps{db: openTestDB(t)}
	svc, err := NewService(NewRepository(deps.db))
	require.NoError(t, err)
	return svc, deps
}

func TestListRegionsOrderedByName(t *testing.T) {
	svc, deps := newTestService(t)
	seedCatalog(t, deps)

	regions, err := svc.ListRegions(context.Background())
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.Equal(t, "Kerala", regions[0].Name)
	assert.Equal(t, "Rajasthan", regions[1].Name)
}

func TestListProductsByRegionReturnsOnlyActive(t *testing.T) {
	svc, deps := newTestService(t)
	fx := seedCatalog(t, deps)

	slug := "rajasthan"
	result, err := svc.ListProducts(context.Background(), &slug)
	require.NoError(t, err)
	require.NotNil(t, result.Region)
	assert.Equal(t, "rajasthan", result.Region.Slug)
	require.Len(t, result.Products, 2)

	ids := []uint64{result.Products[0].ID, result.Products[1].ID}
	assert.ElementsMatch(t, []uint64{fx.active1.ID, fx.active2.ID}, ids)
	for _, p := range result.Products {
		assert.Equal(t, fx.rajasthan.ID, p.RegionID)
		assert.NotEqual(t, fx.inactive.ID, p.ID)
	}

	// Ordered by name.
	assert.Equal(t, "Block Print Scarf", result.Products[0].Name)
	require.NotNil(t, result.Products[0].Artisan)
	assert.Equal(t, "Meera Devi", result.Products[0].Artisan.DisplayName)
	assert.Nil(t, result.Products[1].Artisan)
	assert.Equal(t, "450.00", result.Products[0].Price)
}

func TestListProductsWithoutRegion(t *testing.T) {
	svc, deps := newTestService(t)
	seedCatalog(t, deps)

	result, err := svc.ListProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, result.Region)
	assert.Len(t, result.Products, 3)
}

func TestListProductsUnknownRegion(t *testing.T) {
	svc, deps := newTestService(t)
	seedCatalog(t, deps)

	slug := "atlantis"
	_, err := svc.ListProducts(context.Background(), &slug)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestListProductsEmptyRegion(t *testing.T) {
	svc, deps := newTestService(t)
	mustCreateRegion(t, deps.db, "Goa", "goa")

	slug := "goa"
	result, err := svc.ListProducts(context.Background(), &slug)
	require.NoError(t, err)
	assert.NotNil(t, result.Products)
	assert.Empty(t, result.Products)
}

func TestGetProductDetail(t *testing.T) {
	svc, deps := newTestService(t)
	fx := seedCatalog(t, deps)

	media := []models.ProductMedia{
		{ProductID: fx.active1.ID, MediaFile: "products/rj-001/side.jpg", SortOrder: 2},
		{ProductID: fx.active1.ID, MediaFile: "products/rj-001/main.jpg", SortOrder: 0, IsMain: true},
		{ProductID: fx.active1.ID, MediaFile: "products/rj-001/back.jpg", SortOrder: 1},
	}
	require.NoError(t, deps.db.Create(&media).Error)

	detail, err := svc.GetProductDetail(context.Background(), fx.active1.ID)
	require.NoError(t, err)
	assert.Equal(t, "RJ-001", detail.SKU)
	require.NotNil(t, detail.Region)
	assert.Equal(t, "rajasthan", detail.Region.Slug)
	require.NotNil(t, detail.Artisan)
	assert.Contains(t, detail.Artisan.BioStory, "grandmother")

	require.Len(t, detail.Media, 3)
	assert.Equal(t, "products/rj-001/main.jpg", detail.Media[0].MediaFile)
	assert.True(t, detail.Media[0].IsMain)
	assert.Equal(t, "products/rj-001/back.jpg", detail.Media[1].MediaFile)
	assert.Equal(t, "products/rj-001/side.jpg", detail.Media[2].MediaFile)
}

func TestGetProductDetailInactiveOrMissing(t *testing.T) {
	svc, deps := newTestService(t)
	fx := seedCatalog(t, deps)

	_, err := svc.GetProductDetail(context.Background(), fx.inactive.ID)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	_, err = svc.GetProductDetail(context.Background(), 999)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	_, err = svc.GetProductDetail(context.Background(), math.MaxUint64)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestNewServiceRequiresRepo(t *testing.T) {
	_, err := NewService(nil)
	assert.Error(t, err)
}
