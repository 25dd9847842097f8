package catalog

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/talesbyhand-backend/internal/users"
	"github.com/angelmondragon/talesbyhand-backend/pkg/config"
	"github.com/angelmondragon/talesbyhand-backend/pkg/db"
	"github.com/angelmondragon/talesbyhand-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/talesbyhand-backend/pkg/errors"
	"github.com/angelmondragon/talesbyhand-backend/pkg/logger"
	"github.com/angelmondragon/talesbyhand-backend/pkg/security"
)

const sampleFixture = `
regions:
  - name: Rajasthan
    slug: rajasthan
    description: Land of kings.
  - name: Kerala
    slug: kerala
artisans:
  - display_name: Meera Devi
    bio_story: Meera carves wooden blocks for dabu printing.
    profile_image: artisans/meera.jpg
products:
  - sku: RJ-001
    name: Dabu Print Scarf
    price: "450.00"
    stock_quantity: 12
    region: rajasthan
    artisan: Meera Devi
    media:
      - file: products/rj-001/main.jpg
        is_main: true
        sort_order: 0
      - file: products/rj-001/detail.jpg
        sort_order: 1
  - sku: KL-001
    name: Coir Mat
    price: "799.5"
    region: kerala
    is_active: false
users:
  - username: Shopper
    email: shopper@example.com
    password: handmade
  - username: guest
`

var testPasswords = config.PasswordConfig{
	ArgonMemoryKB:    8192,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

func newTestAdmin(t *testing.T) (*Admin, *testDeps) {
	t.Helper()
	deps := &testDeps{db: openTestDB(t)}
	admin, err := NewAdmin(AdminParams{
		TxRunner:  db.NewFromConn(deps.db),
		Repo:      NewRepository(deps.db),
		UserRepo:  users.NewRepository(deps.db),
		Passwords: testPasswords,
		Logger:    logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return admin, deps
}

func mustLoadFixture(t *testing.T, raw string) *Fixture {
	t.Helper()
	fx, err := LoadFixture(strings.NewReader(raw))
	require.NoError(t, err)
	return fx
}

func countRows(t *testing.T, deps *testDeps, model any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	q := deps.db.Model(model)
	if where != "" {
		q = q.Where(where, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func TestSeedUpsertsFixture(t *testing.T) {
	admin, deps := newTestAdmin(t)
	ctx := context.Background()

	result, err := admin.Seed(ctx, mustLoadFixture(t, sampleFixture))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Regions)
	assert.Equal(t, 1, result.Artisans)
	assert.Equal(t, 2, result.Products)
	assert.Equal(t, 2, result.Media)
	assert.Equal(t, 2, result.Users)
	require.Contains(t, result.GeneratedPasswords, "guest")
	assert.NotContains(t, result.GeneratedPasswords, "shopper")

	var mat models.Product
	require.NoError(t, deps.db.Where("sku = ?", "KL-001").First(&mat).Error)
	assert.False(t, mat.IsActive)
	assert.Nil(t, mat.ArtisanID)
	assert.True(t, decimal.RequireFromString("799.50").Equal(mat.Price))

	shopper, err := users.NewRepository(deps.db).FindByUsername(ctx, "shopper")
	require.NoError(t, err)
	ok, err := security.VerifyPassword("handmade", shopper.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	// Re-running is idempotent on natural keys.
	_, err = admin.Seed(ctx, mustLoadFixture(t, sampleFixture))
	require.NoError(t, err)
	assert.Equal(t, int64(2), countRows(t, deps, &models.Region{}, ""))
	assert.Equal(t, int64(2), countRows(t, deps, &models.Product{}, ""))
	assert.Equal(t, int64(2), countRows(t, deps, &models.ProductMedia{}, ""))
	assert.Equal(t, int64(2), countRows(t, deps, &models.User{}, ""))
}

func TestSeedAggregatesValidationErrors(t *testing.T) {
	admin, deps := newTestAdmin(t)

	fx := mustLoadFixture(t, `
regions:
  - name: Bad Slug
    slug: "Not A Slug"
products:
  - sku: X-1
    name: Negative
    price: "-1"
    region: rajasthan
  - sku: X-1
    name: Too Precise
    price: "1.234"
    region: rajasthan
`)
	_, err := admin.Seed(context.Background(), fx)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	details, ok := pkgerrors.As(err).Details().([]string)
	require.True(t, ok)
	assert.GreaterOrEqual(t, len(details), 4)
	assert.Equal(t, int64(0), countRows(t, deps, &models.Region{}, ""))
}

func TestSeedUnknownReferenceRollsBack(t *testing.T) {
	admin, deps := newTestAdmin(t)

	fx := mustLoadFixture(t, `
regions:
  - name: Kerala
    slug: kerala
products:
  - sku: GJ-001
    name: Patola Saree
    price: "12000"
    region: gujarat
`)
	_, err := admin.Seed(context.Background(), fx)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, int64(0), countRows(t, deps, &models.Region{}, ""))
	assert.Equal(t, int64(0), countRows(t, deps, &models.Product{}, ""))
}

func TestLoadFixtureRejectsUnknownFields(t *testing.T) {
	_, err := LoadFixture(strings.NewReader("regions:\n  - name: X\n    colour: red\n"))
	require.Error(t, err)

	fx, err := LoadFixture(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, fx.Regions)
}

func TestDeleteRegionRestrictedWhileProductsExist(t *testing.T) {
	admin, deps := newTestAdmin(t)
	ctx := context.Background()
	_, err := admin.Seed(ctx, mustLoadFixture(t, sampleFixture))
	require.NoError(t, err)

	err = admin.DeleteRegion(ctx, "rajasthan")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))
	assert.Equal(t, int64(2), countRows(t, deps, &models.Region{}, ""))

	require.NoError(t, admin.DeleteProduct(ctx, "RJ-001"))
	require.NoError(t, admin.DeleteRegion(ctx, "rajasthan"))
	assert.Equal(t, int64(1), countRows(t, deps, &models.Region{}, ""))

	err = admin.DeleteRegion(ctx, "rajasthan")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteArtisanNullsProducts(t *testing.T) {
	admin, deps := newTestAdmin(t)
	ctx := context.Background()
	_, err := admin.Seed(ctx, mustLoadFixture(t, sampleFixture))
	require.NoError(t, err)

	require.NoError(t, admin.DeleteArtisan(ctx, "Meera Devi"))
	assert.Equal(t, int64(0), countRows(t, deps, &models.Artisan{}, ""))
	assert.Equal(t, int64(2), countRows(t, deps, &models.Product{}, "artisan_id IS NULL"))
}

func TestDeleteProductCascadesMediaAndCartLines(t *testing.T) {
	admin, deps := newTestAdmin(t)
	ctx := context.Background()
	_, err := admin.Seed(ctx, mustLoadFixture(t, sampleFixture))
	require.NoError(t, err)

	var product models.Product
	require.NoError(t, deps.db.Where("sku = ?", "RJ-001").First(&product).Error)
	shopper, err := users.NewRepository(deps.db).FindByUsername(ctx, "shopper")
	require.NoError(t, err)
	cart := &models.Cart{UserID: shopper.ID}
	require.NoError(t, deps.db.Create(cart).Error)
	require.NoError(t, deps.db.Create(&models.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 2}).Error)

	require.NoError(t, admin.DeleteProduct(ctx, "RJ-001"))
	assert.Equal(t, int64(0), countRows(t, deps, &models.ProductMedia{}, ""))
	assert.Equal(t, int64(0), countRows(t, deps, &models.CartItem{}, ""))
	assert.Equal(t, int64(1), countRows(t, deps, &models.Cart{}, ""))

	err = admin.DeleteProduct(ctx, "RJ-001")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestParsePrice(t *testing.T) {
	p, err := ParsePrice(" 12.5 ")
	require.NoError(t, err)
	assert.Equal(t, "12.50", p.StringFixed(2))

	for _, raw := range []string{"abc", "-0.01", "1.001", "100000000"} {
		_, err := ParsePrice(raw)
		assert.Errorf(t, err, raw)
	}
}
