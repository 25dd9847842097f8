package catalog

import (
	"context"

	"github.com/angelmondragon/talesbyhand-backend/internal/repo"
	"github.com/angelmondragon/talesbyhand-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository reads and writes catalog rows.
type Repository struct {
	repo.Base
}

// NewRepository constructs a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// ListRegions returns every region ordered by name.
func (r *Repository) ListRegions(ctx context.Context) ([]models.Region, error) {
	var rows []models.Region
	if err := r.DB(ctx).Order("name ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindRegionBySlug loads a region by its URL slug.
func (r *Repository) FindRegionBySlug(ctx context.Context, slug string) (*models.Region, error) {
	var region models.Region
	if err := r.DB(ctx).Where("slug = ?", slug).First(&region).Error; err != nil {
		return nil, err
	}
	return &region, nil
}

// ListActiveProducts returns active products with their artisan, optionally
// restricted to one region.
func (r *Repository) ListActiveProducts(ctx context.Context, regionID *uint64) ([]models.Product, error) {
	q := r.DB(ctx).
		Preload("Artisan").
		Where("is_active = ?", true)
	if regionID != nil {
		q = q.Where("region_id = ?", *regionID)
	}

	var rows []models.Product
	if err := q.Order("name ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindActiveProduct loads one active product with artisan, region and media
// ordered by sort_order.
func (r *Repository) FindActiveProduct(ctx context.Context, id uint64) (*models.Product, error) {
	var product models.Product
	err := r.DB(ctx).
		Preload("Artisan").
		Preload("Region").
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC").Order("id ASC")
		}).
		Where("id = ? AND is_active = ?", id, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindArtisanByName loads an artisan by display name.
func (r *Repository) FindArtisanByName(ctx context.Context, displayName string) (*models.Artisan, error) {
	var artisan models.Artisan
	if err := r.DB(ctx).Where("display_name = ?", displayName).First(&artisan).Error; err != nil {
		return nil, err
	}
	return &artisan, nil
}

// FindProductBySKU loads a product by SKU regardless of its active flag.
func (r *Repository) FindProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).Where("sku = ?", sku).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// UpsertRegion inserts or updates a region keyed by slug.
func (r *Repository) UpsertRegion(ctx context.Context, region *models.Region) (*models.Region, error) {
	err := r.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "updated_at"}),
		}).
		Create(region).Error
	if err != nil {
		return nil, err
	}
	return r.FindRegionBySlug(ctx, region.Slug)
}

// UpsertArtisan inserts or updates an artisan keyed by display name.
func (r *Repository) UpsertArtisan(ctx context.Context, artisan *models.Artisan) (*models.Artisan, error) {
	err := r.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "display_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"bio_story", "profile_image", "updated_at"}),
		}).
		Create(artisan).Error
	if err != nil {
		return nil, err
	}
	return r.FindArtisanByName(ctx, artisan.DisplayName)
}

// UpsertProduct inserts or updates a product keyed by SKU.
func (r *Repository) UpsertProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	err := r.DB(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "sku"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"region_id", "artisan_id", "name", "description", "price",
				"stock_quantity", "is_active", "updated_at",
			}),
		}).
		Create(product).Error
	if err != nil {
		return nil, err
	}
	return r.FindProductBySKU(ctx, product.SKU)
}

// ReplaceMedia swaps the product's media rows for the provided list.
func (r *Repository) ReplaceMedia(ctx context.Context, productID uint64, media []models.ProductMedia) error {
	tx := r.DB(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductMedia{}).Error; err != nil {
		return err
	}
	if len(media) == 0 {
		return nil
	}
	for i := range media {
		media[i].ProductID = productID
	}
	return tx.Create(&media).Error
}
