package catalog

import (
	"time"

	"github.com/angelmondragon/talesbyhand-backend/pkg/db/models"
)

// RegionDTO is the public shape of a region.
type RegionDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// ArtisanDTO carries the artisan and their tale.
type ArtisanDTO struct {
	ID           uint64  `json:"id"`
	DisplayName  string  `json:"display_name"`
	BioStory     string  `json:"bio_story"`
	ProfileImage *string `json:"profile_image,omitempty"`
}

// MediaDTO references one externally stored media file.
type MediaDTO struct {
	ID        uint64 `json:"id"`
	MediaFile string `json:"media_file"`
	IsMain    bool   `json:"is_main"`
	SortOrder int    `json:"sort_order"`
}

// ProductSummaryDTO is a product row in a listing.
type ProductSummaryDTO struct {
	ID            uint64      `json:"id"`
	SKU           string      `json:"sku"`
	Name          string      `json:"name"`
	Price         string      `json:"price"`
	StockQuantity int         `json:"stock_quantity"`
	RegionID      uint64      `json:"region_id"`
	Artisan       *ArtisanDTO `json:"artisan"`
}

// ProductDetailDTO is the product detail view.
type ProductDetailDTO struct {
	ID            uint64      `json:"id"`
	SKU           string      `json:"sku"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	Price         string      `json:"price"`
	StockQuantity int         `json:"stock_quantity"`
	Region        *RegionDTO  `json:"region"`
	Artisan       *ArtisanDTO `json:"artisan"`
	Media         []MediaDTO  `json:"media"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// ProductListResult is returned by ListProducts. Region is set when the
// listing was filtered by slug.
type ProductListResult struct {
	Region   *RegionDTO          `json:"region"`
	Products []ProductSummaryDTO `json:"products"`
}

func regionFromModel(r *models.Region) *RegionDTO {
	if r == nil {
		return nil
	}
	return &RegionDTO{
		ID:          r.ID,
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
	}
}

func artisanFromModel(a *models.Artisan) *ArtisanDTO {
	if a == nil {
		return nil
	}
	return &ArtisanDTO{
		ID:           a.ID,
		DisplayName:  a.DisplayName,
		BioStory:     a.BioStory,
		ProfileImage: a.ProfileImage,
	}
}

func summaryFromModel(p models.Product) ProductSummaryDTO {
	return ProductSummaryDTO{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Price:         p.Price.StringFixed(2),
		StockQuantity: p.StockQuantity,
		RegionID:      p.RegionID,
		Artisan:       artisanFromModel(p.Artisan),
	}
}

func detailFromModel(p *models.Product) *ProductDetailDTO {
	media := make([]MediaDTO, 0, len(p.Media))
	for _, m := range p.Media {
		media = append(media, MediaDTO{
			ID:        m.ID,
			MediaFile: m.MediaFile,
			IsMain:    m.IsMain,
			SortOrder: m.SortOrder,
		})
	}
	return &ProductDetailDTO{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price.StringFixed(2),
		StockQuantity: p.StockQuantity,
		Region:        regionFromModel(p.Region),
		Artisan:       artisanFromModel(p.Artisan),
		Media:         media,
		UpdatedAt:     p.UpdatedAt,
	}
}
