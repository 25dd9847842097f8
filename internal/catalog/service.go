package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	pkgerrors "github.com/angelmondragon/talesbyhand-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes the read-only storefront catalog.
type Service interface {
	ListRegions(ctx context.Context) ([]RegionDTO, error)
	ListProducts(ctx context.Context, regionSlug *string) (*ProductListResult, error)
	GetProductDetail(ctx context.Context, productID uint64) (*ProductDetailDTO, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListRegions(ctx context.Context) ([]RegionDTO, error) {
	rows, err := s.repo.ListRegions(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list regions")
	}
	out := make([]RegionDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *regionFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) ListProducts(ctx context.Context, regionSlug *string) (*ProductListResult, error) {
	result := &ProductListResult{}

	var regionID *uint64
	if regionSlug != nil {
		slug := strings.TrimSpace(*regionSlug)
		region, err := s.repo.FindRegionBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "region not found").
					WithDetails(map[string]any{"region_slug": slug})
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup region")
		}
		regionID = &region.ID
		result.Region = regionFromModel(region)
	}

	rows, err := s.repo.ListActiveProducts(ctx, regionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	result.Products = make([]ProductSummaryDTO, 0, len(rows))
	for _, row := range rows {
		result.Products = append(result.Products, summaryFromModel(row))
	}
	return result, nil
}

func (s *service) GetProductDetail(ctx context.Context, productID uint64) (*ProductDetailDTO, error) {
	if productID > math.MaxInt64 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	product, err := s.repo.FindActiveProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return detailFromModel(product), nil
}
