package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/talesbyhand-backend/internal/users"
	"github.com/angelmondragon/talesbyhand-backend/pkg/config"
	"github.com/angelmondragon/talesbyhand-backend/pkg/db"
	"github.com/angelmondragon/talesbyhand-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/talesbyhand-backend/pkg/errors"
	"github.com/angelmondragon/talesbyhand-backend/pkg/logger"
	"github.com/angelmondragon/talesbyhand-backend/pkg/security"
)

const generatedPasswordLength = 16

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Admin writes the catalog: fixture seeding and policy-aware deletes.
type Admin struct {
	tx        txRunner
	repo      *Repository
	users     *users.Repository
	passwords config.PasswordConfig
	logg      *logger.Logger
}

// AdminParams bundles the dependencies required to build an Admin.
type AdminParams struct {
	TxRunner  txRunner
	Repo      *Repository
	UserRepo  *users.Repository
	Passwords config.PasswordConfig
	Logger    *logger.Logger
}

// SeedResult summarizes a seed run. GeneratedPasswords maps usernames seeded
// without a password to the one generated for them.
type SeedResult struct {
	Regions            int
	Artisans           int
	Products           int
	Media              int
	Users              int
	GeneratedPasswords map[string]string
}

func NewAdmin(params AdminParams) (*Admin, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Admin{
		tx:        params.TxRunner,
		repo:      params.Repo,
		users:     params.UserRepo,
		passwords: params.Passwords,
		logg:      params.Logger,
	}, nil
}

// Seed validates the fixture and upserts every record in one transaction.
// Unresolvable region or artisan references fail the whole run.
func (a *Admin) Seed(ctx context.Context, fx *Fixture) (*SeedResult, error) {
	if fx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fixture is required")
	}
	if err := fx.Validate(); err != nil {
		return nil, err
	}

	result := &SeedResult{GeneratedPasswords: map[string]string{}}
	err := a.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := a.repo.WithTx(tx)
		userRepo := a.users.WithTx(tx)

		for _, rf := range fx.Regions {
			if _, err := repo.UpsertRegion(ctx, &models.Region{
				Name:        strings.TrimSpace(rf.Name),
				Slug:        rf.Slug,
				Description: rf.Description,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("upsert region %s", rf.Slug))
			}
			result.Regions++
		}

		for _, af := range fx.Artisans {
			if _, err := repo.UpsertArtisan(ctx, &models.Artisan{
				DisplayName:  strings.TrimSpace(af.DisplayName),
				BioStory:     af.BioStory,
				ProfileImage: af.ProfileImage,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("upsert artisan %s", af.DisplayName))
			}
			result.Artisans++
		}

		var refErrs error
		for i, pf := range fx.Products {
			product, err := a.productFromFixture(ctx, repo, pf)
			if err != nil {
				if pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
					refErrs = multierr.Append(refErrs, fmt.Errorf("products[%d]: %w", i, err))
					continue
				}
				return err
			}
			saved, err := repo.UpsertProduct(ctx, product)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("upsert product %s", pf.SKU))
			}

			media := make([]models.ProductMedia, 0, len(pf.Media))
			for _, mf := range pf.Media {
				media = append(media, models.ProductMedia{MediaFile: mf.File, IsMain: mf.IsMain, SortOrder: mf.SortOrder})
			}
			if err := repo.ReplaceMedia(ctx, saved.ID, media); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("replace media for %s", pf.SKU))
			}
			result.Products++
			result.Media += len(media)
		}
		if refErrs != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, refErrs, "fixture references unknown records").
				WithDetails(errorStrings(refErrs))
		}

		for _, uf := range fx.Users {
			password := uf.Password
			if password == "" {
				generated, err := security.GenerateTempPassword(generatedPasswordLength)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate password")
				}
				password = generated
				result.GeneratedPasswords[users.NormalizeUsername(uf.Username)] = generated
			}
			hash, err := security.HashPassword(password, a.passwords)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
			}
			if _, err := userRepo.Upsert(ctx, users.CreateUserDTO{
				Username:     uf.Username,
				Email:        uf.Email,
				PasswordHash: hash,
				IsActive:     uf.IsActive,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("upsert user %s", uf.Username))
			}
			result.Users++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.logg.Info(a.logg.WithFields(ctx, map[string]any{
		"regions":  result.Regions,
		"artisans": result.Artisans,
		"products": result.Products,
		"media":    result.Media,
		"users":    result.Users,
	}), "catalog seeded")
	return result, nil
}

func (a *Admin) productFromFixture(ctx context.Context, repo *Repository, pf ProductFixture) (*models.Product, error) {
	region, err := repo.FindRegionBySlug(ctx, pf.Region)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown region %q", pf.Region))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup region")
	}

	var artisanID *uint64
	if name := strings.TrimSpace(pf.Artisan); name != "" {
		artisan, err := repo.FindArtisanByName(ctx, name)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown artisan %q", name))
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup artisan")
		}
		artisanID = &artisan.ID
	}

	price, err := ParsePrice(pf.Price)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}

	isActive := true
	if pf.IsActive != nil {
		isActive = *pf.IsActive
	}

	return &models.Product{
		RegionID:      region.ID,
		ArtisanID:     artisanID,
		SKU:           strings.TrimSpace(pf.SKU),
		Name:          strings.TrimSpace(pf.Name),
		Description:   pf.Description,
		Price:         price,
		StockQuantity: pf.StockQuantity,
		IsActive:      isActive,
	}, nil
}

// DeleteRegion removes a region. It fails with a conflict while products
// still reference it.
func (a *Admin) DeleteRegion(ctx context.Context, slug string) error {
	return a.tx.WithTx(ctx, func(tx *gorm.DB) error {
		region, err := a.repo.WithTx(tx).FindRegionBySlug(ctx, slug)
		if err != nil {
			return notFoundOr(err, "region not found", "lookup region")
		}
		return db.DeleteRow(ctx, tx, models.Region{}.TableName(), region.ID)
	})
}

// DeleteArtisan removes an artisan and detaches their products.
func (a *Admin) DeleteArtisan(ctx context.Context, displayName string) error {
	return a.tx.WithTx(ctx, func(tx *gorm.DB) error {
		artisan, err := a.repo.WithTx(tx).FindArtisanByName(ctx, displayName)
		if err != nil {
			return notFoundOr(err, "artisan not found", "lookup artisan")
		}
		return db.DeleteRow(ctx, tx, models.Artisan{}.TableName(), artisan.ID)
	})
}

// DeleteProduct removes a product with its media and any cart lines holding it.
func (a *Admin) DeleteProduct(ctx context.Context, sku string) error {
	return a.tx.WithTx(ctx, func(tx *gorm.DB) error {
		product, err := a.repo.WithTx(tx).FindProductBySKU(ctx, sku)
		if err != nil {
			return notFoundOr(err, "product not found", "lookup product")
		}
		return db.DeleteRow(ctx, tx, models.Product{}.TableName(), product.ID)
	})
}

func notFoundOr(err error, notFoundMsg, internalMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMsg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, internalMsg)
}
