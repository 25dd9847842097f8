package catalog

import (
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	pkgerrors "github.com/angelmondragon/talesbyhand-backend/pkg/errors"
)

var (
	slugRe      = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	maxPrice    = decimal.RequireFromString("99999999.99")
	fixtureVals = newFixtureValidator()
)

// Fixture is the YAML document loaded by the catalog seeder.
type Fixture struct {
	Regions  []RegionFixture  `yaml:"regions" validate:"dive"`
	Artisans []ArtisanFixture `yaml:"artisans" validate:"dive"`
	Products []ProductFixture `yaml:"products" validate:"dive"`
	Users    []UserFixture    `yaml:"users" validate:"dive"`
}

type RegionFixture struct {
	Name        string `yaml:"name" validate:"required,max=100"`
	Slug        string `yaml:"slug" validate:"required,max=100,slug"`
	Description string `yaml:"description"`
}

type ArtisanFixture struct {
	DisplayName  string  `yaml:"display_name" validate:"required,max=255"`
	BioStory     string  `yaml:"bio_story"`
	ProfileImage *string `yaml:"profile_image"`
}

type ProductFixture struct {
	SKU           string         `yaml:"sku" validate:"required,max=100"`
	Name          string         `yaml:"name" validate:"required,max=255"`
	Description   string         `yaml:"description"`
	Price         string         `yaml:"price" validate:"required"`
	StockQuantity int            `yaml:"stock_quantity" validate:"gte=0"`
	IsActive      *bool          `yaml:"is_active"`
	Region        string         `yaml:"region" validate:"required,slug"`
	Artisan       string         `yaml:"artisan"`
	Media         []MediaFixture `yaml:"media" validate:"dive"`
}

type MediaFixture struct {
	File      string `yaml:"file" validate:"required"`
	IsMain    bool   `yaml:"is_main"`
	SortOrder int    `yaml:"sort_order" validate:"gte=0"`
}

type UserFixture struct {
	Username string `yaml:"username" validate:"required,max=150"`
	Email    string `yaml:"email" validate:"omitempty,email"`
	Password string `yaml:"password"`
	IsActive *bool  `yaml:"is_active"`
}

func newFixtureValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRe.MatchString(fl.Field().String())
	})
	return v
}

// LoadFixture decodes a YAML fixture. It does not validate.
func LoadFixture(r io.Reader) (*Fixture, error) {
	var fx Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		if err == io.EOF {
			return &fx, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid fixture")
	}
	return &fx, nil
}

// Validate checks every record and returns all problems at once.
func (f *Fixture) Validate() error {
	var errs error
	if err := fixtureVals.Struct(f); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				errs = multierr.Append(errs, fmt.Errorf("%s: failed %q", fieldPath(fe.Namespace()), fe.Tag()))
			}
		} else {
			errs = multierr.Append(errs, err)
		}
	}

	errs = multierr.Append(errs, uniqueKeys("regions", "slug", len(f.Regions), func(i int) string { return f.Regions[i].Slug }))
	errs = multierr.Append(errs, uniqueKeys("regions", "name", len(f.Regions), func(i int) string { return f.Regions[i].Name }))
	errs = multierr.Append(errs, uniqueKeys("artisans", "display_name", len(f.Artisans), func(i int) string { return f.Artisans[i].DisplayName }))
	errs = multierr.Append(errs, uniqueKeys("products", "sku", len(f.Products), func(i int) string { return f.Products[i].SKU }))
	errs = multierr.Append(errs, uniqueKeys("users", "username", len(f.Users), func(i int) string { return strings.ToLower(strings.TrimSpace(f.Users[i].Username)) }))

	for i, p := range f.Products {
		if p.Price == "" {
			continue
		}
		if _, err := ParsePrice(p.Price); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("products[%d].price: %w", i, err))
		}
	}

	if errs != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, errs, "fixture validation failed").
			WithDetails(errorStrings(errs))
	}
	return nil
}

// ParsePrice parses a non-negative price with at most two decimals.
func ParsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid price %q", raw)
	}
	if price.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("price %s must not be negative", raw)
	}
	if !price.Round(2).Equal(price) {
		return decimal.Decimal{}, fmt.Errorf("price %s has more than two decimals", raw)
	}
	if price.GreaterThan(maxPrice) {
		return decimal.Decimal{}, fmt.Errorf("price %s exceeds %s", raw, maxPrice.StringFixed(2))
	}
	return price, nil
}

func uniqueKeys(section, field string, n int, key func(int) string) error {
	var errs error
	seen := make(map[string]int, n)
	for i := 0; i < n; i++ {
		k := key(i)
		if k == "" {
			continue
		}
		if prev, ok := seen[k]; ok {
			errs = multierr.Append(errs, fmt.Errorf("%s[%d].%s: duplicates %s[%d]", section, i, field, section, prev))
			continue
		}
		seen[k] = i
	}
	return errs
}

func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func errorStrings(err error) []string {
	list := multierr.Errors(err)
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.Error())
	}
	return out
}
