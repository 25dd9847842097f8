package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/angelmondragon/talesbyhand-backend/internal/catalog"
	"github.com/angelmondragon/talesbyhand-backend/pkg/logger"
)

func newSeedCmd() *cobra.Command {
	var file string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert the catalog from a YAML fixture",
		Long: `Load a YAML fixture and upsert every region, artisan, product, media
file and user it lists, keyed by slug, display name, SKU and username.
The whole fixture is validated first and applied in a single transaction.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fx, err := loadFixtureFile(file)
			if err != nil {
				return err
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "fixture ok: %d regions, %d artisans, %d products, %d users\n",
					len(fx.Regions), len(fx.Artisans), len(fx.Products), len(fx.Users))
				return nil
			}
			return withAdmin(cmd.Context(), func(ctx context.Context, admin *catalog.Admin, _ *logger.Logger) error {
				result, err := admin.Seed(ctx, fx)
				if err != nil {
					return err
				}
				printSeedResult(cmd.OutOrStdout(), result)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "cmd/catalog/fixtures/catalog.yaml", "fixture file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the fixture without touching the database")
	return cmd
}

func loadFixtureFile(path string) (*catalog.Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()

	fx, err := catalog.LoadFixture(f)
	if err != nil {
		return nil, err
	}
	if err := fx.Validate(); err != nil {
		return nil, err
	}
	return fx, nil
}

func printSeedResult(w io.Writer, result *catalog.SeedResult) {
	fmt.Fprintf(w, "seeded %d regions, %d artisans, %d products, %d media, %d users\n",
		result.Regions, result.Artisans, result.Products, result.Media, result.Users)

	if len(result.GeneratedPasswords) == 0 {
		return
	}
	names := make([]string, 0, len(result.GeneratedPasswords))
	for name := range result.GeneratedPasswords {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(w, "generated passwords:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %s\n", name, result.GeneratedPasswords[name])
	}
}
