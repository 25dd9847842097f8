package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/angelmondragon/talesbyhand-backend/internal/catalog"
	"github.com/angelmondragon/talesbyhand-backend/internal/users"
	"github.com/angelmondragon/talesbyhand-backend/pkg/config"
	"github.com/angelmondragon/talesbyhand-backend/pkg/db"
	"github.com/angelmondragon/talesbyhand-backend/pkg/logger"
	"github.com/angelmondragon/talesbyhand-backend/pkg/migrate"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the Tales by Hand catalog",
		Long: `Seed regions, artisans, products and shopper accounts from a YAML
fixture, or delete catalog records while honouring the referential policy
(regions with products cannot be removed, artisans are detached from their
products, product media and cart lines follow their product).`,
		SilenceUsage: true,
	}
	root.AddCommand(newSeedCmd(), newDeleteRegionCmd(), newDeleteArtisanCmd(), newDeleteProductCmd())
	return root
}

// withAdmin loads config, opens the database and hands a catalog admin to fn.
func withAdmin(ctx context.Context, fn func(context.Context, *catalog.Admin, *logger.Logger) error) (err error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logg := logger.New(logger.Options{
		ServiceName: "catalog",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithField(ctx, "env", cfg.App.Env)

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("bootstrap database: %w", err)
	}
	defer func() {
		err = multierr.Append(err, client.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
		return err
	}

	admin, err := catalog.NewAdmin(catalog.AdminParams{
		TxRunner:  client,
		Repo:      catalog.NewRepository(client.DB()),
		UserRepo:  users.NewRepository(client.DB()),
		Passwords: cfg.Password,
		Logger:    logg,
	})
	if err != nil {
		return err
	}
	return fn(ctx, admin, logg)
}
