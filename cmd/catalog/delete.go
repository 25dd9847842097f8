package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/angelmondragon/talesbyhand-backend/internal/catalog"
	"github.com/angelmondragon/talesbyhand-backend/pkg/logger"
)

func newDeleteRegionCmd() *cobra.Command {
	return newDeleteCmd("delete-region <slug>", "Delete a region that has no products",
		func(ctx context.Context, admin *catalog.Admin, key string) error {
			return admin.DeleteRegion(ctx, key)
		})
}

func newDeleteArtisanCmd() *cobra.Command {
	return newDeleteCmd("delete-artisan <display-name>", "Delete an artisan and detach their products",
		func(ctx context.Context, admin *catalog.Admin, key string) error {
			return admin.DeleteArtisan(ctx, key)
		})
}

func newDeleteProductCmd() *cobra.Command {
	return newDeleteCmd("delete-product <sku>", "Delete a product with its media and cart lines",
		func(ctx context.Context, admin *catalog.Admin, key string) error {
			return admin.DeleteProduct(ctx, key)
		})
}

func newDeleteCmd(use, short string, del func(context.Context, *catalog.Admin, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			return withAdmin(cmd.Context(), func(ctx context.Context, admin *catalog.Admin, logg *logger.Logger) error {
				if err := del(ctx, admin, key); err != nil {
					return err
				}
				logg.Info(logg.WithField(ctx, "key", key), "catalog.deleted")
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", key)
				return nil
			})
		},
	}
}
