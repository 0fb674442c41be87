package commands

import (
	"github.com/spf13/cobra"

	"github.com/nrfta/tubepage/internal/db"
)

func newMigrateCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd.Context(), *configFile)
			if err != nil {
				return err
			}
			defer rt.close()

			if err := db.Migrate(cmd.Context(), rt.db); err != nil {
				return err
			}
			rt.log.Info("schema applied")
			return nil
		},
	}
}

func newSeedCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the default categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd.Context(), *configFile)
			if err != nil {
				return err
			}
			defer rt.close()

			n, err := db.SeedCategories(cmd.Context(), rt.db)
			if err != nil {
				return err
			}
			rt.log.WithField("inserted", n).Info("categories seeded")
			return nil
		},
	}
}
