package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/config"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the MySQL schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.StoreDriver != config.DriverMySQL {
			return errors.New("migrate needs STORE_DRIVER=mysql")
		}
		db, err := database.Open(cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		log.Info("schema up to date")
		return nil
	},
}
