package commands

import (
	"fmt"

	"github.com/fekuna/omnipos-inventory-web/config"
	"github.com/fekuna/omnipos-inventory-web/internal/database"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create missing tables and load the demo data once",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadEnv()
		appLogger := newLogger(cfg)
		defer appLogger.Sync()

		db, err := openDatabase(cfg, appLogger)
		if err != nil {
			return err
		}
		defer db.Close()

		seeded, err := database.Init(cmd.Context(), db, database.NewSeeder(nil))
		if err != nil {
			return err
		}
		if !seeded {
			appLogger.Info("Demo user already present, nothing seeded")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Database initialized. Demo credentials: %s / %s\n",
			database.DemoUserEmail, database.DemoUserPassword)
		return nil
	},
}

var resetDBCmd = &cobra.Command{
	Use:   "reset-db",
	Short: "Drop every table, recreate the schema and load the demo data",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadEnv()
		appLogger := newLogger(cfg)
		defer appLogger.Sync()

		db, err := openDatabase(cfg, appLogger)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Reset(cmd.Context(), db, database.NewSeeder(nil)); err != nil {
			appLogger.Error("Database reset failed", zap.Error(err))
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Database reset complete!")
		return nil
	},
}
