package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fekuna/omnipos-inventory-web/config"
	"github.com/fekuna/omnipos-inventory-web/internal/database"
	"github.com/fekuna/omnipos-inventory-web/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web application",
	Long: `Run the web application. Missing tables are created on startup, and the
demo data set is loaded when the demo user does not exist yet.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	cfg := config.LoadEnv()
	appLogger := newLogger(cfg)
	defer appLogger.Sync()

	db, err := openDatabase(cfg, appLogger)
	if err != nil {
		appLogger.Error("Could not connect to database", zap.Error(err))
		return err
	}
	defer db.Close()

	seeded, err := database.Init(ctx, db, database.NewSeeder(nil))
	if err != nil {
		appLogger.Error("Could not initialize database", zap.Error(err))
		return err
	}
	if seeded {
		appLogger.Info("Loaded demo data",
			zap.String("email", database.DemoUserEmail),
			zap.String("password", database.DemoUserPassword))
	}

	redisClient, err := openRedis(cfg, appLogger)
	if err != nil {
		appLogger.Error("Could not connect to Redis", zap.Error(err))
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, db, redisClient, appLogger)
	return srv.Run(ctx)
}
