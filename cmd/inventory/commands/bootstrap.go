package commands

import (
	"fmt"
	"time"

	"github.com/fekuna/omnipos-inventory-web/config"
	"github.com/fekuna/omnipos-inventory-web/internal/cache"
	"github.com/fekuna/omnipos-inventory-web/internal/database"
	"github.com/fekuna/omnipos-inventory-web/internal/logger"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

func newLogger(cfg *config.Config) logger.ZapLogger {
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}

	if cfg.IsDevelopment() {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	return logger.NewZapLogger(logConfig)
}

func openDatabase(cfg *config.Config, log logger.ZapLogger) (*sqlx.DB, error) {
	db, err := database.NewPostgres(&database.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		return nil, err
	}
	log.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))
	return db, nil
}

// openRedis connects when sessions or the category cache need Redis. It
// returns nil, nil when neither does. Only a Redis session store makes a
// failed connection fatal.
func openRedis(cfg *config.Config, log logger.ZapLogger) (*cache.RedisClient, error) {
	needSessions := cfg.Session.Store == "redis"
	if !needSessions && !cfg.Redis.Enabled {
		return nil, nil
	}

	client, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		if needSessions {
			return nil, fmt.Errorf("redis session store: %w", err)
		}
		log.Warn("Could not connect to Redis, category cache disabled", zap.Error(err))
		return nil, nil
	}
	log.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	return client, nil
}
