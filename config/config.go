package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Logger   LoggerConfig
	Postgres PostgresConfig
	Session  SessionConfig
	Redis    RedisConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	AppEnv          string
	HTTPPort        string
	GRPCPort        string
	StaticDir       string
	AllowReset      bool
	ShutdownTimeout time.Duration
}

type UploadConfig struct {
	Dir               string
	PublicPrefix      string
	AllowedExtensions []string
	MaxBytes          int64
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

type SessionConfig struct {
	// Store is either "memory" or "redis".
	Store        string
	CookieName   string
	CookieSecure bool
	Expiration   time.Duration
}

type RedisConfig struct {
	// Enabled turns on the category cache. A redis session store connects regardless.
	Enabled  bool
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type AuthConfig struct {
	LoginRatePerSecond float64
	LoginBurst         int
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:     getEnv("APP_ENV", "dev"),
			HTTPPort:   getEnv("HTTP_PORT", ":5000"),
			GRPCPort:   getEnv("GRPC_PORT", ""),
			StaticDir:  getEnv("STATIC_DIR", "./static"),
			AllowReset: getEnvBool("ALLOW_DB_RESET", true),

			ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Upload: UploadConfig{
			Dir:               getEnv("UPLOAD_DIR", "./static/uploads/profile_images"),
			PublicPrefix:      getEnv("UPLOAD_PUBLIC_PREFIX", "/static/uploads/profile_images"),
			AllowedExtensions: getEnvSlice("UPLOAD_ALLOWED_EXTENSIONS", []string{"png", "jpg", "jpeg", "gif"}),
			MaxBytes:          int64(getEnvInt("UPLOAD_MAX_BYTES", 5*1024*1024)),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnv("POSTGRES_PORT", "5432"),
			User:            getEnv("POSTGRES_USER", "omnipos"),
			Password:        getEnv("POSTGRES_PASSWORD", "omnipos"),
			DBName:          getEnv("POSTGRES_DB", "omnipos_inventory"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
		},
		Session: SessionConfig{
			Store:        getEnv("SESSION_STORE", "memory"),
			CookieName:   getEnv("SESSION_COOKIE_NAME", "omnipos_session"),
			CookieSecure: getEnvBool("SESSION_COOKIE_SECURE", false),
			Expiration:   time.Duration(getEnvInt("SESSION_EXPIRATION_MINUTES", 720)) * time.Minute,
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Prefix:   getEnv("REDIS_SESSION_PREFIX", "session:"),
		},
		Auth: AuthConfig{
			LoginRatePerSecond: getEnvFloat("LOGIN_RATE_PER_SECOND", 1),
			LoginBurst:         getEnvInt("LOGIN_BURST", 5),
		},
	}
}

// IsDevelopment reports whether the app runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "dev" || c.Server.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.Split(value, ",")
	}
	return fallback
}
