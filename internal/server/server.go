// Package server assembles the HTTP application and the gRPC health endpoint.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/fekuna/omnipos-inventory-web/config"
	"github.com/fekuna/omnipos-inventory-web/internal/auth"
	"github.com/fekuna/omnipos-inventory-web/internal/cache"
	"github.com/fekuna/omnipos-inventory-web/internal/logger"
	"github.com/fekuna/omnipos-inventory-web/internal/metrics"
	"github.com/fekuna/omnipos-inventory-web/internal/middleware"
	"github.com/fekuna/omnipos-inventory-web/internal/web"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// bodyLimit leaves room for a maximum size upload plus the multipart framing.
const bodyLimit = 8 * 1024 * 1024

type Server struct {
	cfg      *config.Config
	db       *sqlx.DB
	redis    *cache.RedisClient
	logger   logger.ZapLogger
	app      *fiber.App
	sessions *auth.SessionManager
	render   *web.Renderer
	metrics  *metrics.Collector
	health   *health.Server
}

// New builds the fiber app with every route mapped. redis may be nil.
func New(cfg *config.Config, db *sqlx.DB, redis *cache.RedisClient, log logger.ZapLogger) *Server {
	s := &Server{
		cfg:     cfg,
		db:      db,
		redis:   redis,
		logger:  log,
		metrics: metrics.NewCollector(),
		health:  health.NewServer(),
	}

	sessionCfg := auth.SessionConfig{
		CookieName:   cfg.Session.CookieName,
		CookieSecure: cfg.Session.CookieSecure,
		Expiration:   cfg.Session.Expiration,
	}
	if cfg.Session.Store == "redis" && redis != nil {
		sessionCfg.Storage = cache.NewSessionStorage(redis.Client, cfg.Redis.Prefix)
	}
	s.sessions = auth.NewSessionManager(sessionCfg, log)
	s.render = web.NewRenderer(s.sessions)

	s.app = fiber.New(fiber.Config{
		AppName:      "omnipos-inventory",
		Views:        web.NewEngine(),
		ErrorHandler: s.errorHandler,
		BodyLimit:    bodyLimit,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Immutable:    true,
	})
	middleware.Setup(s.app, log)
	s.app.Use(s.metrics.Middleware())
	s.mapRoutes()

	return s
}

func (s *Server) App() *fiber.App {
	return s.app
}

type errorPage struct {
	Code    int
	Message string
}

// errorHandler answers anything a handler returned. The request logger has
// already recorded the error.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Something went wrong. Please try again."

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	if code == fiber.StatusNotFound {
		message = "Page not found"
	}

	c.Status(code)
	if auth.WantsJSON(c) || strings.HasPrefix(c.Path(), "/api/") {
		return c.JSON(fiber.Map{"success": false, "message": message})
	}
	if rerr := s.render.Render(c, "error", http.StatusText(code), errorPage{Code: code, Message: message}); rerr != nil {
		s.logger.Error("failed to render error page", zap.Error(rerr))
		return c.Status(code).SendString(message)
	}
	return nil
}

func (s *Server) healthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func normalizePort(port string) string {
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}

// Run serves HTTP, and gRPC health checks when a gRPC port is configured,
// until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	httpAddr := normalizePort(s.cfg.Server.HTTPPort)
	go func() {
		s.logger.Info("starting HTTP server", zap.String("addr", httpAddr))
		if err := s.app.Listen(httpAddr); err != nil {
			errCh <- err
		}
	}()

	var grpcServer *grpc.Server
	if s.cfg.Server.GRPCPort != "" {
		grpcAddr := normalizePort(s.cfg.Server.GRPCPort)
		lis, err := net.Listen("tcp", grpcAddr)
		if err != nil {
			return err
		}

		grpcServer = grpc.NewServer()
		healthpb.RegisterHealthServer(grpcServer, s.health)
		reflection.Register(grpcServer)
		s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

		go func() {
			s.logger.Info("starting gRPC health server", zap.String("addr", grpcAddr))
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	s.logger.Info("shutting down server...")
	s.health.Shutdown()
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
