package server

import (
	"context"

	"github.com/fekuna/omnipos-inventory-web/internal/admin"
	"github.com/fekuna/omnipos-inventory-web/internal/cache"
	"github.com/fekuna/omnipos-inventory-web/internal/database"
	"github.com/fekuna/omnipos-inventory-web/internal/middleware"
	"github.com/fekuna/omnipos-inventory-web/internal/upload"
	"go.uber.org/zap"

	orderH "github.com/fekuna/omnipos-inventory-web/internal/order/handler"
	orderRepoPkg "github.com/fekuna/omnipos-inventory-web/internal/order/repository"
	orderUCPkg "github.com/fekuna/omnipos-inventory-web/internal/order/usecase"

	prodH "github.com/fekuna/omnipos-inventory-web/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-inventory-web/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-inventory-web/internal/product/usecase"

	reportH "github.com/fekuna/omnipos-inventory-web/internal/report/handler"
	reportRepoPkg "github.com/fekuna/omnipos-inventory-web/internal/report/repository"
	reportUCPkg "github.com/fekuna/omnipos-inventory-web/internal/report/usecase"

	userH "github.com/fekuna/omnipos-inventory-web/internal/user/handler"
	userRepoPkg "github.com/fekuna/omnipos-inventory-web/internal/user/repository"
	userUCPkg "github.com/fekuna/omnipos-inventory-web/internal/user/usecase"
)

func (s *Server) mapRoutes() {
	// Repositories
	userRepo := userRepoPkg.NewPGRepository(s.db)
	prodRepo := prodRepoPkg.NewPGRepository(s.db)
	orderRepo := orderRepoPkg.NewPGRepository(s.db)
	reportRepo := reportRepoPkg.NewPGRepository(s.db)

	// UseCases
	userUC := userUCPkg.NewUserUseCase(userRepo, s.logger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, s.categoryCache(), s.logger)
	orderUC := orderUCPkg.NewOrderUseCase(orderRepo, s.metrics, s.logger)
	reportUC := reportUCPkg.NewReportUseCase(reportRepo, s.logger)

	// Handlers
	uploads := upload.NewStore(upload.Config{
		Dir:               s.cfg.Upload.Dir,
		PublicPrefix:      s.cfg.Upload.PublicPrefix,
		AllowedExtensions: s.cfg.Upload.AllowedExtensions,
		MaxBytes:          s.cfg.Upload.MaxBytes,
	})
	userHandler := userH.NewUserHandler(userUC, s.sessions, s.render, uploads, s.metrics, s.logger)
	prodHandler := prodH.NewProductHandler(prodUC, s.render, s.logger)
	orderHandler := orderH.NewOrderHandler(orderUC, prodUC, s.render, s.logger)
	reportHandler := reportH.NewReportHandler(reportUC, s.render, s.logger)
	adminHandler := admin.NewHandler(admin.ResetFunc(s.resetDatabase), s.cfg.Server.AllowReset, s.render, s.logger)

	loginLimiter := middleware.NewRateLimiter(s.cfg.Auth.LoginRatePerSecond, s.cfg.Auth.LoginBurst, s.logger)

	page := s.sessions.RequirePage()
	api := s.sessions.RequireAPI()
	either := s.sessions.RequireLogin()

	app := s.app
	app.Static("/static", s.cfg.Server.StaticDir)
	app.Get("/health", s.healthCheck)
	app.Get("/metrics", s.metrics.Handler())

	app.Get("/", userHandler.Index)
	app.Get("/login", userHandler.LoginPage)
	app.Post("/login", loginLimiter.Handler(userHandler.LoginThrottled), userHandler.Login)
	app.Get("/register", userHandler.RegisterPage)
	app.Post("/register", userHandler.Register)
	app.Get("/logout", userHandler.Logout)
	app.Post("/upload-profile-image", api, userHandler.UploadProfileImage)

	app.Get("/dashboard", page, reportHandler.Dashboard)
	app.Get("/report", page, reportHandler.Report)
	app.Get("/api/dashboard", api, reportHandler.DashboardJSON)

	app.Get("/inventory", page, prodHandler.Inventory)
	app.Get("/add_product", page, prodHandler.AddProductForm)
	app.Post("/add_product", page, prodHandler.AddProduct)
	app.Get("/edit_product/:id", page, prodHandler.EditProductForm)
	app.Post("/edit_product/:id", page, prodHandler.EditProduct)
	app.Post("/delete_product/:id", api, prodHandler.DeleteProduct)
	app.Get("/api/categories", api, prodHandler.Categories)

	app.Get("/orders", page, orderHandler.Orders)
	app.Get("/recent-orders", api, orderHandler.RecentOrders)
	app.Get("/create_order", page, orderHandler.CreateOrderForm)
	app.Post("/create_order", either, orderHandler.CreateOrder)
	app.Get("/edit_order/:id", page, orderHandler.EditOrderForm)
	app.Post("/edit_order/:id", either, orderHandler.EditOrder)
	app.Post("/delete_order/:id", api, orderHandler.DeleteOrder)
	app.Get("/order_details/:id", page, orderHandler.OrderDetails)

	app.Get("/reset-db", page, adminHandler.ResetDB)
}

// categoryCache is the Redis client when caching is wanted, else nil.
func (s *Server) categoryCache() *cache.RedisClient {
	if s.redis == nil || !s.cfg.Redis.Enabled {
		return nil
	}
	return s.redis
}

func (s *Server) resetDatabase(ctx context.Context) error {
	if err := database.Reset(ctx, s.db, database.NewSeeder(nil)); err != nil {
		return err
	}
	if c := s.categoryCache(); c != nil {
		if err := c.Client.Del(ctx, prodUCPkg.CategoriesCacheKey).Err(); err != nil {
			s.logger.Warn("failed to clear category cache after reset", zap.Error(err))
		}
	}
	return nil
}
