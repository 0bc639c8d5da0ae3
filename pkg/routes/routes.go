package routes

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"bloodlink/internal/auth"
	"bloodlink/internal/chat"
	"bloodlink/internal/config"
	"bloodlink/internal/donor"
	"bloodlink/internal/logging"
	"bloodlink/internal/request"
	"bloodlink/pkg/middleware"
)

// Modules wires the whole application graph.
var Modules = fx.Module("bloodlink",
	fx.Provide(
		logging.New,
		config.Load,
		config.NewMongoDBClient,
		config.NewSMSService,

		auth.NewUserRepository,
		func(r *auth.UserRepository) auth.Repository { return r },
		func(r *auth.UserRepository) middleware.UserFinder { return r },
		auth.NewService,
		auth.NewHandler,

		donor.NewMongoRepository,
		func(r *donor.MongoRepository) donor.Repository { return r },
		donor.NewService,
		donor.NewHandler,

		request.NewMongoRepository,
		func(r *request.MongoRepository) request.Repository { return r },
		func(s *donor.Service) request.DonorFinder { return s },
		func(s *config.SMSService) request.Sender { return s },
		request.NewService,
		request.NewHandler,

		func(s *request.Service) chat.RequestClient { return s },
		func(s *donor.Service) chat.DonorClient { return s },
		chat.NewService,
		chat.NewHandler,

		NewEchoServer,
	),
	fx.Invoke(RegisterRoutes),
	fx.Invoke(BootstrapAdmin),
)

func NewEchoServer(lc fx.Lifecycle, cfg *config.Config, log *zap.SugaredLogger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	middleware.SetupMiddleware(e)

	addr := ":" + cfg.Port
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infof("Server running on http://localhost%s", addr)
			go func() {
				if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
					log.Fatalw("Failed to start the server", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down the server ...")
			return e.Shutdown(ctx)
		},
	})
	return e
}

// RegisterRoutes mounts the HTTP surface. Admin-gated routes share one guard;
// registration, search, request creation, and the chat assistant stay public.
func RegisterRoutes(
	e *echo.Echo,
	cfg *config.Config,
	users middleware.UserFinder,
	log *zap.SugaredLogger,
	authHandler *auth.Handler,
	donorHandler *donor.Handler,
	requestHandler *request.Handler,
	chatHandler *chat.Handler,
) {
	admin := middleware.AdminGuard([]byte(cfg.JWTSecret), users, log)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]bool{"ok": true})
	})

	authGroup := e.Group("/api/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/admin/login", authHandler.Login)

	donors := e.Group("/api/donors")
	donors.POST("", donorHandler.Register)
	donors.GET("", donorHandler.Search)
	donors.GET("/admin", donorHandler.ListAll, admin)
	donors.PATCH("/:id/verify", donorHandler.Verify, admin)
	donors.PATCH("/:id/availability", donorHandler.SetAvailability, admin)

	requests := e.Group("/api/requests")
	requests.POST("", requestHandler.Create)
	requests.GET("", requestHandler.List, admin)
	requests.GET("/:id", requestHandler.Get, admin)
	requests.PATCH("/:id/close", requestHandler.Close, admin)

	e.POST("/api/chat", chatHandler.Message)
}

// BootstrapAdmin provisions the default admin account once the app starts.
func BootstrapAdmin(lc fx.Lifecycle, service *auth.Service, log *zap.SugaredLogger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := service.EnsureDefaultAdmin(ctx); err != nil {
				log.Errorw("Error ensuring admin user", "error", err)
			}
			return nil
		},
	})
}
