package app

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	appconfig "github.com/aklilumengesha/Battery-Swap/internal/config"
	httpserver "github.com/aklilumengesha/Battery-Swap/internal/http"
	"github.com/aklilumengesha/Battery-Swap/internal/http/handlers"
	"github.com/aklilumengesha/Battery-Swap/internal/http/middleware"
	"github.com/aklilumengesha/Battery-Swap/internal/password"
	redisstore "github.com/aklilumengesha/Battery-Swap/internal/redis"
	"github.com/aklilumengesha/Battery-Swap/internal/repository"
	"github.com/aklilumengesha/Battery-Swap/internal/service"
	"github.com/aklilumengesha/Battery-Swap/internal/ws"
	"github.com/aklilumengesha/Battery-Swap/libs/db"
	libredis "github.com/aklilumengesha/Battery-Swap/libs/redis"
)

// App wires dependencies for the battery swap service.
type App struct {
	server *httpserver.Server
	db     *sql.DB
	logger *zap.Logger
}

// New builds the application graph.
func New(cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	redisClient, err := libredis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(sqlDB)
	vehicleRepo := repository.NewVehicleRepository(sqlDB)
	stationRepo := repository.NewStationRepository(sqlDB)
	bookingRepo := repository.NewBookingRepository(sqlDB)
	subscriptionRepo := repository.NewSubscriptionRepository(sqlDB)

	stationCache := redisstore.NewStationCache(redisClient, cfg.Redis.CacheTTL)
	hub := ws.NewHub(logger)

	hasher := password.NewBcryptHasher(0)
	tokenSvc := service.NewTokenService(cfg.JWT.Secret, cfg.AccessExpiration(), cfg.RefreshExpiration())
	authSvc := service.NewAuthService(userRepo, hasher, tokenSvc, logger)
	stationSvc := service.NewStationService(stationRepo, userRepo, stationCache, logger)
	subscriptionSvc := service.NewSubscriptionService(subscriptionRepo, bookingRepo, logger)
	bookingSvc := service.NewBookingService(bookingRepo, subscriptionSvc, stationRepo, hub, stationCache, logger)

	deps := httpserver.RouterDeps{
		Signup:             handlers.NewSignupHandler(authSvc),
		SignIn:             handlers.NewSignInHandler(authSvc),
		FindStations:       handlers.NewFindStationsHandler(stationSvc),
		GetStation:         handlers.NewGetStationHandler(stationSvc),
		CreateOrder:        handlers.NewCreateOrderHandler(bookingSvc),
		ListOrders:         handlers.NewListOrdersHandler(bookingSvc),
		GetOrder:           handlers.NewGetOrderHandler(bookingSvc),
		CollectOrder:       handlers.NewCollectOrderHandler(bookingSvc),
		ExportOrders:       handlers.NewExportOrdersHandler(bookingSvc, userRepo),
		OrderReceipt:       handlers.NewOrderReceiptHandler(bookingSvc),
		GetConsumer:        handlers.NewGetConsumerHandler(userRepo),
		UpdateConsumer:     handlers.NewUpdateConsumerHandler(userRepo),
		DeleteConsumer:     handlers.NewDeleteConsumerHandler(userRepo),
		ListVehicles:       handlers.NewListVehiclesHandler(vehicleRepo),
		ListPlans:          handlers.NewListPlansHandler(subscriptionSvc),
		Subscribe:          handlers.NewSubscribeHandler(subscriptionSvc),
		MySubscription:     handlers.NewMySubscriptionHandler(subscriptionSvc),
		SubscriptionStatus: handlers.NewSubscriptionStatusHandler(subscriptionSvc),
		StationStream:      hub.Handler(),
		Health:             handlers.NewHealthHandler(),
	}

	router := httpserver.NewRouter(deps, middleware.Auth(tokenSvc))
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server: server,
		db:     sqlDB,
		logger: logger,
	}, nil
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
