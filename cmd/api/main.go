package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/jcampos-dev/storefront-backend/api/routes"
	"github.com/jcampos-dev/storefront-backend/internal/auth"
	"github.com/jcampos-dev/storefront-backend/internal/cart"
	"github.com/jcampos-dev/storefront-backend/internal/credentials"
	"github.com/jcampos-dev/storefront-backend/internal/items"
	"github.com/jcampos-dev/storefront-backend/internal/orders"
	"github.com/jcampos-dev/storefront-backend/internal/users"
	"github.com/jcampos-dev/storefront-backend/pkg/auth/session"
	"github.com/jcampos-dev/storefront-backend/pkg/config"
	"github.com/jcampos-dev/storefront-backend/pkg/db"
	"github.com/jcampos-dev/storefront-backend/pkg/logger"
	"github.com/jcampos-dev/storefront-backend/pkg/metrics"
	"github.com/jcampos-dev/storefront-backend/pkg/migrate"
	"github.com/jcampos-dev/storefront-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	itemsRepo := items.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())

	usersService, err := users.NewService(users.ServiceParams{
		Repo:           usersRepo,
		Tx:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	itemsService, err := items.NewService(itemsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create items service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		Repo:  cartRepo,
		Users: usersRepo,
		Items: itemsRepo,
		Tx:    dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:  ordersRepo,
		Carts: cartRepo,
		Users: usersRepo,
		Tx:    dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	resolver, err := credentials.NewResolver(usersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create credential resolver", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Resolver:       resolver,
		Users:          usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:         cfg,
			Logger:         logg,
			Metrics:        metrics.NewHTTPMetrics(),
			SessionManager: sessionManager,
			AuthService:    authService,
			UsersService:   usersService,
			ItemsService:   itemsService,
			CartService:    cartService,
			OrdersService:  ordersService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
