package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"storefront/internal/changefeed"
	"storefront/internal/config"
	"storefront/internal/coupon"
	"storefront/internal/identity"
	"storefront/internal/infrastructure/database"
	"storefront/internal/infrastructure/logger"
	"storefront/internal/menu"
	"storefront/internal/notification"
	"storefront/internal/order"
	"storefront/internal/server"
)

func main() {
	app := &cli.App{
		Name:  "storefront",
		Usage: "order pricing and realtime notification service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "optional config file; environment variables take precedence",
				EnvVars: []string{"STOREFRONT_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start the HTTP API",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "apply the embedded database schema",
				Subcommands: []*cli.Command{
					{Name: "up", Usage: "apply all pending migrations", Action: migrateAction(database.Up)},
					{Name: "down", Usage: "roll back all migrations", Action: migrateAction(database.Down)},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func bootstrap(c *cli.Context) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}

	return cfg, zapLogger, nil
}

func migrateAction(direction database.Direction) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, zapLogger, err := bootstrap(c)
		if err != nil {
			return err
		}
		defer zapLogger.Sync()

		db, err := database.NewConnection(cfg.Database)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer db.Close()

		return database.Migrate(db, direction, zapLogger)
	}
}

func serve(c *cli.Context) error {
	cfg, zapLogger, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer zapLogger.Sync()

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()
	zapLogger.Info("database connected", zap.String("driver", cfg.Database.Driver))

	feed, err := newFeed(c.Context, cfg, zapLogger)
	if err != nil {
		return err
	}
	defer feed.Close()

	messages, err := notification.LoadMessages(cfg.Messages.File)
	if err != nil {
		return err
	}

	validate := validator.New()

	resolver := identity.NewResolver(db)
	couponValidator, couponCtrl := coupon.NewModule(db, validate, zapLogger)
	menuModule := menu.NewModule(db, validate, zapLogger)
	orderCtrl := order.NewModule(order.Dependencies{
		DB:        db,
		Publisher: feed,
		Menu:      menuModule,
		Coupons:   couponValidator,
		Claims:    resolver,
		Config:    cfg,
		Validate:  validate,
		Logger:    zapLogger,
	})

	sessions := notification.NewSessions(feed, resolver, messages, cfg.Feed.BufferSize, zapLogger)
	defer sessions.CloseAll()

	router := server.NewRouter(server.Handlers{
		Orders:        orderCtrl,
		Coupons:       couponCtrl,
		Menu:          menuModule.Controller,
		Notifications: notification.NewController(sessions, zapLogger),
		DB:            db,
	}, cfg.Server.CORSAllowedOrigins, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)
	srv.OnShutdown(sessions.CloseAll)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		return err
	}

	zapLogger.Info("server stopped gracefully")
	return nil
}

func newFeed(ctx context.Context, cfg *config.Config, logger *zap.Logger) (changefeed.Feed, error) {
	switch cfg.Feed.Driver {
	case config.FeedRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		logger.Info("change feed on redis", zap.String("addr", cfg.Redis.Addr))
		return changefeed.NewRedisFeed(client, cfg.Feed.BufferSize, logger), nil
	default:
		logger.Info("change feed in memory")
		return changefeed.NewMemoryFeed(cfg.Feed.BufferSize), nil
	}
}
