package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phamvd/haulbid-BE/api"
	"github.com/phamvd/haulbid-BE/internal/db"
	"github.com/phamvd/haulbid-BE/internal/event"
	"github.com/phamvd/haulbid-BE/internal/feed"
	"github.com/phamvd/haulbid-BE/internal/locator"
	"github.com/phamvd/haulbid-BE/internal/util"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configurations
	config, err := util.LoadConfig("./app.env")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config file 😣")
	}

	log.Info().Msg("configurations loaded successfully ✅")

	// Create connection pool; bid amounts map to shopspring decimals
	poolConfig, err := pgxpool.ParseConfig(config.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to validate db connection string 😣")
	}
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	connPool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create db connection pool 😣")
	}

	if err = connPool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to db 😣")
	}
	log.Info().Msg("connected to db ✅")

	store := db.NewStore(connPool)

	// Redis là tùy chọn: không cấu hình thì geo cache bị tắt
	var redisDb *redis.Client
	if config.RedisServerAddress != "" {
		redisDb = redis.NewClient(&redis.Options{
			Addr: config.RedisServerAddress,
		})
		log.Info().Msg("geo cache enabled ✅")
	}

	loc := locator.NewLocator(config.WorldCitiesPath, redisDb, locator.WithCacheTTL(config.GeoCacheDuration))

	// Fan-out hub cho các SSE session
	eventSender := event.NewSSEServer()
	go eventSender.Run()

	// Change feed: LISTEN trên kênh thông báo bid của Postgres
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listener := feed.NewListener(connPool, eventSender)
	go listener.Run(ctx)

	runHTTPServer(&config, store, eventSender, loc)
}

func runHTTPServer(config *util.Config, store db.Store, eventSender event.EventSender, loc *locator.Locator) {
	server, err := api.NewServer(store, config, eventSender, loc)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create HTTP server 😣")
	}

	if err = server.Start(config.HTTPServerAddress); err != nil {
		log.Fatal().Err(err).Msg("failed to start HTTP server 😣")
	}
}
