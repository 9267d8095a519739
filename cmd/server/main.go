package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/appskottage/AKSalat/internal/aladhan"
	"github.com/appskottage/AKSalat/internal/config"
	"github.com/appskottage/AKSalat/internal/db"
	"github.com/appskottage/AKSalat/internal/logging"
	"github.com/appskottage/AKSalat/internal/notify"
	redisclient "github.com/appskottage/AKSalat/internal/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Setup(cfg.Environment, cfg.LogLevel)

	if err := db.Init(context.Background(), cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init")
	}
	if err := db.RunMigrations(context.Background(), cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}
	var store db.Store = db.NewStore(db.DB)

	if cfg.RedisAddress != "" {
		redisclient.InitRedis(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
		if err := redisclient.Rdb.Ping(context.Background()).Err(); err != nil {
			log.Warn().Err(err).Str("address", cfg.RedisAddress).Msg("redis unreachable, settings cache will fall back to postgres")
		}
		store = redisclient.NewCachedStore(store, redisclient.NewSettingsCache(redisclient.Rdb, cfg.SettingsCacheTTL))
	}

	var notifier notify.Notifier = notify.Noop{}
	if cfg.MQTTBrokerURL != "" {
		client, err := notify.Connect(cfg.MQTTBrokerURL, fmt.Sprintf("aksalat-%d", os.Getpid()))
		if err != nil {
			log.Error().Err(err).Msg("MQTT unavailable, screens will not be notified of method changes")
		} else {
			mqttNotifier := notify.NewMQTTNotifier(client)
			defer mqttNotifier.Close()
			notifier = mqttNotifier
		}
	}

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger())

	RegisterRoutes(r, cfg, Services{
		Store:      store,
		Notifier:   notifier,
		Calculator: aladhan.NewClient(cfg.AladhanBaseURL, nil),
	})

	log.Info().
		Str("address", cfg.ServerAddress).
		Str("default_method", cfg.DefaultMethod.String()).
		Msg("listening")
	if err := r.Run(cfg.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
