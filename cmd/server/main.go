package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adpulse/marketing-api/internal/api"
	"github.com/adpulse/marketing-api/internal/api/handler"
	"github.com/adpulse/marketing-api/internal/core/ports"
	"github.com/adpulse/marketing-api/internal/infrastructure/adnetwork"
	"github.com/adpulse/marketing-api/internal/infrastructure/billing"
	storemongo "github.com/adpulse/marketing-api/internal/infrastructure/db/mongo"
	storeredis "github.com/adpulse/marketing-api/internal/infrastructure/db/redis"
	"github.com/adpulse/marketing-api/internal/infrastructure/email"
	"github.com/adpulse/marketing-api/internal/infrastructure/idp"
	"github.com/adpulse/marketing-api/internal/infrastructure/queue"
	"github.com/adpulse/marketing-api/internal/pkg/config"
	"github.com/adpulse/marketing-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Service: "marketing-api",
		Pretty:  cfg.Env == "development",
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	mongoClient, db, err := storemongo.Connect(ctx, storemongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	if err := storemongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongo index setup failed")
	}

	rdb, err := storeredis.Connect(ctx, storeredis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	publisher := queue.NewPublisher(cfg.EventBus.Endpoint, cfg.EventBus.Buffer, log)
	publisher.Start(ctx)

	e := api.NewRouter(api.Dependencies{
		DB:            db,
		Redis:         rdb,
		JWTSecret:     cfg.JWTSecret,
		Log:           log,
		Subscriptions: billing.NewClient(cfg.Payments.APIURL, cfg.Payments.APIKey),
		AdClients: []ports.AdNetworkClient{
			adnetwork.NewFacebookClient(cfg.Facebook.APIURL, cfg.Facebook.AppID, cfg.Facebook.AppSecret),
			adnetwork.NewTikTokClient(cfg.TikTok.APIURL, cfg.TikTok.AppID, cfg.TikTok.AppSecret),
		},
		IdP:       idp.NewClient(cfg.IdP.APIURL, cfg.IdP.APIKey),
		Mailer:    email.NewClient(cfg.Email.APIURL, cfg.Email.APIKey, cfg.Email.From),
		Publisher: publisher,
		Settings:  platformSettings(cfg),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func platformSettings(cfg *config.Config) handler.PlatformSettings {
	return handler.PlatformSettings{
		Plans: []handler.PlanInfo{
			{ID: "starter", Name: "Starter", PriceID: cfg.Plans.StarterPriceID, BusinessLimit: 3, TrialDays: 14},
			{ID: "growth", Name: "Growth", PriceID: cfg.Plans.GrowthPriceID, BusinessLimit: 10, TrialDays: 14},
			{ID: "agency", Name: "Agency", PriceID: cfg.Plans.AgencyPriceID, BusinessLimit: 0, TrialDays: 7},
		},
		FacebookAppID: cfg.Facebook.AppID,
		TikTokAppID:   cfg.TikTok.AppID,
	}
}
