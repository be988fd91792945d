// Command devinvoke is a development-only entry point: it builds the full
// handler graph against the local stores, constructs a synthetic caller
// identity, and dispatches one operation in-process, printing the envelope.
// It is not part of the production interface.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adpulse/marketing-api/internal/api"
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
	var (
		op      = flag.String("op", "account.get", "operation to invoke, e.g. staff.list")
		subject = flag.String("sub", "dev-subject-1", "synthetic subject id")
		groups  = flag.String("groups", "Managers", "comma-separated groups claim")
		manager = flag.String("manager", "", "manager_id claim for a staff identity")
		body    = flag.String("body", "{}", "JSON request payload")
	)
	flag.Parse()

	cfg := config.Load()
	log := logger.Init(logger.Options{Level: "warn", Service: "devinvoke"})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoClient, db, err := storemongo.Connect(ctx, storemongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		fatal("mongo connect:", err)
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	rdb, err := storeredis.Connect(ctx, storeredis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		fatal("redis connect:", err)
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
	})

	claims := jwt.MapClaims{
		"sub":    *subject,
		"groups": strings.Split(*groups, ","),
		"exp":    time.Now().Add(time.Hour).Unix(),
	}
	if *manager != "" {
		claims["manager_id"] = *manager
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		fatal("sign token:", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/ops/"+*op, strings.NewReader(*body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	fmt.Println(rec.Body.String())
}

func fatal(msg string, err error) {
	fmt.Fprintln(os.Stderr, msg, err)
	os.Exit(1)
}
