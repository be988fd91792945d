package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Payments PaymentsConfig
	Facebook FacebookConfig
	TikTok   TikTokConfig
	IdP      IdPConfig
	Email    EmailConfig
	EventBus EventBusConfig
	Plans    PlansConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=marketing_api"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type PaymentsConfig struct {
	APIURL string `env:"PAYMENTS_API_URL, default=https://api.payments.example.com"`
	APIKey string `env:"PAYMENTS_API_KEY"`
}

type FacebookConfig struct {
	APIURL    string `env:"FACEBOOK_API_URL, default=https://graph.facebook.com/v18.0"`
	AppID     string `env:"FACEBOOK_APP_ID"`
	AppSecret string `env:"FACEBOOK_APP_SECRET"`
}

type TikTokConfig struct {
	APIURL    string `env:"TIKTOK_API_URL, default=https://business-api.tiktok.com/open_api/v1.3"`
	AppID     string `env:"TIKTOK_APP_ID"`
	AppSecret string `env:"TIKTOK_APP_SECRET"`
}

type IdPConfig struct {
	APIURL string `env:"IDP_API_URL"`
	APIKey string `env:"IDP_API_KEY"`
}

type EmailConfig struct {
	APIURL string `env:"EMAIL_API_URL, default=https://api.postmarkapp.com"`
	APIKey string `env:"EMAIL_API_KEY"`
	From   string `env:"EMAIL_FROM,    default=no-reply@adpulse.io"`
}

type EventBusConfig struct {
	Endpoint string `env:"EVENT_BUS_ENDPOINT"`
	Buffer   int    `env:"EVENT_BUS_BUFFER, default=256"`
}

// PlansConfig names the purchasable plans surfaced by the settings
// endpoint. Price ids come from the payment platform's dashboard.
type PlansConfig struct {
	StarterPriceID string `env:"PLAN_STARTER_PRICE_ID"`
	GrowthPriceID  string `env:"PLAN_GROWTH_PRICE_ID"`
	AgencyPriceID  string `env:"PLAN_AGENCY_PRICE_ID"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
