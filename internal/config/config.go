package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	PostgresURL string `envconfig:"POSTGRES_URL" required:"true"`
	RedisAddr   string `envconfig:"REDIS_ADDR" required:"true"`

	Payments      PaymentsConfig
	DocumentStore DocumentStoreConfig

	// How long a booking attempt may sit in AWAITING_PAYMENT before the
	// attempt is failed. The provider itself enforces no deadline.
	CheckoutTimeout time.Duration `envconfig:"CHECKOUT_TIMEOUT" default:"15m"`
}

type PaymentsConfig struct {
	BaseURL       string `envconfig:"PAYMENTS_BASE_URL" default:"https://api.razorpay.com"`
	KeyID         string `envconfig:"PAYMENTS_KEY_ID" required:"true"`
	KeySecret     string `envconfig:"PAYMENTS_KEY_SECRET" required:"true"`
	WebhookSecret string `envconfig:"PAYMENTS_WEBHOOK_SECRET" required:"true"`
}

type DocumentStoreConfig struct {
	BaseURL string        `envconfig:"DOCSTORE_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"DOCSTORE_TIMEOUT" default:"10s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
