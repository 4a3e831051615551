package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	env "github.com/caarlos0/env/v11"

	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/catalog"
)

// Config drives one shopper run. Environment supplies defaults, flags win.
type Config struct {
	ServerURL string `env:"SHOPPER_SERVER_URL" envDefault:"http://localhost:3000"`
	Store     string `env:"SHOPPER_STORE" envDefault:"a3-official"`
	Product   string `env:"SHOPPER_PRODUCT"`
	Method    string `env:"SHOPPER_PAYMENT_METHOD" envDefault:"PayPay"`
	UserID    string `env:"SHOPPER_USER_ID"`
	Locale    string `env:"SHOPPER_LOCALE" envDefault:"ja-JP"`
}

// ParseConfig reads the environment, then overlays flags from args.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "simulator HTTP base URL")
	fs.StringVar(&cfg.Store, "store", cfg.Store, "storefront slug")
	fs.StringVar(&cfg.Product, "product", cfg.Product, "product id; empty lists the store's products")
	fs.StringVar(&cfg.Method, "method", cfg.Method, "payment method, e.g. PayPay or Visa")
	fs.StringVar(&cfg.UserID, "user", cfg.UserID, "in-game player id")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "BCP 47 locale for prices")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.Store) == "" {
		return Config{}, errors.New("store is required")
	}
	if cfg.Product != "" && !catalog.PaymentMethod(cfg.Method).Valid() {
		return Config{}, fmt.Errorf("unknown payment method %q", cfg.Method)
	}
	return cfg, nil
}
