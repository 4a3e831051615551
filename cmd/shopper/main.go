// Command shopper buys one pack through a running simulator and plays the
// resulting payment timeline in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/catalog"
	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/client"
	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/playback"
)

func main() {
	_ = godotenv.Load()

	cfg, err := ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[SHOPPER] ")
	log.SetFlags(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := client.New(cfg.ServerURL, nil)
	if err != nil {
		log.Fatal(err)
	}
	if err := run(ctx, os.Stdout, c, playback.TimerScheduler{}, cfg); err != nil {
		log.Fatal(err)
	}
}

type storeClient interface {
	playback.OrderClient
	Store(ctx context.Context, slug string) (catalog.Storefront, error)
}

func run(ctx context.Context, out io.Writer, c storeClient, sched playback.Scheduler, cfg Config) error {
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		tag = language.Japanese
	}

	store, err := c.Store(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("load store %s: %w", cfg.Store, err)
	}

	if cfg.Product == "" {
		fmt.Fprintf(out, "%s (%s)\n", store.DisplayName, store.Slug)
		for _, p := range store.Products {
			fmt.Fprintf(out, "  %-20s %-28s %s\n", p.ID, p.Name, price(p, tag))
		}
		return nil
	}

	product, ok := store.Product(cfg.Product)
	if !ok {
		return fmt.Errorf("product %s not sold by %s", cfg.Product, store.Slug)
	}
	fmt.Fprintf(out, "Buying %s for %s with %s\n", product.Name, price(product, tag), cfg.Method)

	session := playback.NewSession(c, store.Slug, sched)
	session.SetUserID(cfg.UserID)
	session.Subscribe(func(s playback.Snapshot) {
		stage := string(s.Stage())
		if stage == "" {
			stage = "-"
		}
		fmt.Fprintf(out, "[%-10s %-8s] %s\n", s.State, stage, s.Message)
	})

	resp, err := session.Purchase(ctx, product.ID, catalog.PaymentMethod(cfg.Method))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	fmt.Fprintf(out, "Order %s settled, intent %s\n", resp.OrderID, resp.PaymentIntentID)
	return nil
}

func price(p catalog.Product, tag language.Tag) string {
	s, err := catalog.FormatPrice(p.Price, p.Currency, tag)
	if err != nil {
		return fmt.Sprintf("%d %s", p.Price, p.Currency)
	}
	return s
}
