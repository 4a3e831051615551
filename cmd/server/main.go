package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	restate "github.com/restatedev/sdk-go"
	"github.com/restatedev/sdk-go/server"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/api"
	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/catalog"
	appconfig "github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/config"
	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/events"
	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/health"
	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/logging"
	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/merchant"
	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/order"
	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/secrets"
	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/storage/sqlcatalog"
	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/telemetry"
)

func newLogger(cfg appconfig.Config) *slog.Logger {
	logger := logging.New(os.Stdout, cfg.ServiceName, cfg.Log)
	slog.SetDefault(logger)
	return logger
}

func setupTelemetry(lc fx.Lifecycle, cfg appconfig.Config, logger *slog.Logger) {
	var shutdown func(context.Context) error
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var err error
			shutdown, err = telemetry.InitTracer(ctx, cfg.ServiceName, cfg.Version, cfg.Telemetry, logger)
			return err
		},
		OnStop: func(ctx context.Context) error {
			if shutdown == nil {
				return nil
			}
			return shutdown(ctx)
		},
	})
}

// newCatalog serves the seed from memory unless a database is configured, in
// which case the schema is migrated and optionally reseeded.
func newCatalog(lc fx.Lifecycle, cfg appconfig.Config, logger *slog.Logger) (catalog.Source, error) {
	if !cfg.Database.Enabled() {
		logger.Info("serving in-memory catalog", slog.Int("stores", len(catalog.Seed())))
		return catalog.NewMemory(catalog.Seed()), nil
	}

	ctx := context.Background()
	db, err := sqlcatalog.OpenDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return db.Close() }})

	repo := sqlcatalog.NewRepository(db, cfg.Database.Driver)
	if err := prepareCatalog(ctx, repo, cfg.Database.Seed); err != nil {
		return nil, err
	}
	logger.Info("serving catalog from database", slog.String("driver", cfg.Database.Driver))
	return repo, nil
}

func prepareCatalog(ctx context.Context, repo *sqlcatalog.Repository, seed bool) error {
	if err := repo.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate catalog: %w", err)
	}
	if !seed {
		return nil
	}
	if err := repo.Replace(ctx, catalog.Seed()); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	return nil
}

func newProcessor(cfg appconfig.Config, src catalog.Source) *order.Processor {
	delays := cfg.Simulation.Delays()
	return order.NewProcessor(src, order.Options{
		PaymentBaseURL: cfg.Simulation.PaymentBaseURL,
		Delays:         &delays,
		OrderIDs:       order.NewTimestampIDs("ORD-"),
		PaymentIDs:     order.NewRandomIDs("PAY-", 1_000_000),
		Failure:        order.RatioFailurePolicy{Rate: cfg.Simulation.FailureRate},
	})
}

// newPublisher writes to Kafka when brokers are configured. Otherwise events
// go straight into the in-process ledger.
func newPublisher(lc fx.Lifecycle, cfg appconfig.Config, ledger *events.Ledger, logger *slog.Logger) events.Publisher {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Info("kafka disabled, recording simulations in-process")
		return ledger
	}
	prod := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return prod.Close()
		},
	})
	return prod
}

func newConsole() *merchant.Console {
	return merchant.NewConsole(merchant.DefaultWorkspace(time.Now()), nil, nil)
}

func registerAuditConsumer(lc fx.Lifecycle, cfg appconfig.Config, logger *slog.Logger, shutdowner fx.Shutdowner, ledger *events.Ledger) {
	if len(cfg.Kafka.Brokers) == 0 {
		return
	}
	reader := events.NewReader(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.AuditGroup)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				if err := events.Consume(ctx, reader, cfg.Kafka.Topic, ledger.Record, logger.With(slog.String("group", cfg.Kafka.AuditGroup))); err != nil {
					logger.Error("audit consumer stopped", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			_ = reader.Close()
			<-done
			return nil
		},
	})
}

func registerWebServer(lc fx.Lifecycle, cfg appconfig.Config, logger *slog.Logger, shutdowner fx.Shutdowner,
	src catalog.Source, proc *order.Processor, pub events.Publisher, console *merchant.Console, ledger *events.Ledger) {
	httpServer := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: api.NewHandler(api.Deps{
			Catalog:       src,
			Orders:        proc,
			Publisher:     pub,
			Console:       console,
			Ledger:        ledger,
			Logger:        logger,
			AllowedOrigin: cfg.HTTP.AllowedOrigin,
		}),
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				logger.Info("http api listening", slog.String("addr", displayAddr(cfg.HTTP.Addr)))
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("http server error", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.HTTP.ShutdownTimeout)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	})
}

func buildRestateServer(proc *order.Processor, src catalog.Source) *server.Restate {
	svc := order.NewService(proc)
	simulator := restate.NewService(order.ServiceName).
		Handler("CreateOrder", restate.NewServiceHandler(svc.CreateOrder))

	ws := merchant.NewObject(src)
	workspace := restate.NewObject(merchant.ObjectName).
		Handler("GetWorkspace", restate.NewObjectSharedHandler(ws.GetWorkspace)).
		Handler("UpdateProfile", restate.NewObjectHandler(ws.UpdateProfile)).
		Handler("UpdateWebhook", restate.NewObjectHandler(ws.UpdateWebhook)).
		Handler("UpdateSettlement", restate.NewObjectHandler(ws.UpdateSettlement)).
		Handler("AddProduct", restate.NewObjectHandler(ws.AddProduct)).
		Handler("Publish", restate.NewObjectHandler(ws.Publish))

	return server.NewRestate().Bind(simulator).Bind(workspace)
}

func registerRestateServer(lc fx.Lifecycle, cfg appconfig.Config, logger *slog.Logger, shutdowner fx.Shutdowner, srv *server.Restate) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			addr := displayAddr(cfg.Restate.ListenAddr)
			logger.Info("restate endpoint listening",
				slog.String("addr", addr),
				slog.String("register", "restate deployments register http://"+addr),
				slog.Any("services", []string{order.ServiceName, merchant.ObjectName}),
			)
			go func() {
				defer close(done)
				if err := srv.Start(ctx, cfg.Restate.ListenAddr); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("restate server error", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			<-done
			return nil
		},
	})
}

func registerHealthServer(lc fx.Lifecycle, cfg appconfig.Config, logger *slog.Logger, shutdowner fx.Shutdowner) {
	hs := health.NewServer(order.ServiceName, merchant.ObjectName)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			lis, err := (&net.ListenConfig{}).Listen(ctx, "tcp", cfg.GRPC.Addr)
			if err != nil {
				return fmt.Errorf("listen grpc %s: %w", cfg.GRPC.Addr, err)
			}
			go func() {
				logger.Info("grpc health listening", slog.String("addr", displayAddr(cfg.GRPC.Addr)))
				if err := hs.Serve(lis); err != nil {
					logger.Error("grpc health server error", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			hs.Shutdown(ctx)
			return nil
		},
	})
}

func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

func main() {
	_ = godotenv.Load()
	if _, err := secrets.Bootstrap(context.Background(), slog.Default()); err != nil {
		slog.Error("secrets bootstrap failed", slog.Any("error", err))
		os.Exit(1)
	}

	app := fx.New(
		fx.WithLogger(func(l *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: l.With(slog.String("component", "fx"))}
		}),
		fx.Provide(
			appconfig.Load,
			newLogger,
			newCatalog,
			newProcessor,
			events.NewLedger,
			newPublisher,
			newConsole,
			buildRestateServer,
		),
		fx.Invoke(
			func(logger *slog.Logger, cfg appconfig.Config) {
				logger.Info("starting", slog.String("version", cfg.Version))
			},
			setupTelemetry,
			registerWebServer,
			registerRestateServer,
			registerHealthServer,
			registerAuditConsumer,
		),
	)

	app.Run()
}
