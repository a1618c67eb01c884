package main

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ironxpress/config"
	httpapi "ironxpress/storefront-svc/internal/api/http"
	"ironxpress/storefront-svc/internal/cart"
	"ironxpress/storefront-svc/internal/service"
	"ironxpress/storefront-svc/internal/serviceability"
	"ironxpress/storefront-svc/internal/slots"
	"ironxpress/storefront-svc/internal/storage"
	"ironxpress/storefront-svc/migrations"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	serviceName     = "storefront-svc"
	shutdownTimeout = 10 * time.Second
)

type app struct {
	handler http.Handler
	api     *httpapi.Handler
	bus     *storage.RedisBus
}

func newApp(cfg *config.Config, db *sql.DB, rdb *redis.Client, writer storage.MessageWriter, logger zerolog.Logger) *app {
	repo := storage.NewPostgresRepository(db)
	bus := storage.NewRedisBus(rdb, logger)

	refData := service.NewRefData(repo, logger)
	store := cart.NewStore(storage.NewRedisStorage(rdb), bus, logger)
	cartSvc := service.NewCartService(store, refData, cfg.DeliveryFee, logger)
	checker := serviceability.NewChecker(refData, logger)
	selector := slots.NewSelector(refData, logger)
	qr := service.ReceiptQRGenerator{BaseURL: cfg.ReceiptBaseURL}

	checkout := service.NewCheckoutService(service.CheckoutDeps{
		Cart:           cartSvc,
		Store:          store,
		Checker:        checker,
		Slots:          selector,
		Progress:       storage.NewCheckoutCache(rdb, cfg.CheckoutTTL),
		Orders:         repo,
		QR:             qr,
		Publisher:      storage.NewKafkaPublisher(writer),
		ReceiptBaseURL: cfg.ReceiptBaseURL,
	}, logger)

	accounts := service.NewAccountService(repo, repo, qr, logger)
	accounts.Unread = storage.NewUnreadCounter(rdb)

	handler := &httpapi.Handler{
		Catalog:   service.NewCatalogService(repo),
		Cart:      cartSvc,
		Checkout:  checkout,
		Accounts:  accounts,
		Stores:    service.NewStoreService(repo),
		Checker:   checker,
		Slots:     selector,
		Logger:    logger,
		Heartbeat: cfg.SSEHeartbeat,
	}

	return &app{handler: httpapi.NewRouter(handler, logger), api: handler, bus: bus}
}

// run serves HTTP and relays cart signals until ctx is cancelled, then
// drains in-flight requests.
func (a *app) run(ctx context.Context, ln net.Listener, logger zerolog.Logger) error {
	server := httpapi.NewServer(ln.Addr().String(), a.handler)
	server.RegisterOnShutdown(a.api.CloseStreams)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", ln.Addr().String()).Msg("Storefront service starting")
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return a.bus.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	cfg.ServiceName = serviceName
	logger := config.NewLogger(cfg, os.Stdout)

	db := config.MustInitPostgres(cfg)
	defer db.Close()

	if err := migrations.Up(db); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate database")
	}

	rdb := config.MustInitRedis(cfg)
	defer rdb.Close()

	kafkaWriter := config.NewKafkaWriter(cfg, cfg.OrdersTopic)
	defer kafkaWriter.Close()

	ln, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		logger.Fatal().Err(err).Str("addr", cfg.HTTPAddr).Msg("Failed to listen")
	}

	if err := newApp(cfg, db, rdb, kafkaWriter, logger).run(ctx, ln, logger); err != nil {
		logger.Error().Err(err).Msg("Storefront service stopped")
		return
	}
	logger.Info().Msg("Storefront service stopped")
}
