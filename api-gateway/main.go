package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ironxpress/api-gateway/internal/gateway"
	"ironxpress/config"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// run serves handler on ln until ctx is cancelled, then waits for in-flight
// requests to finish.
func run(ctx context.Context, ln net.Listener, handler http.Handler, logger zerolog.Logger) error {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", ln.Addr().String()).Msg("API Gateway starting")
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
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
	cfg.ServiceName = "api-gateway"
	logger := config.NewLogger(cfg, os.Stdout)

	// No client timeout: cart event streams stay open.
	client := &http.Client{}
	auth := gateway.NewAuthClient(cfg.AuthURL, cfg.AuthAPIKey, cfg.AuthTimeout, client, logger)
	gw := gateway.NewGateway(gateway.Config{StorefrontURL: cfg.StorefrontURL}, client, auth, logger)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Session-ID"},
		AllowCredentials: true,
	})

	ln, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		logger.Fatal().Err(err).Str("addr", cfg.HTTPAddr).Msg("Failed to listen")
	}

	if err := run(ctx, ln, c.Handler(gw.SetupRoutes()), logger); err != nil {
		logger.Error().Err(err).Msg("API Gateway stopped")
		return
	}
	logger.Info().Msg("API Gateway stopped")
}
