package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ironxpress/config"
	"ironxpress/notify-svc/internal/service"
	"ironxpress/notify-svc/internal/storage"
)

const serviceName = "notify-svc"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	cfg.ServiceName = serviceName
	logger := config.NewLogger(cfg, os.Stdout)

	db := config.MustInitPostgres(cfg)
	defer db.Close()

	rdb := config.MustInitRedis(cfg)
	defer rdb.Close()

	reader := config.NewKafkaReader(cfg, cfg.OrdersTopic, cfg.NotifyGroup)
	defer reader.Close()

	consumer := service.NewConsumer(reader, storage.NewStore(db, rdb), logger)
	if err := consumer.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("Notification consumer stopped")
		return
	}
	logger.Info().Msg("Notification consumer stopped")
}
