package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-payroll/internal/config"
	"go-payroll/internal/messaging/kafka/producer"
	"go-payroll/internal/scheduler"
	"go-payroll/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker publishes the outbox to kafka and runs the periodic jobs until
// the process is signalled.
func RunWorker(cfg config.Config) error {
	logger := zap.L().Named("app.worker")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	in, err := connectInfra(cfg)
	if err != nil {
		return err
	}
	defer in.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, maxConnectRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	reg := newRegistry(cfg, in, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(ctx, reg.outbox, kafkaWriter, logger, cfg.OutboxPollInterval)

	jobs := scheduler.New(reg.locker, logger)
	jobs.AddJob("loan-installments", cfg.SchedulerInterval, scheduler.RefreshInstallmentsJob(reg.loan, nil, logger))
	jobs.AddJob("outbox-purge", cfg.SchedulerInterval, scheduler.PurgeOutboxJob(reg.outbox, cfg.OutboxRetention, nil, logger))
	jobs.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()
	jobs.Stop()

	return nil
}
