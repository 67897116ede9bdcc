package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go-payroll/internal/config"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka/consumer"
	"go-payroll/internal/shared/connection"

	"go.uber.org/zap"
)

const consumerGroup = "go-payroll"

// RunConsumer processes queued payroll runs and payslip requests until the
// process is signalled.
func RunConsumer(cfg config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	in, err := connectInfra(cfg)
	if err != nil {
		return err
	}
	defer in.Close()

	reg := newRegistry(cfg, in, logger)

	runReader := connection.NewKafkaReader(cfg.KafkaBroker, events.PayrollRunRequestedTopic, consumerGroup+"-runs")
	defer runReader.Close()
	payslipReader := connection.NewKafkaReader(cfg.KafkaBroker, events.PayrollPayslipRequestedTopic, consumerGroup+"-payslips")
	defer payslipReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		consumer.ConsumePayrollRunRequested(ctx, runReader, reg.payrollRun, logger)
	}()
	go func() {
		defer wg.Done()
		consumer.ConsumePayrollPayslipRequested(ctx, payslipReader, reg.payroll, logger)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()
	wg.Wait()

	return nil
}
