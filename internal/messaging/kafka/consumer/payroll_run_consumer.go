package consumer

import (
	"context"
	"encoding/json"

	"go-payroll/internal/events"
	"go-payroll/internal/payrollrun"
	"go-payroll/internal/shared/contextutil"

	"go.uber.org/zap"
)

// ConsumePayrollRunRequested processes runs queued with async creation.
func ConsumePayrollRunRequested(
	ctx context.Context,
	reader MessageReader,
	runService payrollrun.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payroll_run")
	log.Info("payroll run consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payroll run consumer stopped")
				return
			}
			log.Error("fetch payroll run message failed", zap.Error(err))
			continue
		}

		var event events.PayrollRunRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payroll run event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		fields := []zap.Field{
			zap.String("request_id", event.RequestID),
			zap.String("run_id", event.RunID),
			zap.String("company_id", event.CompanyID),
		}

		reqCtx := contextutil.WithRequestID(ctx, event.RequestID)
		resp, err := runService.Process(reqCtx, event.CompanyID, event.RunID, event.RequestedBy)
		if err != nil {
			if isPermanent(err) {
				log.Warn("payroll run request rejected, skipping", append(fields, zap.Error(err))...)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}
			log.Error("process payroll run failed", append(fields, zap.Error(err))...)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payroll run message failed", zap.Error(err))
			continue
		}

		log.Info("payroll run processed", append(fields,
			zap.String("status", resp.Status),
			zap.Int("processed", resp.ProcessedEmployees),
			zap.Int("failed", resp.FailedEmployees),
		)...)
	}
}
