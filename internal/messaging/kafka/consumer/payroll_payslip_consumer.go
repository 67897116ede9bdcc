package consumer

import (
	"context"
	"encoding/json"

	"go-payroll/internal/events"
	"go-payroll/internal/payroll"
	"go-payroll/internal/shared/contextutil"

	"go.uber.org/zap"
)

// ConsumePayrollPayslipRequested marks payslips generated for queued requests.
func ConsumePayrollPayslipRequested(
	ctx context.Context,
	reader MessageReader,
	payrollService payroll.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payroll_payslip")
	log.Info("payroll payslip consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payroll payslip consumer stopped")
				return
			}
			log.Error("fetch payroll payslip message failed", zap.Error(err))
			continue
		}

		var event events.PayrollPayslipRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payroll payslip event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		fields := []zap.Field{
			zap.String("request_id", event.RequestID),
			zap.String("payroll_id", event.PayrollID),
			zap.String("company_id", event.CompanyID),
		}

		reqCtx := contextutil.WithRequestID(ctx, event.RequestID)
		_, err = payrollService.GeneratePayslip(reqCtx, event.CompanyID, event.RequestedBy, event.PayrollID)
		if err != nil {
			if isPermanent(err) {
				log.Warn("payslip request rejected, skipping", append(fields, zap.Error(err))...)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}
			log.Error("generate payslip failed", append(fields, zap.Error(err))...)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payroll payslip message failed", zap.Error(err))
			continue
		}

		log.Info("payroll payslip generated", fields...)
	}
}
