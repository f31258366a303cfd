package consumer

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"go-payroll/internal/events"
	"go-payroll/internal/payrun"
)

// ConsumePayrollRunRequested drives asynchronous batch runs: each message is
// one requested run. Replays are harmless because installment ledger writes
// are keyed per (deduction, period). Transient calculation failures leave the
// message uncommitted so the next fetch retries it.
func ConsumePayrollRunRequested(
	ctx context.Context,
	reader *kafkago.Reader,
	payrollService payrun.Service,
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

		start, end, err := parsePeriod(event)
		if err != nil {
			log.Error("invalid payroll run period, dropping",
				zap.String("run_id", event.RunID),
				zap.String("period_start", event.PeriodStart),
				zap.String("period_end", event.PeriodEnd),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		resp, err := payrollService.CalculateBatchPayroll(ctx, event.EmployeeIDs, start, end)
		if err != nil {
			log.Error("batch payroll from run event failed",
				zap.String("run_id", event.RunID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payroll run message failed", zap.Error(err))
			continue
		}

		log.Info("payroll run completed from event",
			zap.String("run_id", event.RunID),
			zap.Int("processed", resp.Processed),
			zap.Int("failed", len(resp.Failures)),
		)
	}
}

func parsePeriod(event events.PayrollRunRequestedEvent) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", event.PeriodStart)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse("2006-01-02", event.PeriodEnd)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
