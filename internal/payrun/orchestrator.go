package payrun

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go-payroll/internal/attendance"
	"go-payroll/internal/deductions"
	"go-payroll/internal/earnings"
	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payconfig"
	payrunerrors "go-payroll/internal/payrun/errors"
)

// batchChunkSize caps concurrent employee calculations. Chunks run
// sequentially; employees inside a chunk fan out concurrently.
const batchChunkSize = 50

//go:generate mockgen -source=orchestrator.go -destination=mock/orchestrator_mock.go -package=mock
type Service interface {
	CalculateEmployeePayroll(ctx context.Context, employeeID string, start, end time.Time) (*PayrollResult, error)
	CalculateBatchPayroll(ctx context.Context, employeeIDs []string, start, end time.Time) (*BatchPayrollResponse, error)
}

type service struct {
	employees  employee.Repository
	attendance attendance.Aggregator
	earnings   *earnings.Engine
	deductions *deductions.Engine
	config     payconfig.Loader
	outbox     kafka.OutboxRepository
	logger     *zap.Logger
}

func NewService(
	employees employee.Repository,
	agg attendance.Aggregator,
	earningsEngine *earnings.Engine,
	deductionsEngine *deductions.Engine,
	config payconfig.Loader,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payrun.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payrun.service")
	}
	return &service{
		employees:  employees,
		attendance: agg,
		earnings:   earningsEngine,
		deductions: deductionsEngine,
		config:     config,
		outbox:     outbox,
		logger:     l,
	}
}

func (s *service) CalculateEmployeePayroll(
	ctx context.Context,
	employeeID string,
	start, end time.Time,
) (*PayrollResult, error) {
	if start.After(end) {
		return nil, payrunerrors.ErrInvalidPeriod
	}

	cfg, err := s.config.Load(ctx, end)
	if err != nil {
		return nil, err
	}

	return s.calculateOne(ctx, employeeID, start, end, cfg)
}

// CalculateBatchPayroll runs the whole batch against one configuration
// snapshot. Chunks are sequential, employees within a chunk concurrent; one
// employee's failure is captured and never aborts the others.
func (s *service) CalculateBatchPayroll(
	ctx context.Context,
	employeeIDs []string,
	start, end time.Time,
) (*BatchPayrollResponse, error) {
	if start.After(end) {
		return nil, payrunerrors.ErrInvalidPeriod
	}

	if len(employeeIDs) == 0 {
		ids, err := s.employees.FindActiveIDs(ctx)
		if err != nil {
			return nil, err
		}
		employeeIDs = ids
	}
	if len(employeeIDs) == 0 {
		return nil, payrunerrors.ErrNoEmployees
	}

	cfg, err := s.config.Load(ctx, end)
	if err != nil {
		return nil, err
	}
	if cfg.UsedFallback() {
		s.logger.Warn("batch running on fallback configuration",
			zap.Time("as_of", cfg.AsOf),
		)
	}

	resp := &BatchPayrollResponse{
		RunID:       uuid.NewString(),
		PeriodStart: start.Format("2006-01-02"),
		PeriodEnd:   end.Format("2006-01-02"),
		Processed:   len(employeeIDs),
	}

	var mu sync.Mutex
	for offset := 0; offset < len(employeeIDs); offset += batchChunkSize {
		chunk := employeeIDs[offset:min(offset+batchChunkSize, len(employeeIDs))]

		g, gctx := errgroup.WithContext(ctx)
		for _, id := range chunk {
			g.Go(func() error {
				result, err := s.calculateOne(gctx, id, start, end, cfg)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					resp.Failures = append(resp.Failures, BatchFailure{
						EmployeeID: id,
						Error:      err.Error(),
					})
					return nil
				}
				resp.Results = append(resp.Results, result)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	total := decimal.Zero
	for _, r := range resp.Results {
		total = total.Add(r.NetPay)
	}
	resp.TotalNetPay = cfg.Rounding.Round(total)

	s.logger.Info("batch payroll completed",
		zap.String("run_id", resp.RunID),
		zap.Int("processed", resp.Processed),
		zap.Int("succeeded", len(resp.Results)),
		zap.Int("failed", len(resp.Failures)),
	)

	s.recordRunCompleted(ctx, resp)

	return resp, nil
}

// calculateOne is the strictly ordered per-employee pipeline: contract facts,
// attendance, earnings, deductions, assembly. The deduction ledger is touched
// only after everything before it succeeded, so an earlier failure leaves no
// partial commit.
func (s *service) calculateOne(
	ctx context.Context,
	employeeID string,
	start, end time.Time,
	cfg *payconfig.Configuration,
) (*PayrollResult, error) {
	emp, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	// A contract window that never touches the pay period leaves nothing to
	// price the run with.
	if emp.ContractStart.After(end) || (emp.ContractEnd != nil && emp.ContractEnd.Before(start)) {
		return nil, employeeerrors.ErrMissingContract
	}

	data, err := s.attendance.Collect(ctx, employeeID, start, end)
	if err != nil {
		return nil, err
	}

	earn, err := s.earnings.Compute(emp, data, cfg)
	if err != nil {
		return nil, err
	}

	ded, err := s.deductions.Compute(ctx, emp, earn.GrossPay, cfg, end)
	if err != nil {
		return nil, err
	}

	if err := s.deductions.Apply(ctx, ded, deductions.PeriodKey(start, end)); err != nil {
		return nil, err
	}

	result := &PayrollResult{
		EmployeeID:   employeeID,
		PeriodStart:  start.Format("2006-01-02"),
		PeriodEnd:    end.Format("2006-01-02"),
		Strategy:     earn.Strategy,
		Earnings:     earn,
		Deductions:   ded,
		GrossPay:     earn.GrossPay,
		NetPay:       cfg.Rounding.Round(earn.GrossPay.Sub(ded.TotalDeductions)),
		ConfigSource: ded.Source,
		ComputedAt:   time.Now().UTC(),
	}

	s.logger.Debug("employee payroll calculated",
		zap.String("employee_id", employeeID),
		zap.String("strategy", result.Strategy),
		zap.String("gross_pay", result.GrossPay.String()),
		zap.String("net_pay", result.NetPay.String()),
	)

	return result, nil
}

// recordRunCompleted enqueues the completion event through the outbox. The
// batch result is already committed at this point, so an enqueue failure is
// logged and swallowed rather than failing a finished run.
func (s *service) recordRunCompleted(ctx context.Context, resp *BatchPayrollResponse) {
	if s.outbox == nil {
		return
	}

	event := events.PayrollRunCompletedEvent{
		EventType:   "payroll_run_completed",
		RunID:       resp.RunID,
		PeriodStart: resp.PeriodStart,
		PeriodEnd:   resp.PeriodEnd,
		Processed:   resp.Processed,
		Succeeded:   len(resp.Results),
		Failed:      len(resp.Failures),
		TotalNetPay: resp.TotalNetPay.String(),
		OccurredAt:  time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal run completed event failed", zap.Error(err))
		return
	}

	err = s.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		AggregateType: "payroll_run",
		AggregateID:   resp.RunID,
		EventType:     event.EventType,
		Topic:         events.PayrollRunCompletedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		s.logger.Error("run completed outbox persist failed",
			zap.String("run_id", resp.RunID),
			zap.Error(err),
		)
	}
}
