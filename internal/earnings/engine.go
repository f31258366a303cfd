package earnings

import (
	"go.uber.org/zap"

	"go-payroll/internal/attendance"
	"go-payroll/internal/employee"
	"go-payroll/internal/payconfig"
)

// Engine computes gross earnings for one employee over a period. All inputs
// arrive resolved (contract facts, attendance data, frozen configuration) so
// Compute is synchronous and side-effect free: identical inputs always yield
// identical breakdowns.
type Engine struct {
	logger *zap.Logger
}

func NewEngine(logger ...*zap.Logger) *Engine {
	l := zap.L().Named("earnings.engine")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("earnings.engine")
	}
	return &Engine{logger: l}
}

// Compute selects the strategy and assembles the breakdown. The precedence
// rule is hard: any per-day breakdown record wins over the aggregate view,
// because it was priced at per-day rate resolution upstream.
func (e *Engine) Compute(
	emp *employee.Employee,
	data attendance.Data,
	cfg *payconfig.Configuration,
) (Breakdown, error) {
	var strat strategy = aggregateStrategy{}
	if len(data.Breakdowns) > 0 {
		strat = preciseStrategy{}
	}

	e.logger.Debug("earnings strategy selected",
		zap.String("employee_id", emp.ID.String()),
		zap.String("strategy", strat.name()),
		zap.Int("breakdown_records", len(data.Breakdowns)),
	)

	b, err := strat.compute(emp, data, cfg)
	if err != nil {
		return Breakdown{}, err
	}

	b.GrossPay = b.BasePay.
		Add(b.OvertimePay).
		Add(b.HolidayPay).
		Add(b.NightDifferential).
		Add(b.LeavePay)

	if cfg.Schedule.DeductTardinessFromGross {
		b.GrossPay = b.GrossPay.
			Sub(b.LateDeductions).
			Sub(b.UndertimeDeductions)
	}

	round := cfg.Rounding.Round
	b.BasePay = round(b.BasePay)
	b.OvertimePay = round(b.OvertimePay)
	b.HolidayPay = round(b.HolidayPay)
	b.NightDifferential = round(b.NightDifferential)
	b.LeavePay = round(b.LeavePay)
	b.LateDeductions = round(b.LateDeductions)
	b.UndertimeDeductions = round(b.UndertimeDeductions)
	b.GrossPay = round(b.GrossPay)

	return b, nil
}
