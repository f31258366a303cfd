package thirteenth

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"go-payroll/internal/attendance"
	"go-payroll/internal/deductions"
	"go-payroll/internal/earnings"
	"go-payroll/internal/employee"
	"go-payroll/internal/payconfig"
	thirteentherrors "go-payroll/internal/thirteenth/errors"
)

var twelve = decimal.NewFromInt(12)

// Failure captures one employee's error inside a batch without aborting the
// rest of the batch.
type Failure struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

type BatchResult struct {
	Year      int                   `json:"year"`
	Processed int                   `json:"processed"`
	Results   []*ThirteenthMonthPay `json:"results"`
	Failures  []Failure             `json:"failures,omitempty"`
}

//go:generate mockgen -source=calculator.go -destination=mock/calculator_mock.go -package=mock
type Calculator interface {
	Compute(ctx context.Context, employeeID string, year int) (*ThirteenthMonthPay, error)
	BatchCompute(ctx context.Context, year int) (*BatchResult, error)
}

type calculator struct {
	employees employee.Repository
	aggregate attendance.Aggregator
	repo      Repository
	config    payconfig.Loader
	logger    *zap.Logger
}

func NewCalculator(
	employees employee.Repository,
	aggregate attendance.Aggregator,
	repo Repository,
	config payconfig.Loader,
	logger ...*zap.Logger,
) Calculator {
	l := zap.L().Named("thirteenth.calculator")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("thirteenth.calculator")
	}
	return &calculator{
		employees: employees,
		aggregate: aggregate,
		repo:      repo,
		config:    config,
		logger:    l,
	}
}

// Compute totals the basic salary earned in the year (base pay only, no
// overtime or premiums), derives the statutory bonus pro-rated for partial
// service, applies the tax exemption, and persists the result. An existing
// record for the same employee and year is rejected, never recomputed.
func (c *calculator) Compute(ctx context.Context, employeeID string, year int) (*ThirteenthMonthPay, error) {
	if year < 2000 || year > 2100 {
		return nil, thirteentherrors.ErrInvalidYear
	}

	exists, err := c.repo.ExistsForYear(ctx, employeeID, year)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, thirteentherrors.ErrAlreadyComputed
	}

	emp, err := c.employees.FindByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	start, end, months, err := serviceWindow(emp, year)
	if err != nil {
		return nil, err
	}

	cfg, err := c.config.Load(ctx, end)
	if err != nil {
		return nil, err
	}

	summary, err := c.aggregate.Aggregate(ctx, employeeID, start, end)
	if err != nil {
		return nil, err
	}

	totalBasic := earnings.BasePay(emp, summary, cfg.Schedule)

	gross := totalBasic.Div(twelve)
	if months < 12 {
		gross = gross.Mul(decimal.NewFromInt(int64(months))).Div(twelve)
	}

	// Exempt up to the annual threshold; only the excess is taxed, and the
	// excess is an annual amount so it goes through the annual schedule.
	tax := decimal.Zero
	excess := gross.Sub(cfg.ThirteenthMonth.TaxExemptThreshold)
	if excess.IsPositive() {
		tax = deductions.AnnualTax(cfg.Tax, excess)
	}

	round := cfg.Rounding.Round
	record := &ThirteenthMonthPay{
		EmployeeID:       emp.ID,
		Year:             year,
		MonthsWorked:     months,
		TotalBasicSalary: round(totalBasic),
		GrossAmount:      round(gross),
		TaxWithheld:      round(tax),
		NetAmount:        round(gross.Sub(tax)),
		ComputedAt:       time.Now().UTC(),
	}
	if err := c.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	c.logger.Info("thirteenth month pay computed",
		zap.String("employee_id", employeeID),
		zap.Int("year", year),
		zap.Int("months_worked", months),
		zap.String("gross", record.GrossAmount.String()),
		zap.String("net", record.NetAmount.String()),
	)

	return record, nil
}

// BatchCompute runs Compute for every active employee, collecting failures
// instead of aborting; one employee's duplicate or bad contract never blocks
// the rest of the year-end run.
func (c *calculator) BatchCompute(ctx context.Context, year int) (*BatchResult, error) {
	ids, err := c.employees.FindActiveIDs(ctx)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{Year: year, Processed: len(ids)}
	for _, id := range ids {
		record, err := c.Compute(ctx, id, year)
		if err != nil {
			c.logger.Warn("thirteenth month computation failed",
				zap.String("employee_id", id),
				zap.Int("year", year),
				zap.Error(err),
			)
			result.Failures = append(result.Failures, Failure{EmployeeID: id, Error: err.Error()})
			continue
		}
		result.Results = append(result.Results, record)
	}
	return result, nil
}

// serviceWindow clips the employee's contract to the calendar year and counts
// the whole months of service inside it.
func serviceWindow(emp *employee.Employee, year int) (time.Time, time.Time, int, error) {
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	start := yearStart
	if emp.ContractStart.After(yearStart) {
		start = emp.ContractStart
	}
	end := yearEnd
	if emp.ContractEnd != nil && emp.ContractEnd.Before(yearEnd) {
		end = *emp.ContractEnd
	}
	if start.After(end) || start.After(yearEnd) {
		return time.Time{}, time.Time{}, 0, thirteentherrors.ErrNoServiceInYear
	}

	months := int(end.Month()) - int(start.Month()) + 1
	if months > 12 {
		months = 12
	}
	return start, end, months, nil
}
