package payrun_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"go-payroll/internal/attendance"
	"go-payroll/internal/deductions"
	"go-payroll/internal/earnings"
	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payconfig"
	"go-payroll/internal/payrun"
	payrunerrors "go-payroll/internal/payrun/errors"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var (
	periodStart = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
)

type fakeEmployeeRepository struct {
	employees       map[string]*employee.Employee
	findActiveIDsFn func(ctx context.Context) ([]string, error)
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return nil, errors.New("employee lookup failed")
	}
	return emp, nil
}

func (f *fakeEmployeeRepository) FindActiveIDs(ctx context.Context) ([]string, error) {
	if f.findActiveIDsFn != nil {
		return f.findActiveIDsFn(ctx)
	}
	ids := make([]string, 0, len(f.employees))
	for id := range f.employees {
		ids = append(ids, id)
	}
	return ids, nil
}

type fakeAggregator struct {
	collectFn func(ctx context.Context, employeeID string, start, end time.Time) (attendance.Data, error)
}

func (f *fakeAggregator) Aggregate(ctx context.Context, employeeID string, start, end time.Time) (attendance.Summary, error) {
	return attendance.Summary{}, nil
}

func (f *fakeAggregator) FetchBreakdowns(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.AttendanceRecord, error) {
	return nil, nil
}

func (f *fakeAggregator) Collect(ctx context.Context, employeeID string, start, end time.Time) (attendance.Data, error) {
	if f.collectFn != nil {
		return f.collectFn(ctx, employeeID, start, end)
	}
	return attendance.Data{}, nil
}

type fakeDeductionRepository struct {
	active             []deductions.Deduction
	applyInstallmentFn func(ctx context.Context, deductionID uuid.UUID, period string, amount decimal.Decimal) (*deductions.DeductionPayment, error)
}

func (f *fakeDeductionRepository) WithTx(tx *gorm.DB) deductions.Repository { return f }

func (f *fakeDeductionRepository) FindByID(ctx context.Context, id uuid.UUID) (*deductions.Deduction, error) {
	return nil, nil
}

func (f *fakeDeductionRepository) FindActiveAutoDeduct(ctx context.Context, employeeID uuid.UUID, asOf time.Time) ([]deductions.Deduction, error) {
	return f.active, nil
}

func (f *fakeDeductionRepository) Create(ctx context.Context, dd *deductions.Deduction) error {
	return nil
}

func (f *fakeDeductionRepository) ApplyInstallment(ctx context.Context, deductionID uuid.UUID, period string, amount decimal.Decimal) (*deductions.DeductionPayment, error) {
	if f.applyInstallmentFn != nil {
		return f.applyInstallmentFn(ctx, deductionID, period, amount)
	}
	return &deductions.DeductionPayment{DeductionID: deductionID, PayrollPeriod: period, Amount: amount}, nil
}

type fakeLoader struct{}

func (fakeLoader) Load(ctx context.Context, asOf time.Time) (*payconfig.Configuration, error) {
	return payconfig.Defaults(), nil
}

type fakeOutbox struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error           { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id, reason string) error { return nil }

func newService(
	employees *fakeEmployeeRepository,
	agg *fakeAggregator,
	dedRepo *fakeDeductionRepository,
	outbox kafka.OutboxRepository,
) payrun.Service {
	return payrun.NewService(
		employees,
		agg,
		earnings.NewEngine(),
		deductions.NewEngine(dedRepo),
		fakeLoader{},
		outbox,
	)
}

// Daily employee, 22 days worked, regular employment: every statutory line
// deducted from gross, and the identity net = gross - total holds.
func TestService_CalculateEmployeePayroll_RegularDaily(t *testing.T) {
	emp := &employee.Employee{
		ID:             uuid.New(),
		Rate:           d("600"),
		RateType:       employee.RateTypeDaily,
		EmploymentType: employee.EmploymentTypeRegular,
		IsActive:       true,
	}
	employees := &fakeEmployeeRepository{employees: map[string]*employee.Employee{
		emp.ID.String(): emp,
	}}
	agg := &fakeAggregator{
		collectFn: func(ctx context.Context, employeeID string, start, end time.Time) (attendance.Data, error) {
			return attendance.Data{Summary: attendance.Summary{DaysWorked: 22}}, nil
		},
	}

	svc := newService(employees, agg, &fakeDeductionRepository{}, nil)
	result, err := svc.CalculateEmployeePayroll(context.Background(), emp.ID.String(), periodStart, periodEnd)

	assert.NoError(t, err)
	assert.True(t, d("13200").Equal(result.GrossPay), "gross = %s", result.GrossPay)
	assert.True(t, d("650").Equal(result.Deductions.SSS))
	assert.True(t, d("363").Equal(result.Deductions.PhilHealth))
	assert.True(t, d("200").Equal(result.Deductions.PagIBIG))
	assert.True(t, result.Deductions.Tax.IsZero())
	assert.True(t, d("11987").Equal(result.NetPay), "net = %s", result.NetPay)
	assert.True(t, result.GrossPay.Sub(result.Deductions.TotalDeductions).Equal(result.NetPay))
	assert.Equal(t, earnings.StrategyAggregate, result.Strategy)
	assert.Equal(t, payconfig.SourceFallback, result.ConfigSource)
}

func TestService_CalculateEmployeePayroll_AppliesInstallments(t *testing.T) {
	emp := &employee.Employee{
		ID:             uuid.New(),
		Rate:           d("100"),
		RateType:       employee.RateTypeHourly,
		EmploymentType: "Contractual",
		IsActive:       true,
	}
	employees := &fakeEmployeeRepository{employees: map[string]*employee.Employee{
		emp.ID.String(): emp,
	}}
	agg := &fakeAggregator{
		collectFn: func(ctx context.Context, employeeID string, start, end time.Time) (attendance.Data, error) {
			return attendance.Data{Summary: attendance.Summary{DaysWorked: 10, RegularHours: d("80")}}, nil
		},
	}

	var appliedPeriod string
	dedRepo := &fakeDeductionRepository{
		active: []deductions.Deduction{{
			ID:                uuid.New(),
			EmployeeID:        emp.ID,
			DeductionType:     deductions.DeductionTypeLoan,
			RemainingBalance:  d("2000"),
			InstallmentAmount: d("500"),
			IsRecurring:       true,
			IsActive:          true,
			AutoDeduct:        true,
		}},
		applyInstallmentFn: func(ctx context.Context, deductionID uuid.UUID, period string, amount decimal.Decimal) (*deductions.DeductionPayment, error) {
			appliedPeriod = period
			return &deductions.DeductionPayment{Amount: amount, BalanceAfter: d("1500")}, nil
		},
	}

	svc := newService(employees, agg, dedRepo, nil)
	result, err := svc.CalculateEmployeePayroll(context.Background(), emp.ID.String(), periodStart, periodEnd)

	assert.NoError(t, err)
	assert.True(t, d("8000").Equal(result.GrossPay))
	assert.True(t, d("500").Equal(result.Deductions.OtherDeductions))
	assert.True(t, d("7500").Equal(result.NetPay))
	assert.Equal(t, "2025-06-01:2025-06-30", appliedPeriod)
}

// A failed ledger write fails the whole employee; the deduction amount is
// never silently dropped from the total.
func TestService_CalculateEmployeePayroll_LedgerFailureFails(t *testing.T) {
	emp := &employee.Employee{
		ID:             uuid.New(),
		Rate:           d("100"),
		RateType:       employee.RateTypeHourly,
		EmploymentType: "Contractual",
		IsActive:       true,
	}
	employees := &fakeEmployeeRepository{employees: map[string]*employee.Employee{
		emp.ID.String(): emp,
	}}
	dedRepo := &fakeDeductionRepository{
		active: []deductions.Deduction{{
			ID:                uuid.New(),
			RemainingBalance:  d("2000"),
			InstallmentAmount: d("500"),
			IsRecurring:       true,
		}},
		applyInstallmentFn: func(ctx context.Context, deductionID uuid.UUID, period string, amount decimal.Decimal) (*deductions.DeductionPayment, error) {
			return nil, errors.New("write timeout")
		},
	}

	svc := newService(employees, &fakeAggregator{}, dedRepo, nil)
	_, err := svc.CalculateEmployeePayroll(context.Background(), emp.ID.String(), periodStart, periodEnd)

	assert.Error(t, err)
}

func TestService_CalculateEmployeePayroll_InvalidPeriod(t *testing.T) {
	svc := newService(&fakeEmployeeRepository{}, &fakeAggregator{}, &fakeDeductionRepository{}, nil)

	_, err := svc.CalculateEmployeePayroll(context.Background(), uuid.NewString(), periodEnd, periodStart)

	assert.ErrorIs(t, err, payrunerrors.ErrInvalidPeriod)
}

// A contract window entirely outside the pay period carries no facts to
// price the run with and fails the employee up front.
func TestService_CalculateEmployeePayroll_ContractOutsidePeriod(t *testing.T) {
	ended := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		emp  *employee.Employee
	}{
		{"contract starts after the period", &employee.Employee{
			ID:             uuid.New(),
			Rate:           d("600"),
			RateType:       employee.RateTypeDaily,
			EmploymentType: employee.EmploymentTypeRegular,
			IsActive:       true,
			ContractStart:  time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		}},
		{"contract ended before the period", &employee.Employee{
			ID:             uuid.New(),
			Rate:           d("600"),
			RateType:       employee.RateTypeDaily,
			EmploymentType: employee.EmploymentTypeRegular,
			IsActive:       true,
			ContractStart:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			ContractEnd:    &ended,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			employees := &fakeEmployeeRepository{employees: map[string]*employee.Employee{
				tc.emp.ID.String(): tc.emp,
			}}
			svc := newService(employees, &fakeAggregator{}, &fakeDeductionRepository{}, nil)

			_, err := svc.CalculateEmployeePayroll(context.Background(), tc.emp.ID.String(), periodStart, periodEnd)

			assert.ErrorIs(t, err, employeeerrors.ErrMissingContract)
		})
	}
}

func TestService_CalculateBatchPayroll_PartialFailure(t *testing.T) {
	healthy := &employee.Employee{
		ID:             uuid.New(),
		Rate:           d("100"),
		RateType:       employee.RateTypeHourly,
		EmploymentType: "Contractual",
		IsActive:       true,
	}
	missing := uuid.NewString()

	employees := &fakeEmployeeRepository{employees: map[string]*employee.Employee{
		healthy.ID.String(): healthy,
	}}
	agg := &fakeAggregator{
		collectFn: func(ctx context.Context, employeeID string, start, end time.Time) (attendance.Data, error) {
			return attendance.Data{Summary: attendance.Summary{DaysWorked: 10, RegularHours: d("80")}}, nil
		},
	}
	outbox := &fakeOutbox{}

	svc := newService(employees, agg, &fakeDeductionRepository{}, outbox)
	resp, err := svc.CalculateBatchPayroll(
		context.Background(),
		[]string{healthy.ID.String(), missing},
		periodStart, periodEnd,
	)

	assert.NoError(t, err)
	assert.Equal(t, 2, resp.Processed)
	assert.Len(t, resp.Results, 1)
	if assert.Len(t, resp.Failures, 1) {
		assert.Equal(t, missing, resp.Failures[0].EmployeeID)
	}
	assert.True(t, d("8000").Equal(resp.TotalNetPay))

	// Completion event goes through the outbox with the run's tallies.
	if assert.Len(t, outbox.created, 1) {
		assert.Equal(t, events.PayrollRunCompletedTopic, outbox.created[0].Topic)
		assert.Equal(t, resp.RunID, outbox.created[0].AggregateID)
		assert.Equal(t, kafka.OutboxStatusPending, outbox.created[0].Status)
	}
}

func TestService_CalculateBatchPayroll_DefaultsToActiveEmployees(t *testing.T) {
	emp := &employee.Employee{
		ID:             uuid.New(),
		Rate:           d("100"),
		RateType:       employee.RateTypeHourly,
		EmploymentType: "Contractual",
		IsActive:       true,
	}
	employees := &fakeEmployeeRepository{employees: map[string]*employee.Employee{
		emp.ID.String(): emp,
	}}

	svc := newService(employees, &fakeAggregator{}, &fakeDeductionRepository{}, nil)
	resp, err := svc.CalculateBatchPayroll(context.Background(), nil, periodStart, periodEnd)

	assert.NoError(t, err)
	assert.Equal(t, 1, resp.Processed)
	assert.Len(t, resp.Results, 1)
}

func TestService_CalculateBatchPayroll_NoEmployees(t *testing.T) {
	employees := &fakeEmployeeRepository{
		findActiveIDsFn: func(ctx context.Context) ([]string, error) {
			return nil, nil
		},
	}

	svc := newService(employees, &fakeAggregator{}, &fakeDeductionRepository{}, nil)
	_, err := svc.CalculateBatchPayroll(context.Background(), nil, periodStart, periodEnd)

	assert.ErrorIs(t, err, payrunerrors.ErrNoEmployees)
}
