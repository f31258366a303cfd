package deductions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	deductionerrors "go-payroll/internal/deductions/errors"
	"go-payroll/internal/employee"
	"go-payroll/internal/payconfig"
)

// EmployerContributions are reported for remittance but never subtracted
// from the employee's pay.
type EmployerContributions struct {
	SSS        decimal.Decimal `json:"sss"`
	PhilHealth decimal.Decimal `json:"philhealth"`
	PagIBIG    decimal.Decimal `json:"pagibig"`
	Total      decimal.Decimal `json:"total"`
}

// PlannedInstallment is one individual deduction scheduled for this period.
// Compute plans it; Apply commits it to the ledger.
type PlannedInstallment struct {
	DeductionID   uuid.UUID       `json:"deduction_id"`
	DeductionType string          `json:"deduction_type"`
	Description   string          `json:"description,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
}

type Breakdown struct {
	SSS             decimal.Decimal `json:"sss"`
	PhilHealth      decimal.Decimal `json:"philhealth"`
	PagIBIG         decimal.Decimal `json:"pagibig"`
	Tax             decimal.Decimal `json:"tax"`
	OtherDeductions decimal.Decimal `json:"other_deductions"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`

	Employer     EmployerContributions `json:"employer_contributions"`
	Installments []PlannedInstallment  `json:"installments,omitempty"`

	// Source mirrors the configuration snapshot: "database" when every rate
	// section came from the store, "hardcoded_fallback" when any degraded.
	Source string `json:"source"`
}

// Engine turns gross pay into the full deductions side of a payroll result.
// Compute is read-only: it prices statutory contributions and plans the
// individual installments without touching the ledger. Apply commits the
// planned installments afterwards, once the employee's whole calculation has
// succeeded, so a failure elsewhere never leaves a half-applied ledger.
type Engine struct {
	repo   Repository
	logger *zap.Logger
}

func NewEngine(repo Repository, logger ...*zap.Logger) *Engine {
	l := zap.L().Named("deductions.engine")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("deductions.engine")
	}
	return &Engine{repo: repo, logger: l}
}

// Compute prices statutory deductions from the monthly-equivalent gross and
// plans the active individual deductions due as of asOf. Statutory lines
// apply only to regular employees; everyone still carries their individual
// deductions.
func (e *Engine) Compute(
	ctx context.Context,
	emp *employee.Employee,
	grossPay decimal.Decimal,
	cfg *payconfig.Configuration,
	asOf time.Time,
) (Breakdown, error) {
	b := Breakdown{Source: payconfig.SourceDatabase}
	if cfg.UsedFallback() {
		b.Source = payconfig.SourceFallback
	}

	if emp.EmploymentType == employee.EmploymentTypeRegular {
		monthly := MonthlyEquivalent(grossPay, cfg.Schedule.PayFrequency)

		sss, err := ComputeSSS(cfg.SSS, monthly)
		if err != nil {
			return Breakdown{}, err
		}
		philhealth := ComputePhilHealth(cfg.PhilHealth, monthly)
		pagibig := ComputePagIBIG(cfg.PagIBIG, monthly)

		// Taxable income is the monthly gross net of the employee's own
		// statutory shares.
		taxable := monthly.
			Sub(sss.Employee).
			Sub(philhealth.Employee).
			Sub(pagibig.Employee)
		tax, err := ComputeWithholdingTax(cfg.Tax, taxable)
		if err != nil {
			return Breakdown{}, err
		}

		b.SSS = sss.Employee
		b.PhilHealth = philhealth.Employee
		b.PagIBIG = pagibig.Employee
		b.Tax = tax
		b.Employer = EmployerContributions{
			SSS:        sss.Employer,
			PhilHealth: philhealth.Employer,
			PagIBIG:    pagibig.Employer,
		}
		b.Employer.Total = b.Employer.SSS.Add(b.Employer.PhilHealth).Add(b.Employer.PagIBIG)
	}

	active, err := e.repo.FindActiveAutoDeduct(ctx, emp.ID, asOf)
	if err != nil {
		return Breakdown{}, err
	}
	for _, d := range active {
		due := d.AmountDue()
		if !due.IsPositive() {
			continue
		}
		b.OtherDeductions = b.OtherDeductions.Add(due)
		b.Installments = append(b.Installments, PlannedInstallment{
			DeductionID:   d.ID,
			DeductionType: d.DeductionType,
			Description:   d.Description,
			Amount:        due,
		})
	}

	b.TotalDeductions = b.SSS.
		Add(b.PhilHealth).
		Add(b.PagIBIG).
		Add(b.Tax).
		Add(b.OtherDeductions)

	round := cfg.Rounding.Round
	b.SSS = round(b.SSS)
	b.PhilHealth = round(b.PhilHealth)
	b.PagIBIG = round(b.PagIBIG)
	b.Tax = round(b.Tax)
	b.OtherDeductions = round(b.OtherDeductions)
	b.TotalDeductions = round(b.TotalDeductions)
	b.Employer.SSS = round(b.Employer.SSS)
	b.Employer.PhilHealth = round(b.Employer.PhilHealth)
	b.Employer.PagIBIG = round(b.Employer.PagIBIG)
	b.Employer.Total = round(b.Employer.Total)

	return b, nil
}

// Apply commits every planned installment to the ledger. Each installment is
// its own atomic unit keyed on (deduction_id, payroll_period); a retried run
// finds the existing payment rows and changes nothing.
func (e *Engine) Apply(ctx context.Context, b Breakdown, period string) error {
	for _, inst := range b.Installments {
		payment, err := e.repo.ApplyInstallment(ctx, inst.DeductionID, period, inst.Amount)
		if err != nil {
			e.logger.Error("installment application failed",
				zap.String("deduction_id", inst.DeductionID.String()),
				zap.String("payroll_period", period),
				zap.Error(err),
			)
			return deductionerrors.LedgerWrite(err)
		}
		e.logger.Info("installment applied",
			zap.String("deduction_id", inst.DeductionID.String()),
			zap.String("payroll_period", period),
			zap.String("amount", payment.Amount.String()),
			zap.String("balance_after", payment.BalanceAfter.String()),
		)
	}
	return nil
}
