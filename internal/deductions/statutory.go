package deductions

import (
	"github.com/shopspring/decimal"

	deductionerrors "go-payroll/internal/deductions/errors"
	"go-payroll/internal/payconfig"
)

var (
	twelve = decimal.NewFromInt(12)
	two    = decimal.NewFromInt(2)
)

// Contribution is one statutory line split between employee and employer.
type Contribution struct {
	Employee decimal.Decimal
	Employer decimal.Decimal
}

// MonthlyEquivalent normalizes a per-period gross to a monthly figure, which
// is the unit every statutory table is defined over.
func MonthlyEquivalent(gross decimal.Decimal, payFrequency string) decimal.Decimal {
	switch payFrequency {
	case payconfig.PayFrequencyWeekly:
		return gross.Mul(decimal.RequireFromString("4.33"))
	case payconfig.PayFrequencyBiWeekly:
		return gross.Mul(decimal.RequireFromString("2.167"))
	case payconfig.PayFrequencySemiMonthly:
		return gross.Mul(two)
	default:
		return gross
	}
}

// ComputeSSS looks the monthly pay up in the ordered compliance table.
// Brackets are half-open [Min, Max) so a contiguous table covers every pay
// exactly once; a Max of zero marks the open-ended top bracket, and pay above
// the table's ceiling pays the top bracket's fixed contribution. The table is
// never interpolated.
func ComputeSSS(table []payconfig.SSSBracket, monthlyPay decimal.Decimal) (Contribution, error) {
	if len(table) == 0 {
		return Contribution{}, deductionerrors.ErrMissingSSSTable
	}

	for _, b := range table {
		open := b.Max.IsZero()
		if monthlyPay.GreaterThanOrEqual(b.Min) && (open || monthlyPay.LessThan(b.Max)) {
			return Contribution{Employee: b.Employee, Employer: b.Employer}, nil
		}
	}

	top := table[len(table)-1]
	return Contribution{Employee: top.Employee, Employer: top.Employer}, nil
}

// ComputePhilHealth applies the premium rate and clamps the total before the
// 50/50 employee/employer split.
func ComputePhilHealth(cfg payconfig.PhilHealthConfig, monthlyPay decimal.Decimal) Contribution {
	total := monthlyPay.Mul(cfg.TotalRate)
	if total.LessThan(cfg.MinContribution) {
		total = cfg.MinContribution
	}
	if total.GreaterThan(cfg.MaxContribution) {
		total = cfg.MaxContribution
	}

	half := total.Div(two)
	return Contribution{Employee: half, Employer: half}
}

// ComputePagIBIG applies the tiered employee rate with its peso cap and the
// flat employer rate with its own cap.
func ComputePagIBIG(cfg payconfig.PagIBIGConfig, monthlyPay decimal.Decimal) Contribution {
	rate := cfg.LowerRate
	if monthlyPay.GreaterThanOrEqual(cfg.SalaryThreshold) {
		rate = cfg.UpperRate
	}

	employee := monthlyPay.Mul(rate)
	if employee.GreaterThan(cfg.EmployeeMaxContribution) {
		employee = cfg.EmployeeMaxContribution
	}

	employer := monthlyPay.Mul(cfg.EmployerRate)
	if employer.GreaterThan(cfg.EmployerMaxContribution) {
		employer = cfg.EmployerMaxContribution
	}

	return Contribution{Employee: employee, Employer: employer}
}

// ComputeWithholdingTax annualizes the monthly taxable income, applies the
// progressive schedule (fixed base plus marginal rate on the excess over the
// bracket floor), and returns the monthly share. The schedule must be ordered
// by ascending floor; bracket selection takes the highest floor not exceeding
// the annual income, which keeps the function continuous and monotonic at
// every boundary.
func ComputeWithholdingTax(brackets []payconfig.TaxBracket, monthlyTaxable decimal.Decimal) (decimal.Decimal, error) {
	if len(brackets) == 0 {
		return decimal.Zero, deductionerrors.ErrMissingTaxTable
	}
	if monthlyTaxable.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, nil
	}

	annual := monthlyTaxable.Mul(twelve)
	return AnnualTax(brackets, annual).Div(twelve), nil
}

// AnnualTax evaluates the progressive schedule on an annual amount directly.
// The thirteenth-month calculator uses it on the taxable excess over the
// exemption threshold, which is already an annual figure.
func AnnualTax(brackets []payconfig.TaxBracket, annual decimal.Decimal) decimal.Decimal {
	if len(brackets) == 0 || annual.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	bracket := brackets[0]
	for _, b := range brackets {
		if annual.LessThan(b.AnnualFloor) {
			break
		}
		bracket = b
	}

	return bracket.BaseTax.Add(annual.Sub(bracket.AnnualFloor).Mul(bracket.Rate))
}
