package earnings

import (
	"github.com/shopspring/decimal"
)

const (
	StrategyPrecise   = "precise"
	StrategyAggregate = "aggregate"
)

// DetailLine is one priced contribution in an earnings breakdown, kept for
// payslip rendering and audit.
type DetailLine struct {
	Source      string          `json:"source"` // worked_hours | overtime | leave
	Combination string          `json:"combination"`
	Hours       decimal.Decimal `json:"hours"`
	Multiplier  decimal.Decimal `json:"multiplier"`
	Amount      decimal.Decimal `json:"amount"`
}

// Breakdown is the gross-earnings result for one employee and period.
// LateDeductions and UndertimeDeductions are always reported; whether they
// also net against GrossPay is governed by the DeductTardinessFromGross
// schedule flag.
type Breakdown struct {
	Strategy string `json:"strategy"`

	BasePay             decimal.Decimal `json:"base_pay"`
	OvertimePay         decimal.Decimal `json:"overtime_pay"`
	HolidayPay          decimal.Decimal `json:"holiday_pay"`
	NightDifferential   decimal.Decimal `json:"night_differential"`
	LeavePay            decimal.Decimal `json:"leave_pay"`
	LateDeductions      decimal.Decimal `json:"late_deductions"`
	UndertimeDeductions decimal.Decimal `json:"undertime_deductions"`

	GrossPay decimal.Decimal `json:"gross_pay"`

	Detail []DetailLine `json:"detail,omitempty"`
}
