package deductions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-payroll/internal/payconfig"
)

const (
	DeductionTypeLoan        = "loan"
	DeductionTypeCashAdvance = "cash_advance"
	DeductionTypeOther       = "other"
)

// Deduction is an amortized loan or advance recovered from pay over multiple
// periods. RemainingBalance only ever decreases and never drops below zero;
// the record deactivates exactly when the balance reaches zero.
type Deduction struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_deductions_employee_active"`

	DeductionType string `gorm:"type:varchar(30);not null"`
	Description   string `gorm:"type:text"`

	PrincipalAmount   decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	RemainingBalance  decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	InstallmentAmount decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	InstallmentsTotal int             `gorm:"type:int;not null"`
	InstallmentsPaid  int             `gorm:"type:int;not null;default:0"`

	PaymentFrequency string `gorm:"type:varchar(20);not null;default:'monthly'"`
	AutoDeduct       bool   `gorm:"not null;default:true"`
	IsRecurring      bool   `gorm:"not null;default:true"`
	IsActive         bool   `gorm:"not null;default:true;index:idx_deductions_employee_active"`

	StartDate         time.Time  `gorm:"type:date;not null"`
	NextDeductionDate *time.Time `gorm:"type:date"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_deductions_deleted_at"`
}

// AmountDue is the installment to recover this period: the configured
// installment for recurring deductions, the whole balance for one-time ones,
// never more than what is left.
func (d *Deduction) AmountDue() decimal.Decimal {
	if !d.IsRecurring {
		return d.RemainingBalance
	}
	if d.InstallmentAmount.GreaterThan(d.RemainingBalance) {
		return d.RemainingBalance
	}
	return d.InstallmentAmount
}

// NextDateAfter advances a deduction date by one payment-frequency step.
func NextDateAfter(current time.Time, frequency string) time.Time {
	switch frequency {
	case payconfig.PayFrequencyWeekly:
		return current.AddDate(0, 0, 7)
	case payconfig.PayFrequencyBiWeekly:
		return current.AddDate(0, 0, 14)
	case payconfig.PayFrequencySemiMonthly:
		return current.AddDate(0, 0, 15)
	default:
		return current.AddDate(0, 1, 0)
	}
}

// DeductionPayment is one immutable ledger row for one applied installment.
// The unique key on (deduction_id, payroll_period) makes retried runs
// idempotent: a second application for the same period is a no-op.
type DeductionPayment struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DeductionID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_deduction_payments_period"`
	PayrollPeriod string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_deduction_payments_period"`

	Amount       decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	BalanceAfter decimal.Decimal `gorm:"type:numeric(14,4);not null"`

	PaidAt    time.Time `gorm:"not null"`
	CreatedAt time.Time
}

// PeriodKey derives the ledger idempotency key from the pay-period bounds.
func PeriodKey(start, end time.Time) string {
	return start.Format("2006-01-02") + ":" + end.Format("2006-01-02")
}
