package deductions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	deductionerrors "go-payroll/internal/deductions/errors"
)

//go:generate mockgen -source=deduction_repo.go -destination=mock/deduction_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*Deduction, error)
	FindActiveAutoDeduct(ctx context.Context, employeeID uuid.UUID, asOf time.Time) ([]Deduction, error)
	Create(ctx context.Context, d *Deduction) error
	ApplyInstallment(ctx context.Context, deductionID uuid.UUID, period string, amount decimal.Decimal) (*DeductionPayment, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Deduction, error) {
	var d Deduction
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, deductionerrors.ErrDeductionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) FindActiveAutoDeduct(
	ctx context.Context,
	employeeID uuid.UUID,
	asOf time.Time,
) ([]Deduction, error) {
	var ds []Deduction
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("is_active = ? AND auto_deduct = ?", true, true).
		Where("remaining_balance > 0").
		Where("start_date <= ?", asOf).
		Where("next_deduction_date IS NULL OR next_deduction_date <= ?", asOf).
		Order("created_at ASC").
		Find(&ds).Error
	return ds, err
}

func (r *repository) Create(ctx context.Context, d *Deduction) error {
	return r.db.WithContext(ctx).Create(d).Error
}

// ApplyInstallment mutates the balance ledger for one deduction and one
// payroll period as a single transaction: decrement remaining_balance, bump
// installments_paid, advance next_deduction_date, deactivate at zero balance,
// append the payment row. A payment row already present for the same
// (deduction, period) means a retried run: the existing row is returned and
// nothing is mutated again.
func (r *repository) ApplyInstallment(
	ctx context.Context,
	deductionID uuid.UUID,
	period string,
	amount decimal.Decimal,
) (*DeductionPayment, error) {
	var payment *DeductionPayment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing DeductionPayment
		err := tx.
			Where("deduction_id = ? AND payroll_period = ?", deductionID, period).
			First(&existing).Error
		if err == nil {
			payment = &existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var d Deduction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&d, "id = ?", deductionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return deductionerrors.ErrDeductionNotFound
			}
			return err
		}
		if !d.IsActive || !d.RemainingBalance.IsPositive() {
			return deductionerrors.ErrDeductionInactive
		}

		// The balance never goes below zero even if the caller's planned
		// amount raced with another mutation.
		if amount.GreaterThan(d.RemainingBalance) {
			amount = d.RemainingBalance
		}

		d.RemainingBalance = d.RemainingBalance.Sub(amount)
		d.InstallmentsPaid++
		if d.NextDeductionDate != nil {
			next := NextDateAfter(*d.NextDeductionDate, d.PaymentFrequency)
			d.NextDeductionDate = &next
		}
		if d.RemainingBalance.IsZero() {
			d.IsActive = false
		}
		if err := tx.Save(&d).Error; err != nil {
			return err
		}

		payment = &DeductionPayment{
			DeductionID:   d.ID,
			PayrollPeriod: period,
			Amount:        amount,
			BalanceAfter:  d.RemainingBalance,
			PaidAt:        time.Now().UTC(),
		}
		return tx.Create(payment).Error
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}
