package deductionerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrDeductionNotFound = apperror.New(
		apperror.CodeNotFound,
		"deduction not found",
		http.StatusNotFound,
	)
	ErrDeductionInactive = apperror.New(
		apperror.CodeInvalidState,
		"deduction is no longer active",
		http.StatusBadRequest,
	)
	ErrMissingTaxTable = apperror.New(
		apperror.CodeInvalidState,
		"tax bracket table is empty",
		http.StatusInternalServerError,
	)
	ErrMissingSSSTable = apperror.New(
		apperror.CodeInvalidState,
		"sss bracket table is empty",
		http.StatusInternalServerError,
	)
)

// LedgerWrite flags a failed installment application. The computed amount and
// the ledger mutation must fail or succeed together, so callers treat this as
// fatal for the employee's whole calculation.
func LedgerWrite(cause error) error {
	return apperror.Wrap(
		cause,
		apperror.CodeLedgerWriteFailed,
		"failed to apply deduction installment",
		http.StatusInternalServerError,
	)
}
