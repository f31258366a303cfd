package employeeerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeInactive = apperror.New(
		apperror.CodeInvalidState,
		"employee is not active",
		http.StatusBadRequest,
	)
	ErrMissingContract = apperror.New(
		apperror.CodeInvalidState,
		"employee has no contract facts for the requested period",
		http.StatusBadRequest,
	)
	ErrUnknownRateType = apperror.New(
		apperror.CodeInvalidState,
		"employee rate_type must be hourly, daily or monthly",
		http.StatusBadRequest,
	)
)
