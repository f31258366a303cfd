package thirteentherrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrAlreadyComputed = apperror.New(
		apperror.CodeConflict,
		"thirteenth month pay already exists for this employee and year",
		http.StatusConflict,
	)
	ErrNoServiceInYear = apperror.New(
		apperror.CodeInvalidState,
		"employee has no service months within the requested year",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"year must be a four-digit calendar year",
		http.StatusBadRequest,
	)
)
