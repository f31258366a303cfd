package payconfigerrors

import (
	"fmt"
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrConfigNotFound = apperror.New(
		apperror.CodeNotFound,
		"configuration entry not found",
		http.StatusNotFound,
	)
	ErrUnknownConfigType = apperror.New(
		apperror.CodeInvalidInput,
		"unknown config type",
		http.StatusBadRequest,
	)
	ErrInvalidEffectiveDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid effective_date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)

// ParseError marks a stored configuration value that failed its typed schema.
// An unparsable value must surface as an error, never as a silently wrong
// rate in a paycheck.
func ParseError(configType, configKey string, cause error) error {
	return apperror.Wrap(
		cause,
		apperror.CodeInvalidState,
		fmt.Sprintf("configuration value %s/%s does not match its schema", configType, configKey),
		http.StatusInternalServerError,
	)
}
