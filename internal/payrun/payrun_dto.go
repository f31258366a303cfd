package payrun

import (
	"time"

	"github.com/shopspring/decimal"

	"go-payroll/internal/deductions"
	"go-payroll/internal/earnings"
)

type CalculatePayrollRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
}

type BatchPayrollRequest struct {
	// Empty means every active employee.
	EmployeeIDs []string `json:"employee_ids" binding:"omitempty,dive,uuid"`
	StartDate   string   `json:"start_date" binding:"required"`
	EndDate     string   `json:"end_date" binding:"required"`
}

type ThirteenthMonthRequest struct {
	// Empty means a batch run over every active employee.
	EmployeeID string `json:"employee_id" binding:"omitempty,uuid"`
	Year       int    `json:"year" binding:"required"`
}

// PayrollResult is the assembled output for one employee and one period.
type PayrollResult struct {
	EmployeeID  string `json:"employee_id"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	Strategy    string `json:"strategy"`

	Earnings   earnings.Breakdown   `json:"earnings"`
	Deductions deductions.Breakdown `json:"deductions"`

	GrossPay decimal.Decimal `json:"gross_pay"`
	NetPay   decimal.Decimal `json:"net_pay"`

	ConfigSource string    `json:"config_source"`
	ComputedAt   time.Time `json:"computed_at"`
}

// BatchFailure reports one employee the batch could not calculate. The rest
// of the batch is unaffected.
type BatchFailure struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

type BatchPayrollResponse struct {
	RunID       string           `json:"run_id"`
	PeriodStart string           `json:"period_start"`
	PeriodEnd   string           `json:"period_end"`
	Processed   int              `json:"processed"`
	Results     []*PayrollResult `json:"results"`
	Failures    []BatchFailure   `json:"failures,omitempty"`
	TotalNetPay decimal.Decimal  `json:"total_net_pay"`
}
