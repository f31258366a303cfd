package earnings

import (
	"github.com/shopspring/decimal"

	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/payconfig"
)

var minutesPerHour = decimal.NewFromInt(60)

// HourlyRate normalizes any rate type to an hourly figure:
// hourly as-is, daily over the standard working hours, monthly over the
// standard working days times hours.
func HourlyRate(emp *employee.Employee, schedule payconfig.ScheduleConfig) (decimal.Decimal, error) {
	switch emp.RateType {
	case employee.RateTypeHourly:
		return emp.Rate, nil
	case employee.RateTypeDaily:
		return emp.Rate.Div(schedule.StandardWorkingHours), nil
	case employee.RateTypeMonthly:
		return emp.Rate.Div(schedule.StandardWorkingDays.Mul(schedule.StandardWorkingHours)), nil
	default:
		return decimal.Zero, employeeerrors.ErrUnknownRateType
	}
}

func perMinuteRate(hourlyRate decimal.Decimal) decimal.Decimal {
	return hourlyRate.Div(minutesPerHour)
}
