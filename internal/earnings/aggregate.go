package earnings

import (
	"github.com/shopspring/decimal"

	"go-payroll/internal/attendance"
	"go-payroll/internal/employee"
	"go-payroll/internal/payconfig"
)

// aggregateStrategy is the fallback when no per-day breakdown exists. It
// prices the grouped attendance totals with the configured multipliers;
// combined conditions compose multiplicatively.
type aggregateStrategy struct{}

func (aggregateStrategy) name() string { return StrategyAggregate }

func (aggregateStrategy) compute(
	emp *employee.Employee,
	data attendance.Data,
	cfg *payconfig.Configuration,
) (Breakdown, error) {
	hourlyRate, err := HourlyRate(emp, cfg.Schedule)
	if err != nil {
		return Breakdown{}, err
	}

	s := data.Summary
	premiums := cfg.Premiums
	b := Breakdown{Strategy: StrategyAggregate}

	paidLeaveDays := decimal.NewFromInt(int64(s.PaidLeaveDays))
	b.BasePay = BasePay(emp, s, cfg.Schedule)

	// Monthly employees carry overtime inside the salary unless a per-day
	// breakdown tracks it explicitly, which is the precise path's job.
	if emp.RateType != employee.RateTypeMonthly {
		b.OvertimePay = overtimePay(s, hourlyRate, premiums)
	}

	b.HolidayPay = b.HolidayPay.
		Add(priced(s.RegularHolidayHours, hourlyRate, premiums.RegularHoliday)).
		Add(priced(s.SpecialHolidayHours, hourlyRate, premiums.SpecialHoliday)).
		Add(priced(s.RestDayHours, hourlyRate, premiums.RestDay))

	// Night-diff hours are already inside the worked-hour totals, so only
	// the premium portion is added on top.
	ndPremium := premiums.NightDifferential.Sub(decimal.NewFromInt(1))
	b.NightDifferential = priced(s.NightDiffHours, hourlyRate, ndPremium)

	// Paid leave: monthly employees already earn it through the base-pay
	// day count; hourly and daily employees get a day-equivalent at rate.
	if emp.RateType != employee.RateTypeMonthly && s.PaidLeaveDays > 0 {
		leaveHours := cfg.Schedule.StandardWorkingHours.Mul(paidLeaveDays)
		b.LeavePay = hourlyRate.Mul(leaveHours)
	}

	perMinute := perMinuteRate(hourlyRate)
	if cfg.Schedule.EnableLateDeductions && s.LateMinutes > 0 {
		b.LateDeductions = perMinute.Mul(decimal.NewFromInt(int64(s.LateMinutes)))
	}
	if cfg.Schedule.EnableUndertimeDeductions && s.UndertimeMinutes > 0 {
		b.UndertimeDeductions = perMinute.Mul(decimal.NewFromInt(int64(s.UndertimeMinutes)))
	}

	return b, nil
}

// BasePay prices the plain worked time for the employee's rate type with no
// premium applied. The thirteenth-month calculator reuses it to total basic
// salary, which by law excludes overtime and premium pays.
func BasePay(emp *employee.Employee, s attendance.Summary, schedule payconfig.ScheduleConfig) decimal.Decimal {
	daysWorked := decimal.NewFromInt(int64(s.DaysWorked))
	paidLeaveDays := decimal.NewFromInt(int64(s.PaidLeaveDays))

	switch emp.RateType {
	case employee.RateTypeHourly:
		return s.RegularHours.Mul(emp.Rate)
	case employee.RateTypeDaily:
		return daysWorked.Mul(emp.Rate)
	case employee.RateTypeMonthly:
		dailyRate := emp.Rate.Div(schedule.StandardWorkingDays)
		return daysWorked.Add(paidLeaveDays).Mul(dailyRate)
	default:
		return decimal.Zero
	}
}

func overtimePay(s attendance.Summary, hourlyRate decimal.Decimal, p payconfig.PremiumRates) decimal.Decimal {
	return decimal.Sum(
		priced(s.OvertimeHours, hourlyRate, p.Overtime),
		priced(s.RegularHolidayOvertimeHours, hourlyRate, p.RegularHoliday.Mul(p.Overtime)),
		priced(s.SpecialHolidayOvertimeHours, hourlyRate, p.SpecialHoliday.Mul(p.Overtime)),
		priced(s.RestDayOvertimeHours, hourlyRate, p.RestDay.Mul(p.Overtime)),
	)
}

func priced(hours, hourlyRate, multiplier decimal.Decimal) decimal.Decimal {
	if hours.IsZero() {
		return decimal.Zero
	}
	return hours.Mul(hourlyRate).Mul(multiplier)
}
