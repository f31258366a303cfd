package earnings

import (
	"sort"

	"github.com/shopspring/decimal"

	"go-payroll/internal/attendance"
	"go-payroll/internal/employee"
	"go-payroll/internal/payconfig"
)

// preciseStrategy prices the per-day payroll_breakdown maps. Each entry's
// rate.total was resolved at per-day granularity upstream and is taken as
// authoritative; this path never recomputes multipliers.
type preciseStrategy struct{}

func (preciseStrategy) name() string { return StrategyPrecise }

func (preciseStrategy) compute(
	emp *employee.Employee,
	data attendance.Data,
	cfg *payconfig.Configuration,
) (Breakdown, error) {
	hourlyRate, err := HourlyRate(emp, cfg.Schedule)
	if err != nil {
		return Breakdown{}, err
	}
	perMinute := perMinuteRate(hourlyRate)

	b := Breakdown{Strategy: StrategyPrecise}

	// Overtime hours beyond the auto-approval limit are unreviewed exposure;
	// cap what gets priced across the whole run when the toggle is on.
	capOvertime := cfg.Schedule.AutoApproveOvertime
	overtimeRemaining := cfg.Schedule.AutoApproveOvertimeLimit

	for _, rec := range data.Breakdowns {
		if rec.Breakdown == nil {
			continue
		}

		for _, combo := range sortedKeys(rec.Breakdown.WorkedHours) {
			entry := rec.Breakdown.WorkedHours[combo]
			amount := hourlyRate.Mul(entry.Value).Mul(entry.Rate.Total)

			switch comboBucket(combo) {
			case bucketHoliday:
				b.HolidayPay = b.HolidayPay.Add(amount)
			case bucketNightDiff:
				b.NightDifferential = b.NightDifferential.Add(amount)
			default:
				b.BasePay = b.BasePay.Add(amount)
			}

			b.Detail = append(b.Detail, DetailLine{
				Source:      "worked_hours",
				Combination: combo,
				Hours:       entry.Value,
				Multiplier:  entry.Rate.Total,
				Amount:      amount,
			})
		}

		for _, combo := range sortedKeys(rec.Breakdown.Overtime) {
			entry := rec.Breakdown.Overtime[combo]

			hours := entry.Value
			if capOvertime {
				if hours.GreaterThan(overtimeRemaining) {
					hours = overtimeRemaining
				}
				overtimeRemaining = overtimeRemaining.Sub(hours)
			}
			if hours.LessThanOrEqual(decimal.Zero) {
				continue
			}

			amount := hourlyRate.Mul(hours).Mul(entry.Rate.Total)
			b.OvertimePay = b.OvertimePay.Add(amount)

			b.Detail = append(b.Detail, DetailLine{
				Source:      "overtime",
				Combination: combo,
				Hours:       hours,
				Multiplier:  entry.Rate.Total,
				Amount:      amount,
			})
		}

		if cfg.Schedule.EnableLateDeductions && rec.LateMinutes > 0 {
			b.LateDeductions = b.LateDeductions.Add(
				perMinute.Mul(decimal.NewFromInt(int64(rec.LateMinutes))))
		}
		if cfg.Schedule.EnableUndertimeDeductions && rec.UndertimeMinutes > 0 {
			b.UndertimeDeductions = b.UndertimeDeductions.Add(
				perMinute.Mul(decimal.NewFromInt(int64(rec.UndertimeMinutes))))
		}
	}

	// Paid leave is priced at a flat day-equivalent at the regular rate,
	// regardless of the leave type's own pay percentage.
	// TODO(product): reconcile with the aggregate path's rate_type-keyed
	// leave formula; the two do not agree for monthly employees.
	if data.Summary.PaidLeaveDays > 0 {
		leaveHours := cfg.Schedule.PaidLeaveHoursPerDay.Mul(decimal.NewFromInt(int64(data.Summary.PaidLeaveDays)))
		b.LeavePay = hourlyRate.Mul(leaveHours)
		b.Detail = append(b.Detail, DetailLine{
			Source:      "leave",
			Combination: attendance.ComboRegular,
			Hours:       leaveHours,
			Multiplier:  decimal.NewFromInt(1),
			Amount:      b.LeavePay,
		})
	}

	return b, nil
}

func sortedKeys(m map[string]attendance.BreakdownEntry) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
