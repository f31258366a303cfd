package attendance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Summary is the aggregated view of one employee's attendance over a period,
// used by the fallback earnings strategy.
type Summary struct {
	DaysWorked      int
	PaidLeaveDays   int
	UnpaidLeaveDays int
	AbsentDays      int

	RegularHours  decimal.Decimal
	OvertimeHours decimal.Decimal

	RegularHolidayHours         decimal.Decimal
	SpecialHolidayHours         decimal.Decimal
	RestDayHours                decimal.Decimal
	RegularHolidayOvertimeHours decimal.Decimal
	SpecialHolidayOvertimeHours decimal.Decimal
	RestDayOvertimeHours        decimal.Decimal

	NightDiffHours decimal.Decimal

	LateMinutes      int
	UndertimeMinutes int

	// DuplicateDates lists work dates that had more than one attendance row.
	// Totals still include every row; callers decide how loud to be.
	DuplicateDates []string
}

// Data bundles both attendance views for one employee and period. The
// earnings engine selects its strategy on len(Breakdowns).
type Data struct {
	Summary    Summary
	Breakdowns []AttendanceRecord
}

//go:generate mockgen -source=aggregator.go -destination=mock/aggregator_mock.go -package=mock
type Aggregator interface {
	Aggregate(ctx context.Context, employeeID string, start, end time.Time) (Summary, error)
	FetchBreakdowns(ctx context.Context, employeeID string, start, end time.Time) ([]AttendanceRecord, error)
	Collect(ctx context.Context, employeeID string, start, end time.Time) (Data, error)
}

type aggregator struct {
	repo   Repository
	logger *zap.Logger
}

func NewAggregator(repo Repository, logger ...*zap.Logger) Aggregator {
	l := zap.L().Named("attendance.aggregator")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.aggregator")
	}
	return &aggregator{repo: repo, logger: l}
}

func (a *aggregator) Aggregate(
	ctx context.Context,
	employeeID string,
	start, end time.Time,
) (Summary, error) {
	records, err := a.repo.FindByEmployeeAndRange(ctx, employeeID, start, end)
	if err != nil {
		return Summary{}, err
	}

	summary := summarize(records)

	for _, date := range summary.DuplicateDates {
		conflicting := recordsOnDate(records, date)
		a.logger.Warn("duplicate attendance rows for one day, totals include all rows",
			zap.String("employee_id", employeeID),
			zap.String("work_date", date),
			zap.Int("row_count", len(conflicting)),
			zap.Strings("record_ids", recordIDs(conflicting)),
			zap.Strings("total_hours", recordHours(conflicting)),
		)
	}

	return summary, nil
}

func (a *aggregator) FetchBreakdowns(
	ctx context.Context,
	employeeID string,
	start, end time.Time,
) ([]AttendanceRecord, error) {
	return a.repo.FindBreakdowns(ctx, employeeID, start, end)
}

func (a *aggregator) Collect(
	ctx context.Context,
	employeeID string,
	start, end time.Time,
) (Data, error) {
	summary, err := a.Aggregate(ctx, employeeID, start, end)
	if err != nil {
		return Data{}, err
	}

	breakdowns, err := a.repo.FindBreakdowns(ctx, employeeID, start, end)
	if err != nil {
		return Data{}, err
	}

	return Data{Summary: summary, Breakdowns: breakdowns}, nil
}

// summarize folds attendance rows into grouped totals. Unpaid leave is kept
// distinct from paid leave: only paid leave days earn base pay.
func summarize(records []AttendanceRecord) Summary {
	var s Summary
	seen := map[string]bool{}
	flagged := map[string]bool{}

	for _, rec := range records {
		date := rec.WorkDate.Format("2006-01-02")
		if seen[date] && !flagged[date] {
			s.DuplicateDates = append(s.DuplicateDates, date)
			flagged[date] = true
		}
		seen[date] = true

		switch rec.Status {
		case StatusOnLeave:
			if rec.IsPaidLeave {
				s.PaidLeaveDays++
			} else {
				s.UnpaidLeaveDays++
			}
			continue
		case StatusAbsent:
			s.AbsentDays++
			continue
		}

		s.DaysWorked++
		worked := rec.TotalHours.Sub(rec.OvertimeHours)
		if worked.IsNegative() {
			worked = decimal.Zero
		}

		// Holiday classification wins over rest day when both flags are set;
		// exact pairwise pricing lives in the per-day breakdown path.
		switch {
		case rec.IsRegularHoliday:
			s.RegularHolidayHours = s.RegularHolidayHours.Add(worked)
			s.RegularHolidayOvertimeHours = s.RegularHolidayOvertimeHours.Add(rec.OvertimeHours)
		case rec.IsSpecialHoliday:
			s.SpecialHolidayHours = s.SpecialHolidayHours.Add(worked)
			s.SpecialHolidayOvertimeHours = s.SpecialHolidayOvertimeHours.Add(rec.OvertimeHours)
		case rec.IsRestDay:
			s.RestDayHours = s.RestDayHours.Add(worked)
			s.RestDayOvertimeHours = s.RestDayOvertimeHours.Add(rec.OvertimeHours)
		default:
			s.RegularHours = s.RegularHours.Add(worked)
			s.OvertimeHours = s.OvertimeHours.Add(rec.OvertimeHours)
		}

		s.NightDiffHours = s.NightDiffHours.Add(rec.NightDiffHours)
		s.LateMinutes += rec.LateMinutes
		s.UndertimeMinutes += rec.UndertimeMinutes
	}

	return s
}

func recordsOnDate(records []AttendanceRecord, date string) []AttendanceRecord {
	var out []AttendanceRecord
	for _, rec := range records {
		if rec.WorkDate.Format("2006-01-02") == date {
			out = append(out, rec)
		}
	}
	return out
}

func recordIDs(records []AttendanceRecord) []string {
	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID.String()
	}
	return ids
}

func recordHours(records []AttendanceRecord) []string {
	hours := make([]string, len(records))
	for i, rec := range records {
		hours[i] = rec.TotalHours.String()
	}
	return hours
}
