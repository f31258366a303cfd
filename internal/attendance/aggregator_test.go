package attendance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-payroll/internal/attendance"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakeAttendanceRepository struct {
	findByRangeFn    func(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.AttendanceRecord, error)
	findBreakdownsFn func(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.AttendanceRecord, error)
}

func (f *fakeAttendanceRepository) FindByEmployeeAndRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.AttendanceRecord, error) {
	if f.findByRangeFn != nil {
		return f.findByRangeFn(ctx, employeeID, start, end)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) FindBreakdowns(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.AttendanceRecord, error) {
	if f.findBreakdownsFn != nil {
		return f.findBreakdownsFn(ctx, employeeID, start, end)
	}
	return nil, nil
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func workedDay(day int, total, overtime string) attendance.AttendanceRecord {
	return attendance.AttendanceRecord{
		ID:            uuid.New(),
		WorkDate:      time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC),
		Status:        attendance.StatusPresent,
		TotalHours:    d(total),
		OvertimeHours: d(overtime),
	}
}

func TestAggregator_Aggregate_GroupedTotals(t *testing.T) {
	ctx := context.Background()
	leaveType := "vacation"
	unpaidType := "lwop"

	holiday := workedDay(3, "8", "2")
	holiday.IsRegularHoliday = true
	restDay := workedDay(4, "6", "0")
	restDay.IsRestDay = true
	nightShift := workedDay(5, "8", "0")
	nightShift.NightDiffHours = d("4")
	late := workedDay(6, "8", "0")
	late.LateMinutes = 15
	late.UndertimeMinutes = 30

	records := []attendance.AttendanceRecord{
		workedDay(1, "8", "0"),
		workedDay(2, "9", "1"),
		holiday,
		restDay,
		nightShift,
		late,
		{ID: uuid.New(), WorkDate: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), Status: attendance.StatusOnLeave, LeaveType: &leaveType, IsPaidLeave: true},
		{ID: uuid.New(), WorkDate: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), Status: attendance.StatusOnLeave, LeaveType: &unpaidType},
		{ID: uuid.New(), WorkDate: time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), Status: attendance.StatusAbsent},
	}

	repo := &fakeAttendanceRepository{
		findByRangeFn: func(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.AttendanceRecord, error) {
			return records, nil
		},
	}
	agg := attendance.NewAggregator(repo)

	summary, err := agg.Aggregate(ctx, uuid.New().String(), time.Now(), time.Now())

	assert.NoError(t, err)
	assert.Equal(t, 6, summary.DaysWorked)
	assert.Equal(t, 1, summary.PaidLeaveDays)
	assert.Equal(t, 1, summary.UnpaidLeaveDays)
	assert.Equal(t, 1, summary.AbsentDays)
	assert.True(t, d("32").Equal(summary.RegularHours), "regular hours = %s", summary.RegularHours)
	assert.True(t, d("1").Equal(summary.OvertimeHours))
	assert.True(t, d("6").Equal(summary.RegularHolidayHours))
	assert.True(t, d("2").Equal(summary.RegularHolidayOvertimeHours))
	assert.True(t, d("6").Equal(summary.RestDayHours))
	assert.True(t, d("4").Equal(summary.NightDiffHours))
	assert.Equal(t, 15, summary.LateMinutes)
	assert.Equal(t, 30, summary.UndertimeMinutes)
	assert.Empty(t, summary.DuplicateDates)
}

func TestAggregator_Aggregate_ReportsDuplicates(t *testing.T) {
	ctx := context.Background()

	repo := &fakeAttendanceRepository{
		findByRangeFn: func(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.AttendanceRecord, error) {
			return []attendance.AttendanceRecord{
				workedDay(2, "8", "0"),
				workedDay(2, "4", "0"), // second authoritative-looking row for the same day
				workedDay(3, "8", "0"),
			}, nil
		},
	}
	agg := attendance.NewAggregator(repo)

	summary, err := agg.Aggregate(ctx, uuid.New().String(), time.Now(), time.Now())

	assert.NoError(t, err)
	assert.Equal(t, []string{"2025-06-02"}, summary.DuplicateDates)
	// Calculation still proceeds over every row.
	assert.True(t, d("20").Equal(summary.RegularHours))
	assert.Equal(t, 3, summary.DaysWorked)
}

func TestAggregator_Collect_StrategySignal(t *testing.T) {
	ctx := context.Background()

	t.Run("no breakdown rows means empty slice", func(t *testing.T) {
		repo := &fakeAttendanceRepository{}
		agg := attendance.NewAggregator(repo)

		data, err := agg.Collect(ctx, uuid.New().String(), time.Now(), time.Now())

		assert.NoError(t, err)
		assert.Empty(t, data.Breakdowns)
	})

	t.Run("breakdown rows pass through", func(t *testing.T) {
		rec := workedDay(2, "8", "0")
		rec.Breakdown = &attendance.PayrollBreakdown{
			WorkedHours: map[string]attendance.BreakdownEntry{
				attendance.ComboRegular: {Value: d("8"), Rate: attendance.BreakdownRate{Total: d("1.0")}},
			},
		}
		repo := &fakeAttendanceRepository{
			findBreakdownsFn: func(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.AttendanceRecord, error) {
				return []attendance.AttendanceRecord{rec}, nil
			},
		}
		agg := attendance.NewAggregator(repo)

		data, err := agg.Collect(ctx, uuid.New().String(), time.Now(), time.Now())

		assert.NoError(t, err)
		assert.Len(t, data.Breakdowns, 1)
	})

	t.Run("repo error propagates", func(t *testing.T) {
		repo := &fakeAttendanceRepository{
			findByRangeFn: func(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.AttendanceRecord, error) {
				return nil, errors.New("db error")
			},
		}
		agg := attendance.NewAggregator(repo)

		_, err := agg.Collect(ctx, uuid.New().String(), time.Now(), time.Now())

		assert.Error(t, err)
	})
}

func TestPayrollBreakdown_JSONRoundTrip(t *testing.T) {
	raw := []byte(`{
		"worked_hours": {
			"regular_holiday": {"value": 8, "rate": {"regular_holiday": 2.0, "total": 2.0}}
		},
		"overtime": {
			"regular_holiday_night_diff": {"value": 2, "rate": {"overtime": 1.25, "regular_holiday": 2.0, "night_diff": 1.1, "total": 2.75}}
		}
	}`)

	var b attendance.PayrollBreakdown
	assert.NoError(t, b.Scan(raw))

	entry := b.WorkedHours[attendance.ComboRegularHoliday]
	assert.True(t, d("8").Equal(entry.Value))
	assert.True(t, d("2.0").Equal(entry.Rate.Total))

	ot := b.Overtime["regular_holiday_night_diff"]
	assert.True(t, d("2.75").Equal(ot.Rate.Total))
	assert.True(t, d("1.25").Equal(ot.Rate.Components["overtime"]))

	val, err := b.Value()
	assert.NoError(t, err)
	var again attendance.PayrollBreakdown
	assert.NoError(t, again.Scan([]byte(val.([]byte))))
	assert.True(t, again.Overtime["regular_holiday_night_diff"].Rate.Total.Equal(d("2.75")))
}

func TestPayrollBreakdown_RateMissingTotal(t *testing.T) {
	var b attendance.PayrollBreakdown
	err := b.Scan([]byte(`{"worked_hours": {"regular": {"value": 8, "rate": {"regular": 1.0}}}}`))
	assert.Error(t, err)
}
