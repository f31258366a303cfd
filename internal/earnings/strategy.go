package earnings

import (
	"strings"

	"go-payroll/internal/attendance"
	"go-payroll/internal/employee"
	"go-payroll/internal/payconfig"
)

// strategy is the single seam between the two calculation paths. Both share
// the multiplier vocabulary and the Breakdown shape, so one property suite
// covers them.
type strategy interface {
	name() string
	compute(emp *employee.Employee, data attendance.Data, cfg *payconfig.Configuration) (Breakdown, error)
}

// Premium bucket attribution for a combination key. Holiday beats rest day,
// rest day beats plain night diff; an unadorned combination is base pay.
const (
	bucketBase      = "base"
	bucketHoliday   = "holiday"
	bucketNightDiff = "night_diff"
)

func comboBucket(combo string) string {
	switch {
	case strings.Contains(combo, attendance.ComboRegularHoliday),
		strings.Contains(combo, attendance.ComboSpecialHoliday),
		strings.Contains(combo, attendance.ComboRestDay):
		return bucketHoliday
	case strings.Contains(combo, attendance.ComboNightDiff):
		return bucketNightDiff
	default:
		return bucketBase
	}
}
