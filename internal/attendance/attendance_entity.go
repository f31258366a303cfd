package attendance

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusOnLeave = "on_leave"
)

// Premium combination keys used inside a payroll breakdown. Combinations
// compose with underscores, e.g. "regular_holiday_night_diff".
const (
	ComboRegular        = "regular"
	ComboRestDay        = "rest_day"
	ComboNightDiff      = "night_diff"
	ComboRegularHoliday = "regular_holiday"
	ComboSpecialHoliday = "special_holiday"
)

// AttendanceRecord is one employee-day of attendance facts. At most one
// authoritative row may exist per (employee, work_date); duplicates are a
// data-inconsistency the aggregator reports.
type AttendanceRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_employee_workdate"`
	WorkDate   time.Time `gorm:"type:date;not null;index:idx_employee_workdate"`

	Status      string  `gorm:"type:varchar(12);not null;default:'present'"`
	LeaveType   *string `gorm:"type:varchar(40)"`
	IsPaidLeave bool    `gorm:"not null;default:false"`

	TotalHours     decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	OvertimeHours  decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	NightDiffHours decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`

	LateMinutes      int `gorm:"not null;default:0"`
	UndertimeMinutes int `gorm:"not null;default:0"`

	IsRestDay        bool `gorm:"not null;default:false"`
	IsRegularHoliday bool `gorm:"not null;default:false"`
	IsSpecialHoliday bool `gorm:"not null;default:false"`

	// Breakdown, when present, is the authoritative per-day earnings source.
	Breakdown *PayrollBreakdown `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BreakdownRate carries the combined multiplier for one premium combination.
// Total must equal the product of the component multipliers; the earnings
// engine trusts it instead of recomputing.
type BreakdownRate struct {
	Total      decimal.Decimal
	Components map[string]decimal.Decimal
}

func (r *BreakdownRate) UnmarshalJSON(data []byte) error {
	var raw map[string]decimal.Decimal
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	total, ok := raw["total"]
	if !ok {
		return errors.New("payroll breakdown rate is missing total")
	}
	delete(raw, "total")

	r.Total = total
	r.Components = raw
	return nil
}

func (r BreakdownRate) MarshalJSON() ([]byte, error) {
	out := make(map[string]decimal.Decimal, len(r.Components)+1)
	for k, v := range r.Components {
		out[k] = v
	}
	out["total"] = r.Total
	return json.Marshal(out)
}

// BreakdownEntry is hours priced at one combined rate.
type BreakdownEntry struct {
	Value decimal.Decimal `json:"value"`
	Rate  BreakdownRate   `json:"rate"`
}

// PayrollBreakdown holds the per-day precomputed premium maps: worked hours
// and overtime, each keyed by premium combination.
type PayrollBreakdown struct {
	WorkedHours map[string]BreakdownEntry `json:"worked_hours"`
	Overtime    map[string]BreakdownEntry `json:"overtime"`
}

func (b PayrollBreakdown) Value() (driver.Value, error) {
	return json.Marshal(b)
}

func (b *PayrollBreakdown) Scan(value any) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	default:
		return fmt.Errorf("unsupported payroll_breakdown column type %T", value)
	}
}
