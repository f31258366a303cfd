package thirteenth

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ThirteenthMonthPay is one computed bonus for one employee and calendar
// year. The unique key on (employee_id, year) backs the reject-on-duplicate
// rule: a bonus is computed once and never silently recomputed.
type ThirteenthMonthPay struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_thirteenth_employee_year"`
	Year       int       `gorm:"type:int;not null;uniqueIndex:idx_thirteenth_employee_year"`

	MonthsWorked     int             `gorm:"type:int;not null"`
	TotalBasicSalary decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	GrossAmount      decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	TaxWithheld      decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	NetAmount        decimal.Decimal `gorm:"type:numeric(14,4);not null"`

	ComputedAt time.Time `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index:idx_thirteenth_deleted_at"`
}
