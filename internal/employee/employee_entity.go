package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	RateTypeHourly  = "hourly"
	RateTypeDaily   = "daily"
	RateTypeMonthly = "monthly"
)

// EmploymentTypeRegular gates statutory deductions; every other employment
// type (Contractual, Probationary, ...) is exempt.
const EmploymentTypeRegular = "Regular"

// Employee is the contract-facts view this engine reads. The HR subsystem
// owns the row; nothing here ever writes it.
type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeNumber string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	FullName       string    `gorm:"type:varchar(120);not null"`
	PositionTitle  string    `gorm:"type:varchar(120)"`

	Rate           decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	RateType       string          `gorm:"type:varchar(10);not null"`
	EmploymentType string          `gorm:"type:varchar(20);not null"`

	ContractStart time.Time  `gorm:"type:date;not null"`
	ContractEnd   *time.Time `gorm:"type:date"`

	IsActive  bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// ValidRateType reports whether rt is one of the three supported rate types.
func ValidRateType(rt string) bool {
	switch rt {
	case RateTypeHourly, RateTypeDaily, RateTypeMonthly:
		return true
	}
	return false
}
