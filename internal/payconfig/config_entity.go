package payconfig

import (
	"time"

	"github.com/google/uuid"
)

// Config types. Each type owns a typed schema; see snapshot.go.
const (
	TypeSSS             = "sss"
	TypePhilHealth      = "philhealth"
	TypePagIBIG         = "pagibig"
	TypeTax             = "tax"
	TypePremiums        = "premiums"
	TypeSchedule        = "schedule"
	TypeRounding        = "rounding"
	TypeThirteenthMonth = "thirteenth_month"
)

// Where a configuration section came from, kept on results for audit.
const (
	SourceDatabase = "database"
	SourceFallback = "hardcoded_fallback"
)

// PayrollConfiguration is one versioned configuration entry. Rows are
// append-only: an update expires the active row and inserts a new one, so the
// full rate history stays auditable. At most one active, non-expired row may
// resolve for a (config_type, config_key) at any evaluation date.
type PayrollConfiguration struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConfigType    string     `gorm:"type:varchar(40);not null;index:idx_type_key"`
	ConfigKey     string     `gorm:"type:varchar(80);not null;index:idx_type_key"`
	ConfigValue   string     `gorm:"type:text;not null"`
	Description   *string    `gorm:"type:text"`
	EffectiveDate time.Time  `gorm:"type:date;not null"`
	ExpiryDate    *time.Time `gorm:"type:date"`
	IsActive      bool       `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResolvesAt reports whether this entry is the authoritative value at asOf.
func (c PayrollConfiguration) ResolvesAt(asOf time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.EffectiveDate.After(asOf) {
		return false
	}
	if c.ExpiryDate != nil && !asOf.Before(*c.ExpiryDate) {
		return false
	}
	return true
}
