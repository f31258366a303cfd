package payconfig

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	payconfigerrors "go-payroll/internal/payconfig/errors"
	"go-payroll/internal/shared/money"
)

// SSSBracket is one row of the SSS compliance table. The interval is
// half-open [Min, Max); a Max of zero marks the open-ended top bracket.
type SSSBracket struct {
	Min      decimal.Decimal `json:"min"`
	Max      decimal.Decimal `json:"max"`
	Employee decimal.Decimal `json:"employee"`
	Employer decimal.Decimal `json:"employer"`
}

// TaxBracket is one row of the annual progressive schedule: a fixed base tax
// plus a marginal rate on the excess over the bracket floor.
type TaxBracket struct {
	AnnualFloor decimal.Decimal `json:"annual_floor"`
	BaseTax     decimal.Decimal `json:"base_tax"`
	Rate        decimal.Decimal `json:"rate"`
}

type PhilHealthConfig struct {
	TotalRate       decimal.Decimal
	MinContribution decimal.Decimal
	MaxContribution decimal.Decimal
}

type PagIBIGConfig struct {
	LowerRate               decimal.Decimal
	UpperRate               decimal.Decimal
	SalaryThreshold         decimal.Decimal
	EmployeeMaxContribution decimal.Decimal
	EmployerRate            decimal.Decimal
	EmployerMaxContribution decimal.Decimal
}

type PremiumRates struct {
	Overtime          decimal.Decimal
	RestDay           decimal.Decimal
	RegularHoliday    decimal.Decimal
	SpecialHoliday    decimal.Decimal
	NightDifferential decimal.Decimal
}

type ScheduleConfig struct {
	StandardWorkingDays       decimal.Decimal
	StandardWorkingHours      decimal.Decimal
	PayFrequency              string
	AutoApproveOvertime       bool
	AutoApproveOvertimeLimit  decimal.Decimal
	EnableLateDeductions      bool
	EnableUndertimeDeductions bool
	// DeductTardinessFromGross decides whether late/undertime amounts net
	// against gross pay or stay informational. Both behaviors exist in the
	// field; the flag keeps the choice explicit per deployment.
	DeductTardinessFromGross bool
	PaidLeaveHoursPerDay     decimal.Decimal
}

type ThirteenthMonthConfig struct {
	TaxExemptThreshold decimal.Decimal
}

// Configuration is the immutable snapshot one payroll run calculates against.
// It is loaded once per run and never refetched mid-batch, so every employee
// in the run sees identical rates. Sources records, per config type, whether
// the section came from the store or the embedded defaults.
type Configuration struct {
	AsOf time.Time

	SSS             []SSSBracket
	PhilHealth      PhilHealthConfig
	PagIBIG         PagIBIGConfig
	Tax             []TaxBracket
	Premiums        PremiumRates
	Schedule        ScheduleConfig
	Rounding        money.Rounder
	ThirteenthMonth ThirteenthMonthConfig

	Sources map[string]string
}

// UsedFallback reports whether any section degraded to embedded defaults.
func (c *Configuration) UsedFallback() bool {
	for _, src := range c.Sources {
		if src == SourceFallback {
			return true
		}
	}
	return false
}

//go:generate mockgen -source=snapshot.go -destination=mock/loader_mock.go -package=mock
type Loader interface {
	Load(ctx context.Context, asOf time.Time) (*Configuration, error)
}

type loader struct {
	repo   Repository
	logger *zap.Logger
}

func NewLoader(repo Repository, logger ...*zap.Logger) Loader {
	l := zap.L().Named("payconfig.loader")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payconfig.loader")
	}
	return &loader{repo: repo, logger: l}
}

// Load resolves every (config_type, config_key) active at asOf into the typed
// snapshot. A store outage degrades to the embedded defaults with a warning;
// a present-but-unparsable value is a typed load error, never a silently
// wrong rate.
func (l *loader) Load(ctx context.Context, asOf time.Time) (*Configuration, error) {
	cfg := Defaults()
	cfg.AsOf = asOf

	entries, err := l.repo.FindActiveAt(ctx, asOf)
	if err != nil {
		l.logger.Warn("configuration store unavailable, using embedded statutory defaults",
			zap.Time("as_of", asOf),
			zap.Error(err),
		)
		return cfg, nil
	}

	byType := make(map[string]map[string]string)
	for _, e := range entries {
		if !e.ResolvesAt(asOf) {
			continue
		}
		if byType[e.ConfigType] == nil {
			byType[e.ConfigType] = make(map[string]string)
		}
		byType[e.ConfigType][e.ConfigKey] = e.ConfigValue
	}

	for configType, values := range byType {
		if err := applySection(cfg, configType, values); err != nil {
			return nil, err
		}
		cfg.Sources[configType] = SourceDatabase
	}

	for configType, src := range cfg.Sources {
		if src == SourceFallback {
			l.logger.Warn("config type absent from store, using embedded defaults",
				zap.String("config_type", configType),
				zap.Time("as_of", asOf),
			)
		}
	}

	return cfg, nil
}

// applySection overlays one config type's stored values on the defaults.
// Keys the store omits keep their default; keys it supplies must parse.
func applySection(cfg *Configuration, configType string, values map[string]string) error {
	set := entrySet{configType: configType, values: values}

	switch configType {
	case TypeSSS:
		return set.jsonInto("contribution_table", &cfg.SSS)

	case TypePhilHealth:
		return firstErr(
			set.decimalInto("total_rate", &cfg.PhilHealth.TotalRate),
			set.decimalInto("min_contribution", &cfg.PhilHealth.MinContribution),
			set.decimalInto("max_contribution", &cfg.PhilHealth.MaxContribution),
		)

	case TypePagIBIG:
		return firstErr(
			set.decimalInto("employee_rate_lower", &cfg.PagIBIG.LowerRate),
			set.decimalInto("employee_rate_upper", &cfg.PagIBIG.UpperRate),
			set.decimalInto("salary_threshold", &cfg.PagIBIG.SalaryThreshold),
			set.decimalInto("employee_max_contribution", &cfg.PagIBIG.EmployeeMaxContribution),
			set.decimalInto("employer_rate", &cfg.PagIBIG.EmployerRate),
			set.decimalInto("employer_max_contribution", &cfg.PagIBIG.EmployerMaxContribution),
		)

	case TypeTax:
		return set.jsonInto("brackets", &cfg.Tax)

	case TypePremiums:
		return firstErr(
			set.decimalInto("overtime", &cfg.Premiums.Overtime),
			set.decimalInto("rest_day", &cfg.Premiums.RestDay),
			set.decimalInto("regular_holiday", &cfg.Premiums.RegularHoliday),
			set.decimalInto("special_holiday", &cfg.Premiums.SpecialHoliday),
			set.decimalInto("night_differential", &cfg.Premiums.NightDifferential),
		)

	case TypeSchedule:
		return firstErr(
			set.decimalInto("standard_working_days", &cfg.Schedule.StandardWorkingDays),
			set.decimalInto("standard_working_hours", &cfg.Schedule.StandardWorkingHours),
			set.stringInto("pay_frequency", &cfg.Schedule.PayFrequency),
			set.boolInto("auto_approve_overtime", &cfg.Schedule.AutoApproveOvertime),
			set.decimalInto("auto_approve_overtime_hours_limit", &cfg.Schedule.AutoApproveOvertimeLimit),
			set.boolInto("enable_late_deductions", &cfg.Schedule.EnableLateDeductions),
			set.boolInto("enable_undertime_deductions", &cfg.Schedule.EnableUndertimeDeductions),
			set.boolInto("deduct_tardiness_from_gross", &cfg.Schedule.DeductTardinessFromGross),
			set.decimalInto("paid_leave_hours_per_day", &cfg.Schedule.PaidLeaveHoursPerDay),
		)

	case TypeRounding:
		if err := set.decimalInto("increment", &cfg.Rounding.Increment); err != nil {
			return err
		}
		if raw, ok := values["policy"]; ok {
			policy, err := money.ParsePolicy(raw)
			if err != nil {
				return payconfigerrors.ParseError(configType, "policy", err)
			}
			cfg.Rounding.Policy = policy
		}
		return nil

	case TypeThirteenthMonth:
		return set.decimalInto("tax_exempt_threshold", &cfg.ThirteenthMonth.TaxExemptThreshold)
	}

	// Unknown config types belong to other subsystems; ignore them.
	return nil
}

type entrySet struct {
	configType string
	values     map[string]string
}

func (s entrySet) decimalInto(key string, dst *decimal.Decimal) error {
	raw, ok := s.values[key]
	if !ok {
		return nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return payconfigerrors.ParseError(s.configType, key, err)
	}
	*dst = v
	return nil
}

func (s entrySet) boolInto(key string, dst *bool) error {
	raw, ok := s.values[key]
	if !ok {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return payconfigerrors.ParseError(s.configType, key, err)
	}
	*dst = v
	return nil
}

func (s entrySet) stringInto(key string, dst *string) error {
	if raw, ok := s.values[key]; ok {
		*dst = raw
	}
	return nil
}

func (s entrySet) jsonInto(key string, dst any) error {
	raw, ok := s.values[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return payconfigerrors.ParseError(s.configType, key, err)
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
