package payconfig

import (
	"github.com/shopspring/decimal"

	"go-payroll/internal/shared/money"
)

// Embedded 2025 Philippine statutory defaults. These back every section the
// configuration store cannot supply, so a payroll run degrades instead of
// failing when the store is unreachable.

const (
	PayFrequencyWeekly      = "weekly"
	PayFrequencyBiWeekly    = "bi-weekly"
	PayFrequencySemiMonthly = "semi-monthly"
	PayFrequencyMonthly     = "monthly"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// defaultSSSTable materializes the 2025 SSS schedule (15% of the monthly
// salary credit: 5% employee, 10% employer) as an ordered bracket table. MSC
// runs from 5,000 to 35,000 in 500-peso steps; the lookup must treat it as a
// compliance table, never interpolate.
func defaultSSSTable() []SSSBracket {
	var table []SSSBracket

	msc := dec("5000")
	top := dec("35000")
	step := dec("500")
	halfStep := dec("250")

	for msc.LessThanOrEqual(top) {
		// Half-open [Min, Max): each Max equals the next bracket's Min so
		// the table is contiguous and every pay matches exactly one row.
		bracket := SSSBracket{
			Min:      msc.Sub(halfStep),
			Max:      msc.Add(halfStep),
			Employee: msc.Mul(dec("0.05")),
			Employer: msc.Mul(dec("0.10")),
		}
		if msc.Equal(dec("5000")) {
			bracket.Min = decimal.Zero
		}
		if msc.Equal(top) {
			// Open-ended top bracket: salaries above it pay the fixed cap.
			bracket.Max = decimal.Zero
		}
		table = append(table, bracket)
		msc = msc.Add(step)
	}

	return table
}

// defaultTaxTable is the TRAIN-law annual schedule effective 2023 onward.
func defaultTaxTable() []TaxBracket {
	return []TaxBracket{
		{AnnualFloor: decimal.Zero, BaseTax: decimal.Zero, Rate: decimal.Zero},
		{AnnualFloor: dec("250000"), BaseTax: decimal.Zero, Rate: dec("0.15")},
		{AnnualFloor: dec("400000"), BaseTax: dec("22500"), Rate: dec("0.20")},
		{AnnualFloor: dec("800000"), BaseTax: dec("102500"), Rate: dec("0.25")},
		{AnnualFloor: dec("2000000"), BaseTax: dec("402500"), Rate: dec("0.30")},
		{AnnualFloor: dec("8000000"), BaseTax: dec("2202500"), Rate: dec("0.35")},
	}
}

// Defaults returns the full embedded configuration with every section tagged
// as hardcoded fallback.
func Defaults() *Configuration {
	cfg := &Configuration{
		SSS: defaultSSSTable(),
		PhilHealth: PhilHealthConfig{
			TotalRate:       dec("0.055"),
			MinContribution: dec("500"),
			MaxContribution: dec("5500"),
		},
		PagIBIG: PagIBIGConfig{
			LowerRate:               dec("0.01"),
			UpperRate:               dec("0.02"),
			SalaryThreshold:         dec("1500"),
			EmployeeMaxContribution: dec("200"),
			EmployerRate:            dec("0.02"),
			EmployerMaxContribution: dec("200"),
		},
		Tax: defaultTaxTable(),
		Premiums: PremiumRates{
			Overtime:          dec("1.25"),
			RestDay:           dec("1.30"),
			RegularHoliday:    dec("2.00"),
			SpecialHoliday:    dec("1.30"),
			NightDifferential: dec("1.10"),
		},
		Schedule: ScheduleConfig{
			StandardWorkingDays:       dec("26"),
			StandardWorkingHours:      dec("8"),
			PayFrequency:              PayFrequencyMonthly,
			AutoApproveOvertime:       true,
			AutoApproveOvertimeLimit:  dec("40"),
			EnableLateDeductions:      true,
			EnableUndertimeDeductions: true,
			DeductTardinessFromGross:  false,
			PaidLeaveHoursPerDay:      dec("8"),
		},
		Rounding: money.Rounder{
			Policy:    money.PolicyNearest,
			Increment: dec("0.01"),
		},
		ThirteenthMonth: ThirteenthMonthConfig{
			TaxExemptThreshold: dec("90000"),
		},
		Sources: map[string]string{},
	}

	for _, configType := range []string{
		TypeSSS, TypePhilHealth, TypePagIBIG, TypeTax,
		TypePremiums, TypeSchedule, TypeRounding, TypeThirteenthMonth,
	} {
		cfg.Sources[configType] = SourceFallback
	}

	return cfg
}
