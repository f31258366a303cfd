package deductions_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"go-payroll/internal/deductions"
	"go-payroll/internal/payconfig"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestMonthlyEquivalent(t *testing.T) {
	gross := d("10000")

	assert.True(t, d("43300").Equal(deductions.MonthlyEquivalent(gross, payconfig.PayFrequencyWeekly)))
	assert.True(t, d("21670").Equal(deductions.MonthlyEquivalent(gross, payconfig.PayFrequencyBiWeekly)))
	assert.True(t, d("20000").Equal(deductions.MonthlyEquivalent(gross, payconfig.PayFrequencySemiMonthly)))
	assert.True(t, d("10000").Equal(deductions.MonthlyEquivalent(gross, payconfig.PayFrequencyMonthly)))
}

func TestComputeSSS_BracketLookup(t *testing.T) {
	table := payconfig.Defaults().SSS

	cases := []struct {
		name       string
		monthlyPay string
		employee   string
		employer   string
	}{
		{"below first salary credit", "3000", "250", "500"},
		{"mid table", "13200", "650", "1300"},
		{"exact bracket floor", "12750", "650", "1300"},
		{"just under next floor", "13249.99", "650", "1300"},
		{"fractional centavos below a floor", "13249.995", "650", "1300"},
		{"exact next floor moves up a bracket", "13250", "675", "1350"},
		{"above table ceiling uses top cap", "120000", "1750", "3500"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := deductions.ComputeSSS(table, d(tc.monthlyPay))
			assert.NoError(t, err)
			assert.True(t, d(tc.employee).Equal(c.Employee), "employee = %s", c.Employee)
			assert.True(t, d(tc.employer).Equal(c.Employer), "employer = %s", c.Employer)
		})
	}
}

func TestComputeSSS_EmptyTable(t *testing.T) {
	_, err := deductions.ComputeSSS(nil, d("10000"))
	assert.Error(t, err)
}

// For p1 < p2 the contribution never decreases, across the whole table
// including the open-ended top bracket.
func TestComputeSSS_Monotonic(t *testing.T) {
	table := payconfig.Defaults().SSS

	prev := decimal.Zero
	pay := d("1000")
	step := d("137.5")
	limit := d("50000")
	for pay.LessThan(limit) {
		c, err := deductions.ComputeSSS(table, pay)
		assert.NoError(t, err)
		assert.True(t, c.Employee.GreaterThanOrEqual(prev),
			"sss decreased at pay %s: %s < %s", pay, c.Employee, prev)
		prev = c.Employee
		pay = pay.Add(step)
	}

	// Straddle every internal bracket boundary, including sub-centavo pay
	// just below each floor: the table is contiguous, so nothing between two
	// brackets may fall through to the top cap.
	eps := d("0.005")
	for _, b := range table[1:] {
		below, err := deductions.ComputeSSS(table, b.Min.Sub(eps))
		assert.NoError(t, err)
		at, err := deductions.ComputeSSS(table, b.Min)
		assert.NoError(t, err)
		assert.True(t, below.Employee.LessThanOrEqual(at.Employee),
			"sss decreased across floor %s: %s > %s", b.Min, below.Employee, at.Employee)
	}
}

func TestComputePhilHealth(t *testing.T) {
	cfg := payconfig.Defaults().PhilHealth

	t.Run("rate within clamp splits evenly", func(t *testing.T) {
		c := deductions.ComputePhilHealth(cfg, d("13200"))
		assert.True(t, d("363").Equal(c.Employee), "employee = %s", c.Employee)
		assert.True(t, d("363").Equal(c.Employer))
	})

	t.Run("low pay clamps to minimum", func(t *testing.T) {
		c := deductions.ComputePhilHealth(cfg, d("4000"))
		// 4000 x 5.5% = 220, raised to the 500 floor, split 250/250.
		assert.True(t, d("250").Equal(c.Employee))
	})

	t.Run("high pay clamps to maximum", func(t *testing.T) {
		c := deductions.ComputePhilHealth(cfg, d("500000"))
		assert.True(t, d("2750").Equal(c.Employee))
		assert.True(t, d("2750").Equal(c.Employer))
	})
}

func TestComputePagIBIG(t *testing.T) {
	cfg := payconfig.Defaults().PagIBIG

	t.Run("below threshold uses lower rate", func(t *testing.T) {
		c := deductions.ComputePagIBIG(cfg, d("1400"))
		assert.True(t, d("14").Equal(c.Employee))
		assert.True(t, d("28").Equal(c.Employer))
	})

	t.Run("at threshold switches to upper rate", func(t *testing.T) {
		c := deductions.ComputePagIBIG(cfg, d("1500"))
		assert.True(t, d("30").Equal(c.Employee))
	})

	t.Run("both sides capped in pesos", func(t *testing.T) {
		c := deductions.ComputePagIBIG(cfg, d("50000"))
		assert.True(t, d("200").Equal(c.Employee))
		assert.True(t, d("200").Equal(c.Employer))
	})
}

func TestComputeWithholdingTax(t *testing.T) {
	brackets := payconfig.Defaults().Tax

	t.Run("below exemption pays nothing", func(t *testing.T) {
		tax, err := deductions.ComputeWithholdingTax(brackets, d("20000"))
		assert.NoError(t, err)
		assert.True(t, tax.IsZero())
	})

	t.Run("second bracket marginal rate", func(t *testing.T) {
		// 30,000 monthly = 360,000 annual: 15% of the 110,000 over 250k,
		// back to monthly.
		tax, err := deductions.ComputeWithholdingTax(brackets, d("30000"))
		assert.NoError(t, err)
		assert.True(t, d("1375").Equal(tax), "tax = %s", tax)
	})

	t.Run("non-positive income pays nothing", func(t *testing.T) {
		tax, err := deductions.ComputeWithholdingTax(brackets, d("-5"))
		assert.NoError(t, err)
		assert.True(t, tax.IsZero())
	})

	t.Run("empty table is an error", func(t *testing.T) {
		_, err := deductions.ComputeWithholdingTax(nil, d("30000"))
		assert.Error(t, err)
	})
}

// At every bracket boundary the schedule is continuous: the tax just above
// the floor differs from the tax just below by no more than the marginal rate
// times the step. Crossing into a higher bracket never lowers the bill.
func TestComputeWithholdingTax_ContinuousAtBoundaries(t *testing.T) {
	brackets := payconfig.Defaults().Tax
	epsilon := d("0.01")

	for _, b := range brackets[1:] {
		floorMonthly := b.AnnualFloor.Div(d("12"))

		below, err := deductions.ComputeWithholdingTax(brackets, floorMonthly.Sub(epsilon))
		assert.NoError(t, err)
		above, err := deductions.ComputeWithholdingTax(brackets, floorMonthly.Add(epsilon))
		assert.NoError(t, err)

		assert.True(t, above.GreaterThanOrEqual(below),
			"regressive cliff at annual floor %s: %s < %s", b.AnnualFloor, above, below)

		// Jump bound: 2ε of monthly income at the marginal rate.
		jump := above.Sub(below)
		bound := epsilon.Mul(d("2")).Mul(b.Rate).Add(d("0.0001"))
		assert.True(t, jump.LessThanOrEqual(bound),
			"discontinuity at annual floor %s: jump %s", b.AnnualFloor, jump)
	}
}

// Annualized tax is monotonic over a sweep of monthly incomes.
func TestComputeWithholdingTax_Monotonic(t *testing.T) {
	brackets := payconfig.Defaults().Tax

	prev := decimal.Zero
	pay := d("5000")
	step := d("3777")
	limit := d("800000")
	for pay.LessThan(limit) {
		tax, err := deductions.ComputeWithholdingTax(brackets, pay)
		assert.NoError(t, err)
		assert.True(t, tax.GreaterThanOrEqual(prev),
			"tax decreased at monthly %s", pay)
		prev = tax
		pay = pay.Add(step)
	}
}
