package payconfig_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-payroll/internal/payconfig"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/money"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeConfigRepository struct {
	findActiveAtFn     func(ctx context.Context, asOf time.Time) ([]payconfig.PayrollConfiguration, error)
	findByTypeAndKeyFn func(ctx context.Context, configType, configKey string, asOf time.Time) (*payconfig.PayrollConfiguration, error)
	findByTypeFn       func(ctx context.Context, configType string, asOf time.Time) ([]payconfig.PayrollConfiguration, error)
	expireEntryFn      func(ctx context.Context, id string, expiryDate time.Time) error
	insertFn           func(ctx context.Context, entry *payconfig.PayrollConfiguration) error
}

func (f *fakeConfigRepository) WithTx(tx *gorm.DB) payconfig.Repository {
	return f
}

func (f *fakeConfigRepository) FindActiveAt(ctx context.Context, asOf time.Time) ([]payconfig.PayrollConfiguration, error) {
	if f.findActiveAtFn != nil {
		return f.findActiveAtFn(ctx, asOf)
	}
	return nil, nil
}

func (f *fakeConfigRepository) FindByTypeAndKey(ctx context.Context, configType, configKey string, asOf time.Time) (*payconfig.PayrollConfiguration, error) {
	if f.findByTypeAndKeyFn != nil {
		return f.findByTypeAndKeyFn(ctx, configType, configKey, asOf)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeConfigRepository) FindByType(ctx context.Context, configType string, asOf time.Time) ([]payconfig.PayrollConfiguration, error) {
	if f.findByTypeFn != nil {
		return f.findByTypeFn(ctx, configType, asOf)
	}
	return nil, nil
}

func (f *fakeConfigRepository) ExpireEntry(ctx context.Context, id string, expiryDate time.Time) error {
	if f.expireEntryFn != nil {
		return f.expireEntryFn(ctx, id, expiryDate)
	}
	return nil
}

func (f *fakeConfigRepository) Insert(ctx context.Context, entry *payconfig.PayrollConfiguration) error {
	if f.insertFn != nil {
		return f.insertFn(ctx, entry)
	}
	return nil
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func entry(configType, key, value string, effective time.Time) payconfig.PayrollConfiguration {
	return payconfig.PayrollConfiguration{
		ConfigType:    configType,
		ConfigKey:     key,
		ConfigValue:   value,
		EffectiveDate: effective,
		IsActive:      true,
	}
}

func TestLoader_Load_StoreUnavailableFallsBack(t *testing.T) {
	ctx := context.Background()
	repo := &fakeConfigRepository{
		findActiveAtFn: func(ctx context.Context, asOf time.Time) ([]payconfig.PayrollConfiguration, error) {
			return nil, errors.New("connection refused")
		},
	}
	loader := payconfig.NewLoader(repo)

	cfg, err := loader.Load(ctx, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC))

	assert.NoError(t, err)
	assert.True(t, cfg.UsedFallback())
	assert.Equal(t, payconfig.SourceFallback, cfg.Sources[payconfig.TypeSSS])
	assert.NotEmpty(t, cfg.SSS)
	assert.True(t, d("0.055").Equal(cfg.PhilHealth.TotalRate))
	assert.Equal(t, money.PolicyNearest, cfg.Rounding.Policy)
}

func TestLoader_Load_StoredValuesOverrideDefaults(t *testing.T) {
	ctx := context.Background()
	asOf := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	repo := &fakeConfigRepository{
		findActiveAtFn: func(ctx context.Context, got time.Time) ([]payconfig.PayrollConfiguration, error) {
			return []payconfig.PayrollConfiguration{
				entry(payconfig.TypePhilHealth, "total_rate", "0.05", jan),
				entry(payconfig.TypePremiums, "overtime", "1.30", jan),
				entry(payconfig.TypeSchedule, "standard_working_days", "22", jan),
				entry(payconfig.TypeSchedule, "deduct_tardiness_from_gross", "true", jan),
				entry(payconfig.TypeRounding, "policy", "up", jan),
			}, nil
		},
	}
	loader := payconfig.NewLoader(repo)

	cfg, err := loader.Load(ctx, asOf)

	assert.NoError(t, err)
	assert.Equal(t, payconfig.SourceDatabase, cfg.Sources[payconfig.TypePhilHealth])
	assert.True(t, d("0.05").Equal(cfg.PhilHealth.TotalRate))
	assert.True(t, d("1.30").Equal(cfg.Premiums.Overtime))
	assert.True(t, d("22").Equal(cfg.Schedule.StandardWorkingDays))
	assert.True(t, cfg.Schedule.DeductTardinessFromGross)
	assert.Equal(t, money.PolicyUp, cfg.Rounding.Policy)
	// Keys the store omitted keep their defaults.
	assert.True(t, d("500").Equal(cfg.PhilHealth.MinContribution))
	assert.Equal(t, payconfig.SourceFallback, cfg.Sources[payconfig.TypeSSS])
}

func TestLoader_Load_ExpiredAndFutureEntriesIgnored(t *testing.T) {
	ctx := context.Background()
	asOf := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	expired := entry(payconfig.TypePremiums, "overtime", "9.99", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	expiry := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	expired.ExpiryDate = &expiry

	future := entry(payconfig.TypePremiums, "rest_day", "9.99", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	repo := &fakeConfigRepository{
		findActiveAtFn: func(ctx context.Context, got time.Time) ([]payconfig.PayrollConfiguration, error) {
			return []payconfig.PayrollConfiguration{expired, future}, nil
		},
	}
	loader := payconfig.NewLoader(repo)

	cfg, err := loader.Load(ctx, asOf)

	assert.NoError(t, err)
	assert.True(t, d("1.25").Equal(cfg.Premiums.Overtime))
	assert.True(t, d("1.30").Equal(cfg.Premiums.RestDay))
}

func TestLoader_Load_MalformedValueIsTypedError(t *testing.T) {
	ctx := context.Background()
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	repo := &fakeConfigRepository{
		findActiveAtFn: func(ctx context.Context, asOf time.Time) ([]payconfig.PayrollConfiguration, error) {
			return []payconfig.PayrollConfiguration{
				entry(payconfig.TypePhilHealth, "total_rate", "five-ish percent", jan),
			}, nil
		},
	}
	loader := payconfig.NewLoader(repo)

	_, err := loader.Load(ctx, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC))

	assert.Error(t, err)
	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInvalidState, appErr.Code)
}

func TestDefaults_SSSTableShape(t *testing.T) {
	table := payconfig.Defaults().SSS

	assert.Equal(t, 61, len(table))
	assert.True(t, table[0].Min.IsZero())
	// Top bracket is open-ended and fixed.
	last := table[len(table)-1]
	assert.True(t, last.Max.IsZero())
	assert.True(t, d("1750").Equal(last.Employee))
	assert.True(t, d("3500").Equal(last.Employer))

	// Ordered and non-overlapping.
	for i := 1; i < len(table); i++ {
		assert.True(t, table[i].Min.GreaterThan(table[i-1].Min))
		if !table[i-1].Max.IsZero() {
			assert.True(t, table[i].Min.GreaterThan(table[i-1].Max))
		}
	}
}
