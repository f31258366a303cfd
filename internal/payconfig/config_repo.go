package payconfig

import (
	"context"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=config_repo.go -destination=mock/config_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindActiveAt(ctx context.Context, asOf time.Time) ([]PayrollConfiguration, error)
	FindByTypeAndKey(ctx context.Context, configType, configKey string, asOf time.Time) (*PayrollConfiguration, error)
	FindByType(ctx context.Context, configType string, asOf time.Time) ([]PayrollConfiguration, error)
	ExpireEntry(ctx context.Context, id string, expiryDate time.Time) error
	Insert(ctx context.Context, entry *PayrollConfiguration) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func activeAt(asOf time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Where("is_active = ?", true).
			Where("effective_date <= ?", asOf).
			Where("expiry_date IS NULL OR expiry_date > ?", asOf)
	}
}

func (r *repository) FindActiveAt(ctx context.Context, asOf time.Time) ([]PayrollConfiguration, error) {
	var entries []PayrollConfiguration
	err := r.db.WithContext(ctx).
		Scopes(activeAt(asOf)).
		Order("config_type ASC, config_key ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) FindByTypeAndKey(
	ctx context.Context,
	configType, configKey string,
	asOf time.Time,
) (*PayrollConfiguration, error) {
	var entry PayrollConfiguration
	err := r.db.WithContext(ctx).
		Scopes(activeAt(asOf)).
		Where("config_type = ? AND config_key = ?", configType, configKey).
		Order("effective_date DESC").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) FindByType(
	ctx context.Context,
	configType string,
	asOf time.Time,
) ([]PayrollConfiguration, error) {
	var entries []PayrollConfiguration
	err := r.db.WithContext(ctx).
		Scopes(activeAt(asOf)).
		Where("config_type = ?", configType).
		Order("config_key ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) ExpireEntry(ctx context.Context, id string, expiryDate time.Time) error {
	return r.db.WithContext(ctx).
		Model(&PayrollConfiguration{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_active":   false,
			"expiry_date": expiryDate,
		}).Error
}

func (r *repository) Insert(ctx context.Context, entry *PayrollConfiguration) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
