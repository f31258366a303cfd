package thirteenth

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=thirteenth_repo.go -destination=mock/thirteenth_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ExistsForYear(ctx context.Context, employeeID string, year int) (bool, error)
	FindByEmployeeAndYear(ctx context.Context, employeeID string, year int) (*ThirteenthMonthPay, error)
	Create(ctx context.Context, record *ThirteenthMonthPay) error
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

func (r *repository) ExistsForYear(ctx context.Context, employeeID string, year int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ThirteenthMonthPay{}).
		Where("employee_id = ? AND year = ?", employeeID, year).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindByEmployeeAndYear(ctx context.Context, employeeID string, year int) (*ThirteenthMonthPay, error) {
	var record ThirteenthMonthPay
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND year = ?", employeeID, year).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) Create(ctx context.Context, record *ThirteenthMonthPay) error {
	return r.db.WithContext(ctx).Create(record).Error
}
