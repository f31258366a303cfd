package attendance

import (
	"context"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	FindByEmployeeAndRange(ctx context.Context, employeeID string, start, end time.Time) ([]AttendanceRecord, error)
	FindBreakdowns(ctx context.Context, employeeID string, start, end time.Time) ([]AttendanceRecord, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByEmployeeAndRange(
	ctx context.Context,
	employeeID string,
	start, end time.Time,
) ([]AttendanceRecord, error) {
	var records []AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("work_date BETWEEN ? AND ?", start, end).
		Order("work_date ASC").
		Find(&records).Error
	return records, err
}

func (r *repository) FindBreakdowns(
	ctx context.Context,
	employeeID string,
	start, end time.Time,
) ([]AttendanceRecord, error) {
	var records []AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("work_date BETWEEN ? AND ?", start, end).
		Where("breakdown IS NOT NULL").
		Order("work_date ASC").
		Find(&records).Error
	return records, err
}
