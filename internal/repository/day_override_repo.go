package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/chintukotti/semester-track/internal/model"
)

// DayOverrideRepository 日覆盖数据访问接口
type DayOverrideRepository interface {
	Create(ctx context.Context, override *model.DayOverride) error
	GetByDate(ctx context.Context, semesterID string, date time.Time) (*model.DayOverride, error)
	ListBySemester(ctx context.Context, semesterID string) ([]model.DayOverride, error)
	Update(ctx context.Context, override *model.DayOverride) error
	DeleteBySemester(ctx context.Context, semesterID, deletedBy string) error
}

type dayOverrideRepo struct {
	db *gorm.DB
}

// NewDayOverrideRepo 创建 DayOverrideRepository 实例
func NewDayOverrideRepo(db *gorm.DB) DayOverrideRepository {
	return &dayOverrideRepo{db: db}
}

func (r *dayOverrideRepo) Create(ctx context.Context, override *model.DayOverride) error {
	return r.db.WithContext(ctx).Create(override).Error
}

func (r *dayOverrideRepo) GetByDate(ctx context.Context, semesterID string, date time.Time) (*model.DayOverride, error) {
	var override model.DayOverride
	err := r.db.WithContext(ctx).
		Where("semester_id = ? AND date = ?", semesterID, date).
		First(&override).Error
	if err != nil {
		return nil, err
	}
	return &override, nil
}

func (r *dayOverrideRepo) ListBySemester(ctx context.Context, semesterID string) ([]model.DayOverride, error) {
	var overrides []model.DayOverride
	err := r.db.WithContext(ctx).
		Where("semester_id = ?", semesterID).
		Order("date ASC").
		Find(&overrides).Error
	return overrides, err
}

func (r *dayOverrideRepo) Update(ctx context.Context, override *model.DayOverride) error {
	return r.db.WithContext(ctx).Save(override).Error
}

// DeleteBySemester 级联软删除：删除学期时清理其全部覆盖记录
func (r *dayOverrideRepo) DeleteBySemester(ctx context.Context, semesterID, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.DayOverride{}).
		Where("semester_id = ?", semesterID).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
