package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/chintukotti/semester-track/internal/model"
	pkgerrors "github.com/chintukotti/semester-track/pkg/errors"
)

// SemesterRepository 学期数据访问接口
// 所有查询均以 userID 过滤，跨用户访问表现为 gorm.ErrRecordNotFound
type SemesterRepository interface {
	Create(ctx context.Context, semester *model.Semester) error
	GetByID(ctx context.Context, id, userID string) (*model.Semester, error)
	GetByName(ctx context.Context, userID, name string) (*model.Semester, error)
	ListByUser(ctx context.Context, userID string) ([]model.Semester, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	Update(ctx context.Context, semester *model.Semester) error
	UpdateSortOrder(ctx context.Context, id, userID string, sortOrder int) error
	Delete(ctx context.Context, id, deletedBy string) error
}

type semesterRepo struct {
	db *gorm.DB
}

// NewSemesterRepo 创建 SemesterRepository 实例
func NewSemesterRepo(db *gorm.DB) SemesterRepository {
	return &semesterRepo{db: db}
}

func (r *semesterRepo) Create(ctx context.Context, semester *model.Semester) error {
	return r.db.WithContext(ctx).Create(semester).Error
}

func (r *semesterRepo) GetByID(ctx context.Context, id, userID string) (*model.Semester, error) {
	var semester model.Semester
	err := r.db.WithContext(ctx).
		Where("semester_id = ? AND user_id = ?", id, userID).
		First(&semester).Error
	if err != nil {
		return nil, err
	}
	return &semester, nil
}

// GetByName 按名称查询（不区分大小写），用于重名校验
func (r *semesterRepo) GetByName(ctx context.Context, userID, name string) (*model.Semester, error) {
	var semester model.Semester
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND lower(name) = lower(?)", userID, name).
		First(&semester).Error
	if err != nil {
		return nil, err
	}
	return &semester, nil
}

func (r *semesterRepo) ListByUser(ctx context.Context, userID string) ([]model.Semester, error) {
	var semesters []model.Semester
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sort_order ASC").
		Find(&semesters).Error
	return semesters, err
}

func (r *semesterRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Semester{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// Update 带乐观锁的整体更新：版本不匹配返回 ErrOptimisticLock
func (r *semesterRepo) Update(ctx context.Context, semester *model.Semester) error {
	res := r.db.WithContext(ctx).
		Model(&model.Semester{}).
		Where("semester_id = ? AND version = ?", semester.SemesterID, semester.Version).
		Updates(map[string]interface{}{
			"name":       semester.Name,
			"start_date": semester.StartDate,
			"end_date":   semester.EndDate,
			"sort_order": semester.SortOrder,
			"updated_by": semester.UpdatedBy,
			"updated_at": gorm.Expr("NOW()"),
			"version":    semester.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	semester.Version++
	return nil
}

func (r *semesterRepo) UpdateSortOrder(ctx context.Context, id, userID string, sortOrder int) error {
	return r.db.WithContext(ctx).
		Model(&model.Semester{}).
		Where("semester_id = ? AND user_id = ?", id, userID).
		Update("sort_order", sortOrder).Error
}

func (r *semesterRepo) Delete(ctx context.Context, id, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Semester{}).
		Where("semester_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
