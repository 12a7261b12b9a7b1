package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User        UserRepository
	Semester    SemesterRepository
	DayOverride DayOverrideRepository

	db *gorm.DB
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:        NewUserRepo(db),
		Semester:    NewSemesterRepo(db),
		DayOverride: NewDayOverrideRepo(db),
		db:          db,
	}
}

// BeginTx 开启数据库事务。无底层连接时（单元测试 Mock 场景）返回 nil。
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx 返回绑定到指定事务的 Repository 聚合。tx 为 nil 时返回自身。
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{
		User:        NewUserRepo(tx),
		Semester:    NewSemesterRepo(tx),
		DayOverride: NewDayOverrideRepo(tx),
		db:          tx,
	}
}
