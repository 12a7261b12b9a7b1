package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chintukotti/semester-track/internal/calendar"
	"github.com/chintukotti/semester-track/internal/dto"
	"github.com/chintukotti/semester-track/internal/model"
	"github.com/chintukotti/semester-track/internal/repository"
)

// ── 日覆盖模块业务错误 ──

var ErrDayDateInvalid = errors.New("无效的日期")

// DayService 日覆盖业务接口
// 覆盖记录以 (semesterId, date) 为键：同一日历日重复设置表现为更新
type DayService interface {
	Upsert(ctx context.Context, semesterID string, req *dto.UpsertDayRequest, callerID string) (*dto.DayOverrideResponse, error)
	BatchUpsert(ctx context.Context, semesterID string, req *dto.BatchUpsertDaysRequest, callerID string) ([]dto.DayOverrideResponse, error)
	ListOverrides(ctx context.Context, semesterID, callerID string) ([]dto.DayOverrideResponse, error)
}

type dayService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDayService 创建 DayService 实例
func NewDayService(repo *repository.Repository, logger *zap.Logger) DayService {
	return &dayService{repo: repo, logger: logger}
}

// ────────────────────── Upsert ──────────────────────

func (s *dayService) Upsert(ctx context.Context, semesterID string, req *dto.UpsertDayRequest, callerID string) (*dto.DayOverrideResponse, error) {
	if err := s.checkSemesterOwned(ctx, semesterID, callerID); err != nil {
		return nil, err
	}

	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		return nil, ErrDayDateInvalid
	}

	override, err := s.upsertOne(ctx, s.repo, semesterID, date, req.Type, req.Description, callerID)
	if err != nil {
		return nil, err
	}

	return toDayOverrideResponse(override), nil
}

// ────────────────────── BatchUpsert ──────────────────────

// BatchUpsert 将同一类型/说明应用到多个日历日（多选编辑）。
// 所有日期先整体校验，任一非法则不产生任何写入。
func (s *dayService) BatchUpsert(ctx context.Context, semesterID string, req *dto.BatchUpsertDaysRequest, callerID string) ([]dto.DayOverrideResponse, error) {
	if err := s.checkSemesterOwned(ctx, semesterID, callerID); err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0, len(req.Dates))
	for _, raw := range req.Dates {
		date, err := calendar.ParseDate(raw)
		if err != nil {
			return nil, ErrDayDateInvalid
		}
		dates = append(dates, date)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	result := make([]dto.DayOverrideResponse, 0, len(dates))
	for _, date := range dates {
		override, err := s.upsertOne(ctx, txRepo, semesterID, date, req.Type, req.Description, callerID)
		if err != nil {
			if tx != nil {
				tx.Rollback()
			}
			return nil, err
		}
		result = append(result, *toDayOverrideResponse(override))
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	return result, nil
}

// ────────────────────── ListOverrides ──────────────────────

func (s *dayService) ListOverrides(ctx context.Context, semesterID, callerID string) ([]dto.DayOverrideResponse, error) {
	if err := s.checkSemesterOwned(ctx, semesterID, callerID); err != nil {
		return nil, err
	}

	overrides, err := s.repo.DayOverride.ListBySemester(ctx, semesterID)
	if err != nil {
		s.logger.Error("列出日覆盖失败", zap.String("semester_id", semesterID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.DayOverrideResponse, 0, len(overrides))
	for i := range overrides {
		result = append(result, *toDayOverrideResponse(&overrides[i]))
	}

	return result, nil
}

// ── 内部辅助方法 ──

func (s *dayService) checkSemesterOwned(ctx context.Context, semesterID, callerID string) error {
	if _, err := s.repo.Semester.GetByID(ctx, semesterID, callerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.String("id", semesterID), zap.Error(err))
		return err
	}
	return nil
}

// upsertOne 单日覆盖写入：存在则更新，不存在则创建
func (s *dayService) upsertOne(ctx context.Context, repo *repository.Repository, semesterID string, date time.Time, dayType, description, callerID string) (*model.DayOverride, error) {
	existing, err := repo.DayOverride.GetByDate(ctx, semesterID, date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询日覆盖失败", zap.String("semester_id", semesterID), zap.Error(err))
		return nil, err
	}

	if existing != nil {
		existing.Type = dayType
		existing.Description = description
		existing.UpdatedBy = &callerID
		if err := repo.DayOverride.Update(ctx, existing); err != nil {
			s.logger.Error("更新日覆盖失败", zap.String("id", existing.DayOverrideID), zap.Error(err))
			return nil, err
		}
		return existing, nil
	}

	override := &model.DayOverride{
		SemesterID:  semesterID,
		UserID:      callerID,
		Date:        date,
		Type:        dayType,
		Description: description,
	}
	override.CreatedBy = &callerID
	override.UpdatedBy = &callerID

	if err := repo.DayOverride.Create(ctx, override); err != nil {
		s.logger.Error("创建日覆盖失败", zap.String("semester_id", semesterID), zap.Error(err))
		return nil, err
	}

	return override, nil
}

func toDayOverrideResponse(override *model.DayOverride) *dto.DayOverrideResponse {
	return &dto.DayOverrideResponse{
		ID:          override.DayOverrideID,
		SemesterID:  override.SemesterID,
		Date:        calendar.FormatDate(override.Date),
		Type:        override.Type,
		Description: override.Description,
		UpdatedAt:   override.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
