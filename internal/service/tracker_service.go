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

// TrackerService 学期日历视图业务接口
// 将学期与其日覆盖记录交给 calendar 包物化，"今天"在此边界注入
type TrackerService interface {
	GetDays(ctx context.Context, semesterID, callerID string) (*dto.SemesterDaysResponse, error)
	GetStats(ctx context.Context, semesterID, callerID string) (*dto.SemesterStatsResponse, error)
}

type trackerService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time // 测试中可替换
}

// NewTrackerService 创建 TrackerService 实例
func NewTrackerService(repo *repository.Repository, logger *zap.Logger) TrackerService {
	return &trackerService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── GetDays ──────────────────────

func (s *trackerService) GetDays(ctx context.Context, semesterID, callerID string) (*dto.SemesterDaysResponse, error) {
	semester, days, err := s.materialize(ctx, semesterID, callerID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.DayResponse, 0, len(days))
	for _, d := range days {
		result = append(result, dto.DayResponse{
			Date:        calendar.FormatDate(d.Date),
			Type:        string(d.Type),
			Description: d.Description,
			OverrideID:  d.OverrideID,
		})
	}

	return &dto.SemesterDaysResponse{
		SemesterID: semester.SemesterID,
		Days:       result,
	}, nil
}

// ────────────────────── GetStats ──────────────────────

func (s *trackerService) GetStats(ctx context.Context, semesterID, callerID string) (*dto.SemesterStatsResponse, error) {
	semester, days, err := s.materialize(ctx, semesterID, callerID)
	if err != nil {
		return nil, err
	}

	stats := calendar.Aggregate(days, semester.StartDate, semester.EndDate, s.now())

	return &dto.SemesterStatsResponse{
		SemesterID: semester.SemesterID,
		Stats:      stats,
	}, nil
}

// ── 内部辅助方法 ──

// materialize 加载学期与覆盖记录的一致性快照并展开为逐日序列
func (s *trackerService) materialize(ctx context.Context, semesterID, callerID string) (*model.Semester, []calendar.Day, error) {
	semester, err := s.repo.Semester.GetByID(ctx, semesterID, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.String("id", semesterID), zap.Error(err))
		return nil, nil, err
	}

	records, err := s.repo.DayOverride.ListBySemester(ctx, semesterID)
	if err != nil {
		s.logger.Error("列出日覆盖失败", zap.String("semester_id", semesterID), zap.Error(err))
		return nil, nil, err
	}

	overrides := make([]calendar.Override, 0, len(records))
	for i := range records {
		overrides = append(overrides, calendar.Override{
			ID:          records[i].DayOverrideID,
			Date:        records[i].Date,
			Type:        calendar.DayType(records[i].Type),
			Description: records[i].Description,
			UpdatedAt:   records[i].UpdatedAt,
		})
	}

	days, err := calendar.Materialize(semester.StartDate, semester.EndDate, overrides, s.now())
	if err != nil {
		s.logger.Error("物化学期日历失败", zap.String("semester_id", semesterID), zap.Error(err))
		return nil, nil, err
	}

	return semester, days, nil
}
