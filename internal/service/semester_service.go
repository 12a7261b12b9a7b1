package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chintukotti/semester-track/internal/calendar"
	"github.com/chintukotti/semester-track/internal/dto"
	"github.com/chintukotti/semester-track/internal/model"
	"github.com/chintukotti/semester-track/internal/repository"
)

// ── 学期模块业务错误 ──

var (
	ErrSemesterNotFound       = errors.New("学期不存在")
	ErrSemesterNameInvalid    = errors.New("学期名称不能为空")
	ErrSemesterNameTaken      = errors.New("同名学期已存在")
	ErrSemesterDateInvalid    = errors.New("学期结束日期必须晚于开始日期")
	ErrSemesterReorderInvalid = errors.New("排序列表必须为当前用户全部学期的一个排列")
)

// SemesterService 学期业务接口
type SemesterService interface {
	Create(ctx context.Context, req *dto.CreateSemesterRequest, callerID string) (*dto.SemesterResponse, error)
	GetByID(ctx context.Context, id, callerID string) (*dto.SemesterResponse, error)
	List(ctx context.Context, callerID string) ([]dto.SemesterResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateSemesterRequest, callerID string) (*dto.SemesterResponse, error)
	Reorder(ctx context.Context, req *dto.ReorderSemestersRequest, callerID string) ([]dto.SemesterResponse, error)
	Delete(ctx context.Context, id, callerID string) error
}

type semesterService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSemesterService 创建 SemesterService 实例
func NewSemesterService(repo *repository.Repository, logger *zap.Logger) SemesterService {
	return &semesterService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *semesterService) Create(ctx context.Context, req *dto.CreateSemesterRequest, callerID string) (*dto.SemesterResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrSemesterNameInvalid
	}

	startDate, err := calendar.ParseDate(req.StartDate)
	if err != nil {
		return nil, ErrSemesterDateInvalid
	}
	endDate, err := calendar.ParseDate(req.EndDate)
	if err != nil {
		return nil, ErrSemesterDateInvalid
	}
	if !endDate.After(startDate) {
		return nil, ErrSemesterDateInvalid
	}

	// 同一用户下不允许重名（不区分大小写）
	if err := s.checkNameAvailable(ctx, callerID, name, ""); err != nil {
		return nil, err
	}

	// 新学期追加到末尾：顺序号 = 当前学期数
	count, err := s.repo.Semester.CountByUser(ctx, callerID)
	if err != nil {
		s.logger.Error("统计学期数失败", zap.Error(err))
		return nil, err
	}

	semester := &model.Semester{
		UserID:    callerID,
		Name:      name,
		StartDate: startDate,
		EndDate:   endDate,
		SortOrder: int(count),
	}
	semester.CreatedBy = &callerID
	semester.UpdatedBy = &callerID

	if err := s.repo.Semester.Create(ctx, semester); err != nil {
		s.logger.Error("创建学期失败", zap.Error(err))
		return nil, err
	}

	return toSemesterResponse(semester), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *semesterService) GetByID(ctx context.Context, id, callerID string) (*dto.SemesterResponse, error) {
	semester, err := s.getOwned(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	return toSemesterResponse(semester), nil
}

// ────────────────────── List ──────────────────────

func (s *semesterService) List(ctx context.Context, callerID string) ([]dto.SemesterResponse, error) {
	semesters, err := s.repo.Semester.ListByUser(ctx, callerID)
	if err != nil {
		s.logger.Error("列出学期失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SemesterResponse, 0, len(semesters))
	for i := range semesters {
		result = append(result, *toSemesterResponse(&semesters[i]))
	}

	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *semesterService) Update(ctx context.Context, id string, req *dto.UpdateSemesterRequest, callerID string) (*dto.SemesterResponse, error) {
	semester, err := s.getOwned(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrSemesterNameInvalid
		}
		if !strings.EqualFold(name, semester.Name) {
			if err := s.checkNameAvailable(ctx, callerID, name, semester.SemesterID); err != nil {
				return nil, err
			}
		}
		semester.Name = name
	}
	if req.StartDate != nil {
		startDate, err := calendar.ParseDate(*req.StartDate)
		if err != nil {
			return nil, ErrSemesterDateInvalid
		}
		semester.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := calendar.ParseDate(*req.EndDate)
		if err != nil {
			return nil, ErrSemesterDateInvalid
		}
		semester.EndDate = endDate
	}
	if !semester.EndDate.After(semester.StartDate) {
		return nil, ErrSemesterDateInvalid
	}

	semester.UpdatedBy = &callerID

	if err := s.repo.Semester.Update(ctx, semester); err != nil {
		s.logger.Error("更新学期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toSemesterResponse(semester), nil
}

// ────────────────────── Reorder ──────────────────────

// Reorder 按给定顺序整体重排当前用户的学期，顺序号重新密集分配为 0..n-1
func (s *semesterService) Reorder(ctx context.Context, req *dto.ReorderSemestersRequest, callerID string) ([]dto.SemesterResponse, error) {
	semesters, err := s.repo.Semester.ListByUser(ctx, callerID)
	if err != nil {
		s.logger.Error("列出学期失败", zap.Error(err))
		return nil, err
	}

	// 请求必须恰好是当前全部学期 ID 的一个排列
	if len(req.SemesterIDs) != len(semesters) {
		return nil, ErrSemesterReorderInvalid
	}
	owned := make(map[string]bool, len(semesters))
	for i := range semesters {
		owned[semesters[i].SemesterID] = true
	}
	seen := make(map[string]bool, len(req.SemesterIDs))
	for _, id := range req.SemesterIDs {
		if !owned[id] || seen[id] {
			return nil, ErrSemesterReorderInvalid
		}
		seen[id] = true
	}

	// 事务内批量重分配顺序号
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
	for i, id := range req.SemesterIDs {
		if err := txRepo.Semester.UpdateSortOrder(ctx, id, callerID, i); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("更新学期顺序失败", zap.String("id", id), zap.Error(err))
			return nil, err
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	return s.List(ctx, callerID)
}

// ────────────────────── Delete ──────────────────────

// Delete 删除学期并级联删除其全部日覆盖记录，随后压缩剩余学期的顺序号
func (s *semesterService) Delete(ctx context.Context, id, callerID string) error {
	if _, err := s.getOwned(ctx, id, callerID); err != nil {
		return err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return err
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

	if err := txRepo.DayOverride.DeleteBySemester(ctx, id, callerID); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("级联删除日覆盖失败", zap.String("semester_id", id), zap.Error(err))
		return err
	}

	if err := txRepo.Semester.Delete(ctx, id, callerID); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("删除学期失败", zap.String("id", id), zap.Error(err))
		return err
	}

	// 顺序号重新压缩为 0..n-1，保证后续创建（顺序号 = 当前学期数）不产生重复
	remaining, err := txRepo.Semester.ListByUser(ctx, callerID)
	if err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("列出学期失败", zap.Error(err))
		return err
	}
	for i := range remaining {
		if remaining[i].SortOrder == i {
			continue
		}
		if err := txRepo.Semester.UpdateSortOrder(ctx, remaining[i].SemesterID, callerID, i); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("更新学期顺序失败", zap.String("id", remaining[i].SemesterID), zap.Error(err))
			return err
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return err
		}
	}

	return nil
}

// ── 内部辅助方法 ──

// getOwned 查询学期并校验归属，跨用户访问一律报不存在
func (s *semesterService) getOwned(ctx context.Context, id, callerID string) (*model.Semester, error) {
	semester, err := s.repo.Semester.GetByID(ctx, id, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return semester, nil
}

func (s *semesterService) checkNameAvailable(ctx context.Context, userID, name, excludeID string) error {
	existing, err := s.repo.Semester.GetByName(ctx, userID, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("查询学期失败", zap.String("name", name), zap.Error(err))
		return err
	}
	if existing.SemesterID != excludeID {
		return ErrSemesterNameTaken
	}
	return nil
}

func toSemesterResponse(semester *model.Semester) *dto.SemesterResponse {
	return &dto.SemesterResponse{
		ID:        semester.SemesterID,
		Name:      semester.Name,
		StartDate: calendar.FormatDate(semester.StartDate),
		EndDate:   calendar.FormatDate(semester.EndDate),
		SortOrder: semester.SortOrder,
		CreatedAt: semester.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: semester.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
