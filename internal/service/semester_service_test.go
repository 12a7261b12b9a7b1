package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/chintukotti/semester-track/internal/dto"
	"github.com/chintukotti/semester-track/internal/model"
)

// ── 测试辅助 ──

func setupTestSemesterService() (SemesterService, *mockSemesterRepo, *mockDayOverrideRepo) {
	repo, semesterRepo, overrideRepo, _ := newMockRepository()
	svc := NewSemesterService(repo, zap.NewNop())
	return svc, semesterRepo, overrideRepo
}

func seedSemester(repo *mockSemesterRepo, id, userID, name string, sortOrder int) {
	repo.seq++
	repo.semesters[id] = &model.Semester{
		SemesterID: id,
		UserID:     userID,
		Name:       name,
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
		SortOrder:  sortOrder,
	}
}

// ── Create 测试 ──

func TestSemesterService_Create_Success(t *testing.T) {
	svc, _, _ := setupTestSemesterService()

	req := &dto.CreateSemesterRequest{
		Name:      "Fall 2024",
		StartDate: "2024-09-01",
		EndDate:   "2024-12-20",
	}

	result, err := svc.Create(context.Background(), req, "user-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.Name != "Fall 2024" {
		t.Errorf("期望Name=Fall 2024，实际=%s", result.Name)
	}
	if result.SortOrder != 0 {
		t.Errorf("首个学期顺序号应为 0，实际=%d", result.SortOrder)
	}
	if result.StartDate != "2024-09-01" || result.EndDate != "2024-12-20" {
		t.Errorf("日期应原样回显，实际 start=%s end=%s", result.StartDate, result.EndDate)
	}
}

func TestSemesterService_Create_AppendsToEnd(t *testing.T) {
	svc, _, _ := setupTestSemesterService()

	first := &dto.CreateSemesterRequest{Name: "Fall 2024", StartDate: "2024-09-01", EndDate: "2024-12-20"}
	if _, err := svc.Create(context.Background(), first, "user-001"); err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	second := &dto.CreateSemesterRequest{Name: "Spring 2025", StartDate: "2025-01-15", EndDate: "2025-05-30"}
	result, err := svc.Create(context.Background(), second, "user-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.SortOrder != 1 {
		t.Errorf("第二个学期顺序号应为 1（追加到末尾），实际=%d", result.SortOrder)
	}

	// 其他用户的学期不影响顺序号分配
	other, err := svc.Create(context.Background(), &dto.CreateSemesterRequest{
		Name: "Fall 2024", StartDate: "2024-09-01", EndDate: "2024-12-20",
	}, "user-002")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if other.SortOrder != 0 {
		t.Errorf("不同用户首个学期顺序号应为 0，实际=%d", other.SortOrder)
	}
}

func TestSemesterService_Create_NameTrimmedAndValidated(t *testing.T) {
	svc, _, _ := setupTestSemesterService()

	result, err := svc.Create(context.Background(), &dto.CreateSemesterRequest{
		Name: "  Fall 2024  ", StartDate: "2024-09-01", EndDate: "2024-12-20",
	}, "user-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.Name != "Fall 2024" {
		t.Errorf("名称应去除首尾空白，实际=%q", result.Name)
	}

	_, err = svc.Create(context.Background(), &dto.CreateSemesterRequest{
		Name: "   ", StartDate: "2024-09-01", EndDate: "2024-12-20",
	}, "user-001")
	if !errors.Is(err, ErrSemesterNameInvalid) {
		t.Errorf("期望 ErrSemesterNameInvalid，实际: %v", err)
	}
}

func TestSemesterService_Create_DuplicateName(t *testing.T) {
	svc, semesterRepo, _ := setupTestSemesterService()
	seedSemester(semesterRepo, "sem-001", "user-001", "Fall 2024", 0)

	// 重名校验不区分大小写
	_, err := svc.Create(context.Background(), &dto.CreateSemesterRequest{
		Name: "FALL 2024", StartDate: "2024-09-01", EndDate: "2024-12-20",
	}, "user-001")
	if !errors.Is(err, ErrSemesterNameTaken) {
		t.Errorf("期望 ErrSemesterNameTaken，实际: %v", err)
	}

	// 不同用户允许同名
	if _, err := svc.Create(context.Background(), &dto.CreateSemesterRequest{
		Name: "Fall 2024", StartDate: "2024-09-01", EndDate: "2024-12-20",
	}, "user-002"); err != nil {
		t.Errorf("不同用户同名应成功: %v", err)
	}
}

func TestSemesterService_Create_InvalidDate(t *testing.T) {
	svc, _, _ := setupTestSemesterService()

	// 结束日期早于开始日期
	_, err := svc.Create(context.Background(), &dto.CreateSemesterRequest{
		Name: "Fall 2024", StartDate: "2024-12-20", EndDate: "2024-09-01",
	}, "user-001")
	if !errors.Is(err, ErrSemesterDateInvalid) {
		t.Errorf("期望 ErrSemesterDateInvalid，实际: %v", err)
	}

	// 开始等于结束也不允许（创建约束为严格小于）
	_, err = svc.Create(context.Background(), &dto.CreateSemesterRequest{
		Name: "Fall 2024", StartDate: "2024-09-01", EndDate: "2024-09-01",
	}, "user-001")
	if !errors.Is(err, ErrSemesterDateInvalid) {
		t.Errorf("期望 ErrSemesterDateInvalid，实际: %v", err)
	}

	_, err = svc.Create(context.Background(), &dto.CreateSemesterRequest{
		Name: "Fall 2024", StartDate: "invalid-date", EndDate: "2024-12-20",
	}, "user-001")
	if !errors.Is(err, ErrSemesterDateInvalid) {
		t.Errorf("期望 ErrSemesterDateInvalid，实际: %v", err)
	}
}

// ── GetByID 测试 ──

func TestSemesterService_GetByID_Success(t *testing.T) {
	svc, semesterRepo, _ := setupTestSemesterService()
	seedSemester(semesterRepo, "sem-001", "user-001", "Fall 2024", 0)

	result, err := svc.GetByID(context.Background(), "sem-001", "user-001")
	if err != nil {
		t.Fatalf("GetByID 应成功: %v", err)
	}
	if result.Name != "Fall 2024" {
		t.Errorf("期望Name=Fall 2024，实际=%s", result.Name)
	}
}

func TestSemesterService_GetByID_NotFound(t *testing.T) {
	svc, semesterRepo, _ := setupTestSemesterService()
	seedSemester(semesterRepo, "sem-001", "user-001", "Fall 2024", 0)

	if _, err := svc.GetByID(context.Background(), "nonexistent", "user-001"); !errors.Is(err, ErrSemesterNotFound) {
		t.Errorf("期望 ErrSemesterNotFound，实际: %v", err)
	}

	// 跨用户访问同样表现为不存在
	if _, err := svc.GetByID(context.Background(), "sem-001", "user-002"); !errors.Is(err, ErrSemesterNotFound) {
		t.Errorf("跨用户访问期望 ErrSemesterNotFound，实际: %v", err)
	}
}

// ── List 测试 ──

func TestSemesterService_List_OrderedBySortOrder(t *testing.T) {
	svc, semesterRepo, _ := setupTestSemesterService()
	seedSemester(semesterRepo, "sem-001", "user-001", "Fall 2024", 1)
	seedSemester(semesterRepo, "sem-002", "user-001", "Spring 2024", 0)
	seedSemester(semesterRepo, "sem-003", "user-002", "Other", 0)

	result, err := svc.List(context.Background(), "user-001")
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("期望 2 个学期，实际 %d", len(result))
	}
	if result[0].ID != "sem-002" || result[1].ID != "sem-001" {
		t.Errorf("应按顺序号升序返回，实际 %s, %s", result[0].ID, result[1].ID)
	}
}

// ── Update 测试 ──

func TestSemesterService_Update_Success(t *testing.T) {
	svc, semesterRepo, _ := setupTestSemesterService()
	seedSemester(semesterRepo, "sem-001", "user-001", "Old Name", 0)

	newName := "New Name"
	newEnd := "2024-06-30"
	result, err := svc.Update(context.Background(), "sem-001", &dto.UpdateSemesterRequest{
		Name:    &newName,
		EndDate: &newEnd,
	}, "user-001")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.Name != "New Name" {
		t.Errorf("期望Name=New Name，实际=%s", result.Name)
	}
	if result.EndDate != "2024-06-30" {
		t.Errorf("期望EndDate=2024-06-30，实际=%s", result.EndDate)
	}
}

func TestSemesterService_Update_SameNameAllowed(t *testing.T) {
	// 改名为自己当前的名称（仅变大小写）不应触发重名错误
	svc, semesterRepo, _ := setupTestSemesterService()
	seedSemester(semesterRepo, "sem-001", "user-001", "Fall 2024", 0)

	newName := "fall 2024"
	if _, err := svc.Update(context.Background(), "sem-001", &dto.UpdateSemesterRequest{Name: &newName}, "user-001"); err != nil {
		t.Errorf("改变自身名称大小写应成功: %v", err)
	}
}

func TestSemesterService_Update_DuplicateName(t *testing.T) {
	svc, semesterRepo, _ := setupTestSemesterService()
	seedSemester(semesterRepo, "sem-001", "user-001", "Fall 2024", 0)
	seedSemester(semesterRepo, "sem-002", "user-001", "Spring 2025", 1)

	taken := "Fall 2024"
	_, err := svc.Update(context.Background(), "sem-002", &dto.UpdateSemesterRequest{Name: &taken}, "user-001")
	if !errors.Is(err, ErrSemesterNameTaken) {
		t.Errorf("期望 ErrSemesterNameTaken，实际: %v", err)
	}
}

func TestSemesterService_Update_InvalidRange(t *testing.T) {
	svc, semesterRepo, _ := setupTestSemesterService()
	seedSemester(semesterRepo, "sem-001", "user-001", "Fall 2024", 0)

	badStart := "2024-12-31"
	_, err := svc.Update(context.Background(), "sem-001", &dto.UpdateSemesterRequest{StartDate: &badStart}, "user-001")
	if !errors.Is(err, ErrSemesterDateInvalid) {
		t.Errorf("期望 ErrSemesterDateInvalid，实际: %v", err)
	}
}

func TestSemesterService_Update_NotFound(t *testing.T) {
	svc, _, _ := setupTestSemesterService()

	newName := "New Name"
	_, err := svc.Update(context.Background(), "nonexistent", &dto.UpdateSemesterRequest{Name: &newName}, "user-001")
	if !errors.Is(err, ErrSemesterNotFound) {
		t.Errorf("期望 ErrSemesterNotFound，实际: %v", err)
	}
}

// ── Reorder 测试 ──

func TestSemesterService_Reorder_Success(t *testing.T) {
	svc, semesterRepo, _ := setupTestSemesterService()
	seedSemester(semesterRepo, "sem-001", "user-001", "A", 0)
	seedSemester(semesterRepo, "sem-002", "user-001", "B", 1)
	seedSemester(semesterRepo, "sem-003", "user-001", "C", 2)

	result, err := svc.Reorder(context.Background(), &dto.ReorderSemestersRequest{
		SemesterIDs: []string{"sem-003", "sem-001", "sem-002"},
	}, "user-001")
	if err != nil {
		t.Fatalf("Reorder 应成功: %v", err)
	}

	if result[0].ID != "sem-003" || result[1].ID != "sem-001" || result[2].ID != "sem-002" {
		t.Errorf("返回顺序不符: %s, %s, %s", result[0].ID, result[1].ID, result[2].ID)
	}
	// 顺序号应重新密集分配为 0..n-1
	for i, r := range result {
		if r.SortOrder != i {
			t.Errorf("第 %d 项顺序号期望 %d，实际 %d", i, i, r.SortOrder)
		}
	}
}

func TestSemesterService_Reorder_Invalid(t *testing.T) {
	svc, semesterRepo, _ := setupTestSemesterService()
	seedSemester(semesterRepo, "sem-001", "user-001", "A", 0)
	seedSemester(semesterRepo, "sem-002", "user-001", "B", 1)
	seedSemester(semesterRepo, "sem-999", "user-002", "Other", 0)

	cases := []struct {
		name string
		ids  []string
	}{
		{"数量不足", []string{"sem-001"}},
		{"包含他人学期", []string{"sem-001", "sem-999"}},
		{"重复 ID", []string{"sem-001", "sem-001"}},
		{"未知 ID", []string{"sem-001", "nonexistent"}},
	}
	for _, tc := range cases {
		if _, err := svc.Reorder(context.Background(), &dto.ReorderSemestersRequest{SemesterIDs: tc.ids}, "user-001"); !errors.Is(err, ErrSemesterReorderInvalid) {
			t.Errorf("%s: 期望 ErrSemesterReorderInvalid，实际: %v", tc.name, err)
		}
	}
}

// ── Delete 测试 ──

func TestSemesterService_Delete_CascadesOverrides(t *testing.T) {
	svc, semesterRepo, overrideRepo := setupTestSemesterService()
	seedSemester(semesterRepo, "sem-001", "user-001", "Fall 2024", 0)
	overrideRepo.overrides["ov-001"] = &model.DayOverride{
		DayOverrideID: "ov-001",
		SemesterID:    "sem-001",
		UserID:        "user-001",
		Date:          time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Type:          "exam",
	}
	overrideRepo.overrides["ov-002"] = &model.DayOverride{
		DayOverrideID: "ov-002",
		SemesterID:    "sem-other",
		UserID:        "user-001",
		Date:          time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC),
		Type:          "event",
	}

	if err := svc.Delete(context.Background(), "sem-001", "user-001"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}

	if _, ok := semesterRepo.semesters["sem-001"]; ok {
		t.Error("学期应已删除")
	}
	if _, ok := overrideRepo.overrides["ov-001"]; ok {
		t.Error("该学期的日覆盖应被级联删除")
	}
	if _, ok := overrideRepo.overrides["ov-002"]; !ok {
		t.Error("其他学期的日覆盖不应受影响")
	}
}

func TestSemesterService_Delete_CompactsSortOrder(t *testing.T) {
	// 删除中间的学期后顺序号重新压缩，后续创建不会产生重复顺序号
	svc, semesterRepo, _ := setupTestSemesterService()
	seedSemester(semesterRepo, "sem-001", "user-001", "A", 0)
	seedSemester(semesterRepo, "sem-002", "user-001", "B", 1)
	seedSemester(semesterRepo, "sem-003", "user-001", "C", 2)

	if err := svc.Delete(context.Background(), "sem-002", "user-001"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}

	result, err := svc.List(context.Background(), "user-001")
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("期望剩余 2 个学期，实际 %d", len(result))
	}
	for i, r := range result {
		if r.SortOrder != i {
			t.Errorf("第 %d 项顺序号期望 %d，实际 %d", i, i, r.SortOrder)
		}
	}

	created, err := svc.Create(context.Background(), &dto.CreateSemesterRequest{
		Name: "D", StartDate: "2024-09-01", EndDate: "2024-12-20",
	}, "user-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if created.SortOrder != 2 {
		t.Errorf("删除压缩后新学期顺序号应为 2，实际 %d", created.SortOrder)
	}
}

func TestSemesterService_Delete_NotFound(t *testing.T) {
	svc, _, _ := setupTestSemesterService()

	if err := svc.Delete(context.Background(), "nonexistent", "user-001"); !errors.Is(err, ErrSemesterNotFound) {
		t.Errorf("期望 ErrSemesterNotFound，实际: %v", err)
	}
}
