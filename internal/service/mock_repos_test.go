package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/chintukotti/semester-track/internal/model"
	"github.com/chintukotti/semester-track/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%03d", m.seq)
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

// ── Mock SemesterRepository ──

type mockSemesterRepo struct {
	semesters map[string]*model.Semester
	seq       int
}

func newMockSemesterRepo() *mockSemesterRepo {
	return &mockSemesterRepo{semesters: make(map[string]*model.Semester)}
}

func (m *mockSemesterRepo) Create(_ context.Context, semester *model.Semester) error {
	if semester.SemesterID == "" {
		m.seq++
		semester.SemesterID = fmt.Sprintf("sem-%03d", m.seq)
	}
	if semester.Version == 0 {
		semester.Version = 1
	}
	semester.CreatedAt = time.Now()
	semester.UpdatedAt = time.Now()
	m.semesters[semester.SemesterID] = semester
	return nil
}

func (m *mockSemesterRepo) GetByID(_ context.Context, id, userID string) (*model.Semester, error) {
	if s, ok := m.semesters[id]; ok && s.UserID == userID {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) GetByName(_ context.Context, userID, name string) (*model.Semester, error) {
	for _, s := range m.semesters {
		if s.UserID == userID && strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) ListByUser(_ context.Context, userID string) ([]model.Semester, error) {
	var result []model.Semester
	for _, s := range m.semesters {
		if s.UserID == userID {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SortOrder < result[j].SortOrder })
	return result, nil
}

func (m *mockSemesterRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, s := range m.semesters {
		if s.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *mockSemesterRepo) Update(_ context.Context, semester *model.Semester) error {
	semester.Version++
	semester.UpdatedAt = time.Now()
	m.semesters[semester.SemesterID] = semester
	return nil
}

func (m *mockSemesterRepo) UpdateSortOrder(_ context.Context, id, userID string, sortOrder int) error {
	if s, ok := m.semesters[id]; ok && s.UserID == userID {
		s.SortOrder = sortOrder
	}
	return nil
}

func (m *mockSemesterRepo) Delete(_ context.Context, id, _ string) error {
	delete(m.semesters, id)
	return nil
}

// ── Mock DayOverrideRepository ──

type mockDayOverrideRepo struct {
	overrides map[string]*model.DayOverride
	seq       int
}

func newMockDayOverrideRepo() *mockDayOverrideRepo {
	return &mockDayOverrideRepo{overrides: make(map[string]*model.DayOverride)}
}

func (m *mockDayOverrideRepo) Create(_ context.Context, override *model.DayOverride) error {
	if override.DayOverrideID == "" {
		m.seq++
		override.DayOverrideID = fmt.Sprintf("ov-%03d", m.seq)
	}
	override.CreatedAt = time.Now()
	override.UpdatedAt = time.Now()
	m.overrides[override.DayOverrideID] = override
	return nil
}

func (m *mockDayOverrideRepo) GetByDate(_ context.Context, semesterID string, date time.Time) (*model.DayOverride, error) {
	for _, o := range m.overrides {
		if o.SemesterID == semesterID && o.Date.Equal(date) {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDayOverrideRepo) ListBySemester(_ context.Context, semesterID string) ([]model.DayOverride, error) {
	var result []model.DayOverride
	for _, o := range m.overrides {
		if o.SemesterID == semesterID {
			result = append(result, *o)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *mockDayOverrideRepo) Update(_ context.Context, override *model.DayOverride) error {
	override.UpdatedAt = time.Now()
	m.overrides[override.DayOverrideID] = override
	return nil
}

func (m *mockDayOverrideRepo) DeleteBySemester(_ context.Context, semesterID, _ string) error {
	for id, o := range m.overrides {
		if o.SemesterID == semesterID {
			delete(m.overrides, id)
		}
	}
	return nil
}

// ── 聚合构造 ──

func newMockRepository() (*repository.Repository, *mockSemesterRepo, *mockDayOverrideRepo, *mockUserRepo) {
	userRepo := newMockUserRepo()
	semesterRepo := newMockSemesterRepo()
	overrideRepo := newMockDayOverrideRepo()
	repo := &repository.Repository{
		User:        userRepo,
		Semester:    semesterRepo,
		DayOverride: overrideRepo,
	}
	return repo, semesterRepo, overrideRepo, userRepo
}
