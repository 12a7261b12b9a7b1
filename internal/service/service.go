package service

import (
	"go.uber.org/zap"

	"github.com/chintukotti/semester-track/config"
	"github.com/chintukotti/semester-track/internal/repository"
	"github.com/chintukotti/semester-track/pkg/jwt"
	"github.com/chintukotti/semester-track/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth     AuthService
	Semester SemesterService
	Day      DayService
	Tracker  TrackerService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:     NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Semester: NewSemesterService(repo, logger),
		Day:      NewDayService(repo, logger),
		Tracker:  NewTrackerService(repo, logger),
	}
}
