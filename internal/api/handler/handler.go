package handler

import "github.com/chintukotti/semester-track/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth     *AuthHandler
	Semester *SemesterHandler
	Day      *DayHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(svc.Auth),
		Semester: NewSemesterHandler(svc.Semester),
		Day:      NewDayHandler(svc.Day, svc.Tracker),
	}
}
