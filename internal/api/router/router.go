package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chintukotti/semester-track/config"
	"github.com/chintukotti/semester-track/internal/api/handler"
	"github.com/chintukotti/semester-track/internal/api/middleware"
	"github.com/chintukotti/semester-track/pkg/jwt"
	"github.com/chintukotti/semester-track/pkg/redis"
)

// maxBodyBytes 全局请求体上限（1MB）
const maxBodyBytes = 1 << 20

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；注册/登录限流防爆破）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Register)
			auth.POST("/login", middleware.RateLimit(rdb, 20, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 学期模块
			semesters := authorized.Group("/semesters")
			{
				semesters.GET("", h.Semester.ListSemesters)
				semesters.POST("", h.Semester.CreateSemester)
				semesters.PUT("/reorder", h.Semester.ReorderSemesters)
				semesters.GET("/:id", h.Semester.GetSemester)
				semesters.PUT("/:id", h.Semester.UpdateSemester)
				semesters.DELETE("/:id", h.Semester.DeleteSemester)

				// 日历视图与日覆盖
				semesters.GET("/:id/days", h.Day.GetDays)
				semesters.GET("/:id/stats", h.Day.GetStats)
				semesters.GET("/:id/overrides", h.Day.ListOverrides)
				semesters.PUT("/:id/days", h.Day.UpsertDay)
				semesters.PUT("/:id/days/batch", h.Day.BatchUpsertDays)
			}
		}
	}

	return r
}
