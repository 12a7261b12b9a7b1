package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/chintukotti/semester-track/internal/dto"
	"github.com/chintukotti/semester-track/internal/service"
	"github.com/chintukotti/semester-track/pkg/response"
)

// DayHandler 日覆盖与学期日历视图 HTTP 处理器
type DayHandler struct {
	daySvc     service.DayService
	trackerSvc service.TrackerService
}

// NewDayHandler 创建 DayHandler
func NewDayHandler(daySvc service.DayService, trackerSvc service.TrackerService) *DayHandler {
	return &DayHandler{daySvc: daySvc, trackerSvc: trackerSvc}
}

// GetDays 获取学期全量逐日视图（默认推导 + 覆盖合并后的结果）
// GET /api/v1/semesters/:id/days
func (h *DayHandler) GetDays(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "学期ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.trackerSvc.GetDays(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleDayError(c, err)
		return
	}

	response.OK(c, result)
}

// GetStats 获取学期统计
// GET /api/v1/semesters/:id/stats
func (h *DayHandler) GetStats(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "学期ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.trackerSvc.GetStats(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleDayError(c, err)
		return
	}

	response.OK(c, result)
}

// ListOverrides 获取学期全部日覆盖记录
// GET /api/v1/semesters/:id/overrides
func (h *DayHandler) ListOverrides(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "学期ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	overrides, err := h.daySvc.ListOverrides(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleDayError(c, err)
		return
	}

	response.OK(c, gin.H{"list": overrides})
}

// UpsertDay 设置某日分类（存在则更新）
// PUT /api/v1/semesters/:id/days
func (h *DayHandler) UpsertDay(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "学期ID不能为空")
		return
	}

	var req dto.UpsertDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.daySvc.Upsert(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleDayError(c, err)
		return
	}

	response.OK(c, result)
}

// BatchUpsertDays 批量设置多日分类（多选编辑）
// PUT /api/v1/semesters/:id/days/batch
func (h *DayHandler) BatchUpsertDays(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "学期ID不能为空")
		return
	}

	var req dto.BatchUpsertDaysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.daySvc.BatchUpsert(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleDayError(c, err)
		return
	}

	response.OK(c, gin.H{"list": result})
}

// handleDayError 统一处理日覆盖模块业务错误
func (h *DayHandler) handleDayError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSemesterNotFound):
		response.NotFound(c, 14001, "学期不存在")
	case errors.Is(err, service.ErrDayDateInvalid):
		response.BadRequest(c, 15001, "无效的日期")
	default:
		response.InternalError(c)
	}
}
