package dto

import "github.com/chintukotti/semester-track/internal/calendar"

// ── 日覆盖 / 日历模块 DTO ──

// UpsertDayRequest 设置某日分类请求（存在则更新，不存在则创建）
// Type 为空表示显式清除分类（空白日），仍会写入覆盖记录
type UpsertDayRequest struct {
	Date        string `json:"date"        binding:"required"`
	Type        string `json:"type"        binding:"omitempty,oneof=working holiday event exam break"`
	Description string `json:"description" binding:"max=500"`
}

// BatchUpsertDaysRequest 批量设置多日分类请求（多选编辑）
type BatchUpsertDaysRequest struct {
	Dates       []string `json:"dates"       binding:"required,min=1,max=366"`
	Type        string   `json:"type"        binding:"omitempty,oneof=working holiday event exam break"`
	Description string   `json:"description" binding:"max=500"`
}

// DayOverrideResponse 日覆盖记录响应
type DayOverrideResponse struct {
	ID          string `json:"id"`
	SemesterID  string `json:"semester_id"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	Description string `json:"description"`
	UpdatedAt   string `json:"updated_at"`
}

// DayResponse 物化后的单日响应
// OverrideID 为空表示该日无覆盖记录（类型来自默认推导或为空白）
type DayResponse struct {
	Date        string `json:"date"`
	Type        string `json:"type"`
	Description string `json:"description"`
	OverrideID  string `json:"override_id,omitempty"`
}

// SemesterDaysResponse 学期全量逐日视图响应
type SemesterDaysResponse struct {
	SemesterID string        `json:"semester_id"`
	Days       []DayResponse `json:"days"`
}

// SemesterStatsResponse 学期统计响应
type SemesterStatsResponse struct {
	SemesterID string         `json:"semester_id"`
	Stats      calendar.Stats `json:"stats"`
}
