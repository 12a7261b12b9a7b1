package dto

// ── 学期模块 DTO ──

// CreateSemesterRequest 创建学期请求
type CreateSemesterRequest struct {
	Name      string `json:"name"       binding:"required,min=1,max=100"`
	StartDate string `json:"start_date" binding:"required"` // "2026-09-01"
	EndDate   string `json:"end_date"   binding:"required"` // "2027-01-15"
}

// UpdateSemesterRequest 更新学期请求
type UpdateSemesterRequest struct {
	Name      *string `json:"name"       binding:"omitempty,min=1,max=100"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

// ReorderSemestersRequest 学期重排序请求
// SemesterIDs 必须恰好为当前用户全部学期 ID 的一个排列，按新顺序给出
type ReorderSemestersRequest struct {
	SemesterIDs []string `json:"semester_ids" binding:"required,min=1,dive,uuid"`
}

// SemesterResponse 学期信息响应
type SemesterResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	SortOrder int    `json:"sort_order"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
