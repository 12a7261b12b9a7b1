package model

import "time"

// DayOverride 日覆盖表 — 对应 day_overrides
// 每学期每日历日至多一条（唯一索引 semester_id + date）。
// Type 为空的记录同样有效：存在即抑制默认推导。
type DayOverride struct {
	DayOverrideID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"day_override_id"`
	SemesterID    string    `gorm:"type:uuid;not null"                             json:"semester_id"`
	UserID        string    `gorm:"type:uuid;not null"                             json:"user_id"`
	Date          time.Time `gorm:"type:date;not null"                             json:"date"`
	Type          string    `gorm:"type:varchar(10);not null;default:''"           json:"type"` // working | holiday | event | exam | break | ''
	Description   string    `gorm:"type:varchar(500);not null;default:''"          json:"description"`
	SoftDeleteModel

	// 关联
	Semester *Semester `gorm:"foreignKey:SemesterID;references:SemesterID" json:"semester,omitempty"`
}

// TableName 指定表名
func (DayOverride) TableName() string { return "day_overrides" }
