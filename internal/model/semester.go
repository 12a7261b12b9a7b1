package model

import "time"

// Semester 学期表 — 对应 semesters
// SortOrder 为同一用户下密集的零基显示顺序，新建时追加到末尾
type Semester struct {
	SemesterID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"semester_id"`
	UserID     string    `gorm:"type:uuid;not null"                             json:"user_id"`
	Name       string    `gorm:"type:varchar(100);not null"                     json:"name"`
	StartDate  time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate    time.Time `gorm:"type:date;not null"                             json:"end_date"`
	SortOrder  int       `gorm:"not null;default:0"                             json:"sort_order"`
	VersionedModel
}

// TableName 指定表名
func (Semester) TableName() string { return "semesters" }
