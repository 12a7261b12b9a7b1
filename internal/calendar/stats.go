package calendar

import (
	"math"
	"time"
)

// Stats 学期统计。
// 注意 DaysPassed / RemainingDays 在边界日上的不对称是有意的：
// "今天"只计入 DaysPassed，不计入 RemainingDays。
type Stats struct {
	Total         int `json:"total"`
	Working       int `json:"working"`
	Holiday       int `json:"holiday"`
	Event         int `json:"event"`
	Exam          int `json:"exam"`
	Break         int `json:"break"`
	DaysPassed    int `json:"days_passed"`
	RemainingDays int `json:"remaining_days"`
	Progress      int `json:"progress"` // [0, 100]
}

// Aggregate 在 Materialize 的输出上聚合统计。
// 空白日（类型未设置）不计入任何类型计数。
func Aggregate(days []Day, start, end, reference time.Time) Stats {
	start = DateOnly(start)
	end = DateOnly(end)
	reference = DateOnly(reference)

	stats := Stats{Total: len(days)}

	for _, d := range days {
		switch d.Type {
		case DayTypeWorking:
			stats.Working++
		case DayTypeHoliday:
			stats.Holiday++
		case DayTypeEvent:
			stats.Event++
		case DayTypeExam:
			stats.Exam++
		case DayTypeBreak:
			stats.Break++
		}
	}

	switch {
	case reference.After(end):
		stats.DaysPassed = stats.Total
		stats.RemainingDays = 0
	case reference.Before(start):
		stats.DaysPassed = 0
		stats.RemainingDays = stats.Total
	default:
		stats.DaysPassed = DaysBetween(start, reference) + 1
		stats.RemainingDays = DaysBetween(reference, end)
	}

	if stats.Total > 0 {
		progress := int(math.Round(float64(stats.DaysPassed) * 100 / float64(stats.Total)))
		if progress < 0 {
			progress = 0
		}
		if progress > 100 {
			progress = 100
		}
		stats.Progress = progress
	}

	return stats
}
