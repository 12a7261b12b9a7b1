// Package calendar 实现学期日历的纯推导核心：
// 将学期的日期区间展开为逐日记录（Materialize），并在其上聚合统计（Aggregate）。
// 本包不依赖任何存储或时钟，"今天"由调用方注入。
package calendar

import "time"

// ── 日类型 ──

// DayType 日历日的分类
type DayType string

const (
	DayTypeNone    DayType = ""        // 未设置（空白日）
	DayTypeWorking DayType = "working" // 工作日
	DayTypeHoliday DayType = "holiday" // 假日
	DayTypeEvent   DayType = "event"   // 活动日
	DayTypeExam    DayType = "exam"    // 考试日
	DayTypeBreak   DayType = "break"   // 假期
)

// Valid 判断是否为合法的日类型（含未设置）
func (t DayType) Valid() bool {
	switch t {
	case DayTypeNone, DayTypeWorking, DayTypeHoliday, DayTypeEvent, DayTypeExam, DayTypeBreak:
		return true
	}
	return false
}

// sundayDescription 周日默认假日的说明文本
const sundayDescription = "Sunday"

// ── 输入/输出类型 ──

// Override 用户对某个日历日的显式分类记录。
// Type 与 Description 同时为空的覆盖仍然有效：仅凭存在即可抑制默认推导。
type Override struct {
	ID          string
	Date        time.Time
	Type        DayType
	Description string
	UpdatedAt   time.Time
}

// Day 区间内某个日历日的完整解析结果（纯计算产物，不落库）
type Day struct {
	Date        time.Time
	Type        DayType
	Description string
	OverrideID  string // 为空表示该日无覆盖记录
}

// ── Materialize ──

// Materialize 将 [start, end]（含两端）展开为按日期升序的逐日记录。
//
// 每个日历日的解析规则：
//  1. 存在覆盖记录 → 类型/说明/ID 直接取自覆盖（覆盖永远优先，即使为空）；
//  2. 无覆盖且日期晚于 reference（未来日）→ 空白；
//  3. 无覆盖且日期不晚于 reference → 周日默认 holiday/"Sunday"，其余 working/""。
//
// 同一日历日存在多条覆盖时，取 UpdatedAt 最新者（相同则取 ID 较大者）。
// start 晚于 end 返回 ErrInvalidRange；任一日期为零值返回 ErrInvalidDate。
func Materialize(start, end time.Time, overrides []Override, reference time.Time) ([]Day, error) {
	if start.IsZero() || end.IsZero() || reference.IsZero() {
		return nil, ErrInvalidDate
	}

	start = DateOnly(start)
	end = DateOnly(end)
	reference = DateOnly(reference)

	if start.After(end) {
		return nil, ErrInvalidRange
	}

	// 覆盖记录按规范日期字符串索引，重复日期保留最近更新者
	index := make(map[string]Override, len(overrides))
	for _, o := range overrides {
		if o.Date.IsZero() {
			return nil, ErrInvalidDate
		}
		key := FormatDate(DateOnly(o.Date))
		cur, ok := index[key]
		if !ok || o.UpdatedAt.After(cur.UpdatedAt) ||
			(o.UpdatedAt.Equal(cur.UpdatedAt) && o.ID > cur.ID) {
			index[key] = o
		}
	}

	days := make([]Day, 0, DaysBetween(start, end)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if o, ok := index[FormatDate(d)]; ok {
			days = append(days, Day{
				Date:        d,
				Type:        o.Type,
				Description: o.Description,
				OverrideID:  o.ID,
			})
			continue
		}

		day := Day{Date: d}
		if !d.After(reference) {
			if d.Weekday() == time.Sunday {
				day.Type = DayTypeHoliday
				day.Description = sundayDescription
			} else {
				day.Type = DayTypeWorking
			}
		}
		days = append(days, day)
	}

	return days, nil
}
