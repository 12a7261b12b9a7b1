package calendar

import (
	"errors"
	"time"
)

// ── 日期规范化 ──

var (
	ErrInvalidRange = errors.New("开始日期不能晚于结束日期")
	ErrInvalidDate  = errors.New("无效的日历日期")
)

// dateLayout 日历日的规范字符串表示
const dateLayout = "2006-01-02"

// DateOnly 将任意时间截断为 UTC 零点，即纯日历日。
// 所有进入本包的时间值比较前必须经过该规范化。
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate 解析日期输入，接受 "2006-01-02" 或完整 RFC3339 时间戳，
// 统一规范化为纯日历日。
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return DateOnly(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOnly(t), nil
	}
	return time.Time{}, ErrInvalidDate
}

// FormatDate 输出日历日的规范 "YYYY-MM-DD" 表示。
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// DaysBetween a 到 b 的整日差（b - a），两端均按日历日计。
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)) / (24 * time.Hour))
}
