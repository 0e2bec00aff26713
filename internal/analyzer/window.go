package analyzer

import (
	"fmt"
	"time"
)

const monthKeyLayout = "2006-01"

// Window 分析窗口 [Start, End)，两端均为月初
type Window struct {
	Start time.Time
	End   time.Time
}

// DefaultWindow 默认窗口：2025 年 1-9 月
func DefaultWindow() Window {
	return Window{
		Start: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC),
	}
}

// NewWindow 由起止月份（"YYYY-MM"，均含）构造窗口
func NewWindow(startMonth, endMonth string) (Window, error) {
	start, err := time.Parse(monthKeyLayout, startMonth)
	if err != nil {
		return Window{}, fmt.Errorf("invalid start month %q: %w", startMonth, err)
	}
	last, err := time.Parse(monthKeyLayout, endMonth)
	if err != nil {
		return Window{}, fmt.Errorf("invalid end month %q: %w", endMonth, err)
	}
	if last.Before(start) {
		return Window{}, fmt.Errorf("end month %s is before start month %s", endMonth, startMonth)
	}
	return Window{Start: start, End: firstOfNextMonth(last)}, nil
}

// Contains 日期是否落在窗口内
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// StartMonth 起始月份键
func (w Window) StartMonth() string {
	return MonthKey(w.Start)
}

// EndMonth 最后一个包含的月份键
func (w Window) EndMonth() string {
	return MonthKey(w.End.AddDate(0, 0, -1))
}

// String 形如 "2025-01..2025-09"
func (w Window) String() string {
	return w.StartMonth() + ".." + w.EndMonth()
}

// MonthKey 日期 -> "YYYY-MM"
func MonthKey(t time.Time) string {
	return t.Format(monthKeyLayout)
}

// DaysInMonthKey "YYYY-MM" 对应月份天数，非法键返回 0
func DaysInMonthKey(key string) int {
	t, err := time.Parse(monthKeyLayout, key)
	if err != nil {
		return 0
	}
	return daysInMonth(t.Year(), t.Month())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func firstOfNextMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
}

func lastDayOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}

// wholeDays 两个日期之间的整天数（向下取整）
func wholeDays(from, to time.Time) int {
	d := to.Sub(from)
	days := int(d / (24 * time.Hour))
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return days
}
