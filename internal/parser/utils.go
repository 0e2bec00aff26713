package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var (
	leadingFloatRe = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)
	leadingIntRe   = regexp.MustCompile(`^[+-]?\d+`)
	serialRe       = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// 文本日期可接受的格式（按顺序尝试）
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01/02/2006",
	"1/2/2006",
	"02.01.2006",
	"2.1.2006",
	"01-02-06",
	"1-2-06",
}

// NormalizeHeader 规范化表头（去首尾空白与换行）
func NormalizeHeader(name string) string {
	name = strings.ReplaceAll(name, "\n", " ")
	name = strings.ReplaceAll(name, "\r", "")
	return strings.TrimSpace(name)
}

// ParseAmount 解析金额：去掉千分位逗号后取前导数字，失败返回 0
func ParseAmount(value string) float64 {
	s := strings.TrimSpace(strings.ReplaceAll(value, ",", ""))
	m := leadingFloatRe.FindString(s)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseNights 解析晚数：取前导整数（"3.5" -> 3），失败返回 0
func ParseNights(value string) int {
	m := leadingIntRe.FindString(strings.TrimSpace(value))
	if m == "" {
		return 0
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return v
}

// ParseCellDate 解析日期单元格：纯数字按 Excel 序列日（1899-12-30 纪元），否则按文本格式。
// 返回值统一为 UTC 零点的日历日期。
func ParseCellDate(value string) (time.Time, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, false
	}

	if serialRe.MatchString(s) {
		serial, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return time.Time{}, false
		}
		t, err := ExcelSerialToTime(serial)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDay(t), true
		}
	}
	return time.Time{}, false
}

// ExcelSerialToTime Excel 序列日转日期（忽略一天内的时间部分）
func ExcelSerialToTime(serial float64) (time.Time, error) {
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, err
	}
	return truncateDay(t), nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ContainsAny 检查字符串是否包含任意一个关键词
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
