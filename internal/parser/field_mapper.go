package parser

import (
	"strings"
)

// headerCandidates 每个逻辑字段的候选表头（按优先级），格鲁吉亚语在前、英语兜底
var headerCandidates = []struct {
	field Field
	names []string
}{
	{FieldRoom, []string{"ნომერი", "Room"}},
	{FieldCheckIn, []string{"შესვლა", "Check-in"}},
	{FieldCheckOut, []string{"გასვლა", "Check-out"}},
	{FieldNights, []string{"ხანგრძლივობა", "Nights"}},
	{FieldRevenue, []string{"თანხა", "Revenue"}},
	{FieldBuilding, []string{"ბლოკი", "Building"}},
}

// channelKeywords 渠道列识别关键词（小写子串匹配）
var channelKeywords = []string{"channel", "წყარო", "source", "არხ", "platform"}

// FieldMapper 字段映射器
type FieldMapper struct{}

// NewFieldMapper 创建字段映射器
func NewFieldMapper() *FieldMapper {
	return &FieldMapper{}
}

// MapBookingColumns 根据表头生成字段映射。
// 固定字段按候选名精确匹配（仅去首尾空白），候选顺序即回退顺序；
// 渠道字段按关键词子串匹配，保持表头原始列序。
func (m *FieldMapper) MapBookingColumns(headers []string) ColumnMapping {
	mapping := make(ColumnMapping)

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		name := NormalizeHeader(h)
		if name == "" {
			continue
		}
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	for _, c := range headerCandidates {
		for _, name := range c.names {
			if idx, ok := index[name]; ok {
				mapping[c.field] = append(mapping[c.field], idx)
			}
		}
	}

	for i, h := range headers {
		if IsChannelHeader(h) {
			mapping[FieldChannel] = append(mapping[FieldChannel], i)
		}
	}

	return mapping
}

// IsChannelHeader 判断表头是否为渠道/来源列
func IsChannelHeader(header string) bool {
	return ContainsAny(strings.ToLower(header), channelKeywords)
}

// Value 取字段的第一个非空单元格（已去首尾空白）
func (cm ColumnMapping) Value(field Field, row []string) string {
	for _, idx := range cm[field] {
		if idx >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[idx]); v != "" {
			return v
		}
	}
	return ""
}
