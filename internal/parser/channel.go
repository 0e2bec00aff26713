package parser

import "strings"

// 直客与社交来源统一归入 Social Media
var socialKeywords = []string{"direct", "პირდაპირ", "google", "facebook", "instagram", "social"}

// OTA 渠道规则，按顺序匹配
var otaRules = []struct {
	keyword   string
	canonical string
}{
	{"booking", "Booking.com"},
	{"agoda", "Agoda"},
	{"expedia", "Expedia"},
	{"airbnb", "Airbnb"},
	{"ostrovok", "Ostrovok"},
}

// NormalizeChannel 渠道名归一化；未命中规则时原样返回（仅去首尾空白）
func NormalizeChannel(channel string) string {
	trimmed := strings.TrimSpace(channel)
	if trimmed == "" {
		return UnknownChannel
	}
	ch := strings.ToLower(trimmed)

	if ContainsAny(ch, socialKeywords) {
		return SocialMediaChannel
	}
	for _, r := range otaRules {
		if strings.Contains(ch, r.keyword) {
			return r.canonical
		}
	}
	return trimmed
}

// ExtractChannel 从渠道类列中取第一个非空值并归一化
func ExtractChannel(mapping ColumnMapping, row []string) string {
	v := mapping.Value(FieldChannel, row)
	if v == "" {
		return UnknownChannel
	}
	return NormalizeChannel(v)
}
