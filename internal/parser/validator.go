package parser

import (
	"bytes"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/model"
)

// DefaultMaxUploadBytes 默认上传大小上限 20MB
const DefaultMaxUploadBytes int64 = 20 * 1024 * 1024

type requiredColumn struct {
	description   string
	possibleNames []string
}

// 必需列：候选名为小写子串匹配
var requiredColumns = []requiredColumn{
	{
		description:   "Room number (ნომერი / Room)",
		possibleNames: []string{"ნომერი", "room", "room number", "room_number", "apartment", "აპარტამენტი"},
	},
	{
		description:   "Check-in date (შესვლა / Check-in)",
		possibleNames: []string{"შესვლა", "check-in", "check in", "checkin", "arrival", "შესვლის თარიღი"},
	},
	{
		description:   "Check-out date (გასვლა / Check-out)",
		possibleNames: []string{"გასვლა", "check-out", "check out", "checkout", "departure", "გასვლის თარიღი"},
	},
	{
		description:   "Revenue (თანხა / Revenue)",
		possibleNames: []string{"თანხა", "revenue", "amount", "price", "total", "ღირებულება", "ფასი"},
	},
}

var (
	nightsKeywords   = []string{"ხანგრძლივობა", "nights", "duration", "ღამეები"}
	buildingKeywords = []string{"ბლოკი", "building", "block"}
	allowedExts      = []string{".xlsx", ".xlsm"}
)

// ValidateWorkbook 校验上传文件的扩展名、大小与表头结构
func ValidateWorkbook(fileName string, data []byte, maxBytes int64) model.ValidationResult {
	result := model.ValidationResult{
		IsValid:         true,
		Errors:          []string{},
		Warnings:        []string{},
		DetectedColumns: []string{},
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if !slices.Contains(allowedExts, ext) {
		result.IsValid = false
		result.Errors = append(result.Errors, "unsupported file format, please upload an .xlsx file")
		return result
	}

	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if int64(len(data)) > maxBytes {
		result.IsValid = false
		result.Errors = append(result.Errors, fmt.Sprintf("file is too large (%.2fMB), maximum is %dMB",
			float64(len(data))/1024/1024, maxBytes/1024/1024))
		return result
	}

	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		result.IsValid = false
		result.Errors = append(result.Errors, fmt.Sprintf("failed to read file: %v", err))
		return result
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		result.IsValid = false
		result.Errors = append(result.Errors, "workbook is empty, no sheets found")
		return result
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		result.IsValid = false
		result.Errors = append(result.Errors, fmt.Sprintf("failed to read file: %v", err))
		return result
	}
	if len(rows) == 0 {
		result.IsValid = false
		result.Errors = append(result.Errors, "workbook is empty, no data found")
		return result
	}

	result.DetectedColumns = append(result.DetectedColumns, rows[0]...)
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.ToLower(NormalizeHeader(h))
	}

	var missing []string
	for _, col := range requiredColumns {
		if !anyHeaderContains(headers, col.possibleNames) {
			missing = append(missing, col.description)
		}
	}
	if len(missing) > 0 {
		result.IsValid = false
		result.Errors = append(result.Errors, "missing required columns:")
		for _, m := range missing {
			result.Errors = append(result.Errors, "  - "+m)
		}
	}

	if len(rows) < 2 {
		result.Warnings = append(result.Warnings, "file contains headers only, no data rows")
	}
	if !anyHeaderContains(headers, nightsKeywords) {
		result.Warnings = append(result.Warnings, "no nights column found, rows without nights will be skipped")
	}
	if !anyHeaderContains(headers, channelKeywords) {
		result.Warnings = append(result.Warnings, "no channel column found, channel analysis will be limited")
	}
	if !anyHeaderContains(headers, buildingKeywords) {
		result.Warnings = append(result.Warnings, "no building column found, building analysis will be limited")
	}

	return result
}

func anyHeaderContains(headers []string, keywords []string) bool {
	for _, h := range headers {
		if ContainsAny(h, keywords) {
			return true
		}
	}
	return false
}
