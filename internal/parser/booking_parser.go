package parser

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// BookingParser 预订台账解析器（读取工作簿第一个 Sheet）
type BookingParser struct {
	file   *excelize.File
	mapper *FieldMapper
}

// NewBookingParser 创建预订解析器
func NewBookingParser(file *excelize.File) *BookingParser {
	return &BookingParser{
		file:   file,
		mapper: NewFieldMapper(),
	}
}

// ReadBookings 从二进制流读取全部有效预订行
func ReadBookings(r io.Reader) ([]BookingRow, ReadStats, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, ReadStats{}, fmt.Errorf("failed to open excel: %w", err)
	}
	defer file.Close()

	return NewBookingParser(file).ParseFirstSheet()
}

// ParseFirstSheet 解析第一个 Sheet
func (p *BookingParser) ParseFirstSheet() ([]BookingRow, ReadStats, error) {
	sheets := p.file.GetSheetList()
	if len(sheets) == 0 {
		return nil, ReadStats{}, ErrNoSheets
	}
	return p.ParseSheet(sheets[0])
}

// ParseSheet 解析指定 Sheet；无效行静默跳过，只计入 SkippedRows
func (p *BookingParser) ParseSheet(sheetName string) ([]BookingRow, ReadStats, error) {
	stats := ReadStats{SheetName: sheetName}

	// 使用原始值，日期列才能拿到序列日
	rows, err := p.file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, stats, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) == 0 {
		return []BookingRow{}, stats, nil
	}

	headers := rows[0]
	stats.Headers = headers
	mapping := p.mapper.MapBookingColumns(headers)

	bookings := make([]BookingRow, 0, len(rows)-1)
	for rowIdx := 1; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		if isBlankRow(row) {
			continue
		}
		stats.TotalRows++

		booking, ok := NormalizeRow(mapping, row)
		if !ok {
			stats.SkippedRows++
			continue
		}
		booking.RowNo = rowIdx + 1
		bookings = append(bookings, booking)
	}
	stats.ValidRows = len(bookings)

	return bookings, stats, nil
}

// NormalizeRow 按字段映射提取并规范化一行；不满足有效性条件时返回 false
func NormalizeRow(mapping ColumnMapping, row []string) (BookingRow, bool) {
	roomID := mapping.Value(FieldRoom, row)
	checkInRaw := mapping.Value(FieldCheckIn, row)
	nights := ParseNights(mapping.Value(FieldNights, row))
	revenue := ParseAmount(mapping.Value(FieldRevenue, row))

	if roomID == "" || checkInRaw == "" || nights <= 0 || revenue <= 0 {
		return BookingRow{}, false
	}

	// 无法解析的日期保留为零值：收入照常计入，只是无法按月摊分
	checkIn, _ := ParseCellDate(checkInRaw)
	checkOut, _ := ParseCellDate(mapping.Value(FieldCheckOut, row))

	building := mapping.Value(FieldBuilding, row)
	if building == "" {
		building = UnknownBuilding
	}

	return BookingRow{
		RoomID:   roomID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Nights:   nights,
		Revenue:  revenue,
		Channel:  ExtractChannel(mapping, row),
		Building: building,
	}, true
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
