package parser

import (
	"errors"
	"time"
)

// Field 预订表中的逻辑字段
type Field string

const (
	FieldRoom     Field = "room"
	FieldCheckIn  Field = "check_in"
	FieldCheckOut Field = "check_out"
	FieldNights   Field = "nights"
	FieldRevenue  Field = "revenue"
	FieldBuilding Field = "building"
	FieldChannel  Field = "channel"
)

const (
	// UnknownChannel 无渠道列或渠道为空
	UnknownChannel = "Unknown"
	// UnknownBuilding 无区块列或区块为空
	UnknownBuilding = "Unknown"
	// SocialMediaChannel 直客与社交来源合并后的渠道
	SocialMediaChannel = "Social Media"
)

var (
	ErrNoSheets   = errors.New("workbook has no sheets")
	ErrEmptySheet = errors.New("sheet has no header row")
)

// ColumnMapping 逻辑字段 -> 按优先级排列的列索引
type ColumnMapping map[Field][]int

// BookingRow 规范化后的单行预订
type BookingRow struct {
	RowNo    int       `json:"rowNo"`
	RoomID   string    `json:"roomId"` // 原始房号，可能是 "A 4022-4024"
	CheckIn  time.Time `json:"checkIn"`
	CheckOut time.Time `json:"checkOut"`
	Nights   int       `json:"nights"`
	Revenue  float64   `json:"revenue"`
	Channel  string    `json:"channel"` // 已归一化
	Building string    `json:"building"`
}

// HasStay 入住与退房日期均可解析
func (r BookingRow) HasStay() bool {
	return !r.CheckIn.IsZero() && !r.CheckOut.IsZero()
}

// ReadStats 读取统计
type ReadStats struct {
	SheetName   string   `json:"sheetName"`
	Headers     []string `json:"headers"`
	TotalRows   int      `json:"totalRows"`
	ValidRows   int      `json:"validRows"`
	SkippedRows int      `json:"skippedRows"`
}
