package exporter

import (
	"fmt"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/model"
)

// Sheet 名称
const (
	SheetSummary   = "Summary"
	SheetMonthly   = "Monthly"
	SheetRooms     = "Rooms"
	SheetChannels  = "Channels"
	SheetBuildings = "Buildings"
	SheetBookings  = "Bookings"
)

var georgianMonths = []string{
	"იანვარი", "თებერვალი", "მარტი", "აპრილი", "მაისი", "ივნისი",
	"ივლისი", "აგვისტო", "სექტემბერი", "ოქტომბერი", "ნოემბერი", "დეკემბერი",
}

// Exporter 分析结果报表导出器
type Exporter struct{}

// NewExporter 创建导出器
func NewExporter() *Exporter {
	return &Exporter{}
}

// ExportOptions 导出选项
type ExportOptions struct {
	FileName string // 源文件名，写入 Summary

	// 单月报表时填写；Month 为 0 表示窗口报表
	Year  int
	Month time.Month

	WindowStart string
	WindowEnd   string

	Progress func(ProgressEvent)
}

// MonthFileName 单月报表文件名
func MonthFileName(year int, month time.Month) string {
	return fmt.Sprintf("Orbi_City_%s_%d_Analysis.xlsx", GeorgianMonth(month), year)
}

// AnalysisFileName 历史记录报表文件名
func AnalysisFileName(id string) string {
	return fmt.Sprintf("Orbi_City_Analysis_%s.xlsx", id)
}

// GeorgianMonth 格鲁吉亚语月份名；越界返回数字
func GeorgianMonth(m time.Month) string {
	if m < time.January || m > time.December {
		return fmt.Sprintf("%d", int(m))
	}
	return georgianMonths[m-1]
}

// Export 生成报表工作簿；调用方负责关闭返回的文件
func (e *Exporter) Export(result *model.AnalysisResult, opts ExportOptions) (*excelize.File, error) {
	if result == nil {
		return nil, fmt.Errorf("nothing to export: analysis result is nil")
	}

	f := excelize.NewFile()
	w := &sheetWriter{f: f}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	w.headerStyle = headerStyle

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	reportProgress(opts.Progress, 5, SheetSummary, 0)
	w.writeSummary(result, opts)

	reportProgress(opts.Progress, 25, SheetMonthly, len(result.MonthlyStats))
	w.writeMonthly(result.MonthlyStats)

	reportProgress(opts.Progress, 45, SheetRooms, len(result.RoomStats))
	rows := make([][]any, 0, len(result.RoomStats))
	for _, r := range result.RoomStats {
		rows = append(rows, statRow(r.Room, r.Revenue, r.Nights, r.Bookings, r.ADR))
	}
	w.writeTable(SheetRooms, []string{"Room", "Revenue", "Nights", "Bookings", "ADR"}, rows)

	reportProgress(opts.Progress, 60, SheetChannels, len(result.ChannelStats))
	rows = rows[:0:0]
	for _, c := range result.ChannelStats {
		rows = append(rows, statRow(c.Channel, c.Revenue, c.Nights, c.Bookings, c.ADR))
	}
	w.writeTable(SheetChannels, []string{"Channel", "Revenue", "Nights", "Bookings", "ADR"}, rows)

	reportProgress(opts.Progress, 75, SheetBuildings, len(result.BuildingStats))
	rows = rows[:0:0]
	for _, b := range result.BuildingStats {
		rows = append(rows, statRow(b.Building, b.Revenue, b.Nights, b.Bookings, b.ADR))
	}
	w.writeTable(SheetBuildings, []string{"Building", "Revenue", "Nights", "Bookings", "ADR"}, rows)

	if opts.Month != 0 {
		reportProgress(opts.Progress, 90, SheetBookings, len(result.FilteredBookings))
		w.writeBookings(result.FilteredBookings)
	}

	if w.err != nil {
		_ = f.Close()
		return nil, w.err
	}

	f.SetActiveSheet(0)
	reportProgress(opts.Progress, 100, stageDone, 0)
	return f, nil
}

// sheetWriter 记录第一个写入错误，后续写入直接跳过
type sheetWriter struct {
	f           *excelize.File
	headerStyle int
	err         error
}

func (w *sheetWriter) ensureSheet(name string) {
	if w.err != nil {
		return
	}
	if idx, _ := w.f.GetSheetIndex(name); idx >= 0 {
		return
	}
	if _, err := w.f.NewSheet(name); err != nil {
		w.err = fmt.Errorf("failed to create sheet %s: %w", name, err)
	}
}

func (w *sheetWriter) setRow(sheet string, row int, values []any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
}

func (w *sheetWriter) styleHeader(sheet string, row int) {
	if w.err != nil {
		return
	}
	if err := w.f.SetRowStyle(sheet, row, row, w.headerStyle); err != nil {
		w.err = fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
}

func (w *sheetWriter) colWidth(sheet, start, end string, width float64) {
	if w.err != nil {
		return
	}
	if err := w.f.SetColWidth(sheet, start, end, width); err != nil {
		w.err = fmt.Errorf("failed to set %s column width: %w", sheet, err)
	}
}

func (w *sheetWriter) writeTable(sheet string, headers []string, rows [][]any) {
	w.ensureSheet(sheet)
	head := make([]any, len(headers))
	for i, h := range headers {
		head[i] = h
	}
	w.setRow(sheet, 1, head)
	w.styleHeader(sheet, 1)
	for i, r := range rows {
		w.setRow(sheet, i+2, r)
	}
	w.colWidth(sheet, "A", "A", 22)
	w.colWidth(sheet, "B", "G", 14)
}

func (w *sheetWriter) writeSummary(result *model.AnalysisResult, opts ExportOptions) {
	o := result.OverallStats

	period := fmt.Sprintf("%s..%s", opts.WindowStart, opts.WindowEnd)
	if opts.Month != 0 {
		period = fmt.Sprintf("%s %d", GeorgianMonth(opts.Month), opts.Year)
	}

	rows := [][]any{
		{"Metric", "Value"},
		{"File", opts.FileName},
		{"Period", period},
		{"Total revenue", round2(o.TotalRevenue)},
		{"ADR", round2(o.AvgADR)},
		{"RevPAR", round2(o.RevPAR)},
		{"Total nights", round1(o.TotalNights)},
		{"Total bookings", round1(o.TotalBookings)},
		{"Occupancy rate", fmt.Sprintf("%.1f%%", o.OccupancyRate)},
		{"Unique rooms", o.UniqueRooms},
	}
	for i, r := range rows {
		w.setRow(SheetSummary, i+1, r)
	}
	w.styleHeader(SheetSummary, 1)
	w.colWidth(SheetSummary, "A", "A", 24)
	w.colWidth(SheetSummary, "B", "B", 30)
}

func (w *sheetWriter) writeMonthly(stats []model.MonthlyStats) {
	rows := make([][]any, 0, len(stats))
	for _, m := range stats {
		rows = append(rows, []any{
			m.Month,
			round2(m.TotalRevenue),
			round1(m.TotalNights),
			round1(m.TotalBookings),
			round2(m.AvgADR),
			m.RoomCount,
			fmt.Sprintf("%.1f%%", m.OccupancyRate),
		})
	}
	w.writeTable(SheetMonthly, []string{"Month", "Revenue", "Nights", "Bookings", "ADR", "Rooms", "Occupancy"}, rows)
}

func (w *sheetWriter) writeBookings(bookings []model.FilteredBooking) {
	rows := make([][]any, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, []any{
			b.Room,
			b.CheckIn.Format("2006-01-02"),
			b.CheckOut.Format("2006-01-02"),
			b.NightsInMonth,
			round2(b.RevenueInMonth),
			b.Channel,
			b.Building,
		})
	}
	w.writeTable(SheetBookings, []string{"Room", "Check-in", "Check-out", "Nights in month", "Revenue in month", "Channel", "Building"}, rows)
}

func statRow(key string, revenue, nights, bookings, adr float64) []any {
	return []any{key, round2(revenue), round1(nights), round1(bookings), round2(adr)}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round1(v float64) float64 { return math.Round(v*10) / 10 }
