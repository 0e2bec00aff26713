package analyzer

import (
	"fmt"
	"io"

	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/model"
	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/parser"
)

// Analyzer 预订台账聚合器
type Analyzer struct {
	window Window
}

// New 创建聚合器；零值窗口使用默认窗口
func New(window Window) *Analyzer {
	if window.Start.IsZero() || window.End.IsZero() {
		window = DefaultWindow()
	}
	return &Analyzer{window: window}
}

// Window 当前分析窗口
func (a *Analyzer) Window() Window {
	return a.window
}

// Analyze 对已规范化的预订行做一次完整聚合
func (a *Analyzer) Analyze(rows []parser.BookingRow) *model.AnalysisResult {
	agg := newAggregation(a.window)
	for _, row := range rows {
		agg.addBooking(row)
	}
	return agg.assemble()
}

// AnalyzeReader 读取 xlsx 第一个 Sheet 并聚合；文件级错误直接返回，不产出部分结果
func (a *Analyzer) AnalyzeReader(r io.Reader) (*model.AnalysisResult, parser.ReadStats, error) {
	rows, stats, err := parser.ReadBookings(r)
	if err != nil {
		return nil, stats, fmt.Errorf("analyze workbook: %w", err)
	}
	return a.Analyze(rows), stats, nil
}
