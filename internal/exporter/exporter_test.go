package exporter

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/model"
)

func sampleResult() *model.AnalysisResult {
	return &model.AnalysisResult{
		MonthlyStats: []model.MonthlyStats{
			{Month: "2025-02", TotalRevenue: 600.456, TotalNights: 6.04, TotalBookings: 2, AvgADR: 99.4137, RoomCount: 3, OccupancyRate: 7.1428},
		},
		RoomStats: []model.RoomStats{
			{Room: "C 2609", Revenue: 400, Nights: 4, Bookings: 1, ADR: 100},
			{Room: "A 4022", Revenue: 100, Nights: 1, Bookings: 0.5, ADR: 100},
		},
		ChannelStats: []model.ChannelStats{
			{Channel: "Booking.com", Revenue: 400, Nights: 4, Bookings: 1, ADR: 100},
		},
		BuildingStats: []model.BuildingStats{
			{Building: "C", Revenue: 400, Nights: 4, Bookings: 1, ADR: 100},
		},
		OverallStats: model.OverallStats{TotalRevenue: 600.456, TotalNights: 6, TotalBookings: 2, AvgADR: 100.076, UniqueRooms: 3, OccupancyRate: 7.1428, RevPAR: 7.1483},
		FilteredBookings: []model.FilteredBooking{
			{Room: "C 2609", CheckIn: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), CheckOut: time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC), NightsInMonth: 4, RevenueInMonth: 400, Channel: "Booking.com", Building: "C"},
		},
	}
}

func reopen(t *testing.T, f *excelize.File) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	out, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	t.Cleanup(func() { _ = out.Close() })
	return out
}

func TestExport_WindowReport(t *testing.T) {
	t.Parallel()

	var events []ProgressEvent
	f, err := NewExporter().Export(sampleResult(), ExportOptions{
		FileName:    "bookings.xlsx",
		WindowStart: "2025-01",
		WindowEnd:   "2025-09",
		Progress:    func(ev ProgressEvent) { events = append(events, ev) },
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer f.Close()

	got := reopen(t, f)
	want := []string{SheetSummary, SheetMonthly, SheetRooms, SheetChannels, SheetBuildings}
	sheets := got.GetSheetList()
	if len(sheets) != len(want) {
		t.Fatalf("sheet list mismatch: want=%v got=%v", want, sheets)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Fatalf("sheet %d mismatch: want=%s got=%s", i, want[i], sheets[i])
		}
	}

	for _, tc := range []struct {
		sheet, cell, want string
	}{
		{SheetSummary, "B3", "2025-01..2025-09"},
		{SheetSummary, "B4", "600.46"},
		{SheetSummary, "B9", "7.1%"},
		{SheetMonthly, "A2", "2025-02"},
		{SheetMonthly, "C2", "6"},
		{SheetRooms, "A1", "Room"},
		{SheetRooms, "A3", "A 4022"},
		{SheetRooms, "D3", "0.5"},
		{SheetChannels, "A2", "Booking.com"},
	} {
		v, err := got.GetCellValue(tc.sheet, tc.cell)
		if err != nil {
			t.Fatalf("get %s!%s: %v", tc.sheet, tc.cell, err)
		}
		if v != tc.want {
			t.Fatalf("%s!%s: want=%q got=%q", tc.sheet, tc.cell, tc.want, v)
		}
	}

	wantSheets := append(want, stageDone)
	if len(events) != len(wantSheets) {
		t.Fatalf("progress events: want=%v got=%+v", wantSheets, events)
	}
	for i, ev := range events {
		if ev.Sheet != wantSheets[i] {
			t.Fatalf("progress[%d]: want=%s got=%s", i, wantSheets[i], ev.Sheet)
		}
		if i > 0 && ev.Percent <= events[i-1].Percent {
			t.Fatalf("progress not increasing: %+v", events)
		}
	}
	if events[2].Rows != 2 || !events[len(events)-1].Done() {
		t.Fatalf("unexpected progress events: %+v", events)
	}
}

func TestExport_MonthReportIncludesBookings(t *testing.T) {
	t.Parallel()

	bookingRows := -1
	f, err := NewExporter().Export(sampleResult(), ExportOptions{
		Year:  2025,
		Month: time.February,
		Progress: func(ev ProgressEvent) {
			if ev.Sheet == SheetBookings {
				bookingRows = ev.Rows
			}
		},
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer f.Close()

	got := reopen(t, f)
	period, _ := got.GetCellValue(SheetSummary, "B3")
	if period != "თებერვალი 2025" {
		t.Fatalf("period mismatch: %q", period)
	}
	checkIn, _ := got.GetCellValue(SheetBookings, "B2")
	if checkIn != "2025-02-01" {
		t.Fatalf("bookings sheet check-in mismatch: %q", checkIn)
	}
	if bookingRows != 1 {
		t.Fatalf("bookings progress rows: want=1 got=%d", bookingRows)
	}
}

func TestLogProgress(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	f, err := NewExporter().Export(sampleResult(), ExportOptions{Progress: LogProgress("2025-02")})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer f.Close()

	out := buf.String()
	for _, want := range []string{"export 2025-02: 45% sheet=Rooms rows=2", "export 2025-02: done"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log missing %q in:\n%s", want, out)
		}
	}
}

func TestExport_NilResult(t *testing.T) {
	t.Parallel()

	if _, err := NewExporter().Export(nil, ExportOptions{}); err == nil {
		t.Fatalf("want error for nil result")
	}
}

func TestFileNames(t *testing.T) {
	t.Parallel()

	if got := MonthFileName(2025, time.September); got != "Orbi_City_სექტემბერი_2025_Analysis.xlsx" {
		t.Fatalf("month file name: %s", got)
	}
	if got := AnalysisFileName("abc"); got != "Orbi_City_Analysis_abc.xlsx" {
		t.Fatalf("analysis file name: %s", got)
	}
	if got := GeorgianMonth(time.Month(13)); got != "13" {
		t.Fatalf("out of range month: %s", got)
	}
}
