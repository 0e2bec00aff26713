package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/model"
)

const analysisColumns = `
	id, file_name, file_path, file_hash, upload_date, window_start, window_end,
	total_revenue, total_nights, total_bookings, avg_adr, unique_rooms, occupancy_rate, rev_par,
	monthly_stats, room_stats, channel_stats, building_stats`

// InsertAnalysis 写入一条分析记录
func (s *Store) InsertAnalysis(rec *model.AnalysisRecord) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("analysis record requires an id")
	}

	stats, err := marshalStats(&rec.Result)
	if err != nil {
		return err
	}
	o := rec.Result.OverallStats

	_, err = s.exec(`
		INSERT INTO analysis_results (`+analysisColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID, rec.FileName, rec.FilePath, rec.FileHash, rec.UploadDate.UTC(), rec.WindowStart, rec.WindowEnd,
		o.TotalRevenue, o.TotalNights, o.TotalBookings, o.AvgADR, o.UniqueRooms, o.OccupancyRate, o.RevPAR,
		stats[0], stats[1], stats[2], stats[3],
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

// GetAnalysis 按 ID 读取完整分析记录
func (s *Store) GetAnalysis(id string) (*model.AnalysisRecord, error) {
	row := s.queryRow(`SELECT `+analysisColumns+` FROM analysis_results WHERE id = ?`, id)
	rec, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("analysis %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return rec, nil
}

// FindAnalysisByHash 查找相同文件、相同窗口的最近一次分析；不存在返回 ErrNotFound
func (s *Store) FindAnalysisByHash(fileHash, windowStart, windowEnd string) (*model.AnalysisRecord, error) {
	row := s.queryRow(`
		SELECT `+analysisColumns+` FROM analysis_results
		WHERE file_hash = ? AND window_start = ? AND window_end = ?
		ORDER BY upload_date DESC
		LIMIT 1
	`, fileHash, windowStart, windowEnd)
	rec, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find analysis by hash: %w", err)
	}
	return rec, nil
}

// ListAnalyses 分页列出历史（按上传时间倒序），只返回汇总字段
func (s *Store) ListAnalyses(limit, offset int) ([]model.AnalysisSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.query(`
		SELECT id, file_name, upload_date,
			total_revenue, total_nights, total_bookings, avg_adr, unique_rooms, occupancy_rate, rev_par
		FROM analysis_results
		ORDER BY upload_date DESC, id
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query analyses failed: %w", err)
	}
	defer rows.Close()

	out := make([]model.AnalysisSummary, 0)
	for rows.Next() {
		var it model.AnalysisSummary
		if err := rows.Scan(
			&it.ID, &it.FileName, &it.UploadDate,
			&it.TotalRevenue, &it.TotalNights, &it.TotalBookings, &it.AvgADR, &it.UniqueRooms, &it.OccupancyRate, &it.RevPAR,
		); err != nil {
			return nil, fmt.Errorf("scan analyses failed: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analyses failed: %w", err)
	}
	return out, nil
}

// CountAnalyses 历史记录数
func (s *Store) CountAnalyses() (int, error) {
	var n int
	if err := s.queryRow(`SELECT COUNT(1) FROM analysis_results`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count analyses failed: %w", err)
	}
	return n, nil
}

// DeleteAnalysis 删除一条记录
func (s *Store) DeleteAnalysis(id string) error {
	res, err := s.exec(`DELETE FROM analysis_results WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("analysis %s: %w", id, ErrNotFound)
	}
	return nil
}

func marshalStats(r *model.AnalysisResult) ([4]string, error) {
	var out [4]string
	for i, v := range []any{r.MonthlyStats, r.RoomStats, r.ChannelStats, r.BuildingStats} {
		b, err := json.Marshal(v)
		if err != nil {
			return out, fmt.Errorf("failed to marshal stats: %w", err)
		}
		out[i] = string(b)
	}
	return out, nil
}

func scanAnalysis(row *sql.Row) (*model.AnalysisRecord, error) {
	var (
		rec                              model.AnalysisRecord
		monthly, rooms, channels, blocks string
	)
	o := &rec.Result.OverallStats
	if err := row.Scan(
		&rec.ID, &rec.FileName, &rec.FilePath, &rec.FileHash, &rec.UploadDate, &rec.WindowStart, &rec.WindowEnd,
		&o.TotalRevenue, &o.TotalNights, &o.TotalBookings, &o.AvgADR, &o.UniqueRooms, &o.OccupancyRate, &o.RevPAR,
		&monthly, &rooms, &channels, &blocks,
	); err != nil {
		return nil, err
	}

	targets := []struct {
		raw string
		dst any
	}{
		{monthly, &rec.Result.MonthlyStats},
		{rooms, &rec.Result.RoomStats},
		{channels, &rec.Result.ChannelStats},
		{blocks, &rec.Result.BuildingStats},
	}
	for _, t := range targets {
		if err := json.Unmarshal([]byte(t.raw), t.dst); err != nil {
			return nil, fmt.Errorf("failed to decode stats: %w", err)
		}
	}
	return &rec, nil
}
