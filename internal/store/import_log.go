package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// 导入日志状态
const (
	ImportStatusProcessing = "processing"
	ImportStatusSuccess    = "success"
	ImportStatusCached     = "cached"
	ImportStatusFailed     = "failed"
)

// ImportLog 一次上传的导入日志
type ImportLog struct {
	ID           int64  `json:"id"`
	Filename     string `json:"filename"`
	FilePath     string `json:"filePath"`
	FileSize     int64  `json:"fileSize"`
	FileHash     string `json:"fileHash"`
	Status       string `json:"status"`
	TotalRows    int    `json:"totalRows"`
	ValidRows    int    `json:"validRows"`
	SkippedRows  int    `json:"skippedRows"`
	AnalysisID   string `json:"analysisId"`
	ErrorMessage string `json:"errorMessage"`
}

// CreateImportLog 创建导入日志，返回 import_log_id
func (s *Store) CreateImportLog(filename, filePath string, fileSize int64, fileHash string) (int64, error) {
	var id int64
	err := s.queryRow(`
		INSERT INTO import_logs (filename, file_path, file_size, file_hash, status)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`, filename, filePath, fileSize, fileHash, ImportStatusProcessing).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	return id, nil
}

// UpdateImportLog 完成导入日志更新
func (s *Store) UpdateImportLog(id int64, filePath string, totalRows, validRows, skippedRows int, analysisID, status, errorMessage string) error {
	res, err := s.exec(`
		UPDATE import_logs SET
			file_path = ?,
			total_rows = ?,
			valid_rows = ?,
			skipped_rows = ?,
			analysis_id = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, filePath, totalRows, validRows, skippedRows, analysisID, status, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("import log %d: %w", id, ErrNotFound)
	}
	return nil
}

// GetImportLog 读取导入日志
func (s *Store) GetImportLog(id int64) (*ImportLog, error) {
	var l ImportLog
	err := s.queryRow(`
		SELECT id, filename, file_path, file_size, file_hash, status,
			total_rows, valid_rows, skipped_rows, analysis_id, error_message
		FROM import_logs WHERE id = ?
	`, id).Scan(
		&l.ID, &l.Filename, &l.FilePath, &l.FileSize, &l.FileHash, &l.Status,
		&l.TotalRows, &l.ValidRows, &l.SkippedRows, &l.AnalysisID, &l.ErrorMessage,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("import log %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get import log: %w", err)
	}
	return &l, nil
}

// FindImportLogByAnalysis 读取生成该分析的最近一条导入日志
func (s *Store) FindImportLogByAnalysis(analysisID string) (*ImportLog, error) {
	var l ImportLog
	err := s.queryRow(`
		SELECT id, filename, file_path, file_size, file_hash, status,
			total_rows, valid_rows, skipped_rows, analysis_id, error_message
		FROM import_logs WHERE analysis_id = ?
		ORDER BY id DESC
		LIMIT 1
	`, analysisID).Scan(
		&l.ID, &l.Filename, &l.FilePath, &l.FileSize, &l.FileHash, &l.Status,
		&l.TotalRows, &l.ValidRows, &l.SkippedRows, &l.AnalysisID, &l.ErrorMessage,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("import log for analysis %s: %w", analysisID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find import log: %w", err)
	}
	return &l, nil
}
