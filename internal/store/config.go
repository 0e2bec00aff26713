package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// 配置键
const (
	ConfigWindowStart = "analysis_window_start"
	ConfigWindowEnd   = "analysis_window_end"
)

const upsertConfigSQL = `
	INSERT INTO config (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
`

// GetConfig 获取配置项
func (s *Store) GetConfig(key string) (string, error) {
	var value string
	err := s.queryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("config key %s: %w", key, ErrNotFound)
		}
		return "", err
	}
	return value, nil
}

// SetConfig 设置配置项
func (s *Store) SetConfig(key, value string) error {
	if _, err := s.exec(upsertConfigSQL, key, value); err != nil {
		return fmt.Errorf("failed to set config %s: %w", key, err)
	}
	return nil
}

// GetAllConfig 获取所有配置项
func (s *Store) GetAllConfig() (map[string]string, error) {
	rows, err := s.query("SELECT key, value FROM config")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	config := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		config[key] = value
	}

	return config, rows.Err()
}

// GetAnalysisWindow 获取已保存的分析窗口（YYYY-MM，均含）；未设置返回 ErrNotFound
func (s *Store) GetAnalysisWindow() (startMonth, endMonth string, err error) {
	startMonth, err = s.GetConfig(ConfigWindowStart)
	if err != nil {
		return "", "", fmt.Errorf("failed to get window start: %w", err)
	}
	endMonth, err = s.GetConfig(ConfigWindowEnd)
	if err != nil {
		return "", "", fmt.Errorf("failed to get window end: %w", err)
	}
	return startMonth, endMonth, nil
}

// SetAnalysisWindow 在同一事务内保存窗口起止月份
func (s *Store) SetAnalysisWindow(startMonth, endMonth string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := s.rebind(upsertConfigSQL)
	if _, err := tx.Exec(q, ConfigWindowStart, startMonth); err != nil {
		return fmt.Errorf("failed to set window start: %w", err)
	}
	if _, err := tx.Exec(q, ConfigWindowEnd, endMonth); err != nil {
		return fmt.Errorf("failed to set window end: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit window: %w", err)
	}
	return nil
}
