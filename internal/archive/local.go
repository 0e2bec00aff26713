package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalArchiver 写入本地 uploads 目录
type LocalArchiver struct {
	root string
	now  func() time.Time
}

// NewLocalArchiver 创建本地归档器
func NewLocalArchiver(root string) (*LocalArchiver, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("local archive directory is empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve archive directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &LocalArchiver{root: abs, now: time.Now}, nil
}

// Put 写入 <root>/<yyyy>/<mm>/<uuid>_<name>
func (a *LocalArchiver) Put(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p := filepath.Join(a.root, filepath.FromSlash(objectName(a.now(), name)))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive subdirectory: %w", err)
	}
	if err := os.WriteFile(p, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write archived file: %w", err)
	}
	return p, nil
}

// Get 读取归档文件
func (a *LocalArchiver) Get(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := a.resolve(location)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", location, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read archived file: %w", err)
	}
	return data, nil
}

// Delete 删除归档文件；不存在视为成功
func (a *LocalArchiver) Delete(ctx context.Context, location string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := a.resolve(location)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete archived file: %w", err)
	}
	return nil
}

// resolve 只允许访问根目录内的文件
func (a *LocalArchiver) resolve(location string) (string, error) {
	p := filepath.Clean(location)
	if !filepath.IsAbs(p) {
		p = filepath.Join(a.root, p)
	}
	rel, err := filepath.Rel(a.root, p)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("path %s is outside the archive directory", location)
	}
	return p, nil
}
