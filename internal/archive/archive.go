package archive

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// 归档后端
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// ErrNotFound 归档文件不存在
var ErrNotFound = errors.New("archived file not found")

// Archiver 上传原始文件的归档存储
type Archiver interface {
	// Put 保存文件，返回可用于 Get/Delete 的路径
	Put(ctx context.Context, name string, data []byte) (string, error)
	Get(ctx context.Context, location string) ([]byte, error)
	Delete(ctx context.Context, location string) error
}

// Options 归档配置
type Options struct {
	Backend  string
	LocalDir string // local：上传目录
	Bucket   string // s3
	Prefix   string // s3 key 前缀
	Region   string // s3
}

// New 按后端创建归档器
func New(ctx context.Context, opts Options) (Archiver, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendLocal:
		return NewLocalArchiver(opts.LocalDir)
	case BackendS3:
		return NewS3Archiver(ctx, S3Config{Bucket: opts.Bucket, Prefix: opts.Prefix, Region: opts.Region})
	default:
		return nil, fmt.Errorf("unsupported archive backend: %s", opts.Backend)
	}
}

// objectName <yyyy>/<mm>/<uuid>_<name>
func objectName(now time.Time, name string) string {
	return path.Join(
		fmt.Sprintf("%04d", now.Year()),
		fmt.Sprintf("%02d", int(now.Month())),
		uuid.NewString()+"_"+sanitizeName(name),
	)
}

// sanitizeName 去掉路径部分，避免写出上传目录
func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == ".." || name == "" {
		return "upload.xlsx"
	}
	return name
}
