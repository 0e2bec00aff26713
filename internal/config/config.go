package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/analyzer"
	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/parser"
)

// AppConfig 应用配置
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Analysis AnalysisConfig `toml:"analysis"`
	Store    StoreConfig    `toml:"store"`
	Archive  ArchiveConfig  `toml:"archive"`
	Cache    CacheConfig    `toml:"cache"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// AnalysisConfig 分析配置
type AnalysisConfig struct {
	WindowStart string `toml:"window_start"` // YYYY-MM
	WindowEnd   string `toml:"window_end"`   // YYYY-MM（含）
	MaxUploadMB int    `toml:"max_upload_mb"`
}

// StoreConfig 存储配置；driver 为空或 sqlite3 时使用数据目录下的 orbicity.db
type StoreConfig struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

// ArchiveConfig 上传文件归档配置
type ArchiveConfig struct {
	Backend string `toml:"backend"` // local / s3
	Bucket  string `toml:"bucket"`
	Prefix  string `toml:"prefix"`
	Region  string `toml:"region"`
}

// CacheConfig 结果缓存配置；redis_url 为空则不缓存
type CacheConfig struct {
	RedisURL string `toml:"redis_url"`
	TTL      string `toml:"ttl"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20261,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Analysis: AnalysisConfig{
			WindowStart: "2025-01",
			WindowEnd:   "2025-09",
			MaxUploadMB: 20,
		},
		Store: StoreConfig{
			Driver: "sqlite3",
		},
		Archive: ArchiveConfig{
			Backend: "local",
		},
		Cache: CacheConfig{
			TTL: "24h",
		},
	}
}

// Window 配置中的默认分析窗口
func (c *AppConfig) Window() (analyzer.Window, error) {
	return analyzer.NewWindow(c.Analysis.WindowStart, c.Analysis.WindowEnd)
}

// MaxUploadBytes 上传大小上限（字节）
func (c *AppConfig) MaxUploadBytes() int64 {
	if c.Analysis.MaxUploadMB <= 0 {
		return parser.DefaultMaxUploadBytes
	}
	return int64(c.Analysis.MaxUploadMB) << 20
}

// CacheTTL 解析缓存过期时间，空值或非法值返回 0
func (c *AppConfig) CacheTTL() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(c.Cache.TTL))
	if err != nil || d < 0 {
		return 0
	}
	return d
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo 从可执行文件同目录的 config.toml 加载配置并返回元信息
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return LoadFrom(exeDir)
}

// LoadFrom 从指定目录加载 config.toml 与 .env，再应用 ORBI_* 环境变量
func LoadFrom(dir string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	// .env 不覆盖已存在的环境变量
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	switch {
	case err == nil:
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("failed to parse config.toml: %w", err)
		}
	case os.IsNotExist(err):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, err
	}

	if err := applyEnv(config, &info); err != nil {
		return nil, info, err
	}
	return config, info, nil
}

// applyEnv 环境变量覆盖（容器 / 本地运行）
func applyEnv(config *AppConfig, info *LoadConfigInfo) error {
	if v := os.Getenv("ORBI_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ORBI_PORT %q: %w", v, err)
		}
		config.Server.Port = port
		info.PortSpecified = true
	}
	if v := os.Getenv("ORBI_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv("ORBI_WINDOW_START"); v != "" {
		config.Analysis.WindowStart = v
	}
	if v := os.Getenv("ORBI_WINDOW_END"); v != "" {
		config.Analysis.WindowEnd = v
	}
	if v := os.Getenv("ORBI_MAX_UPLOAD_MB"); v != "" {
		mb, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ORBI_MAX_UPLOAD_MB %q: %w", v, err)
		}
		config.Analysis.MaxUploadMB = mb
	}
	if v := os.Getenv("ORBI_STORE_DRIVER"); v != "" {
		config.Store.Driver = v
	}
	if v := os.Getenv("ORBI_DATABASE_URL"); v != "" {
		config.Store.DSN = v
	}
	if v := os.Getenv("ORBI_ARCHIVE_BACKEND"); v != "" {
		config.Archive.Backend = v
	}
	if v := os.Getenv("ORBI_S3_BUCKET"); v != "" {
		config.Archive.Bucket = v
	}
	if v := os.Getenv("ORBI_S3_PREFIX"); v != "" {
		config.Archive.Prefix = v
	}
	if v := os.Getenv("ORBI_S3_REGION"); v != "" {
		config.Archive.Region = v
	}
	if v := os.Getenv("ORBI_REDIS_URL"); v != "" {
		config.Cache.RedisURL = v
	}
	if v := os.Getenv("ORBI_CACHE_TTL"); v != "" {
		config.Cache.TTL = v
	}
	return nil
}

// LoadConfig 从 config.toml 加载配置
// 配置文件位于可执行文件同目录下
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig 保存配置到 config.toml
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(exeDir, "config.toml"), data, 0644)
}

// EnsureDataDir 确保数据目录存在
// 相对路径基于可执行文件所在目录
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// 创建子目录
	subdirs := []string{"uploads", "exports"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}
