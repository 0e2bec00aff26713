package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/api"
	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/archive"
	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/cache"
	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/config"
	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/importer"
	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/store"
)

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	store  *store.Store
	cache  cache.ResultCache
	api    *api.Handler
}

// NewServer 按配置组装存储、归档、缓存与 API
func NewServer(ctx context.Context, cfg *config.AppConfig) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare data dir: %w", err)
	}

	st, err := openStore(cfg, dataDir)
	if err != nil {
		return nil, err
	}

	ar, err := archive.New(ctx, archive.Options{
		Backend:  cfg.Archive.Backend,
		LocalDir: filepath.Join(dataDir, "uploads"),
		Bucket:   cfg.Archive.Bucket,
		Prefix:   cfg.Archive.Prefix,
		Region:   cfg.Archive.Region,
	})
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to initialize archive: %w", err)
	}

	rc, err := cache.New(ctx, cfg.Cache.RedisURL, cfg.CacheTTL())
	if err != nil {
		// 缓存不可用不影响分析
		log.Printf("result cache disabled: %v", err)
		rc = cache.Nop{}
	}

	window, err := cfg.Window()
	if err != nil {
		_ = st.Close()
		_ = rc.Close()
		return nil, fmt.Errorf("invalid analysis window in config: %w", err)
	}

	coord := importer.NewCoordinator(st, ar, rc)
	coord.SetDefaultWindow(window)
	coord.SetMaxUploadBytes(cfg.MaxUploadBytes())

	s := &Server{
		router: gin.Default(),
		store:  st,
		cache:  rc,
		api:    api.NewHandler(st, coord, filepath.Join(dataDir, "exports")),
	}

	s.setupRoutes()

	log.Printf("server ready: store=%s archive=%s window=%s", st.Driver(), cfg.Archive.Backend, window)
	return s, nil
}

// openStore sqlite3 默认落在数据目录；postgres 使用配置的 DSN
func openStore(cfg *config.AppConfig, dataDir string) (*store.Store, error) {
	driver := cfg.Store.Driver
	if driver == "" || driver == store.DriverSQLite {
		if cfg.Store.DSN != "" {
			return store.Open(store.DriverSQLite, cfg.Store.DSN)
		}
		return store.New(filepath.Join(dataDir, "orbicity.db"))
	}
	if cfg.Store.DSN == "" {
		return nil, fmt.Errorf("store driver %s requires a dsn", driver)
	}
	return store.Open(driver, cfg.Store.DSN)
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	s.api.RegisterRoutes(s.router.Group("/api"))

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}

// Handler 暴露 http.Handler（用于测试）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close 释放存储与缓存连接
func (s *Server) Close() error {
	if err := s.cache.Close(); err != nil {
		log.Printf("failed to close cache: %v", err)
	}
	return s.store.Close()
}

// GetStore 获取存储（用于测试）
func (s *Server) GetStore() *store.Store {
	return s.store
}
