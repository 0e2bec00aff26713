package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/exporter"
	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/importer"
	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/store"
)

// Handler API 处理器
type Handler struct {
	store     *store.Store
	coord     *importer.Coordinator
	exporter  *exporter.Exporter
	downloads *exportDownloadStore
	exportDir string
}

// NewHandler 创建 API 处理器；exportDir 为临时导出文件目录，空则使用系统临时目录
func NewHandler(st *store.Store, coord *importer.Coordinator, exportDir string) *Handler {
	return &Handler{
		store:     st,
		coord:     coord,
		exporter:  exporter.NewExporter(),
		downloads: newExportDownloadStore(),
		exportDir: exportDir,
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 分析窗口配置
	router.GET("/config", h.GetConfig)
	router.PATCH("/config", h.UpdateConfig)

	// 上传校验
	router.POST("/validate", h.Validate)

	// 分析历史
	router.POST("/analyses", h.CreateAnalysis)
	router.GET("/analyses", h.ListAnalyses)
	router.POST("/analyses/month", h.AnalyzeMonth)
	router.GET("/analyses/:id", h.GetAnalysis)
	router.DELETE("/analyses/:id", h.DeleteAnalysis)
	router.GET("/analyses/:id/export", h.ExportAnalysis)

	// 数据导出
	router.GET("/export/download/:token", h.DownloadExport)
}
