package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized    bool       `json:"initialized"`    // 是否已有分析记录
	AnalysisCount  int        `json:"analysisCount"`  // 分析记录数
	WindowStart    string     `json:"windowStart"`    // 当前窗口起始月份
	WindowEnd      string     `json:"windowEnd"`      // 当前窗口结束月份（含）
	StoreDriver    string     `json:"storeDriver"`    // sqlite3 / postgres
	LastUploadDate *time.Time `json:"lastUploadDate"` // 最近一次上传时间
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	window, err := h.coord.Window()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load analysis window"})
		return
	}

	count, err := h.store.CountAnalyses()
	if err != nil {
		count = 0
	}

	resp := StatusResponse{
		Initialized:   count > 0,
		AnalysisCount: count,
		WindowStart:   window.StartMonth(),
		WindowEnd:     window.EndMonth(),
		StoreDriver:   h.store.Driver(),
	}

	if latest, err := h.store.ListAnalyses(1, 0); err == nil && len(latest) > 0 {
		t := latest[0].UploadDate
		resp.LastUploadDate = &t
	}

	c.JSON(http.StatusOK, resp)
}
