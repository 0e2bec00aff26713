package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ConfigResponse 配置响应
type ConfigResponse struct {
	StartMonth     string `json:"startMonth"`     // YYYY-MM
	EndMonth       string `json:"endMonth"`       // YYYY-MM（含）
	MaxUploadBytes int64  `json:"maxUploadBytes"` // 上传大小上限
}

// UpdateConfigRequest 更新分析窗口
type UpdateConfigRequest struct {
	StartMonth string `json:"startMonth" binding:"required"`
	EndMonth   string `json:"endMonth" binding:"required"`
}

// GetConfig 获取当前分析窗口
// GET /api/config
func (h *Handler) GetConfig(c *gin.Context) {
	window, err := h.coord.Window()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load analysis window"})
		return
	}
	c.JSON(http.StatusOK, ConfigResponse{
		StartMonth:     window.StartMonth(),
		EndMonth:       window.EndMonth(),
		MaxUploadBytes: h.coord.MaxUploadBytes(),
	})
}

// UpdateConfig 更新分析窗口
// PATCH /api/config
func (h *Handler) UpdateConfig(c *gin.Context) {
	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	window, err := h.coord.SetWindow(req.StartMonth, req.EndMonth)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ConfigResponse{
		StartMonth:     window.StartMonth(),
		EndMonth:       window.EndMonth(),
		MaxUploadBytes: h.coord.MaxUploadBytes(),
	})
}
