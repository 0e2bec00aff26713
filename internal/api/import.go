package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/importer"
	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/parser"
)

// Validate 校验上传文件结构
// POST /api/validate
func (h *Handler) Validate(c *gin.Context) {
	name, data, err := h.readUpload(c)
	if err != nil {
		respondUploadError(c, err)
		return
	}
	c.JSON(http.StatusOK, parser.ValidateWorkbook(name, data, h.coord.MaxUploadBytes()))
}

// CreateAnalysis 上传并分析 Excel (SSE 流式响应)
// POST /api/analyses
func (h *Handler) CreateAnalysis(c *gin.Context) {
	name, data, err := h.readUpload(c)
	if err != nil {
		respondUploadError(c, err)
		return
	}

	// 流式发送进度事件
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming is not supported"})
		return
	}

	// 设置 SSE 响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	progressChan := h.coord.Import(c.Request.Context(), importer.ImportOptions{
		FileName: name,
		Data:     data,
	})

	for event := range progressChan {
		// 序列化事件为 JSON
		eventData, err := json.Marshal(event)
		if err != nil {
			continue
		}

		// SSE 格式: data: {json}\n\n
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}
}
