package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/exporter"
	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/model"
	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/store"
)

const maxPageSize = 100

type listAnalysesResponse struct {
	Items  []model.AnalysisSummary `json:"items"`
	Total  int                     `json:"total"`
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
}

// ListAnalyses 分析历史列表
// GET /api/analyses?limit=20&offset=0
func (h *Handler) ListAnalyses(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	items, err := h.store.ListAnalyses(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	total, err := h.store.CountAnalyses()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, listAnalysesResponse{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// GetAnalysis 获取单条分析
// GET /api/analyses/:id
func (h *Handler) GetAnalysis(c *gin.Context) {
	rec, err := h.store.GetAnalysis(c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// DeleteAnalysis 删除分析及归档文件
// DELETE /api/analyses/:id
func (h *Handler) DeleteAnalysis(c *gin.Context) {
	if err := h.coord.DeleteAnalysis(c.Request.Context(), c.Param("id")); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "analysis deleted"})
}

// ExportAnalysis 导出已保存分析的报表
// GET /api/analyses/:id/export
func (h *Handler) ExportAnalysis(c *gin.Context) {
	rec, err := h.store.GetAnalysis(c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}

	file, err := h.exporter.Export(&rec.Result, exporter.ExportOptions{
		FileName:    rec.FileName,
		WindowStart: rec.WindowStart,
		WindowEnd:   rec.WindowEnd,
		Progress:    exporter.LogProgress(rec.ID),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed: " + err.Error()})
		return
	}
	defer file.Close()

	name := exporter.AnalysisFileName(rec.ID)
	c.Header("Content-Disposition", contentDisposition(name, name))
	c.Header("Content-Type", xlsxContentType)

	// 写入文件
	if err := file.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write file"})
		return
	}
}

func respondStoreError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
