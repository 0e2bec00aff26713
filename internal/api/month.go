package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/exporter"
	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/importer"
	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/model"
	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/parser"
)

type monthAnalysisResponse struct {
	Year        int                   `json:"year"`
	Month       int                   `json:"month"`
	Result      *model.AnalysisResult `json:"result"`
	Stats       parser.ReadStats      `json:"stats"`
	FileName    string                `json:"fileName"`
	DownloadURL string                `json:"downloadUrl"`
}

// AnalyzeMonth 单月分析，同时生成报表并返回下载地址
// POST /api/analyses/month (multipart: file, year, month)
func (h *Handler) AnalyzeMonth(c *gin.Context) {
	year, err := strconv.Atoi(strings.TrimSpace(c.PostForm("year")))
	if err != nil || year <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}
	month, err := strconv.Atoi(strings.TrimSpace(c.PostForm("month")))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
		return
	}

	name, data, err := h.readUpload(c)
	if err != nil {
		respondUploadError(c, err)
		return
	}

	result, stats, err := h.coord.AnalyzeMonth(c.Request.Context(), name, data, year, time.Month(month))
	if err != nil {
		var verr *importer.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "validation": verr.Result})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	file, err := h.exporter.Export(result, exporter.ExportOptions{
		FileName: name,
		Year:     year,
		Month:    time.Month(month),
		Progress: exporter.LogProgress(fmt.Sprintf("%d-%02d", year, month)),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed: " + err.Error()})
		return
	}
	defer file.Close()

	dir := h.exportDir
	if dir == "" {
		dir = os.TempDir()
	}
	tempPath := filepath.Join(dir, fmt.Sprintf("orbicity_export_%d_%d.xlsx", time.Now().UnixNano(), os.Getpid()))
	if err := file.SaveAs(tempPath); err != nil {
		_ = os.Remove(tempPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write export file: " + err.Error()})
		return
	}

	fileName := exporter.MonthFileName(year, time.Month(month))
	token := h.downloads.put(tempPath, fileName, exportDownloadTTL)

	c.JSON(http.StatusOK, monthAnalysisResponse{
		Year:        year,
		Month:       month,
		Result:      result,
		Stats:       stats,
		FileName:    fileName,
		DownloadURL: "/api/export/download/" + token,
	})
}

// DownloadExport 下载导出的 Excel 文件（一次性）
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}

	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "download link has expired"})
		return
	}

	if _, err := os.Stat(item.filePath); err != nil {
		h.downloads.delete(token)
		c.JSON(http.StatusNotFound, gin.H{"error": "export file not found"})
		return
	}

	c.Header("Content-Disposition", contentDisposition("orbi-city-analysis.xlsx", item.fileName))
	c.Header("Content-Type", xlsxContentType)
	c.File(item.filePath)

	h.downloads.delete(token)
	_ = os.Remove(item.filePath)
}
