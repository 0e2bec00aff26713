package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var errFileTooLarge = errors.New("file is too large")

// readUpload 读取 multipart 中的 file 字段
func (h *Handler) readUpload(c *gin.Context) (string, []byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return "", nil, fmt.Errorf("no file uploaded: %w", err)
	}

	limit := h.coord.MaxUploadBytes()
	if fh.Size > limit {
		return "", nil, errFileTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return "", nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return "", nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return "", nil, errFileTooLarge
	}
	return fh.Filename, data, nil
}

// respondUploadError 上传读取失败时的响应
func respondUploadError(c *gin.Context, err error) {
	if errors.Is(err, errFileTooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// contentDisposition ASCII 文件名兜底，filename* 携带 UTF-8 原名
func contentDisposition(fallback, name string) string {
	return fmt.Sprintf("attachment; filename=\"%s\"; filename*=UTF-8''%s",
		fallback, strings.ReplaceAll(url.QueryEscape(name), "+", "%20"))
}
