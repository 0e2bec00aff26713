package importer

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/analyzer"
	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/archive"
	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/cache"
	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/model"
	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/parser"
	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/store"
)

// 进度事件类型
const (
	EventStart   = "start"
	EventInfo    = "info"
	EventWarning = "warning"
	EventError   = "error"
	EventDone    = "done"
)

// Coordinator 上传分析协调器：校验、归档、分析、入库、缓存
type Coordinator struct {
	store    *store.Store
	archiver archive.Archiver
	cache    cache.ResultCache

	defaultWindow  analyzer.Window
	maxUploadBytes int64
	now            func() time.Time
}

// NewCoordinator 创建协调器；archiver 为 nil 时不归档，rc 为 nil 时不缓存
func NewCoordinator(st *store.Store, archiver archive.Archiver, rc cache.ResultCache) *Coordinator {
	if rc == nil {
		rc = cache.Nop{}
	}
	return &Coordinator{
		store:          st,
		archiver:       archiver,
		cache:          rc,
		defaultWindow:  analyzer.DefaultWindow(),
		maxUploadBytes: parser.DefaultMaxUploadBytes,
		now:            time.Now,
	}
}

// SetDefaultWindow 设置未保存窗口配置时使用的窗口
func (c *Coordinator) SetDefaultWindow(w analyzer.Window) {
	if !w.Start.IsZero() && !w.End.IsZero() {
		c.defaultWindow = w
	}
}

// SetMaxUploadBytes 设置上传大小上限
func (c *Coordinator) SetMaxUploadBytes(n int64) {
	if n > 0 {
		c.maxUploadBytes = n
	}
}

// MaxUploadBytes 上传大小上限
func (c *Coordinator) MaxUploadBytes() int64 {
	return c.maxUploadBytes
}

// ImportOptions 导入选项
type ImportOptions struct {
	FileName string
	Data     []byte
	Window   *analyzer.Window // 为空时使用已保存的窗口
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`      // start/info/warning/error/done
	Message   string      `json:"message"`   // 事件消息
	Data      interface{} `json:"data"`      // 附加数据
	Timestamp time.Time   `json:"timestamp"` // 时间戳
}

// importRun 单次导入的上下文
type importRun struct {
	opts     ImportOptions
	progress chan ProgressEvent
	window   analyzer.Window
	hash     string
	logID    int64
	filePath string
	stats    parser.ReadStats
}

// Window 当前生效的分析窗口
func (c *Coordinator) Window() (analyzer.Window, error) {
	start, end, err := c.store.GetAnalysisWindow()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.defaultWindow, nil
		}
		return analyzer.Window{}, err
	}
	w, err := analyzer.NewWindow(start, end)
	if err != nil {
		log.Printf("stored analysis window %s..%s is invalid, using default: %v", start, end, err)
		return c.defaultWindow, nil
	}
	return w, nil
}

// SetWindow 校验并保存分析窗口
func (c *Coordinator) SetWindow(startMonth, endMonth string) (analyzer.Window, error) {
	w, err := analyzer.NewWindow(startMonth, endMonth)
	if err != nil {
		return analyzer.Window{}, err
	}
	if err := c.store.SetAnalysisWindow(w.StartMonth(), w.EndMonth()); err != nil {
		return analyzer.Window{}, err
	}
	return w, nil
}

// Import 执行导入，返回进度通道
func (c *Coordinator) Import(ctx context.Context, opts ImportOptions) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)
		c.doImport(ctx, &importRun{opts: opts, progress: progressChan})
	}()

	return progressChan
}

// doImport 执行导入逻辑
func (c *Coordinator) doImport(ctx context.Context, run *importRun) {
	startTime := c.now()
	opts := run.opts

	c.emit(run, EventStart, "Analysis started", map[string]interface{}{
		"filename": opts.FileName,
		"size":     len(opts.Data),
	})

	// 结构校验
	validation := parser.ValidateWorkbook(opts.FileName, opts.Data, c.maxUploadBytes)
	for _, w := range validation.Warnings {
		c.emit(run, EventWarning, w, nil)
	}
	if !validation.IsValid {
		c.emit(run, EventError, "File validation failed", validation)
		return
	}

	if opts.Window != nil {
		run.window = *opts.Window
	} else {
		w, err := c.Window()
		if err != nil {
			c.emit(run, EventError, fmt.Sprintf("Failed to load analysis window: %v", err), nil)
			return
		}
		run.window = w
	}

	sum := sha256.Sum256(opts.Data)
	run.hash = hex.EncodeToString(sum[:])

	logID, err := c.store.CreateImportLog(opts.FileName, "", int64(len(opts.Data)), run.hash)
	if err != nil {
		c.emit(run, EventError, fmt.Sprintf("Failed to create import log: %v", err), nil)
		return
	}
	run.logID = logID

	if err := ctx.Err(); err != nil {
		c.fail(run, "Analysis cancelled", err)
		return
	}

	// 先查缓存，再查历史记录
	entry, source := c.lookupPrevious(ctx, run)
	cached := entry != nil
	var result *model.AnalysisResult
	if cached {
		result = &entry.Result
		run.stats = entry.Stats
		c.emit(run, EventInfo, "Reusing cached analysis for identical file", map[string]string{
			"fileHash": run.hash,
			"window":   run.window.String(),
			"source":   source,
		})
	}

	// 归档原始文件
	if c.archiver != nil {
		p, err := c.archiver.Put(ctx, opts.FileName, opts.Data)
		if err != nil {
			c.emit(run, EventWarning, fmt.Sprintf("Failed to archive upload: %v", err), nil)
		} else {
			run.filePath = p
			c.emit(run, EventInfo, "Upload archived", map[string]string{"filePath": p})
		}
	}

	if !cached {
		res, stats, err := analyzer.New(run.window).AnalyzeReader(bytes.NewReader(opts.Data))
		run.stats = stats
		if err != nil {
			c.fail(run, "Failed to analyze workbook", err)
			return
		}
		result = res

		c.emit(run, EventInfo, fmt.Sprintf("Sheet %q: %d valid rows, %d skipped", stats.SheetName, stats.ValidRows, stats.SkippedRows), map[string]interface{}{
			"sheetName":   stats.SheetName,
			"totalRows":   stats.TotalRows,
			"validRows":   stats.ValidRows,
			"skippedRows": stats.SkippedRows,
		})
		if stats.ValidRows == 0 {
			c.emit(run, EventWarning, "No valid booking rows found", nil)
		}
	}

	rec := &model.AnalysisRecord{
		ID:          uuid.NewString(),
		FileName:    opts.FileName,
		FilePath:    run.filePath,
		FileHash:    run.hash,
		UploadDate:  c.now().UTC(),
		WindowStart: run.window.StartMonth(),
		WindowEnd:   run.window.EndMonth(),
		Result:      *result,
	}
	if err := c.store.InsertAnalysis(rec); err != nil {
		c.fail(run, "Failed to save analysis", err)
		return
	}

	if source != sourceCache {
		if err := c.cache.Set(ctx, run.hash, run.window.String(), &cache.Entry{Result: *result, Stats: run.stats}); err != nil {
			c.emit(run, EventWarning, fmt.Sprintf("Failed to cache analysis: %v", err), nil)
		}
	}

	status := store.ImportStatusSuccess
	if cached {
		status = store.ImportStatusCached
	}
	if err := c.store.UpdateImportLog(run.logID, run.filePath, run.stats.TotalRows, run.stats.ValidRows, run.stats.SkippedRows, rec.ID, status, ""); err != nil {
		c.emit(run, EventWarning, fmt.Sprintf("Failed to update import log: %v", err), nil)
	}

	log.Printf("analysis %s saved: file=%s window=%s cached=%v duration=%s", rec.ID, opts.FileName, run.window, cached, time.Since(startTime))
	c.emit(run, EventDone, "Analysis completed", rec)
}

const (
	sourceCache   = "cache"
	sourceHistory = "history"
)

// lookupPrevious 查找同一文件在同一窗口下的已有结果；未找到返回 nil
func (c *Coordinator) lookupPrevious(ctx context.Context, run *importRun) (*cache.Entry, string) {
	entry, err := c.cache.Get(ctx, run.hash, run.window.String())
	if err != nil {
		c.emit(run, EventWarning, fmt.Sprintf("Result cache unavailable: %v", err), nil)
	} else if entry != nil {
		return entry, sourceCache
	}

	prev, err := c.store.FindAnalysisByHash(run.hash, run.window.StartMonth(), run.window.EndMonth())
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			c.emit(run, EventWarning, fmt.Sprintf("Failed to look up previous analysis: %v", err), nil)
		}
		return nil, ""
	}

	entry = &cache.Entry{Result: prev.Result}
	if l, err := c.store.FindImportLogByAnalysis(prev.ID); err == nil {
		entry.Stats = parser.ReadStats{
			TotalRows:   l.TotalRows,
			ValidRows:   l.ValidRows,
			SkippedRows: l.SkippedRows,
		}
	}
	return entry, sourceHistory
}

// fail 记录失败并发送错误事件
func (c *Coordinator) fail(run *importRun, msg string, err error) {
	if run.logID > 0 {
		if uerr := c.store.UpdateImportLog(run.logID, run.filePath, run.stats.TotalRows, run.stats.ValidRows, run.stats.SkippedRows, "", store.ImportStatusFailed, err.Error()); uerr != nil {
			log.Printf("failed to update import log %d: %v", run.logID, uerr)
		}
	}
	c.emit(run, EventError, fmt.Sprintf("%s: %v", msg, err), nil)
}

func (c *Coordinator) emit(run *importRun, typ, msg string, data interface{}) {
	c.sendProgress(run.progress, ProgressEvent{
		Type:      typ,
		Message:   msg,
		Data:      data,
		Timestamp: c.now(),
	})
}

// sendProgress 发送进度事件
func (c *Coordinator) sendProgress(ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	default:
		// 通道已满，丢弃事件
	}
}

// AnalyzeMonth 同步执行单月分析
func (c *Coordinator) AnalyzeMonth(ctx context.Context, fileName string, data []byte, year int, month time.Month) (*model.AnalysisResult, parser.ReadStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, parser.ReadStats{}, err
	}
	validation := parser.ValidateWorkbook(fileName, data, c.maxUploadBytes)
	if !validation.IsValid {
		return nil, parser.ReadStats{}, &ValidationError{Result: validation}
	}
	return analyzer.AnalyzeMonthReader(bytes.NewReader(data), year, month)
}

// DeleteAnalysis 删除分析记录并清理归档文件
func (c *Coordinator) DeleteAnalysis(ctx context.Context, id string) error {
	rec, err := c.store.GetAnalysis(id)
	if err != nil {
		return err
	}
	if err := c.store.DeleteAnalysis(id); err != nil {
		return err
	}
	if c.archiver != nil && rec.FilePath != "" {
		if err := c.archiver.Delete(ctx, rec.FilePath); err != nil {
			log.Printf("failed to delete archived file %s: %v", rec.FilePath, err)
		}
	}
	return nil
}

// ValidationError 上传文件未通过结构校验
type ValidationError struct {
	Result model.ValidationResult
}

func (e *ValidationError) Error() string {
	if len(e.Result.Errors) == 0 {
		return "file validation failed"
	}
	return "file validation failed: " + e.Result.Errors[0]
}
