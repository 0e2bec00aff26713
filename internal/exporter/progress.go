package exporter

import "log"

// stageDone 全部工作表写完后的阶段名
const stageDone = "done"

// ProgressEvent 报表生成进度：Sheet 为正在写入的工作表，Rows 为该表数据行数
type ProgressEvent struct {
	Percent int
	Sheet   string
	Rows    int
}

// Done 是否为最后一个事件
func (e ProgressEvent) Done() bool {
	return e.Sheet == stageDone
}

func reportProgress(progress func(ProgressEvent), percent int, sheet string, rows int) {
	if progress == nil {
		return
	}
	progress(ProgressEvent{
		Percent: min(max(percent, 0), 100),
		Sheet:   sheet,
		Rows:    rows,
	})
}

// LogProgress 把报表生成进度写入日志，label 标识这次导出
func LogProgress(label string) func(ProgressEvent) {
	return func(ev ProgressEvent) {
		if ev.Done() {
			log.Printf("export %s: done", label)
			return
		}
		log.Printf("export %s: %d%% sheet=%s rows=%d", label, ev.Percent, ev.Sheet, ev.Rows)
	}
}
