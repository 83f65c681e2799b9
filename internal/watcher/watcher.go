// Package watcher 监控源日誌目录，文件保存后自动重新发布当天记录。
// 这是脚本上传工作流的替代：写完 2026-01-02.md 存盘即生效。
package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/BotsUP-A42/agent-diary/internal/service"
)

// noteNameRe 只认 YYYY-MM-DD.md 命名的文件
var noteNameRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\.md$`)

// NoteWatcher 源日誌目录监控器
type NoteWatcher struct {
	watcher     *fsnotify.Watcher
	dir         string
	ingest      *service.IngestService
	stopChan    chan struct{}
	stopOnce    sync.Once
	mu          sync.Mutex
	debounceMap map[string]time.Time // 防抖：date -> 上次触发时间
	debounceDur time.Duration
}

// NewNoteWatcher 创建监控器
func NewNoteWatcher(dir string, ingest *service.IngestService) (*NoteWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &NoteWatcher{
		watcher:     w,
		dir:         dir,
		ingest:      ingest,
		stopChan:    make(chan struct{}),
		debounceMap: make(map[string]time.Time),
		debounceDur: 2 * time.Second,
	}, nil
}

// Start 启动监控
func (w *NoteWatcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}
	slog.Info("源日誌监控启动", "dir", w.dir)

	go w.eventLoop(ctx)
	return nil
}

// Stop 停止监控
func (w *NoteWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.watcher.Close()
	})
}

func (w *NoteWatcher) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.handleChange(ctx, event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("文件监控错误", "error", err)
		}
	}
}

// handleChange 对命中命名规则的文件做防抖后重新发布
func (w *NoteWatcher) handleChange(ctx context.Context, path string) {
	name := filepath.Base(path)
	if !noteNameRe.MatchString(name) {
		return
	}
	date := strings.TrimSuffix(name, ".md")

	w.mu.Lock()
	last, seen := w.debounceMap[date]
	now := time.Now()
	if seen && now.Sub(last) < w.debounceDur {
		w.mu.Unlock()
		return
	}
	w.debounceMap[date] = now
	w.mu.Unlock()

	go func() {
		// 编辑器通常连续写多次，等落定后再读
		time.Sleep(w.debounceDur)
		if _, err := w.ingest.Ingest(ctx, date); err != nil {
			slog.Error("文件变更触发发布失败", "date", date, "error", err)
		}
	}()
}
