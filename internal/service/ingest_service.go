package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/BotsUP-A42/agent-diary/internal/extract"
	"github.com/BotsUP-A42/agent-diary/internal/repository"
	"github.com/BotsUP-A42/agent-diary/internal/schema"
)

// RunState 管道运行状态
type RunState string

const (
	StateIdle        RunState = "idle"
	StateReading     RunState = "reading"
	StateExtracting  RunState = "extracting"
	StatePersisting  RunState = "persisting"
	StateAggregating RunState = "aggregating"
	StateDone        RunState = "done"
	StateFailed      RunState = "failed"
)

// UsageSource 当日 token 用量提供者，可缺省
type UsageSource interface {
	// Snapshot 返回某天的用量快照；未配置或无数据时返回 (nil, nil)
	Snapshot(ctx context.Context, date string) (*schema.TokenUsage, error)
}

// IngestResult 单次发布的结果摘要，供 CLI/接口展示
type IngestResult struct {
	Date      string   `json:"date"`
	State     RunState `json:"state"`
	Title     string   `json:"title"`
	Tasks     int      `json:"tasks"`
	Learnings int      `json:"learnings"`
	Mood      string   `json:"mood"`
	Fallback  bool     `json:"fallback"` // 是否使用了占位正文
}

// IngestService 每日发布管道：读源 → 提取 → 落库 → 重算统计。
// 同一时刻只允许一次运行（统计重算对并发写不安全），
// 重复触发同一天是幂等的，覆盖写同一条记录。
type IngestService struct {
	logRepo   *repository.LogRepository
	stats     *StatsService
	source    NoteSource
	usage     UsageSource // 可为 nil
	extractor *extract.Extractor
	timeout   time.Duration

	mu sync.Mutex // 单飞锁
}

// NewIngestService 创建管道。usage 传 nil 表示不采集用量。
func NewIngestService(
	logRepo *repository.LogRepository,
	stats *StatsService,
	source NoteSource,
	usage UsageSource,
	extractor *extract.Extractor,
	timeout time.Duration,
) *IngestService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &IngestService{
		logRepo:   logRepo,
		stats:     stats,
		source:    source,
		usage:     usage,
		extractor: extractor,
		timeout:   timeout,
	}
}

// Ingest 对目标日期跑一次完整管道。
// 源日誌缺失不算失败；落库成功后统计失败会返回错误，
// 但记录已持久化——这是接受的不一致窗口，由下一次运行修复。
func (s *IngestService) Ingest(ctx context.Context, date string) (*IngestResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	state := StateReading
	slog.Info("开始发布日誌", "date", date)

	raw, fallback, err := s.readNote(ctx, date)
	if err != nil {
		return nil, s.fail(state, err)
	}

	state = StateExtracting
	record := s.extractor.Extract(date, raw)

	// 用量采集失败只降级，不阻塞发布
	if s.usage != nil {
		usage, err := s.usage.Snapshot(ctx, date)
		if err != nil {
			slog.Warn("获取用量快照失败，跳过", "date", date, "error", err)
		} else if usage != nil {
			record.Usage = (*schema.UsageColumn)(usage)
		}
	}

	state = StatePersisting
	if err := s.logRepo.Upsert(ctx, record); err != nil {
		return nil, s.fail(state, err)
	}

	state = StateAggregating
	if err := s.stats.Recompute(ctx); err != nil {
		return nil, s.fail(state, err)
	}

	slog.Info("日誌发布完成",
		"date", date,
		"tasks", len(record.Tasks),
		"learnings", len(record.Learnings),
		"mood", record.Mood,
		"fallback", fallback)

	return &IngestResult{
		Date:      date,
		State:     StateDone,
		Title:     record.Title,
		Tasks:     len(record.Tasks),
		Learnings: len(record.Learnings),
		Mood:      record.Mood,
		Fallback:  fallback,
	}, nil
}

// readNote 读取源日誌。缺失或读取出错都降级到合成占位文本，
// Reading 阶段只有在上下文被取消时才会真正失败。
func (s *IngestService) readNote(ctx context.Context, date string) (raw string, fallback bool, err error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	raw, err = s.source.Read(ctx, date)
	switch {
	case err == nil:
		return raw, false, nil
	case errors.Is(err, ErrNoteNotFound):
		slog.Info("当日无源日誌，使用占位内容", "date", date)
	default:
		slog.Warn("读取源日誌失败，降级为占位内容", "date", date, "error", err)
	}
	return extract.FallbackNote(date), true, nil
}

func (s *IngestService) fail(state RunState, err error) error {
	slog.Error("发布管道失败", "state", state, "error", err)
	return fmt.Errorf("管道在 %s 阶段失败: %w", state, err)
}
