package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/BotsUP-A42/agent-diary/internal/repository"
	"github.com/BotsUP-A42/agent-diary/internal/schema"
)

// ErrValidation 手动写入的入参校验错误，发生在任何存储变更之前
var ErrValidation = errors.New("参数校验失败")

// ErrLogNotFound 请求的日期没有记录
var ErrLogNotFound = errors.New("日誌不存在")

// LogService 日誌读写服务（手动写入路径与查询面）
type LogService struct {
	logRepo *repository.LogRepository
	stats   *StatsService
}

// NewLogService 创建服务
func NewLogService(logRepo *repository.LogRepository, stats *StatsService) *LogService {
	return &LogService{logRepo: logRepo, stats: stats}
}

// Create 校验并写入一条日誌，随后重算统计。
// date/title/content 任一缺失即拒绝，不产生任何部分效果。
func (s *LogService) Create(ctx context.Context, record *schema.LogRecord) error {
	if record.Date == "" {
		return fmt.Errorf("%w: date 不能为空", ErrValidation)
	}
	if record.Title == "" {
		return fmt.Errorf("%w: title 不能为空", ErrValidation)
	}
	if record.Content == "" {
		return fmt.Errorf("%w: content 不能为空", ErrValidation)
	}

	// 序列字段不允许缺失，聚合依赖它们恒为序列
	if record.Tasks == nil {
		record.Tasks = make(schema.TaskList, 0)
	}
	if record.Learnings == nil {
		record.Learnings = make(schema.LearningList, 0)
	}
	if record.Tags == nil {
		record.Tags = make(schema.JSONArray, 0)
	}
	if record.Mood == "" {
		record.Mood = schema.MoodProductive
	}

	if err := s.logRepo.Upsert(ctx, record); err != nil {
		return err
	}
	return s.stats.Recompute(ctx)
}

// Get 按日期读取，缺失时返回 ErrLogNotFound（与内部错误区分）
func (s *LogService) Get(ctx context.Context, date string) (*schema.LogRecord, error) {
	record, err := s.logRepo.GetByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: %s", ErrLogNotFound, date)
	}
	return record, nil
}

// List 分页查询
func (s *LogService) List(ctx context.Context, opts repository.ListOptions) ([]schema.LogRecord, int64, error) {
	return s.logRepo.List(ctx, opts)
}
