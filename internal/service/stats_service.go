package service

import (
	"context"
	"time"

	"github.com/BotsUP-A42/agent-diary/internal/aggregate"
	"github.com/BotsUP-A42/agent-diary/internal/repository"
	"github.com/BotsUP-A42/agent-diary/internal/schema"
)

// StatsService 统计服务：全量重算与读路径
type StatsService struct {
	logRepo   *repository.LogRepository
	statsRepo *repository.StatsRepository
	now       func() time.Time
}

// NewStatsService 创建统计服务
func NewStatsService(logRepo *repository.LogRepository, statsRepo *repository.StatsRepository) *StatsService {
	return &StatsService{
		logRepo:   logRepo,
		statsRepo: statsRepo,
		now:       time.Now,
	}
}

// Recompute 扫描全量日誌并覆盖统计快照。
// O(全历史任务数)，当前量级（一天一条）下成本可忽略。
func (s *StatsService) Recompute(ctx context.Context) error {
	records, err := s.logRepo.GetAll(ctx)
	if err != nil {
		return err
	}
	snapshot := aggregate.Compute(records, s.now())
	return s.statsRepo.Save(ctx, snapshot)
}

// Current 读取当前快照。尚未生成时返回全零快照而不是错误，
// 读路径永远有可渲染的值。
func (s *StatsService) Current(ctx context.Context) (*schema.StatsSnapshot, error) {
	snapshot, err := s.statsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return &schema.StatsSnapshot{
			CategoryDistribution: make(schema.JSONCountMap),
		}, nil
	}
	if snapshot.CategoryDistribution == nil {
		snapshot.CategoryDistribution = make(schema.JSONCountMap)
	}
	return snapshot, nil
}

// Overview 快照加最近若干天的日誌，供统计页一次取全
func (s *StatsService) Overview(ctx context.Context, recentDays int) (*schema.StatsSnapshot, []schema.LogRecord, error) {
	snapshot, err := s.Current(ctx)
	if err != nil {
		return nil, nil, err
	}
	if recentDays <= 0 {
		recentDays = 30
	}
	recent, err := s.logRepo.GetRecent(ctx, recentDays)
	if err != nil {
		return nil, nil, err
	}
	return snapshot, recent, nil
}
