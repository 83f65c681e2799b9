// Package scheduler 每日定时触发发布管道。
// 触发时处理的是“昨天”——跑完的那一天才有完整日誌。
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/BotsUP-A42/agent-diary/internal/service"
)

// Config 调度配置
type Config struct {
	Spec     string // cron 表达式，默认每天 23:00
	Timezone string // IANA 时区名，默认 Asia/Taipei
}

// Scheduler 每日发布调度器
type Scheduler struct {
	cron     *cron.Cron
	ingest   *service.IngestService
	location *time.Location
	spec     string
}

// New 创建调度器
func New(cfg Config, ingest *service.IngestService) (*Scheduler, error) {
	if cfg.Spec == "" {
		cfg.Spec = "0 23 * * *"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Asia/Taipei"
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("加载时区失败: %w", err)
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		ingest:   ingest,
		location: loc,
		spec:     cfg.Spec,
	}, nil
}

// Start 注册任务并启动。调度语义是 at-least-once：
// 重复触发同一天只是覆盖写同一条记录。
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		date := s.targetDate(time.Now())
		slog.Info("定时发布触发", "date", date)
		if _, err := s.ingest.Ingest(ctx, date); err != nil {
			// 不在进程内重试，下一次调度即是重试
			slog.Error("定时发布失败", "date", date, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("注册定时任务失败: %w", err)
	}

	s.cron.Start()
	slog.Info("调度器启动", "spec", s.spec, "timezone", s.location.String())
	return nil
}

// Stop 停止调度，等待正在运行的任务结束
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("调度器已停止")
}

// targetDate 按调度时区取昨天
func (s *Scheduler) targetDate(now time.Time) string {
	return now.In(s.location).AddDate(0, 0, -1).Format("2006-01-02")
}
