// diaryd 是日誌发布守护进程：定时发布昨天的日誌、
// 监控源目录即存即发、对外提供查询 API。
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/BotsUP-A42/agent-diary/internal/extract"
	"github.com/BotsUP-A42/agent-diary/internal/handler"
	"github.com/BotsUP-A42/agent-diary/internal/pkg/buildinfo"
	"github.com/BotsUP-A42/agent-diary/internal/pkg/config"
	"github.com/BotsUP-A42/agent-diary/internal/repository"
	"github.com/BotsUP-A42/agent-diary/internal/scheduler"
	"github.com/BotsUP-A42/agent-diary/internal/service"
	"github.com/BotsUP-A42/agent-diary/internal/usage"
	"github.com/BotsUP-A42/agent-diary/internal/watcher"
)

var (
	cfgFile string
	cfg     *config.Config
	db      *repository.Database
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "diaryd",
		Short:   "agent-diary 每日日誌发布服务",
		Long:    `diaryd 定时读取当天的 markdown 工作日誌，提取结构化字段并发布，同时对前端提供列表与统计 API。`,
		Version: buildinfo.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				slog.Error("加载配置失败", "error", err)
				os.Exit(1)
			}
			config.SetupLogger(cfg.App.LogLevel)

			db, err = repository.NewDatabase(cfg.Storage.DBPath)
			if err != nil {
				slog.Error("初始化数据库失败", "error", err)
				os.Exit(1)
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if db != nil {
				db.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "配置文件路径")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	if db.SafeMode {
		// 安全模式下只提供读接口，不启动任何写路径
		slog.Warn("数据库处于安全模式，禁用调度与监控", "error", db.MigrationError)
	}

	policy, err := extract.PolicyByName(cfg.Extraction.Policy)
	if err != nil {
		return err
	}

	logRepo := repository.NewLogRepository(db.DB)
	statsRepo := repository.NewStatsRepository(db.DB)
	statsService := service.NewStatsService(logRepo, statsRepo)
	logService := service.NewLogService(logRepo, statsService)

	var usageSource service.UsageSource
	if client := usage.NewOpenRouterClient(&usage.OpenRouterConfig{
		APIKey:  cfg.Usage.OpenRouter.APIKey,
		BaseURL: cfg.Usage.OpenRouter.BaseURL,
	}); client != nil {
		usageSource = client
	}

	ingestService := service.NewIngestService(
		logRepo,
		statsService,
		service.NewFileNoteSource(cfg.Notes.Dir),
		usageSource,
		extract.New(policy),
		time.Duration(cfg.Pipeline.TimeoutSec)*time.Second,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Scheduler.Enabled && !db.SafeMode {
		sched, err := scheduler.New(scheduler.Config{
			Spec:     cfg.Scheduler.Spec,
			Timezone: cfg.Scheduler.Timezone,
		}, ingestService)
		if err != nil {
			return err
		}
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer sched.Stop()
	}

	if cfg.Notes.Watch && !db.SafeMode {
		noteWatcher, err := watcher.NewNoteWatcher(cfg.Notes.Dir, ingestService)
		if err != nil {
			return fmt.Errorf("创建源日誌监控失败: %w", err)
		}
		if err := noteWatcher.Start(ctx); err != nil {
			slog.Warn("启动源日誌监控失败", "dir", cfg.Notes.Dir, "error", err)
		} else {
			defer noteWatcher.Stop()
		}
	}

	api := handler.NewAPI(logService, statsService, ingestService)
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP 服务启动", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("收到退出信号", "signal", sig.String())
	case err := <-errCh:
		return fmt.Errorf("HTTP 服务异常: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP 服务关闭超时", "error", err)
	}

	return nil
}
