// diary-cli 手动运维入口：补发某天的日誌、查看记录与统计。
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/BotsUP-A42/agent-diary/internal/extract"
	"github.com/BotsUP-A42/agent-diary/internal/pkg/config"
	"github.com/BotsUP-A42/agent-diary/internal/repository"
	"github.com/BotsUP-A42/agent-diary/internal/service"
	"github.com/BotsUP-A42/agent-diary/internal/usage"
)

var (
	cfgFile string
	cfg     *config.Config
	db      *repository.Database
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "diary-cli",
		Short: "agent-diary 手动运维工具",
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
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "配置文件路径")

	rootCmd.AddCommand(ingestCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(recomputeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newServices() (*service.IngestService, *service.LogService, *service.StatsService) {
	logRepo := repository.NewLogRepository(db.DB)
	statsRepo := repository.NewStatsRepository(db.DB)
	statsService := service.NewStatsService(logRepo, statsRepo)
	logService := service.NewLogService(logRepo, statsService)

	policy, err := extract.PolicyByName(cfg.Extraction.Policy)
	if err != nil {
		slog.Error("解析提取策略失败", "error", err)
		os.Exit(1)
	}

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

	return ingestService, logService, statsService
}

// ingestCmd 补发指定日期（默认昨天）的日誌
func ingestCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "发布指定日期的日誌（默认昨天）",
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = time.Now().AddDate(0, 0, -1).Format("2006-01-02")
			}
			if _, err := time.Parse("2006-01-02", date); err != nil {
				return fmt.Errorf("日期格式必须是 YYYY-MM-DD: %s", date)
			}

			ingestService, _, _ := newServices()
			result, err := ingestService.Ingest(context.Background(), date)
			if err != nil {
				return err
			}

			fmt.Printf("✅ %s 发布完成\n", result.Date)
			fmt.Printf("   标题: %s\n", result.Title)
			fmt.Printf("   任务: %d  心得: %d  心情: %s\n", result.Tasks, result.Learnings, result.Mood)
			if result.Fallback {
				fmt.Println("   （当日无源日誌，使用占位内容）")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "目标日期 YYYY-MM-DD")
	return cmd
}

// showCmd 查看某天的记录
func showCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "查看某天的日誌记录",
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				return fmt.Errorf("必须指定 --date")
			}

			_, logService, _ := newServices()
			record, err := logService.Get(context.Background(), date)
			if err != nil {
				return err
			}

			fmt.Printf("📅 %s  %s\n", record.Date, record.Title)
			fmt.Printf("   摘要: %s\n", record.Summary)
			fmt.Printf("   心情: %s  标签: %v\n", record.Mood, []string(record.Tags))
			for _, task := range record.Tasks {
				mark := "○"
				if task.Status == "completed" {
					mark = "●"
				}
				fmt.Printf("   %s [%s] %s\n", mark, task.Category, task.Description)
			}
			for _, learning := range record.Learnings {
				fmt.Printf("   💡 %s\n", learning.Insight)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "目标日期 YYYY-MM-DD")
	return cmd
}

// listCmd 最近的日誌列表
func listCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "列出最近的日誌",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logService, _ := newServices()
			records, total, err := logService.List(context.Background(), repository.ListOptions{
				Page:  1,
				Limit: limit,
			})
			if err != nil {
				return err
			}

			for _, record := range records {
				fmt.Printf("%s  %-30s 任务:%d 心得:%d %s\n",
					record.Date, record.Title, len(record.Tasks), len(record.Learnings), record.Mood)
			}
			fmt.Printf("共 %d 天\n", total)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "显示条数")
	return cmd
}

// statsCmd 查看统计快照
func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "查看统计快照",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, statsService := newServices()
			snapshot, err := statsService.Current(context.Background())
			if err != nil {
				return err
			}

			fmt.Printf("📊 累计 %d 天  任务 %d  心得 %d\n",
				snapshot.TotalDays, snapshot.TotalTasks, snapshot.TotalLearnings)
			fmt.Printf("   总成本 $%.4f  日均 $%.4f\n", snapshot.TotalCost, snapshot.AverageDailyCost)
			for category, count := range snapshot.CategoryDistribution {
				fmt.Printf("   %-15s %d\n", category, count)
			}
			if !snapshot.LastUpdated.IsZero() {
				fmt.Printf("   更新于 %s\n", snapshot.LastUpdated.Format(time.RFC3339))
			}
			return nil
		},
	}
}

// recomputeCmd 手动全量重算统计
func recomputeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recompute",
		Short: "全量重算统计快照",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, statsService := newServices()
			if err := statsService.Recompute(context.Background()); err != nil {
				return err
			}
			fmt.Println("✅ 统计已重算")
			return nil
		},
	}
}
