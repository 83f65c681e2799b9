package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BotsUP-A42/agent-diary/internal/schema"
)

// LogRepository 日誌仓储，以 date 为业务主键
type LogRepository struct {
	db *gorm.DB
}

// NewLogRepository 创建仓储
func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

// Upsert 插入或按 date 覆盖。一天一条记录的不变量由 date 唯一索引保证。
func (r *LogRepository) Upsert(ctx context.Context, record *schema.LogRecord) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		UpdateAll: true,
	}).Create(record).Error
	if err != nil {
		return fmt.Errorf("写入日誌失败: %w", err)
	}
	return nil
}

// GetByDate 按日期获取，不存在时返回 (nil, nil)
func (r *LogRepository) GetByDate(ctx context.Context, date string) (*schema.LogRecord, error) {
	var record schema.LogRecord
	err := r.db.WithContext(ctx).Where("date = ?", date).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询日誌失败: %w", err)
	}
	return &record, nil
}

// ListOptions 列表查询参数
type ListOptions struct {
	Page      int    // 从 1 开始
	Limit     int
	StartDate string // 闭区间，空串表示不限
	EndDate   string
	Tag       string
	Category  string
}

// List 分页查询，按 date 倒序，返回当前页与总数。
// tag/category 过滤基于 JSON 列的子串匹配——与原系统的启发式
// 一致，量级在千行以内时足够。
func (r *LogRepository) List(ctx context.Context, opts ListOptions) ([]schema.LogRecord, int64, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 10
	}

	query := r.db.WithContext(ctx).Model(&schema.LogRecord{})
	if opts.StartDate != "" {
		query = query.Where("date >= ?", opts.StartDate)
	}
	if opts.EndDate != "" {
		query = query.Where("date <= ?", opts.EndDate)
	}
	if opts.Tag != "" {
		query = query.Where("tags LIKE ?", "%\""+opts.Tag+"\"%")
	}
	if opts.Category != "" {
		query = query.Where("tasks LIKE ?", "%\"category\":\""+opts.Category+"\"%")
	}

	// Count 与 Find 各用一份会话，避免链式语句状态互相污染
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计日誌总数失败: %w", err)
	}

	var records []schema.LogRecord
	err := query.
		Order("date DESC").
		Limit(opts.Limit).
		Offset((opts.Page - 1) * opts.Limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询日誌列表失败: %w", err)
	}

	return records, total, nil
}

// GetRecent 获取最近的日誌（按 date 倒序）
func (r *LogRepository) GetRecent(ctx context.Context, limit int) ([]schema.LogRecord, error) {
	var records []schema.LogRecord
	err := r.db.WithContext(ctx).
		Order("date DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("查询最近日誌失败: %w", err)
	}
	return records, nil
}

// GetAll 全量扫描（按 date 正序），供统计重算使用
func (r *LogRepository) GetAll(ctx context.Context) ([]schema.LogRecord, error) {
	var records []schema.LogRecord
	err := r.db.WithContext(ctx).
		Order("date ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("扫描日誌失败: %w", err)
	}
	return records, nil
}

// Count 日誌总数
func (r *LogRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&schema.LogRecord{}).Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("统计日誌总数失败: %w", err)
	}
	return total, nil
}
