package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BotsUP-A42/agent-diary/internal/schema"
)

// statsRowID 统计快照是单例文档，固定主键
const statsRowID = 1

// StatsRepository 统计快照仓储
type StatsRepository struct {
	db *gorm.DB
}

// NewStatsRepository 创建仓储
func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Get 读取快照，尚未生成时返回 (nil, nil)
func (r *StatsRepository) Get(ctx context.Context) (*schema.StatsSnapshot, error) {
	var snapshot schema.StatsSnapshot
	err := r.db.WithContext(ctx).First(&snapshot, statsRowID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询统计快照失败: %w", err)
	}
	return &snapshot, nil
}

// Save 整体覆盖快照
func (r *StatsRepository) Save(ctx context.Context, snapshot *schema.StatsSnapshot) error {
	snapshot.ID = statsRowID
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(snapshot).Error
	if err != nil {
		return fmt.Errorf("写入统计快照失败: %w", err)
	}
	return nil
}
