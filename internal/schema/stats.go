package schema

import "time"

// StatsSnapshot 全量统计快照，单行（ID=1），每次写入后整表重算。
type StatsSnapshot struct {
	ID                   int          `gorm:"primaryKey" json:"id"`
	TotalDays            int          `gorm:"default:0" json:"total_days"`
	TotalTasks           int          `gorm:"default:0" json:"total_tasks"`
	TotalLearnings       int          `gorm:"default:0" json:"total_learnings"`
	TotalCost            float64      `gorm:"default:0" json:"total_cost"`
	AverageDailyCost     float64      `gorm:"default:0" json:"average_daily_cost"`
	CategoryDistribution JSONCountMap `gorm:"type:text" json:"category_distribution"`
	LastUpdated          time.Time    `json:"last_updated"`
}

// TableName 指定表名
func (StatsSnapshot) TableName() string {
	return "stats_snapshots"
}
