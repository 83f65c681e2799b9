// Package aggregate 对全量日誌做统计折叠。
// 设计上是每次写入后整表重算而不是增量更新：记录可以被人工覆盖，
// 增量公式的前提（记录只增不改）不成立，重算换正确性。
package aggregate

import (
	"time"

	"github.com/BotsUP-A42/agent-diary/internal/schema"
)

// Compute 对记录集合做一次确定性折叠，产出统计快照。
// 缺失的用量按 0 计，缺失的任务类别归入 other。
func Compute(records []schema.LogRecord, now time.Time) *schema.StatsSnapshot {
	snapshot := &schema.StatsSnapshot{
		CategoryDistribution: make(schema.JSONCountMap),
		LastUpdated:          now,
	}

	for i := range records {
		record := &records[i]
		snapshot.TotalDays++
		snapshot.TotalTasks += len(record.Tasks)
		snapshot.TotalLearnings += len(record.Learnings)
		snapshot.TotalCost += record.EstimatedCost()

		for _, task := range record.Tasks {
			category := task.Category
			if category == "" {
				category = schema.CategoryOther
			}
			snapshot.CategoryDistribution[category]++
		}
	}

	if snapshot.TotalDays > 0 {
		snapshot.AverageDailyCost = snapshot.TotalCost / float64(snapshot.TotalDays)
	}

	return snapshot
}
