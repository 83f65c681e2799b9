package aggregate

import (
	"testing"
	"time"

	"github.com/BotsUP-A42/agent-diary/internal/schema"
)

func TestComputeEmpty(t *testing.T) {
	snapshot := Compute(nil, time.Now())

	if snapshot.TotalDays != 0 || snapshot.TotalTasks != 0 || snapshot.TotalLearnings != 0 {
		t.Fatalf("counters=%+v, want zeros", snapshot)
	}
	if snapshot.TotalCost != 0 || snapshot.AverageDailyCost != 0 {
		t.Fatalf("costs=%v/%v, want 0/0", snapshot.TotalCost, snapshot.AverageDailyCost)
	}
	if snapshot.CategoryDistribution == nil || len(snapshot.CategoryDistribution) != 0 {
		t.Fatalf("distribution=%v, want empty map", snapshot.CategoryDistribution)
	}
}

func TestComputeFold(t *testing.T) {
	records := []schema.LogRecord{
		{
			Date: "2026-01-01",
			Tasks: schema.TaskList{
				{ID: 0, Category: schema.CategoryDevelopment},
				{ID: 1, Category: schema.CategoryPlanning},
			},
			Learnings: schema.LearningList{{Topic: "a", Insight: "a"}},
			Usage:     &schema.UsageColumn{EstimatedCost: 1.5},
		},
		{
			Date: "2026-01-02",
			Tasks: schema.TaskList{
				{ID: 0, Category: schema.CategoryDevelopment},
				{ID: 1, Category: ""}, // 缺类别归入 other
			},
			// Usage 缺失按 0 计
		},
		{
			Date:      "2026-01-03",
			Learnings: schema.LearningList{{Topic: "b", Insight: "b"}, {Topic: "c", Insight: "c"}},
			Usage:     &schema.UsageColumn{EstimatedCost: 0.5},
		},
	}

	now := time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)
	snapshot := Compute(records, now)

	if snapshot.TotalDays != 3 {
		t.Fatalf("totalDays=%d, want 3", snapshot.TotalDays)
	}
	if snapshot.TotalTasks != 4 {
		t.Fatalf("totalTasks=%d, want 4", snapshot.TotalTasks)
	}
	if snapshot.TotalLearnings != 3 {
		t.Fatalf("totalLearnings=%d, want 3", snapshot.TotalLearnings)
	}
	if snapshot.TotalCost != 2.0 {
		t.Fatalf("totalCost=%v, want 2.0", snapshot.TotalCost)
	}
	if want := 2.0 / 3.0; snapshot.AverageDailyCost != want {
		t.Fatalf("averageDailyCost=%v, want %v", snapshot.AverageDailyCost, want)
	}
	if !snapshot.LastUpdated.Equal(now) {
		t.Fatalf("lastUpdated=%v, want %v", snapshot.LastUpdated, now)
	}

	want := map[string]int{
		schema.CategoryDevelopment: 2,
		schema.CategoryPlanning:    1,
		schema.CategoryOther:       1,
	}
	if len(snapshot.CategoryDistribution) != len(want) {
		t.Fatalf("distribution=%v", snapshot.CategoryDistribution)
	}
	sum := 0
	for category, count := range want {
		if snapshot.CategoryDistribution[category] != count {
			t.Fatalf("distribution[%s]=%d, want %d", category, snapshot.CategoryDistribution[category], count)
		}
	}
	for _, count := range snapshot.CategoryDistribution {
		sum += count
	}
	// 分布计数之和必须等于任务总数
	if sum != snapshot.TotalTasks {
		t.Fatalf("distribution sum=%d, want %d", sum, snapshot.TotalTasks)
	}
}

// TestComputeDeterministic 同一输入折叠两次结果一致
func TestComputeDeterministic(t *testing.T) {
	records := []schema.LogRecord{
		{Date: "2026-01-01", Tasks: schema.TaskList{{Category: schema.CategoryResearch}}},
	}
	now := time.Now()

	a := Compute(records, now)
	b := Compute(records, now)
	if a.TotalTasks != b.TotalTasks || a.TotalCost != b.TotalCost ||
		a.CategoryDistribution[schema.CategoryResearch] != b.CategoryDistribution[schema.CategoryResearch] {
		t.Fatalf("fold is not deterministic: %+v vs %+v", a, b)
	}
}
