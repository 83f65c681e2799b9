package schema

import "time"

// Mood 每日状态
const (
	MoodProductive  = "productive"  // 高产
	MoodChallenging = "challenging" // 受挫
	MoodLearning    = "learning"    // 学习
	MoodRoutine     = "routine"     // 例行
)

// Category 任务类别
const (
	CategoryDevelopment   = "development"
	CategoryResearch      = "research"
	CategoryLearning      = "learning"
	CategoryCommunication = "communication"
	CategoryPlanning      = "planning"
	// CategoryOther 仅作为统计聚合的兜底值，提取器不会产出它。
	CategoryOther = "other"
)

// TaskStatus 任务状态
const (
	TaskStatusCompleted  = "completed"
	TaskStatusInProgress = "in-progress"
)

// Task 从日誌中提取的一条任务
type Task struct {
	ID          int    `json:"id"`          // 记录内的顺序编号，从 0 开始
	Description string `json:"description"` // 去掉列表标记后的文本
	Category    string `json:"category"`
	Status      string `json:"status"` // completed | in-progress
}

// Learning 从日誌中提取的一条学习心得
type Learning struct {
	Topic   string `json:"topic"`   // 截断后的短标签
	Insight string `json:"insight"` // 完整原文
}

// ModelUsage 单模型用量
type ModelUsage struct {
	Model    string  `json:"model"`
	Requests int     `json:"requests"`
	Cost     float64 `json:"cost"`
}

// TokenUsage 当日 token 用量快照，可能缺失
type TokenUsage struct {
	Date           string       `json:"date"`
	Requests       int          `json:"requests"`
	InputTokens    int64        `json:"inputTokens"`
	OutputTokens   int64        `json:"outputTokens"`
	TotalTokens    int64        `json:"totalTokens"`
	EstimatedCost  float64      `json:"estimatedCost"`
	ModelBreakdown []ModelUsage `json:"modelBreakdown"`
}

// LogRecord 一天的结构化日誌。date 是唯一键，重复写入即覆盖。
// tasks/learnings/tags 永远是序列（可以为空），不允许缺失，
// 否则下游聚合需要到处判空。
type LogRecord struct {
	ID        int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	Date      string       `gorm:"size:10;uniqueIndex" json:"date"` // YYYY-MM-DD
	Title     string       `gorm:"size:255" json:"title"`
	Summary   string       `gorm:"type:text" json:"summary"`
	Content   string       `gorm:"type:text" json:"content"` // 原始 markdown，原样保留
	Tasks     TaskList     `gorm:"type:text" json:"tasks"`
	Learnings LearningList `gorm:"type:text" json:"learnings"`
	Usage     *UsageColumn `gorm:"type:text" json:"tokenUsage"` // 可为空
	Tags      JSONArray    `gorm:"type:text" json:"tags"`
	Mood      string       `gorm:"size:20" json:"mood"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (LogRecord) TableName() string {
	return "log_records"
}

// EstimatedCost 当日成本，缺失按 0 计
func (r *LogRecord) EstimatedCost() float64 {
	if r.Usage == nil {
		return 0
	}
	return r.Usage.EstimatedCost
}
