package dto

// 注意：本包承载“对外契约”的 DTO（与前端 JSON 字段保持稳定，沿用
// Firestore 时代的 camelCase）。不要在这里放 GORM/持久化细节；
// 内部持久化 schema 见 internal/schema，业务逻辑收敛在 internal/service。

type TaskDTO struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Status      string `json:"status"`
}

type LearningDTO struct {
	Topic   string `json:"topic"`
	Insight string `json:"insight"`
}

type ModelUsageDTO struct {
	Model    string  `json:"model"`
	Requests int     `json:"requests"`
	Cost     float64 `json:"cost"`
}

type TokenUsageDTO struct {
	Date           string          `json:"date"`
	Requests       int             `json:"requests"`
	InputTokens    int64           `json:"inputTokens"`
	OutputTokens   int64           `json:"outputTokens"`
	TotalTokens    int64           `json:"totalTokens"`
	EstimatedCost  float64         `json:"estimatedCost"`
	ModelBreakdown []ModelUsageDTO `json:"modelBreakdown"`
}

type LogDTO struct {
	ID        string         `json:"id"` // 即 date，保持旧前端的文档 id 语义
	Date      string         `json:"date"`
	Title     string         `json:"title"`
	Summary   string         `json:"summary"`
	Content   string         `json:"content"`
	Tasks     []TaskDTO      `json:"tasks"`
	Learnings []LearningDTO  `json:"learnings"`
	Usage     *TokenUsageDTO `json:"tokenUsage"`
	Tags      []string       `json:"tags"`
	Mood      string         `json:"mood"`
	CreatedAt string         `json:"createdAt"`
	UpdatedAt string         `json:"updatedAt"`
}

type PaginationDTO struct {
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	Total      int64  `json:"total"`
	TotalPages int    `json:"totalPages"`
	HasMore    bool   `json:"hasMore"`
	NextCursor string `json:"nextCursor,omitempty"` // 当前页最后一条的 date
}

type LogListDTO struct {
	Logs       []LogDTO      `json:"logs"`
	Pagination PaginationDTO `json:"pagination"`
}

type StatsDTO struct {
	TotalDays            int            `json:"totalDays"`
	TotalTasks           int            `json:"totalTasks"`
	TotalLearnings       int            `json:"totalLearnings"`
	TotalCost            float64        `json:"totalCost"`
	AverageDailyCost     float64        `json:"averageDailyCost"`
	CategoryDistribution map[string]int `json:"categoryDistribution"`
	LastUpdated          string         `json:"lastUpdated"`
}

type StatsOverviewDTO struct {
	StatsDTO
	RecentLogs []LogDTO `json:"recentLogs"`
}

type CreateLogRequest struct {
	Date      string         `json:"date"`
	Title     string         `json:"title"`
	Summary   string         `json:"summary"`
	Content   string         `json:"content"`
	Tasks     []TaskDTO      `json:"tasks"`
	Learnings []LearningDTO  `json:"learnings"`
	Usage     *TokenUsageDTO `json:"tokenUsage"`
	Tags      []string       `json:"tags"`
	Mood      string         `json:"mood"`
}

type CreateLogResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}
