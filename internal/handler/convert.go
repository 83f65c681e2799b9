package handler

import (
	"time"

	"github.com/BotsUP-A42/agent-diary/internal/dto"
	"github.com/BotsUP-A42/agent-diary/internal/schema"
)

func toLogDTO(record *schema.LogRecord) dto.LogDTO {
	out := dto.LogDTO{
		ID:        record.Date,
		Date:      record.Date,
		Title:     record.Title,
		Summary:   record.Summary,
		Content:   record.Content,
		Tasks:     make([]dto.TaskDTO, 0, len(record.Tasks)),
		Learnings: make([]dto.LearningDTO, 0, len(record.Learnings)),
		Tags:      append([]string{}, record.Tags...),
		Mood:      record.Mood,
		CreatedAt: record.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: record.UpdatedAt.UTC().Format(time.RFC3339),
	}

	for _, task := range record.Tasks {
		out.Tasks = append(out.Tasks, dto.TaskDTO{
			ID:          task.ID,
			Description: task.Description,
			Category:    task.Category,
			Status:      task.Status,
		})
	}
	for _, learning := range record.Learnings {
		out.Learnings = append(out.Learnings, dto.LearningDTO{
			Topic:   learning.Topic,
			Insight: learning.Insight,
		})
	}
	if record.Usage != nil {
		out.Usage = toUsageDTO((*schema.TokenUsage)(record.Usage))
	}

	return out
}

func toUsageDTO(usage *schema.TokenUsage) *dto.TokenUsageDTO {
	out := &dto.TokenUsageDTO{
		Date:           usage.Date,
		Requests:       usage.Requests,
		InputTokens:    usage.InputTokens,
		OutputTokens:   usage.OutputTokens,
		TotalTokens:    usage.TotalTokens,
		EstimatedCost:  usage.EstimatedCost,
		ModelBreakdown: make([]dto.ModelUsageDTO, 0, len(usage.ModelBreakdown)),
	}
	for _, m := range usage.ModelBreakdown {
		out.ModelBreakdown = append(out.ModelBreakdown, dto.ModelUsageDTO{
			Model:    m.Model,
			Requests: m.Requests,
			Cost:     m.Cost,
		})
	}
	return out
}

func toStatsDTO(snapshot *schema.StatsSnapshot) dto.StatsDTO {
	out := dto.StatsDTO{
		TotalDays:            snapshot.TotalDays,
		TotalTasks:           snapshot.TotalTasks,
		TotalLearnings:       snapshot.TotalLearnings,
		TotalCost:            snapshot.TotalCost,
		AverageDailyCost:     snapshot.AverageDailyCost,
		CategoryDistribution: map[string]int(snapshot.CategoryDistribution),
	}
	if out.CategoryDistribution == nil {
		out.CategoryDistribution = map[string]int{}
	}
	if !snapshot.LastUpdated.IsZero() {
		out.LastUpdated = snapshot.LastUpdated.UTC().Format(time.RFC3339)
	}
	return out
}

func fromCreateRequest(req *dto.CreateLogRequest) *schema.LogRecord {
	record := &schema.LogRecord{
		Date:      req.Date,
		Title:     req.Title,
		Summary:   req.Summary,
		Content:   req.Content,
		Tasks:     make(schema.TaskList, 0, len(req.Tasks)),
		Learnings: make(schema.LearningList, 0, len(req.Learnings)),
		Tags:      append(schema.JSONArray{}, req.Tags...),
		Mood:      req.Mood,
	}

	for _, task := range req.Tasks {
		record.Tasks = append(record.Tasks, schema.Task{
			ID:          task.ID,
			Description: task.Description,
			Category:    task.Category,
			Status:      task.Status,
		})
	}
	for _, learning := range req.Learnings {
		record.Learnings = append(record.Learnings, schema.Learning{
			Topic:   learning.Topic,
			Insight: learning.Insight,
		})
	}
	if req.Usage != nil {
		usage := schema.UsageColumn{
			Date:          req.Usage.Date,
			Requests:      req.Usage.Requests,
			InputTokens:   req.Usage.InputTokens,
			OutputTokens:  req.Usage.OutputTokens,
			TotalTokens:   req.Usage.TotalTokens,
			EstimatedCost: req.Usage.EstimatedCost,
		}
		for _, m := range req.Usage.ModelBreakdown {
			usage.ModelBreakdown = append(usage.ModelBreakdown, schema.ModelUsage{
				Model:    m.Model,
				Requests: m.Requests,
				Cost:     m.Cost,
			})
		}
		record.Usage = &usage
	}

	return record
}
