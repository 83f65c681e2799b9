// Package extract 把自由格式的 markdown 日誌解析成结构化记录。
// 解析是启发式的正则匹配而不是严格的 markdown 解析——
// 区块标题词表与历史数据绑定，换成真正的解析器会让旧日誌重新分类。
// 对任意输入（包括空串）都返回完整记录，缺失的部分落到默认值，永不报错。
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/BotsUP-A42/agent-diary/internal/schema"
)

var (
	titleRe           = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	taskSectionRe     = regexp.MustCompile(`(?i)##\s+(?:今日完成任務|Tasks|Completed)[^#]*`)
	learningSectionRe = regexp.MustCompile(`(?i)##\s+(?:學習心得|Learnings|Insights)[^#]*`)
	checkboxRe        = regexp.MustCompile(`^- \[([ x])\]\s*(.+)$`)
	bulletRe          = regexp.MustCompile(`^- (.+)$`)
	numberedRe        = regexp.MustCompile(`^\d+\.\s*(.+)$`)
	completedMarkRe   = regexp.MustCompile(`- \[x\]`)
	stepPrefixRe      = regexp.MustCompile(`^### \d+\.\s*`)
)

// fallbackSummary 摘要兜底值
const fallbackSummary = "今日工作記錄"

// fallbackBody 无源日誌时的占位正文
const fallbackBody = "今日暫無詳細記錄。"

// FallbackNote 源日誌缺失时使用的合成文本。缺日誌不是错误，
// 当天仍然会发布一条占位记录。
func FallbackNote(date string) string {
	return fmt.Sprintf("# 工作日誌 - %s\n\n%s\n", date, fallbackBody)
}

// Extractor markdown 提取器，纯函数，无 I/O
type Extractor struct {
	policy Policy
}

// New 创建提取器
func New(policy Policy) *Extractor {
	return &Extractor{policy: policy}
}

// Extract 解析一天的原始文本，返回所有字段齐全的记录
func (e *Extractor) Extract(date, raw string) *schema.LogRecord {
	tasks := e.extractTasks(raw)
	learnings := e.extractLearnings(raw)

	return &schema.LogRecord{
		Date:      date,
		Title:     e.extractTitle(date, raw),
		Summary:   e.extractSummary(raw),
		Content:   raw, // 原文整体保留，便于追溯
		Tasks:     tasks,
		Learnings: learnings,
		Tags:      e.extractTags(raw),
		Mood:      e.detectMood(raw, learnings),
	}
}

// extractTitle 取第一个一级标题，缺失时按日期生成
func (e *Extractor) extractTitle(date, raw string) string {
	if m := titleRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return fmt.Sprintf("工作日誌 - %s", date)
}

// extractSummary 推导摘要。脚本上传策略按完成任务数生成；
// 默认策略取标题后的第一段正文。两者都取不到时落到兜底值。
func (e *Extractor) extractSummary(raw string) string {
	if e.policy.SummaryFromTaskCount {
		if section := taskSectionRe.FindString(raw); section != "" {
			n := len(completedMarkRe.FindAllString(section, -1))
			return fmt.Sprintf("完成 %d 項任務", n)
		}
		return fallbackSummary
	}

	if p := firstParagraph(raw); p != "" && p != fallbackBody {
		// 占位正文是我们自己合成的，不当作摘要
		return p
	}
	return fallbackSummary
}

// firstParagraph 取标题标题行之后第一段非空、非标题的正文
func firstParagraph(raw string) string {
	lines := strings.Split(raw, "\n")
	start := 0
	for i, line := range lines {
		if titleRe.MatchString(line) {
			start = i + 1
			break
		}
	}

	var paragraph []string
	for _, line := range lines[start:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(paragraph) > 0 {
				break
			}
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			if len(paragraph) > 0 {
				break
			}
			// 下一个标题之前没有正文，摘要落空
			return ""
		}
		paragraph = append(paragraph, trimmed)
	}
	return strings.Join(paragraph, " ")
}

// extractTasks 在任务区块内逐行提取任务。
// 勾选框决定状态，普通列表项一律视为进行中。
func (e *Extractor) extractTasks(raw string) schema.TaskList {
	tasks := make(schema.TaskList, 0)

	section := taskSectionRe.FindString(raw)
	if section == "" {
		return tasks
	}

	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)

		var description string
		status := schema.TaskStatusInProgress
		if m := checkboxRe.FindStringSubmatch(line); m != nil {
			if m[1] == "x" {
				status = schema.TaskStatusCompleted
			}
			description = m[2]
		} else if m := bulletRe.FindStringSubmatch(line); m != nil {
			description = m[1]
		} else {
			continue
		}

		description = strings.TrimSpace(stepPrefixRe.ReplaceAllString(description, ""))
		if description == "" {
			continue
		}

		tasks = append(tasks, schema.Task{
			ID:          len(tasks),
			Description: description,
			Category:    InferCategory(description),
			Status:      status,
		})
	}

	return tasks
}

// extractLearnings 在学习心得区块内提取有序列表项
func (e *Extractor) extractLearnings(raw string) schema.LearningList {
	learnings := make(schema.LearningList, 0)

	section := learningSectionRe.FindString(raw)
	if section == "" {
		return learnings
	}

	for _, line := range strings.Split(section, "\n") {
		m := numberedRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		insight := strings.TrimSpace(m[1])
		if insight == "" {
			continue
		}
		learnings = append(learnings, schema.Learning{
			Topic:   e.deriveTopic(insight),
			Insight: insight,
		})
	}

	return learnings
}

// sentenceEnders 主题截取用的断句标点
const sentenceEnders = ".!:。！："

// deriveTopic 从心得原文截出短主题：先断句，再按策略限长
func (e *Extractor) deriveTopic(insight string) string {
	sentence := insight
	if idx := strings.IndexAny(insight, sentenceEnders); idx >= 0 {
		sentence = insight[:idx]
	}
	sentence = strings.TrimSpace(sentence)

	runes := []rune(sentence)
	if len(runes) <= e.policy.TopicMaxRunes {
		return sentence
	}
	if e.policy.TopicEllipsis {
		return string(runes[:e.policy.TopicMaxRunes]) + "…"
	}
	return string(runes[:e.policy.TopicMaxRunes])
}

// tagRules 标签触发词。匹配是大小写敏感的字面包含——遗留行为。
var tagRules = []struct {
	tag      string
	triggers []string
}{
	{"ai", []string{"AI", "Claude"}},
	{"development", []string{"Firebase", "Next.js"}},
	{"deployment", []string{"部署", "上線"}},
}

// extractTags 固定种子 daily 加触发词标签，按首次加入顺序去重
func (e *Extractor) extractTags(raw string) schema.JSONArray {
	tags := schema.JSONArray{"daily"}
	seen := map[string]bool{"daily": true}

	for _, rule := range tagRules {
		if seen[rule.tag] {
			continue
		}
		for _, trigger := range rule.triggers {
			if strings.Contains(raw, trigger) {
				tags = append(tags, rule.tag)
				seen[rule.tag] = true
				break
			}
		}
	}

	return tags
}

// detectMood 判定当日心情。三条规则按固定顺序独立求值，
// 后命中者覆盖前者（不是优先级）——这里原样保留遗留顺序，
// 例如同时出现“錯誤”与“例行”时结果是 routine。
func (e *Extractor) detectMood(raw string, learnings schema.LearningList) string {
	mood := schema.MoodProductive
	if containsAny(raw, "錯誤", "Error", "failed") {
		mood = schema.MoodChallenging
	}
	if containsAny(raw, "學習", "心得") ||
		(e.policy.MoodLearningFromLearnings && len(learnings) > 0) {
		mood = schema.MoodLearning
	}
	if containsAny(raw, "例行", "日常") {
		mood = schema.MoodRoutine
	}
	return mood
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
