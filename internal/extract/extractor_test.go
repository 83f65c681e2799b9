package extract

import (
	"strings"
	"testing"

	"github.com/BotsUP-A42/agent-diary/internal/schema"
)

func TestExtractMinimalNote(t *testing.T) {
	e := New(DefaultPolicy())
	record := e.Extract("2026-01-02", "# Title\n\nHello\n")

	if record.Title != "Title" {
		t.Fatalf("title=%q, want Title", record.Title)
	}
	if record.Summary != "Hello" {
		t.Fatalf("summary=%q, want Hello", record.Summary)
	}
	if len(record.Tasks) != 0 || len(record.Learnings) != 0 {
		t.Fatalf("tasks=%d learnings=%d, want 0/0", len(record.Tasks), len(record.Learnings))
	}
	if len(record.Tags) != 1 || record.Tags[0] != "daily" {
		t.Fatalf("tags=%v, want [daily]", record.Tags)
	}
	if record.Mood != schema.MoodProductive {
		t.Fatalf("mood=%q, want productive", record.Mood)
	}
}

const fullNote = `# 工作日誌 - 2026-01-02

## 今日完成任務
- [x] 完成部署
- [ ] 撰寫文件

## 學習心得
1. 學到 Firebase 快取機制
`

func TestExtractFullNote(t *testing.T) {
	e := New(DefaultPolicy())
	record := e.Extract("2026-01-02", fullNote)

	if len(record.Tasks) != 2 {
		t.Fatalf("tasks=%d, want 2", len(record.Tasks))
	}
	first, second := record.Tasks[0], record.Tasks[1]
	if first.Status != schema.TaskStatusCompleted || second.Status != schema.TaskStatusInProgress {
		t.Fatalf("statuses=%q/%q, want completed/in-progress", first.Status, second.Status)
	}
	if first.Category != schema.CategoryDevelopment {
		t.Fatalf("first category=%q, want development", first.Category)
	}
	if second.Category != schema.CategoryPlanning {
		t.Fatalf("second category=%q, want planning", second.Category)
	}
	if first.ID != 0 || second.ID != 1 {
		t.Fatalf("ids=%d/%d, want 0/1", first.ID, second.ID)
	}

	if len(record.Learnings) != 1 {
		t.Fatalf("learnings=%d, want 1", len(record.Learnings))
	}
	if record.Learnings[0].Topic != "學到 Firebase 快取機制" {
		t.Fatalf("topic=%q", record.Learnings[0].Topic)
	}

	wantTags := map[string]bool{"daily": true, "development": true, "deployment": true}
	if len(record.Tags) != len(wantTags) {
		t.Fatalf("tags=%v", record.Tags)
	}
	for _, tag := range record.Tags {
		if !wantTags[tag] {
			t.Fatalf("unexpected tag %q in %v", tag, record.Tags)
		}
	}

	if record.Mood != schema.MoodLearning {
		t.Fatalf("mood=%q, want learning", record.Mood)
	}
	if record.Content != fullNote {
		t.Fatal("content must be preserved verbatim")
	}
}

func TestExtractTotalityOnEmptyInput(t *testing.T) {
	e := New(DefaultPolicy())
	record := e.Extract("2026-01-02", "")

	if record.Title != "工作日誌 - 2026-01-02" {
		t.Fatalf("title=%q", record.Title)
	}
	if record.Summary != "今日工作記錄" {
		t.Fatalf("summary=%q", record.Summary)
	}
	if record.Tasks == nil || record.Learnings == nil || record.Tags == nil {
		t.Fatal("sequence fields must never be nil")
	}
	if record.Mood != schema.MoodProductive {
		t.Fatalf("mood=%q", record.Mood)
	}
}

func TestExtractFallbackNote(t *testing.T) {
	e := New(DefaultPolicy())
	record := e.Extract("2026-01-02", FallbackNote("2026-01-02"))

	if record.Title != "工作日誌 - 2026-01-02" {
		t.Fatalf("title=%q", record.Title)
	}
	// 占位正文不能被当作摘要
	if record.Summary != "今日工作記錄" {
		t.Fatalf("summary=%q, want 今日工作記錄", record.Summary)
	}
	if len(record.Tasks) != 0 || len(record.Learnings) != 0 {
		t.Fatalf("tasks=%d learnings=%d, want 0/0", len(record.Tasks), len(record.Learnings))
	}
}

// TestMoodLastRuleWins 固定遗留判定顺序：规则独立求值，后命中者覆盖。
// “錯誤”与“例行”同现时结果是 routine——如果哪天要“修正”优先级，
// 先改这里并评估历史数据。
func TestMoodLastRuleWins(t *testing.T) {
	e := New(DefaultPolicy())

	tests := []struct {
		name string
		text string
		want string
	}{
		{"challenging only", "今天出現錯誤", schema.MoodChallenging},
		{"learning overrides challenging", "修復錯誤後寫下心得", schema.MoodLearning},
		{"routine overrides challenging", "例行維護時出現錯誤", schema.MoodRoutine},
		{"routine overrides learning", "日常學習", schema.MoodRoutine},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := e.Extract("2026-01-02", tt.text)
			if record.Mood != tt.want {
				t.Fatalf("mood=%q, want %q", record.Mood, tt.want)
			}
		})
	}
}

func TestMoodLearningFromLearningsPolicy(t *testing.T) {
	// 学习区块里没有“學習/心得”关键词本身（标题会带，故用英文标题）
	note := "# Log\n\n## Insights\n1. Indexes speed up reads\n"

	if record := New(DefaultPolicy()).Extract("2026-01-02", note); record.Mood != schema.MoodProductive {
		t.Fatalf("default policy mood=%q, want productive", record.Mood)
	}
	if record := New(ScriptedUploadPolicy()).Extract("2026-01-02", note); record.Mood != schema.MoodLearning {
		t.Fatalf("scripted policy mood=%q, want learning", record.Mood)
	}
}

func TestSummaryFromTaskCountPolicy(t *testing.T) {
	e := New(ScriptedUploadPolicy())
	record := e.Extract("2026-01-02", fullNote)

	if record.Summary != "完成 1 項任務" {
		t.Fatalf("summary=%q, want 完成 1 項任務", record.Summary)
	}
}

func TestTopicTruncation(t *testing.T) {
	long := strings.Repeat("甲", 40)
	note := "# Log\n\n## Learnings\n1. " + long + "\n"

	record := New(DefaultPolicy()).Extract("2026-01-02", note)
	topic := []rune(record.Learnings[0].Topic)
	if len(topic) != 31 || string(topic[30]) != "…" {
		t.Fatalf("default topic=%q (%d runes)", record.Learnings[0].Topic, len(topic))
	}

	record = New(ScriptedUploadPolicy()).Extract("2026-01-02", note)
	if got := record.Learnings[0].Topic; got != long {
		t.Fatalf("scripted topic=%q, want full 40 runes", got)
	}
}

func TestTopicStopsAtSentenceEnd(t *testing.T) {
	note := "# Log\n\n## Learnings\n1. 快取要設過期時間。否則永遠不會更新\n"
	record := New(DefaultPolicy()).Extract("2026-01-02", note)

	if record.Learnings[0].Topic != "快取要設過期時間" {
		t.Fatalf("topic=%q", record.Learnings[0].Topic)
	}
	if record.Learnings[0].Insight != "快取要設過期時間。否則永遠不會更新" {
		t.Fatalf("insight=%q", record.Learnings[0].Insight)
	}
}

func TestTagsCaseSensitiveAndDeduped(t *testing.T) {
	e := New(DefaultPolicy())

	// 小写 ai 不触发——触发词是大小写敏感的字面匹配
	record := e.Extract("2026-01-02", "今天研究 ai 模型")
	for _, tag := range record.Tags {
		if tag == "ai" {
			t.Fatalf("lowercase trigger must not add ai tag: %v", record.Tags)
		}
	}

	// 两个触发词只产出一个标签
	record = e.Extract("2026-01-02", "用 Claude 寫 AI 程式")
	count := 0
	for _, tag := range record.Tags {
		if tag == "ai" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("ai tag count=%d, tags=%v", count, record.Tags)
	}
}

func TestPlainBulletsBecomeInProgressTasks(t *testing.T) {
	note := "# Log\n\n## Tasks\n- 調查連線逾時\n- [x] deploy 新版本\n"
	record := New(DefaultPolicy()).Extract("2026-01-02", note)

	if len(record.Tasks) != 2 {
		t.Fatalf("tasks=%d, want 2", len(record.Tasks))
	}
	if record.Tasks[0].Status != schema.TaskStatusInProgress {
		t.Fatalf("plain bullet status=%q", record.Tasks[0].Status)
	}
	if record.Tasks[0].Category != schema.CategoryResearch {
		t.Fatalf("category=%q, want research", record.Tasks[0].Category)
	}
	if record.Tasks[1].Status != schema.TaskStatusCompleted {
		t.Fatalf("checkbox status=%q", record.Tasks[1].Status)
	}
}

func TestPolicyByName(t *testing.T) {
	if _, err := PolicyByName("default"); err != nil {
		t.Fatalf("default: %v", err)
	}
	if _, err := PolicyByName("scripted"); err != nil {
		t.Fatalf("scripted: %v", err)
	}
	if _, err := PolicyByName("bogus"); err == nil {
		t.Fatal("bogus policy must be rejected")
	}
}
