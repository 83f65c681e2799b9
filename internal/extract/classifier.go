package extract

import (
	"strings"

	"github.com/BotsUP-A42/agent-diary/internal/schema"
)

// categoryKeywords 类别关键词表。匹配按声明顺序进行，先中者胜。
// 词表是对外契约的一部分：改动会让历史日誌重新分类，
// 只允许追加，不允许删改。
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{schema.CategoryDevelopment, []string{
		"開發", "deploy", "部署", "build", "code", "程式", "firebase", "next.js", "網站", "安裝",
	}},
	{schema.CategoryResearch, []string{
		"研究", "調查", "search", "查詢",
	}},
	{schema.CategoryLearning, []string{
		"學習", "learning", "心得",
	}},
	{schema.CategoryCommunication, []string{
		"溝通", "討論", "slack", "會議", "訊息", "對話",
	}},
	{schema.CategoryPlanning, []string{
		"規劃", "計畫", "排程", "規格", "設計", "撰寫",
	}},
}

// InferCategory 根据任务描述推断类别。大小写不敏感；
// 无一命中时返回 development——这是遗留默认值，统计分布依赖它。
func InferCategory(text string) string {
	lower := strings.ToLower(text)
	for _, set := range categoryKeywords {
		for _, kw := range set.keywords {
			if strings.Contains(lower, kw) {
				return set.category
			}
		}
	}
	return schema.CategoryDevelopment
}
