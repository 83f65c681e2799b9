package extract

import "fmt"

// Policy 提取策略。历史上存在两套规则（定时发布版与脚本上传版），
// 摘要推导、主题截断、心情判定各不相同，这里显式建模成配置，
// 由调用方选择，不做隐式取舍。
type Policy struct {
	// SummaryFromTaskCount 为 true 时，存在任务区块即以
	// “完成 N 項任務”覆盖摘要；否则取标题后的第一段正文。
	SummaryFromTaskCount bool
	// TopicMaxRunes 学习主题的最大长度（按 rune 计）
	TopicMaxRunes int
	// TopicEllipsis 超长主题是否以省略号结尾
	TopicEllipsis bool
	// MoodLearningFromLearnings 为 true 时，只要提取到学习心得，
	// 心情即可判为 learning，不要求正文出现关键词。
	MoodLearningFromLearnings bool
}

// DefaultPolicy 防御式默认策略
func DefaultPolicy() Policy {
	return Policy{
		SummaryFromTaskCount:      false,
		TopicMaxRunes:             30,
		TopicEllipsis:             true,
		MoodLearningFromLearnings: false,
	}
}

// ScriptedUploadPolicy 脚本上传版策略，与历史数据对齐
func ScriptedUploadPolicy() Policy {
	return Policy{
		SummaryFromTaskCount:      true,
		TopicMaxRunes:             50,
		TopicEllipsis:             false,
		MoodLearningFromLearnings: true,
	}
}

// PolicyByName 按配置名解析策略
func PolicyByName(name string) (Policy, error) {
	switch name {
	case "", "default":
		return DefaultPolicy(), nil
	case "scripted":
		return ScriptedUploadPolicy(), nil
	default:
		return Policy{}, fmt.Errorf("未知的提取策略: %s", name)
	}
}
