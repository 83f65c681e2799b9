package schema

import (
	"database/sql/driver"
	"encoding/json"
)

// scanBytes 把驱动返回的值规整为字节切片，未知类型返回 nil
func scanBytes(value interface{}) []byte {
	switch v := value.(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	default:
		return nil
	}
}

// JSONArray 用于存储 JSON 字符串数组
type JSONArray []string

// Value 实现 driver.Valuer 接口
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return "[]", nil
	}
	return json.Marshal(j)
}

// Scan 实现 sql.Scanner 接口
func (j *JSONArray) Scan(value interface{}) error {
	bytes := scanBytes(value)
	if bytes == nil {
		*j = make(JSONArray, 0)
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// TaskList 用于存储任务数组
type TaskList []Task

// Value 实现 driver.Valuer 接口
func (l TaskList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan 实现 sql.Scanner 接口
func (l *TaskList) Scan(value interface{}) error {
	bytes := scanBytes(value)
	if bytes == nil {
		*l = make(TaskList, 0)
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// LearningList 用于存储学习心得数组
type LearningList []Learning

// Value 实现 driver.Valuer 接口
func (l LearningList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan 实现 sql.Scanner 接口
func (l *LearningList) Scan(value interface{}) error {
	bytes := scanBytes(value)
	if bytes == nil {
		*l = make(LearningList, 0)
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// UsageColumn 以 JSON 存储的 token 用量列。区别于其他列，
// 缺失语义有意义（历史数据里大量日期没有用量），所以落库为 NULL 而不是空对象。
type UsageColumn TokenUsage

// Value 实现 driver.Valuer 接口
func (u *UsageColumn) Value() (driver.Value, error) {
	if u == nil {
		return nil, nil
	}
	return json.Marshal((*TokenUsage)(u))
}

// Scan 实现 sql.Scanner 接口
func (u *UsageColumn) Scan(value interface{}) error {
	bytes := scanBytes(value)
	if bytes == nil {
		return nil
	}
	return json.Unmarshal(bytes, (*TokenUsage)(u))
}

// JSONCountMap 用于存储类别到计数的映射
type JSONCountMap map[string]int

// Value 实现 driver.Valuer 接口
func (m JSONCountMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

// Scan 实现 sql.Scanner 接口
func (m *JSONCountMap) Scan(value interface{}) error {
	bytes := scanBytes(value)
	if bytes == nil {
		*m = make(JSONCountMap)
		return nil
	}
	return json.Unmarshal(bytes, m)
}
