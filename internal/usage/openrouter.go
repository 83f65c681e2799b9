// Package usage 从 OpenRouter 拉取当日 token 用量快照。
// 用量是可选字段：未配置 API Key 时整个模块静默缺席，日誌照常发布。
package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/BotsUP-A42/agent-diary/internal/schema"
)

// OpenRouterClient OpenRouter API 客户端
type OpenRouterClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// OpenRouterConfig 配置
type OpenRouterConfig struct {
	APIKey  string
	BaseURL string
}

// NewOpenRouterClient 创建客户端。APIKey 为空时返回 nil，
// 调用方按“无用量来源”处理。
func NewOpenRouterClient(cfg *OpenRouterConfig) *OpenRouterClient {
	if cfg == nil || cfg.APIKey == "" {
		return nil
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai"
	}

	return &OpenRouterClient{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// creditsResponse /api/v1/credits 响应体
type creditsResponse struct {
	Data struct {
		TotalCredits float64 `json:"total_credits"`
		TotalUsage   float64 `json:"total_usage"`
	} `json:"data"`
}

// Snapshot 返回某天的用量快照。
// 接口只给累计口径，这里落成当日快照，成本字段供聚合使用。
func (c *OpenRouterClient) Snapshot(ctx context.Context, date string) (*schema.TokenUsage, error) {
	if c == nil {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/v1/credits", nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求用量接口失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("用量接口返回 %d: %s", resp.StatusCode, string(body))
	}

	var credits creditsResponse
	if err := json.NewDecoder(resp.Body).Decode(&credits); err != nil {
		return nil, fmt.Errorf("解析用量响应失败: %w", err)
	}

	return &schema.TokenUsage{
		Date:           date,
		EstimatedCost:  credits.Data.TotalUsage,
		ModelBreakdown: []schema.ModelUsage{},
	}, nil
}
