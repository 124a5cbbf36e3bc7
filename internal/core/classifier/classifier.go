package classifier

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pantrify/internal/core/ingredient"
	"pantrify/internal/infrastructure/cache"
	"pantrify/internal/infrastructure/config"
	"pantrify/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	systemPrompt   = "You are a food unit classifier. Respond only with 'grams', 'liters', or 'pieces'."
	cacheNamespace = "unit"
)

// Result 分類結果
type Result struct {
	UnitType ingredient.UnitType `json:"unit_type"`
	// Fallback 表示未取得有效答案，已使用預設類別
	Fallback bool `json:"fallback"`
	Cached   bool `json:"cached"`
}

// Classifier 判斷食材應使用的單位類別
type Classifier interface {
	Classify(ctx context.Context, name string) Result
}

// Client OpenAI 相容的聊天補全分類器
type Client struct {
	enabled bool
	model   string
	client  *resty.Client
	cache   cache.Cache
}

// NewClient 創建分類器客戶端，c 可為 nil
func NewClient(cfg config.ClassifierConfig, c cache.Cache) *Client {
	if c == nil {
		c = cache.Noop{}
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &Client{
		enabled: cfg.Enabled,
		model:   cfg.Model,
		client:  client,
		cache:   c,
	}
}

// Classify 取得食材的單位類別，任何失敗或非預期回答都回退為 pieces
func (c *Client) Classify(ctx context.Context, name string) Result {
	key := ingredient.Key(name)
	if key == "" || !c.enabled {
		return fallback()
	}

	if v, err := c.cache.Get(ctx, cacheNamespace, key); err == nil {
		if unit, ok := ingredient.ParseUnitType(v); ok {
			return Result{UnitType: unit, Cached: true}
		}
	}

	start := time.Now()
	answer, err := c.complete(ctx, name)
	common.LogExternalCall("classifier", time.Since(start), err)
	if err != nil {
		return fallback()
	}

	unit, ok := parseAnswer(answer)
	if !ok {
		common.LogWarn("分類器回應非預期", zap.String("ingredient", key), zap.String("answer", answer))
		return fallback()
	}

	if err := c.cache.Set(ctx, cacheNamespace, key, string(unit), 0); err != nil {
		common.LogWarn("分類結果快取失敗", zap.Error(err))
	}
	return Result{UnitType: unit}
}

// complete 呼叫聊天補全並回傳第一個回答
func (c *Client) complete(ctx context.Context, name string) (string, error) {
	req := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": "Ingredient: " + name},
		},
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/chat/completions")
	if err != nil {
		return "", common.ErrClassifierFailed.Wrap(err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", common.ErrClassifierFailed.Wrap(fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String()))
	}
	if len(result.Choices) == 0 {
		return "", common.ErrClassifierFailed.Wrap(fmt.Errorf("no choices in response"))
	}
	return result.Choices[0].Message.Content, nil
}

// parseAnswer 只接受完全等於類別名稱的回答
func parseAnswer(answer string) (ingredient.UnitType, bool) {
	switch unit := ingredient.UnitType(strings.ToLower(strings.TrimSpace(answer))); unit {
	case ingredient.UnitGrams, ingredient.UnitLiters, ingredient.UnitPieces:
		return unit, true
	}
	return "", false
}

func fallback() Result {
	return Result{UnitType: ingredient.DefaultUnitType, Fallback: true}
}
