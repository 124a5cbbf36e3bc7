package mealdb

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pantrify/internal/infrastructure/cache"
	"pantrify/internal/infrastructure/config"
	"pantrify/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	// defaultQuery 空白查詢時使用，TheMealDB 以首字母回傳一批食譜
	defaultQuery   = "a"
	maxIngredients = 20
	cacheNamespace = "mealdb"
)

// WebRecipe 外部搜尋取得的食譜，尚未儲存
type WebRecipe struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Tags         []string `json:"tags"`
	SourceURL    *string  `json:"source_url,omitempty"`
	VideoURL     *string  `json:"video_url,omitempty"`
}

// Searcher 食譜搜尋
type Searcher interface {
	Search(ctx context.Context, query string) ([]WebRecipe, error)
}

// Client TheMealDB 客戶端
type Client struct {
	client   *resty.Client
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewClient 創建 TheMealDB 客戶端，c 可為 nil
func NewClient(cfg config.MealDBConfig, c cache.Cache, cacheTTL time.Duration) *Client {
	if c == nil {
		c = cache.Noop{}
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetHeader("Accept", "application/json")

	return &Client{client: client, cache: c, cacheTTL: cacheTTL}
}

// Search 依名稱搜尋食譜，保留來源回傳順序
func (c *Client) Search(ctx context.Context, query string) ([]WebRecipe, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		q = defaultQuery
	}

	key := cache.Key(q)
	if body, err := c.cache.Get(ctx, cacheNamespace, key); err == nil {
		if recipes, err := decodeSearch([]byte(body)); err == nil {
			return recipes, nil
		}
	}

	start := time.Now()
	body, err := c.fetch(ctx, q)
	common.LogExternalCall("mealdb", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	recipes, err := decodeSearch(body)
	if err != nil {
		common.LogWarn("TheMealDB 回應解析失敗", zap.String("query", q), zap.Error(err))
		return nil, common.ErrSearchUnavailable.Wrap(err)
	}

	if err := c.cache.Set(ctx, cacheNamespace, key, string(body), c.cacheTTL); err != nil {
		common.LogWarn("搜尋結果快取失敗", zap.Error(err))
	}
	return recipes, nil
}

func (c *Client) fetch(ctx context.Context, q string) ([]byte, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("s", q).
		Get("/search.php")
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, common.ErrSearchUnavailable.Wrap(err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, common.ErrSearchUnavailable.Wrap(fmt.Errorf("status %d", resp.StatusCode()))
	}
	return resp.Body(), nil
}

// decodeSearch 解析 search.php 回應，meals 缺少或為 null 時回傳空清單
func decodeSearch(body []byte) ([]WebRecipe, error) {
	var payload struct {
		Meals []map[string]interface{} `json:"meals"`
	}
	if err := common.ParseJSONBytes(body, &payload); err != nil {
		return nil, err
	}

	recipes := make([]WebRecipe, 0, len(payload.Meals))
	for _, meal := range payload.Meals {
		if meal == nil {
			continue
		}
		recipes = append(recipes, fromMeal(meal))
	}
	return recipes, nil
}

func fromMeal(meal map[string]interface{}) WebRecipe {
	ingredients := make([]string, 0, maxIngredients)
	for i := 1; i <= maxIngredients; i++ {
		if v := strings.TrimSpace(field(meal, fmt.Sprintf("strIngredient%d", i))); v != "" {
			ingredients = append(ingredients, v)
		}
	}

	return WebRecipe{
		ID:           field(meal, "idMeal"),
		Title:        field(meal, "strMeal"),
		Ingredients:  ingredients,
		Instructions: splitInstructions(field(meal, "strInstructions")),
		Tags:         common.SplitAndTrim(field(meal, "strTags"), ","),
		SourceURL:    common.StringPtr(field(meal, "strSource")),
		VideoURL:     common.StringPtr(field(meal, "strYoutube")),
	}
}

// splitInstructions 去除 \r 後依換行切成步驟，丟棄空白行
func splitInstructions(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	return common.CompactLines(strings.Split(s, "\n"))
}

// field 取出字串欄位，null 或非字串回傳空字串
func field(meal map[string]interface{}, key string) string {
	switch v := meal[key].(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	return ""
}
