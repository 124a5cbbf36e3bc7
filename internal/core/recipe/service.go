package recipe

import (
	"context"
	"errors"
	"strings"
	"time"

	"pantrify/internal/core/ingredient"
	"pantrify/internal/core/mealdb"
	"pantrify/internal/core/store"
	"pantrify/internal/core/task"
	"pantrify/internal/pkg/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service 食譜服務
type Service struct {
	store    *store.Store
	searcher mealdb.Searcher
	runner   *task.Runner[[]mealdb.WebRecipe]
}

// NewService 創建食譜服務
func NewService(st *store.Store, searcher mealdb.Searcher, searchTimeout time.Duration) *Service {
	return &Service{
		store:    st,
		searcher: searcher,
		runner:   task.NewRunner[[]mealdb.WebRecipe]("recipe-search", searchTimeout),
	}
}

// Library 食譜收藏與統計
type Library struct {
	Category   Category      `json:"category"`
	Items      []LibraryItem `json:"items"`
	ReadyCount int           `json:"ready_count"`
	Total      int           `json:"total"`
}

// IngredientStatus 單一食材是否在庫存中
type IngredientStatus struct {
	Key       string `json:"key"`
	Display   string `json:"display"`
	Available bool   `json:"available"`
}

// Detail 食譜詳情
type Detail struct {
	Recipe      *store.Recipe      `json:"recipe"`
	Ingredients []IngredientStatus `json:"ingredients"`
	Readiness   Readiness          `json:"readiness"`
}

// SearchResults 搜尋結果
type SearchResults struct {
	Query      string       `json:"query"`
	Prioritize bool         `json:"prioritize"`
	Items      []SearchItem `json:"items"`
	Notice     string       `json:"notice,omitempty"`
}

// CreateInput 手動新增食譜
type CreateInput struct {
	Title           string
	Ingredients     []string
	Instructions    []string
	Tags            []string
	SourceURL       string
	CookTimeMinutes *int
	Servings        *int
	Difficulty      string
}

// Library 取得使用者的食譜，依分類過濾並排序；就緒數與總數不受分類影響
func (s *Service) Library(ctx context.Context, owner uuid.UUID, category string) (*Library, error) {
	cat, err := ParseCategory(category)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Users.GetUserByID(ctx, owner); err != nil {
		return nil, err
	}

	pantry, err := s.PantryKeys(ctx, owner)
	if err != nil {
		return nil, err
	}
	recipes, err := s.store.Recipes.ListRecipes(ctx, owner)
	if err != nil {
		return nil, err
	}

	items := make([]LibraryItem, 0, len(recipes))
	for _, r := range recipes {
		if !cat.Matches(r.Tags) {
			continue
		}
		items = append(items, LibraryItem{
			Recipe:    r,
			Readiness: Evaluate(r.IngredientKeys, r.DisplayIngredients, pantry),
		})
	}

	return &Library{
		Category:   cat,
		Items:      RankLibrary(items),
		ReadyCount: CountReady(recipes, pantry),
		Total:      len(recipes),
	}, nil
}

// Detail 取得食譜與逐項食材狀態
func (s *Service) Detail(ctx context.Context, owner, id uuid.UUID) (*Detail, error) {
	r, err := s.store.Recipes.GetRecipe(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	pantry, err := s.PantryKeys(ctx, owner)
	if err != nil {
		return nil, err
	}

	statuses := make([]IngredientStatus, len(r.IngredientKeys))
	for i, k := range r.IngredientKeys {
		display := k
		if i < len(r.DisplayIngredients) {
			display = r.DisplayIngredients[i]
		}
		statuses[i] = IngredientStatus{Key: k, Display: display, Available: pantry.Has(k)}
	}

	return &Detail{
		Recipe:      r,
		Ingredients: statuses,
		Readiness:   Evaluate(r.IngredientKeys, r.DisplayIngredients, pantry),
	}, nil
}

// Create 手動新增食譜
func (s *Service) Create(ctx context.Context, owner uuid.UUID, in CreateInput) (*store.Recipe, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, common.NewValidationError("Please enter a title.")
	}
	steps := splitSteps(in.Instructions)
	if len(steps) == 0 {
		return nil, common.NewValidationError("Please add at least one instruction.")
	}
	if in.CookTimeMinutes != nil && *in.CookTimeMinutes < 0 {
		return nil, common.NewValidationError("Cook time cannot be negative.")
	}
	if in.Servings != nil && *in.Servings <= 0 {
		return nil, common.NewValidationError("Servings must be positive.")
	}
	if _, err := s.store.Users.GetUserByID(ctx, owner); err != nil {
		return nil, err
	}

	r := &store.Recipe{
		OwnerID:         &owner,
		Title:           title,
		Instructions:    steps,
		Tags:            common.CompactLines(in.Tags),
		SourceURL:       common.StringPtr(in.SourceURL),
		CookTimeMinutes: in.CookTimeMinutes,
		Servings:        in.Servings,
		Difficulty:      common.StringPtr(in.Difficulty),
	}
	r.SetIngredients(common.CompactLines(in.Ingredients))

	if err := s.store.Recipes.CreateRecipe(ctx, r); err != nil {
		common.LogError("新增食譜失敗", zap.String("owner", owner.String()), zap.Error(err))
		return nil, err
	}
	return r, nil
}

// Search 搜尋外部食譜並標註就緒程度
//
// 同一使用者的新搜尋會取代進行中的搜尋，被取代的呼叫收到 common.ErrSuperseded。
// 外部服務失敗或逾時時回傳空清單與提示，不視為錯誤。
func (s *Service) Search(ctx context.Context, owner uuid.UUID, query string, prioritize bool) (*SearchResults, error) {
	if _, err := s.store.Users.GetUserByID(ctx, owner); err != nil {
		return nil, err
	}

	results, err := s.runner.Do(ctx, owner.String(), func(ctx context.Context) ([]mealdb.WebRecipe, error) {
		return s.searcher.Search(ctx, query)
	})
	if errors.Is(err, common.ErrSearchUnavailable) || errors.Is(err, common.ErrGatewayTimeout) {
		common.LogWarn("食譜搜尋失敗，回傳空結果", zap.String("owner", owner.String()), zap.Error(err))
		return &SearchResults{
			Query:      strings.TrimSpace(query),
			Prioritize: prioritize,
			Items:      []SearchItem{},
			Notice:     common.ErrSearchUnavailable.Message,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	pantry, err := s.PantryKeys(ctx, owner)
	if err != nil {
		return nil, err
	}

	items := make([]SearchItem, len(results))
	for i, res := range results {
		displays, keys := ingredient.Normalize(res.Ingredients)
		items[i] = SearchItem{Result: res, Readiness: Evaluate(keys, displays, pantry)}
	}

	return &SearchResults{
		Query:      strings.TrimSpace(query),
		Prioritize: prioritize,
		Items:      RankSearchResults(items, prioritize),
	}, nil
}

// Import 將搜尋結果存為使用者的食譜
func (s *Service) Import(ctx context.Context, owner uuid.UUID, result mealdb.WebRecipe) (*store.Recipe, error) {
	if strings.TrimSpace(result.Title) == "" {
		return nil, common.NewValidationError("Recipe title is missing.")
	}
	if _, err := s.store.Users.GetUserByID(ctx, owner); err != nil {
		return nil, err
	}

	r := ImportFromSearchResult(result, owner)
	if err := s.store.Recipes.CreateRecipe(ctx, r); err != nil {
		common.LogError("匯入食譜失敗", zap.String("owner", owner.String()), zap.String("source_id", result.ID), zap.Error(err))
		return nil, err
	}
	common.LogInfo("食譜已匯入", zap.String("owner", owner.String()), zap.String("source_id", result.ID))
	return r, nil
}

// SetCooked 設定已烹飪
func (s *Service) SetCooked(ctx context.Context, owner, id uuid.UUID, cooked bool) (*store.Recipe, error) {
	return s.update(ctx, owner, id, func(r *store.Recipe) { r.IsCooked = cooked })
}

// SetPlanned 設定已排入計畫
func (s *Service) SetPlanned(ctx context.Context, owner, id uuid.UUID, planned bool) (*store.Recipe, error) {
	return s.update(ctx, owner, id, func(r *store.Recipe) { r.IsPlanned = planned })
}

func (s *Service) update(ctx context.Context, owner, id uuid.UUID, mutate func(*store.Recipe)) (*store.Recipe, error) {
	r, err := s.store.Recipes.GetRecipe(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	mutate(r)
	if err := s.store.Recipes.UpdateRecipe(ctx, r); err != nil {
		common.LogError("更新食譜失敗", zap.String("recipe", id.String()), zap.Error(err))
		return nil, err
	}
	return r, nil
}

// Delete 刪除食譜
func (s *Service) Delete(ctx context.Context, owner, id uuid.UUID) error {
	return s.store.Recipes.DeleteRecipe(ctx, owner, id)
}

// PantryKeys 取得使用者庫存的標準鍵集合
func (s *Service) PantryKeys(ctx context.Context, owner uuid.UUID) (PantryKeys, error) {
	items, err := s.store.Ingredients.ListIngredients(ctx, owner)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.Normalized
	}
	return NewPantryKeys(keys), nil
}

// SearchStatus 搜尋執行器狀態
func (s *Service) SearchStatus() task.Status {
	return s.runner.Status()
}
