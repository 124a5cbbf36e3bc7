package pantry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pantrify/internal/core/classifier"
	"pantrify/internal/core/ingredient"
	"pantrify/internal/core/store"
	"pantrify/internal/core/task"
	"pantrify/internal/pkg/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FallbackNotice 分類器未給出有效答案時附帶的提示
const FallbackNotice = "Couldn't detect a unit, using pieces."

// Service 食材庫存服務
type Service struct {
	store      *store.Store
	classifier classifier.Classifier
	runner     *task.Runner[classifier.Result]
	timeout    time.Duration
}

// NewService 創建食材庫存服務
func NewService(st *store.Store, cls classifier.Classifier, classifyTimeout time.Duration) *Service {
	return &Service{
		store:      st,
		classifier: cls,
		runner:     task.NewRunner[classifier.Result]("unit-classify", classifyTimeout),
		timeout:    classifyTimeout,
	}
}

// AddInput 新增食材
type AddInput struct {
	Name     string
	UnitType string
	SubUnit  string
	Quantity float64
}

// AddResult 新增結果
type AddResult struct {
	Ingredient *store.Ingredient `json:"ingredient"`
	Classified bool              `json:"classified"`
	Notice     string            `json:"notice,omitempty"`
}

// Classification 單位判定結果
type Classification struct {
	Name     string              `json:"name"`
	UnitType ingredient.UnitType `json:"unit_type"`
	SubUnits []string            `json:"sub_units"`
	SubUnit  string              `json:"sub_unit"`
	Notice   string              `json:"notice,omitempty"`
}

// List 依建立時間排序的庫存
func (s *Service) List(ctx context.Context, owner uuid.UUID) ([]*store.Ingredient, error) {
	if _, err := s.store.Users.GetUserByID(ctx, owner); err != nil {
		return nil, err
	}
	return s.store.Ingredients.ListIngredients(ctx, owner)
}

// Classify 判定食材單位類別，同一使用者同一欄位的新請求會取代舊請求
func (s *Service) Classify(ctx context.Context, owner uuid.UUID, field, name string) (*Classification, error) {
	display, key := ingredient.NormalizeName(name)
	if key == "" {
		return nil, common.NewValidationError("Please enter a name.")
	}

	res, err := s.runner.Do(ctx, owner.String()+":"+field, func(ctx context.Context) (classifier.Result, error) {
		return s.classifier.Classify(ctx, name), nil
	})
	if err != nil {
		return nil, err
	}

	c := &Classification{
		Name:     display,
		UnitType: res.UnitType,
		SubUnits: res.UnitType.SubUnits(),
		SubUnit:  res.UnitType.DefaultSubUnit(),
	}
	if res.Fallback {
		c.Notice = FallbackNotice
	}
	return c, nil
}

// classifyOnce 單次分類，逾時回退為 pieces
func (s *Service) classifyOnce(ctx context.Context, name string) classifier.Result {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	res := s.classifier.Classify(ctx, name)
	if !res.UnitType.Valid() {
		return classifier.Result{UnitType: ingredient.DefaultUnitType, Fallback: true}
	}
	return res
}

// Add 新增食材，未指定類別時呼叫分類器
func (s *Service) Add(ctx context.Context, owner uuid.UUID, in AddInput) (*AddResult, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, common.NewValidationError("Please enter a name.")
	}
	if in.Quantity < 0 {
		return nil, common.NewValidationError("Quantity cannot be negative.")
	}
	if _, err := s.store.Users.GetUserByID(ctx, owner); err != nil {
		return nil, err
	}

	result := &AddResult{}

	var unitType ingredient.UnitType
	if strings.TrimSpace(in.UnitType) != "" {
		parsed, ok := ingredient.ParseUnitType(in.UnitType)
		if !ok {
			return nil, common.NewValidationError(fmt.Sprintf("Unknown unit type: %s", in.UnitType))
		}
		unitType = parsed
	} else {
		// 直接呼叫分類器，不經過可被取代的執行器，新增不能因較新的請求而遺失
		res := s.classifyOnce(ctx, name)
		unitType = res.UnitType
		result.Classified = true
		if res.Fallback {
			result.Notice = FallbackNotice
		}
	}

	subUnit := strings.TrimSpace(in.SubUnit)
	if subUnit == "" {
		subUnit = unitType.DefaultSubUnit()
	}
	if !unitType.HasSubUnit(subUnit) {
		return nil, common.NewValidationError(fmt.Sprintf("%s is not a %s unit.", subUnit, unitType))
	}

	ing := store.NewIngredient(owner, name, unitType, subUnit, in.Quantity)
	if err := s.store.Ingredients.CreateIngredient(ctx, ing); err != nil {
		common.LogError("新增食材失敗", zap.String("owner", owner.String()), zap.Error(err))
		return nil, err
	}
	common.LogDebug("食材已新增", zap.String("key", ing.Normalized), zap.String("unit", string(unitType)))

	result.Ingredient = ing
	return result, nil
}

// Increment 數量加一
func (s *Service) Increment(ctx context.Context, owner, id uuid.UUID) (*store.Ingredient, error) {
	ing, err := s.store.Ingredients.GetIngredient(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	ing.Quantity++
	if err := s.store.Ingredients.UpdateIngredient(ctx, ing); err != nil {
		return nil, err
	}
	return ing, nil
}

// Decrement 數量減一，降到 0 以下時刪除，回傳 nil
func (s *Service) Decrement(ctx context.Context, owner, id uuid.UUID) (*store.Ingredient, error) {
	ing, err := s.store.Ingredients.GetIngredient(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	ing.Quantity--
	if ing.Quantity <= 0 {
		if err := s.store.Ingredients.DeleteIngredient(ctx, owner, id); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err := s.store.Ingredients.UpdateIngredient(ctx, ing); err != nil {
		return nil, err
	}
	return ing, nil
}

// ChangeSubUnit 切換子單位並換算數量
func (s *Service) ChangeSubUnit(ctx context.Context, owner, id uuid.UUID, subUnit string) (*store.Ingredient, error) {
	ing, err := s.store.Ingredients.GetIngredient(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	subUnit = strings.TrimSpace(subUnit)
	if !ing.UnitType.HasSubUnit(subUnit) {
		return nil, common.NewValidationError(fmt.Sprintf("%s is not a %s unit.", subUnit, ing.UnitType))
	}
	if subUnit == ing.SubUnit {
		return ing, nil
	}

	ing.Quantity = ingredient.Convert(ing.Quantity, ing.SubUnit, subUnit, ing.UnitType)
	ing.SubUnit = subUnit
	if err := s.store.Ingredients.UpdateIngredient(ctx, ing); err != nil {
		return nil, err
	}
	return ing, nil
}

// Remove 刪除食材
func (s *Service) Remove(ctx context.Context, owner, id uuid.UUID) error {
	return s.store.Ingredients.DeleteIngredient(ctx, owner, id)
}

// Keys 庫存的標準鍵，依建立時間排序，可能重複
func (s *Service) Keys(ctx context.Context, owner uuid.UUID) ([]string, error) {
	items, err := s.store.Ingredients.ListIngredients(ctx, owner)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.Normalized
	}
	return keys, nil
}

// ClassifyStatus 分類執行器狀態
func (s *Service) ClassifyStatus() task.Status {
	return s.runner.Status()
}
