package store

import (
	"errors"
	"fmt"

	"pantrify/internal/pkg/common"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var validate = validator.New()

// Store 聚合所有資料存取
type Store struct {
	db          *gorm.DB
	Users       UserRepository
	Ingredients IngredientRepository
	Recipes     RecipeRepository
}

// New 以 gorm 連線建立 Store
func New(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		Users:       NewUserRepository(db),
		Ingredients: NewIngredientRepository(db),
		Recipes:     NewRecipeRepository(db),
	}
}

// DB 取得底層連線
func (s *Store) DB() *gorm.DB {
	return s.db
}

// validateModel 寫入前檢查模型欄位
func validateModel(model interface{}) error {
	if err := validate.Struct(model); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return common.NewValidationError(fmt.Sprintf("invalid %s", verrs[0].Field()))
		}
		return common.NewValidationError(err.Error())
	}
	return nil
}

// persistenceError 將資料庫錯誤轉為統一的儲存錯誤
func persistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	return common.ErrPersistence.Wrap(fmt.Errorf("%s: %w", op, err))
}

// notFound 將找不到紀錄轉為業務錯誤
func notFound(err error, target *common.CustomError, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return persistenceError(op, err)
}
