package store

import (
	"context"
	"fmt"

	"pantrify/internal/pkg/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// RecipeRepository 食譜資料存取
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *Recipe) error
		GetRecipe(ctx context.Context, owner, id uuid.UUID) (*Recipe, error)
		ListRecipes(ctx context.Context, owner uuid.UUID) ([]*Recipe, error)
		UpdateRecipe(ctx context.Context, recipe *Recipe) error
		DeleteRecipe(ctx context.Context, owner, id uuid.UUID) error
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

// NewRecipeRepository 創建食譜資料存取
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *Recipe) error {
	if err := checkRecipe(recipe); err != nil {
		return err
	}
	return persistenceError("create recipe", r.db.WithContext(ctx).Create(recipe).Error)
}

func (r *recipeRepository) GetRecipe(ctx context.Context, owner, id uuid.UUID) (*Recipe, error) {
	var recipe Recipe
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, owner).
		First(&recipe).Error
	if err != nil {
		return nil, notFound(err, common.ErrRecipeNotFound, "get recipe")
	}
	return &recipe, nil
}

// ListRecipes 依建立時間由新到舊排序
func (r *recipeRepository) ListRecipes(ctx context.Context, owner uuid.UUID) ([]*Recipe, error) {
	var recipes []*Recipe
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", owner).
		Order("created_at desc").
		Find(&recipes).Error
	if err != nil {
		return nil, persistenceError("list recipes", err)
	}
	return recipes, nil
}

func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *Recipe) error {
	if err := checkRecipe(recipe); err != nil {
		return err
	}
	return persistenceError("update recipe", r.db.WithContext(ctx).Save(recipe).Error)
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, owner, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, owner).Delete(&Recipe{})
	if res.Error != nil {
		return persistenceError("delete recipe", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrRecipeNotFound
	}
	return nil
}

// checkRecipe 欄位驗證並確認 key / display 陣列等長
func checkRecipe(recipe *Recipe) error {
	if err := validateModel(recipe); err != nil {
		return err
	}
	if len(recipe.IngredientKeys) != len(recipe.DisplayIngredients) {
		return fmt.Errorf("recipe %q: %d ingredient keys but %d display ingredients",
			recipe.Title, len(recipe.IngredientKeys), len(recipe.DisplayIngredients))
	}
	return nil
}
