package store

import (
	"context"

	"pantrify/internal/pkg/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// IngredientRepository 食材庫存資料存取
	IngredientRepository interface {
		CreateIngredient(ctx context.Context, ing *Ingredient) error
		GetIngredient(ctx context.Context, owner, id uuid.UUID) (*Ingredient, error)
		ListIngredients(ctx context.Context, owner uuid.UUID) ([]*Ingredient, error)
		UpdateIngredient(ctx context.Context, ing *Ingredient) error
		DeleteIngredient(ctx context.Context, owner, id uuid.UUID) error
		CountIngredients(ctx context.Context, owner uuid.UUID) (int64, error)
	}

	ingredientRepository struct {
		db *gorm.DB
	}
)

// NewIngredientRepository 創建食材資料存取
func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) CreateIngredient(ctx context.Context, ing *Ingredient) error {
	if err := validateModel(ing); err != nil {
		return err
	}
	return persistenceError("create ingredient", r.db.WithContext(ctx).Create(ing).Error)
}

func (r *ingredientRepository) GetIngredient(ctx context.Context, owner, id uuid.UUID) (*Ingredient, error) {
	var ing Ingredient
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, owner).
		First(&ing).Error
	if err != nil {
		return nil, notFound(err, common.ErrIngredientNotFound, "get ingredient")
	}
	return &ing, nil
}

// ListIngredients 依建立時間由舊到新排序
func (r *ingredientRepository) ListIngredients(ctx context.Context, owner uuid.UUID) ([]*Ingredient, error) {
	var items []*Ingredient
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", owner).
		Order("created_at asc").
		Find(&items).Error
	if err != nil {
		return nil, persistenceError("list ingredients", err)
	}
	return items, nil
}

func (r *ingredientRepository) UpdateIngredient(ctx context.Context, ing *Ingredient) error {
	if err := validateModel(ing); err != nil {
		return err
	}
	return persistenceError("update ingredient", r.db.WithContext(ctx).Save(ing).Error)
}

func (r *ingredientRepository) DeleteIngredient(ctx context.Context, owner, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, owner).Delete(&Ingredient{})
	if res.Error != nil {
		return persistenceError("delete ingredient", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrIngredientNotFound
	}
	return nil
}

func (r *ingredientRepository) CountIngredients(ctx context.Context, owner uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Ingredient{}).Where("owner_id = ?", owner).Count(&count).Error; err != nil {
		return 0, persistenceError("count ingredients", err)
	}
	return count, nil
}
