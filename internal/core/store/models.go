package store

import (
	"time"

	"pantrify/internal/core/ingredient"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User 使用者
//
// 密碼以明文保存與比對，部署前需改為加鹽雜湊。
type User struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName   string     `gorm:"not null" json:"first_name" validate:"required"`
	LastName    string     `gorm:"not null" json:"last_name" validate:"required"`
	Email       string     `gorm:"uniqueIndex;not null" json:"email" validate:"required"`
	Username    string     `gorm:"uniqueIndex;not null" json:"username" validate:"required"`
	PhoneNumber *string    `json:"phone_number,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Sex         *string    `json:"sex,omitempty"`
	Password    string     `gorm:"not null" json:"-"`
	HoursSpent  float64    `gorm:"not null;default:0" json:"hours_spent"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// BeforeCreate 產生 ID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Ingredient 使用者食材庫存
//
// Name 與 Normalized 只能透過 SetName 一起設定。
type Ingredient struct {
	ID         uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID    uuid.UUID           `gorm:"type:uuid;index;not null" json:"owner_id"`
	Name       string              `gorm:"not null" json:"name"`
	Normalized string              `gorm:"index;not null" json:"normalized"`
	UnitType   ingredient.UnitType `gorm:"not null" json:"unit_type" validate:"oneof=grams liters pieces"`
	SubUnit    string              `gorm:"not null" json:"sub_unit" validate:"required"`
	Quantity   float64             `gorm:"not null" json:"quantity" validate:"gte=0"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// NewIngredient 以原始名稱建立食材
func NewIngredient(owner uuid.UUID, rawName string, unitType ingredient.UnitType, subUnit string, quantity float64) *Ingredient {
	ing := &Ingredient{
		OwnerID:  owner,
		UnitType: unitType,
		SubUnit:  subUnit,
		Quantity: quantity,
	}
	ing.SetName(rawName)
	return ing
}

// SetName 同時設定顯示名稱與標準鍵
func (i *Ingredient) SetName(rawName string) {
	i.Name, i.Normalized = ingredient.NormalizeName(rawName)
}

// BeforeCreate 產生 ID
func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Recipe 食譜
//
// IngredientKeys 與 DisplayIngredients 長度相同且索引對應，只能透過 SetIngredients 設定。
type Recipe struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID            *uuid.UUID `gorm:"type:uuid;index" json:"owner_id,omitempty"`
	Title              string     `gorm:"not null" json:"title" validate:"required"`
	IngredientKeys     []string   `gorm:"serializer:json" json:"ingredient_keys"`
	DisplayIngredients []string   `gorm:"serializer:json" json:"display_ingredients"`
	Instructions       []string   `gorm:"serializer:json" json:"instructions" validate:"dive,required"`
	Tags               []string   `gorm:"serializer:json" json:"tags"`
	SourceURL          *string    `json:"source_url,omitempty"`
	CookTimeMinutes    *int       `json:"cook_time_minutes,omitempty"`
	Servings           *int       `json:"servings,omitempty"`
	Difficulty         *string    `json:"difficulty,omitempty"`
	IsPlanned          bool       `gorm:"not null;default:false" json:"is_planned"`
	IsCooked           bool       `gorm:"not null;default:false" json:"is_cooked"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// SetIngredients 由原始食材文字同時產生標準鍵與顯示名稱
func (r *Recipe) SetIngredients(raws []string) {
	r.DisplayIngredients, r.IngredientKeys = ingredient.Normalize(raws)
}

// BeforeCreate 產生 ID 並補齊空陣列
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.IngredientKeys == nil {
		r.IngredientKeys = []string{}
	}
	if r.DisplayIngredients == nil {
		r.DisplayIngredients = []string{}
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	return nil
}

// Models 需要遷移的資料表
func Models() []interface{} {
	return []interface{}{&User{}, &Ingredient{}, &Recipe{}}
}
