package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"pantrify/internal/core/recipe"
	"pantrify/internal/core/store"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const (
	PantrySheet  = "Pantry"
	RecipesSheet = "Recipes"
)

var (
	pantryHeader  = []interface{}{"Name", "Key", "Unit Type", "Sub-unit", "Quantity"}
	recipesHeader = []interface{}{"Title", "Ready", "Have", "Total", "Missing", "Tags", "Source"}
)

// Service 匯出使用者資料
type Service struct {
	store   *store.Store
	recipes *recipe.Service
}

// NewService 創建匯出服務
func NewService(st *store.Store, recipes *recipe.Service) *Service {
	return &Service{store: st, recipes: recipes}
}

// Export 將庫存與食譜收藏寫成 xlsx
func (s *Service) Export(ctx context.Context, owner uuid.UUID, w io.Writer) error {
	lib, err := s.recipes.Library(ctx, owner, string(recipe.CategoryAll))
	if err != nil {
		return err
	}
	items, err := s.store.Ingredients.ListIngredients(ctx, owner)
	if err != nil {
		return err
	}
	return Workbook(w, items, lib.Items)
}

// Workbook 產生含 Pantry 與 Recipes 兩個工作表的活頁簿
func Workbook(w io.Writer, pantry []*store.Ingredient, recipes []recipe.LibraryItem) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", PantrySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(RecipesSheet); err != nil {
		return err
	}

	pantryRows := make([][]interface{}, len(pantry))
	for i, ing := range pantry {
		pantryRows[i] = []interface{}{ing.Name, ing.Normalized, string(ing.UnitType), ing.SubUnit, ing.Quantity}
	}
	if err := writeSheet(f, PantrySheet, pantryHeader, pantryRows); err != nil {
		return err
	}

	recipeRows := make([][]interface{}, len(recipes))
	for i, it := range recipes {
		source := ""
		if it.Recipe.SourceURL != nil {
			source = *it.Recipe.SourceURL
		}
		ready := "No"
		if it.Readiness.Ready {
			ready = "Yes"
		}
		recipeRows[i] = []interface{}{
			it.Recipe.Title,
			ready,
			it.Readiness.Have,
			it.Readiness.Total,
			it.Readiness.Summary,
			strings.Join(it.Recipe.Tags, ", "),
			source,
		}
	}
	if err := writeSheet(f, RecipesSheet, recipesHeader, recipeRows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}
