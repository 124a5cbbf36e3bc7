package recipe

import (
	"strings"

	"pantrify/internal/core/mealdb"
	"pantrify/internal/core/store"
	"pantrify/internal/pkg/common"

	"github.com/google/uuid"
)

// ImportFromSearchResult 將搜尋結果轉為使用者的食譜紀錄
//
// 不依來源 ID 去重，重複匯入會產生多筆紀錄。空白食材行會被丟棄。
func ImportFromSearchResult(result mealdb.WebRecipe, owner uuid.UUID) *store.Recipe {
	r := &store.Recipe{
		OwnerID:      &owner,
		Title:        result.Title,
		Instructions: splitSteps(result.Instructions),
		Tags:         common.CompactLines(result.Tags),
		SourceURL:    sourceLink(result),
	}
	r.SetIngredients(common.CompactLines(result.Ingredients))
	return r
}

// sourceLink 優先使用網頁來源，其次影片
func sourceLink(result mealdb.WebRecipe) *string {
	if result.SourceURL != nil {
		if link := common.StringPtr(*result.SourceURL); link != nil {
			return link
		}
	}
	if result.VideoURL != nil {
		return common.StringPtr(*result.VideoURL)
	}
	return nil
}

// splitSteps 步驟內的換行視為分隔，空白行丟棄
func splitSteps(lines []string) []string {
	var parts []string
	for _, line := range lines {
		parts = append(parts, strings.Split(strings.ReplaceAll(line, "\r", ""), "\n")...)
	}
	return common.CompactLines(parts)
}
