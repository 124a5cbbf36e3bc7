package recipe

import (
	"sort"

	"pantrify/internal/core/mealdb"
	"pantrify/internal/core/store"
)

// LibraryItem 已儲存的食譜與其就緒程度
type LibraryItem struct {
	Recipe    *store.Recipe `json:"recipe"`
	Readiness Readiness     `json:"readiness"`
}

// SearchItem 搜尋結果與其就緒程度
type SearchItem struct {
	Result    mealdb.WebRecipe `json:"result"`
	Readiness Readiness        `json:"readiness"`
}

// RankLibrary 就緒優先、擁有數多者優先，其餘依標題排序
func RankLibrary(items []LibraryItem) []LibraryItem {
	out := append([]LibraryItem(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Readiness.Score, out[j].Readiness.Score
		if a.Ready != b.Ready {
			return a.Ready
		}
		if a.Have != b.Have {
			return a.Have > b.Have
		}
		return out[i].Recipe.Title < out[j].Recipe.Title
	})
	return out
}

// RankSearchResults prioritize 為 false 時保留來源順序；
// 為 true 時就緒優先、擁有數多者優先，同分保留來源順序
func RankSearchResults(items []SearchItem, prioritize bool) []SearchItem {
	out := append([]SearchItem(nil), items...)
	if !prioritize {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Readiness.Score, out[j].Readiness.Score
		if a.Ready != b.Ready {
			return a.Ready
		}
		return a.Have > b.Have
	})
	return out
}

// CountReady 計算已就緒的食譜數
func CountReady(recipes []*store.Recipe, pantry PantryKeys) int {
	n := 0
	for _, r := range recipes {
		if ScoreKeys(r.IngredientKeys, pantry).Ready {
			n++
		}
	}
	return n
}
