package recipe

import (
	"strings"

	"pantrify/internal/pkg/common"
)

// Category 食譜分類，對應標籤
type Category string

const (
	CategoryAll       Category = "All"
	CategoryBreakfast Category = "Breakfast"
	CategoryLunch     Category = "Lunch"
	CategoryDinner    Category = "Dinner"
	CategoryQuick     Category = "Quick & Easy"
)

// Categories 所有分類，依顯示順序
var Categories = []Category{CategoryAll, CategoryBreakfast, CategoryLunch, CategoryDinner, CategoryQuick}

// ParseCategory 不分大小寫解析分類，空字串視為 All
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CategoryAll, nil
	}
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", common.NewValidationError("Unknown category: " + s)
}

// Matches 標籤不分大小寫比對，All 符合所有食譜
func (c Category) Matches(tags []string) bool {
	if c == CategoryAll {
		return true
	}
	for _, t := range tags {
		if strings.EqualFold(strings.TrimSpace(t), string(c)) {
			return true
		}
	}
	return false
}
