package recipe

import (
	"testing"

	"pantrify/internal/core/mealdb"
	"pantrify/internal/core/store"

	"github.com/stretchr/testify/assert"
)

func libraryItem(title string, ready bool, have, total int) LibraryItem {
	return LibraryItem{
		Recipe:    &store.Recipe{Title: title},
		Readiness: Readiness{Score: Score{Ready: ready, Have: have, Total: total}},
	}
}

func searchItem(id string, ready bool, have, total int) SearchItem {
	return SearchItem{
		Result:    mealdb.WebRecipe{ID: id},
		Readiness: Readiness{Score: Score{Ready: ready, Have: have, Total: total}},
	}
}

func titles(items []LibraryItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Recipe.Title
	}
	return out
}

func ids(items []SearchItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Result.ID
	}
	return out
}

func TestRankLibrary(t *testing.T) {
	items := []LibraryItem{
		libraryItem("Zucchini Bread", false, 3, 5),
		libraryItem("Toast", true, 2, 2),
		libraryItem("Apple Pie", false, 3, 6),
		libraryItem("Broth", true, 0, 0),
		libraryItem("Curry", false, 4, 9),
		libraryItem("Bagel", false, 3, 4),
	}

	got := RankLibrary(items)
	assert.Equal(t, []string{"Toast", "Broth", "Curry", "Apple Pie", "Bagel", "Zucchini Bread"}, titles(got))
	assert.Equal(t, "Zucchini Bread", items[0].Recipe.Title, "input is not reordered")
}

func TestRankLibraryTitleIsByteWise(t *testing.T) {
	got := RankLibrary([]LibraryItem{
		libraryItem("apple", false, 0, 1),
		libraryItem("Banana", false, 0, 1),
	})
	assert.Equal(t, []string{"Banana", "apple"}, titles(got))
}

func TestRankSearchResults(t *testing.T) {
	items := []SearchItem{
		searchItem("1", false, 1, 3),
		searchItem("2", true, 2, 2),
		searchItem("3", false, 2, 5),
		searchItem("4", false, 1, 2),
		searchItem("5", true, 1, 1),
	}

	assert.Equal(t, []string{"2", "5", "3", "1", "4"}, ids(RankSearchResults(items, true)))
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(RankSearchResults(items, false)))
}

func TestCountReady(t *testing.T) {
	pantry := NewPantryKeys([]string{"salt"})
	recipes := []*store.Recipe{
		{IngredientKeys: []string{"salt"}},
		{IngredientKeys: []string{"salt", "egg"}},
		{IngredientKeys: []string{}},
	}
	assert.Equal(t, 2, CountReady(recipes, pantry))
}
