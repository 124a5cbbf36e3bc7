package store_test

import (
	"context"
	"testing"
	"time"

	"pantrify/internal/core/ingredient"
	"pantrify/internal/core/store"
	"pantrify/internal/infrastructure/database"
	"pantrify/internal/pkg/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return store.New(db)
}

func newUser(t *testing.T, s *store.Store, email, username string) *store.User {
	t.Helper()
	u := &store.User{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Username:  username,
		Password:  "secret",
	}
	require.NoError(t, s.Users.CreateUser(context.Background(), u))
	return u
}

func TestUserLookupIsCaseInsensitive(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	u := newUser(t, s, "Ada@Example.com", "AdaL")

	got, err := s.Users.FindUserByEmail(ctx, "ada@example.COM")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = s.Users.FindUserByUsername(ctx, "adal")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.Users.FindUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestUserPhoneLookupIsExact(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	phone := "+1 555 0100"
	u := &store.User{FirstName: "A", LastName: "B", Email: "a@b.c", Username: "ab", Password: "p", PhoneNumber: &phone}
	require.NoError(t, s.Users.CreateUser(ctx, u))

	got, err := s.Users.FindUserByPhone(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.Users.FindUserByPhone(ctx, "+15550100")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestCreateUserRejectsMissingFields(t *testing.T) {
	s := newStore(t)
	err := s.Users.CreateUser(context.Background(), &store.User{Email: "x@y.z"})
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))
}

func TestDuplicateEmailSurfacesPersistenceError(t *testing.T) {
	s := newStore(t)
	newUser(t, s, "dup@example.com", "one")
	err := s.Users.CreateUser(context.Background(), &store.User{
		FirstName: "B", LastName: "C", Email: "dup@example.com", Username: "two", Password: "p",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrPersistence)
}

func TestIngredientsListedOldestFirst(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	u := newUser(t, s, "a@example.com", "a")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"Milk", "scallion", "Eggs"} {
		ing := store.NewIngredient(u.ID, name, ingredient.UnitPieces, "pcs", 1)
		ing.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.Ingredients.CreateIngredient(ctx, ing))
	}

	items, err := s.Ingredients.ListIngredients(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Milk", items[0].Name)
	assert.Equal(t, "Green Onion", items[1].Name)
	assert.Equal(t, "green onion", items[1].Normalized)
	assert.Equal(t, "Eggs", items[2].Name)

	count, err := s.Ingredients.CountIngredients(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestIngredientRejectsNegativeQuantity(t *testing.T) {
	s := newStore(t)
	u := newUser(t, s, "a@example.com", "a")
	ing := store.NewIngredient(u.ID, "Flour", ingredient.UnitGrams, "g", -1)
	err := s.Ingredients.CreateIngredient(context.Background(), ing)
	assert.True(t, common.IsValidationError(err))
}

func TestIngredientScopedToOwner(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a := newUser(t, s, "a@example.com", "a")
	b := newUser(t, s, "b@example.com", "b")

	ing := store.NewIngredient(a.ID, "Rice", ingredient.UnitGrams, "kg", 2)
	require.NoError(t, s.Ingredients.CreateIngredient(ctx, ing))

	_, err := s.Ingredients.GetIngredient(ctx, b.ID, ing.ID)
	assert.ErrorIs(t, err, common.ErrIngredientNotFound)
	assert.ErrorIs(t, s.Ingredients.DeleteIngredient(ctx, b.ID, ing.ID), common.ErrIngredientNotFound)

	got, err := s.Ingredients.GetIngredient(ctx, a.ID, ing.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.Quantity)
}

func TestRecipeArraysRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	u := newUser(t, s, "a@example.com", "a")

	r := &store.Recipe{OwnerID: &u.ID, Title: "Pancakes", Instructions: []string{"Mix", "Fry"}, Tags: []string{"Breakfast"}}
	r.SetIngredients([]string{"All Purpose Flour", "Eggs", "Milk"})
	require.NoError(t, s.Recipes.CreateRecipe(ctx, r))

	got, err := s.Recipes.GetRecipe(ctx, u.ID, r.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"flour", "eggs", "milk"}, got.IngredientKeys)
	assert.Equal(t, []string{"Flour", "Eggs", "Milk"}, got.DisplayIngredients)
	assert.Equal(t, []string{"Mix", "Fry"}, got.Instructions)
	assert.Equal(t, []string{"Breakfast"}, got.Tags)
	assert.Nil(t, got.SourceURL)
}

func TestRecipeRejectsBlankStep(t *testing.T) {
	s := newStore(t)
	u := newUser(t, s, "a@example.com", "a")
	r := &store.Recipe{OwnerID: &u.ID, Title: "Nothing", Instructions: []string{"Boil", ""}}
	err := s.Recipes.CreateRecipe(context.Background(), r)
	assert.True(t, common.IsValidationError(err))
}

func TestRecipesListedNewestFirst(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	u := newUser(t, s, "a@example.com", "a")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"Old", "Middle", "New"} {
		r := &store.Recipe{OwnerID: &u.ID, Title: title, Instructions: []string{"Cook"}}
		r.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, s.Recipes.CreateRecipe(ctx, r))
	}

	recipes, err := s.Recipes.ListRecipes(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, recipes, 3)
	assert.Equal(t, "New", recipes[0].Title)
	assert.Equal(t, "Old", recipes[2].Title)
}

func TestDeleteUserCascades(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a := newUser(t, s, "a@example.com", "a")
	b := newUser(t, s, "b@example.com", "b")

	for _, owner := range []uuid.UUID{a.ID, b.ID} {
		require.NoError(t, s.Ingredients.CreateIngredient(ctx, store.NewIngredient(owner, "Salt", ingredient.UnitGrams, "g", 5)))
		id := owner
		require.NoError(t, s.Recipes.CreateRecipe(ctx, &store.Recipe{OwnerID: &id, Title: "Soup", Instructions: []string{"Boil"}}))
	}

	require.NoError(t, s.Users.DeleteUser(ctx, a.ID))

	_, err := s.Users.GetUserByID(ctx, a.ID)
	assert.ErrorIs(t, err, common.ErrUserNotFound)

	items, err := s.Ingredients.ListIngredients(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
	recipes, err := s.Recipes.ListRecipes(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, recipes)

	items, err = s.Ingredients.ListIngredients(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	assert.ErrorIs(t, s.Users.DeleteUser(ctx, uuid.New()), common.ErrUserNotFound)
}
