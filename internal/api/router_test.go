package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pantrify/internal/core/account"
	"pantrify/internal/core/classifier"
	"pantrify/internal/core/export"
	"pantrify/internal/core/ingredient"
	"pantrify/internal/core/mealdb"
	"pantrify/internal/core/pantry"
	"pantrify/internal/core/recipe"
	"pantrify/internal/core/store"
	"pantrify/internal/infrastructure/cache"
	"pantrify/internal/infrastructure/config"
	"pantrify/internal/infrastructure/database"
	"pantrify/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubClassifier struct{}

func (stubClassifier) Classify(ctx context.Context, name string) classifier.Result {
	if ingredient.Key(name) == "milk" {
		return classifier.Result{UnitType: ingredient.UnitLiters}
	}
	return classifier.Result{UnitType: ingredient.UnitPieces, Fallback: true}
}

type stubSearcher struct{}

func (stubSearcher) Search(ctx context.Context, query string) ([]mealdb.WebRecipe, error) {
	return []mealdb.WebRecipe{
		{ID: "1", Title: "Pancakes", Ingredients: []string{"Milk", "Egg"}, Instructions: []string{"Mix", "Fry"}},
		{ID: "2", Title: "Milkshake", Ingredients: []string{"Milk"}, Instructions: []string{"Blend"}},
	}, nil
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	cfg := config.Default()
	cfg.App.Debug = false
	cfg.RateLimit.Enabled = false

	st := store.New(db)
	recipes := recipe.NewService(st, stubSearcher{}, time.Second)
	router := SetupRouter(cfg, Services{
		Accounts:   account.NewService(st),
		Pantry:     pantry.NewService(st, stubClassifier{}, time.Second),
		Recipes:    recipes,
		Export:     export.NewService(st, recipes),
		Classifier: stubClassifier{},
		Cache:      cache.Noop{},
		Ping:       func() error { return database.Ping(db) },
	})
	return &testServer{t: t, router: router}
}

func (s *testServer) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		data, err := common.ToJSON(body)
		require.NoError(s.t, err)
		buf.WriteString(data)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) decode(w *httptest.ResponseRecorder, v interface{}) {
	s.t.Helper()
	require.NoError(s.t, common.ParseJSONBytes(w.Body.Bytes(), v))
}

func (s *testServer) signup() string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/v1/signup", map[string]string{
		"first_name":       "Ada",
		"last_name":        "Lovelace",
		"email":            "ada@example.com",
		"username":         "ada",
		"password":         "secret",
		"confirm_password": "secret",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		User store.User `json:"user"`
	}
	s.decode(w, &resp)
	return resp.User.ID.String()
}

func TestSignupAndLogin(t *testing.T) {
	s := newTestServer(t)
	id := s.signup()

	w := s.do(http.MethodPost, "/api/v1/login", map[string]string{
		"method": "email", "identifier": "ADA@example.com", "password": "secret",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id)
	assert.NotContains(t, w.Body.String(), "secret")

	w = s.do(http.MethodPost, "/api/v1/login", map[string]string{
		"method": "username", "identifier": "ada", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var errResp common.ErrorResponse
	s.decode(w, &errResp)
	assert.Equal(t, "Invalid username or password", errResp.Message)
}

func TestSignupConflict(t *testing.T) {
	s := newTestServer(t)
	s.signup()

	w := s.do(http.MethodPost, "/api/v1/signup", map[string]string{
		"first_name": "A", "last_name": "B", "email": "ADA@example.com", "username": "other",
		"password": "x", "confirm_password": "x",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Email already exists")
}

func TestPantryFlow(t *testing.T) {
	s := newTestServer(t)
	id := s.signup()
	base := "/api/v1/users/" + id + "/pantry"

	w := s.do(http.MethodPost, base, map[string]interface{}{"name": "milk", "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var added pantry.AddResult
	s.decode(w, &added)
	assert.Equal(t, ingredient.UnitLiters, added.Ingredient.UnitType)
	assert.Equal(t, "Milk", added.Ingredient.Name)

	ingPath := base + "/" + added.Ingredient.ID.String()
	w = s.do(http.MethodPut, ingPath+"/sub-unit", map[string]string{"sub_unit": "L"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var changed struct {
		Ingredient store.Ingredient `json:"ingredient"`
	}
	s.decode(w, &changed)
	assert.Equal(t, "L", changed.Ingredient.SubUnit)
	assert.InDelta(t, 0.002, changed.Ingredient.Quantity, 1e-9)

	w = s.do(http.MethodGet, base+"/keys", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"keys":["milk"]}`, w.Body.String())

	w = s.do(http.MethodPost, ingPath+"/decrement", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"removed":true`)

	w = s.do(http.MethodDelete, ingPath, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecipeSearchImportAndDetail(t *testing.T) {
	s := newTestServer(t)
	id := s.signup()
	base := "/api/v1/users/" + id

	w := s.do(http.MethodPost, base+"/pantry", map[string]interface{}{"name": "milk", "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, base+"/recipes/search?q=milk&prioritize=true", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var results recipe.SearchResults
	s.decode(w, &results)
	require.Len(t, results.Items, 2)
	assert.Equal(t, "Milkshake", results.Items[0].Result.Title)
	assert.True(t, results.Items[0].Readiness.Ready)

	w = s.do(http.MethodPost, base+"/recipes/import", results.Items[1].Result)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var imported struct {
		Recipe store.Recipe `json:"recipe"`
	}
	s.decode(w, &imported)

	w = s.do(http.MethodGet, base+"/recipes/"+imported.Recipe.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail recipe.Detail
	s.decode(w, &detail)
	assert.Equal(t, "Missing 1", detail.Readiness.Badge)
	assert.Equal(t, []string{"Egg"}, detail.Readiness.MissingDisplay)

	w = s.do(http.MethodPut, base+"/recipes/"+imported.Recipe.ID.String()+"/cooked", map[string]bool{"value": true})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, base+"/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats account.Stats
	s.decode(w, &stats)
	assert.Equal(t, 1, stats.RecipesSaved)
	assert.Equal(t, 1, stats.RecipesCooked)
	assert.Equal(t, 1, stats.Ingredients)

	w = s.do(http.MethodGet, base+"/recipes?category=Dessert", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRecipeValidation(t *testing.T) {
	s := newTestServer(t)
	id := s.signup()

	w := s.do(http.MethodPost, "/api/v1/users/"+id+"/recipes", map[string]interface{}{
		"title": "  ", "instructions": []string{"Boil"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var errResp common.ErrorResponse
	s.decode(w, &errResp)
	assert.Equal(t, common.ErrCodeValidation, errResp.Code)
	assert.Equal(t, "Please enter a title.", errResp.Message)
}

func TestInvalidUserID(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/api/v1/users/not-a-uuid/pantry", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnitsEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/units/convert", map[string]interface{}{
		"quantity": 1500, "from": "g", "to": "kg", "unit_type": "grams",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"quantity":1.5,"unit":"kg"}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/units/classify?name=whole%20milk", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"fallback":true`)

	w = s.do(http.MethodGet, "/api/v1/units/classify?name=milk", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"unit_type":"liters"`)
}

func TestExportWorkbook(t *testing.T) {
	s := newTestServer(t)
	id := s.signup()

	w := s.do(http.MethodPost, "/api/v1/users/"+id+"/pantry", map[string]interface{}{"name": "milk", "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/api/v1/users/"+id+"/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Pantry")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Milk", rows[1][0])
}

func TestDeleteAccountRemovesData(t *testing.T) {
	s := newTestServer(t)
	id := s.signup()

	w := s.do(http.MethodDelete, "/api/v1/users/"+id, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/api/v1/users/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthRoutes(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health", nil).Code)
	w := s.do(http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "recipe-search")
	assert.Contains(t, w.Body.String(), "unit-classify")
}

func TestImportSameResultTwiceCreatesTwoRecipes(t *testing.T) {
	s := newTestServer(t)
	id := s.signup()
	base := "/api/v1/users/" + id + "/recipes"

	result := mealdb.WebRecipe{ID: "52772", Title: "Teriyaki", Ingredients: []string{"soy sauce"}, Instructions: []string{"Cook"}}
	first := s.do(http.MethodPost, base+"/import", result)
	second := s.do(http.MethodPost, base+"/import", result)
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	require.Equal(t, http.StatusCreated, second.Code, second.Body.String())

	w := s.do(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var lib recipe.Library
	s.decode(w, &lib)
	assert.Equal(t, 2, lib.Total)
}

func TestRepeatedSignupIsRejectedWithinWindow(t *testing.T) {
	s := newTestServer(t)
	body := map[string]string{
		"first_name": "Ada", "last_name": "L", "email": "ada@example.com", "username": "ada",
		"password": "x", "confirm_password": "x",
	}
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/signup", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, s.do(http.MethodPost, "/api/v1/signup", body).Code)
}
