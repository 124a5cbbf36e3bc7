package handlers

import (
	"context"
	"net/http"
	"strconv"

	"pantrify/internal/core/mealdb"
	"pantrify/internal/core/recipe"
	"pantrify/internal/core/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RecipeHandler 食譜處理器
type RecipeHandler struct {
	recipes *recipe.Service
}

// NewRecipeHandler 創建食譜處理器
func NewRecipeHandler(recipes *recipe.Service) *RecipeHandler {
	return &RecipeHandler{recipes: recipes}
}

type createRecipeRequest struct {
	Title           string   `json:"title"`
	Ingredients     []string `json:"ingredients"`
	Instructions    []string `json:"instructions"`
	Tags            []string `json:"tags"`
	SourceURL       string   `json:"source_url"`
	CookTimeMinutes *int     `json:"cook_time_minutes"`
	Servings        *int     `json:"servings"`
	Difficulty      string   `json:"difficulty"`
}

type flagRequest struct {
	Value *bool `json:"value" binding:"required"`
}

// Library 食譜收藏，可用 category 過濾
func (h *RecipeHandler) Library(c *gin.Context) {
	owner, ok := userID(c)
	if !ok {
		return
	}
	lib, err := h.recipes.Library(c.Request.Context(), owner, c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lib)
}

// Categories 可用分類
func (h *RecipeHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": recipe.Categories})
}

// Detail 食譜詳情
func (h *RecipeHandler) Detail(c *gin.Context) {
	owner, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "recipeID")
	if !ok {
		return
	}
	detail, err := h.recipes.Detail(c.Request.Context(), owner, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Create 手動新增食譜
func (h *RecipeHandler) Create(c *gin.Context) {
	owner, ok := userID(c)
	if !ok {
		return
	}
	var req createRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	r, err := h.recipes.Create(c.Request.Context(), owner, recipe.CreateInput{
		Title:           req.Title,
		Ingredients:     req.Ingredients,
		Instructions:    req.Instructions,
		Tags:            req.Tags,
		SourceURL:       req.SourceURL,
		CookTimeMinutes: req.CookTimeMinutes,
		Servings:        req.Servings,
		Difficulty:      req.Difficulty,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recipe": r})
}

// Search 搜尋網路食譜，prioritize=true 時就緒者優先
func (h *RecipeHandler) Search(c *gin.Context) {
	owner, ok := userID(c)
	if !ok {
		return
	}
	prioritize, _ := strconv.ParseBool(c.DefaultQuery("prioritize", "false"))

	results, err := h.recipes.Search(c.Request.Context(), owner, c.Query("q"), prioritize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// Import 將搜尋結果存入收藏
func (h *RecipeHandler) Import(c *gin.Context) {
	owner, ok := userID(c)
	if !ok {
		return
	}
	var req mealdb.WebRecipe
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	r, err := h.recipes.Import(c.Request.Context(), owner, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recipe": r})
}

// SetCooked 標記已烹煮
func (h *RecipeHandler) SetCooked(c *gin.Context) {
	h.setFlag(c, h.recipes.SetCooked)
}

// SetPlanned 標記已計畫
func (h *RecipeHandler) SetPlanned(c *gin.Context) {
	h.setFlag(c, h.recipes.SetPlanned)
}

// setFlag 共用的布林旗標更新
func (h *RecipeHandler) setFlag(c *gin.Context, set func(ctx context.Context, owner, id uuid.UUID, v bool) (*store.Recipe, error)) {
	owner, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "recipeID")
	if !ok {
		return
	}
	var req flagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	r, err := set(c.Request.Context(), owner, id, *req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": r})
}

// Delete 刪除食譜
func (h *RecipeHandler) Delete(c *gin.Context) {
	owner, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "recipeID")
	if !ok {
		return
	}
	if err := h.recipes.Delete(c.Request.Context(), owner, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
