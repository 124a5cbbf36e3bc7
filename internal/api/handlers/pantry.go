package handlers

import (
	"net/http"

	"pantrify/internal/core/pantry"

	"github.com/gin-gonic/gin"
)

// PantryHandler 食材庫存處理器
type PantryHandler struct {
	pantry *pantry.Service
}

// NewPantryHandler 創建庫存處理器
func NewPantryHandler(svc *pantry.Service) *PantryHandler {
	return &PantryHandler{pantry: svc}
}

type addIngredientRequest struct {
	Name     string  `json:"name"`
	UnitType string  `json:"unit_type"`
	SubUnit  string  `json:"sub_unit"`
	Quantity float64 `json:"quantity"`
}

type classifyRequest struct {
	Name  string `json:"name"`
	Field string `json:"field"`
}

type subUnitRequest struct {
	SubUnit string `json:"sub_unit" binding:"required"`
}

// List 列出庫存
func (h *PantryHandler) List(c *gin.Context) {
	owner, ok := userID(c)
	if !ok {
		return
	}
	items, err := h.pantry.List(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": items})
}

// Keys 庫存標準鍵
func (h *PantryHandler) Keys(c *gin.Context) {
	owner, ok := userID(c)
	if !ok {
		return
	}
	keys, err := h.pantry.Keys(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"keys": keys})
}

// Classify 判定食材單位類別
func (h *PantryHandler) Classify(c *gin.Context) {
	owner, ok := userID(c)
	if !ok {
		return
	}
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.pantry.Classify(c.Request.Context(), owner, req.Field, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Add 新增食材
func (h *PantryHandler) Add(c *gin.Context) {
	owner, ok := userID(c)
	if !ok {
		return
	}
	var req addIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.pantry.Add(c.Request.Context(), owner, pantry.AddInput{
		Name:     req.Name,
		UnitType: req.UnitType,
		SubUnit:  req.SubUnit,
		Quantity: req.Quantity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Increment 數量加一
func (h *PantryHandler) Increment(c *gin.Context) {
	owner, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "ingredientID")
	if !ok {
		return
	}
	ing, err := h.pantry.Increment(c.Request.Context(), owner, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredient": ing})
}

// Decrement 數量減一，歸零時刪除並回傳 removed
func (h *PantryHandler) Decrement(c *gin.Context) {
	owner, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "ingredientID")
	if !ok {
		return
	}
	ing, err := h.pantry.Decrement(c.Request.Context(), owner, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredient": ing, "removed": ing == nil})
}

// ChangeSubUnit 切換子單位並換算數量
func (h *PantryHandler) ChangeSubUnit(c *gin.Context) {
	owner, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "ingredientID")
	if !ok {
		return
	}
	var req subUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ing, err := h.pantry.ChangeSubUnit(c.Request.Context(), owner, id, req.SubUnit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredient": ing})
}

// Remove 刪除食材
func (h *PantryHandler) Remove(c *gin.Context) {
	owner, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "ingredientID")
	if !ok {
		return
	}
	if err := h.pantry.Remove(c.Request.Context(), owner, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
