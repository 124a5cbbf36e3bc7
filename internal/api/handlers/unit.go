package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"pantrify/internal/core/classifier"
	"pantrify/internal/core/ingredient"
	"pantrify/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// UnitHandler 單位換算與分類處理器
type UnitHandler struct {
	classifier classifier.Classifier
}

// NewUnitHandler 創建單位處理器
func NewUnitHandler(cls classifier.Classifier) *UnitHandler {
	return &UnitHandler{classifier: cls}
}

type convertRequest struct {
	Quantity float64 `json:"quantity"`
	From     string  `json:"from" binding:"required"`
	To       string  `json:"to" binding:"required"`
	UnitType string  `json:"unit_type" binding:"required"`
}

// Options 所有單位類別與子單位
func (h *UnitHandler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"units": ingredient.AllUnitOptions()})
}

// Convert 同類別內換算數量，不在類別內的子單位原值返回
func (h *UnitHandler) Convert(c *gin.Context) {
	var req convertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	family, ok := ingredient.ParseUnitType(req.UnitType)
	if !ok {
		respondError(c, common.NewValidationError(fmt.Sprintf("Unknown unit type: %s", req.UnitType)))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"quantity": ingredient.Convert(req.Quantity, req.From, req.To, family),
		"unit":     req.To,
	})
}

// Classify 無使用者上下文的單位判定，不參與取代
func (h *UnitHandler) Classify(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	display, key := ingredient.NormalizeName(name)
	if key == "" {
		respondError(c, common.NewValidationError("Please enter a name."))
		return
	}

	result := h.classify(c.Request.Context(), display)
	c.JSON(http.StatusOK, gin.H{
		"name":      display,
		"unit_type": result.UnitType,
		"sub_units": result.UnitType.SubUnits(),
		"fallback":  result.Fallback,
		"cached":    result.Cached,
	})
}

func (h *UnitHandler) classify(ctx context.Context, name string) classifier.Result {
	if h.classifier == nil {
		return classifier.Result{UnitType: ingredient.DefaultUnitType, Fallback: true}
	}
	return h.classifier.Classify(ctx, name)
}
