package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"pantrify/internal/core/export"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 匯出處理器
type ExportHandler struct {
	exporter *export.Service
}

// NewExportHandler 創建匯出處理器
func NewExportHandler(exporter *export.Service) *ExportHandler {
	return &ExportHandler{exporter: exporter}
}

// Workbook 下載庫存與食譜的 Excel 活頁簿
func (h *ExportHandler) Workbook(c *gin.Context) {
	owner, ok := userID(c)
	if !ok {
		return
	}

	// 先寫入緩衝區，失敗時仍可回傳 JSON 錯誤
	var buf bytes.Buffer
	if err := h.exporter.Export(c.Request.Context(), owner, &buf); err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("pantrify-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
