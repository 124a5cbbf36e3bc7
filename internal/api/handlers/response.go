package handlers

import (
	"net/http"

	"pantrify/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// respondError 將服務錯誤轉為統一的錯誤響應
func respondError(c *gin.Context, err error) {
	status, code := common.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		common.LogError("Request failed",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", requestid.Get(c)),
		)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, common.ErrorResponse{
		Code:    code,
		Message: common.PublicMessage(err),
	})
}

// badRequest 請求格式錯誤
func badRequest(c *gin.Context, err error) {
	common.LogDebug("Invalid request format", zap.Error(err), zap.String("path", c.Request.URL.Path))
	c.AbortWithStatusJSON(http.StatusBadRequest, common.ErrorResponse{
		Code:    common.ErrCodeInvalidRequest,
		Message: common.ErrInvalidRequest.Message,
	})
}

// pathUUID 解析路徑參數中的 UUID，失敗時直接回應 400
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "Invalid " + name,
		})
		return uuid.Nil, false
	}
	return id, true
}

// userID 取得路徑中的使用者 ID
func userID(c *gin.Context) (uuid.UUID, bool) {
	return pathUUID(c, "userID")
}
