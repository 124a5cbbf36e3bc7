package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"message"`           // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap 讓 errors.Is 可以穿透到原始錯誤
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is 以錯誤代碼比對，包裝後的錯誤仍可與預定義錯誤相等
func (e *CustomError) Is(target error) bool {
	t, ok := target.(*CustomError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrap 以原始錯誤包裝預定義錯誤
func (e *CustomError) Wrap(err error) *CustomError {
	return &CustomError{
		Code:    e.Code,
		Message: e.Message,
		Status:  e.Status,
		Err:     err,
	}
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// ValidationError 表示驗證錯誤，訊息直接顯示給使用者
type ValidationError struct {
	message string
	status  int
}

// Error 實現 error 介面
func (e *ValidationError) Error() string {
	return e.message
}

// Status 回傳對應的 HTTP 狀態碼
func (e *ValidationError) Status() int {
	if e.status == 0 {
		return http.StatusBadRequest
	}
	return e.status
}

// NewValidationError 創建新的驗證錯誤
func NewValidationError(message string) error {
	return &ValidationError{
		message: message,
	}
}

// NewConflictError 創建唯一性衝突的驗證錯誤
func NewConflictError(message string) error {
	return &ValidationError{
		message: message,
		status:  http.StatusConflict,
	}
}

// NewAuthError 創建登入失敗的驗證錯誤
func NewAuthError(message string) error {
	return &ValidationError{
		message: message,
		status:  http.StatusUnauthorized,
	}
}

// IsValidationError 檢查是否為驗證錯誤
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// 預定義錯誤代碼
const (
	ErrCodeInvalidRequest     = "INVALID_REQUEST"     // 400
	ErrCodeUnauthorized       = "UNAUTHORIZED"        // 401
	ErrCodeNotFound           = "NOT_FOUND"           // 404
	ErrCodeRequestTimeout     = "REQUEST_TIMEOUT"     // 408
	ErrCodeConflict           = "CONFLICT"            // 409
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"   // 429
	ErrCodeValidation         = "VALIDATION_ERROR"    // 400
	ErrCodeSuperseded         = "SUPERSEDED"          // 409
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodePersistence        = "PERSISTENCE_ERROR"   // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504
)

// 預定義錯誤
var (
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "Invalid request format", http.StatusBadRequest, nil)
	ErrUnauthorized    = NewError(ErrCodeUnauthorized, "Unauthorized", http.StatusUnauthorized, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "Resource not found", http.StatusNotFound, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "Too many requests", http.StatusTooManyRequests, nil)
	ErrInternalError   = NewError(ErrCodeInternalError, "Internal server error", http.StatusInternalServerError, nil)
	ErrGatewayTimeout  = NewError(ErrCodeGatewayTimeout, "Request timeout", http.StatusGatewayTimeout, nil)

	// 業務錯誤
	ErrUserNotFound       = NewError("USER_NOT_FOUND", "User not found", http.StatusNotFound, nil)
	ErrIngredientNotFound = NewError("INGREDIENT_NOT_FOUND", "Ingredient not found", http.StatusNotFound, nil)
	ErrRecipeNotFound     = NewError("RECIPE_NOT_FOUND", "Recipe not found", http.StatusNotFound, nil)
	ErrPersistence        = NewError(ErrCodePersistence, "Failed to save changes", http.StatusInternalServerError, nil)
	ErrSearchUnavailable  = NewError("SEARCH_UNAVAILABLE", "Couldn't fetch recipes. Please try again.", http.StatusBadGateway, nil)
	ErrClassifierFailed   = NewError("CLASSIFIER_UNAVAILABLE", "Unit classifier unavailable", http.StatusBadGateway, nil)
	ErrSuperseded         = NewError(ErrCodeSuperseded, "Request superseded by a newer one", http.StatusConflict, nil)
	ErrCacheMiss          = NewError("CACHE_MISS", "Cache miss", http.StatusNotFound, nil)
	ErrCacheFull          = NewError("CACHE_FULL", "Cache is full", http.StatusServiceUnavailable, nil)
)

// HTTPStatus 取得錯誤對應的 HTTP 狀態碼與代碼
func HTTPStatus(err error) (int, string) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Status(), ErrCodeValidation
	}
	var c *CustomError
	if errors.As(err, &c) {
		return c.Status, c.Code
	}
	return http.StatusInternalServerError, ErrCodeInternalError
}

// PublicMessage 取得可顯示給使用者的錯誤訊息
func PublicMessage(err error) string {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.message
	}
	var c *CustomError
	if errors.As(err, &c) {
		return c.Message
	}
	return ErrInternalError.Message
}
