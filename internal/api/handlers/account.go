package handlers

import (
	"net/http"
	"time"

	"pantrify/internal/core/account"

	"github.com/gin-gonic/gin"
)

// AccountHandler 帳號相關處理器
type AccountHandler struct {
	accounts *account.Service
}

// NewAccountHandler 創建帳號處理器
func NewAccountHandler(accounts *account.Service) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type signupRequest struct {
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Email           string     `json:"email"`
	Username        string     `json:"username"`
	PhoneNumber     string     `json:"phone_number"`
	DateOfBirth     *time.Time `json:"date_of_birth"`
	Sex             string     `json:"sex"`
	Password        string     `json:"password"`
	ConfirmPassword string     `json:"confirm_password"`
}

type loginRequest struct {
	Method     string `json:"method"`
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type profileRequest struct {
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	Username    string     `json:"username"`
	PhoneNumber string     `json:"phone_number"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Sex         string     `json:"sex"`
}

type passwordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type sessionRequest struct {
	Seconds float64 `json:"seconds" binding:"gte=0"`
}

// Signup 註冊
func (h *AccountHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.accounts.Signup(c.Request.Context(), account.SignupInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Username:        req.Username,
		PhoneNumber:     req.PhoneNumber,
		DateOfBirth:     req.DateOfBirth,
		Sex:             req.Sex,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login 以 email、使用者名稱或電話登入
func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.accounts.Login(c.Request.Context(), req.Method, req.Identifier, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Get 取得使用者資料
func (h *AccountHandler) Get(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	user, err := h.accounts.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile 更新個人資料
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.accounts.UpdateProfile(c.Request.Context(), id, account.ProfileInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Username:    req.Username,
		PhoneNumber: req.PhoneNumber,
		DateOfBirth: req.DateOfBirth,
		Sex:         req.Sex,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ChangePassword 修改密碼
func (h *AccountHandler) ChangePassword(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.accounts.ChangePassword(c.Request.Context(), id, req.Password, req.ConfirmPassword); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete 刪除帳號與其所有資料
func (h *AccountHandler) Delete(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	if err := h.accounts.DeleteAccount(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RecordSession 累計使用時間
func (h *AccountHandler) RecordSession(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	d := time.Duration(req.Seconds * float64(time.Second))
	user, err := h.accounts.RecordSession(c.Request.Context(), id, d)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Stats 使用者統計
func (h *AccountHandler) Stats(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	stats, err := h.accounts.Stats(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
