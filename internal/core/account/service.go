package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pantrify/internal/core/recipe"
	"pantrify/internal/core/store"
	"pantrify/internal/pkg/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoginMethod 登入識別方式
type LoginMethod string

const (
	LoginByEmail    LoginMethod = "email"
	LoginByUsername LoginMethod = "username"
	LoginByPhone    LoginMethod = "phone"
)

// ParseLoginMethod 不分大小寫解析登入方式
func ParseLoginMethod(s string) (LoginMethod, bool) {
	switch m := LoginMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case LoginByEmail, LoginByUsername, LoginByPhone:
		return m, true
	}
	return "", false
}

// Service 帳號服務
type Service struct {
	store *store.Store
}

// NewService 創建帳號服務
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// SignupInput 註冊資料
type SignupInput struct {
	FirstName       string
	LastName        string
	Email           string
	Username        string
	PhoneNumber     string
	DateOfBirth     *time.Time
	Sex             string
	Password        string
	ConfirmPassword string
}

// ProfileInput 個人資料更新
type ProfileInput struct {
	FirstName   string
	LastName    string
	Email       string
	Username    string
	PhoneNumber string
	DateOfBirth *time.Time
	Sex         string
}

// Stats 使用者統計
type Stats struct {
	RecipesSaved  int `json:"recipes_saved"`
	RecipesCooked int `json:"recipes_cooked"`
	HoursSpent    int `json:"hours_spent"`
	Ingredients   int `json:"ingredients"`
	ReadyToCook   int `json:"ready_to_cook"`
}

// Signup 註冊新使用者，email 與使用者名稱不分大小寫唯一
func (s *Service) Signup(ctx context.Context, in SignupInput) (*store.User, error) {
	u := &store.User{
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Email:       strings.TrimSpace(in.Email),
		Username:    strings.TrimSpace(in.Username),
		PhoneNumber: common.StringPtr(in.PhoneNumber),
		DateOfBirth: in.DateOfBirth,
		Sex:         common.StringPtr(in.Sex),
		Password:    in.Password,
	}
	if u.FirstName == "" || u.LastName == "" || u.Email == "" || u.Username == "" || in.Password == "" {
		return nil, common.NewValidationError("All required fields must be filled")
	}
	if in.Password != in.ConfirmPassword {
		return nil, common.NewValidationError("Passwords do not match")
	}
	if err := s.checkUnique(ctx, uuid.Nil, u.Email, u.Username); err != nil {
		return nil, err
	}

	if err := s.store.Users.CreateUser(ctx, u); err != nil {
		common.LogError("註冊失敗", zap.String("username", u.Username), zap.Error(err))
		return nil, err
	}
	common.LogInfo("使用者已註冊", zap.String("user", u.ID.String()))
	return u, nil
}

// Login 以 email、使用者名稱或電話登入，密碼以明文比對
func (s *Service) Login(ctx context.Context, method, identifier, password string) (*store.User, error) {
	m, ok := ParseLoginMethod(method)
	if !ok {
		return nil, common.NewValidationError(fmt.Sprintf("Unknown login method: %s", method))
	}
	if identifier == "" || password == "" {
		return nil, common.NewValidationError("Please enter all fields")
	}

	var (
		u   *store.User
		err error
	)
	switch m {
	case LoginByEmail:
		u, err = s.store.Users.FindUserByEmail(ctx, identifier)
	case LoginByUsername:
		u, err = s.store.Users.FindUserByUsername(ctx, identifier)
	case LoginByPhone:
		u, err = s.store.Users.FindUserByPhone(ctx, identifier)
	}

	invalid := common.NewAuthError(fmt.Sprintf("Invalid %s or password", m))
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if u.Password != password {
		return nil, invalid
	}
	return u, nil
}

// Get 取得使用者
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*store.User, error) {
	return s.store.Users.GetUserByID(ctx, id)
}

// UpdateProfile 更新個人資料
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileInput) (*store.User, error) {
	u, err := s.store.Users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	first, last := strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName)
	email, username := strings.TrimSpace(in.Email), strings.TrimSpace(in.Username)
	if first == "" || last == "" || email == "" || username == "" {
		return nil, common.NewValidationError("All required fields must be filled")
	}
	if err := s.checkUnique(ctx, u.ID, email, username); err != nil {
		return nil, err
	}

	u.FirstName, u.LastName = first, last
	u.Email, u.Username = email, username
	u.PhoneNumber = common.StringPtr(in.PhoneNumber)
	u.Sex = common.StringPtr(in.Sex)
	if in.DateOfBirth != nil {
		u.DateOfBirth = in.DateOfBirth
	}

	if err := s.store.Users.UpdateUser(ctx, u); err != nil {
		common.LogError("更新個人資料失敗", zap.String("user", id.String()), zap.Error(err))
		return nil, err
	}
	return u, nil
}

// ChangePassword 變更密碼
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, password, confirm string) error {
	if password == "" {
		return common.NewValidationError("Password cannot be empty")
	}
	if password != confirm {
		return common.NewValidationError("Passwords do not match")
	}
	u, err := s.store.Users.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	u.Password = password
	return s.store.Users.UpdateUser(ctx, u)
}

// DeleteAccount 刪除帳號及其食材與食譜
func (s *Service) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Users.DeleteUser(ctx, id); err != nil {
		return err
	}
	common.LogInfo("帳號已刪除", zap.String("user", id.String()))
	return nil
}

// RecordSession 累計使用時間
func (s *Service) RecordSession(ctx context.Context, id uuid.UUID, d time.Duration) (*store.User, error) {
	if d < 0 {
		return nil, common.NewValidationError("Session duration cannot be negative")
	}
	u, err := s.store.Users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.HoursSpent += d.Hours()
	if err := s.store.Users.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Stats 收藏、烹飪、使用時間與庫存統計
func (s *Service) Stats(ctx context.Context, id uuid.UUID) (*Stats, error) {
	u, err := s.store.Users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	recipes, err := s.store.Recipes.ListRecipes(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.store.Ingredients.ListIngredients(ctx, id)
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.Normalized
	}

	cooked := 0
	for _, r := range recipes {
		if r.IsCooked {
			cooked++
		}
	}

	return &Stats{
		RecipesSaved:  len(recipes),
		RecipesCooked: cooked,
		HoursSpent:    int(u.HoursSpent),
		Ingredients:   len(items),
		ReadyToCook:   recipe.CountReady(recipes, recipe.NewPantryKeys(keys)),
	}, nil
}

// checkUnique 檢查 email 與使用者名稱是否已被其他人使用
func (s *Service) checkUnique(ctx context.Context, self uuid.UUID, email, username string) error {
	if existing, err := s.store.Users.FindUserByEmail(ctx, email); err == nil {
		if existing.ID != self {
			return common.NewConflictError("Email already exists")
		}
	} else if !errors.Is(err, common.ErrUserNotFound) {
		return err
	}

	if existing, err := s.store.Users.FindUserByUsername(ctx, username); err == nil {
		if existing.ID != self {
			return common.NewConflictError("Username already exists")
		}
	} else if !errors.Is(err, common.ErrUserNotFound) {
		return err
	}
	return nil
}
