package store

import (
	"context"
	"strings"

	"pantrify/internal/pkg/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// UserRepository 使用者資料存取
	UserRepository interface {
		CreateUser(ctx context.Context, user *User) error
		GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
		FindUserByEmail(ctx context.Context, email string) (*User, error)
		FindUserByUsername(ctx context.Context, username string) (*User, error)
		FindUserByPhone(ctx context.Context, phone string) (*User, error)
		UpdateUser(ctx context.Context, user *User) error
		DeleteUser(ctx context.Context, id uuid.UUID) error
	}

	userRepository struct {
		db *gorm.DB
	}
)

// NewUserRepository 創建使用者資料存取
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *User) error {
	if err := validateModel(user); err != nil {
		return err
	}
	return persistenceError("create user", r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFound(err, common.ErrUserNotFound, "get user")
	}
	return &user, nil
}

// FindUserByEmail 不分大小寫比對 email
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.findFold(ctx, "email", email)
}

// FindUserByUsername 不分大小寫比對使用者名稱
func (r *userRepository) FindUserByUsername(ctx context.Context, username string) (*User, error) {
	return r.findFold(ctx, "username", username)
}

func (r *userRepository) FindUserByPhone(ctx context.Context, phone string) (*User, error) {
	var user User
	if err := r.db.WithContext(ctx).Where("phone_number = ?", phone).First(&user).Error; err != nil {
		return nil, notFound(err, common.ErrUserNotFound, "find user by phone")
	}
	return &user, nil
}

func (r *userRepository) findFold(ctx context.Context, column, value string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).
		Where("LOWER("+column+") = ?", strings.ToLower(value)).
		First(&user).Error
	if err != nil {
		return nil, notFound(err, common.ErrUserNotFound, "find user by "+column)
	}
	return &user, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user *User) error {
	if err := validateModel(user); err != nil {
		return err
	}
	return persistenceError("update user", r.db.WithContext(ctx).Save(user).Error)
}

// DeleteUser 刪除使用者並連帶刪除其食材與食譜
func (r *userRepository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", id).Delete(&Ingredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", id).Delete(&Recipe{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return notFound(err, common.ErrUserNotFound, "delete user")
	}
	return nil
}
