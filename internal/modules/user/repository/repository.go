package repository

import (
	"context"

	"anoa.com/dispatchhub/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByPhoneNumber(ctx context.Context, phoneNumber string) (*model.User, error)
	// Create persists the user together with its UserInfo, if any.
	Create(ctx context.Context, user *model.User) error
	Save(ctx context.Context, user *model.User) error
	SaveInfo(ctx context.Context, info *model.UserInfo) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	// Delete soft-deletes the user.
	Delete(ctx context.Context, user *model.User) error
	// ListSubcontractors returns every driver with info, ordered by realname.
	ListSubcontractors(ctx context.Context) ([]model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("UserInfo").
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByPhoneNumber(ctx context.Context, phoneNumber string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("UserInfo").
		First(&user, "phone_number = ?", phoneNumber).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Save(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Omit("UserInfo").Save(user).Error
}

func (r *userRepository) SaveInfo(ctx context.Context, info *model.UserInfo) error {
	return r.db.WithContext(ctx).Save(info).Error
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

func (r *userRepository) Delete(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Delete(user).Error
}

func (r *userRepository) ListSubcontractors(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Joins("LEFT JOIN user_infos ON user_infos.user_id = users.id").
		Where("users.role = ?", model.RoleSubcontractor).
		Preload("UserInfo").
		Order("user_infos.realname ASC").
		Find(&users).Error
	return users, err
}
