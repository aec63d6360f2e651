package dto

import (
	"time"

	"anoa.com/dispatchhub/internal/model"
	"github.com/google/uuid"
)

type LoginInput struct {
	PhoneNumber string `json:"phone_number" binding:"required,phone_number"`
	Password    string `json:"password" binding:"required"`
}

type ChangePasswordInput struct {
	Password string `json:"password" binding:"required,min=4"`
}

type AuthResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresAt   int64         `json:"expires_at"`
	User        *UserResponse `json:"user"`
}

// UserInfoResponse is the serialized driver identity. The insurance
// expiration date is stored as a plain date and formatted here, at the
// DTO boundary.
type UserInfoResponse struct {
	Realname                string `json:"realname"`
	DateOfBirth             string `json:"date_of_birth"`
	LicenseNumber           string `json:"license_number"`
	LicenseType             string `json:"license_type"`
	InsuranceNumber         string `json:"insurance_number"`
	InsuranceExpirationDate string `json:"insurance_expiration_date"`
}

type UserResponse struct {
	ID          uuid.UUID         `json:"id"`
	Role        string            `json:"role"`
	PhoneNumber string            `json:"phone_number"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	UserInfo    *UserInfoResponse `json:"user_info,omitempty"`
}

func NewUserResponse(u *model.User) *UserResponse {
	res := &UserResponse{
		ID:          u.ID,
		Role:        u.Role,
		PhoneNumber: u.PhoneNumber,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
	if u.UserInfo != nil {
		res.UserInfo = &UserInfoResponse{
			Realname:                u.UserInfo.Realname,
			DateOfBirth:             u.UserInfo.DateOfBirth,
			LicenseNumber:           u.UserInfo.LicenseNumber,
			LicenseType:             u.UserInfo.LicenseType,
			InsuranceNumber:         u.UserInfo.InsuranceNumber,
			InsuranceExpirationDate: u.UserInfo.InsuranceExpirationDate.Format("2006-01-02"),
		}
	}
	return res
}
