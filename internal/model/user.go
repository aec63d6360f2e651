package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/plugin/soft_delete"
)

const (
	RoleContractor    = "contractor"
	RoleSubcontractor = "subcontractor"
)

// User is an account in the dispatch system. A contractor administers
// subcontractors (drivers), work and notices; a subcontractor performs
// work and confirms notices. Removal is a soft delete.
//
// The phone number is unique among live users only: DeletedAt is part of
// the unique index and holds zero until deletion, so removing a driver
// frees their number for re-registration.
type User struct {
	ID           uuid.UUID             `gorm:"type:uuid;primaryKey" json:"id"`
	Role         string                `gorm:"size:20;not null" json:"role"`
	PhoneNumber  string                `gorm:"size:20;not null;uniqueIndex:udx_users_phone_number" json:"phone_number"`
	PasswordHash string                `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    soft_delete.DeletedAt `gorm:"softDelete:milli;uniqueIndex:udx_users_phone_number" json:"-"`

	UserInfo *UserInfo `gorm:"constraint:OnDelete:CASCADE" json:"user_info,omitempty"`
	Works    []Work    `gorm:"foreignKey:UserID" json:"works,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsContractor() bool {
	return u.Role == RoleContractor
}

// UserInfo holds the driver-facing identity of a subcontractor. Exactly one
// row per subcontractor, lifecycle tied to the owning user.
type UserInfo struct {
	ID                      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Realname                string    `gorm:"size:32;not null" json:"realname"`
	DateOfBirth             string    `gorm:"size:6;not null" json:"date_of_birth"`
	LicenseNumber           string    `gorm:"size:32;not null" json:"license_number"`
	LicenseType             string    `gorm:"size:32;not null" json:"license_type"`
	InsuranceNumber         string    `gorm:"size:32;not null" json:"insurance_number"`
	InsuranceExpirationDate time.Time `gorm:"type:date;not null" json:"-"`
	CreatedAt               time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt               time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (i *UserInfo) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
