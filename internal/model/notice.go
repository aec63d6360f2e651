package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notice is an announcement authored by a contractor, visible to drivers
// while today falls inside [StartDate, EndDate] (date-only, inclusive).
type Notice struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Title     string    `gorm:"size:20;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	StartDate time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null" json:"end_date"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User          *User                `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Confirmations []NoticeConfirmation `gorm:"foreignKey:NoticeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (n *Notice) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID, err = uuid.NewV7()
	}
	return
}

// IsActiveOn reports whether the notice window covers the given day.
// Comparison is date-only: a notice starting or ending today is active.
func (n *Notice) IsActiveOn(t time.Time) bool {
	day := dateOnly(t)
	return !day.Before(dateOnly(n.StartDate)) && !day.After(dateOnly(n.EndDate))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NoticeConfirmation records a driver's acknowledgment of a notice.
// At most one row exists per (notice, user) pair; the composite unique
// index makes the storage layer the last line of defense against the
// check-then-insert race.
type NoticeConfirmation struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	NoticeID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_notice_confirmation_notice_user" json:"notice_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_notice_confirmation_notice_user" json:"user_id"`
	ConfirmedAt time.Time `gorm:"not null" json:"confirmed_at"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *NoticeConfirmation) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	if c.ConfirmedAt.IsZero() {
		c.ConfirmedAt = time.Now()
	}
	return
}
