package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentTypeDirect = "DIRECT"
	PaymentTypeCash   = "CASH"
)

// WorkState is derived from the timestamp fields, never stored.
type WorkState string

const (
	WorkStateBooked    WorkState = "BOOKED"
	WorkStateActive    WorkState = "ACTIVE"
	WorkStateChecked   WorkState = "CHECKED"
	WorkStateCompleted WorkState = "COMPLETED"
)

// Work is a single delivery job. UserID is nil while the work is
// unassigned. A future BookingDate marks a booking that the hourly
// activation job later promotes into live work.
type Work struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Origin      string     `gorm:"size:255;not null" json:"origin"`
	Waypoint    *string    `gorm:"size:255" json:"waypoint,omitempty"`
	Destination string     `gorm:"size:255;not null" json:"destination"`
	CarModel    string     `gorm:"size:255;not null" json:"car_model"`
	Charge      int        `gorm:"not null" json:"charge"`
	Adjustment  *int       `json:"adjustment,omitempty"`
	Subsidy     *int       `json:"subsidy,omitempty"`
	PaymentType string     `gorm:"size:20;not null" json:"payment_type"`
	Remark      *string    `gorm:"type:text" json:"remark,omitempty"`
	CheckTime   *time.Time `json:"check_time"`
	EndTime     *time.Time `json:"end_time"`
	BookingDate *time.Time `gorm:"index" json:"booking_date"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	User *User `gorm:"constraint:OnDelete:SET NULL" json:"user,omitempty"`
}

func (w *Work) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == uuid.Nil {
		w.ID, err = uuid.NewV7()
	}
	return
}

// State derives the lifecycle state at instant now.
func (w *Work) State(now time.Time) WorkState {
	switch {
	case w.BookingDate != nil && w.BookingDate.After(now):
		return WorkStateBooked
	case w.EndTime != nil:
		return WorkStateCompleted
	case w.CheckTime != nil:
		return WorkStateChecked
	default:
		return WorkStateActive
	}
}

// IsAssignedTo reports whether the work belongs to the given driver.
func (w *Work) IsAssignedTo(userID uuid.UUID) bool {
	return w.UserID != nil && *w.UserID == userID
}

// CompletedBefore reports whether the work was completed more than d ago.
// Completed work stays editable by its driver only within that window.
func (w *Work) CompletedBefore(now time.Time, d time.Duration) bool {
	return w.EndTime != nil && now.Sub(*w.EndTime) > d
}
