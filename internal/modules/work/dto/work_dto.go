package dto

import (
	"time"

	"anoa.com/dispatchhub/internal/model"
	"github.com/google/uuid"
)

type CreateWorkInput struct {
	UserID      *uuid.UUID `json:"user_id"`
	Origin      string     `json:"origin" binding:"required,max=255"`
	Waypoint    *string    `json:"waypoint" binding:"omitempty,max=255"`
	Destination string     `json:"destination" binding:"required,max=255"`
	CarModel    string     `json:"car_model" binding:"required,max=255"`
	Charge      int        `json:"charge" binding:"required"`
	Adjustment  *int       `json:"adjustment"`
	Subsidy     *int       `json:"subsidy"`
	PaymentType string     `json:"payment_type" binding:"required,oneof=DIRECT CASH"`
	Remark      *string    `json:"remark"`
	BookingDate *time.Time `json:"booking_date"`
}

type UpdateWorkInput = CreateWorkInput

type ListWorksQuery struct {
	StartDate string `form:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"endDate" binding:"omitempty,datetime=2006-01-02"`
	Booked    bool   `form:"booked"`
}

type AnalysisQuery struct {
	By string `form:"by" binding:"omitempty,oneof=day month"`
}

// WorkResponse is a Work decorated with its derived lifecycle state,
// payout and fee. The stored row carries none of these values.
type WorkResponse struct {
	model.Work
	State  model.WorkState `json:"state"`
	Payout float64         `json:"payout"`
	Fee    float64         `json:"fee"`
}
