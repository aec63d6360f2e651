package dto

import (
	"anoa.com/dispatchhub/internal/model"
	"github.com/google/uuid"
)

type CreateNoticeInput struct {
	Title     string `json:"title" binding:"required,max=20"`
	Content   string `json:"content" binding:"required"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02"`
}

type UpdateNoticeInput = CreateNoticeInput

type ListNoticesQuery struct {
	StartDate string `form:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"endDate" binding:"omitempty,datetime=2006-01-02"`
}

// NoticeForContractor annotates a notice with every driver who confirmed it.
type NoticeForContractor struct {
	model.Notice
	ConfirmedUserIDs []uuid.UUID `json:"confirmed_user_ids"`
}

// NoticeForDriver annotates a notice with the requesting driver's own
// confirmation state.
type NoticeForDriver struct {
	model.Notice
	IsConfirmed bool `json:"is_confirmed"`
}

type ConfirmNoticeResponse struct {
	Message      string                    `json:"message"`
	Confirmation *model.NoticeConfirmation `json:"confirmation"`
}
