package repository

import (
	"context"
	"errors"
	"time"

	"anoa.com/dispatchhub/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoticeRepository interface {
	Create(ctx context.Context, notice *model.Notice) error
	Save(ctx context.Context, notice *model.Notice) error
	// Delete removes the notice and its confirmation rows in one
	// transaction, so no orphaned ledger entries survive.
	Delete(ctx context.Context, notice *model.Notice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Notice, error)

	// ListCreatedBetween returns notices created within [from, to] with
	// confirmations preloaded, newest first.
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]model.Notice, error)
	// ListActiveOn returns notices whose [start_date, end_date] window
	// covers the given day (inclusive both ends), newest first.
	ListActiveOn(ctx context.Context, day time.Time) ([]model.Notice, error)

	FindConfirmation(ctx context.Context, noticeID, userID uuid.UUID) (*model.NoticeConfirmation, error)
	CreateConfirmation(ctx context.Context, confirmation *model.NoticeConfirmation) error
	// DeleteConfirmationsByUser removes every confirmation row of a user,
	// called when the user is removed.
	DeleteConfirmationsByUser(ctx context.Context, userID uuid.UUID) error
}

type noticeRepository struct {
	db *gorm.DB
}

func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

func (r *noticeRepository) Create(ctx context.Context, notice *model.Notice) error {
	return r.db.WithContext(ctx).Create(notice).Error
}

func (r *noticeRepository) Save(ctx context.Context, notice *model.Notice) error {
	return r.db.WithContext(ctx).Save(notice).Error
}

func (r *noticeRepository) Delete(ctx context.Context, notice *model.Notice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("notice_id = ?", notice.ID).Delete(&model.NoticeConfirmation{}).Error; err != nil {
			return err
		}
		return tx.Delete(notice).Error
	})
}

func (r *noticeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Notice, error) {
	var notice model.Notice
	if err := r.db.WithContext(ctx).First(&notice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &notice, nil
}

func (r *noticeRepository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]model.Notice, error) {
	var notices []model.Notice
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Preload("Confirmations").
		Order("created_at DESC").
		Find(&notices).Error
	return notices, err
}

func (r *noticeRepository) ListActiveOn(ctx context.Context, day time.Time) ([]model.Notice, error) {
	date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	var notices []model.Notice
	err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", date, date).
		Preload("Confirmations").
		Order("created_at DESC").
		Find(&notices).Error
	return notices, err
}

func (r *noticeRepository) FindConfirmation(ctx context.Context, noticeID, userID uuid.UUID) (*model.NoticeConfirmation, error) {
	var confirmation model.NoticeConfirmation
	err := r.db.WithContext(ctx).
		Where("notice_id = ? AND user_id = ?", noticeID, userID).
		First(&confirmation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &confirmation, nil
}

func (r *noticeRepository) CreateConfirmation(ctx context.Context, confirmation *model.NoticeConfirmation) error {
	return r.db.WithContext(ctx).Create(confirmation).Error
}

func (r *noticeRepository) DeleteConfirmationsByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.NoticeConfirmation{}).Error
}
