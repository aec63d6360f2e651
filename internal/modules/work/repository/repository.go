package repository

import (
	"context"
	"time"

	"anoa.com/dispatchhub/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VisibleWorks is the default visibility scope: it hides works whose
// booking date is still in the future. Every listing query goes through
// it so pending bookings never leak into operational lists.
func VisibleWorks(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("booking_date IS NULL OR booking_date <= ?", now)
	}
}

type WorkRepository interface {
	Create(ctx context.Context, work *model.Work) error
	Save(ctx context.Context, work *model.Work) error
	Delete(ctx context.Context, work *model.Work) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Work, error)

	// ListCreatedBetween returns visible works created within [from, to],
	// newest first.
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]model.Work, error)
	// ListBooked returns pending bookings ordered by booking date.
	ListBooked(ctx context.Context, now time.Time) ([]model.Work, error)
	// ListFeedForDriver returns the driver's operational feed: works created
	// since todayStart, plus works created in the prior three days that are
	// uncompleted or were completed today. Uncompleted works sort first.
	ListFeedForDriver(ctx context.Context, userID uuid.UUID, todayStart time.Time) ([]model.Work, error)
	// ListCompletedForDriver returns the driver's works completed within
	// [from, to], newest first.
	ListCompletedForDriver(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.Work, error)
	// ListCompletedSince returns the driver's completed works created after
	// since, for income analysis.
	ListCompletedSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]model.Work, error)
	// ListUncompletedForUser returns a driver's visible, uncompleted works.
	ListUncompletedForUser(ctx context.Context, userID uuid.UUID) ([]model.Work, error)

	// ListBookingsBetween returns works whose booking date falls inside
	// [from, to), regardless of visibility.
	ListBookingsBetween(ctx context.Context, from, to time.Time) ([]model.Work, error)
	// Promote atomically replaces a booking with a live copy: the clone is
	// inserted without identity, booking date or timestamps, then the
	// original row is removed. Both happen in one transaction.
	Promote(ctx context.Context, booking *model.Work) (*model.Work, error)
}

type workRepository struct {
	db *gorm.DB
}

func NewWorkRepository(db *gorm.DB) WorkRepository {
	return &workRepository{db: db}
}

func (r *workRepository) Create(ctx context.Context, work *model.Work) error {
	return r.db.WithContext(ctx).Create(work).Error
}

func (r *workRepository) Save(ctx context.Context, work *model.Work) error {
	return r.db.WithContext(ctx).Save(work).Error
}

func (r *workRepository) Delete(ctx context.Context, work *model.Work) error {
	return r.db.WithContext(ctx).Delete(work).Error
}

func (r *workRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Work, error) {
	var work model.Work
	if err := r.db.WithContext(ctx).First(&work, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &work, nil
}

func (r *workRepository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]model.Work, error) {
	var works []model.Work
	err := r.db.WithContext(ctx).
		Scopes(VisibleWorks(time.Now())).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Order("created_at DESC").
		Find(&works).Error
	return works, err
}

func (r *workRepository) ListBooked(ctx context.Context, now time.Time) ([]model.Work, error) {
	var works []model.Work
	err := r.db.WithContext(ctx).
		Where("booking_date IS NOT NULL AND booking_date > ?", now).
		Order("booking_date ASC").
		Find(&works).Error
	return works, err
}

func (r *workRepository) ListFeedForDriver(ctx context.Context, userID uuid.UUID, todayStart time.Time) ([]model.Work, error) {
	threeDaysAgo := todayStart.AddDate(0, 0, -3)

	var works []model.Work
	err := r.db.WithContext(ctx).
		Scopes(VisibleWorks(time.Now())).
		Where("user_id = ?", userID).
		Where(
			r.db.Where("created_at >= ?", todayStart).
				Or("created_at >= ? AND created_at < ? AND (end_time IS NULL OR end_time >= ?)",
					threeDaysAgo, todayStart, todayStart),
		).
		Order("end_time ASC NULLS FIRST").
		Order("created_at ASC").
		Find(&works).Error
	return works, err
}

func (r *workRepository) ListCompletedForDriver(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.Work, error) {
	var works []model.Work
	err := r.db.WithContext(ctx).
		Scopes(VisibleWorks(time.Now())).
		Where("user_id = ?", userID).
		Where("end_time IS NOT NULL AND end_time >= ? AND end_time <= ?", from, to).
		Order("created_at DESC").
		Find(&works).Error
	return works, err
}

func (r *workRepository) ListCompletedSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]model.Work, error) {
	var works []model.Work
	err := r.db.WithContext(ctx).
		Scopes(VisibleWorks(time.Now())).
		Where("user_id = ?", userID).
		Where("end_time IS NOT NULL").
		Where("created_at >= ?", since).
		Order("created_at DESC").
		Find(&works).Error
	return works, err
}

func (r *workRepository) ListUncompletedForUser(ctx context.Context, userID uuid.UUID) ([]model.Work, error) {
	var works []model.Work
	err := r.db.WithContext(ctx).
		Scopes(VisibleWorks(time.Now())).
		Where("user_id = ?", userID).
		Where("end_time IS NULL").
		Order("created_at DESC").
		Find(&works).Error
	return works, err
}

func (r *workRepository) ListBookingsBetween(ctx context.Context, from, to time.Time) ([]model.Work, error) {
	var works []model.Work
	err := r.db.WithContext(ctx).
		Where("booking_date >= ? AND booking_date < ?", from, to).
		Find(&works).Error
	return works, err
}

func (r *workRepository) Promote(ctx context.Context, booking *model.Work) (*model.Work, error) {
	promoted := model.Work{
		UserID:      booking.UserID,
		Origin:      booking.Origin,
		Waypoint:    booking.Waypoint,
		Destination: booking.Destination,
		CarModel:    booking.CarModel,
		Charge:      booking.Charge,
		Adjustment:  booking.Adjustment,
		Subsidy:     booking.Subsidy,
		PaymentType: booking.PaymentType,
		Remark:      booking.Remark,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&promoted).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Work{}, "id = ?", booking.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &promoted, nil
}
