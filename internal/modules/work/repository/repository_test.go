package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"anoa.com/dispatchhub/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.UserInfo{},
		&model.Work{},
		&model.Notice{},
		&model.NoticeConfirmation{},
	))
	return db
}

func insertWork(t *testing.T, db *gorm.DB, mutate func(*model.Work)) *model.Work {
	t.Helper()
	work := &model.Work{
		Origin:      "warehouse A",
		Destination: "store B",
		CarModel:    "1t truck",
		Charge:      50000,
		PaymentType: model.PaymentTypeDirect,
	}
	if mutate != nil {
		mutate(work)
	}
	require.NoError(t, db.Create(work).Error)
	return work
}

func TestVisibleWorksHidesFutureBookings(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWorkRepository(db)
	now := time.Now()

	future := now.Add(48 * time.Hour)
	past := now.Add(-48 * time.Hour)

	insertWork(t, db, nil)
	insertWork(t, db, func(w *model.Work) { w.BookingDate = &past })
	hidden := insertWork(t, db, func(w *model.Work) { w.BookingDate = &future })

	works, err := repo.ListCreatedBetween(context.Background(), now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, works, 2)
	for _, w := range works {
		assert.NotEqual(t, hidden.ID, w.ID)
	}
}

func TestListFeedForDriver(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWorkRepository(db)
	driverID := uuid.New()

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterday := todayStart.Add(-12 * time.Hour)
	fourDaysAgo := todayStart.AddDate(0, 0, -4)
	completedYesterday := todayStart.Add(-6 * time.Hour)
	completedToday := todayStart.Add(6 * time.Hour)

	createdToday := insertWork(t, db, func(w *model.Work) {
		w.UserID = &driverID
	})
	uncompletedOld := insertWork(t, db, func(w *model.Work) {
		w.UserID = &driverID
		w.CreatedAt = yesterday
	})
	completedTodayOld := insertWork(t, db, func(w *model.Work) {
		w.UserID = &driverID
		w.CreatedAt = yesterday
		w.EndTime = &completedToday
	})
	// Outside the feed: completed before today, too old, other driver.
	insertWork(t, db, func(w *model.Work) {
		w.UserID = &driverID
		w.CreatedAt = yesterday
		w.EndTime = &completedYesterday
	})
	insertWork(t, db, func(w *model.Work) {
		w.UserID = &driverID
		w.CreatedAt = fourDaysAgo
	})
	insertWork(t, db, func(w *model.Work) {
		other := uuid.New()
		w.UserID = &other
	})

	works, err := repo.ListFeedForDriver(context.Background(), driverID, todayStart)
	require.NoError(t, err)
	require.Len(t, works, 3)

	// Uncompleted works come first (NULL end times), oldest created first.
	assert.Equal(t, uncompletedOld.ID, works[0].ID)
	assert.Equal(t, createdToday.ID, works[1].ID)
	assert.Equal(t, completedTodayOld.ID, works[2].ID)
}

func TestListBookingsBetweenIsHalfOpen(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWorkRepository(db)

	hourStart := time.Now().Truncate(time.Hour)
	inside := hourStart.Add(30 * time.Minute)
	nextHour := hourStart.Add(time.Hour)

	within := insertWork(t, db, func(w *model.Work) { w.BookingDate = &inside })
	onStart := insertWork(t, db, func(w *model.Work) { w.BookingDate = &hourStart })
	insertWork(t, db, func(w *model.Work) { w.BookingDate = &nextHour })
	insertWork(t, db, nil)

	bookings, err := repo.ListBookingsBetween(context.Background(), hourStart, nextHour)
	require.NoError(t, err)
	require.Len(t, bookings, 2)

	ids := []uuid.UUID{bookings[0].ID, bookings[1].ID}
	assert.Contains(t, ids, within.ID)
	assert.Contains(t, ids, onStart.ID)
}

func TestPromoteReplacesBookingWithLiveCopy(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWorkRepository(db)
	driverID := uuid.New()

	bookingDate := time.Now().Add(30 * time.Minute)
	remark := "fragile load"
	adjustment := 3000
	booking := insertWork(t, db, func(w *model.Work) {
		w.UserID = &driverID
		w.BookingDate = &bookingDate
		w.Remark = &remark
		w.Adjustment = &adjustment
		w.PaymentType = model.PaymentTypeCash
	})

	promoted, err := repo.Promote(context.Background(), booking)
	require.NoError(t, err)

	assert.NotEqual(t, booking.ID, promoted.ID)
	assert.Nil(t, promoted.BookingDate)
	assert.Equal(t, booking.UserID, promoted.UserID)
	assert.Equal(t, booking.Charge, promoted.Charge)
	assert.Equal(t, booking.PaymentType, promoted.PaymentType)
	assert.Equal(t, booking.Remark, promoted.Remark)
	assert.Equal(t, booking.Adjustment, promoted.Adjustment)

	_, err = repo.FindByID(context.Background(), booking.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	require.NoError(t, db.Model(&model.Work{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestListUncompletedForUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWorkRepository(db)
	driverID := uuid.New()

	done := time.Now().Add(-time.Hour)
	open := insertWork(t, db, func(w *model.Work) { w.UserID = &driverID })
	insertWork(t, db, func(w *model.Work) {
		w.UserID = &driverID
		w.EndTime = &done
	})

	works, err := repo.ListUncompletedForUser(context.Background(), driverID)
	require.NoError(t, err)
	require.Len(t, works, 1)
	assert.Equal(t, open.ID, works[0].ID)
}
