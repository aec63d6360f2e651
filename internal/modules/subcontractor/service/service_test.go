package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"anoa.com/dispatchhub/internal/model"
	noticeRepo "anoa.com/dispatchhub/internal/modules/notice/repository"
	"anoa.com/dispatchhub/internal/modules/subcontractor/dto"
	userRepo "anoa.com/dispatchhub/internal/modules/user/repository"
	"anoa.com/dispatchhub/pkg/apperror"
)

const testCreateKey = "letmein"

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

func newTestService(t *testing.T) (SubcontractorService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	svc := NewSubcontractorService(
		userRepo.NewUserRepository(db),
		noticeRepo.NewNoticeRepository(db),
		testCreateKey,
	)
	return svc, db
}

func driverInput(phoneNumber, realname string) dto.CreateSubcontractorInput {
	return dto.CreateSubcontractorInput{
		PhoneNumber:             phoneNumber,
		Realname:                realname,
		DateOfBirth:             "900101",
		LicenseNumber:           "11-22-334455-66",
		LicenseType:             "class 1 heavy",
		InsuranceNumber:         "INS-100200",
		InsuranceExpirationDate: "2027-12-31",
	}
}

func TestCreateSubcontractor(t *testing.T) {
	svc, db := newTestService(t)

	res, err := svc.Create(context.Background(), driverInput("01011112222", "Kim Cheolsu"))
	require.NoError(t, err)

	assert.Equal(t, model.RoleSubcontractor, res.Role)
	require.NotNil(t, res.UserInfo)
	assert.Equal(t, "Kim Cheolsu", res.UserInfo.Realname)
	assert.Equal(t, "2027-12-31", res.UserInfo.InsuranceExpirationDate)

	// The driver signs in with the shared initial password.
	var stored model.User
	require.NoError(t, db.First(&stored, "id = ?", res.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("1234")))
}

func TestCreateSubcontractorDuplicatePhone(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), driverInput("01011112222", "Kim Cheolsu"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), driverInput("01011112222", "Lee Younghee"))
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestUpdateSubcontractorPhoneConflict(t *testing.T) {
	svc, _ := newTestService(t)

	first, err := svc.Create(context.Background(), driverInput("01011112222", "Kim Cheolsu"))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), driverInput("01033334444", "Lee Younghee"))
	require.NoError(t, err)

	// Taking the other driver's number is rejected.
	_, err = svc.Update(context.Background(), first.ID, driverInput("01033334444", "Kim Cheolsu"))
	assert.ErrorIs(t, err, apperror.ErrConflict)

	// Keeping one's own number is not a conflict.
	updated, err := svc.Update(context.Background(), first.ID, driverInput("01011112222", "Kim Cheolsu Jr"))
	require.NoError(t, err)
	assert.Equal(t, "Kim Cheolsu Jr", updated.UserInfo.Realname)
}

func TestDeleteSubcontractorCascadesConfirmations(t *testing.T) {
	svc, db := newTestService(t)

	driver, err := svc.Create(context.Background(), driverInput("01011112222", "Kim Cheolsu"))
	require.NoError(t, err)

	notice := model.Notice{
		UserID:    uuid.New(),
		Title:     "hello",
		Content:   "content",
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 0, 7),
	}
	require.NoError(t, db.Create(&notice).Error)
	require.NoError(t, db.Create(&model.NoticeConfirmation{
		NoticeID: notice.ID,
		UserID:   driver.ID,
	}).Error)

	_, err = svc.Delete(context.Background(), driver.ID)
	require.NoError(t, err)

	var confirmations int64
	require.NoError(t, db.Model(&model.NoticeConfirmation{}).Count(&confirmations).Error)
	assert.Equal(t, int64(0), confirmations)

	// Soft delete: the row survives, lookups do not see it.
	_, err = svc.Get(context.Background(), driver.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	var kept int64
	require.NoError(t, db.Unscoped().Model(&model.User{}).Where("id = ?", driver.ID).Count(&kept).Error)
	assert.Equal(t, int64(1), kept)
}

func TestRecreateRemovedDriverReusesPhoneNumber(t *testing.T) {
	svc, _ := newTestService(t)

	first, err := svc.Create(context.Background(), driverInput("01011112222", "Kim Cheolsu"))
	require.NoError(t, err)

	_, err = svc.Delete(context.Background(), first.ID)
	require.NoError(t, err)

	// A removed driver's number is free again; only live users hold it.
	second, err := svc.Create(context.Background(), driverInput("01011112222", "Kim Cheolsu"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	// And the number is immediately a conflict once more.
	_, err = svc.Create(context.Background(), driverInput("01011112222", "Lee Younghee"))
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestListSubcontractorsOrderedByRealname(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), driverInput("01011112222", "Choi"))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), driverInput("01033334444", "Ahn"))
	require.NoError(t, err)

	// A contractor account never shows up in the driver roster.
	_, err = svc.CreateContractor(context.Background(), dto.CreateContractorInput{
		ContractorCreateKey: testCreateKey,
		PhoneNumber:         "01055556666",
		Password:            "admin123",
	})
	require.NoError(t, err)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ahn", list[0].UserInfo.Realname)
	assert.Equal(t, "Choi", list[1].UserInfo.Realname)
}

func TestCreateContractorKeyGuard(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateContractor(context.Background(), dto.CreateContractorInput{
		ContractorCreateKey: "wrong",
		PhoneNumber:         "01055556666",
		Password:            "admin123",
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	res, err := svc.CreateContractor(context.Background(), dto.CreateContractorInput{
		ContractorCreateKey: testCreateKey,
		PhoneNumber:         "01055556666",
		Password:            "admin123",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleContractor, res.Role)
}

func TestCreateContractorDisabledWithoutKey(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubcontractorService(
		userRepo.NewUserRepository(db),
		noticeRepo.NewNoticeRepository(db),
		"",
	)

	// An unset deployment key disables the endpoint outright.
	_, err := svc.CreateContractor(context.Background(), dto.CreateContractorInput{
		ContractorCreateKey: "",
		PhoneNumber:         "01055556666",
		Password:            "admin123",
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}
