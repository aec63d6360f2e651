package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"anoa.com/dispatchhub/internal/model"
	"anoa.com/dispatchhub/internal/modules/user/dto"
	"anoa.com/dispatchhub/internal/modules/user/repository"
	"anoa.com/dispatchhub/pkg/apperror"
)

const testSecret = "test-secret"

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

func newTestService(t *testing.T) (AuthService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewAuthService(repository.NewUserRepository(db), testSecret, time.Hour), db
}

func createUser(t *testing.T, db *gorm.DB, phoneNumber, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &model.User{
		Role:         model.RoleSubcontractor,
		PhoneNumber:  phoneNumber,
		PasswordHash: string(hash),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestLoginIssuesToken(t *testing.T) {
	svc, db := newTestService(t)
	user := createUser(t, db, "01012345678", "secret99")

	res, err := svc.Login(context.Background(), dto.LoginInput{
		PhoneNumber: "01012345678",
		Password:    "secret99",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer", res.TokenType)
	assert.Equal(t, user.ID, res.User.ID)
	// The expiry is an absolute Unix timestamp one TTL out.
	assert.Greater(t, res.ExpiresAt, time.Now().Unix())
	assert.LessOrEqual(t, res.ExpiresAt, time.Now().Add(time.Hour).Unix())

	// The token subject carries the user ID and verifies with the secret.
	token, err := jwt.ParseWithClaims(res.AccessToken, &jwt.RegisteredClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(*jwt.RegisteredClaims)
	assert.Equal(t, user.ID.String(), claims.Subject)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, db := newTestService(t)
	createUser(t, db, "01012345678", "secret99")

	_, err := svc.Login(context.Background(), dto.LoginInput{
		PhoneNumber: "01012345678",
		Password:    "wrong",
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.Login(context.Background(), dto.LoginInput{
		PhoneNumber: "01099999999",
		Password:    "secret99",
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestLoginRejectsRemovedUser(t *testing.T) {
	svc, db := newTestService(t)
	user := createUser(t, db, "01012345678", "secret99")
	require.NoError(t, db.Delete(user).Error)

	_, err := svc.Login(context.Background(), dto.LoginInput{
		PhoneNumber: "01012345678",
		Password:    "secret99",
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestMe(t *testing.T) {
	svc, db := newTestService(t)
	user := createUser(t, db, "01012345678", "secret99")

	res, err := svc.Me(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.PhoneNumber, res.PhoneNumber)

	_, err = svc.Me(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestChangePassword(t *testing.T) {
	svc, db := newTestService(t)
	user := createUser(t, db, "01012345678", "secret99")

	require.NoError(t, svc.ChangePassword(context.Background(), user.ID, dto.ChangePasswordInput{
		Password: "brand-new",
	}))

	_, err := svc.Login(context.Background(), dto.LoginInput{
		PhoneNumber: "01012345678",
		Password:    "secret99",
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.Login(context.Background(), dto.LoginInput{
		PhoneNumber: "01012345678",
		Password:    "brand-new",
	})
	assert.NoError(t, err)
}
