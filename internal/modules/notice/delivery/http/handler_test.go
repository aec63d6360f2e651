package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"anoa.com/dispatchhub/internal/model"
	noticeRepo "anoa.com/dispatchhub/internal/modules/notice/repository"
	noticeService "anoa.com/dispatchhub/internal/modules/notice/service"
)

func setupRouter(t *testing.T, userID uuid.UUID) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Notice{},
		&model.NoticeConfirmation{},
	))

	svc := noticeService.NewNoticeService(noticeRepo.NewNoticeRepository(db), nil)
	h := NewNoticeHandler(svc, nil)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID.String())
	})
	router.POST("/notices/:id/confirm", h.ConfirmNotice)
	return router, db
}

func TestConfirmNoticeStatusCodes(t *testing.T) {
	driverID := uuid.New()
	router, db := setupRouter(t, driverID)

	notice := model.Notice{
		UserID:    uuid.New(),
		Title:     "read me",
		Content:   "content",
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 0, 7),
	}
	require.NoError(t, db.Create(&notice).Error)

	confirm := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/notices/"+notice.ID.String()+"/confirm", nil)
		router.ServeHTTP(w, req)
		return w
	}

	first := confirm()
	assert.Equal(t, http.StatusCreated, first.Code)

	var body struct {
		Message      string                    `json:"message"`
		Confirmation *model.NoticeConfirmation `json:"confirmation"`
	}
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &body))
	assert.Equal(t, "notice confirmed", body.Message)
	require.NotNil(t, body.Confirmation)
	assert.Equal(t, driverID, body.Confirmation.UserID)

	second := confirm()
	assert.Equal(t, http.StatusOK, second.Code)
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	assert.Equal(t, "notice already confirmed", body.Message)
}

func TestConfirmNoticeMissing(t *testing.T) {
	router, _ := setupRouter(t, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/notices/"+uuid.NewString()+"/confirm", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConfirmNoticeBadID(t *testing.T) {
	router, _ := setupRouter(t, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/notices/not-a-uuid/confirm", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
