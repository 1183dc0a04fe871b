package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"cryptoheaven.app/api/internal/model"
	"cryptoheaven.app/api/internal/repository"
	"cryptoheaven.app/api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newNotificationRouter(t *testing.T, authID string) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Notification{}))

	userRepo := repository.NewUserRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(notifRepo, nil)
	h := NewNotificationHandler(svc, userRepo, nil)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("auth_id", authID)
		c.Next()
	})
	router.GET("/api/notifications", h.GetNotifications)
	return router, db
}

func TestGetNotificationsUnknownUser(t *testing.T) {
	router, _ := newNotificationRouter(t, "auth_ghost")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetNotificationsReturnsDataAndMeta(t *testing.T) {
	router, db := newNotificationRouter(t, "auth_user")

	user := &model.User{AuthID: "auth_user", Name: "User", Username: "user"}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&model.Notification{
		UserID:  user.ID,
		ActorID: user.ID,
		Type:    "like",
		Message: "liked your message",
	}).Error)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/notifications?page=1&page_size=10", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []model.Notification `json:"data"`
		Meta struct {
			CurrentPage int   `json:"current_page"`
			TotalItems  int64 `json:"total_items"`
			PageSize    int   `json:"page_size"`
			IsNext      bool  `json:"is_next"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "liked your message", body.Data[0].Message)
	assert.Equal(t, 1, body.Meta.CurrentPage)
	assert.Equal(t, int64(1), body.Meta.TotalItems)
	assert.Equal(t, 10, body.Meta.PageSize)
	assert.False(t, body.Meta.IsNext)
}
