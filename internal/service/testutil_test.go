package service

import (
	"context"
	"fmt"
	"testing"

	"cryptoheaven.app/api/internal/model"
	"cryptoheaven.app/api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database per test. The cache=shared
// dsn keeps all pooled connections on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.Message{},
		&model.Thread{},
		&model.Notification{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, authID, name, username string) *model.User {
	t.Helper()

	user := &model.User{
		AuthID:    authID,
		Name:      name,
		Username:  username,
		Onboarded: true,
	}
	if err := repository.NewUserRepository(db).Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user %s: %v", authID, err)
	}
	return user
}
