package repository

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ManuelReschke/PixelFoxComments/app/models"
)

// newTestDB opens an isolated in-memory database with the comment schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.UserSettings{}, &models.Image{}, &models.Comment{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, role string) *models.User {
	t.Helper()

	u := &models.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "x",
		Role:     role,
		Status:   models.STATUS_ACTIVE,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedImage(t *testing.T, db *gorm.DB, owner *models.User) *models.Image {
	t.Helper()

	img := &models.Image{UserID: owner.ID, Title: "test"}
	require.NoError(t, db.Create(img).Error)
	return img
}
