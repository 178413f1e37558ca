package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/volunteerhub/backend/internal/database"
	"github.com/volunteerhub/backend/internal/models"
	"github.com/volunteerhub/backend/pkg/utils"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := utils.HashPassword("secret1")
	require.NoError(t, err)

	user := &models.User{
		FullName:     "Test User",
		Email:        email,
		PasswordHash: hash,
		ContactNo:    "555-0100",
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createEvent(t *testing.T, db *gorm.DB, owner *models.User, title string) *models.Event {
	t.Helper()

	event := &models.Event{
		Title:          title,
		Description:    "Bring water",
		Location:       "Riverside",
		Status:         models.EventStatusUpcoming,
		Images:         []string{},
		ImagePublicIDs: []string{},
		OwnerID:        owner.ID,
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

// tempImages writes n small files that stand in for uploaded multipart parts.
func tempImages(t *testing.T, n int) []string {
	t.Helper()

	dir := t.TempDir()
	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		path := filepath.Join(dir, "img"+string(rune('a'+i))+".png")
		require.NoError(t, os.WriteFile(path, []byte("png"), 0o600))
		paths = append(paths, path)
	}
	return paths
}

func assertRemoved(t *testing.T, paths ...string) {
	t.Helper()
	for _, path := range paths {
		_, err := os.Stat(path)
		require.Truef(t, os.IsNotExist(err), "expected temp file %s to be removed", path)
	}
}
