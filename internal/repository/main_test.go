package repository

import (
	"fmt"
	"strings"
	"testing"

	"hrms-backend/internal/database"
	"hrms-backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with the full schema.
// A single connection serializes transactions the way row locks would.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string, role models.RoleName) *models.User {
	t.Helper()

	r := models.Role{RoleName: string(role)}
	require.NoError(t, db.Where("role_name = ?", r.RoleName).FirstOrCreate(&r).Error)

	u := &models.User{Email: email, PasswordHash: "x", RoleID: r.ID, IsActive: true}
	require.NoError(t, db.Omit("Role", "Employee").Create(u).Error)
	return u
}
