package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"hrms-backend/internal/database"
	"hrms-backend/internal/logger"
	"hrms-backend/internal/models"
	"hrms-backend/internal/repository"
	"hrms-backend/pkg/utils"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testSecret = "test-secret"

type fixture struct {
	db        *gorm.DB
	codec     *utils.TokenCodec
	creds     *CredentialService
	auth      *AuthService
	users     *UserService
	userRepo  *repository.UserRepository
	roleRepo  *repository.RoleRepository
	tokenRepo *repository.RefreshTokenRepository
	auditRepo *repository.AuditRepository
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared&_foreign_keys=1", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
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

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newTestDB(t)
	log := logger.Nop()
	f := &fixture{
		db:        db,
		codec:     utils.NewTokenCodec(testSecret),
		userRepo:  repository.NewUserRepo(db),
		roleRepo:  repository.NewRoleRepo(db),
		tokenRepo: repository.NewRefreshTokenRepo(db, 24*time.Hour),
		auditRepo: repository.NewAuditRepo(db),
	}

	creds, err := NewCredentialService(f.userRepo, bcrypt.MinCost, log)
	require.NoError(t, err)
	f.creds = creds
	f.auth = NewAuthService(creds, f.userRepo, f.roleRepo, f.tokenRepo, f.auditRepo, f.codec, 15*time.Minute, log)
	f.users = NewUserService(creds, f.userRepo, f.roleRepo, f.tokenRepo, f.auditRepo, log)

	require.NoError(t, f.users.SeedRoles(context.Background()))
	return f
}

// addUser creates an active account with the given role and password
func (f *fixture) addUser(t *testing.T, email, password string, role models.RoleName) *models.User {
	t.Helper()
	ctx := context.Background()

	r, err := f.roleRepo.FindByName(ctx, role)
	require.NoError(t, err)
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)

	u := &models.User{Email: email, PasswordHash: hash, RoleID: r.ID, IsActive: true}
	require.NoError(t, f.userRepo.CreateUser(ctx, u, nil))
	return u
}

// failUpdates makes every UPDATE against table fail until the returned func
// is called or the test ends
func failUpdates(t *testing.T, db *gorm.DB, table string) func() {
	t.Helper()

	name := "test:fail_updates_" + table
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(fmt.Errorf("update of %s refused", table))
		}
	}))

	restored := false
	restore := func() {
		if !restored {
			restored = true
			_ = db.Callback().Update().Remove(name)
		}
	}
	t.Cleanup(restore)
	return restore
}

func ptr[T any](v T) *T { return &v }
