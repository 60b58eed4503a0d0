package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hrms-backend/internal/config"
	"hrms-backend/internal/database"
	"hrms-backend/internal/logger"
	"hrms-backend/internal/middleware"
	"hrms-backend/internal/models"
	"hrms-backend/internal/repository"
	"hrms-backend/internal/service"
	"hrms-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testRoles = config.RoleAllowLists{
	Users:        []models.RoleName{models.RoleSuperAdmin, models.RoleAdmin},
	UserUpdate:   []models.RoleName{models.RoleSuperAdmin, models.RoleAdmin},
	RoleList:     []models.RoleName{models.RoleSuperAdmin, models.RoleAdmin},
	OrgWrite:     []models.RoleName{models.RoleSuperAdmin, models.RoleAdmin},
	ProjectWrite: []models.RoleName{models.RoleSuperAdmin, models.RoleAdmin, models.RoleManager},
}

type testServer struct {
	router   *gin.Engine
	handlers Handlers
	users    *service.UserService
	codec    *utils.TokenCodec
}

// newTestServer wires the full router over an in-memory sqlite database.
// scrums may be nil to leave the scrum routes unmounted.
func newTestServer(t *testing.T, scrums service.ScrumStore) *testServer {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:http_%s?mode=memory&cache=shared&_foreign_keys=1", name)
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

	log := logger.Nop()
	codec := utils.NewTokenCodec("handler-secret")

	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	tokenRepo := repository.NewRefreshTokenRepo(db, time.Hour)
	auditRepo := repository.NewAuditRepo(db)
	projectRepo := repository.NewProjectRepo(db)

	creds, err := service.NewCredentialService(userRepo, bcrypt.MinCost, log)
	require.NoError(t, err)
	authService := service.NewAuthService(creds, userRepo, roleRepo, tokenRepo, auditRepo, codec, time.Minute, log)
	userService := service.NewUserService(creds, userRepo, roleRepo, tokenRepo, auditRepo, log)
	subProjectService := service.NewSubProjectService(repository.NewSubProjectRepo(db), projectRepo)
	require.NoError(t, userService.SeedRoles(context.Background()))

	h := Handlers{
		Health:     NewHealthHandler(func(ctx context.Context) error { return database.Ping(ctx, db) }),
		Auth:       NewAuthHandler(authService, time.Hour, false, log),
		User:       NewUserHandler(userService, log),
		Org:        NewOrgHandler(service.NewOrgService(repository.NewOrgRepo(db), log), log),
		Project:    NewProjectHandler(service.NewProjectService(projectRepo, auditRepo, log), log),
		SubProject: NewSubProjectHandler(subProjectService, log),
	}
	if scrums != nil {
		h.Scrum = NewScrumHandler(service.NewScrumService(scrums, subProjectService), log)
	}

	s := &testServer{handlers: h, users: userService, codec: codec}
	s.useGuard(middleware.NewEnforcingGuard(codec))
	return s
}

// useGuard rebuilds the router around g
func (s *testServer) useGuard(g middleware.Guard) {
	r := gin.New()
	r.Use(gin.Recovery())
	RegisterRoutes(r, s.handlers, g, testRoles)
	s.router = r
}

// addUser registers an account with role and returns a valid access token for it
func (s *testServer) addUser(t *testing.T, email string, role models.RoleName) (uint, string) {
	t.Helper()
	in := service.CreateUserInput{
		Email:    email,
		Password: "pw-123456",
		Role:     string(role),
		Employee: service.EmployeeInput{EmployeeID: strPtr("E-" + email), FullName: strPtr(email)},
	}
	u, err := s.users.CreateUser(context.Background(), in, 0)
	require.NoError(t, err)
	token, err := s.codec.Mint(utils.AccessClaims{UserID: u.UserID, Role: string(role)}, time.Minute)
	require.NoError(t, err)
	return u.UserID, token
}

type response struct {
	Code int
	Body map[string]any
	Raw  *httptest.ResponseRecorder
}

func (s *testServer) do(t *testing.T, method, path, token string, body any, headers ...string) response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	out := response{Code: w.Code, Raw: w, Body: map[string]any{}}
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out.Body), w.Body.String())
	}
	return out
}

// data returns the "data" object of a success envelope
func (r response) data(t *testing.T) map[string]any {
	t.Helper()
	d, ok := r.Body["data"].(map[string]any)
	require.True(t, ok, "no data object in %v", r.Body)
	return d
}

func strPtr(s string) *string { return &s }
