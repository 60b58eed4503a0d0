package service

import (
	"context"
	"testing"

	"hrms-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.addUser(t, "admin@example.com", "pw-123456", models.RoleAdmin)

	in := CreateUserInput{
		Email:    "Hire@Example.com",
		Password: "pw-123456",
		Role:     "manager",
		Employee: EmployeeInput{EmployeeID: ptr("E-100"), FullName: ptr("  Grace Hopper "), DateOfBirth: ptr("1990-12-09")},
	}
	created, err := f.users.CreateUser(ctx, in, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "hire@example.com", created.Email)
	assert.Equal(t, models.RoleManager, created.Role)
	require.NotNil(t, created.FullName)
	assert.Equal(t, "Grace Hopper", *created.FullName)

	t.Run("duplicate email", func(t *testing.T) {
		dup := in
		dup.Employee.EmployeeID = ptr("E-101")
		_, err := f.users.CreateUser(ctx, dup, admin.ID)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("duplicate employee id", func(t *testing.T) {
		dup := in
		dup.Email = "other@example.com"
		_, err := f.users.CreateUser(ctx, dup, admin.ID)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("unknown role", func(t *testing.T) {
		bad := in
		bad.Email = "x@example.com"
		bad.Employee.EmployeeID = ptr("E-102")
		bad.Role = "intern"
		_, err := f.users.CreateUser(ctx, bad, admin.ID)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := f.users.CreateUser(ctx, CreateUserInput{Email: "y@example.com"}, admin.ID)
		require.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "employee_id")
	})

	t.Run("bad date", func(t *testing.T) {
		bad := in
		bad.Email = "z@example.com"
		bad.Employee.EmployeeID = ptr("E-103")
		bad.Employee.DateOfBirth = ptr("09/12/1990")
		_, err := f.users.CreateUser(ctx, bad, admin.ID)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestUpdateUser_DeactivationRevokesSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.addUser(t, "admin@example.com", "pw-123456", models.RoleAdmin)
	user := f.addUser(t, "worker@example.com", "pw-123456", models.RoleEmployee)

	for i := 0; i < 2; i++ {
		_, err := f.auth.Login(ctx, "worker@example.com", "pw-123456", meta)
		require.NoError(t, err)
	}
	active, err := f.tokenRepo.ListActiveByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, active, 2)

	resp, err := f.users.UpdateUser(ctx, user.ID, UpdateUserInput{IsActive: ptr(false)}, admin.ID)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)

	active, err = f.tokenRepo.ListActiveByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = f.auth.Login(ctx, "worker@example.com", "pw-123456", meta)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	got, err := f.users.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	_, err = f.users.UpdateUser(ctx, 9999, UpdateUserInput{IsActive: ptr(true)}, admin.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUser_RejectedPatchChangesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.addUser(t, "admin@example.com", "pw-123456", models.RoleAdmin)
	user := f.addUser(t, "keep@example.com", "pw-123456", models.RoleEmployee)
	_, err := f.auth.Login(ctx, "keep@example.com", "pw-123456", meta)
	require.NoError(t, err)

	_, err = f.users.UpdateUser(ctx, user.ID, UpdateUserInput{IsActive: ptr(false), Role: ptr("bogus")}, admin.ID)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.users.UpdateUser(ctx, user.ID, UpdateUserInput{
		IsActive: ptr(false),
		Employee: EmployeeInput{DateOfBirth: ptr("31-12-1990")},
	}, admin.ID)
	require.ErrorIs(t, err, ErrInvalidInput)

	got, err := f.users.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.Equal(t, models.RoleEmployee, got.Role)

	active, err := f.tokenRepo.ListActiveByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	logs, err := f.auditRepo.ListByAction(ctx, "user_set_active", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestUpdateUser_StoreFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.addUser(t, "admin@example.com", "pw-123456", models.RoleAdmin)
	created, err := f.users.CreateUser(ctx, CreateUserInput{
		Email:    "staff@example.com",
		Password: "pw-123456",
		Employee: EmployeeInput{EmployeeID: ptr("E-200"), FullName: ptr("Old Name")},
	}, admin.ID)
	require.NoError(t, err)
	_, err = f.auth.Login(ctx, "staff@example.com", "pw-123456", meta)
	require.NoError(t, err)

	failUpdates(t, f.db, "employees")
	_, err = f.users.UpdateUser(ctx, created.UserID, UpdateUserInput{
		IsActive: ptr(false),
		Role:     ptr("MANAGER"),
		Employee: EmployeeInput{FullName: ptr("New Name")},
	}, admin.ID)
	require.Error(t, err)

	got, err := f.users.GetUser(ctx, created.UserID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.Equal(t, models.RoleEmployee, got.Role)
	require.NotNil(t, got.FullName)
	assert.Equal(t, "Old Name", *got.FullName)

	active, err := f.tokenRepo.ListActiveByUser(ctx, created.UserID)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestListAudit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "hal@example.com", "pw-123456", models.RoleEmployee)
	for i := 0; i < 3; i++ {
		_, err := f.auth.Login(ctx, "hal@example.com", "pw-123456", meta)
		require.NoError(t, err)
	}

	logs, err := f.users.ListAudit(ctx, AuditLogin, 2, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Greater(t, logs[0].ID, logs[1].ID)

	logs, err = f.users.ListAudit(ctx, AuditLogin, 2, 2)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	_, err = f.users.ListAudit(ctx, " ", 10, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateUser_RoleChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "promo@example.com", "pw-123456", models.RoleEmployee)

	resp, err := f.users.UpdateUser(ctx, user.ID, UpdateUserInput{Role: ptr("manager")}, 0)
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, resp.Role)

	pair, err := f.auth.Login(ctx, "promo@example.com", "pw-123456", meta)
	require.NoError(t, err)
	claims, err := f.codec.Verify(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, string(models.RoleManager), claims.Role)

	_, err = f.users.UpdateUser(ctx, user.ID, UpdateUserInput{Role: ptr("intern")}, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpsertProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "self@example.com", "pw-123456", models.RoleEmployee)

	_, err := f.users.UpsertProfile(ctx, user.ID, EmployeeInput{Phone: ptr("555")})
	require.ErrorIs(t, err, ErrInvalidInput)

	created, err := f.users.UpsertProfile(ctx, user.ID, EmployeeInput{
		EmployeeID: ptr("E-7"),
		FullName:   ptr("Ada Lovelace"),
		Phone:      ptr("555"),
	})
	require.NoError(t, err)
	require.NotNil(t, created.Employee)
	assert.Equal(t, "E-7", created.Employee.EmployeeID)

	updated, err := f.users.UpsertProfile(ctx, user.ID, EmployeeInput{Address: ptr("London"), Phone: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", updated.Employee.FullName)
	require.NotNil(t, updated.Employee.Address)
	assert.Equal(t, "London", *updated.Employee.Address)
	assert.Nil(t, updated.Employee.Phone)

	other := f.addUser(t, "other@example.com", "pw-123456", models.RoleEmployee)
	_, err = f.users.UpsertProfile(ctx, other.ID, EmployeeInput{EmployeeID: ptr("E-7"), FullName: ptr("Someone")})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestSeedAdmin_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.users.SeedAdmin(ctx, "root@example.com", "pw-123456")
	require.NoError(t, err)
	require.NotZero(t, id)
	again, err := f.users.SeedAdmin(ctx, "root@example.com", "different")
	require.NoError(t, err)
	assert.Equal(t, id, again)

	none, err := f.users.SeedAdmin(ctx, "", "")
	require.NoError(t, err)
	assert.Zero(t, none)

	pair, err := f.auth.Login(ctx, "root@example.com", "pw-123456", meta)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, pair.User.Role)

	roles, err := f.users.ListRoles(ctx, "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, roles, len(models.DefaultRoles))
}
