package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"hrms-backend/internal/models"
	"hrms-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var meta = repository.SessionMeta{UserAgent: "test", IP: "127.0.0.1"}

func TestLogin_IssuesVerifiablePair(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "alice@example.com", "secret123", models.RoleAdmin)

	pair, err := f.auth.Login(context.Background(), " Alice@Example.com ", "secret123", meta)
	require.NoError(t, err)
	assert.Equal(t, "bearer", pair.TokenType)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, user.ID, pair.User.UserID)

	claims, err := f.codec.Verify(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, string(models.RoleAdmin), claims.Role)

	logs, err := f.auditRepo.ListByAction(context.Background(), AuditLogin, 10, 0)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "bob@example.com", "right-password", models.RoleEmployee)
	inactive := f.addUser(t, "gone@example.com", "right-password", models.RoleEmployee)
	_, err := f.userRepo.UpdateAccount(context.Background(), inactive.ID, repository.AccountUpdate{IsActive: ptr(false)})
	require.NoError(t, err)

	cases := map[string][2]string{
		"unknown email":  {"nobody@example.com", "right-password"},
		"wrong password": {"bob@example.com", "wrong"},
		"inactive user":  {"gone@example.com", "right-password"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.auth.Login(context.Background(), tc[0], tc[1], meta)
			require.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Equal(t, ErrInvalidCredentials.Error(), err.Error())
		})
	}
}

func TestRefresh_RotatesAndOldTokenIsDead(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "carol@example.com", "pw-123456", models.RoleEmployee)
	ctx := context.Background()

	login, err := f.auth.Login(ctx, "carol@example.com", "pw-123456", meta)
	require.NoError(t, err)

	refreshed, err := f.auth.Refresh(ctx, login.RefreshToken, meta)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// Replaying the first token is a compromise and kills the rotated one too
	_, err = f.auth.Refresh(ctx, login.RefreshToken, meta)
	require.ErrorIs(t, err, ErrSessionCompromised)

	_, err = f.auth.Refresh(ctx, refreshed.RefreshToken, meta)
	require.ErrorIs(t, err, ErrSessionCompromised)

	logs, err := f.auditRepo.ListByAction(ctx, AuditReuseDetected, 10, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, logs)
}

func TestRefresh_ReuseFailsWhenSessionsCannotBeRevoked(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "frank@example.com", "pw-123456", models.RoleEmployee)
	ctx := context.Background()

	login, err := f.auth.Login(ctx, "frank@example.com", "pw-123456", meta)
	require.NoError(t, err)
	rotated, err := f.auth.Refresh(ctx, login.RefreshToken, meta)
	require.NoError(t, err)

	restore := failUpdates(t, f.db, "refresh_tokens")
	_, err = f.auth.Refresh(ctx, login.RefreshToken, meta)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionCompromised)
	restore()

	// Nothing was revoked, so the client must not be told otherwise
	active, err := f.tokenRepo.ListActiveByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	_, err = f.auth.Refresh(ctx, login.RefreshToken, meta)
	require.ErrorIs(t, err, ErrSessionCompromised)
	_, err = f.auth.Refresh(ctx, rotated.RefreshToken, meta)
	require.ErrorIs(t, err, ErrSessionCompromised)

	active, err = f.tokenRepo.ListActiveByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestSessions(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "gina@example.com", "pw-123456", models.RoleEmployee)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.auth.Login(ctx, "gina@example.com", "pw-123456", meta)
		require.NoError(t, err)
	}

	sessions, err := f.auth.Sessions(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, meta.IP, sessions[0].IP)
	assert.Equal(t, meta.UserAgent, sessions[0].UserAgent)

	_, err = f.auth.Sessions(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRefresh_ConcurrentOneWinsOthersCompromise(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "dave@example.com", "pw-123456", models.RoleEmployee)
	ctx := context.Background()

	login, err := f.auth.Login(ctx, "dave@example.com", "pw-123456", meta)
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []*TokenPair
		losers  int
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pair, err := f.auth.Refresh(ctx, login.RefreshToken, meta)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners = append(winners, pair)
			case errors.Is(err, ErrSessionCompromised):
				losers++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.Len(t, winners, 1)
	assert.Equal(t, 1, losers)

	active, err := f.tokenRepo.ListActiveByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, active, "every session of the user is revoked")

	_, err = f.auth.Refresh(ctx, winners[0].RefreshToken, meta)
	assert.Error(t, err)
}

func TestRefresh_UnknownAndEmpty(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Refresh(context.Background(), "garbage", meta)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = f.auth.Refresh(context.Background(), "  ", meta)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefresh_DeactivatedOwner(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "erin@example.com", "pw-123456", models.RoleEmployee)
	ctx := context.Background()

	login, err := f.auth.Login(ctx, "erin@example.com", "pw-123456", meta)
	require.NoError(t, err)
	_, err = f.userRepo.UpdateAccount(ctx, user.ID, repository.AccountUpdate{IsActive: ptr(false)})
	require.NoError(t, err)

	_, err = f.auth.Refresh(ctx, login.RefreshToken, meta)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)

	active, err := f.tokenRepo.ListActiveByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestLogout_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "frank@example.com", "pw-123456", models.RoleEmployee)
	ctx := context.Background()

	login, err := f.auth.Login(ctx, "frank@example.com", "pw-123456", meta)
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, login.RefreshToken))
	require.NoError(t, f.auth.Logout(ctx, login.RefreshToken))
	require.NoError(t, f.auth.Logout(ctx, ""))

	_, err = f.auth.Refresh(ctx, login.RefreshToken, meta)
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.auth.Register(ctx, "New@Example.com", "pw-123456")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, models.RoleEmployee, user.Role)

	_, err = f.auth.Register(ctx, "new@example.com", "other")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.auth.Register(ctx, "", "pw")
	assert.ErrorIs(t, err, ErrInvalidInput)

	pair, err := f.auth.Login(ctx, "new@example.com", "pw-123456", meta)
	require.NoError(t, err)

	me, err := f.auth.Me(ctx, pair.User.UserID)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", me.Email)
}
