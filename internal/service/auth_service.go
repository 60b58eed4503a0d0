package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hrms-backend/internal/logger"
	"hrms-backend/internal/models"
	"hrms-backend/internal/repository"
	"hrms-backend/pkg/utils"
)

// Audit actions written by the session manager
const (
	AuditLogin         = "user_login"
	AuditRefresh       = "token_refresh"
	AuditLogout        = "user_logout"
	AuditReuseDetected = "refresh_reuse_detected"
	AuditRegister      = "user_register"
)

type AuthService struct {
	creds     *CredentialService
	userRepo  *repository.UserRepository
	roleRepo  *repository.RoleRepository
	tokenRepo *repository.RefreshTokenRepository
	auditRepo *repository.AuditRepository
	codec     *utils.TokenCodec
	accessTTL time.Duration
	log       *logger.Logger
}

func NewAuthService(
	creds *CredentialService,
	userRepo *repository.UserRepository,
	roleRepo *repository.RoleRepository,
	tokenRepo *repository.RefreshTokenRepository,
	auditRepo *repository.AuditRepository,
	codec *utils.TokenCodec,
	accessTTL time.Duration,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		creds:     creds,
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		tokenRepo: tokenRepo,
		auditRepo: auditRepo,
		codec:     codec,
		accessTTL: accessTTL,
		log:       log,
	}
}

// TokenPair is returned by login and refresh
type TokenPair struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	ExpiresIn    int           `json:"expires_in"`
	User         *UserResponse `json:"user"`
}

// UserResponse is the public view of a user account
type UserResponse struct {
	UserID     uint             `json:"user_id"`
	Email      string           `json:"email"`
	FullName   *string          `json:"full_name"`
	Role       models.RoleName  `json:"role"`
	IsActive   bool             `json:"is_active"`
	LastActive *time.Time       `json:"last_active"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	Employee   *models.Employee `json:"employee"`
}

// NewUserResponse builds the public view of u; Role and Employee should be loaded
func NewUserResponse(u *models.User) *UserResponse {
	resp := &UserResponse{
		UserID:     u.ID,
		Email:      u.Email,
		Role:       u.RoleName(),
		IsActive:   u.IsActive,
		LastActive: u.LastActive,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
		Employee:   u.Employee,
	}
	if u.Employee != nil && u.Employee.FullName != "" {
		name := u.Employee.FullName
		resp.FullName = &name
	}
	return resp
}

// Login verifies credentials and opens a new session
func (s *AuthService) Login(ctx context.Context, email, password string, meta repository.SessionMeta) (*TokenPair, error) {
	user, err := s.creds.Verify(ctx, email, password)
	if err != nil {
		return nil, err
	}

	refresh, err := s.tokenRepo.Issue(ctx, user.ID, meta)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	pair, err := s.pair(user, refresh)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, &user.ID, AuditLogin, fmt.Sprintf("User %s logged in from %s", user.Email, meta.IP))
	return pair, nil
}

// Refresh redeems a refresh token for a new pair. Replaying an already
// redeemed token revokes every session of its owner.
func (s *AuthService) Refresh(ctx context.Context, raw string, meta repository.SessionMeta) (*TokenPair, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrInvalidRefreshToken
	}

	redemption, err := s.tokenRepo.Redeem(ctx, raw, meta)
	if err != nil {
		var reused *repository.ReusedTokenError
		switch {
		case errors.As(err, &reused):
			return nil, s.compromised(ctx, reused.UserID)
		case errors.Is(err, repository.ErrTokenExpired):
			return nil, ErrRefreshExpired
		case errors.Is(err, repository.ErrTokenUnknown):
			return nil, ErrInvalidRefreshToken
		default:
			return nil, fmt.Errorf("failed to redeem refresh token: %w", err)
		}
	}

	user, err := s.creds.FindActiveUser(ctx, redemption.UserID)
	if err != nil {
		if rerr := s.tokenRepo.Revoke(ctx, redemption.RefreshToken); rerr != nil {
			s.log.Error("failed to revoke successor token", "user_id", redemption.UserID, "error", rerr)
		}
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	pair, err := s.pair(user, redemption.RefreshToken)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, &user.ID, AuditRefresh, "Refresh token rotated")
	return pair, nil
}

// Logout revokes the session of a refresh token. Unknown or already revoked tokens are accepted.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if err := s.tokenRepo.Revoke(ctx, raw); err != nil {
		return err
	}
	s.audit(ctx, nil, AuditLogout, "Refresh token revoked")
	return nil
}

// Register creates a self-service account with the EMPLOYEE role
func (s *AuthService) Register(ctx context.Context, email, password string) (*UserResponse, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	role, err := s.roleRepo.EnsureRole(ctx, models.RoleEmployee)
	if err != nil {
		return nil, err
	}

	hash, err := s.creds.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: hash, RoleID: role.ID, IsActive: true}
	if err := s.userRepo.CreateUser(ctx, user, nil); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already exists", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.Role = *role

	s.audit(ctx, &user.ID, AuditRegister, fmt.Sprintf("User %s registered", email))
	return NewUserResponse(user), nil
}

// Sessions lists the live refresh sessions of a user
func (s *AuthService) Sessions(ctx context.Context, userID uint) ([]models.RefreshToken, error) {
	if _, err := s.creds.FindActiveUser(ctx, userID); err != nil {
		return nil, err
	}
	sessions, err := s.tokenRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// Me returns the active account behind an access token
func (s *AuthService) Me(ctx context.Context, userID uint) (*UserResponse, error) {
	user, err := s.creds.FindActiveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewUserResponse(user), nil
}

// compromised revokes every session of userID. ErrSessionCompromised is only
// returned once the revocation is stored.
func (s *AuthService) compromised(ctx context.Context, userID uint) error {
	n, err := s.tokenRepo.RevokeAllForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to revoke sessions after token reuse: %w", err)
	}
	s.log.Warn("refresh token reuse detected", "user_id", userID, "revoked", n)
	s.audit(ctx, &userID, AuditReuseDetected, fmt.Sprintf("Refresh token replayed; %d sessions revoked", n))
	return ErrSessionCompromised
}

func (s *AuthService) pair(user *models.User, refresh string) (*TokenPair, error) {
	access, err := s.codec.Mint(utils.AccessClaims{UserID: user.ID, Role: string(user.RoleName())}, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(s.accessTTL.Seconds()),
		User:         NewUserResponse(user),
	}, nil
}

func (s *AuthService) audit(ctx context.Context, userID *uint, action, details string) {
	if err := s.auditRepo.CreateAuditLog(ctx, userID, action, details); err != nil {
		s.log.Warn("failed to write audit log", "action", action, "error", err)
	}
}
