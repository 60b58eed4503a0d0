package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hrms-backend/internal/logger"
	"hrms-backend/internal/models"
	"hrms-backend/internal/repository"
	"hrms-backend/pkg/utils"
)

// CredentialService verifies email/password pairs against stored bcrypt hashes
type CredentialService struct {
	userRepo  *repository.UserRepository
	cost      int
	dummyHash string
	now       func() time.Time
	log       *logger.Logger
}

func NewCredentialService(userRepo *repository.UserRepository, cost int, log *logger.Logger) (*CredentialService, error) {
	// Compared against when the email is unknown so the response time does not reveal it
	dummy, err := utils.HashPassword("not-a-real-password", cost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	return &CredentialService{
		userRepo:  userRepo,
		cost:      cost,
		dummyHash: dummy,
		now:       func() time.Time { return time.Now().UTC() },
		log:       log,
	}, nil
}

// Verify returns the active user owning email when password matches.
// Every failure other than a store error is ErrInvalidCredentials.
func (s *CredentialService) Verify(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to load user: %w", err)
		}
		utils.ComparePassword(s.dummyHash, password)
		return nil, ErrInvalidCredentials
	}

	if !utils.ComparePassword(user.PasswordHash, password) || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if utils.NeedsRehash(user.PasswordHash, s.cost) {
		if hash, err := utils.HashPassword(password, s.cost); err == nil {
			if err := s.userRepo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
				s.log.Warn("password rehash failed", "user_id", user.ID, "error", err)
			} else {
				user.PasswordHash = hash
			}
		}
	}

	now := s.now()
	if err := s.userRepo.TouchLastActive(ctx, user.ID, now); err != nil {
		s.log.Warn("failed to stamp last_active", "user_id", user.ID, "error", err)
	} else {
		user.LastActive = &now
	}

	return user, nil
}

// FindActiveUser returns the user with id, or ErrNotFound when missing or deactivated
func (s *CredentialService) FindActiveUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrNotFound
	}
	return user, nil
}

// HashPassword hashes a new password with the configured cost
func (s *CredentialService) HashPassword(password string) (string, error) {
	return utils.HashPassword(password, s.cost)
}
