package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hrms-backend/internal/models"
	"hrms-backend/pkg/utils"

	"gorm.io/gorm"
)

var (
	// ErrTokenUnknown means no row matches the presented refresh token
	ErrTokenUnknown = errors.New("refresh token unknown")
	// ErrTokenReused means the presented refresh token was already redeemed or revoked
	ErrTokenReused = errors.New("refresh token reused")
	// ErrTokenExpired means the refresh token is past its expiry
	ErrTokenExpired = errors.New("refresh token expired")
)

// ReusedTokenError reports a replayed refresh token together with its owner,
// so callers can revoke every session of the implicated user.
type ReusedTokenError struct {
	UserID uint
}

func (e *ReusedTokenError) Error() string {
	return fmt.Sprintf("refresh token reused (user %d)", e.UserID)
}

func (e *ReusedTokenError) Unwrap() error {
	return ErrTokenReused
}

// SessionMeta describes the client a refresh token is issued to
type SessionMeta struct {
	UserAgent string
	IP        string
}

// Redemption is the result of a successful redeem: the owner and the
// successor token that replaces the redeemed one.
type Redemption struct {
	UserID       uint
	RefreshToken string
}

type RefreshTokenRepository struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewRefreshTokenRepo(db *gorm.DB, ttl time.Duration) *RefreshTokenRepository {
	return &RefreshTokenRepository{
		db:  db,
		ttl: ttl,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Issue creates a new session row for userID and returns the raw token.
// The raw value is never persisted and cannot be retrieved again.
func (r *RefreshTokenRepository) Issue(ctx context.Context, userID uint, meta SessionMeta) (string, error) {
	var raw string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		raw, _, err = r.insert(tx, userID, meta)
		return err
	})
	if err != nil {
		return "", err
	}
	return raw, nil
}

// Redeem consumes a refresh token and rotates it in one transaction.
// The redeemed row is revoked with a conditional update, so among concurrent
// redeemers of the same token exactly one succeeds and the rest observe reuse.
func (r *RefreshTokenRepository) Redeem(ctx context.Context, raw string, meta SessionMeta) (*Redemption, error) {
	hash := utils.HashRefreshToken(raw)
	var redemption *Redemption

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var token models.RefreshToken
		if err := tx.Where("token_hash = ?", hash).First(&token).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTokenUnknown
			}
			return fmt.Errorf("failed to find refresh token: %w", err)
		}

		if token.Revoked {
			return &ReusedTokenError{UserID: token.UserID}
		}

		now := r.now()
		if !now.Before(token.ExpiresAt) {
			return ErrTokenExpired
		}

		res := tx.Model(&models.RefreshToken{}).
			Where("id = ? AND revoked = ?", token.ID, false).
			Updates(map[string]interface{}{"revoked": true, "revoked_at": now})
		if res.Error != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return &ReusedTokenError{UserID: token.UserID}
		}

		successorRaw, successorID, err := r.insert(tx, token.UserID, meta)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.RefreshToken{}).
			Where("id = ?", token.ID).
			Update("replaced_by_id", successorID).Error; err != nil {
			return fmt.Errorf("failed to link successor token: %w", err)
		}

		redemption = &Redemption{UserID: token.UserID, RefreshToken: successorRaw}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return redemption, nil
}

// Revoke marks the session of a raw token as revoked.
// Unknown and already revoked tokens are not an error.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, raw string) error {
	err := r.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked = ?", utils.HashRefreshToken(raw), false).
		Updates(map[string]interface{}{"revoked": true, "revoked_at": r.now()}).Error
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// RevokeAllForUser revokes every active session of a user and returns how many were revoked
func (r *RefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Updates(map[string]interface{}{"revoked": true, "revoked_at": r.now()})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to revoke refresh tokens for user: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// ListActiveByUser returns non-revoked, unexpired sessions, newest first
func (r *RefreshTokenRepository) ListActiveByUser(ctx context.Context, userID uint) ([]models.RefreshToken, error) {
	var tokens []models.RefreshToken
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND revoked = ? AND expires_at > ?", userID, false, r.now()).
		Order("issued_at DESC").
		Find(&tokens).Error
	return tokens, err
}

// PruneExpired deletes rows that expired or were revoked before cutoff
func (r *RefreshTokenRepository) PruneExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ? OR (revoked = ? AND revoked_at < ?)", cutoff, true, cutoff).
		Delete(&models.RefreshToken{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to prune refresh tokens: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *RefreshTokenRepository) insert(tx *gorm.DB, userID uint, meta SessionMeta) (string, uint, error) {
	raw, err := utils.GenerateRefreshToken()
	if err != nil {
		return "", 0, err
	}

	now := r.now()
	token := &models.RefreshToken{
		UserID:    userID,
		TokenHash: utils.HashRefreshToken(raw),
		UserAgent: truncate(meta.UserAgent, 255),
		IP:        truncate(meta.IP, 64),
		IssuedAt:  now,
		ExpiresAt: now.Add(r.ttl),
	}
	if err := tx.Create(token).Error; err != nil {
		return "", 0, fmt.Errorf("failed to store refresh token: %w", err)
	}
	return raw, token.ID, nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
