package repository

import (
	"context"
	"fmt"

	"hrms-backend/internal/models"

	"gorm.io/gorm"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// FindByName finds a role by its normalized name
func (r *RoleRepository) FindByName(ctx context.Context, name models.RoleName) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).Where("role_name = ?", string(name)).First(&role).Error
	if err != nil {
		return nil, translate(err)
	}
	return &role, nil
}

// EnsureRole returns the named role, creating it if missing
func (r *RoleRepository) EnsureRole(ctx context.Context, name models.RoleName) (*models.Role, error) {
	role := models.Role{RoleName: string(name)}
	err := r.db.WithContext(ctx).
		Where("role_name = ?", role.RoleName).
		FirstOrCreate(&role).Error
	if err != nil {
		return nil, fmt.Errorf("failed to ensure role %s: %w", name, err)
	}
	return &role, nil
}

// EnsureRoles seeds every role in names
func (r *RoleRepository) EnsureRoles(ctx context.Context, names []models.RoleName) error {
	for _, name := range names {
		if _, err := r.EnsureRole(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// ListRoles lists roles by name, optionally filtered by a name/description substring
func (r *RoleRepository) ListRoles(ctx context.Context, q string, limit, offset int) ([]models.Role, error) {
	query := r.db.WithContext(ctx).Order("role_name ASC").Limit(limit).Offset(offset)
	if q != "" {
		like := "%" + q + "%"
		query = query.Where("LOWER(role_name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", like, like)
	}

	var roles []models.Role
	err := query.Find(&roles).Error
	return roles, err
}
