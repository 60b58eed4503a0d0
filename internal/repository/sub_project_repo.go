package repository

import (
	"context"
	"fmt"

	"hrms-backend/internal/models"

	"gorm.io/gorm"
)

type SubProjectRepository struct {
	db *gorm.DB
}

func NewSubProjectRepo(db *gorm.DB) *SubProjectRepository {
	return &SubProjectRepository{db: db}
}

// SubProjectFilter narrows ListSubProjects; zero values are ignored
type SubProjectFilter struct {
	ProjectID uint
	Status    string
	UserID    uint
	Limit     int
	Offset    int
}

// ListSubProjects lists sub-projects newest first. UserID matches the assignee.
func (r *SubProjectRepository) ListSubProjects(ctx context.Context, f SubProjectFilter) ([]models.SubProject, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SubProject{})
	if f.ProjectID != 0 {
		query = query.Where("project_id = ?", f.ProjectID)
	}
	if f.Status != "" {
		query = query.Where("project_status = ?", f.Status)
	}
	if f.UserID != 0 {
		query = query.Where("assigned_to = ?", f.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sub-projects: %w", err)
	}

	subs := []models.SubProject{}
	err := query.Order("subproject_id DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&subs).Error
	return subs, total, err
}

// GetSubProjectByID retrieves a sub-project by ID
func (r *SubProjectRepository) GetSubProjectByID(ctx context.Context, id uint) (*models.SubProject, error) {
	var sub models.SubProject
	if err := r.db.WithContext(ctx).First(&sub, id).Error; err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

// CreateSubProject creates a new sub-project
func (r *SubProjectRepository) CreateSubProject(ctx context.Context, sub *models.SubProject) error {
	return translate(r.db.WithContext(ctx).Create(sub).Error)
}

// UpdateSubProject saves an existing sub-project
func (r *SubProjectRepository) UpdateSubProject(ctx context.Context, sub *models.SubProject) error {
	return translate(r.db.WithContext(ctx).Save(sub).Error)
}

// DeleteSubProject deletes a sub-project. Deleting a missing row is not an error.
func (r *SubProjectRepository) DeleteSubProject(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.SubProject{}, id).Error
}
