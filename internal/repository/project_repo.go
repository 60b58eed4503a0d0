package repository

import (
	"context"
	"fmt"

	"hrms-backend/internal/models"

	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// ProjectFilter narrows ListProjects; zero values are ignored
type ProjectFilter struct {
	Query     string
	Status    string
	CreatedBy uint
	Limit     int
	Offset    int
}

// ListProjects lists projects newest first with members preloaded
func (r *ProjectRepository) ListProjects(ctx context.Context, f ProjectFilter) ([]models.Project, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Project{})
	if f.Query != "" {
		query = query.Where("LOWER(project_name) LIKE LOWER(?)", "%"+f.Query+"%")
	}
	if f.Status != "" {
		query = query.Where("project_status = ?", f.Status)
	}
	if f.CreatedBy != 0 {
		query = query.Where("created_by = ?", f.CreatedBy)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	projects := []models.Project{}
	err := query.Preload("Members").
		Order("project_id DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&projects).Error
	return projects, total, err
}

// GetProjectByID retrieves a project with its members
func (r *ProjectRepository) GetProjectByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).Preload("Members").First(&project, id).Error; err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

// Exists reports whether a project with the given id exists
func (r *ProjectRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Where("project_id = ?", id).Count(&n).Error
	return n > 0, err
}

// CreateProject creates a new project
func (r *ProjectRepository) CreateProject(ctx context.Context, project *models.Project) error {
	return translate(r.db.WithContext(ctx).Omit("Members", "SubProjects").Create(project).Error)
}

// UpdateProject saves an existing project
func (r *ProjectRepository) UpdateProject(ctx context.Context, project *models.Project) error {
	return translate(r.db.WithContext(ctx).Omit("Members", "SubProjects").Save(project).Error)
}

// DeleteProject removes a project with its members and sub-projects.
// Deleting a missing project is not an error.
func (r *ProjectRepository) DeleteProject(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return fmt.Errorf("failed to delete project members: %w", err)
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.SubProject{}).Error; err != nil {
			return fmt.Errorf("failed to delete sub-projects: %w", err)
		}
		return tx.Delete(&models.Project{}, id).Error
	})
}

// ListMembers lists the members of a project
func (r *ProjectRepository) ListMembers(ctx context.Context, projectID uint) ([]models.ProjectMember, error) {
	members := []models.ProjectMember{}
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("added_on ASC").
		Find(&members).Error
	return members, err
}

// AddMember adds a user to a project; ErrDuplicate when already a member
func (r *ProjectRepository) AddMember(ctx context.Context, member *models.ProjectMember) error {
	return translate(r.db.WithContext(ctx).Create(member).Error)
}

// RemoveMember removes a user from a project. Removing a non-member is not an error.
func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{}).Error
}
