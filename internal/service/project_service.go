package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hrms-backend/internal/logger"
	"hrms-backend/internal/models"
	"hrms-backend/internal/repository"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type ProjectService struct {
	projectRepo *repository.ProjectRepository
	auditRepo   *repository.AuditRepository
	log         *logger.Logger
}

func NewProjectService(projectRepo *repository.ProjectRepository, auditRepo *repository.AuditRepository, log *logger.Logger) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		auditRepo:   auditRepo,
		log:         log,
	}
}

// Page is a 1-based page request
type Page struct {
	Page     int
	PageSize int
}

func (p Page) limitOffset() (int, int) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p.PageSize, (p.Page - 1) * p.PageSize
}

// ProjectInput creates or patches a project; nil fields are left unchanged on update
type ProjectInput struct {
	ProjectName   *string
	Description   *string
	ProjectStatus *string
	CreatedBy     *uint
}

// ListProjects lists projects newest first
func (s *ProjectService) ListProjects(ctx context.Context, q, status string, createdBy uint, page Page) ([]models.Project, int64, error) {
	limit, offset := page.limitOffset()
	return s.projectRepo.ListProjects(ctx, repository.ProjectFilter{
		Query:     strings.TrimSpace(q),
		Status:    strings.TrimSpace(status),
		CreatedBy: createdBy,
		Limit:     limit,
		Offset:    offset,
	})
}

func (s *ProjectService) GetProject(ctx context.Context, id uint) (*models.Project, error) {
	project, err := s.projectRepo.GetProjectByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "project not found")
	}
	return project, nil
}

// CreateProject creates a project; the status defaults to Active and the creator to the caller
func (s *ProjectService) CreateProject(ctx context.Context, in ProjectInput, actorID uint) (*models.Project, error) {
	if blank(in.ProjectName) {
		return nil, fmt.Errorf("%w: project_name is required", ErrInvalidInput)
	}
	project := &models.Project{
		ProjectName:   strings.TrimSpace(*in.ProjectName),
		Description:   in.Description,
		ProjectStatus: models.ProjectStatusActive,
		CreatedBy:     actorID,
	}
	if in.ProjectStatus != nil {
		if !models.ValidProjectStatus(*in.ProjectStatus) {
			return nil, fmt.Errorf("%w: unknown project_status %q", ErrInvalidInput, *in.ProjectStatus)
		}
		project.ProjectStatus = *in.ProjectStatus
	}
	if in.CreatedBy != nil {
		project.CreatedBy = *in.CreatedBy
	}

	if err := s.projectRepo.CreateProject(ctx, project); err != nil {
		return nil, conflict(err, "project already exists")
	}
	project.Members = []models.ProjectMember{}

	s.audit(ctx, actorID, "project_create", fmt.Sprintf("Created project %d (%s)", project.ID, project.ProjectName))
	return project, nil
}

// UpdateProject applies a partial update
func (s *ProjectService) UpdateProject(ctx context.Context, id uint, in ProjectInput, actorID uint) (*models.Project, error) {
	project, err := s.projectRepo.GetProjectByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "project not found")
	}

	if in.ProjectName != nil {
		name := strings.TrimSpace(*in.ProjectName)
		if name == "" {
			return nil, fmt.Errorf("%w: project_name must not be empty", ErrInvalidInput)
		}
		project.ProjectName = name
	}
	if in.Description != nil {
		project.Description = in.Description
	}
	if in.ProjectStatus != nil {
		if !models.ValidProjectStatus(*in.ProjectStatus) {
			return nil, fmt.Errorf("%w: unknown project_status %q", ErrInvalidInput, *in.ProjectStatus)
		}
		project.ProjectStatus = *in.ProjectStatus
	}

	if err := s.projectRepo.UpdateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	s.audit(ctx, actorID, "project_update", fmt.Sprintf("Updated project %d", id))
	return project, nil
}

// DeleteProject deletes a project with its members and sub-projects; missing projects are ignored
func (s *ProjectService) DeleteProject(ctx context.Context, id uint, actorID uint) error {
	if err := s.projectRepo.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	s.audit(ctx, actorID, "project_delete", fmt.Sprintf("Deleted project %d", id))
	return nil
}

// ListMembers lists the members of a project
func (s *ProjectService) ListMembers(ctx context.Context, projectID uint) ([]models.ProjectMember, error) {
	return s.projectRepo.ListMembers(ctx, projectID)
}

// AddMember adds userID to a project
func (s *ProjectService) AddMember(ctx context.Context, projectID, userID uint, designationID *uint) (*models.ProjectMember, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	exists, err := s.projectRepo.Exists(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: project not found", ErrNotFound)
	}

	member := &models.ProjectMember{ProjectID: projectID, UserID: userID, DesignationID: designationID}
	if err := s.projectRepo.AddMember(ctx, member); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: user is already a member of this project", ErrConflict)
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	return member, nil
}

// RemoveMember removes userID from a project; removing a non-member is not an error
func (s *ProjectService) RemoveMember(ctx context.Context, projectID, userID uint) error {
	return s.projectRepo.RemoveMember(ctx, projectID, userID)
}

func (s *ProjectService) audit(ctx context.Context, actorID uint, action, details string) {
	if err := s.auditRepo.CreateAuditLog(ctx, actorPtr(actorID), action, details); err != nil {
		s.log.Warn("failed to write audit log", "action", action, "error", err)
	}
}
