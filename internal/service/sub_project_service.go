package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hrms-backend/internal/models"
	"hrms-backend/internal/repository"
)

type SubProjectService struct {
	subRepo     *repository.SubProjectRepository
	projectRepo *repository.ProjectRepository
}

func NewSubProjectService(subRepo *repository.SubProjectRepository, projectRepo *repository.ProjectRepository) *SubProjectService {
	return &SubProjectService{
		subRepo:     subRepo,
		projectRepo: projectRepo,
	}
}

// SubProjectInput creates or patches a sub-project
type SubProjectInput struct {
	ProjectID     uint
	AssignedBy    *uint
	AssignedTo    *uint
	Description   *string
	ProjectStatus *string
}

// ListSubProjects lists sub-projects newest first; userID filters by assignee
func (s *SubProjectService) ListSubProjects(ctx context.Context, projectID uint, status string, userID uint, page Page) ([]models.SubProject, int64, error) {
	limit, offset := page.limitOffset()
	return s.subRepo.ListSubProjects(ctx, repository.SubProjectFilter{
		ProjectID: projectID,
		Status:    strings.TrimSpace(status),
		UserID:    userID,
		Limit:     limit,
		Offset:    offset,
	})
}

func (s *SubProjectService) GetSubProject(ctx context.Context, id uint) (*models.SubProject, error) {
	sub, err := s.subRepo.GetSubProjectByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "sub-project not found")
	}
	return sub, nil
}

// CreateSubProject creates a sub-project in an existing project. The assigner defaults to the caller.
func (s *SubProjectService) CreateSubProject(ctx context.Context, in SubProjectInput, actorID uint) (*models.SubProject, error) {
	if in.ProjectID == 0 || in.AssignedTo == nil || *in.AssignedTo == 0 {
		return nil, fmt.Errorf("%w: project_id and assigned_to are required", ErrInvalidInput)
	}
	exists, err := s.projectRepo.Exists(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: project not found", ErrNotFound)
	}

	sub := &models.SubProject{
		ProjectID:     in.ProjectID,
		AssignedBy:    actorID,
		AssignedTo:    *in.AssignedTo,
		Description:   in.Description,
		ProjectStatus: models.ProjectStatusActive,
	}
	if in.AssignedBy != nil {
		sub.AssignedBy = *in.AssignedBy
	}
	if in.ProjectStatus != nil {
		if !models.ValidProjectStatus(*in.ProjectStatus) {
			return nil, fmt.Errorf("%w: unknown project_status %q", ErrInvalidInput, *in.ProjectStatus)
		}
		sub.ProjectStatus = *in.ProjectStatus
	}

	if err := s.subRepo.CreateSubProject(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to create sub-project: %w", err)
	}
	return sub, nil
}

// UpdateSubProject applies a partial update; last_modified is bumped on save
func (s *SubProjectService) UpdateSubProject(ctx context.Context, id uint, in SubProjectInput) (*models.SubProject, error) {
	sub, err := s.subRepo.GetSubProjectByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "sub-project not found")
	}

	if in.Description != nil {
		sub.Description = in.Description
	}
	if in.ProjectStatus != nil {
		if !models.ValidProjectStatus(*in.ProjectStatus) {
			return nil, fmt.Errorf("%w: unknown project_status %q", ErrInvalidInput, *in.ProjectStatus)
		}
		sub.ProjectStatus = *in.ProjectStatus
	}
	if in.AssignedTo != nil && *in.AssignedTo != 0 {
		sub.AssignedTo = *in.AssignedTo
	}

	if err := s.subRepo.UpdateSubProject(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to update sub-project: %w", err)
	}
	return sub, nil
}

// DeleteSubProject deletes a sub-project; missing rows are ignored
func (s *SubProjectService) DeleteSubProject(ctx context.Context, id uint) error {
	return s.subRepo.DeleteSubProject(ctx, id)
}

// Exists reports whether a sub-project exists
func (s *SubProjectService) Exists(ctx context.Context, id uint) (bool, error) {
	_, err := s.subRepo.GetSubProjectByID(ctx, id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return false, err
}
