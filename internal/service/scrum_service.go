package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hrms-backend/internal/models"
	"hrms-backend/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const dateLayout = "2006-01-02"

// ScrumStore persists daily scrums
type ScrumStore interface {
	List(ctx context.Context, f repository.ScrumFilter) ([]models.Scrum, error)
	Create(ctx context.Context, scrum *models.Scrum) error
	LatestForUser(ctx context.Context, userID uint) (*models.Scrum, error)
	Update(ctx context.Context, id bson.ObjectID, patch repository.ScrumPatch) (*models.Scrum, error)
}

// SubProjectChecker reports whether a sub-project exists in the relational store
type SubProjectChecker interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

type ScrumService struct {
	store       ScrumStore
	subProjects SubProjectChecker
	now         func() time.Time
}

func NewScrumService(store ScrumStore, subProjects SubProjectChecker) *ScrumService {
	return &ScrumService{
		store:       store,
		subProjects: subProjects,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ScrumQuery filters ListScrums. Dates are UTC YYYY-MM-DD; DateTo is inclusive.
type ScrumQuery struct {
	SubProjectID *uint
	UserID       *uint
	DateFrom     string
	DateTo       string
	Limit        int
	Offset       int
}

// ScrumInput creates a scrum
type ScrumInput struct {
	SubProjectID uint
	UserID       uint
	TodayTask    string
	EtaDate      string
	Dependencies []models.ScrumDependency
	Concern      *string
}

// ScrumUpdate patches the latest scrum of a user; nil fields are left unchanged
type ScrumUpdate struct {
	TodayTask    *string
	EtaDate      *string
	Dependencies *[]models.ScrumDependency
	Concern      *string
}

// ListScrums lists scrums newest first
func (s *ScrumService) ListScrums(ctx context.Context, q ScrumQuery) ([]models.Scrum, error) {
	if q.Limit == 0 {
		q.Limit = defaultListLimit
	}
	if q.Limit < 1 || q.Limit > maxListLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, maxListLimit)
	}
	if q.Offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", ErrInvalidInput)
	}

	filter := repository.ScrumFilter{
		SubProjectID: q.SubProjectID,
		UserID:       q.UserID,
		Limit:        q.Limit,
		Offset:       q.Offset,
	}
	if q.DateFrom != "" {
		from, err := parseDate(q.DateFrom, "date_from")
		if err != nil {
			return nil, err
		}
		filter.From = &from
	}
	if q.DateTo != "" {
		to, err := parseDate(q.DateTo, "date_to")
		if err != nil {
			return nil, err
		}
		end := to.Add(24*time.Hour - time.Microsecond)
		filter.To = &end
	}

	return s.store.List(ctx, filter)
}

// CreateScrum records a scrum for an existing sub-project
func (s *ScrumService) CreateScrum(ctx context.Context, in ScrumInput) (*models.Scrum, error) {
	task := strings.TrimSpace(in.TodayTask)
	if in.SubProjectID == 0 || in.UserID == 0 || task == "" {
		return nil, fmt.Errorf("%w: subproject_id, user_id and today_task are required", ErrInvalidInput)
	}
	eta, err := parseDate(in.EtaDate, "eta_date")
	if err != nil {
		return nil, err
	}
	if err := validateDependencies(in.Dependencies); err != nil {
		return nil, err
	}

	exists, err := s.subProjects.Exists(ctx, in.SubProjectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: sub-project not found", ErrNotFound)
	}

	scrum := &models.Scrum{
		SubProjectID: in.SubProjectID,
		UserID:       in.UserID,
		TodayTask:    task,
		EtaDate:      eta,
		Dependencies: in.Dependencies,
		Concern:      trimmedOrNil(in.Concern),
		CreatedAt:    s.now(),
	}
	if err := s.store.Create(ctx, scrum); err != nil {
		return nil, err
	}
	return scrum, nil
}

// LatestForUser returns the newest scrum the user owns or is a dependency on
func (s *ScrumService) LatestForUser(ctx context.Context, userID uint) (*models.Scrum, error) {
	scrum, err := s.store.LatestForUser(ctx, userID)
	if err != nil {
		return nil, notFound(err, "no scrum found for this user")
	}
	return scrum, nil
}

// UpdateLatestForUser patches the newest scrum the user owns or is a dependency on
func (s *ScrumService) UpdateLatestForUser(ctx context.Context, userID uint, in ScrumUpdate) (*models.Scrum, error) {
	target, err := s.store.LatestForUser(ctx, userID)
	if err != nil {
		return nil, notFound(err, "no scrum found for this user")
	}

	var patch repository.ScrumPatch
	changed := false
	if in.TodayTask != nil {
		task := strings.TrimSpace(*in.TodayTask)
		if task == "" {
			return nil, fmt.Errorf("%w: today_task must not be empty", ErrInvalidInput)
		}
		patch.TodayTask = &task
		changed = true
	}
	if in.EtaDate != nil {
		eta, err := parseDate(*in.EtaDate, "eta_date")
		if err != nil {
			return nil, err
		}
		patch.EtaDate = &eta
		changed = true
	}
	if in.Dependencies != nil {
		if err := validateDependencies(*in.Dependencies); err != nil {
			return nil, err
		}
		patch.Dependencies = *in.Dependencies
		patch.SetDeps = true
		changed = true
	}
	if in.Concern != nil {
		patch.Concern = trimmedOrNil(in.Concern)
		patch.ClearConcern = patch.Concern == nil
		changed = true
	}

	if !changed {
		return target, nil
	}

	updated, err := s.store.Update(ctx, target.ID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: no scrum found for this user", ErrNotFound)
		}
		return nil, err
	}
	return updated, nil
}

func validateDependencies(deps []models.ScrumDependency) error {
	for i, d := range deps {
		if d.UserID == 0 || strings.TrimSpace(d.Description) == "" {
			return fmt.Errorf("%w: dependencies[%d] needs user_id and description", ErrInvalidInput, i)
		}
	}
	return nil
}

func parseDate(s, field string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", ErrInvalidInput, field)
	}
	return t, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
