package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"hrms-backend/internal/logger"
	"hrms-backend/internal/models"
	"hrms-backend/internal/repository"
)

type OrgService struct {
	repo *repository.OrgRepository
	log  *logger.Logger
}

func NewOrgService(repo *repository.OrgRepository, log *logger.Logger) *OrgService {
	return &OrgService{repo: repo, log: log}
}

// DepartmentInput creates or patches a department
type DepartmentInput struct {
	DeptName    *string
	Description *string
}

// SubDepartmentInput creates or patches a sub-department
type SubDepartmentInput struct {
	DeptID      *uint
	SubDeptName *string
	Description *string
}

// DesignationInput creates or patches a designation
type DesignationInput struct {
	DesignationName *string
	DeptID          *uint
	SubDeptID       *uint
	Description     *string
}

// AddAllInput creates a department, sub-department and designation chain
type AddAllInput struct {
	DeptName               string
	DeptDescription        *string
	SubDeptName            string
	SubDeptDescription     *string
	DesignationName        string
	DesignationDescription *string
}

// AddAllResult is the chain created or found by AddAll
type AddAllResult struct {
	Dept        *models.Department    `json:"dept"`
	SubDept     *models.SubDepartment `json:"sub_dept"`
	Designation *models.Designation   `json:"designation"`
}

// NormalizeName trims a name and collapses inner whitespace
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ---- Departments ----

// CreateDepartment returns the department with this name, creating it if missing
func (s *OrgService) CreateDepartment(ctx context.Context, name string, description *string, actorID uint) (*models.Department, error) {
	return getOrCreateDepartment(ctx, s.repo, name, description, actorID)
}

func (s *OrgService) ListDepartments(ctx context.Context) ([]models.Department, error) {
	return s.repo.ListDepartments(ctx)
}

func (s *OrgService) GetDepartment(ctx context.Context, id uint) (*models.Department, error) {
	dept, err := s.repo.GetDepartment(ctx, id)
	return dept, notFound(err, "department not found")
}

// UpdateDepartment patches a department; the new name must not clash with another department
func (s *OrgService) UpdateDepartment(ctx context.Context, id uint, in DepartmentInput, actorID uint) (*models.Department, error) {
	dept, err := s.repo.GetDepartment(ctx, id)
	if err != nil {
		return nil, notFound(err, "department not found")
	}

	if in.DeptName != nil {
		name := NormalizeName(*in.DeptName)
		if name == "" {
			return nil, fmt.Errorf("%w: dept_name must not be empty", ErrInvalidInput)
		}
		if _, err := s.repo.FindDepartmentByName(ctx, name, id); err == nil {
			return nil, fmt.Errorf("%w: another department with this name already exists", ErrConflict)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		dept.DeptName = name
	}
	if in.Description != nil {
		dept.Description = in.Description
	}
	dept.UpdatedBy = actorPtr(actorID)

	if err := s.repo.SaveDepartment(ctx, dept); err != nil {
		return nil, conflict(err, "another department with this name already exists")
	}
	return dept, nil
}

// DeleteDepartment deletes a department that has no sub-departments or designations
func (s *OrgService) DeleteDepartment(ctx context.Context, id uint) error {
	return s.repo.Transaction(ctx, func(tx *repository.OrgRepository) error {
		if _, err := tx.GetDepartment(ctx, id); err != nil {
			return notFound(err, "department not found")
		}
		subs, err := tx.CountSubDepartments(ctx, id)
		if err != nil {
			return err
		}
		desigs, err := tx.CountDesignationsByDept(ctx, id)
		if err != nil {
			return err
		}
		if subs > 0 || desigs > 0 {
			return fmt.Errorf("%w: cannot delete department with existing sub-departments or designations", ErrConflict)
		}
		return tx.DeleteDepartment(ctx, id)
	})
}

// ---- Sub-departments ----

// CreateSubDepartment returns the sub-department with this name in deptID, creating it if missing
func (s *OrgService) CreateSubDepartment(ctx context.Context, deptID uint, name string, description *string, actorID uint) (*models.SubDepartment, error) {
	return getOrCreateSubDepartment(ctx, s.repo, deptID, name, description, actorID)
}

func (s *OrgService) ListSubDepartments(ctx context.Context, deptID *uint) ([]models.SubDepartment, error) {
	return s.repo.ListSubDepartments(ctx, deptID)
}

func (s *OrgService) GetSubDepartment(ctx context.Context, id uint) (*models.SubDepartment, error) {
	sub, err := s.repo.GetSubDepartment(ctx, id)
	return sub, notFound(err, "sub-department not found")
}

// UpdateSubDepartment patches a sub-department, possibly moving it to another department
func (s *OrgService) UpdateSubDepartment(ctx context.Context, id uint, in SubDepartmentInput, actorID uint) (*models.SubDepartment, error) {
	sub, err := s.repo.GetSubDepartment(ctx, id)
	if err != nil {
		return nil, notFound(err, "sub-department not found")
	}

	targetDept := sub.DeptID
	if in.DeptID != nil && *in.DeptID != sub.DeptID {
		if _, err := s.repo.GetDepartment(ctx, *in.DeptID); err != nil {
			return nil, notFound(err, "target department not found")
		}
		targetDept = *in.DeptID
	}

	targetName := sub.SubDeptName
	if in.SubDeptName != nil {
		targetName = NormalizeName(*in.SubDeptName)
		if targetName == "" {
			return nil, fmt.Errorf("%w: sub_dept_name must not be empty", ErrInvalidInput)
		}
	}

	if _, err := s.repo.FindSubDepartmentByName(ctx, targetDept, targetName, id); err == nil {
		return nil, fmt.Errorf("%w: sub-department with this name already exists in the target department", ErrConflict)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	sub.DeptID = targetDept
	sub.SubDeptName = targetName
	if in.Description != nil {
		sub.Description = in.Description
	}
	sub.UpdatedBy = actorPtr(actorID)

	if err := s.repo.SaveSubDepartment(ctx, sub); err != nil {
		return nil, conflict(err, "sub-department with this name already exists in the target department")
	}
	return sub, nil
}

// DeleteSubDepartment deletes a sub-department that has no designations
func (s *OrgService) DeleteSubDepartment(ctx context.Context, id uint) error {
	return s.repo.Transaction(ctx, func(tx *repository.OrgRepository) error {
		if _, err := tx.GetSubDepartment(ctx, id); err != nil {
			return notFound(err, "sub-department not found")
		}
		n, err := tx.CountDesignationsBySubDept(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: cannot delete sub-department with existing designations", ErrConflict)
		}
		return tx.DeleteSubDepartment(ctx, id)
	})
}

// ---- Designations ----

// CreateDesignation returns the designation with this name in the given scope, creating it if missing
func (s *OrgService) CreateDesignation(ctx context.Context, name string, deptID, subDeptID *uint, description *string, actorID uint) (*models.Designation, error) {
	return getOrCreateDesignation(ctx, s.repo, name, deptID, subDeptID, description, actorID)
}

func (s *OrgService) ListDesignations(ctx context.Context, deptID, subDeptID *uint) ([]models.Designation, error) {
	return s.repo.ListDesignations(ctx, deptID, subDeptID)
}

func (s *OrgService) GetDesignation(ctx context.Context, id uint) (*models.Designation, error) {
	des, err := s.repo.GetDesignation(ctx, id)
	return des, notFound(err, "designation not found")
}

// UpdateDesignation patches a designation; (name, dept, sub-dept) must stay unique
func (s *OrgService) UpdateDesignation(ctx context.Context, id uint, in DesignationInput, actorID uint) (*models.Designation, error) {
	des, err := s.repo.GetDesignation(ctx, id)
	if err != nil {
		return nil, notFound(err, "designation not found")
	}

	name := des.DesignationName
	if in.DesignationName != nil {
		name = NormalizeName(*in.DesignationName)
		if name == "" {
			return nil, fmt.Errorf("%w: designation_name must not be empty", ErrInvalidInput)
		}
	}
	deptID := des.DeptID
	if in.DeptID != nil {
		deptID = in.DeptID
	}
	subDeptID := des.SubDeptID
	if in.SubDeptID != nil {
		subDeptID = in.SubDeptID
	}

	if err := checkDesignationScope(ctx, s.repo, deptID, subDeptID); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindDesignation(ctx, name, deptID, subDeptID, id); err == nil {
		return nil, fmt.Errorf("%w: designation with this name already exists in the given scope", ErrConflict)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	des.DesignationName = name
	des.DeptID = deptID
	des.SubDeptID = subDeptID
	if in.Description != nil {
		des.Description = in.Description
	}
	des.UpdatedBy = actorPtr(actorID)

	if err := s.repo.SaveDesignation(ctx, des); err != nil {
		return nil, err
	}
	return des, nil
}

// DeleteDesignation deletes a designation
func (s *OrgService) DeleteDesignation(ctx context.Context, id uint) error {
	if _, err := s.repo.GetDesignation(ctx, id); err != nil {
		return notFound(err, "designation not found")
	}
	return s.repo.DeleteDesignation(ctx, id)
}

// ---- Composite ----

// AddAll creates (or finds) a department, a sub-department in it and a designation in both, atomically
func (s *OrgService) AddAll(ctx context.Context, in AddAllInput, actorID uint) (*AddAllResult, error) {
	var result AddAllResult
	err := s.repo.Transaction(ctx, func(tx *repository.OrgRepository) error {
		dept, err := getOrCreateDepartment(ctx, tx, in.DeptName, in.DeptDescription, actorID)
		if err != nil {
			return err
		}
		sub, err := getOrCreateSubDepartment(ctx, tx, dept.ID, in.SubDeptName, in.SubDeptDescription, actorID)
		if err != nil {
			return err
		}
		des, err := getOrCreateDesignation(ctx, tx, in.DesignationName, &dept.ID, &sub.ID, in.DesignationDescription, actorID)
		if err != nil {
			return err
		}
		result = AddAllResult{Dept: dept, SubDept: sub, Designation: des}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Structure returns departments with their sub-departments and designation counts.
// When deptID is set only that department is returned.
func (s *OrgService) Structure(ctx context.Context, deptID *uint) ([]models.DeptTree, error) {
	counts, err := s.repo.DesignationCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count designations: %w", err)
	}

	type scope struct {
		dept uint
		sub  uint
	}
	byScope := make(map[scope]int, len(counts))
	for _, c := range counts {
		if c.DeptID == nil {
			continue
		}
		key := scope{dept: *c.DeptID}
		if c.SubDeptID != nil {
			key.sub = *c.SubDeptID
		}
		byScope[key] += c.N
	}

	var depts []models.Department
	if deptID != nil {
		dept, err := s.repo.GetDepartment(ctx, *deptID)
		if err != nil {
			return nil, notFound(err, "department not found")
		}
		depts = []models.Department{*dept}
	} else if depts, err = s.repo.ListDepartments(ctx); err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(depts))
	for _, d := range depts {
		ids = append(ids, d.ID)
	}
	subs, err := s.repo.ListSubDepartmentsIn(ctx, ids)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(subs, func(i, j int) bool {
		return strings.ToLower(subs[i].SubDeptName) < strings.ToLower(subs[j].SubDeptName)
	})
	subsByDept := make(map[uint][]models.SubDepartment)
	for _, sd := range subs {
		subsByDept[sd.DeptID] = append(subsByDept[sd.DeptID], sd)
	}

	tree := make([]models.DeptTree, 0, len(depts))
	for _, d := range depts {
		node := models.DeptTree{
			DeptID:           d.ID,
			DeptName:         d.DeptName,
			DesigCountDirect: byScope[scope{dept: d.ID}],
			SubDepts:         []models.SubDeptNode{},
		}
		node.DesigCountTotal = node.DesigCountDirect
		for _, sd := range subsByDept[d.ID] {
			n := byScope[scope{dept: d.ID, sub: sd.ID}]
			node.DesigCountTotal += n
			node.SubDepts = append(node.SubDepts, models.SubDeptNode{
				SubDeptID:   sd.ID,
				SubDeptName: sd.SubDeptName,
				DesigCount:  n,
			})
		}
		tree = append(tree, node)
	}
	return tree, nil
}

func checkDesignationScope(ctx context.Context, repo *repository.OrgRepository, deptID, subDeptID *uint) error {
	if deptID != nil {
		if _, err := repo.GetDepartment(ctx, *deptID); err != nil {
			return notFound(err, "department not found for designation")
		}
	}
	if subDeptID != nil {
		if _, err := repo.GetSubDepartment(ctx, *subDeptID); err != nil {
			return notFound(err, "sub-department not found for designation")
		}
	}
	return nil
}

func getOrCreateDepartment(ctx context.Context, repo *repository.OrgRepository, name string, description *string, actorID uint) (*models.Department, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, fmt.Errorf("%w: dept_name is required", ErrInvalidInput)
	}
	existing, err := repo.FindDepartmentByName(ctx, name, 0)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	dept := &models.Department{DeptName: name, Description: description, CreatedBy: actorPtr(actorID)}
	if err := repo.CreateDepartment(ctx, dept); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return repo.FindDepartmentByName(ctx, name, 0)
		}
		return nil, fmt.Errorf("failed to create department: %w", err)
	}
	return dept, nil
}

func getOrCreateSubDepartment(ctx context.Context, repo *repository.OrgRepository, deptID uint, name string, description *string, actorID uint) (*models.SubDepartment, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, fmt.Errorf("%w: sub_dept_name is required", ErrInvalidInput)
	}
	if _, err := repo.GetDepartment(ctx, deptID); err != nil {
		return nil, notFound(err, "department not found")
	}
	existing, err := repo.FindSubDepartmentByName(ctx, deptID, name, 0)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	sub := &models.SubDepartment{DeptID: deptID, SubDeptName: name, Description: description, CreatedBy: actorPtr(actorID)}
	if err := repo.CreateSubDepartment(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return repo.FindSubDepartmentByName(ctx, deptID, name, 0)
		}
		return nil, fmt.Errorf("failed to create sub-department: %w", err)
	}
	return sub, nil
}

func getOrCreateDesignation(ctx context.Context, repo *repository.OrgRepository, name string, deptID, subDeptID *uint, description *string, actorID uint) (*models.Designation, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, fmt.Errorf("%w: designation_name is required", ErrInvalidInput)
	}
	if err := checkDesignationScope(ctx, repo, deptID, subDeptID); err != nil {
		return nil, err
	}

	existing, err := repo.FindDesignation(ctx, name, deptID, subDeptID, 0)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	des := &models.Designation{
		DesignationName: name,
		DeptID:          deptID,
		SubDeptID:       subDeptID,
		Description:     description,
		CreatedBy:       actorPtr(actorID),
	}
	if err := repo.CreateDesignation(ctx, des); err != nil {
		return nil, fmt.Errorf("failed to create designation: %w", err)
	}
	return des, nil
}

// notFound maps a repository miss onto ErrNotFound with a message
func notFound(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	}
	return err
}

func conflict(err error, msg string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("%w: %s", ErrConflict, msg)
	}
	return err
}

// actorPtr returns nil for the anonymous actor (id 0)
func actorPtr(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}
