package repository

import (
	"context"
	"strings"

	"hrms-backend/internal/models"

	"gorm.io/gorm"
)

type OrgRepository struct {
	db *gorm.DB
}

func NewOrgRepo(db *gorm.DB) *OrgRepository {
	return &OrgRepository{db: db}
}

// DesignationCount is the number of designations in one (dept, sub-dept) scope
type DesignationCount struct {
	DeptID    *uint
	SubDeptID *uint
	N         int
}

// Transaction runs fn with a repository bound to a single transaction
func (r *OrgRepository) Transaction(ctx context.Context, fn func(txRepo *OrgRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&OrgRepository{db: tx})
	})
}

// ---- Departments ----

// GetDepartment retrieves a department by ID
func (r *OrgRepository) GetDepartment(ctx context.Context, id uint) (*models.Department, error) {
	var dept models.Department
	if err := r.db.WithContext(ctx).First(&dept, id).Error; err != nil {
		return nil, translate(err)
	}
	return &dept, nil
}

// FindDepartmentByName finds a department by case-insensitive name, ignoring excludeID
func (r *OrgRepository) FindDepartmentByName(ctx context.Context, name string, excludeID uint) (*models.Department, error) {
	var dept models.Department
	query := r.db.WithContext(ctx).Where("LOWER(dept_name) = ?", strings.ToLower(name))
	if excludeID != 0 {
		query = query.Where("dept_id <> ?", excludeID)
	}
	if err := query.First(&dept).Error; err != nil {
		return nil, translate(err)
	}
	return &dept, nil
}

// ListDepartments lists departments by name
func (r *OrgRepository) ListDepartments(ctx context.Context) ([]models.Department, error) {
	var depts []models.Department
	err := r.db.WithContext(ctx).Order("dept_name ASC").Find(&depts).Error
	return depts, err
}

// CreateDepartment creates a new department
func (r *OrgRepository) CreateDepartment(ctx context.Context, dept *models.Department) error {
	return translate(r.db.WithContext(ctx).Create(dept).Error)
}

// SaveDepartment updates an existing department
func (r *OrgRepository) SaveDepartment(ctx context.Context, dept *models.Department) error {
	return translate(r.db.WithContext(ctx).Save(dept).Error)
}

// DeleteDepartment hard deletes a department
func (r *OrgRepository) DeleteDepartment(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Department{}, id).Error
}

// ---- Sub-departments ----

// GetSubDepartment retrieves a sub-department by ID
func (r *OrgRepository) GetSubDepartment(ctx context.Context, id uint) (*models.SubDepartment, error) {
	var sub models.SubDepartment
	if err := r.db.WithContext(ctx).First(&sub, id).Error; err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

// FindSubDepartmentByName finds a sub-department of deptID by case-insensitive name, ignoring excludeID
func (r *OrgRepository) FindSubDepartmentByName(ctx context.Context, deptID uint, name string, excludeID uint) (*models.SubDepartment, error) {
	var sub models.SubDepartment
	query := r.db.WithContext(ctx).
		Where("dept_id = ? AND LOWER(sub_dept_name) = ?", deptID, strings.ToLower(name))
	if excludeID != 0 {
		query = query.Where("sub_dept_id <> ?", excludeID)
	}
	if err := query.First(&sub).Error; err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

// ListSubDepartments lists sub-departments by name, optionally for one department
func (r *OrgRepository) ListSubDepartments(ctx context.Context, deptID *uint) ([]models.SubDepartment, error) {
	query := r.db.WithContext(ctx).Order("sub_dept_name ASC")
	if deptID != nil {
		query = query.Where("dept_id = ?", *deptID)
	}
	var subs []models.SubDepartment
	err := query.Find(&subs).Error
	return subs, err
}

// ListSubDepartmentsIn lists the sub-departments of the given departments
func (r *OrgRepository) ListSubDepartmentsIn(ctx context.Context, deptIDs []uint) ([]models.SubDepartment, error) {
	subs := []models.SubDepartment{}
	if len(deptIDs) == 0 {
		return subs, nil
	}
	err := r.db.WithContext(ctx).Where("dept_id IN ?", deptIDs).Find(&subs).Error
	return subs, err
}

// CreateSubDepartment creates a new sub-department
func (r *OrgRepository) CreateSubDepartment(ctx context.Context, sub *models.SubDepartment) error {
	return translate(r.db.WithContext(ctx).Omit("Department").Create(sub).Error)
}

// SaveSubDepartment updates an existing sub-department
func (r *OrgRepository) SaveSubDepartment(ctx context.Context, sub *models.SubDepartment) error {
	return translate(r.db.WithContext(ctx).Omit("Department").Save(sub).Error)
}

// DeleteSubDepartment hard deletes a sub-department
func (r *OrgRepository) DeleteSubDepartment(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.SubDepartment{}, id).Error
}

// CountSubDepartments counts the sub-departments of a department
func (r *OrgRepository) CountSubDepartments(ctx context.Context, deptID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.SubDepartment{}).Where("dept_id = ?", deptID).Count(&n).Error
	return n, err
}

// ---- Designations ----

// GetDesignation retrieves a designation by ID
func (r *OrgRepository) GetDesignation(ctx context.Context, id uint) (*models.Designation, error) {
	var des models.Designation
	if err := r.db.WithContext(ctx).First(&des, id).Error; err != nil {
		return nil, translate(err)
	}
	return &des, nil
}

// FindDesignation finds a designation by case-insensitive name within a
// (dept, sub-dept) scope; nil scope ids match NULL
func (r *OrgRepository) FindDesignation(ctx context.Context, name string, deptID, subDeptID *uint, excludeID uint) (*models.Designation, error) {
	query := r.db.WithContext(ctx).Where("LOWER(designation_name) = ?", strings.ToLower(name))
	if deptID != nil {
		query = query.Where("dept_id = ?", *deptID)
	} else {
		query = query.Where("dept_id IS NULL")
	}
	if subDeptID != nil {
		query = query.Where("sub_dept_id = ?", *subDeptID)
	} else {
		query = query.Where("sub_dept_id IS NULL")
	}
	if excludeID != 0 {
		query = query.Where("designation_id <> ?", excludeID)
	}

	var des models.Designation
	if err := query.First(&des).Error; err != nil {
		return nil, translate(err)
	}
	return &des, nil
}

// ListDesignations lists designations by name with optional scope filters
func (r *OrgRepository) ListDesignations(ctx context.Context, deptID, subDeptID *uint) ([]models.Designation, error) {
	query := r.db.WithContext(ctx).Order("designation_name ASC")
	if deptID != nil {
		query = query.Where("dept_id = ?", *deptID)
	}
	if subDeptID != nil {
		query = query.Where("sub_dept_id = ?", *subDeptID)
	}
	var list []models.Designation
	err := query.Find(&list).Error
	return list, err
}

// CreateDesignation creates a new designation
func (r *OrgRepository) CreateDesignation(ctx context.Context, des *models.Designation) error {
	return translate(r.db.WithContext(ctx).Create(des).Error)
}

// SaveDesignation updates an existing designation
func (r *OrgRepository) SaveDesignation(ctx context.Context, des *models.Designation) error {
	return translate(r.db.WithContext(ctx).Save(des).Error)
}

// DeleteDesignation hard deletes a designation
func (r *OrgRepository) DeleteDesignation(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Designation{}, id).Error
}

// CountDesignationsByDept counts designations attached to a department, directly or via its sub-departments
func (r *OrgRepository) CountDesignationsByDept(ctx context.Context, deptID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Designation{}).Where("dept_id = ?", deptID).Count(&n).Error
	return n, err
}

// CountDesignationsBySubDept counts designations attached to a sub-department
func (r *OrgRepository) CountDesignationsBySubDept(ctx context.Context, subDeptID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Designation{}).Where("sub_dept_id = ?", subDeptID).Count(&n).Error
	return n, err
}

// DesignationCounts groups designation counts by (dept_id, sub_dept_id)
func (r *OrgRepository) DesignationCounts(ctx context.Context) ([]DesignationCount, error) {
	var counts []DesignationCount
	err := r.db.WithContext(ctx).Model(&models.Designation{}).
		Select("dept_id, sub_dept_id, COUNT(designation_id) AS n").
		Group("dept_id, sub_dept_id").
		Scan(&counts).Error
	return counts, err
}
