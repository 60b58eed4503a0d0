package models

import "time"

// Department represents the department_list table
type Department struct {
	ID          uint      `gorm:"column:dept_id;primaryKey" json:"dept_id"`
	DeptName    string    `gorm:"column:dept_name;uniqueIndex;not null;size:150" json:"dept_name"`
	Description *string   `gorm:"size:500" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   *uint     `json:"created_by,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
	UpdatedBy   *uint     `json:"updated_by,omitempty"`
}

// TableName specifies the table name for Department model
func (Department) TableName() string {
	return "department_list"
}

// SubDepartment represents the sub_department_list table.
// Names are unique within a department.
type SubDepartment struct {
	ID          uint      `gorm:"column:sub_dept_id;primaryKey" json:"sub_dept_id"`
	SubDeptName string    `gorm:"column:sub_dept_name;not null;size:150;uniqueIndex:uq_subdept_per_dept" json:"sub_dept_name"`
	DeptID      uint      `gorm:"column:dept_id;not null;index;uniqueIndex:uq_subdept_per_dept" json:"dept_id"`
	Description *string   `gorm:"size:500" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   *uint     `json:"created_by,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
	UpdatedBy   *uint     `json:"updated_by,omitempty"`

	// Relationships
	Department Department `gorm:"foreignKey:DeptID" json:"-"`
}

// TableName specifies the table name for SubDepartment model
func (SubDepartment) TableName() string {
	return "sub_department_list"
}

// Designation represents the designation_list table.
// A designation hangs off a department, a sub-department, both or neither;
// its name is unique per (dept_id, sub_dept_id) scope.
type Designation struct {
	ID              uint      `gorm:"column:designation_id;primaryKey" json:"designation_id"`
	DesignationName string    `gorm:"column:designation_name;not null;size:150;index" json:"designation_name"`
	DeptID          *uint     `gorm:"column:dept_id;index" json:"dept_id"`
	SubDeptID       *uint     `gorm:"column:sub_dept_id;index" json:"sub_dept_id"`
	Description     *string   `gorm:"size:500" json:"description"`
	CreatedAt       time.Time `json:"created_at"`
	CreatedBy       *uint     `json:"created_by,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
	UpdatedBy       *uint     `json:"updated_by,omitempty"`
}

// TableName specifies the table name for Designation model
func (Designation) TableName() string {
	return "designation_list"
}

// SubDeptNode is a sub-department entry in the org structure tree
type SubDeptNode struct {
	SubDeptID   uint   `json:"sub_dept_id"`
	SubDeptName string `json:"sub_dept_name"`
	DesigCount  int    `json:"desig_count"`
}

// DeptTree is a department with its sub-departments and designation counts.
// DesigCountDirect counts designations with no sub-department.
type DeptTree struct {
	DeptID           uint          `json:"dept_id"`
	DeptName         string        `json:"dept_name"`
	DesigCountDirect int           `json:"desig_count_direct"`
	DesigCountTotal  int           `json:"desig_count_total"`
	SubDepts         []SubDeptNode `json:"sub_depts"`
}
