package models

import "time"

// Project statuses accepted by the API
const (
	ProjectStatusActive    = "Active"
	ProjectStatusCompleted = "Completed"
	ProjectStatusOnHold    = "On Hold"
)

// ValidProjectStatus reports whether s is one of the known project statuses
func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusActive, ProjectStatusCompleted, ProjectStatusOnHold:
		return true
	}
	return false
}

// Project represents the projects table
type Project struct {
	ID            uint      `gorm:"column:project_id;primaryKey" json:"project_id"`
	ProjectName   string    `gorm:"not null;size:255;index" json:"project_name"`
	Description   *string   `gorm:"type:text" json:"description"`
	ProjectStatus string    `gorm:"not null;size:50;index" json:"project_status"`
	CreatedBy     uint      `gorm:"not null;index" json:"created_by"`
	CreatedOn     time.Time `gorm:"autoCreateTime" json:"created_on"`
	LastModified  time.Time `gorm:"autoUpdateTime" json:"last_modified"`

	// Relationships
	Members     []ProjectMember `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project_members"`
	SubProjects []SubProject    `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Project model
func (Project) TableName() string {
	return "projects"
}

// ProjectMember represents the project_members table (composite key project_id + user_id)
type ProjectMember struct {
	ProjectID     uint      `gorm:"primaryKey;autoIncrement:false" json:"project_id"`
	UserID        uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	DesignationID *uint     `gorm:"index" json:"designation_id"`
	AddedOn       time.Time `gorm:"autoCreateTime" json:"added_on"`
}

// TableName specifies the table name for ProjectMember model
func (ProjectMember) TableName() string {
	return "project_members"
}

// SubProject represents the sub_projects table.
// A sub-project is a unit of work assigned to one user within a project.
type SubProject struct {
	ID            uint      `gorm:"column:subproject_id;primaryKey" json:"subproject_id"`
	ProjectID     uint      `gorm:"not null;index" json:"project_id"`
	AssignedBy    uint      `gorm:"not null" json:"assigned_by"`
	AssignedTo    uint      `gorm:"not null;index" json:"assigned_to"`
	Description   *string   `gorm:"type:text" json:"description"`
	ProjectStatus string    `gorm:"not null;size:50" json:"project_status"`
	CreatedOn     time.Time `gorm:"autoCreateTime" json:"created_on"`
	LastModified  time.Time `gorm:"autoUpdateTime" json:"last_modified"`
}

// TableName specifies the table name for SubProject model
func (SubProject) TableName() string {
	return "sub_projects"
}
