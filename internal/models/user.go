package models

import (
	"strings"
	"time"
)

// RoleName is the normalized name of a role, e.g. "SUPER-ADMIN".
type RoleName string

const (
	RoleSuperAdmin RoleName = "SUPER-ADMIN"
	RoleAdmin      RoleName = "ADMIN"
	RoleManager    RoleName = "MANAGER"
	RoleEmployee   RoleName = "EMPLOYEE"
)

// DefaultRoles is the fixed role set seeded at startup
var DefaultRoles = []RoleName{RoleSuperAdmin, RoleAdmin, RoleManager, RoleEmployee}

// NormalizeRole upper-cases a role name and folds spaces and underscores into dashes
func NormalizeRole(s string) RoleName {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), "-")
	return RoleName(strings.ReplaceAll(s, "_", "-"))
}

// NormalizeRoles normalizes a list of role names, dropping empty entries
func NormalizeRoles(values []string) []RoleName {
	roles := make([]RoleName, 0, len(values))
	for _, v := range values {
		if r := NormalizeRole(v); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Role represents the role_list table
type Role struct {
	ID          uint    `gorm:"primaryKey" json:"role_id"`
	RoleName    string  `gorm:"uniqueIndex;not null;size:50" json:"role_name"`
	Description *string `gorm:"size:255" json:"description"`
}

// TableName specifies the table name for Role model
func (Role) TableName() string {
	return "role_list"
}

// User represents the users table.
// Users are never hard-deleted; IsActive=false deactivates an account.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"user_id"`
	Email        string     `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash string     `gorm:"not null;size:255" json:"-"`
	RoleID       uint       `gorm:"not null;index" json:"-"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	LastActive   *time.Time `json:"last_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relationships
	Role     Role      `gorm:"foreignKey:RoleID" json:"-"`
	Employee *Employee `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// RoleName returns the user's role, empty when the Role association is not loaded
func (u *User) RoleName() RoleName {
	return RoleName(u.Role.RoleName)
}

// Employee holds the HR profile attached to a user account
type Employee struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	UserID        uint      `gorm:"uniqueIndex;not null" json:"-"`
	EmployeeID    string    `gorm:"uniqueIndex;not null;size:50" json:"employee_id"`
	FullName      string    `gorm:"not null;size:150" json:"full_name"`
	Phone         *string   `gorm:"size:30" json:"phone"`
	Address       *string   `gorm:"size:500" json:"address"`
	FathersName   *string   `gorm:"size:150" json:"fathers_name"`
	AadharNo      *string   `gorm:"size:20" json:"aadhar_no"`
	DateOfBirth   *string   `gorm:"size:10" json:"date_of_birth"`
	WorkPosition  *string   `gorm:"size:150" json:"work_position"`
	CardID        *string   `gorm:"size:50" json:"card_id"`
	DeptID        *uint     `gorm:"index" json:"dept_id"`
	SubDeptID     *uint     `gorm:"index" json:"sub_dept_id"`
	DesignationID *uint     `gorm:"index" json:"designation_id"`
	ProfilePhoto  *string   `gorm:"size:500" json:"profile_photo"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for Employee model
func (Employee) TableName() string {
	return "employees"
}

// RefreshToken represents the refresh_tokens table.
// One row per session/device. Only the SHA-256 hash of the raw token is stored.
// ReplacedByID links a redeemed token to its successor.
type RefreshToken struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	TokenHash    string     `gorm:"not null;size:64;uniqueIndex" json:"-"`
	UserAgent    string     `gorm:"size:255" json:"user_agent,omitempty"`
	IP           string     `gorm:"size:64" json:"ip,omitempty"`
	IssuedAt     time.Time  `gorm:"not null" json:"issued_at"`
	ExpiresAt    time.Time  `gorm:"not null;index" json:"expires_at"`
	Revoked      bool       `gorm:"not null;default:false;index" json:"revoked"`
	RevokedAt    *time.Time `json:"revoked_at,omitempty"`
	ReplacedByID *uint      `gorm:"index" json:"replaced_by_id,omitempty"`

	// Relationships
	User       User          `gorm:"foreignKey:UserID" json:"-"`
	ReplacedBy *RefreshToken `gorm:"foreignKey:ReplacedByID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName specifies the table name for RefreshToken model
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}
