package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hrms-backend/internal/logger"
	"hrms-backend/internal/models"
	"hrms-backend/internal/repository"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

type UserService struct {
	creds     *CredentialService
	userRepo  *repository.UserRepository
	roleRepo  *repository.RoleRepository
	tokenRepo *repository.RefreshTokenRepository
	auditRepo *repository.AuditRepository
	log       *logger.Logger
}

func NewUserService(
	creds *CredentialService,
	userRepo *repository.UserRepository,
	roleRepo *repository.RoleRepository,
	tokenRepo *repository.RefreshTokenRepository,
	auditRepo *repository.AuditRepository,
	log *logger.Logger,
) *UserService {
	return &UserService{
		creds:     creds,
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		tokenRepo: tokenRepo,
		auditRepo: auditRepo,
		log:       log,
	}
}

// EmployeeInput carries employee profile fields; nil fields are left unchanged
type EmployeeInput struct {
	EmployeeID    *string `json:"employee_id"`
	FullName      *string `json:"full_name"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	FathersName   *string `json:"fathers_name"`
	AadharNo      *string `json:"aadhar_no"`
	DateOfBirth   *string `json:"date_of_birth"`
	WorkPosition  *string `json:"work_position"`
	CardID        *string `json:"card_id"`
	DeptID        *uint   `json:"dept_id"`
	SubDeptID     *uint   `json:"sub_dept_id"`
	DesignationID *uint   `json:"designation_id"`
	ProfilePhoto  *string `json:"profile_photo"`
}

// CreateUserInput is an admin-created account with its employee profile
type CreateUserInput struct {
	Email    string
	Password string
	Role     string
	Employee EmployeeInput
}

// UpdateUserInput is an admin patch of an account
type UpdateUserInput struct {
	IsActive *bool
	Role     *string
	Employee EmployeeInput
}

// CreateUser creates an account and its employee profile
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput, actorID uint) (*UserResponse, error) {
	email := models.NormalizeEmail(in.Email)
	var missing []string
	if email == "" {
		missing = append(missing, "email")
	}
	if in.Password == "" {
		missing = append(missing, "password")
	}
	if blank(in.Employee.EmployeeID) {
		missing = append(missing, "employee_id")
	}
	if blank(in.Employee.FullName) {
		missing = append(missing, "full_name")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing fields: %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	if err := validateDate(in.Employee.DateOfBirth); err != nil {
		return nil, err
	}

	roleName := models.NormalizeRole(in.Role)
	if roleName == "" {
		roleName = models.RoleEmployee
	}
	role, err := s.roleRepo.FindByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown role %s", ErrInvalidInput, roleName)
		}
		return nil, err
	}

	if _, err := s.userRepo.FindUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already exists", ErrConflict)
	}
	if _, err := s.userRepo.FindEmployeeByEmployeeID(ctx, strings.TrimSpace(*in.Employee.EmployeeID)); err == nil {
		return nil, fmt.Errorf("%w: employee_id already exists", ErrConflict)
	}

	hash, err := s.creds.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: hash, RoleID: role.ID, IsActive: true}
	employee := &models.Employee{}
	applyEmployee(employee, in.Employee)
	if err := s.userRepo.CreateUser(ctx, user, employee); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email or employee_id already exists", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.Role = *role

	s.audit(ctx, &actorID, "user_create", fmt.Sprintf("Created user %s (%s)", email, roleName))
	return NewUserResponse(user), nil
}

// ListUsers lists accounts, optionally filtered by email substring and employee id
func (s *UserService) ListUsers(ctx context.Context, q, employeeID string) ([]*UserResponse, error) {
	users, err := s.userRepo.ListUsers(ctx, strings.TrimSpace(q), strings.TrimSpace(employeeID))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	out := make([]*UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out, nil
}

// GetUser returns any account, active or not
func (s *UserService) GetUser(ctx context.Context, id uint) (*UserResponse, error) {
	user, err := s.userRepo.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, err
	}
	return NewUserResponse(user), nil
}

// UpdateUser toggles activation, changes the role and edits the employee profile when one exists.
// Every input is validated before anything is written, and the changes are
// stored together. Deactivating an account revokes all of its refresh tokens.
func (s *UserService) UpdateUser(ctx context.Context, id uint, in UpdateUserInput, actorID uint) (*UserResponse, error) {
	user, err := s.userRepo.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, err
	}
	if err := validateDate(in.Employee.DateOfBirth); err != nil {
		return nil, err
	}

	var upd repository.AccountUpdate
	if in.IsActive != nil && *in.IsActive != user.IsActive {
		upd.IsActive = in.IsActive
	}

	var newRole *models.Role
	if in.Role != nil {
		roleName := models.NormalizeRole(*in.Role)
		if roleName != user.RoleName() {
			newRole, err = s.roleRepo.FindByName(ctx, roleName)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, fmt.Errorf("%w: unknown role %s", ErrInvalidInput, roleName)
				}
				return nil, err
			}
			upd.RoleID = &newRole.ID
		}
	}

	if user.Employee != nil {
		employee := *user.Employee
		in.Employee.EmployeeID = nil
		in.Employee.ProfilePhoto = nil
		applyEmployee(&employee, in.Employee)
		upd.Employee = &employee
	}

	revoked, err := s.userRepo.UpdateAccount(ctx, id, upd)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: employee profile conflicts with an existing one", ErrConflict)
		}
		return nil, err
	}

	if upd.IsActive != nil {
		user.IsActive = *upd.IsActive
		if !user.IsActive {
			s.log.Info("user deactivated", "user_id", id, "revoked_sessions", revoked)
		}
		s.audit(ctx, &actorID, "user_set_active", fmt.Sprintf("User %d is_active=%t", id, user.IsActive))
	}
	if newRole != nil {
		user.RoleID = newRole.ID
		user.Role = *newRole
		s.audit(ctx, &actorID, "user_set_role", fmt.Sprintf("User %d role=%s", id, newRole.RoleName))
	}
	if upd.Employee != nil {
		user.Employee = upd.Employee
	}

	return NewUserResponse(user), nil
}

// UpsertProfile creates or partially updates the caller's own employee profile
func (s *UserService) UpsertProfile(ctx context.Context, userID uint, in EmployeeInput) (*UserResponse, error) {
	user, err := s.creds.FindActiveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := validateDate(in.DateOfBirth); err != nil {
		return nil, err
	}

	employee := user.Employee
	if employee == nil {
		if blank(in.EmployeeID) || blank(in.FullName) {
			return nil, fmt.Errorf("%w: employee_id and full_name are required to create a profile", ErrInvalidInput)
		}
		employee = &models.Employee{UserID: user.ID}
	}

	if !blank(in.EmployeeID) {
		wanted := strings.TrimSpace(*in.EmployeeID)
		if wanted != employee.EmployeeID {
			if _, err := s.userRepo.FindEmployeeByEmployeeID(ctx, wanted); err == nil {
				return nil, fmt.Errorf("%w: employee_id already exists", ErrConflict)
			}
		}
	} else {
		in.EmployeeID = nil
	}

	applyEmployee(employee, in)
	if err := s.userRepo.SaveEmployee(ctx, employee); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: employee_id already exists", ErrConflict)
		}
		return nil, err
	}
	user.Employee = employee

	return NewUserResponse(user), nil
}

// ListMembers lists the users of a department, optionally of one role
func (s *UserService) ListMembers(ctx context.Context, deptID uint, role string, limit, offset int) ([]repository.MemberRow, error) {
	limit, offset = clampPage(limit, offset)
	return s.userRepo.ListMembersByDepartment(ctx, deptID, models.NormalizeRole(role), limit, offset)
}

// ListRoles lists roles, optionally filtered by name or description
func (s *UserService) ListRoles(ctx context.Context, q string, limit, offset int) ([]models.Role, error) {
	limit, offset = clampPage(limit, offset)
	return s.roleRepo.ListRoles(ctx, strings.TrimSpace(q), limit, offset)
}

// ListAudit pages through the audit log entries recorded for action
func (s *UserService) ListAudit(ctx context.Context, action string, limit, offset int) ([]models.AuditLog, error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return nil, fmt.Errorf("%w: action is required", ErrInvalidInput)
	}
	limit, offset = clampPage(limit, offset)
	return s.auditRepo.ListByAction(ctx, action, limit, offset)
}

// SeedRoles makes sure the fixed role set exists
func (s *UserService) SeedRoles(ctx context.Context) error {
	return s.roleRepo.EnsureRoles(ctx, models.DefaultRoles)
}

// SeedAdmin creates a SUPER-ADMIN account for email unless it already exists
// and returns its id. Without an email or password nothing is seeded and 0 is returned.
func (s *UserService) SeedAdmin(ctx context.Context, email, password string) (uint, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return 0, nil
	}
	if existing, err := s.userRepo.FindUserByEmail(ctx, email); err == nil {
		return existing.ID, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return 0, err
	}

	role, err := s.roleRepo.EnsureRole(ctx, models.RoleSuperAdmin)
	if err != nil {
		return 0, err
	}
	hash, err := s.creds.HashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}
	admin := &models.User{Email: email, PasswordHash: hash, RoleID: role.ID, IsActive: true}
	if err := s.userRepo.CreateUser(ctx, admin, nil); err != nil {
		return 0, fmt.Errorf("failed to seed admin: %w", err)
	}
	s.log.Info("seeded super admin", "email", email)
	return admin.ID, nil
}

func (s *UserService) audit(ctx context.Context, userID *uint, action, details string) {
	if err := s.auditRepo.CreateAuditLog(ctx, userID, action, details); err != nil {
		s.log.Warn("failed to write audit log", "action", action, "error", err)
	}
}

func applyEmployee(e *models.Employee, in EmployeeInput) {
	if in.EmployeeID != nil {
		e.EmployeeID = strings.TrimSpace(*in.EmployeeID)
	}
	if in.FullName != nil {
		e.FullName = strings.TrimSpace(*in.FullName)
	}
	setString(&e.Phone, in.Phone)
	setString(&e.Address, in.Address)
	setString(&e.FathersName, in.FathersName)
	setString(&e.AadharNo, in.AadharNo)
	setString(&e.DateOfBirth, in.DateOfBirth)
	setString(&e.WorkPosition, in.WorkPosition)
	setString(&e.CardID, in.CardID)
	setString(&e.ProfilePhoto, in.ProfilePhoto)
	if in.DeptID != nil {
		e.DeptID = in.DeptID
	}
	if in.SubDeptID != nil {
		e.SubDeptID = in.SubDeptID
	}
	if in.DesignationID != nil {
		e.DesignationID = in.DesignationID
	}
}

// setString copies v into dst; an empty string clears the field
func setString(dst **string, v *string) {
	if v == nil {
		return
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		*dst = nil
		return
	}
	*dst = &trimmed
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func validateDate(s *string) error {
	if blank(s) {
		return nil
	}
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(*s)); err != nil {
		return fmt.Errorf("%w: date_of_birth must be YYYY-MM-DD", ErrInvalidInput)
	}
	return nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
