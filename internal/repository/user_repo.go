package repository

import (
	"context"
	"fmt"
	"time"

	"hrms-backend/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// MemberRow is the trimmed view of a user listed under a department
type MemberRow struct {
	Email    string  `json:"email"`
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone"`
	DeptID   *uint   `json:"dept_id"`
}

// FindUserByEmail finds a user by normalized email, with role and employee loaded
func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Role").
		Preload("Employee").
		Where("email = ?", models.NormalizeEmail(email)).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindUserByID finds a user by id, with role and employee loaded
func (r *UserRepository) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Role").
		Preload("Employee").
		First(&user, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// CreateUser creates a new user and, when employee is non-nil, its profile in the same transaction
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User, employee *models.Employee) error {
	user.Email = models.NormalizeEmail(user.Email)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Role", "Employee").Create(user).Error; err != nil {
			return translate(err)
		}
		if employee == nil {
			return nil
		}
		employee.UserID = user.ID
		if err := tx.Create(employee).Error; err != nil {
			return translate(err)
		}
		user.Employee = employee
		return nil
	})
}

// UpdatePasswordHash replaces a user's password hash
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}

// TouchLastActive stamps the user's last activity time
func (r *UserRepository) TouchLastActive(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("last_active", at).Error
}

// AccountUpdate is an admin change to a user. Nil fields are left unchanged.
type AccountUpdate struct {
	IsActive *bool
	RoleID   *uint
	Employee *models.Employee
}

// UpdateAccount applies upd in one transaction. Deactivating the user also
// revokes its live refresh tokens; the number revoked is returned.
func (r *UserRepository) UpdateAccount(ctx context.Context, id uint, upd AccountUpdate) (int64, error) {
	var revoked int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if upd.IsActive != nil {
			if err := tx.Model(&models.User{}).Where("id = ?", id).Update("is_active", *upd.IsActive).Error; err != nil {
				return fmt.Errorf("failed to update user: %w", err)
			}
			if !*upd.IsActive {
				res := tx.Model(&models.RefreshToken{}).
					Where("user_id = ? AND revoked = ?", id, false).
					Updates(map[string]interface{}{"revoked": true, "revoked_at": time.Now()})
				if res.Error != nil {
					return fmt.Errorf("failed to revoke refresh tokens for user: %w", res.Error)
				}
				revoked = res.RowsAffected
			}
		}
		if upd.RoleID != nil {
			if err := tx.Model(&models.User{}).Where("id = ?", id).Update("role_id", *upd.RoleID).Error; err != nil {
				return fmt.Errorf("failed to update role: %w", err)
			}
		}
		if upd.Employee != nil {
			if err := tx.Save(upd.Employee).Error; err != nil {
				return fmt.Errorf("failed to save employee: %w", translate(err))
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return revoked, nil
}

// ListUsers lists users newest first, optionally filtered by an email substring
// and an exact employee id
func (r *UserRepository) ListUsers(ctx context.Context, q, employeeID string) ([]models.User, error) {
	query := r.db.WithContext(ctx).Model(&models.User{}).
		Preload("Role").
		Preload("Employee").
		Order("users.created_at DESC")
	if q != "" {
		query = query.Where("LOWER(users.email) LIKE ?", "%"+models.NormalizeEmail(q)+"%")
	}
	if employeeID != "" {
		query = query.Joins("INNER JOIN employees ON employees.user_id = users.id").
			Where("employees.employee_id = ?", employeeID)
	}

	var users []models.User
	err := query.Find(&users).Error
	return users, err
}

// ListMembersByDepartment lists users whose employee profile is in deptID,
// optionally restricted to one role
func (r *UserRepository) ListMembersByDepartment(ctx context.Context, deptID uint, role models.RoleName, limit, offset int) ([]MemberRow, error) {
	query := r.db.WithContext(ctx).Table("users").
		Select("users.email, employees.full_name, employees.phone, employees.dept_id").
		Joins("INNER JOIN employees ON employees.user_id = users.id").
		Where("employees.dept_id = ?", deptID)
	if role != "" {
		query = query.Joins("INNER JOIN role_list ON role_list.id = users.role_id").
			Where("role_list.role_name = ?", string(role))
	}

	rows := []MemberRow{}
	err := query.Order("employees.full_name ASC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	return rows, err
}

// FindEmployeeByEmployeeID finds an employee profile by its HR identifier
func (r *UserRepository) FindEmployeeByEmployeeID(ctx context.Context, employeeID string) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).Where("employee_id = ?", employeeID).First(&employee).Error
	if err != nil {
		return nil, translate(err)
	}
	return &employee, nil
}

// SaveEmployee inserts or updates an employee profile
func (r *UserRepository) SaveEmployee(ctx context.Context, employee *models.Employee) error {
	if err := r.db.WithContext(ctx).Save(employee).Error; err != nil {
		return fmt.Errorf("failed to save employee: %w", translate(err))
	}
	return nil
}
