package handler

import (
	"hrms-backend/internal/logger"
	"hrms-backend/internal/middleware"
	"hrms-backend/internal/service"
	"hrms-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *service.UserService
	log         *logger.Logger
}

func NewUserHandler(userService *service.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		log:         log,
	}
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
	service.EmployeeInput
}

type UpdateUserRequest struct {
	IsActive *bool   `json:"is_active"`
	Role     *string `json:"role"`
	service.EmployeeInput
}

// CreateUser creates an account with its employee profile
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), service.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Employee: req.EmployeeInput,
	}, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	utils.CreatedResponse(c, user)
}

// ListUsers lists accounts filtered by ?q= (email) and ?employee_id=
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context(), c.Query("q"), c.Query("employee_id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, users)
}

// GetUser returns one account
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, user)
}

// UpdateUser toggles activation and edits the employee profile
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), id, service.UpdateUserInput{
		IsActive: req.IsActive,
		Role:     req.Role,
		Employee: req.EmployeeInput,
	}, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, user)
}

// UpsertProfile creates or updates the caller's own employee profile
func (h *UserHandler) UpsertProfile(c *gin.Context) {
	var req service.EmployeeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpsertProfile(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, user)
}

// ListMembers lists the members of ?dept_id=, optionally filtered by ?role=
func (h *UserHandler) ListMembers(c *gin.Context) {
	deptID, ok := queryUint(c, "dept_id")
	if !ok {
		return
	}
	if deptID == nil {
		badRequest(c, "dept_id is required")
		return
	}
	limit, ok := queryInt(c, "limit", 100)
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset", 0)
	if !ok {
		return
	}

	members, err := h.userService.ListMembers(c.Request.Context(), *deptID, c.Query("role"), limit, offset)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, members)
}

// ListRoles lists roles filtered by ?q=
// ListAudit lists audit log entries for one action
func (h *UserHandler) ListAudit(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 100)
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset", 0)
	if !ok {
		return
	}

	logs, err := h.userService.ListAudit(c.Request.Context(), c.Query("action"), limit, offset)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, logs)
}

func (h *UserHandler) ListRoles(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 100)
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset", 0)
	if !ok {
		return
	}

	roles, err := h.userService.ListRoles(c.Request.Context(), c.Query("q"), limit, offset)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, roles)
}
