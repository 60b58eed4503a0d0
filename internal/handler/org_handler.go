package handler

import (
	"hrms-backend/internal/logger"
	"hrms-backend/internal/middleware"
	"hrms-backend/internal/service"
	"hrms-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type OrgHandler struct {
	orgService *service.OrgService
	log        *logger.Logger
}

func NewOrgHandler(orgService *service.OrgService, log *logger.Logger) *OrgHandler {
	return &OrgHandler{
		orgService: orgService,
		log:        log,
	}
}

type DepartmentRequest struct {
	DeptName    string  `json:"dept_name" binding:"required,max=150"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

type DepartmentUpdateRequest struct {
	DeptName    *string `json:"dept_name" binding:"omitempty,max=150"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

type SubDepartmentRequest struct {
	DeptID      uint    `json:"dept_id" binding:"required"`
	SubDeptName string  `json:"sub_dept_name" binding:"required,max=150"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

type SubDepartmentUpdateRequest struct {
	DeptID      *uint   `json:"dept_id"`
	SubDeptName *string `json:"sub_dept_name" binding:"omitempty,max=150"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

type DesignationRequest struct {
	DesignationName string  `json:"designation_name" binding:"required,max=150"`
	DeptID          *uint   `json:"dept_id"`
	SubDeptID       *uint   `json:"sub_dept_id"`
	Description     *string `json:"description" binding:"omitempty,max=500"`
}

type DesignationUpdateRequest struct {
	DesignationName *string `json:"designation_name" binding:"omitempty,max=150"`
	DeptID          *uint   `json:"dept_id"`
	SubDeptID       *uint   `json:"sub_dept_id"`
	Description     *string `json:"description" binding:"omitempty,max=500"`
}

type AddAllRequest struct {
	DeptName               string  `json:"dept_name" binding:"required,max=150"`
	DeptDescription        *string `json:"dept_description"`
	SubDeptName            string  `json:"sub_dept_name" binding:"required,max=150"`
	SubDeptDescription     *string `json:"sub_dept_description"`
	DesignationName        string  `json:"designation_name" binding:"required,max=150"`
	DesignationDescription *string `json:"designation_description"`
}

// ---- Departments ----

func (h *OrgHandler) CreateDepartment(c *gin.Context) {
	var req DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "dept_name is required")
		return
	}
	dept, err := h.orgService.CreateDepartment(c.Request.Context(), req.DeptName, req.Description, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, dept)
}

func (h *OrgHandler) ListDepartments(c *gin.Context) {
	depts, err := h.orgService.ListDepartments(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, depts)
}

func (h *OrgHandler) GetDepartment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	dept, err := h.orgService.GetDepartment(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, dept)
}

func (h *OrgHandler) UpdateDepartment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req DepartmentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	dept, err := h.orgService.UpdateDepartment(c.Request.Context(), id, service.DepartmentInput{
		DeptName:    req.DeptName,
		Description: req.Description,
	}, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, dept)
}

func (h *OrgHandler) DeleteDepartment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.orgService.DeleteDepartment(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.NoContentResponse(c)
}

// ---- Sub-departments ----

func (h *OrgHandler) CreateSubDepartment(c *gin.Context) {
	var req SubDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "dept_id and sub_dept_name are required")
		return
	}
	sub, err := h.orgService.CreateSubDepartment(c.Request.Context(), req.DeptID, req.SubDeptName, req.Description, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, sub)
}

// ListSubDepartments lists sub-departments, optionally of ?dept_id=
func (h *OrgHandler) ListSubDepartments(c *gin.Context) {
	deptID, ok := queryUint(c, "dept_id")
	if !ok {
		return
	}
	subs, err := h.orgService.ListSubDepartments(c.Request.Context(), deptID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, subs)
}

func (h *OrgHandler) GetSubDepartment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	sub, err := h.orgService.GetSubDepartment(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, sub)
}

func (h *OrgHandler) UpdateSubDepartment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req SubDepartmentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	sub, err := h.orgService.UpdateSubDepartment(c.Request.Context(), id, service.SubDepartmentInput{
		DeptID:      req.DeptID,
		SubDeptName: req.SubDeptName,
		Description: req.Description,
	}, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, sub)
}

func (h *OrgHandler) DeleteSubDepartment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.orgService.DeleteSubDepartment(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.NoContentResponse(c)
}

// ---- Designations ----

func (h *OrgHandler) CreateDesignation(c *gin.Context) {
	var req DesignationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "designation_name is required")
		return
	}
	des, err := h.orgService.CreateDesignation(c.Request.Context(), req.DesignationName, req.DeptID, req.SubDeptID, req.Description, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, des)
}

// ListDesignations lists designations filtered by ?dept_id= and ?sub_dept_id=
func (h *OrgHandler) ListDesignations(c *gin.Context) {
	deptID, ok := queryUint(c, "dept_id")
	if !ok {
		return
	}
	subDeptID, ok := queryUint(c, "sub_dept_id")
	if !ok {
		return
	}
	list, err := h.orgService.ListDesignations(c.Request.Context(), deptID, subDeptID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, list)
}

func (h *OrgHandler) GetDesignation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	des, err := h.orgService.GetDesignation(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, des)
}

func (h *OrgHandler) UpdateDesignation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req DesignationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	des, err := h.orgService.UpdateDesignation(c.Request.Context(), id, service.DesignationInput{
		DesignationName: req.DesignationName,
		DeptID:          req.DeptID,
		SubDeptID:       req.SubDeptID,
		Description:     req.Description,
	}, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, des)
}

func (h *OrgHandler) DeleteDesignation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.orgService.DeleteDesignation(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.NoContentResponse(c)
}

// ---- Composite ----

// AddAll creates a department, sub-department and designation in one transaction
func (h *OrgHandler) AddAll(c *gin.Context) {
	var req AddAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "dept_name, sub_dept_name and designation_name are required")
		return
	}
	result, err := h.orgService.AddAll(c.Request.Context(), service.AddAllInput{
		DeptName:               req.DeptName,
		DeptDescription:        req.DeptDescription,
		SubDeptName:            req.SubDeptName,
		SubDeptDescription:     req.SubDeptDescription,
		DesignationName:        req.DesignationName,
		DesignationDescription: req.DesignationDescription,
	}, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, result)
}

// Structure returns the department tree, or one department when :dept_id is given
func (h *OrgHandler) Structure(c *gin.Context) {
	var deptID *uint
	if c.Param("dept_id") != "" {
		id, ok := paramID(c, "dept_id")
		if !ok {
			return
		}
		deptID = &id
	}
	tree, err := h.orgService.Structure(c.Request.Context(), deptID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, tree)
}
