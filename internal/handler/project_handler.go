package handler

import (
	"hrms-backend/internal/logger"
	"hrms-backend/internal/middleware"
	"hrms-backend/internal/service"
	"hrms-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectService *service.ProjectService
	log            *logger.Logger
}

func NewProjectHandler(projectService *service.ProjectService, log *logger.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		log:            log,
	}
}

type ProjectRequest struct {
	ProjectName   string  `json:"project_name" binding:"required,min=1,max=255"`
	Description   *string `json:"description"`
	ProjectStatus *string `json:"project_status" binding:"omitempty,oneof=Active Completed 'On Hold'"`
	CreatedBy     *uint   `json:"created_by"`
}

type ProjectUpdateRequest struct {
	ProjectName   *string `json:"project_name" binding:"omitempty,min=1,max=255"`
	Description   *string `json:"description"`
	ProjectStatus *string `json:"project_status" binding:"omitempty,oneof=Active Completed 'On Hold'"`
}

type AddMemberRequest struct {
	UserID        uint  `json:"user_id" binding:"required"`
	DesignationID *uint `json:"designation_id"`
}

// ListProjects lists projects filtered by ?q=, ?status= and ?created_by=, paginated by ?page= and ?page_size=
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	createdBy, ok := queryUint(c, "created_by")
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}

	projects, total, err := h.projectService.ListProjects(c.Request.Context(), c.Query("q"), c.Query("status"), derefUint(createdBy), page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Header("X-Total-Count", itoa64(total))
	utils.SuccessResponse(c, projects)
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	project, err := h.projectService.GetProject(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, project)
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "project_name is required and project_status must be Active, Completed or On Hold")
		return
	}
	project, err := h.projectService.CreateProject(c.Request.Context(), service.ProjectInput{
		ProjectName:   &req.ProjectName,
		Description:   req.Description,
		ProjectStatus: req.ProjectStatus,
		CreatedBy:     req.CreatedBy,
	}, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.CreatedResponse(c, project)
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req ProjectUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	project, err := h.projectService.UpdateProject(c.Request.Context(), id, service.ProjectInput{
		ProjectName:   req.ProjectName,
		Description:   req.Description,
		ProjectStatus: req.ProjectStatus,
	}, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, project)
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.projectService.DeleteProject(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.NoContentResponse(c)
}

// ---- Members ----

func (h *ProjectHandler) ListMembers(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	members, err := h.projectService.ListMembers(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, members)
}

func (h *ProjectHandler) AddMember(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "user_id is required")
		return
	}
	member, err := h.projectService.AddMember(c.Request.Context(), id, req.UserID, req.DesignationID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.CreatedResponse(c, member)
}

func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := paramID(c, "user_id")
	if !ok {
		return
	}
	if err := h.projectService.RemoveMember(c.Request.Context(), id, userID); err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.NoContentResponse(c)
}

func pageQuery(c *gin.Context) (service.Page, bool) {
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return service.Page{}, false
	}
	size, ok := queryInt(c, "page_size", 50)
	if !ok {
		return service.Page{}, false
	}
	if page < 1 || size < 1 {
		badRequest(c, "page and page_size must be positive")
		return service.Page{}, false
	}
	return service.Page{Page: page, PageSize: size}, true
}
