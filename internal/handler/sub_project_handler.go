package handler

import (
	"hrms-backend/internal/logger"
	"hrms-backend/internal/middleware"
	"hrms-backend/internal/service"
	"hrms-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type SubProjectHandler struct {
	subProjectService *service.SubProjectService
	log               *logger.Logger
}

func NewSubProjectHandler(subProjectService *service.SubProjectService, log *logger.Logger) *SubProjectHandler {
	return &SubProjectHandler{
		subProjectService: subProjectService,
		log:               log,
	}
}

type SubProjectRequest struct {
	ProjectID     uint    `json:"project_id" binding:"required"`
	AssignedBy    *uint   `json:"assigned_by"`
	AssignedTo    uint    `json:"assigned_to" binding:"required"`
	Description   *string `json:"description"`
	ProjectStatus *string `json:"project_status" binding:"omitempty,oneof=Active Completed 'On Hold'"`
}

type SubProjectUpdateRequest struct {
	Description   *string `json:"description"`
	ProjectStatus *string `json:"project_status" binding:"omitempty,oneof=Active Completed 'On Hold'"`
	AssignedTo    *uint   `json:"assigned_to"`
}

// ListSubProjects lists sub-projects filtered by ?project_id=, ?status= and ?user_id=
func (h *SubProjectHandler) ListSubProjects(c *gin.Context) {
	projectID, ok := queryUint(c, "project_id")
	if !ok {
		return
	}
	userID, ok := queryUint(c, "user_id")
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}

	subs, total, err := h.subProjectService.ListSubProjects(c.Request.Context(), derefUint(projectID), c.Query("status"), derefUint(userID), page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Header("X-Total-Count", itoa64(total))
	utils.SuccessResponse(c, subs)
}

func (h *SubProjectHandler) GetSubProject(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	sub, err := h.subProjectService.GetSubProject(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, sub)
}

func (h *SubProjectHandler) CreateSubProject(c *gin.Context) {
	var req SubProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "project_id and assigned_to are required")
		return
	}
	sub, err := h.subProjectService.CreateSubProject(c.Request.Context(), service.SubProjectInput{
		ProjectID:     req.ProjectID,
		AssignedBy:    req.AssignedBy,
		AssignedTo:    &req.AssignedTo,
		Description:   req.Description,
		ProjectStatus: req.ProjectStatus,
	}, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.CreatedResponse(c, sub)
}

func (h *SubProjectHandler) UpdateSubProject(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req SubProjectUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	sub, err := h.subProjectService.UpdateSubProject(c.Request.Context(), id, service.SubProjectInput{
		Description:   req.Description,
		ProjectStatus: req.ProjectStatus,
		AssignedTo:    req.AssignedTo,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, sub)
}

func (h *SubProjectHandler) DeleteSubProject(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.subProjectService.DeleteSubProject(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.NoContentResponse(c)
}
