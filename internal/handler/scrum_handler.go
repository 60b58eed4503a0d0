package handler

import (
	"hrms-backend/internal/logger"
	"hrms-backend/internal/models"
	"hrms-backend/internal/service"
	"hrms-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type ScrumHandler struct {
	scrumService *service.ScrumService
	log          *logger.Logger
}

func NewScrumHandler(scrumService *service.ScrumService, log *logger.Logger) *ScrumHandler {
	return &ScrumHandler{
		scrumService: scrumService,
		log:          log,
	}
}

type ScrumDependencyRequest struct {
	UserID      uint   `json:"user_id" binding:"required,min=1"`
	Description string `json:"description" binding:"required,min=1,max=2000"`
}

type ScrumRequest struct {
	UserID       uint                     `json:"user_id" binding:"required,min=1"`
	SubProjectID uint                     `json:"subproject_id" binding:"required,min=1"`
	TodayTask    string                   `json:"today_task" binding:"required,min=1,max=2000"`
	EtaDate      string                   `json:"eta_date" binding:"required"`
	Dependencies []ScrumDependencyRequest `json:"dependencies" binding:"omitempty,dive"`
	Concern      *string                  `json:"concern" binding:"omitempty,max=2000"`
}

type ScrumUpdateRequest struct {
	TodayTask    *string                   `json:"today_task" binding:"omitempty,min=1,max=2000"`
	EtaDate      *string                   `json:"eta_date"`
	Dependencies *[]ScrumDependencyRequest `json:"dependencies" binding:"omitempty,dive"`
	Concern      *string                   `json:"concern" binding:"omitempty,max=2000"`
}

// ListScrums lists scrums filtered by ?subproject_id=, ?user_id=, ?date_from= and ?date_to=
func (h *ScrumHandler) ListScrums(c *gin.Context) {
	subProjectID, ok := queryUint(c, "subproject_id")
	if !ok {
		return
	}
	userID, ok := queryUint(c, "user_id")
	if !ok {
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

	scrums, err := h.scrumService.ListScrums(c.Request.Context(), service.ScrumQuery{
		SubProjectID: subProjectID,
		UserID:       userID,
		DateFrom:     c.Query("date_from"),
		DateTo:       c.Query("date_to"),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, scrums)
}

func (h *ScrumHandler) CreateScrum(c *gin.Context) {
	var req ScrumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "user_id, subproject_id, today_task and eta_date are required")
		return
	}
	scrum, err := h.scrumService.CreateScrum(c.Request.Context(), service.ScrumInput{
		SubProjectID: req.SubProjectID,
		UserID:       req.UserID,
		TodayTask:    req.TodayTask,
		EtaDate:      req.EtaDate,
		Dependencies: toDependencies(req.Dependencies),
		Concern:      req.Concern,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.CreatedResponse(c, scrum)
}

// LatestForUser returns the newest scrum :user_id owns or is a dependency on
func (h *ScrumHandler) LatestForUser(c *gin.Context) {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return
	}
	scrum, err := h.scrumService.LatestForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, scrum)
}

// UpdateLatestForUser patches the newest scrum :user_id owns or is a dependency on
func (h *ScrumHandler) UpdateLatestForUser(c *gin.Context) {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return
	}
	var req ScrumUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	in := service.ScrumUpdate{
		TodayTask: req.TodayTask,
		EtaDate:   req.EtaDate,
		Concern:   req.Concern,
	}
	if req.Dependencies != nil {
		deps := toDependencies(*req.Dependencies)
		in.Dependencies = &deps
	}

	scrum, err := h.scrumService.UpdateLatestForUser(c.Request.Context(), userID, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, scrum)
}

func toDependencies(reqs []ScrumDependencyRequest) []models.ScrumDependency {
	deps := make([]models.ScrumDependency, 0, len(reqs))
	for _, r := range reqs {
		deps = append(deps, models.ScrumDependency{UserID: r.UserID, Description: r.Description})
	}
	return deps
}
