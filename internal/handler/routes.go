package handler

import (
	"hrms-backend/internal/config"
	"hrms-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers mounted by RegisterRoutes.
// Scrum is optional; its routes are skipped when nil.
type Handlers struct {
	Health     *HealthHandler
	Auth       *AuthHandler
	User       *UserHandler
	Org        *OrgHandler
	Project    *ProjectHandler
	SubProject *SubProjectHandler
	Scrum      *ScrumHandler
}

// RegisterRoutes mounts every endpoint on r, gated by guard and the configured allow-lists
func RegisterRoutes(r *gin.Engine, h Handlers, guard middleware.Guard, roles config.RoleAllowLists) {
	authn := guard.Authenticate()

	// Health check endpoints
	r.GET("/health", h.Health.Health)
	r.GET("/db/ping", h.Health.PingDB)

	// Auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)

		auth.GET("/me", authn, h.Auth.Me)
		auth.GET("/sessions", authn, h.Auth.Sessions)
		auth.PATCH("/me/profile", authn, h.User.UpsertProfile)
		auth.GET("/members", authn, h.User.ListMembers)

		auth.POST("/users", authn, guard.Require(roles.Users...), h.User.CreateUser)
		auth.GET("/users", authn, guard.Require(roles.Users...), h.User.ListUsers)
		auth.GET("/users/:id", authn, guard.Require(roles.Users...), h.User.GetUser)
		auth.PATCH("/users/:id", authn, guard.Require(roles.UserUpdate...), h.User.UpdateUser)
		auth.GET("/roles", authn, guard.Require(roles.RoleList...), h.User.ListRoles)
		auth.GET("/audit", authn, guard.Require(roles.Users...), h.User.ListAudit)
	}

	// Organization routes (reads authenticated, writes role-gated)
	org := r.Group("/org", authn)
	orgWrite := guard.Require(roles.OrgWrite...)
	{
		org.GET("/departments", h.Org.ListDepartments)
		org.GET("/departments/:id", h.Org.GetDepartment)
		org.POST("/departments", orgWrite, h.Org.CreateDepartment)
		org.PUT("/departments/:id", orgWrite, h.Org.UpdateDepartment)
		org.DELETE("/departments/:id", orgWrite, h.Org.DeleteDepartment)

		org.GET("/sub-departments", h.Org.ListSubDepartments)
		org.GET("/sub-departments/:id", h.Org.GetSubDepartment)
		org.POST("/sub-departments", orgWrite, h.Org.CreateSubDepartment)
		org.PUT("/sub-departments/:id", orgWrite, h.Org.UpdateSubDepartment)
		org.DELETE("/sub-departments/:id", orgWrite, h.Org.DeleteSubDepartment)

		org.GET("/designations", h.Org.ListDesignations)
		org.GET("/designations/:id", h.Org.GetDesignation)
		org.POST("/designations", orgWrite, h.Org.CreateDesignation)
		org.PUT("/designations/:id", orgWrite, h.Org.UpdateDesignation)
		org.DELETE("/designations/:id", orgWrite, h.Org.DeleteDesignation)

		org.POST("/add-all", orgWrite, h.Org.AddAll)
		org.GET("/structure", h.Org.Structure)
		org.GET("/structure/:dept_id", h.Org.Structure)
	}

	// Project routes
	projectWrite := guard.Require(roles.ProjectWrite...)
	projects := r.Group("/projects", authn)
	{
		projects.GET("", h.Project.ListProjects)
		projects.GET("/:id", h.Project.GetProject)
		projects.POST("", projectWrite, h.Project.CreateProject)
		projects.PUT("/:id", projectWrite, h.Project.UpdateProject)
		projects.DELETE("/:id", projectWrite, h.Project.DeleteProject)

		projects.GET("/:id/members", h.Project.ListMembers)
		projects.POST("/:id/members", projectWrite, h.Project.AddMember)
		projects.DELETE("/:id/members/:user_id", projectWrite, h.Project.RemoveMember)
	}

	subProjects := r.Group("/sub-projects", authn)
	{
		subProjects.GET("", h.SubProject.ListSubProjects)
		subProjects.GET("/:id", h.SubProject.GetSubProject)
		subProjects.POST("", projectWrite, h.SubProject.CreateSubProject)
		subProjects.PUT("/:id", projectWrite, h.SubProject.UpdateSubProject)
		subProjects.DELETE("/:id", projectWrite, h.SubProject.DeleteSubProject)
	}

	if h.Scrum == nil {
		return
	}

	// Daily scrum routes (MongoDB)
	scrums := r.Group("/scrums", authn)
	{
		scrums.GET("", h.Scrum.ListScrums)
		scrums.POST("", h.Scrum.CreateScrum)
		scrums.GET("/user/:user_id", h.Scrum.LatestForUser)
		scrums.PUT("/user/:user_id", h.Scrum.UpdateLatestForUser)
	}
}
