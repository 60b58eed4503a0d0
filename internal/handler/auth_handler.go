package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"hrms-backend/internal/logger"
	"hrms-backend/internal/middleware"
	"hrms-backend/internal/repository"
	"hrms-backend/internal/service"
	"hrms-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	refreshCookie = "refresh_token"
	refreshHeader = "X-Refresh-Token"
)

type AuthHandler struct {
	authService  *service.AuthService
	refreshTTL   time.Duration
	secureCookie bool
	log          *logger.Logger
}

func NewAuthHandler(authService *service.AuthService, refreshTTL time.Duration, secureCookie bool, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		refreshTTL:   refreshTTL,
		secureCookie: secureCookie,
		log:          log,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Login handles user authentication
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}

	pair, err := h.authService.Login(c.Request.Context(), req.Email, req.Password, sessionMeta(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	utils.SuccessResponse(c, pair)
}

// Refresh rotates a refresh token into a new token pair.
// The token is read from the body, the X-Refresh-Token header or the cookie, in that order.
func (h *AuthHandler) Refresh(c *gin.Context) {
	raw, ok := refreshToken(c)
	if !ok {
		return
	}
	if raw == "" {
		utils.CodedErrorResponse(c, http.StatusUnauthorized, CodeInvalidRefreshToken, "Missing refresh token")
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), raw, sessionMeta(c))
	if err != nil {
		h.clearRefreshCookie(c)
		respondError(c, h.log, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	utils.SuccessResponse(c, pair)
}

// Logout revokes the refresh token; repeated calls succeed
func (h *AuthHandler) Logout(c *gin.Context) {
	raw, ok := refreshToken(c)
	if !ok {
		return
	}
	if err := h.authService.Logout(c.Request.Context(), raw); err != nil {
		respondError(c, h.log, err)
		return
	}

	h.clearRefreshCookie(c)
	utils.NoContentResponse(c)
}

// Register handles self-service registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "A valid email and a password of at least 6 characters are required")
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	utils.CreatedResponse(c, user)
}

// Sessions lists the caller's live refresh sessions
func (h *AuthHandler) Sessions(c *gin.Context) {
	sessions, err := h.authService.Sessions(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, sessions)
}

// Me returns the authenticated account
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.Me(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, user)
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookie, token, int(h.refreshTTL.Seconds()), "/auth", "", h.secureCookie, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetCookie(refreshCookie, "", -1, "/auth", "", h.secureCookie, true)
}

// refreshToken reads the refresh token from the body, the header or the cookie.
// A body that is present but not valid JSON is answered with 400 and ok=false.
func refreshToken(c *gin.Context) (string, bool) {
	var req RefreshRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			badRequest(c, "Malformed request body")
			return "", false
		}
	}
	if t := strings.TrimSpace(req.RefreshToken); t != "" {
		return t, true
	}
	if t := strings.TrimSpace(c.GetHeader(refreshHeader)); t != "" {
		return t, true
	}
	if t, err := c.Cookie(refreshCookie); err == nil {
		return strings.TrimSpace(t), true
	}
	return "", true
}

func sessionMeta(c *gin.Context) repository.SessionMeta {
	return repository.SessionMeta{
		UserAgent: c.Request.UserAgent(),
		IP:        c.ClientIP(),
	}
}
