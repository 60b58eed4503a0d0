package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"hrms-backend/internal/logger"
	"hrms-backend/internal/service"
	"hrms-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Error codes returned alongside the HTTP status
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeInvalidRefreshToken = "INVALID_REFRESH_TOKEN"
	CodeTokenExpired        = "TOKEN_EXPIRED"
	CodeSessionCompromised  = "SESSION_COMPROMISED"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeForbidden           = "FORBIDDEN"
	CodeInternal            = "INTERNAL_ERROR"
)

// respondError maps service errors onto a status, code and client-safe message.
// Unknown errors are logged and reported as 500.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		utils.CodedErrorResponse(c, http.StatusUnauthorized, CodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, service.ErrSessionCompromised):
		utils.CodedErrorResponse(c, http.StatusUnauthorized, CodeSessionCompromised, "Session compromised, please log in again")
	case errors.Is(err, service.ErrRefreshExpired):
		utils.CodedErrorResponse(c, http.StatusUnauthorized, CodeTokenExpired, "Refresh token expired")
	case errors.Is(err, service.ErrInvalidRefreshToken):
		utils.CodedErrorResponse(c, http.StatusUnauthorized, CodeInvalidRefreshToken, "Invalid refresh token")
	case errors.Is(err, service.ErrInvalidInput):
		utils.CodedErrorResponse(c, http.StatusBadRequest, CodeInvalidRequest, detail(err, service.ErrInvalidInput))
	case errors.Is(err, service.ErrNotFound):
		utils.CodedErrorResponse(c, http.StatusNotFound, CodeNotFound, detail(err, service.ErrNotFound))
	case errors.Is(err, service.ErrConflict):
		utils.CodedErrorResponse(c, http.StatusConflict, CodeConflict, detail(err, service.ErrConflict))
	case errors.Is(err, service.ErrForbidden):
		utils.CodedErrorResponse(c, http.StatusForbidden, CodeForbidden, "Forbidden")
	default:
		log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		utils.CodedErrorResponse(c, http.StatusInternalServerError, CodeInternal, "Internal server error")
	}
}

// badRequest reports a malformed request body or parameter
func badRequest(c *gin.Context, message string) {
	utils.CodedErrorResponse(c, http.StatusBadRequest, CodeInvalidRequest, message)
}

// detail strips the sentinel prefix from a wrapped error message
func detail(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}

// paramID parses a positive numeric path parameter
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		badRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// queryUint parses an optional numeric query parameter
func queryUint(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		badRequest(c, "Invalid "+name)
		return nil, false
	}
	id := uint(v)
	return &id, true
}

// queryInt parses an optional integer query parameter, returning def when absent
func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(c, "Invalid "+name)
		return 0, false
	}
	return v, true
}

func derefUint(p *uint) uint {
	if p == nil {
		return 0
	}
	return *p
}

func itoa64(n int64) string {
	return strconv.FormatInt(n, 10)
}
