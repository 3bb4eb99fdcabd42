package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "petitionserver/server/errors"
)

// respondError logs the error and writes its HTTP representation
func (s *Server) respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.NewInternalError("unexpected error", err)
	}

	LogHTTPError(c.Request, appErr, appErr.Code)
	c.AbortWithStatusJSON(appErr.Code, gin.H{
		"error":       appErr.Message,
		"status_code": appErr.Code,
	})
}

// handleHealth liveness probe
//
// @Summary Health check
// @Tags system
// @Success 200 {object} map[string]string
// @Router /health [get]
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
