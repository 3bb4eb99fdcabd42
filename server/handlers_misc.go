package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"petitionserver/database"
	"petitionserver/internal/config"
	apperrors "petitionserver/server/errors"
	"petitionserver/server/middleware"
)

// handleListBallots lists uploaded petition documents
//
// @Summary List ballots
// @Tags ballots
// @Success 200 {array} database.Ballot
// @Router /api/ballots [get]
func (s *Server) handleListBallots(c *gin.Context) {
	ballots, err := s.serviceDB.ListBallots()
	if err != nil {
		s.respondError(c, apperrors.NewInternalError("failed to list ballots", err))
		return
	}
	if ballots == nil {
		ballots = []database.Ballot{}
	}
	c.JSON(http.StatusOK, ballots)
}

// handleStats reports roll size, ballot count and the last run's stats
//
// @Summary Service statistics
// @Tags system
// @Success 200 {object} map[string]interface{}
// @Router /api/stats [get]
func (s *Server) handleStats(c *gin.Context) {
	rollSize, err := s.votersDB.CountVoterRecords()
	if err != nil {
		s.respondError(c, apperrors.NewInternalError("failed to count voter records", err))
		return
	}
	ballotCount, err := s.serviceDB.CountBallots()
	if err != nil {
		s.respondError(c, apperrors.NewInternalError("failed to count ballots", err))
		return
	}

	stats := gin.H{
		"roll_size":    rollSize,
		"ballot_count": ballotCount,
	}
	if session := s.LastRun(); session != nil {
		stats["last_run"] = gin.H{
			"run_id":      session.RunID,
			"ballot":      session.Ballot,
			"finished_at": session.FinishedAt,
			"stats":       session.Stats,
		}
	} else if run, err := s.serviceDB.GetLastMatchRun(); err != nil {
		s.respondError(c, apperrors.NewInternalError("failed to load last match run", err))
		return
	} else if run != nil {
		lastRun := gin.H{
			"run_id":      run.ID,
			"ballot":      run.Ballot,
			"finished_at": run.FinishedAt,
			"status":      run.Status,
		}
		if run.StatsJSON != "" {
			lastRun["stats"] = json.RawMessage(run.StatsJSON)
		}
		stats["last_run"] = lastRun
	}
	c.JSON(http.StatusOK, stats)
}

// handleGetConfig returns the active configuration
//
// @Summary Get configuration
// @Tags config
// @Success 200 {object} config.Config
// @Router /api/config [get]
func (s *Server) handleGetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, s.Config())
}

// handleUpdateConfig replaces the active configuration and persists it with
// a history entry
//
// @Summary Update configuration
// @Tags config
// @Accept json
// @Param config body config.Config true "New configuration"
// @Success 200 {object} config.Config
// @Failure 400 {object} errors.AppError
// @Router /api/config [put]
func (s *Server) handleUpdateConfig(c *gin.Context) {
	var updated config.Config
	if err := c.ShouldBindJSON(&updated); err != nil {
		s.respondError(c, apperrors.NewValidationError("invalid config body", err))
		return
	}
	if err := updated.Validate(); err != nil {
		s.respondError(c, apperrors.NewValidationError(err.Error(), err))
		return
	}

	reason := c.DefaultQuery("reason", "updated via API")
	if err := updated.Save(s.serviceDB, middleware.GetRequestIDFromGin(c), reason); err != nil {
		s.respondError(c, apperrors.NewInternalError("failed to persist config", err))
		return
	}

	s.setConfig(&updated)
	LogInfo(c.Request.Context(), "Config updated", "reason", reason)
	c.JSON(http.StatusOK, s.Config())
}

// handleConfigHistory returns archived configuration versions
//
// @Summary Configuration history
// @Tags config
// @Param limit query int false "Max entries" default(20)
// @Success 200 {array} map[string]interface{}
// @Router /api/config/history [get]
func (s *Server) handleConfigHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	history, err := s.serviceDB.GetAppConfigHistory(limit)
	if err != nil {
		s.respondError(c, apperrors.NewInternalError("failed to load config history", err))
		return
	}
	if history == nil {
		history = []map[string]interface{}{}
	}
	c.JSON(http.StatusOK, history)
}
