package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"petitionserver/database"
	"petitionserver/matching"
	apperrors "petitionserver/server/errors"
)

// voterRecordRequest request body for creating or updating a voter record
type voterRecordRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	StreetNumber    string `json:"street_number"`
	StreetName      string `json:"street_name"`
	StreetType      string `json:"street_type"`
	StreetDirSuffix string `json:"street_dir_suffix"`
}

func (r voterRecordRequest) identity() matching.IdentityRecord {
	return matching.IdentityRecord{
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		StreetNumber:    r.StreetNumber,
		StreetName:      r.StreetName,
		StreetType:      r.StreetType,
		StreetDirSuffix: r.StreetDirSuffix,
	}
}

// handleListVoterRecords lists stored voter records, paged
//
// @Summary List voter records
// @Tags voters
// @Param limit query int false "Page size" default(100)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} database.VoterRow
// @Router /api/voter_records [get]
func (s *Server) handleListVoterRecords(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	rows, err := s.votersDB.ListVoterRows(limit, offset)
	if err != nil {
		s.respondError(c, apperrors.NewInternalError("failed to list voter records", err))
		return
	}
	if rows == nil {
		rows = []database.VoterRow{}
	}
	c.JSON(http.StatusOK, rows)
}

// handleCreateVoterRecord creates one voter record
//
// @Summary Create voter record
// @Tags voters
// @Accept json
// @Param record body voterRecordRequest true "Voter identity"
// @Success 201 {object} database.VoterRow
// @Failure 409 {object} errors.AppError
// @Router /api/voter_records [post]
func (s *Server) handleCreateVoterRecord(c *gin.Context) {
	var req voterRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.NewValidationError("invalid voter record body", err))
		return
	}
	if req.FirstName == "" && req.LastName == "" {
		s.respondError(c, apperrors.NewValidationError("voter record needs a name", nil))
		return
	}

	row, err := s.votersDB.CreateVoterRecord(req.identity(), "")
	if err == database.ErrDuplicateVoter {
		s.respondError(c, apperrors.NewConflictError("voter record already exists", err))
		return
	}
	if err != nil {
		s.respondError(c, apperrors.NewInternalError("failed to create voter record", err))
		return
	}
	c.JSON(http.StatusCreated, row)
}

// handleGetVoterRecord loads one voter record
//
// @Summary Get voter record
// @Tags voters
// @Param id path string true "Record id"
// @Success 200 {object} database.VoterRow
// @Failure 404 {object} errors.AppError
// @Router /api/voter_records/{id} [get]
func (s *Server) handleGetVoterRecord(c *gin.Context) {
	row, err := s.votersDB.GetVoterRecord(c.Param("id"))
	if err == database.ErrVoterNotFound {
		s.respondError(c, apperrors.NewNotFoundError("voter record not found", err))
		return
	}
	if err != nil {
		s.respondError(c, apperrors.NewInternalError("failed to load voter record", err))
		return
	}
	c.JSON(http.StatusOK, row)
}

// handleUpdateVoterRecord replaces the identity fields of a record
//
// @Summary Update voter record
// @Tags voters
// @Accept json
// @Param id path string true "Record id"
// @Param record body voterRecordRequest true "Voter identity"
// @Success 200 {object} database.VoterRow
// @Failure 404 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /api/voter_records/{id} [put]
func (s *Server) handleUpdateVoterRecord(c *gin.Context) {
	var req voterRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.NewValidationError("invalid voter record body", err))
		return
	}

	row, err := s.votersDB.UpdateVoterRecord(c.Param("id"), req.identity())
	switch err {
	case nil:
		c.JSON(http.StatusOK, row)
	case database.ErrVoterNotFound:
		s.respondError(c, apperrors.NewNotFoundError("voter record not found", err))
	case database.ErrDuplicateVoter:
		s.respondError(c, apperrors.NewConflictError("another record holds that identity", err))
	default:
		s.respondError(c, apperrors.NewInternalError("failed to update voter record", err))
	}
}

// handleDeleteVoterRecord removes one voter record
//
// @Summary Delete voter record
// @Tags voters
// @Param id path string true "Record id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.AppError
// @Router /api/voter_records/{id} [delete]
func (s *Server) handleDeleteVoterRecord(c *gin.Context) {
	err := s.votersDB.DeleteVoterRecord(c.Param("id"))
	if err == database.ErrVoterNotFound {
		s.respondError(c, apperrors.NewNotFoundError("voter record not found", err))
		return
	}
	if err != nil {
		s.respondError(c, apperrors.NewInternalError("failed to delete voter record", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
