package server

import (
	"encoding/csv"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"petitionserver/matching"
	apperrors "petitionserver/server/errors"
)

// rollColumns required header columns of a voter roll upload, in canonical
// order
var rollColumns = []string{
	"First_Name", "Last_Name", "Street_Number",
	"Street_Name", "Street_Type", "Street_Dir_Suffix",
}

// handleUploadVoterRecords ingests a voter roll file (CSV or XLSX) into the
// roll database
//
// @Summary Upload voter roll
// @Tags upload
// @Accept multipart/form-data
// @Param file formData file true "Roll file (.csv or .xlsx)"
// @Success 200 {object} database.ImportStats
// @Failure 400 {object} errors.AppError
// @Router /api/upload/voter_records [post]
func (s *Server) handleUploadVoterRecords(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		s.respondError(c, apperrors.NewValidationError("missing file field", err))
		return
	}

	records, err := parseRollFile(fileHeader)
	if err != nil {
		s.respondError(c, apperrors.WrapError(err, "parse roll upload"))
		return
	}

	stats, err := s.votersDB.ImportVoterRecords(records)
	if err != nil {
		s.respondError(c, apperrors.NewInternalError("failed to import voter records", err))
		return
	}

	if err := s.storeUpload(fileHeader, uploadKindRoll); err != nil {
		LogWarn(c.Request.Context(), "Failed to retain roll upload", "error", err)
	}

	LogInfo(c.Request.Context(), "Voter roll imported",
		"file", fileHeader.Filename,
		"inserted", stats.Inserted,
		"duplicates", stats.Duplicates,
		"errors", stats.Errors,
	)
	c.JSON(http.StatusOK, stats)
}

// handleUploadPetition stores an uploaded petition PDF into the temp
// directory, replacing any previous petition, and records the ballot
//
// @Summary Upload petition document
// @Tags upload
// @Accept multipart/form-data
// @Param file formData file true "Petition file (.pdf)"
// @Success 200 {object} database.Ballot
// @Failure 400 {object} errors.AppError
// @Router /api/upload/petition_signatures [post]
func (s *Server) handleUploadPetition(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		s.respondError(c, apperrors.NewValidationError("missing file field", err))
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".pdf") {
		s.respondError(c, apperrors.NewValidationError("petition upload must be a PDF", nil))
		return
	}

	// One petition at a time: a stale document must never feed the next
	// run
	if prev, ok := s.getUpload(uploadKindPetition); ok {
		os.Remove(filepath.Join(s.Config().TempDir, prev))
	}

	if err := s.storeUpload(fileHeader, uploadKindPetition); err != nil {
		s.respondError(c, apperrors.NewInternalError("failed to store petition", err))
		return
	}

	ballot, err := s.serviceDB.RecordBallot(fileHeader.Filename)
	if err != nil {
		s.respondError(c, apperrors.NewInternalError("failed to record ballot", err))
		return
	}

	LogInfo(c.Request.Context(), "Petition uploaded", "file", fileHeader.Filename, "ballot_id", ballot.ID)
	c.JSON(http.StatusOK, ballot)
}

// handleGetUpload returns a previously stored upload
//
// @Summary Download stored upload
// @Tags upload
// @Param filetype path string true "voter_records or petition_signatures"
// @Success 200 {file} binary
// @Failure 404 {object} errors.AppError
// @Router /api/upload/{filetype} [get]
func (s *Server) handleGetUpload(c *gin.Context) {
	kind := c.Param("filetype")
	if kind != uploadKindRoll && kind != uploadKindPetition {
		s.respondError(c, apperrors.NewValidationError(fmt.Sprintf("unknown upload kind %q", kind), nil))
		return
	}

	name, ok := s.getUpload(kind)
	if !ok {
		s.respondError(c, apperrors.NewNotFoundError(fmt.Sprintf("no %s upload stored", kind), nil))
		return
	}
	c.FileAttachment(filepath.Join(s.Config().TempDir, name), name)
}

// handleClear drops stored uploads and the retained run session
//
// @Summary Clear uploads and last run
// @Tags upload
// @Success 200 {object} map[string]string
// @Router /api/clear [delete]
func (s *Server) handleClear(c *gin.Context) {
	if err := os.RemoveAll(s.Config().TempDir); err != nil {
		s.respondError(c, apperrors.NewInternalError("failed to clear temp directory", err))
		return
	}
	s.clearUploads()
	s.setLastRun(nil)

	LogInfo(c.Request.Context(), "Uploads and run session cleared")
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// storeUpload saves a multipart file into the temp directory under its
// original base name
func (s *Server) storeUpload(fileHeader *multipart.FileHeader, kind string) error {
	tempDir := s.Config().TempDir
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}

	name := filepath.Base(fileHeader.Filename)
	dst := filepath.Join(tempDir, name)

	src, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}

	s.setUpload(kind, name)
	return nil
}

// parseRollFile parses a roll upload into identity records based on its
// extension
func parseRollFile(fileHeader *multipart.FileHeader) ([]matching.IdentityRecord, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".csv":
		return parseRollCSV(src)
	case ".xlsx":
		return parseRollXLSX(src)
	default:
		return nil, apperrors.NewValidationError("roll upload must be .csv or .xlsx", nil)
	}
}

// parseRollCSV reads a CSV roll with the canonical header columns
func parseRollCSV(r io.Reader) ([]matching.IdentityRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewValidationError("roll file is empty", err)
	}

	colIndex, err := rollHeaderIndex(header)
	if err != nil {
		return nil, err
	}

	var records []matching.IdentityRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewValidationError("malformed CSV row", err)
		}
		records = append(records, rollRecordFromRow(row, colIndex))
	}
	return records, nil
}

// parseRollXLSX reads the first sheet of an XLSX roll
func parseRollXLSX(r io.Reader) ([]matching.IdentityRecord, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewValidationError("failed to open XLSX file", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewValidationError("XLSX file has no sheets", nil)
	}

	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewValidationError("roll file is empty", nil)
	}

	colIndex, err := rollHeaderIndex(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]matching.IdentityRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, rollRecordFromRow(row, colIndex))
	}
	return records, nil
}

// rollHeaderIndex maps the canonical columns to their positions, rejecting
// uploads that miss any of them
func rollHeaderIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}

	var missing []string
	for _, col := range rollColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("roll file is missing columns: %s", strings.Join(missing, ", ")), nil)
	}
	return index, nil
}

func rollRecordFromRow(row []string, colIndex map[string]int) matching.IdentityRecord {
	cell := func(col string) string {
		i := colIndex[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	return matching.IdentityRecord{
		FirstName:       cell("First_Name"),
		LastName:        cell("Last_Name"),
		StreetNumber:    cell("Street_Number"),
		StreetName:      cell("Street_Name"),
		StreetType:      cell("Street_Type"),
		StreetDirSuffix: cell("Street_Dir_Suffix"),
	}
}
