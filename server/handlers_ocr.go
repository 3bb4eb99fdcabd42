package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"petitionserver/database"
	"petitionserver/matching"
	apperrors "petitionserver/server/errors"
)

// handleRunOCR runs the full pipeline against the uploaded petition: OCR
// extraction, roll snapshot, matching, aggregation. The result table and
// stats are returned and retained for export.
//
// @Summary Run petition matching
// @Tags ocr
// @Success 200 {object} server.RunSession
// @Failure 409 {object} errors.AppError
// @Failure 422 {object} errors.AppError
// @Router /api/ocr [post]
func (s *Server) handleRunOCR(c *gin.Context) {
	s.ocrMu.Lock()
	if s.ocrActive {
		s.ocrMu.Unlock()
		s.respondError(c, apperrors.NewConflictError("a matching run is already in progress", nil))
		return
	}
	s.ocrActive = true
	s.ocrMu.Unlock()
	defer func() {
		s.ocrMu.Lock()
		s.ocrActive = false
		s.ocrMu.Unlock()
	}()

	petition, ok := s.getUpload(uploadKindPetition)
	if !ok {
		s.respondError(c, apperrors.NewValidationError("no petition uploaded", nil))
		return
	}

	runID, err := s.serviceDB.StartMatchRun(petition)
	if err != nil {
		s.respondError(c, apperrors.NewInternalError("failed to start match run", err))
		return
	}

	session, err := s.runPipeline(c, runID, petition)
	if err != nil {
		if dbErr := s.serviceDB.FinishMatchRun(runID, database.RunStatusFailed, ""); dbErr != nil {
			LogError(c.Request.Context(), dbErr, "Failed to mark run as failed", "run_id", runID)
		}
		s.respondError(c, err)
		return
	}

	// The run is done either way; a stats serialization failure must not
	// leave the audit row stuck in running
	statsJSON, marshalErr := json.Marshal(session.Stats)
	if marshalErr != nil {
		LogError(c.Request.Context(), marshalErr, "Failed to serialize run stats", "run_id", runID)
		statsJSON = nil
	}
	if dbErr := s.serviceDB.FinishMatchRun(runID, database.RunStatusDone, string(statsJSON)); dbErr != nil {
		LogError(c.Request.Context(), dbErr, "Failed to finish run", "run_id", runID)
	}

	s.setLastRun(session)
	c.JSON(http.StatusOK, gin.H{"data": session.Results, "stats": session.Stats})
}

// runPipeline executes extraction and matching for one run
func (s *Server) runPipeline(c *gin.Context, runID, petition string) (*RunSession, error) {
	ctx := c.Request.Context()
	started := time.Now()
	cfg := s.Config()

	s.events.Publish(matching.ProgressEvent{Stage: "extracting", Message: petition})
	signatures, err := s.extractor.Extract(ctx, cfg.TempDir, petition)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to extract signatures", err)
	}
	LogInfo(ctx, "Signatures extracted", "run_id", runID, "count", len(signatures))

	roll, err := s.votersDB.ListVoterRecords()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to snapshot voter roll", err)
	}

	events := make(chan matching.ProgressEvent, cfg.LogBufferSize)
	forwardDone := make(chan struct{})
	go func() {
		defer close(forwardDone)
		for ev := range events {
			s.events.Publish(ev)
		}
	}()

	pipeline := matching.NewPipeline(cfg.MatchingConfig(), events)
	results, stats, err := pipeline.Run(signatures, roll)
	close(events)
	<-forwardDone

	if err == matching.ErrRosterEmpty {
		return nil, &apperrors.AppError{
			Code:    http.StatusUnprocessableEntity,
			Message: "voter roll is empty, upload a roll before matching",
			Err:     err,
		}
	}
	if err != nil {
		return nil, apperrors.NewInternalError("matching run failed", err)
	}

	LogInfo(ctx, "Matching run finished",
		"run_id", runID,
		"total", stats.Total,
		"matched", stats.Matched,
		"unmatched", stats.Unmatched,
		"ambiguous", stats.Ambiguous,
	)

	return &RunSession{
		RunID:      runID,
		Ballot:     petition,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Results:    results,
		Stats:      stats,
	}, nil
}

// handleOCRLogs streams pipeline progress events over SSE
//
// @Summary Stream matching progress
// @Tags ocr
// @Produce text/event-stream
// @Success 200 {string} string "SSE stream"
// @Router /api/ocr/logs [get]
func (s *Server) handleOCRLogs(c *gin.Context) {
	w := c.Writer
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondError(c, apperrors.NewInternalError("streaming not supported", nil))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if _, err := fmt.Fprintf(w, "data: %s\n\n", `{"type":"connected"}`); err != nil {
		return
	}
	flusher.Flush()

	events := s.events.Subscribe()
	defer s.events.Unsubscribe(events)

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return

		case ev, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()

		case <-heartbeat.C:
			if _, err := fmt.Fprintf(w, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// exportHeader column layout of the result worksheet
var exportHeader = []string{
	"Page", "Line", "First Name", "Last Name", "Street Number",
	"Street Name", "Street Type", "Street Dir", "Decision", "Voter ID", "Score",
}

// handleOCRExport exports the retained run as an XLSX workbook
//
// @Summary Export last run results
// @Tags ocr
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Failure 404 {object} errors.AppError
// @Router /api/ocr/export [get]
func (s *Server) handleOCRExport(c *gin.Context) {
	session := s.LastRun()
	if session == nil {
		s.respondError(c, apperrors.NewNotFoundError("no matching run to export", nil))
		return
	}

	book := excelize.NewFile()
	defer book.Close()

	sheet := "Results"
	book.SetSheetName(book.GetSheetName(0), sheet)

	for i, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		book.SetCellValue(sheet, cell, title)
	}

	for rowIdx, res := range session.Results {
		sig := res.Signature
		values := []interface{}{
			sig.Page, sig.Line,
			sig.FirstName, sig.LastName, sig.StreetNumber,
			sig.StreetName, sig.StreetType, sig.StreetDirSuffix,
			string(res.Decision), res.VoterID, res.Score,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			book.SetCellValue(sheet, cell, v)
		}
	}

	name := fmt.Sprintf("match_results_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := book.Write(c.Writer); err != nil {
		LogError(c.Request.Context(), err, "Failed to write export")
	}
}
