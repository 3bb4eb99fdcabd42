// Package server exposes the petition matching pipeline over HTTP: roll and
// petition uploads, pipeline runs with live progress, result export and
// voter record administration.
package server

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"petitionserver/database"
	"petitionserver/internal/config"
	"petitionserver/matching"
	"petitionserver/ocr"
)

// uploadKindRoll and uploadKindPetition name the two accepted upload slots
const (
	uploadKindRoll     = "voter_records"
	uploadKindPetition = "petition_signatures"
)

// RunSession the retained outcome of the most recent pipeline run. A run
// builds a fresh session; concurrent reads see either the previous session
// or the new one, never a half-written mix.
type RunSession struct {
	RunID      string                 `json:"run_id"`
	Ballot     string                 `json:"ballot"`
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt time.Time              `json:"finished_at"`
	Results    []matching.MatchResult `json:"results"`
	Stats      matching.MatchStats    `json:"stats"`
}

// Server the HTTP server with its databases and the OCR collaborator
type Server struct {
	// config holds the active configuration snapshot; updates swap the
	// pointer so in-flight handlers keep a consistent view
	config    atomic.Pointer[config.Config]
	votersDB  *database.VotersDB
	serviceDB *database.ServiceDB
	extractor ocr.Extractor

	events     *eventBus
	httpServer *http.Server

	runMu   sync.RWMutex
	lastRun *RunSession

	// ocrMu serializes pipeline runs; a second POST while one is in
	// flight is rejected, not queued
	ocrMu     sync.Mutex
	ocrActive bool

	// uploads maps upload kind to the stored file name inside TempDir
	uploadsMu sync.Mutex
	uploads   map[string]string
}

// NewServer creates the server with the given configuration and opened
// databases
func NewServer(cfg *config.Config, votersDB *database.VotersDB, serviceDB *database.ServiceDB, extractor ocr.Extractor) *Server {
	s := &Server{
		votersDB:  votersDB,
		serviceDB: serviceDB,
		extractor: extractor,
		events:    newEventBus(cfg.LogBufferSize),
		uploads:   make(map[string]string),
	}
	s.config.Store(cfg)
	return s
}

// Config returns the active configuration snapshot. Callers must not
// mutate it; updates install a fresh snapshot via setConfig.
func (s *Server) Config() *config.Config {
	return s.config.Load()
}

func (s *Server) setConfig(cfg *config.Config) {
	s.config.Store(cfg)
}

func (s *Server) setUpload(kind, filename string) {
	s.uploadsMu.Lock()
	s.uploads[kind] = filename
	s.uploadsMu.Unlock()
}

func (s *Server) getUpload(kind string) (string, bool) {
	s.uploadsMu.Lock()
	defer s.uploadsMu.Unlock()
	name, ok := s.uploads[kind]
	return name, ok
}

func (s *Server) clearUploads() {
	s.uploadsMu.Lock()
	s.uploads = make(map[string]string)
	s.uploadsMu.Unlock()
}

// LastRun returns the most recent run session, or nil before the first run
func (s *Server) LastRun() *RunSession {
	s.runMu.RLock()
	defer s.runMu.RUnlock()
	return s.lastRun
}

func (s *Server) setLastRun(session *RunSession) {
	s.runMu.Lock()
	s.lastRun = session
	s.runMu.Unlock()
}
