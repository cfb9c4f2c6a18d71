// Package cron runs memegate's periodic maintenance: upload-session sweeps
// and meme library audits.
package cron

import (
	cronlib "github.com/robfig/cron/v3"

	"github.com/Akuma-real/memegate/internal/emotion"
	. "github.com/Akuma-real/memegate/internal/logging"
	"github.com/Akuma-real/memegate/internal/memestore"
	"github.com/Akuma-real/memegate/internal/upload"
)

// Service schedules the maintenance jobs.
type Service struct {
	cron     *cronlib.Cron
	uploads  *upload.Manager
	memes    *memestore.Store
	registry *emotion.Registry
}

// NewService creates the maintenance service. Jobs run only after Start.
func NewService(uploads *upload.Manager, memes *memestore.Store, registry *emotion.Registry) *Service {
	return &Service{
		cron:     cronlib.New(),
		uploads:  uploads,
		memes:    memes,
		registry: registry,
	}
}

// Start registers and begins the schedules:
// every minute sweep expired upload sessions, hourly audit the library.
func (s *Service) Start() error {
	if _, err := s.cron.AddFunc("@every 1m", s.sweepSessions); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("@hourly", s.auditLibrary); err != nil {
		return err
	}

	s.cron.Start()
	L_info("cron: maintenance scheduled")
	return nil
}

// Stop halts the scheduler; running jobs finish.
func (s *Service) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	L_debug("cron: stopped")
}

func (s *Service) sweepSessions() {
	if removed := s.uploads.Sweep(); removed > 0 {
		L_debug("cron: swept expired upload sessions", "removed", removed)
	}
}

func (s *Service) auditLibrary() {
	s.memes.Audit(s.registry)
}
