// Package launchlog records one row per supervised backend launch, so a user
// (or support) can see when the backend was started and whether it was shut
// down by the launcher or left behind by a crash.
package launchlog

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Session is one backend launch, from spawn to the launcher's stop attempt.
type Session struct {
	ID        uint   `gorm:"primaryKey"`
	SessionID string `gorm:"uniqueIndex;size:64"`
	PID       int
	Command   string
	StartedAt time.Time
	StoppedAt *time.Time
	// StopReason is "quit" when the tray stopped the backend, empty while running.
	// A row with no StoppedAt from a previous run means the launcher died without quit.
	StopReason string `gorm:"size:32"`
}

// Store persists launch sessions.
type Store struct {
	db *DB
}

func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// RecordStart inserts a session row for a freshly spawned backend and returns
// the generated session id.
func (s *Store) RecordStart(pid int, command string) (string, error) {
	session := Session{
		SessionID: uuid.NewString(),
		PID:       pid,
		Command:   command,
		StartedAt: time.Now(),
	}
	if err := s.db.gorm.Create(&session).Error; err != nil {
		return "", err
	}
	return session.SessionID, nil
}

// RecordStop marks the session stopped with the given reason.
func (s *Store) RecordStop(sessionID, reason string) error {
	now := time.Now()
	return s.db.gorm.Model(&Session{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{
			"stopped_at":  &now,
			"stop_reason": reason,
		}).Error
}

// SummaryResult aggregates the launch history for display.
type SummaryResult struct {
	TotalSessions int64
	LastStartedAt *time.Time
}

// Summary returns the total number of recorded launches and the most recent
// start time. The two aggregates are independent queries, run in parallel.
func (s *Store) Summary() (*SummaryResult, error) {
	var (
		res SummaryResult
		g   errgroup.Group
	)

	g.Go(func() error {
		return s.db.gorm.Model(&Session{}).Count(&res.TotalSessions).Error
	})
	g.Go(func() error {
		var last Session
		err := s.db.gorm.Order("started_at DESC").Limit(1).Find(&last).Error
		if err != nil {
			return err
		}
		if last.SessionID != "" {
			res.LastStartedAt = &last.StartedAt
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &res, nil
}
