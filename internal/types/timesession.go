package types

import (
  "time"
  "github.com/google/uuid"
)

type SessionStatus string

const (
  SessionStatusActive    SessionStatus = "active"
  SessionStatusPaused    SessionStatus = "paused"
  SessionStatusCompleted SessionStatus = "completed"
)

type TimingStatus string

const (
  TimingNotStarted TimingStatus = "not_started"
  TimingStarted    TimingStatus = "started"
  TimingPaused     TimingStatus = "paused"
  TimingCompleted  TimingStatus = "completed"
)

type TimeTrackingSession struct {
  ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  JobID             uuid.UUID       `gorm:"type:uuid;not null;index;index:idx_one_active_session,unique,where:status = 'active'" json:"job_id"`
  Job               *Job            `gorm:"constraint:OnDelete:CASCADE;foreignKey:JobID;references:ID" json:"job,omitempty"`
  UserID            uuid.UUID       `gorm:"type:uuid;not null;index;index:idx_one_active_session,unique" json:"user_id"`
  User              *User           `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  Status            SessionStatus   `gorm:"column:status;not null;default:'active'" json:"status"`
  StartTime         time.Time       `gorm:"column:start_time;not null" json:"start_time"`
  EndTime           *time.Time      `gorm:"column:end_time" json:"end_time,omitempty"`
  DurationMinutes   float64         `gorm:"column:duration_minutes;not null;default:0" json:"duration_minutes"`
  CreatedAt         time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt         time.Time       `gorm:"not null" json:"updated_at"`
}

func (TimeTrackingSession) TableName() string {
  return "time_tracking_session"
}

func (s *TimeTrackingSession) IsActive() bool {
  return s.Status == SessionStatusActive
}

// Close stamps the end time and computed duration. The status is supplied by the
// caller (paused or completed); active sessions are the only ones that close.
func (s *TimeTrackingSession) Close(status SessionStatus, now time.Time) {
  s.Status = status
  s.EndTime = &now
  s.DurationMinutes = now.Sub(s.StartTime).Minutes()
}

// DeriveTimingStatus reduces a session log to the job-level timing status.
// Sessions must be ordered by start time ascending. The most recent session wins:
// active means started, paused means paused; otherwise the job counts as completed
// if any session ever completed, and not started if the log is empty.
func DeriveTimingStatus(sessions []*TimeTrackingSession) TimingStatus {
  if len(sessions) == 0 {
    return TimingNotStarted
  }
  latest := sessions[len(sessions)-1]
  switch latest.Status {
  case SessionStatusActive:
    return TimingStarted
  case SessionStatusPaused:
    return TimingPaused
  }
  for _, s := range sessions {
    if s.Status == SessionStatusCompleted {
      return TimingCompleted
    }
  }
  return TimingNotStarted
}

// TotalMinutes sums closed-session durations across all users plus the live
// elapsed time of any still-active session. Concurrent sessions from different
// workers sum linearly.
func TotalMinutes(sessions []*TimeTrackingSession, now time.Time) float64 {
  var total float64
  for _, s := range sessions {
    if s.IsActive() {
      total += now.Sub(s.StartTime).Minutes()
      continue
    }
    total += s.DurationMinutes
  }
  return total
}
