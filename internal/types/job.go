package types

import (
  "time"
  "github.com/google/uuid"
)

type JobStatus string

const (
  JobStatusUnscheduled     JobStatus = "unscheduled"
  JobStatusScheduled       JobStatus = "scheduled"
  JobStatusInProgress      JobStatus = "in_progress"
  JobStatusCompleted       JobStatus = "completed"
  JobStatusCancelled       JobStatus = "cancelled"
  JobStatusWaitingForParts JobStatus = "waiting_for_parts"
  JobStatusOnHold          JobStatus = "on_hold"
)

var allJobStatuses = map[JobStatus]struct{}{
  JobStatusUnscheduled:     {},
  JobStatusScheduled:       {},
  JobStatusInProgress:      {},
  JobStatusCompleted:       {},
  JobStatusCancelled:       {},
  JobStatusWaitingForParts: {},
  JobStatusOnHold:          {},
}

func ParseJobStatus(s string) (JobStatus, bool) {
  status := JobStatus(s)
  _, ok := allJobStatuses[status]
  return status, ok
}

// CanSchedule reports whether a job in this status may be (re)scheduled for a date.
func (s JobStatus) CanSchedule() bool {
  switch s {
  case JobStatusUnscheduled, JobStatusScheduled, JobStatusOnHold, JobStatusWaitingForParts:
    return true
  }
  return false
}

// CanCancel reports whether a job in this status may transition to cancelled.
// Completed jobs stay completed; cancelling twice is handled as an idempotent no-op
// by the service layer.
func (s JobStatus) CanCancel() bool {
  return s != JobStatusCompleted && s != JobStatusCancelled
}

// CanStart reports whether a field worker may open a time session against this status.
func (s JobStatus) CanStart() bool {
  return s == JobStatusScheduled || s == JobStatusInProgress
}

type Job struct {
  ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  JobNumber         string          `gorm:"uniqueIndex;not null;column:job_number" json:"job_number"`
  BidID             uuid.UUID       `gorm:"type:uuid;not null;index" json:"bid_id"`
  Bid               *Bid            `gorm:"constraint:OnDelete:CASCADE;foreignKey:BidID;references:ID" json:"bid,omitempty"`
  Status            JobStatus       `gorm:"column:status;not null;default:'unscheduled'" json:"status"`
  ScheduledDate     *time.Time      `gorm:"column:scheduled_date;type:date;index" json:"scheduled_date,omitempty"`
  TruckAssignment   *string         `gorm:"column:truck_assignment;index" json:"truck_assignment,omitempty"`
  JobOrder          int             `gorm:"column:job_order;not null;default:0" json:"job_order"`
  IsVisible         bool            `gorm:"column:is_visible;not null;default:false" json:"is_visible"`
  MaterialReady     bool            `gorm:"column:material_ready;not null;default:false" json:"material_ready"`
  MaterialLocation  string          `gorm:"column:material_location" json:"material_location"`
  Region            string          `gorm:"column:region" json:"region"`
  JobScope          string          `gorm:"column:job_scope" json:"job_scope"`
  CreatedAt         time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt         time.Time       `gorm:"not null" json:"updated_at"`
}

func (Job) TableName() string {
  return "job"
}

// Assigned reports whether the job is on a truck at all. A null truck assignment
// means unassigned no matter what is_visible says.
func (j *Job) Assigned() bool {
  return j.TruckAssignment != nil && *j.TruckAssignment != ""
}

// VisibleTo reports whether a field device identified by truck may see this job
// on the given date.
func (j *Job) VisibleTo(truck string, date time.Time) bool {
  if !j.IsVisible || !j.Assigned() || j.ScheduledDate == nil {
    return false
  }
  if *j.TruckAssignment != truck {
    return false
  }
  return DateEqual(*j.ScheduledDate, date)
}

// NormalizeDate strips the time component, keeping the calendar day in UTC.
func NormalizeDate(t time.Time) time.Time {
  return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func DateEqual(a, b time.Time) bool {
  return NormalizeDate(a).Equal(NormalizeDate(b))
}
