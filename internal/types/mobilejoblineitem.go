package types

import (
  "time"
  "github.com/google/uuid"
)

type MobileJobLineItem struct {
  ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  JobID             uuid.UUID       `gorm:"type:uuid;not null;index:idx_job_line_item,unique" json:"job_id"`
  Job               *Job            `gorm:"constraint:OnDelete:CASCADE;foreignKey:JobID;references:ID" json:"job,omitempty"`
  LineItemID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_job_line_item,unique" json:"line_item_id"`
  LineItem          *DoorLineItem   `gorm:"constraint:OnDelete:CASCADE;foreignKey:LineItemID;references:ID" json:"line_item,omitempty"`
  Completed         bool            `gorm:"column:completed;not null;default:false" json:"completed"`
  CompletedAt       *time.Time      `gorm:"column:completed_at" json:"completed_at,omitempty"`
  CompletedBy       *uuid.UUID      `gorm:"type:uuid;column:completed_by" json:"completed_by,omitempty"`
  CreatedAt         time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt         time.Time       `gorm:"not null" json:"updated_at"`
}

func (MobileJobLineItem) TableName() string {
  return "mobile_job_line_item"
}

// MarkCompleted and MarkIncomplete keep the completed flag and its audit fields
// consistent: completed implies both are set, not completed implies both are null.
func (li *MobileJobLineItem) MarkCompleted(by uuid.UUID, at time.Time) {
  li.Completed = true
  li.CompletedAt = &at
  li.CompletedBy = &by
}

func (li *MobileJobLineItem) MarkIncomplete() {
  li.Completed = false
  li.CompletedAt = nil
  li.CompletedBy = nil
}
