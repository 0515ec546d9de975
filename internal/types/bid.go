package types

import (
  "time"
  "github.com/google/uuid"
)

const (
  BidStatusPending  = "pending"
  BidStatusApproved = "approved"
  BidStatusRejected = "rejected"
)

type Bid struct {
  ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  EstimateID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"estimate_id"`
  Estimate          *Estimate       `gorm:"constraint:OnDelete:CASCADE;foreignKey:EstimateID;references:ID" json:"estimate,omitempty"`
  Status            string          `gorm:"column:status;not null;default:'pending'" json:"status"`
  ApprovedAt        *time.Time      `gorm:"column:approved_at" json:"approved_at,omitempty"`
  Doors             []*Door         `gorm:"foreignKey:BidID;references:ID" json:"doors,omitempty"`
  CreatedAt         time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt         time.Time       `gorm:"not null" json:"updated_at"`
}

func (Bid) TableName() string {
  return "bid"
}
