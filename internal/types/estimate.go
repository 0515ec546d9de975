package types

import (
  "time"
  "github.com/google/uuid"
)

type Estimate struct {
  ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  CustomerID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
  Customer          *Customer       `gorm:"constraint:OnDelete:CASCADE;foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
  SiteID            *uuid.UUID      `gorm:"type:uuid;index" json:"site_id,omitempty"`
  Site              *Site           `gorm:"constraint:OnDelete:SET NULL;foreignKey:SiteID;references:ID" json:"site,omitempty"`
  EstimatedHours    float64         `gorm:"column:estimated_hours;not null;default:0" json:"estimated_hours"`
  Status            string          `gorm:"column:status;not null;default:'draft'" json:"status"`
  CreatedAt         time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt         time.Time       `gorm:"not null" json:"updated_at"`
}

func (Estimate) TableName() string {
  return "estimate"
}
