package types

import (
  "time"
  "github.com/google/uuid"
)

const (
  LineItemCategoryMaterial = "material"
  LineItemCategoryLabor    = "labor"
  LineItemCategoryHardware = "hardware"
)

type Door struct {
  ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  BidID             uuid.UUID       `gorm:"type:uuid;not null;index" json:"bid_id"`
  Location          string          `gorm:"column:location" json:"location"`
  DoorType          string          `gorm:"column:door_type" json:"door_type"`
  Width             float64         `gorm:"column:width;not null;default:0" json:"width"`
  Height            float64         `gorm:"column:height;not null;default:0" json:"height"`
  LineItems         []*DoorLineItem `gorm:"foreignKey:DoorID;references:ID" json:"line_items,omitempty"`
  CreatedAt         time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt         time.Time       `gorm:"not null" json:"updated_at"`
}

func (Door) TableName() string {
  return "door"
}

type DoorLineItem struct {
  ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  DoorID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"door_id"`
  Door              *Door           `gorm:"constraint:OnDelete:CASCADE;foreignKey:DoorID;references:ID" json:"door,omitempty"`
  Category          string          `gorm:"column:category;not null" json:"category"`
  Description       string          `gorm:"column:description" json:"description"`
  Quantity          int             `gorm:"column:quantity;not null;default:1" json:"quantity"`
  UnitPrice         float64         `gorm:"column:unit_price;not null;default:0" json:"unit_price"`
  CreatedAt         time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt         time.Time       `gorm:"not null" json:"updated_at"`
}

func (DoorLineItem) TableName() string {
  return "door_line_item"
}
