package types

import (
  "time"
  "github.com/google/uuid"
)

type Customer struct {
  ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  Name              string          `gorm:"not null;column:name" json:"name"`
  ContactName       string          `gorm:"column:contact_name" json:"contact_name"`
  Phone             string          `gorm:"column:phone" json:"phone"`
  Email             string          `gorm:"column:email" json:"email"`
  CreatedAt         time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt         time.Time       `gorm:"not null" json:"updated_at"`
}

func (Customer) TableName() string {
  return "customer"
}

type Site struct {
  ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  CustomerID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
  Customer          *Customer       `gorm:"constraint:OnDelete:CASCADE;foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
  Name              string          `gorm:"column:name" json:"name"`
  Address           string          `gorm:"column:address" json:"address"`
  ContactName       string          `gorm:"column:contact_name" json:"contact_name"`
  ContactPhone      string          `gorm:"column:contact_phone" json:"contact_phone"`
  CreatedAt         time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt         time.Time       `gorm:"not null" json:"updated_at"`
}

func (Site) TableName() string {
  return "site"
}
