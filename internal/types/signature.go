package types

import (
  "time"
  "github.com/google/uuid"
)

type SignatureType string

const (
  SignatureStart           SignatureType = "start"
  SignaturePause           SignatureType = "pause"
  SignatureResume          SignatureType = "resume"
  SignatureDoorComplete    SignatureType = "door_complete"
  SignatureFinalCompletion SignatureType = "final_completion"
)

type JobSignature struct {
  ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  JobID             uuid.UUID       `gorm:"type:uuid;not null;index;index:idx_door_complete_once,unique,where:signature_type = 'door_complete'" json:"job_id"`
  Job               *Job            `gorm:"constraint:OnDelete:CASCADE;foreignKey:JobID;references:ID" json:"job,omitempty"`
  DoorID            *uuid.UUID      `gorm:"type:uuid;index;index:idx_door_complete_once,unique" json:"door_id,omitempty"`
  SignatureType     SignatureType   `gorm:"column:signature_type;not null" json:"signature_type"`
  SignatureData     string          `gorm:"column:signature_data;type:text;not null" json:"-"`
  SignerName        string          `gorm:"column:signer_name" json:"signer_name"`
  SignerTitle       string          `gorm:"column:signer_title" json:"signer_title"`
  SignedBy          uuid.UUID       `gorm:"type:uuid;not null" json:"signed_by"`
  CreatedAt         time.Time       `gorm:"not null" json:"created_at"`
}

func (JobSignature) TableName() string {
  return "job_signature"
}
