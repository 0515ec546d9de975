package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

const (
  MediaTypePhoto = "photo"
  MediaTypeVideo = "video"
)

type DoorMedia struct {
  ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  JobID             uuid.UUID       `gorm:"type:uuid;not null;index" json:"job_id"`
  Job               *Job            `gorm:"constraint:OnDelete:CASCADE;foreignKey:JobID;references:ID" json:"job,omitempty"`
  DoorID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"door_id"`
  Door              *Door           `gorm:"constraint:OnDelete:CASCADE;foreignKey:DoorID;references:ID" json:"door,omitempty"`
  MediaType         string          `gorm:"column:media_type;not null" json:"media_type"`
  FilePath          string          `gorm:"column:file_path;not null" json:"file_path"`
  ThumbnailPath     string          `gorm:"column:thumbnail_path" json:"thumbnail_path,omitempty"`
  FileSize          int64           `gorm:"column:file_size;not null;default:0" json:"file_size"`
  UploadedBy        uuid.UUID       `gorm:"type:uuid;not null" json:"uploaded_by"`
  Metadata          datatypes.JSON  `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
  CreatedAt         time.Time       `gorm:"not null" json:"created_at"`
}

func (DoorMedia) TableName() string {
  return "door_media"
}
