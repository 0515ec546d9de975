package services

import (
  "context"
  "encoding/json"
  "fmt"
  "path"
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/doorflow/doorflow-backend/internal/apierr"
  "github.com/doorflow/doorflow-backend/internal/logger"
  "github.com/doorflow/doorflow-backend/internal/repos"
  "github.com/doorflow/doorflow-backend/internal/types"
)

type UploadMediaInput struct {
  JobID       uuid.UUID
  MediaType   string
  FileName    string
  ContentType string
  Data        []byte
}

type MediaService interface {
  UploadDoorMedia(ctx context.Context, doorID uuid.UUID, input UploadMediaInput) (*types.DoorMedia, error)
}

type mediaService struct {
  db        *gorm.DB
  log       *logger.Logger
  jobRepo   repos.JobRepo
  mediaRepo repos.DoorMediaRepo
  store     MediaStore
  now       func() time.Time
}

func NewMediaService(db *gorm.DB, baseLog *logger.Logger, jobRepo repos.JobRepo, mediaRepo repos.DoorMediaRepo, store MediaStore) MediaService {
  serviceLog := baseLog.With("service", "MediaService")
  return &mediaService{
    db:        db,
    log:       serviceLog,
    jobRepo:   jobRepo,
    mediaRepo: mediaRepo,
    store:     store,
    now:       time.Now,
  }
}

// UploadDoorMedia stores one photo or video under a job/door scoped key and
// records it. Photo thumbnails are best effort: a failed thumbnail is logged
// and the upload still succeeds.
func (ms *mediaService) UploadDoorMedia(ctx context.Context, doorID uuid.UUID, input UploadMediaInput) (*types.DoorMedia, error) {
  rd, err := requireRequestData(ctx)
  if err != nil {
    return nil, err
  }
  if input.JobID == uuid.Nil {
    return nil, apierr.Validation("job_id is required for media upload")
  }
  if input.MediaType != types.MediaTypePhoto && input.MediaType != types.MediaTypeVideo {
    return nil, apierr.Validation("media_type must be photo or video, got %q", input.MediaType)
  }
  if len(input.Data) == 0 {
    return nil, apierr.Validation("Uploaded file is empty")
  }

  var media *types.DoorMedia
  err = ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    job, err := ms.jobRepo.GetByIDFull(ctx, tx, input.JobID)
    if err != nil {
      return apierr.Internal(fmt.Errorf("Failed to fetch job: %w", err))
    }
    if job == nil {
      return apierr.NotFound("Job %s not found", input.JobID)
    }
    if err := authorizeJobAccess(rd, job); err != nil {
      return err
    }

    doorOK := false
    if job.Bid != nil {
      for _, door := range job.Bid.Doors {
        if door.ID == doorID {
          doorOK = true
          break
        }
      }
    }
    if !doorOK {
      return apierr.Conflict("Door %s does not belong to job %s", doorID, job.JobNumber)
    }

    mediaID := uuid.New()
    ext := path.Ext(input.FileName)
    if ext == "" {
      ext = ".bin"
    }
    key := fmt.Sprintf("jobs/%s/doors/%s/%s%s", job.ID, doorID, mediaID, ext)

    filePath, err := ms.store.Save(key, input.Data)
    if err != nil {
      return apierr.Internal(fmt.Errorf("Failed to store media file: %w", err))
    }

    thumbPath := ""
    if input.MediaType == types.MediaTypePhoto {
      thumbKey := fmt.Sprintf("jobs/%s/doors/%s/%s_thumb.jpg", job.ID, doorID, mediaID)
      thumbPath, err = ms.store.SaveThumbnail(thumbKey, input.Data)
      if err != nil {
        ms.log.Warn("Thumbnail generation failed, keeping original upload", "error", err, "media_id", mediaID)
        thumbPath = ""
      }
    }

    meta, _ := json.Marshal(map[string]interface{}{
      "original_name": input.FileName,
      "content_type":  input.ContentType,
    })
    media = &types.DoorMedia{
      ID:            mediaID,
      JobID:         job.ID,
      DoorID:        doorID,
      MediaType:     input.MediaType,
      FilePath:      filePath,
      ThumbnailPath: thumbPath,
      FileSize:      int64(len(input.Data)),
      UploadedBy:    rd.UserID,
      Metadata:      datatypes.JSON(meta),
    }
    if _, err := ms.mediaRepo.Create(ctx, tx, []*types.DoorMedia{media}); err != nil {
      return apierr.Internal(fmt.Errorf("Failed to record media upload: %w", err))
    }
    ms.log.Info("Door media uploaded", "media_id", mediaID, "job_id", job.ID, "door_id", doorID, "size", media.FileSize)
    return nil
  })
  if err != nil {
    return nil, err
  }
  return media, nil
}
