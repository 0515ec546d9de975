package handlers

import (
  "context"
  "io"
  "net/http"
  "time"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/doorflow/doorflow-backend/internal/logger"
  "github.com/doorflow/doorflow-backend/internal/services"
)

const maxMediaUploadBytes = 200 << 20

type MobileHandler struct {
  log                 *logger.Logger
  feedService         services.MobileFeedService
  timeTrackingService services.TimeTrackingService
  completionService   services.CompletionService
  mediaService        services.MediaService
}

func NewMobileHandler(
  log *logger.Logger,
  feedService services.MobileFeedService,
  timeTrackingService services.TimeTrackingService,
  completionService services.CompletionService,
  mediaService services.MediaService,
) *MobileHandler {
  return &MobileHandler{
    log:                 log.With("handler", "MobileHandler"),
    feedService:         feedService,
    timeTrackingService: timeTrackingService,
    completionService:   completionService,
    mediaService:        mediaService,
  }
}

// GET /api/mobile/field-jobs?date=YYYY-MM-DD&truck=
func (mh *MobileHandler) FieldJobs(c *gin.Context) {
  date := time.Now()
  if dateStr := c.Query("date"); dateStr != "" {
    parsed, err := time.Parse("2006-01-02", dateStr)
    if err != nil {
      RespondError(c, http.StatusBadRequest, "validation_error", err)
      return
    }
    date = parsed
  }
  view, err := mh.feedService.FieldJobs(c.Request.Context(), date, c.Query("truck"))
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, view)
}

// GET /api/mobile/field-jobs/:id
func (mh *MobileHandler) FieldJobDetail(c *gin.Context) {
  jobID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "validation_error", err)
    return
  }
  view, err := mh.feedService.FieldJobDetail(c.Request.Context(), jobID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, view)
}

// POST /api/mobile/jobs/:id/start|pause|resume|complete
func (mh *MobileHandler) StartJob(c *gin.Context) {
  mh.fieldAction(c, mh.timeTrackingService.Start)
}

func (mh *MobileHandler) PauseJob(c *gin.Context) {
  mh.fieldAction(c, mh.timeTrackingService.Pause)
}

func (mh *MobileHandler) ResumeJob(c *gin.Context) {
  mh.fieldAction(c, mh.timeTrackingService.Resume)
}

func (mh *MobileHandler) CompleteJob(c *gin.Context) {
  mh.fieldAction(c, mh.timeTrackingService.Complete)
}

type fieldActionFunc func(ctx context.Context, jobID uuid.UUID, input services.FieldActionInput) (*services.FieldActionResult, error)

func (mh *MobileHandler) fieldAction(c *gin.Context, action fieldActionFunc) {
  jobID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "validation_error", err)
    return
  }
  var input services.FieldActionInput
  _ = c.ShouldBindJSON(&input)
  result, err := action(c.Request.Context(), jobID, input)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, result)
}

// POST /api/mobile/doors/:id/complete
func (mh *MobileHandler) CompleteDoor(c *gin.Context) {
  doorID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "validation_error", err)
    return
  }
  var input services.CompleteDoorInput
  if err := c.ShouldBindJSON(&input); err != nil {
    RespondError(c, http.StatusBadRequest, "validation_error", err)
    return
  }
  result, err := mh.completionService.CompleteDoor(c.Request.Context(), doorID, input)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, result)
}

// PUT /api/mobile/jobs/:id/line-items/:itemID/toggle
func (mh *MobileHandler) ToggleLineItem(c *gin.Context) {
  jobID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "validation_error", err)
    return
  }
  lineItemID, err := uuid.Parse(c.Param("itemID"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "validation_error", err)
    return
  }
  result, err := mh.completionService.ToggleLineItem(c.Request.Context(), jobID, lineItemID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, result)
}

// POST /api/mobile/doors/:id/media/upload
func (mh *MobileHandler) UploadDoorMedia(c *gin.Context) {
  doorID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "validation_error", err)
    return
  }
  jobID, err := uuid.Parse(c.PostForm("job_id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "validation_error", err)
    return
  }

  fileHeader, err := c.FormFile("file")
  if err != nil {
    RespondError(c, http.StatusBadRequest, "validation_error", err)
    return
  }
  if fileHeader.Size > maxMediaUploadBytes {
    RespondError(c, http.StatusBadRequest, "validation_error", io.ErrShortBuffer)
    return
  }
  file, err := fileHeader.Open()
  if err != nil {
    RespondError(c, http.StatusBadRequest, "validation_error", err)
    return
  }
  defer file.Close()
  data, err := io.ReadAll(file)
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "internal_error", err)
    return
  }

  media, err := mh.mediaService.UploadDoorMedia(c.Request.Context(), doorID, services.UploadMediaInput{
    JobID:       jobID,
    MediaType:   c.PostForm("media_type"),
    FileName:    fileHeader.Filename,
    ContentType: fileHeader.Header.Get("Content-Type"),
    Data:        data,
  })
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"media_id": media.ID, "thumbnail": media.ThumbnailPath != ""})
}

// GET /api/mobile/jobs/:id/time-tracking
func (mh *MobileHandler) TimeTracking(c *gin.Context) {
  jobID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "validation_error", err)
    return
  }
  summary, err := mh.timeTrackingService.Summary(c.Request.Context(), jobID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, summary)
}
