package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/doorflow/doorflow-backend/internal/logger"
  "github.com/doorflow/doorflow-backend/internal/services"
)

type JobHandler struct {
  log        *logger.Logger
  jobService services.JobService
}

func NewJobHandler(log *logger.Logger, jobService services.JobService) *JobHandler {
  return &JobHandler{
    log:        log.With("handler", "JobHandler"),
    jobService: jobService,
  }
}

// POST /api/bids/:id/approve
func (jh *JobHandler) ApproveBid(c *gin.Context) {
  bidID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "validation_error", err)
    return
  }
  job, err := jh.jobService.ApproveBid(c.Request.Context(), bidID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"id": job.ID, "job_number": job.JobNumber, "status": job.Status})
}

// POST /api/jobs/:id/schedule
func (jh *JobHandler) ScheduleJob(c *gin.Context) {
  jobID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "validation_error", err)
    return
  }
  var input services.ScheduleJobInput
  if err := c.ShouldBindJSON(&input); err != nil {
    RespondError(c, http.StatusBadRequest, "validation_error", err)
    return
  }
  view, err := jh.jobService.ScheduleJob(c.Request.Context(), jobID, input)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, view)
}

type setStatusRequest struct {
  Status string `json:"status" binding:"required"`
}

// PUT /api/jobs/:id/status
func (jh *JobHandler) SetStatus(c *gin.Context) {
  jobID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "validation_error", err)
    return
  }
  var req setStatusRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "validation_error", err)
    return
  }
  view, err := jh.jobService.SetStatus(c.Request.Context(), jobID, req.Status)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, view)
}

type cancelRequest struct {
  Reason string `json:"reason"`
}

// POST /api/jobs/:id/cancel
func (jh *JobHandler) CancelJob(c *gin.Context) {
  jobID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "validation_error", err)
    return
  }
  var req cancelRequest
  _ = c.ShouldBindJSON(&req)
  result, err := jh.jobService.CancelJob(c.Request.Context(), jobID, req.Reason)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, result)
}
