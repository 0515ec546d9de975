package services

import (
  "context"
  "fmt"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/doorflow/doorflow-backend/internal/apierr"
  "github.com/doorflow/doorflow-backend/internal/logger"
  "github.com/doorflow/doorflow-backend/internal/repos"
  "github.com/doorflow/doorflow-backend/internal/types"
)

type ScheduleJobInput struct {
  Date             string  `json:"date" binding:"required"`
  MaterialReady    *bool   `json:"material_ready,omitempty"`
  MaterialLocation *string `json:"material_location,omitempty"`
  Region           *string `json:"region,omitempty"`
  JobScope         *string `json:"job_scope,omitempty"`
}

type CancelJobResult struct {
  ID        uuid.UUID       `json:"id"`
  JobNumber string          `json:"job_number"`
  Status    types.JobStatus `json:"status"`
  Notice    string          `json:"notice,omitempty"`
}

type JobService interface {
  ApproveBid(ctx context.Context, bidID uuid.UUID) (*types.Job, error)
  ScheduleJob(ctx context.Context, jobID uuid.UUID, input ScheduleJobInput) (*JobView, error)
  SetStatus(ctx context.Context, jobID uuid.UUID, status string) (*JobView, error)
  CancelJob(ctx context.Context, jobID uuid.UUID, reason string) (*CancelJobResult, error)
  GetJob(ctx context.Context, jobID uuid.UUID) (*types.Job, error)
}

type jobService struct {
  db       *gorm.DB
  log      *logger.Logger
  jobRepo  repos.JobRepo
  bidRepo  repos.BidRepo
  doorRepo repos.DoorRepo
  sigRepo  repos.SignatureRepo
  now      func() time.Time
}

func NewJobService(db *gorm.DB, baseLog *logger.Logger, jobRepo repos.JobRepo, bidRepo repos.BidRepo, doorRepo repos.DoorRepo, sigRepo repos.SignatureRepo) JobService {
  serviceLog := baseLog.With("service", "JobService")
  return &jobService{
    db:       db,
    log:      serviceLog,
    jobRepo:  jobRepo,
    bidRepo:  bidRepo,
    doorRepo: doorRepo,
    sigRepo:  sigRepo,
    now:      time.Now,
  }
}

// ApproveBid flips a pending bid to approved and creates its job record with a
// freshly generated job number, status unscheduled.
func (js *jobService) ApproveBid(ctx context.Context, bidID uuid.UUID) (*types.Job, error) {
  var job *types.Job
  err := js.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    bid, err := js.bidRepo.GetByID(ctx, tx, bidID)
    if err != nil {
      return apierr.Internal(fmt.Errorf("Failed to fetch bid: %w", err))
    }
    if bid == nil {
      return apierr.NotFound("Bid %s not found", bidID)
    }
    if bid.Status == types.BidStatusApproved {
      return apierr.Conflict("Bid %s is already approved", bidID)
    }
    if bid.Status == types.BidStatusRejected {
      return apierr.Conflict("Bid %s was rejected and cannot be approved", bidID)
    }

    now := js.now()
    jobNumber, err := generateJobNumber(ctx, tx, js.jobRepo, now)
    if err != nil {
      return apierr.Internal(err)
    }

    bid.Status = types.BidStatusApproved
    bid.ApprovedAt = &now
    if err := js.bidRepo.Save(ctx, tx, bid); err != nil {
      return apierr.Internal(fmt.Errorf("Failed to approve bid: %w", err))
    }

    job = &types.Job{
      ID:        uuid.New(),
      JobNumber: jobNumber,
      BidID:     bid.ID,
      Status:    types.JobStatusUnscheduled,
    }
    if _, err := js.jobRepo.Create(ctx, tx, []*types.Job{job}); err != nil {
      return apierr.Internal(fmt.Errorf("Failed to create job: %w", err))
    }
    js.log.Info("Bid approved, job created", "bid_id", bid.ID, "job_id", job.ID, "job_number", jobNumber)
    return nil
  })
  if err != nil {
    return nil, err
  }
  return job, nil
}

func (js *jobService) ScheduleJob(ctx context.Context, jobID uuid.UUID, input ScheduleJobInput) (*JobView, error) {
  date, err := time.Parse("2006-01-02", input.Date)
  if err != nil {
    return nil, apierr.Validation("Date %q is not a valid YYYY-MM-DD date", input.Date)
  }
  scheduled := types.NormalizeDate(date)

  var view *JobView
  err = js.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    job, err := js.jobRepo.GetByIDFull(ctx, tx, jobID)
    if err != nil {
      return apierr.Internal(fmt.Errorf("Failed to fetch job: %w", err))
    }
    if job == nil {
      return apierr.NotFound("Job %s not found", jobID)
    }
    if !job.Status.CanSchedule() {
      return apierr.Conflict("Job %s cannot be scheduled from status %s", job.JobNumber, job.Status)
    }

    fields := map[string]interface{}{
      "scheduled_date": scheduled,
      "status":         types.JobStatusScheduled,
      "updated_at":     js.now(),
    }
    if input.MaterialReady != nil {
      fields["material_ready"] = *input.MaterialReady
    }
    if input.MaterialLocation != nil {
      fields["material_location"] = *input.MaterialLocation
    }
    if input.Region != nil {
      fields["region"] = *input.Region
    }
    if input.JobScope != nil {
      fields["job_scope"] = *input.JobScope
    }
    if err := js.jobRepo.UpdateFields(ctx, tx, job.ID, fields); err != nil {
      return apierr.Internal(fmt.Errorf("Failed to schedule job: %w", err))
    }

    updated, err := js.jobRepo.GetByIDFull(ctx, tx, job.ID)
    if err != nil {
      return apierr.Internal(err)
    }
    view = buildJobView(updated)
    js.log.Info("Job scheduled", "job_id", job.ID, "date", input.Date)
    return nil
  })
  if err != nil {
    return nil, err
  }
  return view, nil
}

// SetStatus is the dispatcher's manual override. It validates enum membership
// only; any enumerated status may be set directly.
func (js *jobService) SetStatus(ctx context.Context, jobID uuid.UUID, status string) (*JobView, error) {
  parsed, ok := types.ParseJobStatus(status)
  if !ok {
    return nil, apierr.Validation("Unknown job status %q", status)
  }

  var view *JobView
  err := js.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    job, err := js.jobRepo.GetByIDFull(ctx, tx, jobID)
    if err != nil {
      return apierr.Internal(fmt.Errorf("Failed to fetch job: %w", err))
    }
    if job == nil {
      return apierr.NotFound("Job %s not found", jobID)
    }

    if err := js.jobRepo.UpdateFields(ctx, tx, job.ID, map[string]interface{}{
      "status":     parsed,
      "updated_at": js.now(),
    }); err != nil {
      return apierr.Internal(fmt.Errorf("Failed to set job status: %w", err))
    }

    updated, err := js.jobRepo.GetByIDFull(ctx, tx, job.ID)
    if err != nil {
      return apierr.Internal(err)
    }
    view = buildJobView(updated)
    view.Doors, err = js.buildDoorViews(ctx, tx, updated)
    if err != nil {
      return apierr.Internal(err)
    }
    return nil
  })
  if err != nil {
    return nil, err
  }
  return view, nil
}

// CancelJob moves any non-completed job to cancelled, appending the reason to
// the job scope text. Cancelling an already-cancelled job succeeds with a
// notice so field retries after network loss stay cheap; cancelling a
// completed job is a conflict.
func (js *jobService) CancelJob(ctx context.Context, jobID uuid.UUID, reason string) (*CancelJobResult, error) {
  var result *CancelJobResult
  err := js.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    jobs, err := js.jobRepo.GetByIDs(ctx, tx, []uuid.UUID{jobID})
    if err != nil {
      return apierr.Internal(fmt.Errorf("Failed to fetch job: %w", err))
    }
    if len(jobs) == 0 {
      return apierr.NotFound("Job %s not found", jobID)
    }
    job := jobs[0]

    if job.Status == types.JobStatusCancelled {
      result = &CancelJobResult{
        ID:        job.ID,
        JobNumber: job.JobNumber,
        Status:    job.Status,
        Notice:    "Job was already cancelled",
      }
      return nil
    }
    if !job.Status.CanCancel() {
      return apierr.Conflict("Job %s is completed and cannot be cancelled", job.JobNumber)
    }

    fields := map[string]interface{}{
      "status":     types.JobStatusCancelled,
      "updated_at": js.now(),
    }
    if reason != "" {
      scope := job.JobScope
      if scope != "" {
        scope += "\n"
      }
      scope += "Cancelled: " + reason
      fields["job_scope"] = scope
    }
    if err := js.jobRepo.UpdateFields(ctx, tx, job.ID, fields); err != nil {
      return apierr.Internal(fmt.Errorf("Failed to cancel job: %w", err))
    }

    result = &CancelJobResult{
      ID:        job.ID,
      JobNumber: job.JobNumber,
      Status:    types.JobStatusCancelled,
    }
    js.log.Info("Job cancelled", "job_id", job.ID, "reason", reason)
    return nil
  })
  if err != nil {
    return nil, err
  }
  return result, nil
}

func (js *jobService) GetJob(ctx context.Context, jobID uuid.UUID) (*types.Job, error) {
  job, err := js.jobRepo.GetByIDFull(ctx, nil, jobID)
  if err != nil {
    return nil, apierr.Internal(fmt.Errorf("Failed to fetch job: %w", err))
  }
  if job == nil {
    return nil, apierr.NotFound("Job %s not found", jobID)
  }
  return job, nil
}

func (js *jobService) buildDoorViews(ctx context.Context, tx *gorm.DB, job *types.Job) ([]*DoorView, error) {
  if job.Bid == nil {
    return nil, nil
  }
  completions, err := js.sigRepo.GetDoorCompleteByJob(ctx, tx, job.ID)
  if err != nil {
    return nil, err
  }
  completed := make(map[uuid.UUID]bool, len(completions))
  for _, sig := range completions {
    if sig.DoorID != nil {
      completed[*sig.DoorID] = true
    }
  }

  views := make([]*DoorView, 0, len(job.Bid.Doors))
  for _, door := range job.Bid.Doors {
    dv := &DoorView{
      ID:        door.ID,
      Location:  door.Location,
      DoorType:  door.DoorType,
      Completed: completed[door.ID],
    }
    for _, li := range door.LineItems {
      dv.LineItems = append(dv.LineItems, &LineItemView{
        ID:          li.ID,
        Category:    li.Category,
        Description: li.Description,
        Quantity:    li.Quantity,
      })
    }
    views = append(views, dv)
  }
  return views, nil
}
