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

type FieldActionInput struct {
  Signature   string `json:"signature,omitempty"`
  SignerName  string `json:"signer_name,omitempty"`
  SignerTitle string `json:"signer_title,omitempty"`
}

type FieldActionResult struct {
  Success      bool               `json:"success"`
  Status       types.JobStatus    `json:"status"`
  TimingStatus types.TimingStatus `json:"timing_status"`
}

type TimeTrackingService interface {
  Start(ctx context.Context, jobID uuid.UUID, input FieldActionInput) (*FieldActionResult, error)
  Pause(ctx context.Context, jobID uuid.UUID, input FieldActionInput) (*FieldActionResult, error)
  Resume(ctx context.Context, jobID uuid.UUID, input FieldActionInput) (*FieldActionResult, error)
  Complete(ctx context.Context, jobID uuid.UUID, input FieldActionInput) (*FieldActionResult, error)
  Summary(ctx context.Context, jobID uuid.UUID) (*TimeSummaryView, error)
}

type timeTrackingService struct {
  db          *gorm.DB
  log         *logger.Logger
  jobRepo     repos.JobRepo
  sessionRepo repos.TimeSessionRepo
  sigRepo     repos.SignatureRepo
  now         func() time.Time
}

func NewTimeTrackingService(db *gorm.DB, baseLog *logger.Logger, jobRepo repos.JobRepo, sessionRepo repos.TimeSessionRepo, sigRepo repos.SignatureRepo) TimeTrackingService {
  serviceLog := baseLog.With("service", "TimeTrackingService")
  return &timeTrackingService{
    db:          db,
    log:         serviceLog,
    jobRepo:     jobRepo,
    sessionRepo: sessionRepo,
    sigRepo:     sigRepo,
    now:         time.Now,
  }
}

func (ts *timeTrackingService) Start(ctx context.Context, jobID uuid.UUID, input FieldActionInput) (*FieldActionResult, error) {
  return ts.openSession(ctx, jobID, input, types.SignatureStart)
}

func (ts *timeTrackingService) Resume(ctx context.Context, jobID uuid.UUID, input FieldActionInput) (*FieldActionResult, error) {
  return ts.openSession(ctx, jobID, input, types.SignatureResume)
}

// openSession creates a fresh active session for (job, acting user). The
// partial unique index on active sessions is the backstop for two concurrent
// starts racing past the existence check.
func (ts *timeTrackingService) openSession(ctx context.Context, jobID uuid.UUID, input FieldActionInput, sigType types.SignatureType) (*FieldActionResult, error) {
  rd, err := requireRequestData(ctx)
  if err != nil {
    return nil, err
  }

  var result *FieldActionResult
  err = ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    jobs, err := ts.jobRepo.GetByIDs(ctx, tx, []uuid.UUID{jobID})
    if err != nil {
      return apierr.Internal(fmt.Errorf("Failed to fetch job: %w", err))
    }
    if len(jobs) == 0 {
      return apierr.NotFound("Job %s not found", jobID)
    }
    job := jobs[0]
    if err := authorizeJobAccess(rd, job); err != nil {
      return err
    }
    if !job.Status.CanStart() {
      return apierr.Conflict("Job %s cannot be worked in status %s", job.JobNumber, job.Status)
    }

    active, err := ts.sessionRepo.GetActiveByJobAndUser(ctx, tx, job.ID, rd.UserID)
    if err != nil {
      return apierr.Internal(fmt.Errorf("Failed to check active session: %w", err))
    }
    if active != nil {
      return apierr.Conflict("You already have an active session on job %s", job.JobNumber)
    }

    now := ts.now()
    session := &types.TimeTrackingSession{
      ID:        uuid.New(),
      JobID:     job.ID,
      UserID:    rd.UserID,
      Status:    types.SessionStatusActive,
      StartTime: now,
    }
    if _, err := ts.sessionRepo.Create(ctx, tx, []*types.TimeTrackingSession{session}); err != nil {
      // The unique index rejects a second active row for the pair; surface
      // the race as the same conflict the existence check would have raised.
      recheck, rcErr := ts.sessionRepo.GetActiveByJobAndUser(ctx, tx, job.ID, rd.UserID)
      if rcErr == nil && recheck != nil {
        return apierr.Conflict("You already have an active session on job %s", job.JobNumber)
      }
      return apierr.Internal(fmt.Errorf("Failed to create session: %w", err))
    }

    if err := ts.attachSignature(ctx, tx, job.ID, rd.UserID, sigType, input); err != nil {
      return err
    }

    status := job.Status
    if job.Status == types.JobStatusScheduled {
      status = types.JobStatusInProgress
      if err := ts.jobRepo.UpdateFields(ctx, tx, job.ID, map[string]interface{}{
        "status":     status,
        "updated_at": now,
      }); err != nil {
        return apierr.Internal(fmt.Errorf("Failed to advance job status: %w", err))
      }
    }

    result = &FieldActionResult{Success: true, Status: status, TimingStatus: types.TimingStarted}
    ts.log.Info("Session opened", "job_id", job.ID, "user_id", rd.UserID, "type", sigType)
    return nil
  })
  if err != nil {
    return nil, err
  }
  return result, nil
}

func (ts *timeTrackingService) Pause(ctx context.Context, jobID uuid.UUID, input FieldActionInput) (*FieldActionResult, error) {
  rd, err := requireRequestData(ctx)
  if err != nil {
    return nil, err
  }

  var result *FieldActionResult
  err = ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    jobs, err := ts.jobRepo.GetByIDs(ctx, tx, []uuid.UUID{jobID})
    if err != nil {
      return apierr.Internal(fmt.Errorf("Failed to fetch job: %w", err))
    }
    if len(jobs) == 0 {
      return apierr.NotFound("Job %s not found", jobID)
    }
    job := jobs[0]
    if err := authorizeJobAccess(rd, job); err != nil {
      return err
    }

    active, err := ts.sessionRepo.GetActiveByJobAndUser(ctx, tx, job.ID, rd.UserID)
    if err != nil {
      return apierr.Internal(fmt.Errorf("Failed to check active session: %w", err))
    }
    if active == nil {
      return apierr.Conflict("No active session to pause on job %s", job.JobNumber)
    }

    active.Close(types.SessionStatusPaused, ts.now())
    if err := ts.sessionRepo.Save(ctx, tx, active); err != nil {
      return apierr.Internal(fmt.Errorf("Failed to pause session: %w", err))
    }

    if err := ts.attachSignature(ctx, tx, job.ID, rd.UserID, types.SignaturePause, input); err != nil {
      return err
    }

    result = &FieldActionResult{Success: true, Status: job.Status, TimingStatus: types.TimingPaused}
    ts.log.Info("Session paused", "job_id", job.ID, "user_id", rd.UserID, "minutes", active.DurationMinutes)
    return nil
  })
  if err != nil {
    return nil, err
  }
  return result, nil
}

// Complete closes the acting user's active session (if any) as completed and
// marks the job completed, all in one transaction.
func (ts *timeTrackingService) Complete(ctx context.Context, jobID uuid.UUID, input FieldActionInput) (*FieldActionResult, error) {
  rd, err := requireRequestData(ctx)
  if err != nil {
    return nil, err
  }

  var result *FieldActionResult
  err = ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    jobs, err := ts.jobRepo.GetByIDs(ctx, tx, []uuid.UUID{jobID})
    if err != nil {
      return apierr.Internal(fmt.Errorf("Failed to fetch job: %w", err))
    }
    if len(jobs) == 0 {
      return apierr.NotFound("Job %s not found", jobID)
    }
    job := jobs[0]
    if err := authorizeJobAccess(rd, job); err != nil {
      return err
    }
    if job.Status == types.JobStatusCancelled {
      return apierr.Conflict("Job %s is cancelled and cannot be completed", job.JobNumber)
    }

    now := ts.now()
    active, err := ts.sessionRepo.GetActiveByJobAndUser(ctx, tx, job.ID, rd.UserID)
    if err != nil {
      return apierr.Internal(fmt.Errorf("Failed to check active session: %w", err))
    }
    if active != nil {
      active.Close(types.SessionStatusCompleted, now)
      if err := ts.sessionRepo.Save(ctx, tx, active); err != nil {
        return apierr.Internal(fmt.Errorf("Failed to close session: %w", err))
      }
    }

    if err := ts.attachSignature(ctx, tx, job.ID, rd.UserID, types.SignatureFinalCompletion, input); err != nil {
      return err
    }

    if job.Status != types.JobStatusCompleted {
      if err := ts.jobRepo.UpdateFields(ctx, tx, job.ID, map[string]interface{}{
        "status":     types.JobStatusCompleted,
        "updated_at": now,
      }); err != nil {
        return apierr.Internal(fmt.Errorf("Failed to complete job: %w", err))
      }
    }

    result = &FieldActionResult{Success: true, Status: types.JobStatusCompleted, TimingStatus: types.TimingCompleted}
    ts.log.Info("Job completed via field action", "job_id", job.ID, "user_id", rd.UserID)
    return nil
  })
  if err != nil {
    return nil, err
  }
  return result, nil
}

func (ts *timeTrackingService) Summary(ctx context.Context, jobID uuid.UUID) (*TimeSummaryView, error) {
  rd, err := requireRequestData(ctx)
  if err != nil {
    return nil, err
  }
  jobs, err := ts.jobRepo.GetByIDs(ctx, nil, []uuid.UUID{jobID})
  if err != nil {
    return nil, apierr.Internal(fmt.Errorf("Failed to fetch job: %w", err))
  }
  if len(jobs) == 0 {
    return nil, apierr.NotFound("Job %s not found", jobID)
  }
  if err := authorizeJobAccess(rd, jobs[0]); err != nil {
    return nil, err
  }

  sessions, err := ts.sessionRepo.GetByJobID(ctx, nil, jobID)
  if err != nil {
    return nil, apierr.Internal(fmt.Errorf("Failed to fetch sessions: %w", err))
  }
  return &TimeSummaryView{
    Sessions:     sessions,
    TotalMinutes: types.TotalMinutes(sessions, ts.now()),
    TimingStatus: types.DeriveTimingStatus(sessions),
  }, nil
}

func (ts *timeTrackingService) attachSignature(ctx context.Context, tx *gorm.DB, jobID, userID uuid.UUID, sigType types.SignatureType, input FieldActionInput) error {
  if input.Signature == "" {
    return nil
  }
  sig := &types.JobSignature{
    ID:            uuid.New(),
    JobID:         jobID,
    SignatureType: sigType,
    SignatureData: input.Signature,
    SignerName:    input.SignerName,
    SignerTitle:   input.SignerTitle,
    SignedBy:      userID,
  }
  if _, err := ts.sigRepo.Create(ctx, tx, []*types.JobSignature{sig}); err != nil {
    return apierr.Internal(fmt.Errorf("Failed to store %s signature: %w", sigType, err))
  }
  return nil
}
