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

type CompleteDoorInput struct {
  JobID       uuid.UUID `json:"job_id" binding:"required"`
  Signature   string    `json:"signature" binding:"required"`
  SignerName  string    `json:"signer_name,omitempty"`
  SignerTitle string    `json:"signer_title,omitempty"`
}

type CompleteDoorResult struct {
  Success          bool      `json:"success"`
  SignatureID      uuid.UUID `json:"signature_id"`
  AlreadyCompleted bool      `json:"already_completed,omitempty"`
  Progress         float64   `json:"progress"`
  JobCompleted     bool      `json:"job_completed"`
}

type ToggleLineItemResult struct {
  Completed         bool `json:"completed"`
  PreviousCompleted bool `json:"previous_completed"`
}

type CompletionService interface {
  CompleteDoor(ctx context.Context, doorID uuid.UUID, input CompleteDoorInput) (*CompleteDoorResult, error)
  ToggleLineItem(ctx context.Context, jobID, lineItemID uuid.UUID) (*ToggleLineItemResult, error)
  Progress(ctx context.Context, tx *gorm.DB, job *types.Job) (float64, error)
}

type completionService struct {
  db           *gorm.DB
  log          *logger.Logger
  jobRepo      repos.JobRepo
  doorRepo     repos.DoorRepo
  sigRepo      repos.SignatureRepo
  lineItemRepo repos.MobileJobLineItemRepo
  sessionRepo  repos.TimeSessionRepo
  now          func() time.Time
}

func NewCompletionService(
  db *gorm.DB,
  baseLog *logger.Logger,
  jobRepo repos.JobRepo,
  doorRepo repos.DoorRepo,
  sigRepo repos.SignatureRepo,
  lineItemRepo repos.MobileJobLineItemRepo,
  sessionRepo repos.TimeSessionRepo,
) CompletionService {
  serviceLog := baseLog.With("service", "CompletionService")
  return &completionService{
    db:           db,
    log:          serviceLog,
    jobRepo:      jobRepo,
    doorRepo:     doorRepo,
    sigRepo:      sigRepo,
    lineItemRepo: lineItemRepo,
    sessionRepo:  sessionRepo,
    now:          time.Now,
  }
}

// CompleteDoor records a door-complete signature for (job, door). Re-submitting
// an already-completed door returns success with the original signature id;
// field devices retry after network loss and a second row would corrupt the
// progress count. Reaching 100% completes the job and closes the acting user's
// active session in the same transaction.
func (cs *completionService) CompleteDoor(ctx context.Context, doorID uuid.UUID, input CompleteDoorInput) (*CompleteDoorResult, error) {
  rd, err := requireRequestData(ctx)
  if err != nil {
    return nil, err
  }
  if input.Signature == "" {
    return nil, apierr.Validation("A signature is required to complete a door")
  }

  var result *CompleteDoorResult
  err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    job, err := cs.jobRepo.GetByIDFull(ctx, tx, input.JobID)
    if err != nil {
      return apierr.Internal(fmt.Errorf("Failed to fetch job: %w", err))
    }
    if job == nil {
      return apierr.NotFound("Job %s not found", input.JobID)
    }
    if err := authorizeJobAccess(rd, job); err != nil {
      return err
    }

    door, err := cs.doorForJob(job, doorID)
    if err != nil {
      return err
    }

    existing, err := cs.sigRepo.GetDoorComplete(ctx, tx, job.ID, door.ID)
    if err != nil {
      return apierr.Internal(fmt.Errorf("Failed to check existing signature: %w", err))
    }
    if existing != nil {
      progress, err := cs.Progress(ctx, tx, job)
      if err != nil {
        return err
      }
      result = &CompleteDoorResult{
        Success:          true,
        SignatureID:      existing.ID,
        AlreadyCompleted: true,
        Progress:         progress,
        JobCompleted:     job.Status == types.JobStatusCompleted,
      }
      return nil
    }

    sig := &types.JobSignature{
      ID:            uuid.New(),
      JobID:         job.ID,
      DoorID:        &door.ID,
      SignatureType: types.SignatureDoorComplete,
      SignatureData: input.Signature,
      SignerName:    input.SignerName,
      SignerTitle:   input.SignerTitle,
      SignedBy:      rd.UserID,
    }
    if _, err := cs.sigRepo.Create(ctx, tx, []*types.JobSignature{sig}); err != nil {
      // Two concurrent completes race to the partial unique index; the loser
      // re-reads and reports the winner's signature.
      recheck, rcErr := cs.sigRepo.GetDoorComplete(ctx, tx, job.ID, door.ID)
      if rcErr == nil && recheck != nil {
        progress, pErr := cs.Progress(ctx, tx, job)
        if pErr != nil {
          return pErr
        }
        result = &CompleteDoorResult{
          Success:          true,
          SignatureID:      recheck.ID,
          AlreadyCompleted: true,
          Progress:         progress,
        }
        return nil
      }
      return apierr.Internal(fmt.Errorf("Failed to store door completion signature: %w", err))
    }

    progress, err := cs.Progress(ctx, tx, job)
    if err != nil {
      return err
    }

    jobCompleted := false
    if progress >= 100 && job.Status != types.JobStatusCompleted {
      now := cs.now()
      active, err := cs.sessionRepo.GetActiveByJobAndUser(ctx, tx, job.ID, rd.UserID)
      if err != nil {
        return apierr.Internal(fmt.Errorf("Failed to check active session: %w", err))
      }
      if active != nil {
        active.Close(types.SessionStatusCompleted, now)
        if err := cs.sessionRepo.Save(ctx, tx, active); err != nil {
          return apierr.Internal(fmt.Errorf("Failed to close session: %w", err))
        }
      }
      if err := cs.jobRepo.UpdateFields(ctx, tx, job.ID, map[string]interface{}{
        "status":     types.JobStatusCompleted,
        "updated_at": now,
      }); err != nil {
        return apierr.Internal(fmt.Errorf("Failed to complete job: %w", err))
      }
      jobCompleted = true
      cs.log.Info("All doors complete, job auto-completed", "job_id", job.ID)
    }

    result = &CompleteDoorResult{
      Success:      true,
      SignatureID:  sig.ID,
      Progress:     progress,
      JobCompleted: jobCompleted,
    }
    cs.log.Info("Door completed", "job_id", job.ID, "door_id", door.ID, "progress", progress)
    return nil
  })
  if err != nil {
    return nil, err
  }
  return result, nil
}

// ToggleLineItem flips the mobile completion flag for one (job, line item)
// pair, independent of the parent door's completion state.
func (cs *completionService) ToggleLineItem(ctx context.Context, jobID, lineItemID uuid.UUID) (*ToggleLineItemResult, error) {
  rd, err := requireRequestData(ctx)
  if err != nil {
    return nil, err
  }

  var result *ToggleLineItemResult
  err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    job, err := cs.jobRepo.GetByIDFull(ctx, tx, jobID)
    if err != nil {
      return apierr.Internal(fmt.Errorf("Failed to fetch job: %w", err))
    }
    if job == nil {
      return apierr.NotFound("Job %s not found", jobID)
    }
    if err := authorizeJobAccess(rd, job); err != nil {
      return err
    }

    lineItem, err := cs.doorRepo.GetLineItemByID(ctx, tx, lineItemID)
    if err != nil {
      return apierr.Internal(fmt.Errorf("Failed to fetch line item: %w", err))
    }
    if lineItem == nil {
      return apierr.NotFound("Line item %s not found", lineItemID)
    }
    if lineItem.Door == nil || job.Bid == nil || lineItem.Door.BidID != job.Bid.ID {
      return apierr.Conflict("Line item %s does not belong to job %s", lineItemID, job.JobNumber)
    }

    record, err := cs.lineItemRepo.GetByJobAndLineItem(ctx, tx, job.ID, lineItem.ID)
    if err != nil {
      return apierr.Internal(fmt.Errorf("Failed to fetch line item state: %w", err))
    }

    previous := record != nil && record.Completed
    if record == nil {
      record = &types.MobileJobLineItem{
        ID:         uuid.New(),
        JobID:      job.ID,
        LineItemID: lineItem.ID,
      }
      record.MarkCompleted(rd.UserID, cs.now())
      if _, err := cs.lineItemRepo.Create(ctx, tx, []*types.MobileJobLineItem{record}); err != nil {
        return apierr.Internal(fmt.Errorf("Failed to create line item state: %w", err))
      }
    } else {
      if previous {
        record.MarkIncomplete()
      } else {
        record.MarkCompleted(rd.UserID, cs.now())
      }
      if err := cs.lineItemRepo.Save(ctx, tx, record); err != nil {
        return apierr.Internal(fmt.Errorf("Failed to save line item state: %w", err))
      }
    }

    result = &ToggleLineItemResult{Completed: record.Completed, PreviousCompleted: previous}
    cs.log.Info("Line item toggled", "job_id", job.ID, "line_item_id", lineItem.ID, "completed", record.Completed)
    return nil
  })
  if err != nil {
    return nil, err
  }
  return result, nil
}

// Progress returns the job's completion percentage: distinct door-complete
// signatures over total doors on the bid.
func (cs *completionService) Progress(ctx context.Context, tx *gorm.DB, job *types.Job) (float64, error) {
  total, err := cs.doorRepo.CountByBidID(ctx, tx, job.BidID)
  if err != nil {
    return 0, apierr.Internal(fmt.Errorf("Failed to count doors: %w", err))
  }
  if total == 0 {
    return 0, nil
  }
  completed, err := cs.sigRepo.CountDoorCompleteByJob(ctx, tx, job.ID)
  if err != nil {
    return 0, apierr.Internal(fmt.Errorf("Failed to count completed doors: %w", err))
  }
  return float64(completed) / float64(total) * 100, nil
}

func (cs *completionService) doorForJob(job *types.Job, doorID uuid.UUID) (*types.Door, error) {
  if job.Bid == nil {
    return nil, apierr.Conflict("Job %s has no bid attached", job.JobNumber)
  }
  for _, door := range job.Bid.Doors {
    if door.ID == doorID {
      return door, nil
    }
  }
  return nil, apierr.Conflict("Door %s does not belong to job %s", doorID, job.JobNumber)
}
