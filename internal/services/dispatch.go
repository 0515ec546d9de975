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

type BoardAssignment struct {
  JobID           uuid.UUID `json:"job_id" binding:"required"`
  TruckAssignment string    `json:"truck_assignment" binding:"required"`
  JobOrder        int       `json:"job_order"`
  IsVisible       bool      `json:"is_visible"`
}

type SaveBoardInput struct {
  Date        string            `json:"date" binding:"required"`
  Assignments []BoardAssignment `json:"assignments"`
}

type SaveBoardResult struct {
  Success  bool     `json:"success"`
  Applied  int      `json:"applied"`
  Warnings []string `json:"warnings,omitempty"`
}

type DispatchService interface {
  GetBoard(ctx context.Context, date time.Time) (*BoardView, error)
  SaveBoard(ctx context.Context, input SaveBoardInput) (*SaveBoardResult, error)
}

type dispatchService struct {
  db      *gorm.DB
  log     *logger.Logger
  jobRepo repos.JobRepo
  now     func() time.Time
}

func NewDispatchService(db *gorm.DB, baseLog *logger.Logger, jobRepo repos.JobRepo) DispatchService {
  serviceLog := baseLog.With("service", "DispatchService")
  return &dispatchService{
    db:      db,
    log:     serviceLog,
    jobRepo: jobRepo,
    now:     time.Now,
  }
}

// GetBoard partitions every job scheduled on the date into the unassigned
// bucket or its truck's ordered list.
func (ds *dispatchService) GetBoard(ctx context.Context, date time.Time) (*BoardView, error) {
  jobs, err := ds.jobRepo.GetByScheduledDate(ctx, nil, date)
  if err != nil {
    return nil, apierr.Internal(fmt.Errorf("Failed to fetch jobs for date: %w", err))
  }

  board := &BoardView{
    Date:       types.NormalizeDate(date).Format("2006-01-02"),
    Unassigned: []*BoardEntry{},
    Trucks:     map[string][]*BoardEntry{},
  }
  for _, job := range jobs {
    entry := buildBoardEntry(job)
    if !job.Assigned() {
      board.Unassigned = append(board.Unassigned, entry)
      continue
    }
    truck := *job.TruckAssignment
    board.Trucks[truck] = append(board.Trucks[truck], entry)
  }
  return board, nil
}

// SaveBoard is an atomic replace of the whole board for one date: every job
// scheduled on the date is reset to unassigned, then the supplied assignments
// are re-applied. A job dragged off a truck is unassigned simply by being
// absent from the new list. Entries referencing jobs not scheduled on the date
// are skipped with a warning rather than failing the save.
func (ds *dispatchService) SaveBoard(ctx context.Context, input SaveBoardInput) (*SaveBoardResult, error) {
  date, err := time.Parse("2006-01-02", input.Date)
  if err != nil {
    return nil, apierr.Validation("Date %q is not a valid YYYY-MM-DD date", input.Date)
  }

  result := &SaveBoardResult{}
  err = ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    reset, err := ds.jobRepo.ResetBoardForDate(ctx, tx, date)
    if err != nil {
      return apierr.Internal(fmt.Errorf("Failed to reset board for date: %w", err))
    }
    ds.log.Debug("Board reset", "date", input.Date, "jobs_reset", reset)

    for _, assignment := range input.Assignments {
      jobs, err := ds.jobRepo.GetByIDs(ctx, tx, []uuid.UUID{assignment.JobID})
      if err != nil {
        return apierr.Internal(fmt.Errorf("Failed to fetch job %s: %w", assignment.JobID, err))
      }
      if len(jobs) == 0 {
        warning := fmt.Sprintf("Job %s not found, skipping assignment", assignment.JobID)
        ds.log.Warn(warning)
        result.Warnings = append(result.Warnings, warning)
        continue
      }
      job := jobs[0]
      if job.ScheduledDate == nil || !types.DateEqual(*job.ScheduledDate, date) {
        warning := fmt.Sprintf("Job %s is not scheduled on %s, skipping assignment", job.JobNumber, input.Date)
        ds.log.Warn(warning)
        result.Warnings = append(result.Warnings, warning)
        continue
      }

      fields := map[string]interface{}{
        "truck_assignment": assignment.TruckAssignment,
        "job_order":        assignment.JobOrder,
        "is_visible":       assignment.IsVisible,
        "updated_at":       ds.now(),
      }
      // A job parked on the board without ever being scheduled gets nudged
      // to scheduled once a truck picks it up.
      if job.Status == types.JobStatusUnscheduled || job.Status == "" {
        fields["status"] = types.JobStatusScheduled
      }
      if err := ds.jobRepo.UpdateFields(ctx, tx, job.ID, fields); err != nil {
        return apierr.Internal(fmt.Errorf("Failed to apply assignment for job %s: %w", job.ID, err))
      }
      result.Applied++
    }
    return nil
  })
  if err != nil {
    return nil, err
  }
  result.Success = true
  ds.log.Info("Board saved", "date", input.Date, "applied", result.Applied, "warnings", len(result.Warnings))
  return result, nil
}
