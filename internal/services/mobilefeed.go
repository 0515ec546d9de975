package services

import (
  "context"
  "fmt"
  "time"
  "github.com/google/uuid"
  "golang.org/x/sync/errgroup"
  "gorm.io/gorm"
  "github.com/doorflow/doorflow-backend/internal/apierr"
  "github.com/doorflow/doorflow-backend/internal/logger"
  "github.com/doorflow/doorflow-backend/internal/repos"
  "github.com/doorflow/doorflow-backend/internal/types"
)

type MobileFeedService interface {
  FieldJobs(ctx context.Context, date time.Time, truckOverride string) (*FieldJobsView, error)
  FieldJobDetail(ctx context.Context, jobID uuid.UUID) (*FieldJobDetailView, error)
}

type mobileFeedService struct {
  db           *gorm.DB
  log          *logger.Logger
  jobRepo      repos.JobRepo
  sessionRepo  repos.TimeSessionRepo
  sigRepo      repos.SignatureRepo
  lineItemRepo repos.MobileJobLineItemRepo
  mediaRepo    repos.DoorMediaRepo
  completion   CompletionService
  now          func() time.Time
}

func NewMobileFeedService(
  db *gorm.DB,
  baseLog *logger.Logger,
  jobRepo repos.JobRepo,
  sessionRepo repos.TimeSessionRepo,
  sigRepo repos.SignatureRepo,
  lineItemRepo repos.MobileJobLineItemRepo,
  mediaRepo repos.DoorMediaRepo,
  completion CompletionService,
) MobileFeedService {
  serviceLog := baseLog.With("service", "MobileFeedService")
  return &mobileFeedService{
    db:           db,
    log:          serviceLog,
    jobRepo:      jobRepo,
    sessionRepo:  sessionRepo,
    sigRepo:      sigRepo,
    lineItemRepo: lineItemRepo,
    mediaRepo:    mediaRepo,
    completion:   completion,
    now:          time.Now,
  }
}

// FieldJobs builds the worker's queue for the date: visible jobs assigned to
// their truck, in board order, enriched with progress and time. Admins may
// inspect any truck via the override.
func (ms *mobileFeedService) FieldJobs(ctx context.Context, date time.Time, truckOverride string) (*FieldJobsView, error) {
  rd, err := requireRequestData(ctx)
  if err != nil {
    return nil, err
  }

  truck := rd.Truck
  if truckOverride != "" {
    if !rd.IsAdmin() {
      return nil, apierr.Forbidden("Only admins may view another truck's jobs")
    }
    truck = truckOverride
  }
  if truck == "" {
    return nil, apierr.Validation("No truck identity for field job list")
  }

  jobs, err := ms.jobRepo.GetForTruckOnDate(ctx, nil, truck, date)
  if err != nil {
    return nil, apierr.Internal(fmt.Errorf("Failed to fetch field jobs: %w", err))
  }

  entries := make([]*FieldJobEntry, len(jobs))
  group, groupCtx := errgroup.WithContext(ctx)
  for i, job := range jobs {
    group.Go(func() error {
      entry := buildFieldJobEntry(job)
      progress, err := ms.completion.Progress(groupCtx, nil, job)
      if err != nil {
        return err
      }
      sessions, err := ms.sessionRepo.GetByJobID(groupCtx, nil, job.ID)
      if err != nil {
        return fmt.Errorf("Failed to fetch sessions for job %s: %w", job.ID, err)
      }
      entry.Progress = progress
      entry.TimingStatus = types.DeriveTimingStatus(sessions)
      entry.TotalMinutes = types.TotalMinutes(sessions, ms.now())
      entries[i] = entry
      return nil
    })
  }
  if err := group.Wait(); err != nil {
    return nil, apierr.Internal(err)
  }

  view := &FieldJobsView{
    Date: types.NormalizeDate(date).Format("2006-01-02"),
    Jobs: entries,
  }
  for _, entry := range entries {
    view.Summary.TotalJobs++
    view.Summary.TotalMinutes += entry.TotalMinutes
    switch entry.Status {
    case types.JobStatusCompleted:
      view.Summary.CompletedJobs++
    case types.JobStatusInProgress:
      view.Summary.InProgressJobs++
    }
  }
  return view, nil
}

// FieldJobDetail assembles the full door list with per-item completion, media
// presence flags and the completion/time rollups.
func (ms *mobileFeedService) FieldJobDetail(ctx context.Context, jobID uuid.UUID) (*FieldJobDetailView, error) {
  rd, err := requireRequestData(ctx)
  if err != nil {
    return nil, err
  }

  job, err := ms.jobRepo.GetByIDFull(ctx, nil, jobID)
  if err != nil {
    return nil, apierr.Internal(fmt.Errorf("Failed to fetch job: %w", err))
  }
  if job == nil {
    return nil, apierr.NotFound("Job %s not found", jobID)
  }
  if err := authorizeJobAccess(rd, job); err != nil {
    return nil, err
  }

  completions, err := ms.sigRepo.GetDoorCompleteByJob(ctx, nil, job.ID)
  if err != nil {
    return nil, apierr.Internal(fmt.Errorf("Failed to fetch completions: %w", err))
  }
  doorCompleted := make(map[uuid.UUID]bool, len(completions))
  for _, sig := range completions {
    if sig.DoorID != nil {
      doorCompleted[*sig.DoorID] = true
    }
  }

  lineItemStates, err := ms.lineItemRepo.GetByJobID(ctx, nil, job.ID)
  if err != nil {
    return nil, apierr.Internal(fmt.Errorf("Failed to fetch line item states: %w", err))
  }
  itemState := make(map[uuid.UUID]*types.MobileJobLineItem, len(lineItemStates))
  for _, state := range lineItemStates {
    itemState[state.LineItemID] = state
  }

  media, err := ms.mediaRepo.GetByJobID(ctx, nil, job.ID)
  if err != nil {
    return nil, apierr.Internal(fmt.Errorf("Failed to fetch media: %w", err))
  }
  hasPhoto := map[uuid.UUID]bool{}
  hasVideo := map[uuid.UUID]bool{}
  for _, m := range media {
    switch m.MediaType {
    case types.MediaTypePhoto:
      hasPhoto[m.DoorID] = true
    case types.MediaTypeVideo:
      hasVideo[m.DoorID] = true
    }
  }

  view := buildJobView(job)
  if job.Bid != nil {
    for _, door := range job.Bid.Doors {
      dv := &DoorView{
        ID:        door.ID,
        Location:  door.Location,
        DoorType:  door.DoorType,
        Completed: doorCompleted[door.ID],
        HasPhoto:  hasPhoto[door.ID],
        HasVideo:  hasVideo[door.ID],
      }
      for _, li := range door.LineItems {
        lv := &LineItemView{
          ID:          li.ID,
          Category:    li.Category,
          Description: li.Description,
          Quantity:    li.Quantity,
        }
        if state, ok := itemState[li.ID]; ok {
          lv.Completed = state.Completed
          lv.CompletedAt = state.CompletedAt
        }
        dv.LineItems = append(dv.LineItems, lv)
      }
      view.Doors = append(view.Doors, dv)
    }
  }

  progress, err := ms.completion.Progress(ctx, nil, job)
  if err != nil {
    return nil, err
  }
  sessions, err := ms.sessionRepo.GetByJobID(ctx, nil, job.ID)
  if err != nil {
    return nil, apierr.Internal(fmt.Errorf("Failed to fetch sessions: %w", err))
  }

  return &FieldJobDetailView{
    Job:          view,
    Progress:     progress,
    TimingStatus: types.DeriveTimingStatus(sessions),
    TotalMinutes: types.TotalMinutes(sessions, ms.now()),
  }, nil
}
