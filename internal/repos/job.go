package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/doorflow/doorflow-backend/internal/logger"
  "github.com/doorflow/doorflow-backend/internal/types"
)

type JobRepo interface {
  Create(ctx context.Context, tx *gorm.DB, jobs []*types.Job) ([]*types.Job, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, jobIDs []uuid.UUID) ([]*types.Job, error)
  GetByIDFull(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) (*types.Job, error)
  GetByScheduledDate(ctx context.Context, tx *gorm.DB, date time.Time) ([]*types.Job, error)
  GetForTruckOnDate(ctx context.Context, tx *gorm.DB, truck string, date time.Time) ([]*types.Job, error)
  ResetBoardForDate(ctx context.Context, tx *gorm.DB, date time.Time) (int64, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, jobID uuid.UUID, fields map[string]interface{}) error
  CountByJobNumberPattern(ctx context.Context, tx *gorm.DB, pattern string) (int64, error)
}

type jobRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewJobRepo(db *gorm.DB, baseLog *logger.Logger) JobRepo {
  repoLog := baseLog.With("repo", "JobRepo")
  return &jobRepo{db: db, log: repoLog}
}

func (jr *jobRepo) Create(ctx context.Context, tx *gorm.DB, jobs []*types.Job) ([]*types.Job, error) {
  transaction := tx
  if transaction == nil {
    transaction = jr.db
  }

  if len(jobs) == 0 {
    return []*types.Job{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&jobs).Error; err != nil {
    return nil, err
  }

  return jobs, nil
}

func (jr *jobRepo) GetByIDs(ctx context.Context, tx *gorm.DB, jobIDs []uuid.UUID) ([]*types.Job, error) {
  transaction := tx
  if transaction == nil {
    transaction = jr.db
  }

  var results []*types.Job

  if len(jobIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", jobIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

// GetByIDFull loads a job with its full bid chain: doors, line items, estimate,
// customer and site. Used by board entries, job detail and completion math.
func (jr *jobRepo) GetByIDFull(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) (*types.Job, error) {
  transaction := tx
  if transaction == nil {
    transaction = jr.db
  }

  var result types.Job

  err := transaction.WithContext(ctx).
    Preload("Bid").
    Preload("Bid.Doors").
    Preload("Bid.Doors.LineItems").
    Preload("Bid.Estimate").
    Preload("Bid.Estimate.Customer").
    Preload("Bid.Estimate.Site").
    Where("id = ?", jobID).
    First(&result).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (jr *jobRepo) GetByScheduledDate(ctx context.Context, tx *gorm.DB, date time.Time) ([]*types.Job, error) {
  transaction := tx
  if transaction == nil {
    transaction = jr.db
  }

  var results []*types.Job

  if err := transaction.WithContext(ctx).
    Preload("Bid").
    Preload("Bid.Estimate").
    Preload("Bid.Estimate.Customer").
    Preload("Bid.Estimate.Site").
    Where("scheduled_date = ?", types.NormalizeDate(date)).
    Order("job_order ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (jr *jobRepo) GetForTruckOnDate(ctx context.Context, tx *gorm.DB, truck string, date time.Time) ([]*types.Job, error) {
  transaction := tx
  if transaction == nil {
    transaction = jr.db
  }

  var results []*types.Job

  if err := transaction.WithContext(ctx).
    Preload("Bid").
    Preload("Bid.Estimate").
    Preload("Bid.Estimate.Customer").
    Preload("Bid.Estimate.Site").
    Where("scheduled_date = ? AND truck_assignment = ? AND is_visible = ?", types.NormalizeDate(date), truck, true).
    Order("job_order ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

// ResetBoardForDate clears truck, order and visibility for every job scheduled on
// the date. Callers run this inside the same transaction as the re-apply pass.
func (jr *jobRepo) ResetBoardForDate(ctx context.Context, tx *gorm.DB, date time.Time) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = jr.db
  }

  result := transaction.WithContext(ctx).
    Model(&types.Job{}).
    Where("scheduled_date = ?", types.NormalizeDate(date)).
    Updates(map[string]interface{}{
      "truck_assignment": nil,
      "job_order":        0,
      "is_visible":       false,
      "updated_at":       time.Now(),
    })
  if result.Error != nil {
    return 0, result.Error
  }
  return result.RowsAffected, nil
}

func (jr *jobRepo) UpdateFields(ctx context.Context, tx *gorm.DB, jobID uuid.UUID, fields map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = jr.db
  }

  return transaction.WithContext(ctx).
    Model(&types.Job{}).
    Where("id = ?", jobID).
    Updates(fields).Error
}

func (jr *jobRepo) CountByJobNumberPattern(ctx context.Context, tx *gorm.DB, pattern string) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = jr.db
  }

  var count int64

  if err := transaction.WithContext(ctx).
    Model(&types.Job{}).
    Where("job_number LIKE ?", pattern).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}
