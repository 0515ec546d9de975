package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/doorflow/doorflow-backend/internal/logger"
  "github.com/doorflow/doorflow-backend/internal/types"
)

type TimeSessionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, sessions []*types.TimeTrackingSession) ([]*types.TimeTrackingSession, error)
  GetActiveByJobAndUser(ctx context.Context, tx *gorm.DB, jobID, userID uuid.UUID) (*types.TimeTrackingSession, error)
  GetByJobID(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) ([]*types.TimeTrackingSession, error)
  Save(ctx context.Context, tx *gorm.DB, session *types.TimeTrackingSession) error
}

type timeSessionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewTimeSessionRepo(db *gorm.DB, baseLog *logger.Logger) TimeSessionRepo {
  repoLog := baseLog.With("repo", "TimeSessionRepo")
  return &timeSessionRepo{db: db, log: repoLog}
}

func (tr *timeSessionRepo) Create(ctx context.Context, tx *gorm.DB, sessions []*types.TimeTrackingSession) ([]*types.TimeTrackingSession, error) {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }

  if len(sessions) == 0 {
    return []*types.TimeTrackingSession{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&sessions).Error; err != nil {
    return nil, err
  }

  return sessions, nil
}

func (tr *timeSessionRepo) GetActiveByJobAndUser(ctx context.Context, tx *gorm.DB, jobID, userID uuid.UUID) (*types.TimeTrackingSession, error) {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }

  var result types.TimeTrackingSession

  err := transaction.WithContext(ctx).
    Where("job_id = ? AND user_id = ? AND status = ?", jobID, userID, types.SessionStatusActive).
    First(&result).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (tr *timeSessionRepo) GetByJobID(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) ([]*types.TimeTrackingSession, error) {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }

  var results []*types.TimeTrackingSession

  if err := transaction.WithContext(ctx).
    Where("job_id = ?", jobID).
    Order("start_time ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (tr *timeSessionRepo) Save(ctx context.Context, tx *gorm.DB, session *types.TimeTrackingSession) error {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }

  return transaction.WithContext(ctx).Save(session).Error
}
