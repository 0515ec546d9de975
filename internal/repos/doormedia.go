package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/doorflow/doorflow-backend/internal/logger"
  "github.com/doorflow/doorflow-backend/internal/types"
)

type DoorMediaRepo interface {
  Create(ctx context.Context, tx *gorm.DB, media []*types.DoorMedia) ([]*types.DoorMedia, error)
  GetByJobID(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) ([]*types.DoorMedia, error)
  GetByJobAndDoor(ctx context.Context, tx *gorm.DB, jobID, doorID uuid.UUID) ([]*types.DoorMedia, error)
}

type doorMediaRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewDoorMediaRepo(db *gorm.DB, baseLog *logger.Logger) DoorMediaRepo {
  repoLog := baseLog.With("repo", "DoorMediaRepo")
  return &doorMediaRepo{db: db, log: repoLog}
}

func (dr *doorMediaRepo) Create(ctx context.Context, tx *gorm.DB, media []*types.DoorMedia) ([]*types.DoorMedia, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  if len(media) == 0 {
    return []*types.DoorMedia{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&media).Error; err != nil {
    return nil, err
  }

  return media, nil
}

func (dr *doorMediaRepo) GetByJobID(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) ([]*types.DoorMedia, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  var results []*types.DoorMedia

  if err := transaction.WithContext(ctx).
    Where("job_id = ?", jobID).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (dr *doorMediaRepo) GetByJobAndDoor(ctx context.Context, tx *gorm.DB, jobID, doorID uuid.UUID) ([]*types.DoorMedia, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  var results []*types.DoorMedia

  if err := transaction.WithContext(ctx).
    Where("job_id = ? AND door_id = ?", jobID, doorID).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
