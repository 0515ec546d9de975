package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/doorflow/doorflow-backend/internal/logger"
  "github.com/doorflow/doorflow-backend/internal/types"
)

type DoorRepo interface {
  GetByIDs(ctx context.Context, tx *gorm.DB, doorIDs []uuid.UUID) ([]*types.Door, error)
  GetByBidID(ctx context.Context, tx *gorm.DB, bidID uuid.UUID) ([]*types.Door, error)
  CountByBidID(ctx context.Context, tx *gorm.DB, bidID uuid.UUID) (int64, error)
  GetLineItemByID(ctx context.Context, tx *gorm.DB, lineItemID uuid.UUID) (*types.DoorLineItem, error)
}

type doorRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewDoorRepo(db *gorm.DB, baseLog *logger.Logger) DoorRepo {
  repoLog := baseLog.With("repo", "DoorRepo")
  return &doorRepo{db: db, log: repoLog}
}

func (dr *doorRepo) GetByIDs(ctx context.Context, tx *gorm.DB, doorIDs []uuid.UUID) ([]*types.Door, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  var results []*types.Door

  if len(doorIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Preload("LineItems").
    Where("id IN ?", doorIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (dr *doorRepo) GetByBidID(ctx context.Context, tx *gorm.DB, bidID uuid.UUID) ([]*types.Door, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  var results []*types.Door

  if err := transaction.WithContext(ctx).
    Preload("LineItems").
    Where("bid_id = ?", bidID).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (dr *doorRepo) CountByBidID(ctx context.Context, tx *gorm.DB, bidID uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  var count int64

  if err := transaction.WithContext(ctx).
    Model(&types.Door{}).
    Where("bid_id = ?", bidID).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}

func (dr *doorRepo) GetLineItemByID(ctx context.Context, tx *gorm.DB, lineItemID uuid.UUID) (*types.DoorLineItem, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  var result types.DoorLineItem

  err := transaction.WithContext(ctx).
    Preload("Door").
    Where("id = ?", lineItemID).
    First(&result).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}
