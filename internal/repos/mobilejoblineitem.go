package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/doorflow/doorflow-backend/internal/logger"
  "github.com/doorflow/doorflow-backend/internal/types"
)

type MobileJobLineItemRepo interface {
  Create(ctx context.Context, tx *gorm.DB, items []*types.MobileJobLineItem) ([]*types.MobileJobLineItem, error)
  GetByJobAndLineItem(ctx context.Context, tx *gorm.DB, jobID, lineItemID uuid.UUID) (*types.MobileJobLineItem, error)
  GetByJobID(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) ([]*types.MobileJobLineItem, error)
  Save(ctx context.Context, tx *gorm.DB, item *types.MobileJobLineItem) error
}

type mobileJobLineItemRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewMobileJobLineItemRepo(db *gorm.DB, baseLog *logger.Logger) MobileJobLineItemRepo {
  repoLog := baseLog.With("repo", "MobileJobLineItemRepo")
  return &mobileJobLineItemRepo{db: db, log: repoLog}
}

func (mr *mobileJobLineItemRepo) Create(ctx context.Context, tx *gorm.DB, items []*types.MobileJobLineItem) ([]*types.MobileJobLineItem, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }

  if len(items) == 0 {
    return []*types.MobileJobLineItem{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
    return nil, err
  }

  return items, nil
}

func (mr *mobileJobLineItemRepo) GetByJobAndLineItem(ctx context.Context, tx *gorm.DB, jobID, lineItemID uuid.UUID) (*types.MobileJobLineItem, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }

  var result types.MobileJobLineItem

  err := transaction.WithContext(ctx).
    Where("job_id = ? AND line_item_id = ?", jobID, lineItemID).
    First(&result).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (mr *mobileJobLineItemRepo) GetByJobID(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) ([]*types.MobileJobLineItem, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }

  var results []*types.MobileJobLineItem

  if err := transaction.WithContext(ctx).
    Where("job_id = ?", jobID).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (mr *mobileJobLineItemRepo) Save(ctx context.Context, tx *gorm.DB, item *types.MobileJobLineItem) error {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }

  return transaction.WithContext(ctx).Save(item).Error
}
