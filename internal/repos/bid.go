package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/doorflow/doorflow-backend/internal/logger"
  "github.com/doorflow/doorflow-backend/internal/types"
)

type BidRepo interface {
  GetByID(ctx context.Context, tx *gorm.DB, bidID uuid.UUID) (*types.Bid, error)
  Save(ctx context.Context, tx *gorm.DB, bid *types.Bid) error
}

type bidRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewBidRepo(db *gorm.DB, baseLog *logger.Logger) BidRepo {
  repoLog := baseLog.With("repo", "BidRepo")
  return &bidRepo{db: db, log: repoLog}
}

func (br *bidRepo) GetByID(ctx context.Context, tx *gorm.DB, bidID uuid.UUID) (*types.Bid, error) {
  transaction := tx
  if transaction == nil {
    transaction = br.db
  }

  var result types.Bid

  err := transaction.WithContext(ctx).
    Preload("Doors").
    Preload("Estimate").
    Where("id = ?", bidID).
    First(&result).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (br *bidRepo) Save(ctx context.Context, tx *gorm.DB, bid *types.Bid) error {
  transaction := tx
  if transaction == nil {
    transaction = br.db
  }

  return transaction.WithContext(ctx).Save(bid).Error
}
