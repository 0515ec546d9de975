package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/doorflow/doorflow-backend/internal/logger"
  "github.com/doorflow/doorflow-backend/internal/types"
)

type SignatureRepo interface {
  Create(ctx context.Context, tx *gorm.DB, signatures []*types.JobSignature) ([]*types.JobSignature, error)
  GetDoorComplete(ctx context.Context, tx *gorm.DB, jobID, doorID uuid.UUID) (*types.JobSignature, error)
  GetDoorCompleteByJob(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) ([]*types.JobSignature, error)
  CountDoorCompleteByJob(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) (int64, error)
}

type signatureRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSignatureRepo(db *gorm.DB, baseLog *logger.Logger) SignatureRepo {
  repoLog := baseLog.With("repo", "SignatureRepo")
  return &signatureRepo{db: db, log: repoLog}
}

func (sr *signatureRepo) Create(ctx context.Context, tx *gorm.DB, signatures []*types.JobSignature) ([]*types.JobSignature, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  if len(signatures) == 0 {
    return []*types.JobSignature{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&signatures).Error; err != nil {
    return nil, err
  }

  return signatures, nil
}

func (sr *signatureRepo) GetDoorComplete(ctx context.Context, tx *gorm.DB, jobID, doorID uuid.UUID) (*types.JobSignature, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  var result types.JobSignature

  err := transaction.WithContext(ctx).
    Where("job_id = ? AND door_id = ? AND signature_type = ?", jobID, doorID, types.SignatureDoorComplete).
    First(&result).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (sr *signatureRepo) GetDoorCompleteByJob(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) ([]*types.JobSignature, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  var results []*types.JobSignature

  if err := transaction.WithContext(ctx).
    Where("job_id = ? AND signature_type = ?", jobID, types.SignatureDoorComplete).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

// CountDoorCompleteByJob counts distinct doors with a completion signature. The
// partial unique index guarantees one row per door, but the distinct keeps the
// count honest against legacy data.
func (sr *signatureRepo) CountDoorCompleteByJob(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  var count int64

  if err := transaction.WithContext(ctx).
    Model(&types.JobSignature{}).
    Distinct("door_id").
    Where("job_id = ? AND signature_type = ?", jobID, types.SignatureDoorComplete).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}
