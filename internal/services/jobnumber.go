package services

import (
  "context"
  "fmt"
  "time"
  "gorm.io/gorm"
  "github.com/doorflow/doorflow-backend/internal/repos"
)

// Job numbers read {monthCode}{sequence}{yearSuffix}: a month letter A-L, a
// zero-padded sequence within that month, and the two-digit year. Example:
// the 7th job approved in March 2024 is "C00724".
var monthCodes = [12]string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"}

func MonthCode(m time.Month) string {
  return monthCodes[int(m)-1]
}

func FormatJobNumber(t time.Time, sequence int) string {
  return fmt.Sprintf("%s%03d%s", MonthCode(t.Month()), sequence, t.Format("06"))
}

// generateJobNumber picks the next free sequence for the approval month. The
// unique index on job_number is the real guard; the existence probe just keeps
// the happy path collision-free.
func generateJobNumber(ctx context.Context, tx *gorm.DB, jobRepo repos.JobRepo, now time.Time) (string, error) {
  monthPattern := fmt.Sprintf("%s%%%s", MonthCode(now.Month()), now.Format("06"))
  count, err := jobRepo.CountByJobNumberPattern(ctx, tx, monthPattern)
  if err != nil {
    return "", fmt.Errorf("Failed to count jobs for month: %w", err)
  }

  sequence := int(count) + 1
  for attempt := 0; attempt < 100; attempt++ {
    candidate := FormatJobNumber(now, sequence)
    existing, err := jobRepo.CountByJobNumberPattern(ctx, tx, candidate)
    if err != nil {
      return "", fmt.Errorf("Failed to check job number %s: %w", candidate, err)
    }
    if existing == 0 {
      return candidate, nil
    }
    sequence++
  }
  return "", fmt.Errorf("Could not find a free job number for %s", now.Format("2006-01"))
}
