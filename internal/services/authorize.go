package services

import (
  "context"
  "github.com/doorflow/doorflow-backend/internal/apierr"
  "github.com/doorflow/doorflow-backend/internal/requestdata"
  "github.com/doorflow/doorflow-backend/internal/types"
)

// requireRequestData pulls the authenticated identity off the context. Every
// field-facing service call starts here.
func requireRequestData(ctx context.Context) (*requestdata.RequestData, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    return nil, apierr.Forbidden("No authenticated user on request")
  }
  return rd, nil
}

// authorizeJobAccess enforces the truck identity rule: a field role user may
// only touch jobs assigned to their own truck. Admins bypass the check.
func authorizeJobAccess(rd *requestdata.RequestData, job *types.Job) error {
  if rd.IsAdmin() {
    return nil
  }
  if !job.Assigned() || *job.TruckAssignment != rd.Truck {
    return apierr.Forbidden("Job %s is not assigned to your truck", job.JobNumber)
  }
  return nil
}
