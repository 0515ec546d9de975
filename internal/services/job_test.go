package services

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/doorflow/doorflow-backend/internal/apierr"
	"github.com/doorflow/doorflow-backend/internal/types"
)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestApproveBid_CreatesUnscheduledJob(t *testing.T) {
	te := newTestEnv(t)
	f := seedFixture(t, te.db, fixtureOpts{bidStatus: types.BidStatusPending})

	svc := te.jobService().(*jobService)
	svc.now = fixedNow(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))

	job, err := svc.ApproveBid(adminCtx(), f.bid.ID)
	if err != nil {
		t.Fatalf("ApproveBid: %v", err)
	}
	if job.Status != types.JobStatusUnscheduled {
		t.Fatalf("job status = %s, want unscheduled", job.Status)
	}
	if job.JobNumber != "C00124" {
		t.Fatalf("job number = %q, want C00124", job.JobNumber)
	}

	var bid types.Bid
	if err := te.db.First(&bid, "id = ?", f.bid.ID).Error; err != nil {
		t.Fatalf("failed to reload bid: %v", err)
	}
	if bid.Status != types.BidStatusApproved {
		t.Fatalf("bid status = %s, want approved", bid.Status)
	}
	if bid.ApprovedAt == nil {
		t.Fatalf("expected approved_at to be stamped")
	}
}

func TestApproveBid_AlreadyApprovedConflicts(t *testing.T) {
	te := newTestEnv(t)
	f := seedFixture(t, te.db, fixtureOpts{bidStatus: types.BidStatusApproved})

	_, err := te.jobService().ApproveBid(adminCtx(), f.bid.ID)
	if apierr.StatusOf(err) != http.StatusConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestApproveBid_RejectedBidConflicts(t *testing.T) {
	te := newTestEnv(t)
	f := seedFixture(t, te.db, fixtureOpts{bidStatus: types.BidStatusRejected})

	_, err := te.jobService().ApproveBid(adminCtx(), f.bid.ID)
	if apierr.StatusOf(err) != http.StatusConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestScheduleJob_SetsDateAndStatus(t *testing.T) {
	te := newTestEnv(t)
	f := seedFixture(t, te.db, fixtureOpts{status: types.JobStatusUnscheduled})

	view, err := te.jobService().ScheduleJob(adminCtx(), f.job.ID, ScheduleJobInput{Date: "2024-06-10"})
	if err != nil {
		t.Fatalf("ScheduleJob: %v", err)
	}
	if view.Status != types.JobStatusScheduled {
		t.Fatalf("status = %s, want scheduled", view.Status)
	}
	if view.ScheduledDate != "2024-06-10" {
		t.Fatalf("scheduled date = %q, want 2024-06-10", view.ScheduledDate)
	}
	if view.CustomerName != "Overhead Door Co" {
		t.Fatalf("customer name = %q", view.CustomerName)
	}
	if view.SiteAddress != "19 Dock St" {
		t.Fatalf("site address = %q", view.SiteAddress)
	}
}

func TestScheduleJob_RejectsBadDate(t *testing.T) {
	te := newTestEnv(t)
	f := seedFixture(t, te.db, fixtureOpts{})

	_, err := te.jobService().ScheduleJob(adminCtx(), f.job.ID, ScheduleJobInput{Date: "06/10/2024"})
	if apierr.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestScheduleJob_CompletedJobConflicts(t *testing.T) {
	te := newTestEnv(t)
	f := seedFixture(t, te.db, fixtureOpts{status: types.JobStatusCompleted})

	_, err := te.jobService().ScheduleJob(adminCtx(), f.job.ID, ScheduleJobInput{Date: "2024-06-10"})
	if apierr.StatusOf(err) != http.StatusConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestSetStatus_RejectsUnknownStatus(t *testing.T) {
	te := newTestEnv(t)
	f := seedFixture(t, te.db, fixtureOpts{})

	_, err := te.jobService().SetStatus(adminCtx(), f.job.ID, "finished")
	if apierr.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetStatus_AppliesAnyKnownStatus(t *testing.T) {
	te := newTestEnv(t)
	f := seedFixture(t, te.db, fixtureOpts{status: types.JobStatusScheduled})

	view, err := te.jobService().SetStatus(adminCtx(), f.job.ID, "waiting_for_parts")
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if view.Status != types.JobStatusWaitingForParts {
		t.Fatalf("status = %s, want waiting_for_parts", view.Status)
	}
	if len(view.Doors) != 2 {
		t.Fatalf("expected 2 doors on view, got %d", len(view.Doors))
	}
}

func TestCancelJob_AppendsReasonToScope(t *testing.T) {
	te := newTestEnv(t)
	f := seedFixture(t, te.db, fixtureOpts{status: types.JobStatusScheduled})

	result, err := te.jobService().CancelJob(adminCtx(), f.job.ID, "customer no-show")
	if err != nil {
		t.Fatalf("CancelJob: %v", err)
	}
	if result.Status != types.JobStatusCancelled {
		t.Fatalf("status = %s, want cancelled", result.Status)
	}

	var job types.Job
	if err := te.db.First(&job, "id = ?", f.job.ID).Error; err != nil {
		t.Fatalf("failed to reload job: %v", err)
	}
	if !strings.Contains(job.JobScope, "Cancelled: customer no-show") {
		t.Fatalf("job scope missing cancellation note: %q", job.JobScope)
	}
}

func TestCancelJob_AlreadyCancelledIsIdempotent(t *testing.T) {
	te := newTestEnv(t)
	f := seedFixture(t, te.db, fixtureOpts{status: types.JobStatusCancelled})

	result, err := te.jobService().CancelJob(adminCtx(), f.job.ID, "")
	if err != nil {
		t.Fatalf("CancelJob: %v", err)
	}
	if result.Notice == "" {
		t.Fatalf("expected a notice on repeat cancellation")
	}
	if result.Status != types.JobStatusCancelled {
		t.Fatalf("status = %s, want cancelled", result.Status)
	}
}

func TestCancelJob_CompletedJobConflicts(t *testing.T) {
	te := newTestEnv(t)
	f := seedFixture(t, te.db, fixtureOpts{status: types.JobStatusCompleted})

	_, err := te.jobService().CancelJob(adminCtx(), f.job.ID, "")
	if apierr.StatusOf(err) != http.StatusConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}
