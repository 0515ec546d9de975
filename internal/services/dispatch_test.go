package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/doorflow/doorflow-backend/internal/apierr"
	"github.com/doorflow/doorflow-backend/internal/types"
)

var boardDay = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

func TestGetBoard_PartitionsUnassignedAndTrucks(t *testing.T) {
	te := newTestEnv(t)
	assigned := seedFixture(t, te.db, fixtureOpts{status: types.JobStatusScheduled, scheduledDate: &boardDay, truck: "truck-1", visible: true, jobOrder: 1})
	unassigned := seedFixture(t, te.db, fixtureOpts{status: types.JobStatusScheduled, scheduledDate: &boardDay})
	otherDay := boardDay.AddDate(0, 0, 1)
	seedFixture(t, te.db, fixtureOpts{status: types.JobStatusScheduled, scheduledDate: &otherDay, truck: "truck-2"})

	board, err := te.dispatchService().GetBoard(adminCtx(), boardDay)
	if err != nil {
		t.Fatalf("GetBoard: %v", err)
	}
	if board.Date != "2024-06-10" {
		t.Fatalf("board date = %q", board.Date)
	}
	if len(board.Unassigned) != 1 || board.Unassigned[0].JobID != unassigned.job.ID {
		t.Fatalf("unexpected unassigned bucket: %+v", board.Unassigned)
	}
	if len(board.Trucks["truck-1"]) != 1 || board.Trucks["truck-1"][0].JobID != assigned.job.ID {
		t.Fatalf("unexpected truck-1 list: %+v", board.Trucks["truck-1"])
	}
	if len(board.Trucks["truck-2"]) != 0 {
		t.Fatalf("job from another day leaked onto the board")
	}
	entry := board.Trucks["truck-1"][0]
	if entry.CustomerName != "Overhead Door Co" || entry.SiteAddress != "19 Dock St" {
		t.Fatalf("bid chain not denormalized: %+v", entry)
	}
}

func TestSaveBoard_AppliesAssignments(t *testing.T) {
	te := newTestEnv(t)
	f := seedFixture(t, te.db, fixtureOpts{status: types.JobStatusScheduled, scheduledDate: &boardDay})

	result, err := te.dispatchService().SaveBoard(adminCtx(), SaveBoardInput{
		Date: "2024-06-10",
		Assignments: []BoardAssignment{
			{JobID: f.job.ID, TruckAssignment: "truck-3", JobOrder: 2, IsVisible: true},
		},
	})
	if err != nil {
		t.Fatalf("SaveBoard: %v", err)
	}
	if !result.Success || result.Applied != 1 || len(result.Warnings) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	var job types.Job
	if err := te.db.First(&job, "id = ?", f.job.ID).Error; err != nil {
		t.Fatalf("failed to reload job: %v", err)
	}
	if job.TruckAssignment == nil || *job.TruckAssignment != "truck-3" {
		t.Fatalf("truck = %v, want truck-3", job.TruckAssignment)
	}
	if job.JobOrder != 2 || !job.IsVisible {
		t.Fatalf("order/visibility not applied: %+v", job)
	}
}

func TestSaveBoard_DroppedJobBecomesUnassigned(t *testing.T) {
	te := newTestEnv(t)
	kept := seedFixture(t, te.db, fixtureOpts{status: types.JobStatusScheduled, scheduledDate: &boardDay, truck: "truck-1", visible: true, jobOrder: 1})
	dropped := seedFixture(t, te.db, fixtureOpts{status: types.JobStatusScheduled, scheduledDate: &boardDay, truck: "truck-1", visible: true, jobOrder: 2})

	// The new board only lists the kept job; the dropped one is reset.
	_, err := te.dispatchService().SaveBoard(adminCtx(), SaveBoardInput{
		Date: "2024-06-10",
		Assignments: []BoardAssignment{
			{JobID: kept.job.ID, TruckAssignment: "truck-1", JobOrder: 1, IsVisible: true},
		},
	})
	if err != nil {
		t.Fatalf("SaveBoard: %v", err)
	}

	var job types.Job
	if err := te.db.First(&job, "id = ?", dropped.job.ID).Error; err != nil {
		t.Fatalf("failed to reload job: %v", err)
	}
	if job.TruckAssignment != nil {
		t.Fatalf("expected dropped job to be unassigned, got truck %v", *job.TruckAssignment)
	}
	if job.IsVisible {
		t.Fatalf("expected dropped job to be hidden")
	}
}

func TestSaveBoard_IsIdempotent(t *testing.T) {
	te := newTestEnv(t)
	f := seedFixture(t, te.db, fixtureOpts{status: types.JobStatusScheduled, scheduledDate: &boardDay})

	input := SaveBoardInput{
		Date: "2024-06-10",
		Assignments: []BoardAssignment{
			{JobID: f.job.ID, TruckAssignment: "truck-1", JobOrder: 1, IsVisible: true},
		},
	}
	for i := 0; i < 2; i++ {
		result, err := te.dispatchService().SaveBoard(adminCtx(), input)
		if err != nil {
			t.Fatalf("SaveBoard pass %d: %v", i+1, err)
		}
		if result.Applied != 1 {
			t.Fatalf("pass %d applied = %d, want 1", i+1, result.Applied)
		}
	}

	board, err := te.dispatchService().GetBoard(adminCtx(), boardDay)
	if err != nil {
		t.Fatalf("GetBoard: %v", err)
	}
	if len(board.Trucks["truck-1"]) != 1 {
		t.Fatalf("expected exactly one job on truck-1 after repeat save")
	}
}

func TestSaveBoard_WarnsOnUnknownJob(t *testing.T) {
	te := newTestEnv(t)
	f := seedFixture(t, te.db, fixtureOpts{status: types.JobStatusScheduled, scheduledDate: &boardDay})

	result, err := te.dispatchService().SaveBoard(adminCtx(), SaveBoardInput{
		Date: "2024-06-10",
		Assignments: []BoardAssignment{
			{JobID: uuid.New(), TruckAssignment: "truck-1", JobOrder: 1, IsVisible: true},
			{JobID: f.job.ID, TruckAssignment: "truck-2", JobOrder: 1, IsVisible: true},
		},
	})
	if err != nil {
		t.Fatalf("SaveBoard: %v", err)
	}
	if result.Applied != 1 {
		t.Fatalf("applied = %d, want 1", result.Applied)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("warnings = %v, want one", result.Warnings)
	}
}

func TestSaveBoard_WarnsOnWrongDateJob(t *testing.T) {
	te := newTestEnv(t)
	otherDay := boardDay.AddDate(0, 0, 3)
	f := seedFixture(t, te.db, fixtureOpts{status: types.JobStatusScheduled, scheduledDate: &otherDay})

	result, err := te.dispatchService().SaveBoard(adminCtx(), SaveBoardInput{
		Date: "2024-06-10",
		Assignments: []BoardAssignment{
			{JobID: f.job.ID, TruckAssignment: "truck-1", JobOrder: 1, IsVisible: true},
		},
	})
	if err != nil {
		t.Fatalf("SaveBoard: %v", err)
	}
	if result.Applied != 0 || len(result.Warnings) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestSaveBoard_NudgesUnscheduledToScheduled(t *testing.T) {
	te := newTestEnv(t)
	f := seedFixture(t, te.db, fixtureOpts{status: types.JobStatusUnscheduled, scheduledDate: &boardDay})

	_, err := te.dispatchService().SaveBoard(adminCtx(), SaveBoardInput{
		Date: "2024-06-10",
		Assignments: []BoardAssignment{
			{JobID: f.job.ID, TruckAssignment: "truck-1", JobOrder: 1, IsVisible: true},
		},
	})
	if err != nil {
		t.Fatalf("SaveBoard: %v", err)
	}

	var job types.Job
	if err := te.db.First(&job, "id = ?", f.job.ID).Error; err != nil {
		t.Fatalf("failed to reload job: %v", err)
	}
	if job.Status != types.JobStatusScheduled {
		t.Fatalf("status = %s, want scheduled", job.Status)
	}
}

func TestSaveBoard_KeepsInProgressStatus(t *testing.T) {
	te := newTestEnv(t)
	f := seedFixture(t, te.db, fixtureOpts{status: types.JobStatusInProgress, scheduledDate: &boardDay, truck: "truck-1", visible: true})

	_, err := te.dispatchService().SaveBoard(adminCtx(), SaveBoardInput{
		Date: "2024-06-10",
		Assignments: []BoardAssignment{
			{JobID: f.job.ID, TruckAssignment: "truck-2", JobOrder: 1, IsVisible: true},
		},
	})
	if err != nil {
		t.Fatalf("SaveBoard: %v", err)
	}

	var job types.Job
	if err := te.db.First(&job, "id = ?", f.job.ID).Error; err != nil {
		t.Fatalf("failed to reload job: %v", err)
	}
	if job.Status != types.JobStatusInProgress {
		t.Fatalf("status = %s, want in_progress preserved", job.Status)
	}
}

func TestSaveBoard_RejectsBadDate(t *testing.T) {
	te := newTestEnv(t)
	_, err := te.dispatchService().SaveBoard(adminCtx(), SaveBoardInput{Date: "June 10"})
	if apierr.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected validation error, got %v", err)
	}
}
