package types

import (
	"testing"
	"time"
)

func TestParseJobStatus_AcceptsKnownStatuses(t *testing.T) {
	known := []string{"unscheduled", "scheduled", "in_progress", "completed", "cancelled", "waiting_for_parts", "on_hold"}
	for _, raw := range known {
		if _, ok := ParseJobStatus(raw); !ok {
			t.Fatalf("expected %q to parse", raw)
		}
	}
	if _, ok := ParseJobStatus("finished"); ok {
		t.Fatalf("expected unknown status to be rejected")
	}
	if _, ok := ParseJobStatus(""); ok {
		t.Fatalf("expected empty status to be rejected")
	}
}

func TestJobStatus_CanSchedule(t *testing.T) {
	cases := []struct {
		status JobStatus
		want   bool
	}{
		{JobStatusUnscheduled, true},
		{JobStatusScheduled, true},
		{JobStatusOnHold, true},
		{JobStatusWaitingForParts, true},
		{JobStatusInProgress, false},
		{JobStatusCompleted, false},
		{JobStatusCancelled, false},
	}
	for _, tc := range cases {
		if got := tc.status.CanSchedule(); got != tc.want {
			t.Fatalf("CanSchedule(%s) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestJobStatus_CanCancel(t *testing.T) {
	cases := []struct {
		status JobStatus
		want   bool
	}{
		{JobStatusUnscheduled, true},
		{JobStatusScheduled, true},
		{JobStatusInProgress, true},
		{JobStatusWaitingForParts, true},
		{JobStatusOnHold, true},
		{JobStatusCompleted, false},
		{JobStatusCancelled, false},
	}
	for _, tc := range cases {
		if got := tc.status.CanCancel(); got != tc.want {
			t.Fatalf("CanCancel(%s) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestJobStatus_CanStart(t *testing.T) {
	cases := []struct {
		status JobStatus
		want   bool
	}{
		{JobStatusScheduled, true},
		{JobStatusInProgress, true},
		{JobStatusUnscheduled, false},
		{JobStatusCompleted, false},
		{JobStatusCancelled, false},
		{JobStatusOnHold, false},
		{JobStatusWaitingForParts, false},
	}
	for _, tc := range cases {
		if got := tc.status.CanStart(); got != tc.want {
			t.Fatalf("CanStart(%s) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func strPtr(s string) *string { return &s }

func TestJob_VisibleTo(t *testing.T) {
	day := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	otherDay := day.AddDate(0, 0, 1)

	visible := &Job{IsVisible: true, TruckAssignment: strPtr("truck-2"), ScheduledDate: &day}
	if !visible.VisibleTo("truck-2", day) {
		t.Fatalf("expected visible job on matching truck and date")
	}
	if visible.VisibleTo("truck-1", day) {
		t.Fatalf("expected job hidden from other trucks")
	}
	if visible.VisibleTo("truck-2", otherDay) {
		t.Fatalf("expected job hidden on other dates")
	}

	hidden := &Job{IsVisible: false, TruckAssignment: strPtr("truck-2"), ScheduledDate: &day}
	if hidden.VisibleTo("truck-2", day) {
		t.Fatalf("expected is_visible=false to hide the job")
	}

	unassigned := &Job{IsVisible: true, ScheduledDate: &day}
	if unassigned.VisibleTo("truck-2", day) {
		t.Fatalf("expected unassigned job to be hidden")
	}

	emptyTruck := &Job{IsVisible: true, TruckAssignment: strPtr(""), ScheduledDate: &day}
	if emptyTruck.Assigned() {
		t.Fatalf("expected empty truck assignment to count as unassigned")
	}
}

func TestJob_VisibleTo_IgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2024, 3, 14, 7, 30, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 14, 22, 0, 0, 0, time.UTC)
	job := &Job{IsVisible: true, TruckAssignment: strPtr("truck-1"), ScheduledDate: &morning}
	if !job.VisibleTo("truck-1", evening) {
		t.Fatalf("expected date comparison to ignore time of day")
	}
}

func TestNormalizeDate_StripsTime(t *testing.T) {
	in := time.Date(2024, 7, 4, 16, 45, 12, 999, time.UTC)
	got := NormalizeDate(in)
	want := time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("NormalizeDate = %v, want %v", got, want)
	}
}

func TestDateEqual(t *testing.T) {
	a := time.Date(2024, 7, 4, 1, 0, 0, 0, time.UTC)
	b := time.Date(2024, 7, 4, 23, 59, 0, 0, time.UTC)
	c := time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC)
	if !DateEqual(a, b) {
		t.Fatalf("expected same calendar day to compare equal")
	}
	if DateEqual(a, c) {
		t.Fatalf("expected different days to compare unequal")
	}
}
