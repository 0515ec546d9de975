package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/doorflow/doorflow-backend/internal/types"
)

func TestMonthCode(t *testing.T) {
	cases := []struct {
		month time.Month
		want  string
	}{
		{time.January, "A"},
		{time.March, "C"},
		{time.June, "F"},
		{time.December, "L"},
	}
	for _, tc := range cases {
		if got := MonthCode(tc.month); got != tc.want {
			t.Fatalf("MonthCode(%s) = %q, want %q", tc.month, got, tc.want)
		}
	}
}

func TestFormatJobNumber(t *testing.T) {
	march := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if got := FormatJobNumber(march, 7); got != "C00724" {
		t.Fatalf("FormatJobNumber = %q, want C00724", got)
	}
	december := time.Date(2031, 12, 1, 0, 0, 0, 0, time.UTC)
	if got := FormatJobNumber(december, 123); got != "L12331" {
		t.Fatalf("FormatJobNumber = %q, want L12331", got)
	}
}

func TestGenerateJobNumber_StartsAtOne(t *testing.T) {
	te := newTestEnv(t)
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	got, err := generateJobNumber(context.Background(), te.db, te.jobRepo, now)
	if err != nil {
		t.Fatalf("generateJobNumber: %v", err)
	}
	if got != "C00124" {
		t.Fatalf("job number = %q, want C00124", got)
	}
}

func TestGenerateJobNumber_IncrementsWithinMonth(t *testing.T) {
	te := newTestEnv(t)
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	f := seedFixture(t, te.db, fixtureOpts{})
	for _, number := range []string{"C00124", "C00224"} {
		job := &types.Job{ID: uuid.New(), JobNumber: number, BidID: f.bid.ID, Status: types.JobStatusUnscheduled}
		if err := te.db.Create(job).Error; err != nil {
			t.Fatalf("failed to seed job %s: %v", number, err)
		}
	}

	got, err := generateJobNumber(context.Background(), te.db, te.jobRepo, now)
	if err != nil {
		t.Fatalf("generateJobNumber: %v", err)
	}
	if got != "C00324" {
		t.Fatalf("job number = %q, want C00324", got)
	}
}

func TestGenerateJobNumber_SkipsTakenCandidates(t *testing.T) {
	te := newTestEnv(t)
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	// One job in the month, but holding sequence 2: the count-based guess of
	// "C00224" collides and the probe must advance past it.
	f := seedFixture(t, te.db, fixtureOpts{})
	job := &types.Job{ID: uuid.New(), JobNumber: "C00224", BidID: f.bid.ID, Status: types.JobStatusUnscheduled}
	if err := te.db.Create(job).Error; err != nil {
		t.Fatalf("failed to seed job: %v", err)
	}

	got, err := generateJobNumber(context.Background(), te.db, te.jobRepo, now)
	if err != nil {
		t.Fatalf("generateJobNumber: %v", err)
	}
	if got != "C00324" {
		t.Fatalf("job number = %q, want C00324", got)
	}
}

func TestGenerateJobNumber_MonthsAreIndependent(t *testing.T) {
	te := newTestEnv(t)

	f := seedFixture(t, te.db, fixtureOpts{})
	job := &types.Job{ID: uuid.New(), JobNumber: "C00524", BidID: f.bid.ID, Status: types.JobStatusUnscheduled}
	if err := te.db.Create(job).Error; err != nil {
		t.Fatalf("failed to seed job: %v", err)
	}

	april := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	got, err := generateJobNumber(context.Background(), te.db, te.jobRepo, april)
	if err != nil {
		t.Fatalf("generateJobNumber: %v", err)
	}
	if got != "D00124" {
		t.Fatalf("job number = %q, want D00124", got)
	}
}
