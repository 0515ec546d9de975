package types

import (
	"testing"
	"time"
)

func session(status SessionStatus, start time.Time, minutes float64) *TimeTrackingSession {
	s := &TimeTrackingSession{Status: status, StartTime: start, DurationMinutes: minutes}
	if status != SessionStatusActive {
		end := start.Add(time.Duration(minutes) * time.Minute)
		s.EndTime = &end
	}
	return s
}

func TestClose_StampsEndAndDuration(t *testing.T) {
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	s := &TimeTrackingSession{Status: SessionStatusActive, StartTime: start}

	s.Close(SessionStatusPaused, end)

	if s.Status != SessionStatusPaused {
		t.Fatalf("status = %s, want paused", s.Status)
	}
	if s.EndTime == nil || !s.EndTime.Equal(end) {
		t.Fatalf("end time not stamped: %v", s.EndTime)
	}
	if s.DurationMinutes != 90 {
		t.Fatalf("duration = %v, want 90", s.DurationMinutes)
	}
}

func TestDeriveTimingStatus(t *testing.T) {
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	cases := []struct {
		name     string
		sessions []*TimeTrackingSession
		want     TimingStatus
	}{
		{"empty log", nil, TimingNotStarted},
		{"single active", []*TimeTrackingSession{
			session(SessionStatusActive, base, 0),
		}, TimingStarted},
		{"latest paused", []*TimeTrackingSession{
			session(SessionStatusCompleted, base, 30),
			session(SessionStatusPaused, base.Add(time.Hour), 15),
		}, TimingPaused},
		{"resumed after pause", []*TimeTrackingSession{
			session(SessionStatusPaused, base, 30),
			session(SessionStatusActive, base.Add(time.Hour), 0),
		}, TimingStarted},
		{"completed", []*TimeTrackingSession{
			session(SessionStatusPaused, base, 30),
			session(SessionStatusCompleted, base.Add(time.Hour), 45),
		}, TimingCompleted},
		{"completed earlier, latest also closed", []*TimeTrackingSession{
			session(SessionStatusCompleted, base, 30),
			session(SessionStatusCompleted, base.Add(time.Hour), 45),
		}, TimingCompleted},
	}
	for _, tc := range cases {
		if got := DeriveTimingStatus(tc.sessions); got != tc.want {
			t.Fatalf("%s: DeriveTimingStatus = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestTotalMinutes_SumsClosedSessions(t *testing.T) {
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	sessions := []*TimeTrackingSession{
		session(SessionStatusPaused, base, 30),
		session(SessionStatusCompleted, base.Add(time.Hour), 45),
	}
	got := TotalMinutes(sessions, base.Add(3*time.Hour))
	if got != 75 {
		t.Fatalf("TotalMinutes = %v, want 75", got)
	}
}

func TestTotalMinutes_IncludesLiveElapsedTime(t *testing.T) {
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	now := base.Add(20 * time.Minute)
	sessions := []*TimeTrackingSession{
		session(SessionStatusPaused, base.Add(-2*time.Hour), 30),
		session(SessionStatusActive, base, 0),
	}
	got := TotalMinutes(sessions, now)
	if got != 50 {
		t.Fatalf("TotalMinutes = %v, want 50", got)
	}
}

func TestTotalMinutes_ConcurrentWorkersSumLinearly(t *testing.T) {
	// Two workers on the same job for the same hour bill two hours total.
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	sessions := []*TimeTrackingSession{
		session(SessionStatusCompleted, base, 60),
		session(SessionStatusCompleted, base, 60),
	}
	if got := TotalMinutes(sessions, base.Add(2*time.Hour)); got != 120 {
		t.Fatalf("TotalMinutes = %v, want 120", got)
	}
}

func TestTotalMinutes_EmptyLog(t *testing.T) {
	if got := TotalMinutes(nil, time.Now()); got != 0 {
		t.Fatalf("TotalMinutes = %v, want 0", got)
	}
}
